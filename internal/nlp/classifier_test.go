package nlp

import (
	"math"
	"testing"
)

func mustDefaultRules(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := DefaultRuleSet()
	if err != nil {
		t.Fatalf("DefaultRuleSet failed: %v", err)
	}
	return rs
}

func classify(c *Classifier, text string) Classification {
	return c.Classify(text, Preprocess(text))
}

func TestClassifyScenarios(t *testing.T) {
	c := NewClassifier(mustDefaultRules(t))

	tests := []struct {
		text    string
		intent  string
		minConf float64
	}{
		{"Hello", "greeting", 0.8},
		{"hi there", "greeting", 0.6},
		{"track ABC123XY", "track_package", 0.99},
		{"what is the current location of my package", "location_update", 0.99},
		{"how much does shipping cost", "cost_inquiry", 0.99},
		{"I want to file a complaint, my parcel is damaged", "file_complaint", 0.99},
		{"I need to speak to a support agent", "support_contact", 0.99},
		{"bye", "goodbye", 0.99},
		{"where is my package", "track_package", 0.3},
		{"Good morning", "greeting", 0.6},
		{"good evening", "greeting", 0.6},
		{"123456789", "track_package", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := classify(c, tt.text)
			if got.Intent != tt.intent {
				t.Fatalf("expected intent '%s', got '%s' (%.3f)", tt.intent, got.Intent, got.Confidence)
			}
			if got.Confidence < tt.minConf {
				t.Errorf("expected confidence >= %.2f, got %.3f", tt.minConf, got.Confidence)
			}
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	c := NewClassifier(mustDefaultRules(t))

	for _, text := range []string{"xyzzy plugh quux", "", "   ", "!!!"} {
		got := classify(c, text)
		if got.Intent != IntentUnknown {
			t.Errorf("%q: expected unknown, got '%s'", text, got.Intent)
		}
		if got.Confidence != 0 {
			t.Errorf("%q: expected confidence 0, got %v", text, got.Confidence)
		}
	}
}

func TestClassifyDeterministicAndBounded(t *testing.T) {
	c := NewClassifier(mustDefaultRules(t))
	inputs := []string{
		"Hello, can you track ABC123XY for me?",
		"my package is late and damaged, I want to complain",
		"how much for 5kg express to Pune",
		"thank you, that's all",
		"CALL ME 9876543210",
		"ünïcödé ß text",
	}
	for _, text := range inputs {
		first := classify(c, text)
		for i := 0; i < 5; i++ {
			if again := classify(c, text); again != first {
				t.Fatalf("%q: classification changed between calls: %+v vs %+v", text, first, again)
			}
		}
		if first.Confidence < 0 || first.Confidence > 1 || math.IsNaN(first.Confidence) {
			t.Errorf("%q: confidence %v outside [0,1]", text, first.Confidence)
		}
		if first.Intent == IntentUnknown && first.Confidence != 0 {
			t.Errorf("%q: unknown must carry 0 confidence, got %v", text, first.Confidence)
		}
	}
}

func TestClassifyTieGoesToFirstRule(t *testing.T) {
	rs, err := ParseRuleSet([]byte(`
intents:
  - name: first
    keywords: [parcel]
    threshold: 0.1
  - name: second
    keywords: [parcel]
    threshold: 0.1
`))
	if err != nil {
		t.Fatalf("ParseRuleSet failed: %v", err)
	}
	got := classify(NewClassifier(rs), "parcel")
	if got.Intent != "first" {
		t.Errorf("expected tie to resolve to 'first', got '%s'", got.Intent)
	}
	if got.Confidence != 1 {
		t.Errorf("expected confidence 1, got %v", got.Confidence)
	}
}

func TestClassifyThreshold(t *testing.T) {
	rs, err := ParseRuleSet([]byte(`
intents:
  - name: strict
    keywords: [refund, money]
    threshold: 0.9
`))
	if err != nil {
		t.Fatalf("ParseRuleSet failed: %v", err)
	}
	c := NewClassifier(rs)

	// one of two keywords: (0.3+0.2)/1.0 = 0.5
	if got := classify(c, "refund please"); got.Intent != IntentUnknown {
		t.Errorf("expected unknown below threshold, got '%s' (%.2f)", got.Intent, got.Confidence)
	}
	if got := classify(c, "refund my money"); got.Intent != "strict" {
		t.Errorf("expected 'strict', got '%s' (%.2f)", got.Intent, got.Confidence)
	}
}

func TestClassifyEmptyRuleScoresZero(t *testing.T) {
	rs, err := ParseRuleSet([]byte(`
intents:
  - name: empty
    threshold: 0.5
`))
	if err != nil {
		t.Fatalf("ParseRuleSet failed: %v", err)
	}
	scores := NewClassifier(rs).Explain("anything", Preprocess("anything"))
	if len(scores) != 1 || scores[0].Normalized != 0 || scores[0].Candidate {
		t.Errorf("expected a single zero, non-candidate score, got %+v", scores)
	}
}

func TestExplainBreakdown(t *testing.T) {
	c := NewClassifier(mustDefaultRules(t))
	text := "track ABC123XY"
	for _, s := range c.Explain(text, Preprocess(text)) {
		if s.Intent != "track_package" {
			continue
		}
		if s.KeywordMatches != 1 || s.PatternMatches != 2 || s.StemMatches != 1 {
			t.Errorf("unexpected breakdown: %+v", s)
		}
		if !s.Candidate {
			t.Error("expected track_package to be a candidate")
		}
		return
	}
	t.Fatal("track_package missing from Explain output")
}
