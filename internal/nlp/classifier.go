package nlp

import "strings"

// Signal weights. A rule's score is normalized by the score it would get
// if every keyword, pattern and keyword stem matched.
const (
	keywordWeight = 0.3
	patternWeight = 0.4
	stemWeight    = 0.2
)

// Classification is the winning intent and its normalized score.
type Classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// RuleScore is the breakdown for one rule, as returned by Explain.
type RuleScore struct {
	Intent         string  `json:"intent"`
	KeywordMatches int     `json:"keywordMatches"`
	PatternMatches int     `json:"patternMatches"`
	StemMatches    int     `json:"stemMatches"`
	Score          float64 `json:"score"`
	Normalized     float64 `json:"normalized"`
	Threshold      float64 `json:"threshold"`
	Candidate      bool    `json:"candidate"`
}

// Classifier scores messages against the intent rules of a RuleSet.
type Classifier struct {
	rules []IntentRule
}

func NewClassifier(rs *RuleSet) *Classifier {
	return &Classifier{rules: rs.Intents}
}

// Classify picks the rule with the highest normalized score among those
// that reach their threshold. Equal scores go to the rule listed first.
func (c *Classifier) Classify(text string, pre Preprocessed) Classification {
	best := Classification{Intent: IntentUnknown, Confidence: 0}
	found := false
	for _, s := range c.score(text, pre) {
		if !s.Candidate {
			continue
		}
		if !found || s.Normalized > best.Confidence {
			best = Classification{Intent: s.Intent, Confidence: s.Normalized}
			found = true
		}
	}
	return best
}

// Explain returns the per-rule scores in rule order.
func (c *Classifier) Explain(text string, pre Preprocessed) []RuleScore {
	return c.score(text, pre)
}

func (c *Classifier) score(text string, pre Preprocessed) []RuleScore {
	lower := strings.ToLower(text)
	stems := make(map[string]struct{}, len(pre.Stems))
	for _, s := range pre.Stems {
		stems[s] = struct{}{}
	}

	out := make([]RuleScore, 0, len(c.rules))
	for _, r := range c.rules {
		rs := RuleScore{Intent: r.Name, Threshold: r.Threshold}
		for i, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				rs.KeywordMatches++
			}
			if _, ok := stems[r.keywordStems[i]]; ok {
				rs.StemMatches++
			}
		}
		for _, p := range r.Patterns {
			if p.MatchString(lower) {
				rs.PatternMatches++
			}
		}
		rs.Score = keywordWeight*float64(rs.KeywordMatches) +
			patternWeight*float64(rs.PatternMatches) +
			stemWeight*float64(rs.StemMatches)
		if ceiling := r.maxScore(); ceiling > 0 {
			rs.Normalized = clamp01(rs.Score / ceiling)
		}
		rs.Candidate = rs.Normalized >= r.Threshold
		out = append(out, rs)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
