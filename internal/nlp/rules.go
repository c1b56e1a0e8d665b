package nlp

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// IntentUnknown is reported when no rule clears its threshold.
const IntentUnknown = "unknown"

//go:embed rules.yaml
var defaultRulesYAML []byte

// RuleSpec is the on-disk form of the intent and entity tables.
type RuleSpec struct {
	Intents []struct {
		Name      string   `yaml:"name"`
		Keywords  []string `yaml:"keywords"`
		Patterns  []string `yaml:"patterns"`
		Threshold float64  `yaml:"threshold"`
	} `yaml:"intents"`
	Entities []struct {
		Name    string `yaml:"name"`
		Pattern string `yaml:"pattern"`
	} `yaml:"entities"`
}

// IntentRule is a compiled, immutable intent rule.
type IntentRule struct {
	Name      string
	Keywords  []string
	Patterns  []*regexp.Regexp
	Threshold float64

	// keywordStems[i] is Stem(Keywords[i]).
	keywordStems []string
}

// EntityPattern is a compiled, immutable entity pattern.
type EntityPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// RuleSet holds the intent rules in evaluation order and the entity
// patterns. It is built once and only read afterwards.
type RuleSet struct {
	Intents  []IntentRule
	Entities []EntityPattern
}

var ErrInvalidRules = errors.New("invalid rule set")

// DefaultRuleSet compiles the rule tables shipped with the binary.
func DefaultRuleSet() (*RuleSet, error) {
	return ParseRuleSet(defaultRulesYAML)
}

// LoadRuleSet reads a YAML rule file from path. An empty path selects the
// embedded defaults.
func LoadRuleSet(path string) (*RuleSet, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRuleSet()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRuleSet(b)
}

// ParseRuleSet decodes and validates a YAML rule document.
func ParseRuleSet(b []byte) (*RuleSet, error) {
	var spec RuleSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return spec.Compile()
}

// Compile validates the spec and compiles every regular expression.
func (s RuleSpec) Compile() (*RuleSet, error) {
	rs := &RuleSet{}
	seen := make(map[string]bool, len(s.Intents))
	for i, in := range s.Intents {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: intent #%d has no name", ErrInvalidRules, i)
		}
		if name == IntentUnknown {
			return nil, fmt.Errorf("%w: intent name %q is reserved", ErrInvalidRules, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate intent %q", ErrInvalidRules, name)
		}
		seen[name] = true
		if in.Threshold < 0 || in.Threshold > 1 {
			return nil, fmt.Errorf("%w: intent %q threshold %v outside [0,1]", ErrInvalidRules, name, in.Threshold)
		}
		rule := IntentRule{
			Name:      name,
			Threshold: in.Threshold,
		}
		for _, kw := range in.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			rule.Keywords = append(rule.Keywords, kw)
			rule.keywordStems = append(rule.keywordStems, Stem(kw))
		}
		for _, p := range in.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%w: intent %q pattern %q: %v", ErrInvalidRules, name, p, err)
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		rs.Intents = append(rs.Intents, rule)
	}

	seenEntity := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entity #%d has no name", ErrInvalidRules, i)
		}
		if seenEntity[name] {
			return nil, fmt.Errorf("%w: duplicate entity %q", ErrInvalidRules, name)
		}
		seenEntity[name] = true
		re, err := regexp.Compile("(?i)" + e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: entity %q pattern: %v", ErrInvalidRules, name, err)
		}
		rs.Entities = append(rs.Entities, EntityPattern{Name: name, Pattern: re})
	}
	return rs, nil
}

// maxScore is the score a rule reaches when every signal fires.
func (r IntentRule) maxScore() float64 {
	k := float64(len(r.Keywords))
	return keywordWeight*k + patternWeight*float64(len(r.Patterns)) + stemWeight*k
}
