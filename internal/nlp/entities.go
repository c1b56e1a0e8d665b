package nlp

// Entities maps an entity name to its matches in first-occurrence order.
// A name is present only when it matched at least once.
type Entities map[string][]string

// First returns the earliest match for name.
func (e Entities) First(name string) (string, bool) {
	if v := e[name]; len(v) > 0 {
		return v[0], true
	}
	return "", false
}

// EntityExtractor runs the entity patterns of a RuleSet over raw text.
type EntityExtractor struct {
	patterns []EntityPattern
}

func NewEntityExtractor(rs *RuleSet) *EntityExtractor {
	return &EntityExtractor{patterns: rs.Entities}
}

// Extract returns every non-overlapping match of each pattern in text.
// Matching is case-insensitive and uses the text as given, not the
// preprocessed tokens.
func (x *EntityExtractor) Extract(text string) Entities {
	out := Entities{}
	for _, p := range x.patterns {
		if m := p.Pattern.FindAllString(text, -1); len(m) > 0 {
			out[p.Name] = m
		}
	}
	return out
}
