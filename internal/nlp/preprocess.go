// Package nlp holds the text pipeline behind the chatbot: preprocessing,
// entity extraction and rule-based intent classification. Everything in
// here is a pure function of its input and the compiled RuleSet.
package nlp

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/cases"
)

// Preprocessed is the tokenized form of a message. Stems[i] is the stem of
// Tokens[i].
type Preprocessed struct {
	Tokens []string `json:"tokens"`
	Stems  []string `json:"stems"`
}

// Preprocess case-folds text, splits it into alphanumeric tokens, drops
// stopwords and stems what is left.
func Preprocess(text string) Preprocessed {
	out := Preprocessed{Tokens: []string{}, Stems: []string{}}
	// cases.Caser is stateful, so one per call.
	folded := cases.Fold().String(text)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range fields {
		if isStopword(tok) {
			continue
		}
		out.Tokens = append(out.Tokens, tok)
		out.Stems = append(out.Stems, Stem(tok))
	}
	return out
}

// Stem returns the English (Porter2) stem of a single word.
func Stem(word string) string {
	return english.Stem(word, false)
}

func isStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

// stopwords is the NLTK English list without the apostrophe forms, which
// never survive tokenization.
var stopwords = toSet(
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your",
	"yours", "yourself", "yourselves", "he", "him", "his", "himself", "she",
	"her", "hers", "herself", "it", "its", "itself", "they", "them", "their",
	"theirs", "themselves", "what", "which", "who", "whom", "this", "that",
	"these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
	"the", "and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from",
	"up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too",
	"very", "s", "t", "can", "will", "just", "don", "should", "now", "d",
	"ll", "m", "o", "re", "ve", "y", "ain", "aren", "couldn", "didn", "doesn",
	"hadn", "hasn", "haven", "isn", "ma", "mightn", "mustn", "needn", "shan",
	"shouldn", "wasn", "weren", "won", "wouldn",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
