package retrieval

import (
	"strings"
	"unicode"
)

// Query holds the lowercased terms of a question. Duplicate terms are kept,
// so a repeated word counts once per repetition.
type Query struct {
	Terms []string
}

func ParseQuery(question string) Query {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			return r
		}
		return -1
	}, strings.ToLower(question))
	return Query{Terms: strings.Fields(cleaned)}
}

// Score counts the query terms that occur as substrings of text, ignoring case.
func (q Query) Score(text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, term := range q.Terms {
		if strings.Contains(lower, term) {
			score++
		}
	}
	return score
}

func Score(text, question string) int {
	return ParseQuery(question).Score(text)
}
