package retrieval

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"nytinsight/internal/model"
)

// MinPassageLength is the trimmed length a line must exceed to become a passage.
const MinPassageLength = 40

const byteOrderMark = '\uFEFF'

// Segment splits a document into line-level passages, dropping lines whose
// trimmed length is at or below MinPassageLength. Passage indexes count only
// retained lines.
func Segment(doc model.Document) []model.Passage {
	var passages []model.Passage
	raw := strings.TrimPrefix(doc.Raw, string(byteOrderMark))
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if utf8.RuneCountInString(strings.TrimFunc(line, isTrimmable)) <= MinPassageLength {
			continue
		}
		passages = append(passages, model.Passage{
			SourceID: doc.SourceID,
			Index:    len(passages),
			Text:     line,
		})
	}
	return passages
}

// isTrimmable reports whitespace, counting a stray byte order mark as blank.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == byteOrderMark
}
