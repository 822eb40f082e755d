package retrieval

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"nytinsight/internal/model"
)

const (
	// TopK is the number of ranked passages turned into citations before dedup.
	TopK             = 5
	SnippetLength    = 160
	TruncationMarker = "..."
)

// Citation is a ranked citation that still carries the id of its document.
// The id is only used for dedup and never leaves this package.
type Citation struct {
	model.Citation
	SourceID string
}

// Key identifies the document a citation points to: its URL, or the source
// id and title when there is no URL.
func (c Citation) Key() string {
	if c.URL != "" {
		return c.URL
	}
	return c.SourceID + "::" + c.Title
}

type RankResult struct {
	Citations       []model.Citation
	DistinctSources int
	BestScore       int
	Considered      int
}

// Rank scores every passage of docs against q, keeps the TopK best (equal
// scores stay in scan order) and collapses them to one citation per document.
// The result does not depend on the order of docs beyond tie-breaking.
func Rank(docs []model.Document, q Query) RankResult {
	byID := make(map[string]model.Document, len(docs))
	var passages []model.Passage
	for _, doc := range docs {
		if _, seen := byID[doc.SourceID]; !seen {
			byID[doc.SourceID] = doc
		}
		for _, p := range Segment(doc) {
			p.Score = q.Score(p.Text)
			passages = append(passages, p)
		}
	}

	slices.SortStableFunc(passages, func(a, b model.Passage) int {
		return cmp.Compare(b.Score, a.Score)
	})

	best := 0
	if len(passages) > 0 {
		best = passages[0].Score
	}

	top := passages[:min(TopK, len(passages))]
	ranked := make([]Citation, 0, len(top))
	for _, p := range top {
		ranked = append(ranked, NewCitation(p, byID[p.SourceID]))
	}

	deduped := Dedupe(ranked)
	public := make([]model.Citation, len(deduped))
	for i, c := range deduped {
		public[i] = c.Citation
	}

	return RankResult{
		Citations:       public,
		DistinctSources: len(public),
		BestScore:       best,
		Considered:      len(passages),
	}
}

func NewCitation(p model.Passage, doc model.Document) Citation {
	title := doc.Title
	if title == "" {
		title = p.SourceID
	}
	return Citation{
		Citation: model.Citation{
			Title:     title,
			URL:       doc.URL,
			Paragraph: p.Index + 1,
			Snippet:   Snippet(p.Text),
		},
		SourceID: p.SourceID,
	}
}

// Snippet returns the first SnippetLength characters of text, followed by
// TruncationMarker when anything was cut.
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= SnippetLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:SnippetLength]) + TruncationMarker
}

// Dedupe keeps the first citation for each Key, preserving order.
func Dedupe(citations []Citation) []Citation {
	seen := make(map[string]struct{}, len(citations))
	out := make([]Citation, 0, len(citations))
	for _, c := range citations {
		key := c.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
