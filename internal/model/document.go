package model

// Document is one article file loaded from the corpus directory.
// URL is empty when neither the catalog nor the file provides one.
type Document struct {
	SourceID string `json:"source_id"`
	Raw      string `json:"-"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
}

// Passage is a single retained line of a document. Index counts only the
// lines that survived segmentation.
type Passage struct {
	SourceID string
	Index    int
	Text     string
	Score    int
}
