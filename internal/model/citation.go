package model

// Citation is the externally visible reference to a supporting passage.
type Citation struct {
	Title     string `json:"title"`
	URL       string `json:"url,omitempty"`
	Paragraph int    `json:"paragraph"`
	Snippet   string `json:"snippet"`
}
