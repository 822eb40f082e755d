package model

type ConfidenceLabel string

const (
	ConfidenceHigh         ConfidenceLabel = "High"
	ConfidenceMedium       ConfidenceLabel = "Medium"
	ConfidenceReviewNeeded ConfidenceLabel = "Review Needed"
)

type ConfidenceResult struct {
	Label  ConfidenceLabel `json:"label"`
	Reason string          `json:"reason"`
}

type FactLabel string

const (
	FactConfirmed  FactLabel = "confirmed"
	FactDeveloping FactLabel = "developing"
	FactUncertain  FactLabel = "uncertain"
)

func (l FactLabel) Valid() bool {
	switch l {
	case FactConfirmed, FactDeveloping, FactUncertain:
		return true
	}
	return false
}

// FactStatus annotates one sentence of the answer with how settled it is.
type FactStatus struct {
	Sentence string    `json:"sentence"`
	Label    FactLabel `json:"label"`
}

// AskResult is the response body of an ask call.
type AskResult struct {
	Answer           string          `json:"answer"`
	Confidence       ConfidenceLabel `json:"confidence"`
	ConfidenceReason string          `json:"confidence_reason"`
	Citations        []Citation      `json:"citations"`
	ELI12            string          `json:"eli12,omitempty"`
	TruthLens        []FactStatus    `json:"truth_lens,omitempty"`
	RelevanceNYC     string          `json:"relevance_nyc,omitempty"`
}
