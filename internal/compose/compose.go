// Package compose turns ranked evidence into the answer text shown to the
// reader. The retrieval pipeline only depends on the Composer interface.
package compose

import (
	"context"

	"nytinsight/internal/model"
)

type Request struct {
	Question   string
	Citations  []model.Citation
	Confidence model.ConfidenceResult
}

// Composition is what a composer produces. Everything except Answer is optional.
type Composition struct {
	Answer       string
	ELI12        string
	RelevanceNYC string
	TruthLens    []model.FactStatus
}

type Composer interface {
	Compose(ctx context.Context, req Request) (*Composition, error)
}
