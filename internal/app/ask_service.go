package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"nytinsight/internal/compose"
	"nytinsight/internal/model"
	"nytinsight/internal/retrieval"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingQuestion = fmt.Errorf("%w: missing question", ErrInvalidInput)
)

type DocumentSource interface {
	Load(ctx context.Context) ([]model.Document, error)
}

// AskService runs the retrieval pipeline for one question at a time. It holds
// no per-request state, so a single instance serves concurrent requests.
type AskService struct {
	docs     DocumentSource
	composer compose.Composer
}

func NewAskService(docs DocumentSource, composer compose.Composer) *AskService {
	if composer == nil {
		composer = compose.NewStatic()
	}
	return &AskService{docs: docs, composer: composer}
}

type AskInput struct {
	Question string
}

// Ask loads the corpus, ranks passages against the question, grades the
// evidence and asks the composer for the answer text.
func (s *AskService) Ask(ctx context.Context, input AskInput) (*model.AskResult, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, ErrMissingQuestion
	}

	docs, err := s.docs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus failed: %w", err)
	}

	ranked := retrieval.Rank(docs, retrieval.ParseQuery(question))
	confidence := retrieval.EstimateConfidence(ranked.BestScore, ranked.DistinctSources)
	log.Printf("ask: documents=%d passages=%d best_score=%d sources=%d confidence=%q",
		len(docs), ranked.Considered, ranked.BestScore, ranked.DistinctSources, confidence.Label)

	comp, err := s.composer.Compose(ctx, compose.Request{
		Question:   question,
		Citations:  ranked.Citations,
		Confidence: confidence,
	})
	if err != nil {
		return nil, err
	}

	citations := ranked.Citations
	if citations == nil {
		citations = []model.Citation{}
	}
	return &model.AskResult{
		Answer:           comp.Answer,
		Confidence:       confidence.Label,
		ConfidenceReason: confidence.Reason,
		Citations:        citations,
		ELI12:            comp.ELI12,
		TruthLens:        comp.TruthLens,
		RelevanceNYC:     comp.RelevanceNYC,
	}, nil
}

// SourceSummary describes one loaded document and how many passages it yields.
type SourceSummary struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Passages int    `json:"passages"`
}

func (s *AskService) Sources(ctx context.Context) ([]SourceSummary, error) {
	docs, err := s.docs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus failed: %w", err)
	}
	out := make([]SourceSummary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, SourceSummary{
			SourceID: doc.SourceID,
			Title:    doc.Title,
			URL:      doc.URL,
			Passages: len(retrieval.Segment(doc)),
		})
	}
	return out, nil
}
