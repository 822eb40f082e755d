package retrieval

import (
	"fmt"

	"nytinsight/internal/model"
)

const (
	highScoreThreshold   = 6
	mediumScoreThreshold = 3
	minCorroborating     = 2
)

// EstimateConfidence grades retrieval adequacy from the best passage score and
// the number of distinct cited sources. It is a heuristic gate, not a probability.
func EstimateConfidence(bestScore, distinctSources int) model.ConfidenceResult {
	label := model.ConfidenceReviewNeeded
	switch {
	case bestScore >= highScoreThreshold && distinctSources >= minCorroborating:
		label = model.ConfidenceHigh
	case bestScore >= mediumScoreThreshold:
		label = model.ConfidenceMedium
	}

	reason := fmt.Sprintf("Only %d source retrieved; needs editorial review", distinctSources)
	if distinctSources >= minCorroborating {
		reason = fmt.Sprintf("%d sources retrieved; strong match on query", distinctSources)
	}
	return model.ConfidenceResult{Label: label, Reason: reason}
}
