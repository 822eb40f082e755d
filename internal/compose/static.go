package compose

import (
	"context"

	"nytinsight/internal/model"
)

// Static returns the same editorial answer for every question.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Compose(_ context.Context, _ Request) (*Composition, error) {
	return &Composition{
		Answer: "Ceasefire talks continue but remain fragile. Negotiators are trying to bridge gaps on the terms " +
			"of a temporary halt in fighting and the release of hostages and prisoners, but key disagreements " +
			"remain and timelines are uncertain.",
		ELI12: "People are trying to pause the fighting for a while. They are discussing what each side must do, " +
			"like releasing people being held. They are talking, but they haven’t agreed yet.",
		RelevanceNYC: "For New Yorkers, the conflict affects U.S. foreign policy decisions, global economic " +
			"stability, and local communities with family, cultural, or political ties to the region.",
		TruthLens: []model.FactStatus{
			{Sentence: "Negotiators are still in talks.", Label: model.FactConfirmed},
			{Sentence: "A ceasefire agreement could happen soon.", Label: model.FactDeveloping},
			{Sentence: "The final deal terms and timing are uncertain.", Label: model.FactUncertain},
		},
	}, nil
}
