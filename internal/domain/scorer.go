package domain

import "context"

// Scorer produces a prediction for a complete scenario. The local engine and
// the remote backend client both satisfy it.
type Scorer interface {
	Score(ctx context.Context, s CrashScenario) (PredictionResult, error)
}

// LocalScorer runs the in-process rule table.
type LocalScorer struct{}

// NewLocalScorer returns a scorer backed by Score.
func NewLocalScorer() LocalScorer {
	return LocalScorer{}
}

// Score never fails; the context is accepted to satisfy Scorer.
func (LocalScorer) Score(_ context.Context, s CrashScenario) (PredictionResult, error) {
	return Score(s), nil
}

// CheckReadiness always succeeds: the rule table is compiled in.
func (LocalScorer) CheckReadiness(_ context.Context) error {
	return nil
}
