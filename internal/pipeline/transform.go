package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/schema"
)

// ScoringTransformer implements Transformer by validating the message body
// against the scenario schema and scoring it with a domain.Scorer.
type ScoringTransformer struct {
	scorer domain.Scorer
	logger *slog.Logger
}

// NewTransformer creates a ScoringTransformer backed by scorer.
func NewTransformer(scorer domain.Scorer, logger *slog.Logger) *ScoringTransformer {
	return &ScoringTransformer{
		scorer: scorer,
		logger: logger,
	}
}

// Transform keeps the source message key as the result ID so downstream
// consumers can correlate; keyless messages get a fresh UUID.
func (t *ScoringTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.ScoredScenario, error) {
	scenario, err := schema.DecodeScenario(raw.Value)
	if err != nil {
		return domain.ScoredScenario{}, err
	}

	result, err := t.scorer.Score(ctx, scenario)
	if err != nil {
		return domain.ScoredScenario{}, fmt.Errorf("score scenario: %w", err)
	}

	id := string(raw.Key)
	if id == "" {
		id = uuid.NewString()
	}

	t.logger.Debug("scenario scored", "id", id, "severity", result.Severity, "confidence", result.Confidence)

	return domain.ScoredScenario{
		ID:       id,
		Scenario: scenario,
		Result:   result,
		ScoredAt: domain.Now().UTC(),
	}, nil
}
