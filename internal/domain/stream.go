package domain

import (
	"context"
	"time"
)

// RawMessage is an unprocessed scenario message from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ScoredScenario pairs a scenario with its prediction for the sink topic.
type ScoredScenario struct {
	ID       string           `json:"id"`
	Scenario CrashScenario    `json:"scenario"`
	Result   PredictionResult `json:"result"`
	ScoredAt time.Time        `json:"scored_at"`
}
