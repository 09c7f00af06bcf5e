package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/crash-severity-service/internal/config"
	"github.com/couchcryptid/crash-severity-service/internal/domain"
)

// Header keys set on every scored message.
const (
	HeaderSeverity = "severity"
	HeaderScoredAt = "scored_at"
)

// Writer produces scored scenarios to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes the scored scenarios in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, scored []domain.ScoredScenario) error {
	if len(scored) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(scored))
	for i := range scored {
		msg, err := serializeToMessage(scored[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d scored scenarios: %w", len(msgs), err)
	}
	w.logger.Debug("scored batch written", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ScoredScenario keyed by its ID. The hash
// balancer keeps every result for one key on the same partition.
func serializeToMessage(s domain.ScoredScenario) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scored scenario: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderSeverity, Value: []byte(s.Result.Severity)},
			{Key: HeaderScoredAt, Value: []byte(s.ScoredAt.Format(time.RFC3339))},
		},
	}, nil
}
