//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("crash-severity-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureScenarios covers each severity band once.
func fixtureScenarios() map[string]domain.CrashScenario {
	minor := domain.DefaultScenario()

	severe := domain.DefaultScenario()
	severe.CrashSpeed = 110
	severe.SeatbeltUsed = false

	fatal := domain.DefaultScenario()
	fatal.CrashSpeed = 95
	fatal.AirbagDeployed = false
	fatal.CrashType = domain.CrashSide
	fatal.Weather = domain.WeatherRain
	fatal.Road = domain.RoadWet
	fatal.AlcoholLevel = 0.1
	fatal.TimeOfDay = domain.TimeNight

	return map[string]domain.CrashScenario{
		"minor":  minor,
		"severe": severe,
		"fatal":  fatal,
	}
}
