package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/pipeline"
	"github.com/couchcryptid/crash-severity-service/internal/schema"
)

func TestScoringTransformer_Transform(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	raw := scenarioMessage(t, "scn-42", 0, func(s *domain.CrashScenario) {
		s.VehicleType = domain.VehicleMotorcycle
		s.TimeOfDay = domain.TimeNight
	})

	tfm := pipeline.NewTransformer(domain.NewLocalScorer(), discardLogger())
	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "scn-42", out.ID)
	assert.Equal(t, domain.VehicleMotorcycle, out.Scenario.VehicleType)
	assert.Equal(t, domain.Score(out.Scenario), out.Result)
	assert.Equal(t, fakeClock.Now(), out.ScoredAt)
}

func TestScoringTransformer_KeylessGetsUUID(t *testing.T) {
	raw := scenarioMessage(t, "", 0, nil)

	tfm := pipeline.NewTransformer(domain.NewLocalScorer(), discardLogger())
	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	_, err = uuid.Parse(out.ID)
	assert.NoError(t, err, "keyless message should get a UUID id")
}

func TestScoringTransformer_RejectsInvalid(t *testing.T) {
	tfm := pipeline.NewTransformer(domain.NewLocalScorer(), discardLogger())

	t.Run("malformed", func(t *testing.T) {
		_, err := tfm.Transform(context.Background(), domain.RawMessage{Value: []byte("{")})
		require.ErrorIs(t, err, schema.ErrMalformed)
	})

	t.Run("out of contract", func(t *testing.T) {
		raw := scenarioMessage(t, "k", 0, func(s *domain.CrashScenario) { s.CrashSpeed = 500 })
		_, err := tfm.Transform(context.Background(), raw)

		var ve *schema.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Details[0], "crashSpeed")
	})

	t.Run("scorer failure", func(t *testing.T) {
		tfm := pipeline.NewTransformer(failingScorer{}, discardLogger())
		_, err := tfm.Transform(context.Background(), scenarioMessage(t, "k", 0, nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "score scenario")
	})
}
