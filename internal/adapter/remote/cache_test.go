package remote

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/observability"
)

type countingScorer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *countingScorer) Score(_ context.Context, s domain.CrashScenario) (domain.PredictionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.PredictionResult{}, m.err
	}
	return domain.Score(s), nil
}

func (m *countingScorer) CheckReadiness(_ context.Context) error { return m.err }

func TestCachedScorer_Hit(t *testing.T) {
	inner := &countingScorer{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedScorer(inner, 10, metrics)

	r1, err := cached.Score(context.Background(), domain.DefaultScenario())
	require.NoError(t, err)
	r2, err := cached.Score(context.Background(), domain.DefaultScenario())
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RemoteCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RemoteCache.WithLabelValues("miss")), 0)
}

func TestCachedScorer_DifferentScenariosMiss(t *testing.T) {
	inner := &countingScorer{}
	cached := NewCachedScorer(inner, 10, nil)

	s := domain.DefaultScenario()
	_, _ = cached.Score(context.Background(), s)
	s.CrashSpeed = 61
	_, _ = cached.Score(context.Background(), s)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedScorer_ErrorsNotCached(t *testing.T) {
	inner := &countingScorer{err: errors.New("backend down")}
	cached := NewCachedScorer(inner, 10, nil)

	_, err := cached.Score(context.Background(), domain.DefaultScenario())
	require.Error(t, err)
	assert.Equal(t, 0, cached.Len())

	inner.err = nil
	_, err = cached.Score(context.Background(), domain.DefaultScenario())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedScorer_Readiness(t *testing.T) {
	inner := &countingScorer{err: errors.New("not loaded")}
	assert.Error(t, NewCachedScorer(inner, 1, nil).CheckReadiness(context.Background()))
	assert.NoError(t, NewCachedScorer(domain.NewLocalScorer(), 1, nil).CheckReadiness(context.Background()))
}

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[string](3)

	c.put("a", "A")
	c.put("b", "B")

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C")

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", v)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.get("a")
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "A1")
	c.put("a", "A2")

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", v)
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_CapacityOne(t *testing.T) {
	c := newLRUCache[int](0)

	c.put("a", 1)
	c.put("b", 2)

	_, ok := c.get("a")
	assert.False(t, ok)
	v, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
