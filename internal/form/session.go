// Package form holds the in-progress crash scenario while it is collected
// across the four wizard steps, and guards its submission to a scorer.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
)

// TotalSteps is the number of wizard steps: crash details, vehicle info,
// driver info, environment.
const TotalSteps = 4

var (
	// ErrNotFinalStep is returned by Submit before the last step is reached.
	ErrNotFinalStep = errors.New("form: submit is only allowed on the final step")

	// ErrSubmissionInFlight is returned when Submit is called while another
	// submission has not returned yet.
	ErrSubmissionInFlight = errors.New("form: a submission is already in flight")
)

// Session is one user's pass through the wizard. It has a single writer;
// only the in-flight flag may be read from other goroutines.
type Session struct {
	id       string
	scenario domain.CrashScenario
	step     int
	result   *domain.PredictionResult
	inFlight atomic.Bool
}

// NewSession starts a session on step 1 holding the default scenario.
func NewSession(id string) *Session {
	return &Session{
		id:       id,
		scenario: domain.DefaultScenario(),
		step:     1,
	}
}

func (s *Session) ID() string { return s.id }

// Get returns a copy of the current scenario.
func (s *Session) Get() domain.CrashScenario {
	return s.scenario
}

// Merge writes the non-nil fields of p over the current scenario. It does not
// validate; callers clamp with domain.Patch.Clamped first.
func (s *Session) Merge(p domain.Patch) {
	s.scenario = p.Apply(s.scenario)
}

// Reset restores the default scenario, drops any result and returns to step 1.
func (s *Session) Reset() {
	s.scenario = domain.DefaultScenario()
	s.result = nil
	s.step = 1
}

func (s *Session) Step() int { return s.step }

// Next advances one step, stopping at TotalSteps.
func (s *Session) Next() int {
	if s.step < TotalSteps {
		s.step++
	}
	return s.step
}

// Prev goes back one step, stopping at 1.
func (s *Session) Prev() int {
	if s.step > 1 {
		s.step--
	}
	return s.step
}

// Submitting reports whether a submission is in flight.
func (s *Session) Submitting() bool {
	return s.inFlight.Load()
}

// Submit sends the current scenario to scorer and stores the result. It
// blocks until the scorer returns or ctx is done. On failure the scenario,
// step and any previous result are left as they were so the user can retry.
func (s *Session) Submit(ctx context.Context, scorer domain.Scorer) (domain.PredictionResult, error) {
	if s.step != TotalSteps {
		return domain.PredictionResult{}, ErrNotFinalStep
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.PredictionResult{}, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	result, err := scorer.Score(ctx, s.scenario)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("submit scenario: %w", err)
	}
	s.result = &result
	return result, nil
}

// Result returns the stored result, if a submission has succeeded since the
// last Reset.
func (s *Session) Result() (domain.PredictionResult, bool) {
	if s.result == nil {
		return domain.PredictionResult{}, false
	}
	return *s.result, true
}
