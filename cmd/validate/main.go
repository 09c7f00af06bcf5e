// Command validate checks generated crash fixtures end to end: every scenario
// is inside the request schema, the scoring engine's invariants hold for it,
// and the scored stream fixture matches what the engine produces today.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -scenarios data/mock/crash_scenarios.yaml \
//	  -scored data/mock/crash_predictions.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/scenariofile"
	"github.com/couchcryptid/crash-severity-service/internal/schema"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	scenariosPath := flag.String("scenarios", "", "path to the scenario list (.yaml or .json)")
	scoredPath := flag.String("scored", "", "path to the scored stream JSON fixture")
	flag.Parse()

	if *scenariosPath == "" || *scoredPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *scenariosPath, *scoredPath); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, scenariosPath, scoredPath string) int {
	fmt.Fprintln(w, "=== Crash Fixture Integrity Validation ===")

	scenarios, err := scenariofile.LoadAll(scenariosPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load scenarios: %v\n", err)
		return 1
	}

	scored, err := loadJSON[domain.ScoredScenario](scoredPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load scored fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchemaConformance(scenarios),
		validateEngineInvariants(scenarios),
		validateScoredFixture(scored, scenarios),
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d scenarios, %d scored\n", len(scenarios), len(scored))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Schema Conformance ──
// Every scenario must be accepted by POST /predict.

func validateSchemaConformance(scenarios []domain.CrashScenario) *phase {
	p := &phase{name: "Phase 1: Schema Conformance"}
	for i, s := range scenarios {
		data, err := json.Marshal(s)
		if err != nil {
			p.errorf("scenario %d: marshal: %v", i, err)
			continue
		}
		if err := schema.Validate(data); err != nil {
			p.errorf("scenario %d: %v", i, err)
		}
		if s.DrivingExperience > domain.MaxExperience(s.DriverAge) {
			p.errorf("scenario %d: experience %d exceeds age %d minus %d",
				i, s.DrivingExperience, s.DriverAge, domain.MinDriverAge)
		}
	}
	return p
}

// ── Phase 2: Engine Invariants ──

func validateEngineInvariants(scenarios []domain.CrashScenario) *phase {
	p := &phase{name: "Phase 2: Engine Invariants"}
	for i, s := range scenarios {
		pf := func(format string, args ...any) {
			p.errorf("scenario %d: "+format, append([]any{i}, args...)...)
		}

		r := domain.Score(s)
		if again := domain.Score(s); !reflect.DeepEqual(r, again) {
			pf("scoring is not deterministic")
		}
		checkConfidence(pf, r)
		checkRiskFactors(pf, r.RiskFactors)

		if n := len(r.Recommendations); n == 0 || n > 4 {
			pf("%d recommendations, want 1 to 4", n)
		}
	}
	return p
}

func checkConfidence(pf func(string, ...any), r domain.PredictionResult) {
	c := r.Confidence
	if c < 0.65 || c > 0.95 {
		pf("confidence %v outside [0.65, 0.95]", c)
	}
	if !floatEq(c*100, math.Round(c*100)) {
		pf("confidence %v has more than two decimals", c)
	}

	lo, hi := 0.65, 0.85
	switch r.Severity {
	case domain.SeverityFatal:
		lo, hi = 0.75, 0.95
	case domain.SeveritySevere:
		lo, hi = 0.70, 0.92
	case domain.SeverityMinor:
	default:
		pf("unknown severity %q", r.Severity)
		return
	}
	if c < lo-1e-9 || c > hi+1e-9 {
		pf("%s confidence %v outside [%v, %v]", r.Severity, c, lo, hi)
	}
}

func checkRiskFactors(pf func(string, ...any), factors []domain.RiskFactor) {
	if len(factors) > 3 {
		pf("%d risk factors, want at most 3", len(factors))
	}
	for j, f := range factors {
		if f.Impact <= 0 || f.Impact > 1 {
			pf("risk factor %q impact %v outside (0, 1]", f.Feature, f.Impact)
		}
		if j > 0 && factors[j-1].Impact < f.Impact {
			pf("risk factors not sorted by impact at %d", j)
		}
	}
}

// ── Phase 3: Scored Fixture ──
// The stream fixture must line up with the scenario list and with what the
// engine produces now.

func validateScoredFixture(scored []domain.ScoredScenario, scenarios []domain.CrashScenario) *phase {
	p := &phase{name: "Phase 3: Scored Stream Fixture"}

	if len(scored) != len(scenarios) {
		p.errorf("count mismatch: %d scored, %d scenarios", len(scored), len(scenarios))
	}

	ids := make(map[string]int, len(scored))
	for i := range scored {
		rec := &scored[i]
		if rec.ID == "" {
			p.errorf("record %d: empty id", i)
		} else if prev, dup := ids[rec.ID]; dup {
			p.errorf("record %d: id %s duplicates record %d", i, rec.ID, prev)
		} else {
			ids[rec.ID] = i
		}
		if rec.ScoredAt.IsZero() {
			p.errorf("record %d: missing scored_at", i)
		}

		if i < len(scenarios) && rec.Scenario != scenarios[i] {
			p.errorf("record %d: scenario differs from scenario list", i)
		}
		if want := domain.Score(rec.Scenario); !reflect.DeepEqual(want, rec.Result) {
			p.errorf("record %d: stored %s (%.2f), engine now says %s (%.2f)",
				i, rec.Result.Severity, rec.Result.Confidence, want.Severity, want.Confidence)
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
