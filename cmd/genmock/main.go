// Command genmock generates random crash scenario fixtures and the scored
// stream records the pipeline would produce for them. It scores with the
// real domain package so fixtures match service behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -n 200 -seed 42 \
//	  -scenarios-out data/mock/crash_scenarios.yaml \
//	  -scored-out data/mock/crash_predictions.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/jaswdr/faker"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/scenariofile"
)

// scoredAt is the fixed timestamp stamped on every generated record.
var scoredAt = time.Date(2026, time.January, 15, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 200, "number of scenarios to generate")
	seed := flag.Int64("seed", 42, "random seed")
	scenariosOut := flag.String("scenarios-out", "", "output path for the scenario list (.yaml or .json)")
	scoredOut := flag.String("scored-out", "", "output path for the scored stream JSON fixture")
	flag.Parse()

	if *scenariosOut == "" || *scoredOut == "" || *n <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -scenarios-out, -scored-out (and -n > 0)")
	}

	domain.SetClock(clockwork.NewFakeClockAt(scoredAt))
	defer domain.SetClock(nil)

	fake := faker.NewWithSeed(rand.NewSource(*seed))
	scenarios := generate(fake, *n)
	scored := scoreAll(fake, scenarios)

	if err := scenariofile.Write(*scenariosOut, scenarios); err != nil {
		return fmt.Errorf("write scenarios: %w", err)
	}
	log.Printf("wrote %d scenarios to %s", len(scenarios), *scenariosOut)

	if err := writeJSON(*scoredOut, scored); err != nil {
		return fmt.Errorf("write scored fixture: %w", err)
	}
	log.Printf("wrote %d scored records to %s", len(scored), *scoredOut)

	printStats(scored)
	return nil
}

func generate(fake faker.Faker, n int) []domain.CrashScenario {
	out := make([]domain.CrashScenario, n)
	for i := range out {
		out[i] = randomScenario(fake)
	}
	return out
}

// randomScenario draws a scenario inside the request schema's bounds. Most
// drivers are sober and belted so the severity mix is not all Fatal.
func randomScenario(fake faker.Faker) domain.CrashScenario {
	age := fake.IntBetween(domain.MinDriverAge, 85)

	alcohol := 0.0
	if fake.IntBetween(1, 10) > 7 {
		alcohol = fake.Float64(2, 1, 25) / 100
	}

	return domain.CrashScenario{
		CrashSpeed:     fake.Float64(0, 10, 180),
		ImpactAngle:    fake.Float64(0, 0, domain.MaxImpactAngle),
		AirbagDeployed: fake.Bool(),
		SeatbeltUsed:   fake.IntBetween(1, 10) <= 8,
		Weather:        domain.Weather(fake.RandomStringElement(weathers)),
		Road:           domain.RoadCondition(fake.RandomStringElement(roads)),
		CrashType:      domain.CrashType(fake.RandomStringElement(crashTypes)),

		VehicleType: domain.VehicleType(fake.RandomStringElement(vehicleTypes)),
		VehicleAge:  fake.IntBetween(0, domain.MaxVehicleAge),
		Brakes:      domain.PartCondition(fake.RandomStringElement(parts)),
		Tires:       domain.PartCondition(fake.RandomStringElement(parts)),

		DriverAge:         age,
		DrivingExperience: fake.IntBetween(0, domain.MaxExperience(age)),
		AlcoholLevel:      alcohol,
		Distraction:       domain.Distraction(fake.RandomStringElement(distractions)),

		TimeOfDay:  domain.TimeOfDay(fake.RandomStringElement(timesOfDay)),
		Traffic:    domain.TrafficDensity(fake.RandomStringElement(traffic)),
		Visibility: fake.Float64(0, 50, domain.MaxVisibility),
	}
}

var (
	weathers     = []string{string(domain.WeatherClear), string(domain.WeatherRain), string(domain.WeatherFog), string(domain.WeatherSnow)}
	roads        = []string{string(domain.RoadDry), string(domain.RoadWet), string(domain.RoadIcy), string(domain.RoadUneven)}
	crashTypes   = []string{string(domain.CrashHeadOn), string(domain.CrashSide), string(domain.CrashRearEnd), string(domain.CrashRollover)}
	vehicleTypes = []string{string(domain.VehicleSedan), string(domain.VehicleSUV), string(domain.VehicleTruck), string(domain.VehicleMotorcycle)}
	parts        = []string{string(domain.PartGood), string(domain.PartGood), string(domain.PartWornOut)}
	distractions = []string{string(domain.DistractionNone), string(domain.DistractionNone), string(domain.DistractionPhone), string(domain.DistractionDrowsiness), string(domain.DistractionOther)}
	timesOfDay   = []string{string(domain.TimeMorning), string(domain.TimeAfternoon), string(domain.TimeNight)}
	traffic      = []string{string(domain.TrafficLow), string(domain.TrafficMedium), string(domain.TrafficHigh)}
)

func scoreAll(fake faker.Faker, scenarios []domain.CrashScenario) []domain.ScoredScenario {
	out := make([]domain.ScoredScenario, len(scenarios))
	for i, s := range scenarios {
		out[i] = domain.ScoredScenario{
			ID:       fake.UUID().V4(),
			Scenario: s,
			Result:   domain.Score(s),
			ScoredAt: domain.Now().UTC(),
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type factorCount struct {
	feature string
	count   int
}

func printStats(scored []domain.ScoredScenario) {
	severities := map[domain.Severity]int{}
	factors := map[string]int{}
	for i := range scored {
		r := &scored[i].Result
		severities[r.Severity]++
		for _, f := range r.RiskFactors {
			factors[f.Feature]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(scored))
	fmt.Printf("By severity: minor=%d, severe=%d, fatal=%d\n",
		severities[domain.SeverityMinor], severities[domain.SeveritySevere], severities[domain.SeverityFatal])

	fc := make([]factorCount, 0, len(factors))
	for f, c := range factors {
		fc = append(fc, factorCount{f, c})
	}
	sort.Slice(fc, func(i, j int) bool {
		if fc[i].count != fc[j].count {
			return fc[i].count > fc[j].count
		}
		return fc[i].feature < fc[j].feature
	})
	fmt.Printf("Top risk factors (%d distinct):\n", len(fc))
	for _, f := range fc {
		fmt.Printf("  %-28s %d\n", f.feature, f.count)
	}
}
