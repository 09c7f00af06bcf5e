package domain

import (
	"math"
	"sort"
)

const (
	maxRiskFactors     = 3
	maxRecommendations = 4
)

// RiskFactor is an input condition that contributed to the predicted severity.
// Impact is the rule's points divided by 100.
type RiskFactor struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}

// PredictionResult is the engine's output for one scenario.
type PredictionResult struct {
	Severity        Severity     `json:"severity"`
	Confidence      float64      `json:"confidence"`
	RiskFactors     []RiskFactor `json:"riskFactors"`
	Recommendations []string     `json:"recommendations"`
}

// rule is one fired entry of the scoring table.
type rule struct {
	label  string
	points int
}

// Score classifies a crash scenario. It is pure and total: any scenario,
// including one with out-of-range values, produces a result.
func Score(s CrashScenario) PredictionResult {
	fired := evaluateRules(s)

	total := 0
	for _, r := range fired {
		total += r.points
	}

	severity, confidence := classify(total)
	return PredictionResult{
		Severity:        severity,
		Confidence:      confidence,
		RiskFactors:     topRiskFactors(fired),
		Recommendations: recommendations(s),
	}
}

// evaluateRules returns the fired rules in table order. Tiered categories
// (speed, crash type, weather, road, alcohol, visibility) contribute at most
// one rule each.
func evaluateRules(s CrashScenario) []rule {
	var fired []rule
	add := func(label string, points int) {
		fired = append(fired, rule{label: label, points: points})
	}

	switch {
	case s.CrashSpeed > 100:
		add("High Crash Speed", 35)
	case s.CrashSpeed > 70:
		add("Moderate Crash Speed", 20)
	case s.CrashSpeed > 40:
		add("Crash Speed", 10)
	}

	if !s.SeatbeltUsed {
		add("No Seatbelt", 25)
	}
	if !s.AirbagDeployed {
		add("Airbag Not Deployed", 15)
	}

	switch s.CrashType {
	case CrashHeadOn:
		add("Head-on Collision", 20)
	case CrashRollover:
		add("Rollover Crash", 18)
	case CrashSide:
		add("Side Impact", 12)
	case CrashRearEnd:
	}

	if s.VehicleType == VehicleMotorcycle {
		add("Motorcycle", 20)
	}

	switch s.Weather {
	case WeatherRain, WeatherFog, WeatherSnow:
		add(string(s.Weather)+" Weather", 8)
	case WeatherClear:
	}

	switch s.Road {
	case RoadIcy:
		add("Icy Road", 12)
	case RoadWet, RoadUneven:
		add(string(s.Road)+" Road", 6)
	case RoadDry:
	}

	switch {
	case s.AlcoholLevel > LegalAlcoholLimit:
		add("Alcohol Above Legal Limit", 25)
	case s.AlcoholLevel > 0:
		add("Alcohol Detected", 12)
	}

	switch {
	case s.Visibility < 100:
		add("Very Low Visibility", 15)
	case s.Visibility < 300:
		add("Limited Visibility", 8)
	}

	if s.TimeOfDay == TimeNight {
		add("Night Time", 8)
	}
	if s.ImpactAngle > 120 {
		add("Severe Impact Angle", 10)
	}
	if s.DrivingExperience < 2 {
		add("Inexperienced Driver", 8)
	}

	switch s.Distraction {
	case DistractionPhone, DistractionDrowsiness, DistractionOther:
		add("Distraction: "+string(s.Distraction), 10)
	case DistractionNone:
	}

	if s.Brakes == PartWornOut {
		add("Worn Brakes", 8)
	}
	if s.Tires == PartWornOut {
		add("Worn Tires", 6)
	}

	return fired
}

// classify maps a summed score to a severity band and a confidence rounded
// to two decimals. Confidence always lands in [0.65, 0.95].
func classify(total int) (Severity, float64) {
	s := float64(total)
	switch {
	case total >= 70:
		return SeverityFatal, round2(math.Min(0.95, 0.75+(s-70)/100))
	case total >= 40:
		return SeveritySevere, round2(math.Min(0.92, 0.70+(s-40)/100))
	default:
		return SeverityMinor, round2(math.Max(0.65, 0.85-s/100))
	}
}

// topRiskFactors sorts fired rules by descending impact, keeping firing order
// for ties, and returns at most three.
func topRiskFactors(fired []rule) []RiskFactor {
	ranked := make([]rule, len(fired))
	copy(ranked, fired)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].points > ranked[j].points
	})

	n := min(len(ranked), maxRiskFactors)
	factors := make([]RiskFactor, 0, n)
	for _, r := range ranked[:n] {
		factors = append(factors, RiskFactor{Feature: r.label, Impact: float64(r.points) / 100})
	}
	return factors
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
