package domain

// RiskLevel is the coarse band shown by the live risk preview.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is a quick preview computed while a scenario is being edited.
// It uses its own lighter weights and is not the prediction.
type RiskAssessment struct {
	Level    RiskLevel `json:"level"`
	Score    int       `json:"score"`
	Warnings []string  `json:"warnings"`
}

// AssessRisk computes the live risk preview for a possibly unfinished scenario.
func AssessRisk(s CrashScenario) RiskAssessment {
	score := 0
	warnings := []string{}

	switch {
	case s.CrashSpeed > 100:
		score += 30
		warnings = append(warnings, "High speed detected")
	case s.CrashSpeed > 70:
		score += 15
	}

	if !s.SeatbeltUsed {
		score += 25
		warnings = append(warnings, "No seatbelt")
	}
	if !s.AirbagDeployed {
		score += 15
	}
	if s.VehicleType == VehicleMotorcycle {
		score += 20
		warnings = append(warnings, "Motorcycle crash")
	}

	switch {
	case s.AlcoholLevel > LegalAlcoholLimit:
		score += 25
		warnings = append(warnings, "Alcohol above limit")
	case s.AlcoholLevel > 0:
		score += 10
	}

	if s.CrashType == CrashHeadOn || s.CrashType == CrashRollover {
		score += 15
	}
	if s.Weather != WeatherClear {
		score += 5
	}
	if s.Road == RoadIcy {
		score += 10
	}

	level := RiskLow
	switch {
	case score >= 60:
		level = RiskHigh
	case score >= 30:
		level = RiskMedium
	}

	return RiskAssessment{Level: level, Score: score, Warnings: warnings}
}
