package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*CrashScenario)
		wantScore    int
		wantLevel    RiskLevel
		wantWarnings []string
	}{
		{
			name:         "defaults",
			mutate:       func(*CrashScenario) {},
			wantScore:    0,
			wantLevel:    RiskLow,
			wantWarnings: []string{},
		},
		{
			name:         "moderate speed has no warning",
			mutate:       func(s *CrashScenario) { s.CrashSpeed = 80 },
			wantScore:    15,
			wantLevel:    RiskLow,
			wantWarnings: []string{},
		},
		{
			name: "medium band",
			mutate: func(s *CrashScenario) {
				s.CrashSpeed = 110
				s.Weather = WeatherRain
			},
			wantScore:    35,
			wantLevel:    RiskMedium,
			wantWarnings: []string{"High speed detected"},
		},
		{
			name: "high band",
			mutate: func(s *CrashScenario) {
				s.SeatbeltUsed = false
				s.VehicleType = VehicleMotorcycle
				s.AlcoholLevel = 0.10
			},
			wantScore:    70,
			wantLevel:    RiskHigh,
			wantWarnings: []string{"No seatbelt", "Motorcycle crash", "Alcohol above limit"},
		},
		{
			name: "everything",
			mutate: func(s *CrashScenario) {
				s.CrashSpeed = 150
				s.SeatbeltUsed = false
				s.AirbagDeployed = false
				s.VehicleType = VehicleMotorcycle
				s.AlcoholLevel = 0.2
				s.CrashType = CrashRollover
				s.Weather = WeatherSnow
				s.Road = RoadIcy
			},
			wantScore: 145,
			wantLevel: RiskHigh,
			wantWarnings: []string{
				"High speed detected", "No seatbelt", "Motorcycle crash", "Alcohol above limit",
			},
		},
		{
			name: "low alcohol and head-on",
			mutate: func(s *CrashScenario) {
				s.AlcoholLevel = 0.05
				s.CrashType = CrashHeadOn
				s.AirbagDeployed = false
			},
			wantScore:    40,
			wantLevel:    RiskMedium,
			wantWarnings: []string{},
		},
		{
			name: "boundary at 30",
			mutate: func(s *CrashScenario) {
				s.AirbagDeployed = false
				s.CrashType = CrashHeadOn
			},
			wantScore:    30,
			wantLevel:    RiskMedium,
			wantWarnings: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			s.CrashSpeed = 50
			tt.mutate(&s)

			got := AssessRisk(s)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantWarnings, got.Warnings)
		})
	}
}

func TestAssessRisk_IndependentOfScore(t *testing.T) {
	s := DefaultScenario()
	s.Visibility = 50
	s.TimeOfDay = TimeNight

	assert.Equal(t, 0, AssessRisk(s).Score)
	assert.NotEmpty(t, Score(s).RiskFactors)
}
