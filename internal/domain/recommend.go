package domain

// Safety advisories, in the order their rules are evaluated.
const (
	AdviceSpeed = "High speed significantly increased crash severity. Reducing speed by 20 km/h " +
		"could have reduced injury risk by up to 40%."

	AdviceSeatbelt = "Seatbelt usage reduces fatality risk by 45%. Always ensure all occupants are buckled."

	AdviceMotorcycle = "Motorcyclists are 28x more likely to die in crashes. Consider wearing full " +
		"protective gear and a DOT-approved helmet."

	AdviceAlcohol = "Any alcohol impairs driving ability. At 0.08% BAC, crash risk is 11x higher " +
		"than sober driving."

	AdviceConditions = "Adverse conditions require 50% more stopping distance. Reduce speed and " +
		"increase following distance."

	AdviceNight = "Night crashes are 3x more fatal. Ensure headlights are functioning and " +
		"consider high-visibility equipment."

	AdviceDistraction = "Distracted driving increases crash risk by 4x. Put phones away and take " +
		"breaks if drowsy."

	AdviceGeneric = "Regular vehicle maintenance and defensive driving techniques can reduce " +
		"overall crash risk by up to 30%."
)

// recommendations returns up to four advisories in rule order. When fewer
// than two rules fire, the generic advisory is appended.
func recommendations(s CrashScenario) []string {
	var recs []string

	if s.CrashSpeed > 70 {
		recs = append(recs, AdviceSpeed)
	}
	if !s.SeatbeltUsed {
		recs = append(recs, AdviceSeatbelt)
	}
	if s.VehicleType == VehicleMotorcycle {
		recs = append(recs, AdviceMotorcycle)
	}
	if s.AlcoholLevel > 0 {
		recs = append(recs, AdviceAlcohol)
	}
	if s.Weather != WeatherClear || s.Road != RoadDry {
		recs = append(recs, AdviceConditions)
	}
	if s.TimeOfDay == TimeNight {
		recs = append(recs, AdviceNight)
	}
	if s.Distraction != DistractionNone {
		recs = append(recs, AdviceDistraction)
	}

	if len(recs) < 2 {
		recs = append(recs, AdviceGeneric)
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
