// Package domain models crash scenarios and the severity scoring engine.
//
// # Scenario
//
// A [CrashScenario] is collected over four wizard steps: crash details,
// vehicle info, driver info, and environment. Enumerated fields are closed
// typed-string sets; decoding rejects labels outside the set.
//
// Numeric ranges:
//
//	crashSpeed         0–200 km/h
//	impactAngle        0–180 degrees
//	vehicleAge         0–30 years
//	driverAge          16–100 years
//	drivingExperience  0 ≤ experience ≤ driverAge−16
//	alcoholLevel       0–0.40 BAC fraction (legal limit 0.08)
//	visibility         0–1000 meters
//
// [Score] does not enforce these ranges. Clamping belongs to the input layer
// ([Patch.Clamped]); schema checks belong to the HTTP boundary.
//
// # Scoring
//
// Each fired rule adds points. Tiered categories (speed, crash type, weather,
// road, alcohol, visibility) contribute only their highest matching tier.
//
//	speed       >100: 35   >70: 20   >40: 10
//	seatbelt    off: 25
//	airbag      not deployed: 15
//	crash type  Head-on: 20  Rollover: 18  Side: 12
//	vehicle     Motorcycle: 20
//	weather     not Clear: 8
//	road        Icy: 12  Wet/Uneven: 6
//	alcohol     >0.08: 25  >0: 12
//	visibility  <100: 15  <300: 8
//	night       8
//	angle       >120: 10
//	experience  <2 years: 8
//	distraction any: 10
//	brakes      worn: 8
//	tires       worn: 6
//
// Severity bands on the summed score S:
//
//	S ≥ 70       Fatal          confidence min(0.95, 0.75 + (S−70)/100)
//	40 ≤ S < 70  Severe Injury  confidence min(0.92, 0.70 + (S−40)/100)
//	S < 40       Minor Injury   confidence max(0.65, 0.85 − S/100)
//
// Risk factors are the fired rules ranked by impact (points/100), ties in
// firing order, capped at three. Recommendations follow their own rule list,
// capped at four, with a generic advisory when fewer than two fire.
package domain
