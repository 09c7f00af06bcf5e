package domain

import "fmt"

// Weather is the weather condition at the time of the crash.
type Weather string

const (
	WeatherClear Weather = "Clear"
	WeatherRain  Weather = "Rain"
	WeatherFog   Weather = "Fog"
	WeatherSnow  Weather = "Snow"
)

func (w Weather) Valid() bool {
	switch w {
	case WeatherClear, WeatherRain, WeatherFog, WeatherSnow:
		return true
	}
	return false
}

func (w *Weather) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, w, "weather condition")
}

// RoadCondition is the surface state of the road.
type RoadCondition string

const (
	RoadDry    RoadCondition = "Dry"
	RoadWet    RoadCondition = "Wet"
	RoadIcy    RoadCondition = "Icy"
	RoadUneven RoadCondition = "Uneven"
)

func (r RoadCondition) Valid() bool {
	switch r {
	case RoadDry, RoadWet, RoadIcy, RoadUneven:
		return true
	}
	return false
}

func (r *RoadCondition) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, r, "road condition")
}

// CrashType is the collision geometry.
type CrashType string

const (
	CrashHeadOn   CrashType = "Head-on"
	CrashSide     CrashType = "Side"
	CrashRearEnd  CrashType = "Rear-end"
	CrashRollover CrashType = "Rollover"
)

func (c CrashType) Valid() bool {
	switch c {
	case CrashHeadOn, CrashSide, CrashRearEnd, CrashRollover:
		return true
	}
	return false
}

func (c *CrashType) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, c, "crash type")
}

// VehicleType is the class of the occupant's vehicle.
type VehicleType string

const (
	VehicleSedan      VehicleType = "Sedan"
	VehicleSUV        VehicleType = "SUV"
	VehicleTruck      VehicleType = "Truck"
	VehicleMotorcycle VehicleType = "Motorcycle"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleSedan, VehicleSUV, VehicleTruck, VehicleMotorcycle:
		return true
	}
	return false
}

func (v *VehicleType) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, v, "vehicle type")
}

// PartCondition describes brake or tire wear.
type PartCondition string

const (
	PartGood    PartCondition = "Good"
	PartWornOut PartCondition = "Worn out"
)

func (p PartCondition) Valid() bool {
	switch p {
	case PartGood, PartWornOut:
		return true
	}
	return false
}

func (p *PartCondition) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, p, "part condition")
}

// Distraction is what, if anything, held the driver's attention.
type Distraction string

const (
	DistractionNone       Distraction = "None"
	DistractionPhone      Distraction = "Phone"
	DistractionDrowsiness Distraction = "Drowsiness"
	DistractionOther      Distraction = "Other"
)

func (d Distraction) Valid() bool {
	switch d {
	case DistractionNone, DistractionPhone, DistractionDrowsiness, DistractionOther:
		return true
	}
	return false
}

func (d *Distraction) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, d, "distraction level")
}

// TimeOfDay is the coarse time bucket of the crash.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "Morning"
	TimeAfternoon TimeOfDay = "Afternoon"
	TimeNight     TimeOfDay = "Night"
)

func (t TimeOfDay) Valid() bool {
	switch t {
	case TimeMorning, TimeAfternoon, TimeNight:
		return true
	}
	return false
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, t, "time of day")
}

// TrafficDensity is the surrounding traffic level.
type TrafficDensity string

const (
	TrafficLow    TrafficDensity = "Low"
	TrafficMedium TrafficDensity = "Medium"
	TrafficHigh   TrafficDensity = "High"
)

func (t TrafficDensity) Valid() bool {
	switch t {
	case TrafficLow, TrafficMedium, TrafficHigh:
		return true
	}
	return false
}

func (t *TrafficDensity) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, t, "traffic density")
}

// Severity is the predicted injury outcome class.
type Severity string

const (
	SeverityMinor  Severity = "Minor Injury"
	SeveritySevere Severity = "Severe Injury"
	SeverityFatal  Severity = "Fatal"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeveritySevere, SeverityFatal:
		return true
	}
	return false
}

func (s *Severity) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, s, "severity")
}

type enum interface {
	~string
	Valid() bool
}

func unmarshalEnum[E enum](b []byte, dst *E, what string) error {
	v := E(b)
	if !v.Valid() {
		return fmt.Errorf("invalid %s %q", what, string(b))
	}
	*dst = v
	return nil
}
