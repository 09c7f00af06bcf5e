package domain

// Input bounds shared by the wizard clamps and the request schema.
const (
	MinDriverAge      = 16
	MaxDriverAge      = 100
	MaxVehicleAge     = 30
	MaxCrashSpeed     = 200
	MaxImpactAngle    = 180
	MaxAlcoholLevel   = 0.40
	MaxVisibility     = 1000
	LegalAlcoholLimit = 0.08
)

// CrashScenario is the complete input record collected by the wizard.
// Fields are grouped by the step that collects them. Speed is in km/h, angle
// in degrees, ages in years, alcohol as a BAC fraction, visibility in meters.
type CrashScenario struct {
	// Crash details.
	CrashSpeed     float64       `json:"crashSpeed" yaml:"crashSpeed"`
	ImpactAngle    float64       `json:"impactAngle" yaml:"impactAngle"`
	AirbagDeployed bool          `json:"airbagDeployed" yaml:"airbagDeployed"`
	SeatbeltUsed   bool          `json:"seatbeltUsed" yaml:"seatbeltUsed"`
	Weather        Weather       `json:"weatherCondition" yaml:"weatherCondition"`
	Road           RoadCondition `json:"roadCondition" yaml:"roadCondition"`
	CrashType      CrashType     `json:"crashType" yaml:"crashType"`

	// Vehicle info.
	VehicleType VehicleType   `json:"vehicleType" yaml:"vehicleType"`
	VehicleAge  int           `json:"vehicleAge" yaml:"vehicleAge"`
	Brakes      PartCondition `json:"brakeCondition" yaml:"brakeCondition"`
	Tires       PartCondition `json:"tireCondition" yaml:"tireCondition"`

	// Driver info.
	DriverAge         int         `json:"driverAge" yaml:"driverAge"`
	DrivingExperience int         `json:"drivingExperience" yaml:"drivingExperience"`
	AlcoholLevel      float64     `json:"alcoholLevel" yaml:"alcoholLevel"`
	Distraction       Distraction `json:"distractionLevel" yaml:"distractionLevel"`

	// Environment.
	TimeOfDay  TimeOfDay      `json:"timeOfDay" yaml:"timeOfDay"`
	Traffic    TrafficDensity `json:"trafficDensity" yaml:"trafficDensity"`
	Visibility float64        `json:"visibility" yaml:"visibility"`
}

// DefaultScenario returns the record a new prediction session starts from.
func DefaultScenario() CrashScenario {
	return CrashScenario{
		CrashSpeed:        60,
		ImpactAngle:       45,
		AirbagDeployed:    true,
		SeatbeltUsed:      true,
		Weather:           WeatherClear,
		Road:              RoadDry,
		CrashType:         CrashRearEnd,
		VehicleType:       VehicleSedan,
		VehicleAge:        5,
		Brakes:            PartGood,
		Tires:             PartGood,
		DriverAge:         35,
		DrivingExperience: 10,
		AlcoholLevel:      0,
		Distraction:       DistractionNone,
		TimeOfDay:         TimeMorning,
		Traffic:           TrafficMedium,
		Visibility:        500,
	}
}

// Patch is a partial update to a CrashScenario. Nil fields are left untouched.
type Patch struct {
	CrashSpeed        *float64        `json:"crashSpeed,omitempty"`
	ImpactAngle       *float64        `json:"impactAngle,omitempty"`
	AirbagDeployed    *bool           `json:"airbagDeployed,omitempty"`
	SeatbeltUsed      *bool           `json:"seatbeltUsed,omitempty"`
	Weather           *Weather        `json:"weatherCondition,omitempty"`
	Road              *RoadCondition  `json:"roadCondition,omitempty"`
	CrashType         *CrashType      `json:"crashType,omitempty"`
	VehicleType       *VehicleType    `json:"vehicleType,omitempty"`
	VehicleAge        *int            `json:"vehicleAge,omitempty"`
	Brakes            *PartCondition  `json:"brakeCondition,omitempty"`
	Tires             *PartCondition  `json:"tireCondition,omitempty"`
	DriverAge         *int            `json:"driverAge,omitempty"`
	DrivingExperience *int            `json:"drivingExperience,omitempty"`
	AlcoholLevel      *float64        `json:"alcoholLevel,omitempty"`
	Distraction       *Distraction    `json:"distractionLevel,omitempty"`
	TimeOfDay         *TimeOfDay      `json:"timeOfDay,omitempty"`
	Traffic           *TrafficDensity `json:"trafficDensity,omitempty"`
	Visibility        *float64        `json:"visibility,omitempty"`
}

// Apply returns s with every non-nil field of p written over it.
// No validation or clamping happens here.
func (p Patch) Apply(s CrashScenario) CrashScenario {
	setIf(&s.CrashSpeed, p.CrashSpeed)
	setIf(&s.ImpactAngle, p.ImpactAngle)
	setIf(&s.AirbagDeployed, p.AirbagDeployed)
	setIf(&s.SeatbeltUsed, p.SeatbeltUsed)
	setIf(&s.Weather, p.Weather)
	setIf(&s.Road, p.Road)
	setIf(&s.CrashType, p.CrashType)
	setIf(&s.VehicleType, p.VehicleType)
	setIf(&s.VehicleAge, p.VehicleAge)
	setIf(&s.Brakes, p.Brakes)
	setIf(&s.Tires, p.Tires)
	setIf(&s.DriverAge, p.DriverAge)
	setIf(&s.DrivingExperience, p.DrivingExperience)
	setIf(&s.AlcoholLevel, p.AlcoholLevel)
	setIf(&s.Distraction, p.Distraction)
	setIf(&s.TimeOfDay, p.TimeOfDay)
	setIf(&s.Traffic, p.Traffic)
	setIf(&s.Visibility, p.Visibility)
	return s
}

// Clamped returns a copy of p with the age fields pulled into range against
// the scenario it will be merged into. When the driver age changes, the
// driving experience is clamped down so it never exceeds age minus 16.
func (p Patch) Clamped(current CrashScenario) Patch {
	if p.VehicleAge != nil {
		v := clampInt(*p.VehicleAge, 0, MaxVehicleAge)
		p.VehicleAge = &v
	}

	age := current.DriverAge
	if p.DriverAge != nil {
		age = clampInt(*p.DriverAge, MinDriverAge, MaxDriverAge)
		p.DriverAge = &age
	}

	exp := current.DrivingExperience
	if p.DrivingExperience != nil {
		exp = *p.DrivingExperience
	}
	if p.DriverAge != nil || p.DrivingExperience != nil {
		exp = ClampExperience(age, exp)
		p.DrivingExperience = &exp
	}
	return p
}

// ClampExperience bounds experience to [0, age-16].
func ClampExperience(age, experience int) int {
	return clampInt(experience, 0, MaxExperience(age))
}

// MaxExperience is the most driving experience a driver of the given age can have.
func MaxExperience(age int) int {
	return max(0, age-MinDriverAge)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
