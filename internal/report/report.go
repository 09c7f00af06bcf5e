// Package report renders a prediction as the plain-text report users download.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
)

// ContentType is the media type of a rendered report.
const ContentType = "text/plain; charset=utf-8"

const disclaimer = "This is a simulated prediction for educational purposes only."

// Text renders result and the scenario it was computed from.
func Text(result domain.PredictionResult, s domain.CrashScenario, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("Car Crash Severity Prediction Report\n")
	b.WriteString("=====================================\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.Format(time.DateTime))

	section(&b, "PREDICTION RESULT")
	fmt.Fprintf(&b, "Severity: %s\n", result.Severity)
	fmt.Fprintf(&b, "Confidence: %d%%\n", percent(result.Confidence))

	section(&b, "KEY RISK FACTORS")
	for i, f := range result.RiskFactors {
		fmt.Fprintf(&b, "%d. %s: %d%%\n", i+1, f.Feature, percent(f.Impact))
	}

	section(&b, "SAFETY RECOMMENDATIONS")
	for i, r := range result.Recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}

	section(&b, "INPUT DATA SUMMARY")
	fmt.Fprintf(&b, "Crash Speed: %s km/h\n", strconv.FormatFloat(s.CrashSpeed, 'f', -1, 64))
	fmt.Fprintf(&b, "Vehicle Type: %s\n", s.VehicleType)
	fmt.Fprintf(&b, "Driver Age: %d\n", s.DriverAge)
	fmt.Fprintf(&b, "Seatbelt Used: %s\n", yesNo(s.SeatbeltUsed))
	fmt.Fprintf(&b, "Airbag Deployed: %s\n", yesNo(s.AirbagDeployed))
	fmt.Fprintf(&b, "Weather: %s\n", s.Weather)
	fmt.Fprintf(&b, "Road Condition: %s\n", s.Road)

	b.WriteString("\n---\n")
	b.WriteString(disclaimer)
	b.WriteString("\n")
	return b.String()
}

// Filename is the suggested download name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("crash-prediction-report-%d.txt", t.UnixMilli())
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
