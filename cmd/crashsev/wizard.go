package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/form"
	"github.com/couchcryptid/crash-severity-service/internal/report"
)

type fieldKind int

const (
	kindNumber fieldKind = iota
	kindInt
	kindBool
	kindChoice
)

// field is one prompt. key is the scenario's JSON field name.
type field struct {
	key     string
	label   string
	kind    fieldKind
	min     float64
	max     float64
	choices []string
}

type wizardStep struct {
	title  string
	fields []field
}

var wizardSteps = [form.TotalSteps]wizardStep{
	{"Crash Details", []field{
		{key: "crashSpeed", label: "Crash speed (km/h)", kind: kindNumber, max: domain.MaxCrashSpeed},
		{key: "impactAngle", label: "Impact angle (degrees)", kind: kindNumber, max: domain.MaxImpactAngle},
		{key: "airbagDeployed", label: "Airbag deployed", kind: kindBool},
		{key: "seatbeltUsed", label: "Seatbelt used", kind: kindBool},
		{key: "weatherCondition", label: "Weather", kind: kindChoice, choices: enumStrings(
			domain.WeatherClear, domain.WeatherRain, domain.WeatherFog, domain.WeatherSnow)},
		{key: "roadCondition", label: "Road condition", kind: kindChoice, choices: enumStrings(
			domain.RoadDry, domain.RoadWet, domain.RoadIcy, domain.RoadUneven)},
		{key: "crashType", label: "Crash type", kind: kindChoice, choices: enumStrings(
			domain.CrashHeadOn, domain.CrashSide, domain.CrashRearEnd, domain.CrashRollover)},
	}},
	{"Vehicle Info", []field{
		{key: "vehicleType", label: "Vehicle type", kind: kindChoice, choices: enumStrings(
			domain.VehicleSedan, domain.VehicleSUV, domain.VehicleTruck, domain.VehicleMotorcycle)},
		{key: "vehicleAge", label: "Vehicle age (years)", kind: kindInt},
		{key: "brakeCondition", label: "Brake condition", kind: kindChoice, choices: enumStrings(
			domain.PartGood, domain.PartWornOut)},
		{key: "tireCondition", label: "Tire condition", kind: kindChoice, choices: enumStrings(
			domain.PartGood, domain.PartWornOut)},
	}},
	{"Driver Info", []field{
		{key: "driverAge", label: "Driver age", kind: kindInt},
		{key: "drivingExperience", label: "Driving experience (years)", kind: kindInt},
		{key: "alcoholLevel", label: "Blood alcohol level (BAC)", kind: kindNumber, max: domain.MaxAlcoholLevel},
		{key: "distractionLevel", label: "Distraction", kind: kindChoice, choices: enumStrings(
			domain.DistractionNone, domain.DistractionPhone, domain.DistractionDrowsiness, domain.DistractionOther)},
	}},
	{"Environment", []field{
		{key: "timeOfDay", label: "Time of day", kind: kindChoice, choices: enumStrings(
			domain.TimeMorning, domain.TimeAfternoon, domain.TimeNight)},
		{key: "trafficDensity", label: "Traffic density", kind: kindChoice, choices: enumStrings(
			domain.TrafficLow, domain.TrafficMedium, domain.TrafficHigh)},
		{key: "visibility", label: "Visibility (m)", kind: kindNumber, max: domain.MaxVisibility},
	}},
}

func enumStrings[E ~string](values ...E) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// errQuit ends the wizard without an error exit.
var errQuit = errors.New("quit")

type wizardFlags struct {
	remote    string
	timeout   time.Duration
	reportDir string
}

func newWizardCmd() *cobra.Command {
	f := &wizardFlags{}

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Collect a crash scenario step by step and predict its severity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			scorer := newScorer(f.remote, f.timeout, 1, nil, logger)
			w := newWizard(cmd.InOrStdin(), cmd.OutOrStdout(), scorer, f.reportDir)
			return w.run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.remote, "remote", "", "Base URL of a remote prediction backend")
	flags.DurationVar(&f.timeout, "timeout", 5*time.Second, "Remote backend request timeout")
	flags.StringVar(&f.reportDir, "report-dir", ".", "Directory saved reports are written to")

	return cmd
}

type wizard struct {
	in        *bufio.Scanner
	out       io.Writer
	session   *form.Session
	scorer    domain.Scorer
	clock     clockwork.Clock
	reportDir string
}

func newWizard(in io.Reader, out io.Writer, scorer domain.Scorer, reportDir string) *wizard {
	return &wizard{
		in:        bufio.NewScanner(in),
		out:       out,
		session:   form.NewSession(uuid.NewString()),
		scorer:    scorer,
		clock:     clockwork.NewRealClock(),
		reportDir: reportDir,
	}
}

func (w *wizard) run(ctx context.Context) error {
	err := w.loop(ctx)
	if errors.Is(err, errQuit) {
		fmt.Fprintln(w.out, "Bye.")
		return nil
	}
	return err
}

func (w *wizard) loop(ctx context.Context) error {
	for {
		step := w.session.Step()
		cur := wizardSteps[step-1]
		fmt.Fprintf(w.out, "\nStep %d of %d: %s\n", step, form.TotalSteps, cur.title)

		for _, f := range cur.fields {
			if err := w.ask(f); err != nil {
				return err
			}
		}
		fmt.Fprint(w.out, formatRisk(domain.AssessRisk(w.session.Get())))

		if err := w.navigate(ctx); err != nil {
			return err
		}
	}
}

// navigate reads the step action. It returns after moving to another step,
// or after a submitted prediction has been handled.
func (w *wizard) navigate(ctx context.Context) error {
	last := w.session.Step() == form.TotalSteps
	for {
		prompt := "[n]ext, [b]ack, [q]uit"
		if last {
			prompt = "[s]ubmit, [b]ack, [q]uit"
		}
		line, err := w.readLine(prompt + ": ")
		if err != nil {
			return err
		}

		switch action(line) {
		case "n":
			if !last {
				w.session.Next()
				return nil
			}
		case "s":
			if last {
				return w.submit(ctx)
			}
		case "b":
			w.session.Prev()
			return nil
		case "q":
			return errQuit
		}
		fmt.Fprintln(w.out, "  unknown action")
	}
}

func (w *wizard) submit(ctx context.Context) error {
	for {
		fmt.Fprintln(w.out, "Predicting...")
		result, err := w.session.Submit(ctx, w.scorer)
		if err == nil {
			fmt.Fprint(w.out, formatResult(result))
			return w.afterResult(result)
		}

		fmt.Fprintf(w.out, "Prediction failed: %v\nYour answers were kept.\n", err)
		retry, err := w.askRetry()
		if err != nil || !retry {
			return err
		}
	}
}

func (w *wizard) askRetry() (bool, error) {
	for {
		line, err := w.readLine("[r]etry, [b]ack, [q]uit: ")
		if err != nil {
			return false, err
		}
		switch action(line) {
		case "r":
			return true, nil
		case "b":
			w.session.Prev()
			return false, nil
		case "q":
			return false, errQuit
		}
		fmt.Fprintln(w.out, "  unknown action")
	}
}

func (w *wizard) afterResult(result domain.PredictionResult) error {
	for {
		line, err := w.readLine("[s]ave report, [n]ew prediction, [q]uit: ")
		if err != nil {
			return err
		}
		switch action(line) {
		case "s":
			path, err := w.saveReport(result)
			if err != nil {
				fmt.Fprintf(w.out, "Could not save report: %v\n", err)
				continue
			}
			fmt.Fprintf(w.out, "Saved %s\n", path)
		case "n":
			w.session.Reset()
			return nil
		case "q":
			return errQuit
		default:
			fmt.Fprintln(w.out, "  unknown action")
		}
	}
}

func (w *wizard) saveReport(result domain.PredictionResult) (string, error) {
	now := w.clock.Now()
	path := filepath.Join(w.reportDir, report.Filename(now))
	text := report.Text(result, w.session.Get(), now)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil { //nolint:gosec // report files are not secret
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// ask prompts for one field until the answer is empty (keep the current
// value) or valid. Driver and vehicle ages are clamped, not rejected.
func (w *wizard) ask(f field) error {
	current := currentValues(w.session.Get())
	for {
		line, err := w.readLine(fmt.Sprintf("  %s%s [%s]: ", f.label, choiceHint(f), display(current[f.key])))
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}

		value, err := parseAnswer(f, line)
		if err != nil {
			fmt.Fprintf(w.out, "  %v\n", err)
			continue
		}

		patch, err := patchFor(f.key, value)
		if err != nil {
			fmt.Fprintf(w.out, "  %v\n", err)
			continue
		}
		clamped := patch.Clamped(w.session.Get())
		w.session.Merge(clamped)

		after := currentValues(w.session.Get())
		if got := display(after[f.key]); got != display(value) {
			fmt.Fprintf(w.out, "  adjusted to %s\n", got)
		}
		if f.key == "driverAge" && after["drivingExperience"] != current["drivingExperience"] {
			fmt.Fprintf(w.out, "  driving experience adjusted to %s\n", display(after["drivingExperience"]))
		}
		return nil
	}
}

func parseAnswer(f field, line string) (any, error) {
	switch f.kind {
	case kindNumber:
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", line)
		}
		if v < f.min || v > f.max {
			return nil, fmt.Errorf("must be between %s and %s", display(f.min), display(f.max))
		}
		return v, nil
	case kindInt:
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", line)
		}
		return v, nil
	case kindBool:
		switch strings.ToLower(line) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		return nil, fmt.Errorf("answer yes or no")
	default:
		if i, err := strconv.Atoi(line); err == nil && i >= 1 && i <= len(f.choices) {
			return f.choices[i-1], nil
		}
		for _, c := range f.choices {
			if strings.EqualFold(c, line) {
				return c, nil
			}
		}
		return nil, fmt.Errorf("choose one of: %s", strings.Join(f.choices, ", "))
	}
}

// patchFor builds a single-field Patch through its JSON form so enum values
// go through the same decoding as request bodies.
func patchFor(key string, value any) (domain.Patch, error) {
	var p domain.Patch
	data, err := json.Marshal(map[string]any{key: value})
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}

func currentValues(s domain.CrashScenario) map[string]any {
	data, _ := json.Marshal(s) //nolint:errchkjson // plain struct
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	return m
}

func display(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func choiceHint(f field) string {
	if f.kind != kindChoice {
		return ""
	}
	opts := make([]string, len(f.choices))
	for i, c := range f.choices {
		opts[i] = fmt.Sprintf("%d=%s", i+1, c)
	}
	return " (" + strings.Join(opts, ", ") + ")"
}

func formatResult(r domain.PredictionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nPredicted severity: %s (%d%% confidence)\n", r.Severity, int(r.Confidence*100+0.5))
	if len(r.RiskFactors) > 0 {
		b.WriteString("Top risk factors:\n")
		for _, f := range r.RiskFactors {
			fmt.Fprintf(&b, "  - %s (%d%%)\n", f.Feature, int(f.Impact*100+0.5))
		}
	}
	b.WriteString("Recommendations:\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	return b.String()
}

func action(line string) string {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return ""
	}
	return line[:1]
}

func (w *wizard) readLine(prompt string) (string, error) {
	fmt.Fprint(w.out, prompt)
	if !w.in.Scan() {
		if err := w.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		fmt.Fprintln(w.out)
		return "", errQuit
	}
	return strings.TrimSpace(w.in.Text()), nil
}
