package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/crash-severity-service/internal/adapter/remote"
	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/observability"
	"github.com/couchcryptid/crash-severity-service/internal/report"
	"github.com/couchcryptid/crash-severity-service/internal/scenariofile"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type predictFlags struct {
	format  string
	out     string
	remote  string
	timeout time.Duration
}

func newPredictCmd() *cobra.Command {
	f := &predictFlags{}

	cmd := &cobra.Command{
		Use:   "predict <scenario-file>",
		Short: "Score a YAML or JSON crash scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", formatText, "Output format: text or json")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.remote, "remote", "", "Base URL of a remote prediction backend")
	flags.DurationVar(&f.timeout, "timeout", 5*time.Second, "Remote backend request timeout")

	return cmd
}

func runPredict(ctx context.Context, stdout, stderr io.Writer, path string, f *predictFlags) error {
	if f.format != formatText && f.format != formatJSON {
		return exitError(2, "unknown --format %q: want text or json", f.format)
	}

	scenario, err := scenariofile.Load(path)
	if err != nil {
		return exitError(3, "failed to load scenario: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	scorer := newScorer(f.remote, f.timeout, 1, nil, logger)

	result, err := scorer.Score(ctx, scenario)
	if err != nil {
		return exitError(4, "prediction failed: %v", err)
	}

	var out []byte
	switch f.format {
	case formatJSON:
		out, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		out = append(out, '\n')
	default:
		out = []byte(report.Text(result, scenario, domain.Now()))
	}

	return writeOutput(stdout, f.out, out)
}

func newRiskCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "risk <scenario-file>",
		Short: "Show the live risk preview for a YAML or JSON crash scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRisk(cmd.OutOrStdout(), args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text or json")

	return cmd
}

func runRisk(w io.Writer, path, format string) error {
	if format != formatText && format != formatJSON {
		return exitError(2, "unknown --format %q: want text or json", format)
	}

	scenario, err := scenariofile.Load(path)
	if err != nil {
		return exitError(3, "failed to load scenario: %v", err)
	}
	risk := domain.AssessRisk(scenario)

	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(risk)
	}
	_, err = io.WriteString(w, formatRisk(risk))
	return err
}

func formatRisk(r domain.RiskAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk: %s (%d)\n", r.Level, r.Score)
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  ! %s\n", w)
	}
	return b.String()
}

// newScorer returns the in-process engine, or a cached client for the remote
// backend when baseURL is set. metrics may be nil.
func newScorer(baseURL string, timeout time.Duration, cacheSize int, metrics *observability.Metrics, logger *slog.Logger) domain.Scorer {
	if baseURL == "" {
		return domain.NewLocalScorer()
	}
	client := remote.NewClient(strings.TrimRight(baseURL, "/"), timeout, metrics, logger)
	return remote.NewCachedScorer(client, cacheSize, metrics)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // report files are not secret
		return exitError(3, "failed to write %s: %v", path, err)
	}
	return nil
}
