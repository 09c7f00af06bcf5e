package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/crash-severity-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/crash-severity-service/internal/adapter/kafka"
	"github.com/couchcryptid/crash-severity-service/internal/config"
	"github.com/couchcryptid/crash-severity-service/internal/observability"
	"github.com/couchcryptid/crash-severity-service/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction API and, when KAFKA_ENABLED=true, the stream scorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return exitError(2, "failed to load config: %v", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	scorer := newScorer(cfg.ScorerURL, cfg.ScorerTimeout, cfg.ScorerCacheSize, metrics, logger)
	if cfg.RemoteScorer() {
		metrics.RemoteEnabled.Set(1)
		logger.Info("remote scorer enabled", "url", cfg.ScorerURL, "cache_size", cfg.ScorerCacheSize, "timeout", cfg.ScorerTimeout)
	} else {
		logger.Info("using in-process scoring engine")
	}

	ready := readinessGroup{}
	if rc, ok := scorer.(sharedobs.ReadinessChecker); ok {
		ready = append(ready, rc)
	}

	var (
		p      *pipeline.Pipeline
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(scorer, logger)
		p = pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = append(ready, p)
		logger.Info("stream scoring enabled", "source", cfg.KafkaSourceTopic, "sink", cfg.KafkaSinkTopic)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Scorer:         scorer,
		Ready:          ready,
		Metrics:        metrics,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// readinessGroup is ready when every member is.
type readinessGroup []sharedobs.ReadinessChecker

func (g readinessGroup) CheckReadiness(ctx context.Context) error {
	for _, rc := range g {
		if err := rc.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
