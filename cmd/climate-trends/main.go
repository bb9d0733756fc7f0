package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-trends/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/climate-trends/internal/adapter/kafka"
	"github.com/couchcryptid/climate-trends/internal/analysis"
	"github.com/couchcryptid/climate-trends/internal/chart"
	"github.com/couchcryptid/climate-trends/internal/config"
	"github.com/couchcryptid/climate-trends/internal/observability"
	"github.com/couchcryptid/climate-trends/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

// run executes one session reading answers from in and writing the dialogue
// to out. It returns 1 on fatal load, render or input errors and on
// interrupt, 0 otherwise.
func run(ctx context.Context, in io.Reader, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	defer writeMetrics(cfg, metrics, logger)

	p := pipeline.New(pipeline.NewFileExtractor(cfg.Paths), logger, metrics)

	if cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(cfg.MetricsAddr, p, metrics.Registry, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	data, err := p.Prepare(ctx)
	if err != nil {
		logger.Error("failed to prepare datasets", "error", err)
		return 1
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Error("failed to create output directory", "dir", cfg.OutputDir, "error", err)
		return 1
	}

	// Trend publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher analysis.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("trend publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Debug("trend publishing disabled")
	}

	renderer := chart.NewRenderer(out, logger)
	sel := analysis.NewSelector(data, renderer, publisher, out, cfg.OutputDir, logger, metrics)

	req, err := analysis.Prompt(ctx, in, out)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("interrupted")
			return 1
		}
		logger.Error("failed to read input", "error", err)
		return 1
	}

	if _, err := sel.Run(ctx, req); err != nil {
		logger.Error("failed to render chart", "error", err)
		return 1
	}
	return 0
}

func writeMetrics(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("failed to write metrics", "path", cfg.MetricsTextfile, "error", err)
	}
}
