package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/happiness-data-service/internal/adapter/happiness"
	httpadapter "github.com/couchcryptid/happiness-data-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/happiness-data-service/internal/adapter/kafka"
	"github.com/couchcryptid/happiness-data-service/internal/adapter/worldbank"
	"github.com/couchcryptid/happiness-data-service/internal/config"
	"github.com/couchcryptid/happiness-data-service/internal/dashboard"
	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
	"github.com/couchcryptid/happiness-data-service/internal/probe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	bounds := domain.YearBounds{Min: cfg.YearMin, Max: cfg.YearMax}

	fetcher := probe.NewHTTPFetcher(cfg.ProbeTimeout)

	var indicators dashboard.IndicatorSource = worldbank.NewClient(
		cfg.WorldBankBaseURLs,
		probe.NewProber("worldbank", fetcher, logger, metrics),
		bounds,
	)
	if cfg.CacheSize > 0 {
		indicators = worldbank.NewCachedSource(indicators, cfg.CacheSize, cfg.CacheTTL, clockwork.NewRealClock(), metrics)
		logger.Info("world bank cache enabled", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	}

	happy := happiness.NewClient(
		cfg.HappinessEndpoints,
		cfg.RankingEndpoints,
		probe.NewProber("happiness", fetcher, logger, metrics),
		bounds,
	)

	opts := []dashboard.Option{dashboard.WithYearBounds(bounds)}

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		opts = append(opts, dashboard.WithPublisher(writer))
		metrics.PublisherEnabled.Set(1)
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	svc := dashboard.New(indicators, happy, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.CORSOrigins, svc, svc, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the country list; /readyz reports ready once it resolves.
	go svc.Warmup(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		svc.Flush()
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
