// Package app assembles the demonlist backend: configuration, database,
// event bus, observability and the module services.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	demonservice "github.com/demonlist-club/demonlist-backend/app/modules/demon/application"
	playerservice "github.com/demonlist-club/demonlist-backend/app/modules/player/application"
	recordservice "github.com/demonlist-club/demonlist-backend/app/modules/record/application"
	"github.com/demonlist-club/demonlist-backend/config"
	"github.com/demonlist-club/demonlist-backend/internal/db/bundb"
	"github.com/demonlist-club/demonlist-backend/internal/eventbus"
	"github.com/demonlist-club/demonlist-backend/internal/observability/metrics"
	"github.com/demonlist-club/demonlist-backend/internal/video"
)

// App holds the assembled application.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	DemonService  *demonservice.DemonService
	PlayerService *playerservice.PlayerService
	RecordService *recordservice.RecordService

	db            *bundb.DBService
	eventBus      eventbus.EventBus
	metricsServer *http.Server
}

// NewApp builds the application from the given configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	bus, err := eventbus.NewNATSEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewPrometheusMetrics(registry)

	tracer := otel.Tracer("demonlist-backend")
	db := dbService.GetDB()

	// Claim verification is owned by the external auth deployment; without
	// one, every player is unclaimed.
	playerService := playerservice.NewPlayerService(
		dbService.Player, dbService.Record, nil, logger, appMetrics, tracer, db,
	)
	demonService := demonservice.NewDemonService(
		dbService.Demon, dbService.Record, playerService, playerService,
		bus, logger, appMetrics, tracer, db,
	)
	recordService := recordservice.NewRecordService(
		dbService.Record, dbService.Demon, playerService, playerService,
		video.DefaultValidator{}, config.NewEnvThresholds(cfg),
		bus, logger, appMetrics, tracer, db,
	)

	a := &App{
		Config:        cfg,
		Logger:        logger,
		DemonService:  demonService,
		PlayerService: playerService,
		RecordService: recordService,
		db:            dbService,
		eventBus:      bus,
	}

	if cfg.Observability.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		a.metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Serving metrics", slog.String("address", cfg.Observability.MetricsAddress))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", slog.Any("error", err))
			}
		}()
	}

	return a, nil
}

// Close shuts the application down in reverse start order.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus close: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.GetDB().Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(errs...)
}
