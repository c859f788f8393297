// Package app wires configuration, storage, the event bus and the module
// services into one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/Harbor-City-Volleyball/courtplan/app/api"
	"github.com/Harbor-City-Volleyball/courtplan/app/db/bundb"
	"github.com/Harbor-City-Volleyball/courtplan/app/eventbus"
	"github.com/Harbor-City-Volleyball/courtplan/app/metrics"
	formationservice "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/application"
	formationstore "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/store"
	"github.com/Harbor-City-Volleyball/courtplan/app/modules/playback"
	rosterservice "github.com/Harbor-City-Volleyball/courtplan/app/modules/roster/application"
	"github.com/Harbor-City-Volleyball/courtplan/config"
)

// App owns every long-lived component.
type App struct {
	Cfg    *config.Config
	Logger *slog.Logger

	DBService *bundb.DBService
	Bus       eventbus.EventBus
	Store     *formationstore.Store

	Roster    *rosterservice.RosterService
	Formation *formationservice.FormationService
	Playback  *playback.Controller

	httpServer    *http.Server
	metricsServer *http.Server
}

// NewApp builds the application from configuration. The session store is
// hydrated from the database so the board opens on the saved collections.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	bus := eventbus.NewEventBus(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	tracer := otel.Tracer("courtplan")

	store := formationstore.New()
	if err := hydrateStore(ctx, store, dbService); err != nil {
		return nil, err
	}

	pb := playback.NewController(
		store,
		bus,
		playback.SystemClock{},
		cfg.Playback.TransitionDuration,
		cfg.Playback.TickInterval,
		logger,
		m,
		tracer,
	)
	formation := formationservice.NewFormationService(store, dbService.FormationDB, bus, pb, logger, m, tracer)
	roster := rosterservice.NewRosterService(store, dbService.PlayerDB, dbService.FormationDB, bus, logger, m, tracer)

	handlers := api.NewHandlers(roster, formation, pb, logger)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &App{
		Cfg:       cfg,
		Logger:    logger,
		DBService: dbService,
		Bus:       bus,
		Store:     store,
		Roster:    roster,
		Formation: formation,
		Playback:  pb,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           handlers.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		metricsServer: &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func hydrateStore(ctx context.Context, store *formationstore.Store, dbService *bundb.DBService) error {
	players, err := dbService.PlayerDB.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	positions, err := dbService.FormationDB.GetAllPositions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}
	scenarios, err := dbService.FormationDB.GetAllScenarios(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}
	sequences, err := dbService.FormationDB.GetAllSequences(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sequences: %w", err)
	}

	store.ReplaceAll(players, positions, scenarios, sequences)
	return nil
}

// Run serves the API and metrics endpoints until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.Logger.Info("API server listening", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		a.Logger.Info("Metrics server listening", slog.String("addr", a.metricsServer.Addr))
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Close shuts the servers, bus and database down.
func (a *App) Close(ctx context.Context) error {
	a.Playback.Cancel(ctx)

	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("api shutdown: %w", err))
	}
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
	}
	if err := a.Bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus close: %w", err))
	}
	if err := a.DBService.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}
	return errors.Join(errs...)
}
