package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/nerrad567/intellipark-core/internal/backend"
	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/clock"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/database"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/logging"
	"github.com/nerrad567/intellipark-core/internal/parking"
	"github.com/nerrad567/intellipark-core/internal/scene"
	"github.com/nerrad567/intellipark-core/migrations"
)

// engine is the in-process gate and scene machinery shared by serve and
// watch.
type engine struct {
	backend      *backend.Client
	scheduler    *gate.Scheduler
	orchestrator *scene.Orchestrator
	db           *database.DB
}

// catalogFromConfig builds the scene catalog from the lot configuration.
func catalogFromConfig(cfg config.LotConfig) (*scene.Catalog, error) {
	ids := make([]string, 0, len(cfg.Scenes))
	for id := range cfg.Scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]scene.Entry, 0, len(ids))
	for _, id := range ids {
		sc := cfg.Scenes[id]
		entries = append(entries, scene.Entry{
			ID:    id,
			Label: sc.Label,
			Scene: scene.Scene{
				Entry:     sc.Entry,
				LotBefore: sc.LotBefore,
				LotAfter:  sc.LotAfter,
				Exit:      sc.Exit,
				Type:      sc.Type,
			},
		})
	}
	cat, err := scene.NewCatalog(entries)
	if err != nil {
		return nil, fmt.Errorf("building scene catalog: %w", err)
	}
	return cat, nil
}

// newBackend creates the backend client from configuration.
func newBackend(cfg *config.Config) *backend.Client {
	return backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.GetBackendTimeout(),
	})
}

// buildEngine wires the scheduler, cache, snapshot store and orchestrator.
// telemetry may be nil. The returned cleanup closes the database.
func buildEngine(ctx context.Context, cfg *config.Config, log *logging.Logger, telemetry scene.Telemetry) (*engine, func(), error) {
	catalog, err := catalogFromConfig(cfg.Lot)
	if err != nil {
		return nil, nil, err
	}

	e := &engine{backend: newBackend(cfg)}
	cleanup := func() {}

	var store parking.SnapshotStore
	if cfg.Database.Enabled {
		db, dbErr := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if dbErr != nil {
			return nil, nil, fmt.Errorf("opening database: %w", dbErr)
		}
		cleanup = func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}
		applied, migErr := db.Migrate(ctx, migrations.FS)
		if migErr != nil {
			cleanup()
			return nil, nil, fmt.Errorf("running migrations: %w", migErr)
		}
		log.Info("database ready", "path", db.Path(), "migrations_applied", applied)
		e.db = db
		store = parking.NewSQLiteSnapshotStore(db.DB)
	} else {
		log.Info("database disabled, cached layout will not survive restarts")
	}

	e.scheduler = gate.NewScheduler(clock.Real{}, cfg.Lot.Delays.Gate(), log.Component("gate"))

	e.orchestrator, err = scene.New(scene.Deps{
		Catalog:    catalog,
		Scheduler:  e.scheduler,
		Backend:    e.backend,
		Cache:      parking.NewSessionCache(),
		TotalSpots: cfg.Lot.TotalSpots,
		Store:      store,
		Telemetry:  telemetry,
		Logger:     log.Component("scene"),
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	if err := e.orchestrator.Restore(ctx); err != nil {
		log.Warn("restoring session snapshot failed", "error", err)
	}
	return e, cleanup, nil
}
