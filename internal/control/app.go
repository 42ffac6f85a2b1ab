package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/crosspay/internal/core/admin"
	"github.com/vietddude/crosspay/internal/core/classifier"
	"github.com/vietddude/crosspay/internal/core/config"
	"github.com/vietddude/crosspay/internal/core/registry"
	"github.com/vietddude/crosspay/internal/core/send"
	"github.com/vietddude/crosspay/internal/core/session"
	"github.com/vietddude/crosspay/internal/core/txlog"
	"github.com/vietddude/crosspay/internal/health"
	"github.com/vietddude/crosspay/internal/infra/storage"
	"github.com/vietddude/crosspay/internal/infra/storage/memory"
	"github.com/vietddude/crosspay/internal/infra/storage/sqlite"
)

// App holds the wired services over one local store.
type App struct {
	cfg Config
	kv  storage.KV
	log *slog.Logger

	State      *storage.State
	Registry   *registry.Registry
	TxLog      *txlog.Log
	Classifier *classifier.Classifier
	Flow       *send.Flow
	Gate       *session.Gate
	Panel      *admin.Panel
	Health     *health.Monitor
}

// Config holds the application configuration.
type Config struct {
	Storage  config.StorageConfig
	Admin    session.Credentials
	SeedDemo bool

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// NewConfig maps the file configuration onto App settings.
func NewConfig(cfg *config.AppConfig) Config {
	return Config{
		Storage:  cfg.Storage,
		Admin:    cfg.Admin,
		SeedDemo: cfg.Demo.SeedEnabled(),
	}
}

// NewApp opens the store and wires every service on top of it.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	log := slog.Default()
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// 1. Initialize Storage
	var kv storage.KV
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		kv = memory.NewMemoryStorage()
		log.Debug("Using memory storage")
	case config.DriverSQLite, "":
		db, err := sqlite.NewDB(ctx, cfg.Storage.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		kv = sqlite.NewKVRepo(db)
		log.Debug("Using SQLite storage", "path", cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	// 2. Initialize Services
	state := storage.NewState(kv, storage.WithClock(now), storage.WithLogger(log))
	reg := registry.New(state, now)
	txs := txlog.New(state, now)
	cls := classifier.New(reg)
	gate := session.NewGate(state, cfg.Admin, now)

	app := &App{
		cfg:        cfg,
		kv:         kv,
		log:        log,
		State:      state,
		Registry:   reg,
		TxLog:      txs,
		Classifier: cls,
		Flow:       send.NewFlow(cls, txs),
		Gate:       gate,
		Panel:      admin.NewPanel(gate, reg),
		Health:     health.NewMonitor(state, 5*time.Second),
	}

	// 3. Demo data
	if cfg.SeedDemo {
		seeded, err := reg.SeedDemo(ctx)
		if err != nil {
			// Seeding is a convenience; the app works with an empty registry.
			log.Warn("Failed to seed demo addresses", "error", err)
		} else if seeded {
			log.Info("Seeded demo addresses")
		}
	}

	return app, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.kv.Close()
}
