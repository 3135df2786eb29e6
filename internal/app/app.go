package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/dori/brainy/internal/ai"
	"github.com/dori/brainy/internal/auth"
	"github.com/dori/brainy/internal/config"
	"github.com/dori/brainy/internal/db"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/logging"
	"github.com/dori/brainy/internal/notify"
	"github.com/dori/brainy/internal/store"
)

// App holds the application state and dependencies
type App struct {
	Config    *config.Config
	Log       *logging.Logger
	DB        *db.DB
	Store     *store.Store
	Auth      *auth.Store
	Gateway   *ai.Gateway
	Assistant *ai.Assistant
	Notifier  *notify.Notifier
	DataDir   string
	lockFile  *flock.Flock
}

// New creates a new application instance and restores persisted state
func New(ctx context.Context, cfg *config.Config, log *logging.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Nop()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		Log:      log,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(cfg.Notify.Enabled),
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		return nil, err
	}

	database, err := db.OpenContext(ctx, cfg.DBPath())
	if err != nil {
		app.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	gw, err := ai.NewGateway(cfg.AI, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create AI gateway: %w", err)
	}
	app.Gateway = gw
	app.Assistant = ai.NewAssistant(gw, log)

	app.Store = store.New(
		store.WithPersister(database),
		store.WithLogger(log),
		store.WithAwardHook(app.onAward),
	)
	if err := app.Store.Load(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to restore state: %w", err)
	}

	app.Auth = auth.New(database, log)
	if err := app.Auth.Load(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to restore identity: %w", err)
	}

	log.Info(ctx, "started",
		zap.String("data_dir", cfg.DataDir),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Bool("ai_online", gw.Online()))
	return app, nil
}

// onAward turns level-ups into desktop notifications
func (a *App) onAward(award gamify.Award) {
	if !award.LeveledUp {
		return
	}
	if err := a.Notifier.SendLevelUp(award.LevelAfter, award.XPAfter); err != nil {
		a.Log.Debug(context.Background(), "level-up notification failed", zap.Error(err))
	}
}

// RemindDue sends a reminder for each pending task due within window, and
// returns how many were sent.
func (a *App) RemindDue(window time.Duration) int {
	now := a.Store.Now()
	sent := 0
	for _, t := range a.Store.Snapshot().Tasks {
		if t.IsDone() || t.Deadline == nil {
			continue
		}
		dueIn := t.Deadline.Sub(now)
		if dueIn > window {
			continue
		}
		if err := a.Notifier.SendDueReminder(t.Title, dueIn); err != nil {
			a.Log.Debug(context.Background(), "due reminder failed", zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "brainy.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of brainy is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()
	_ = a.Log.Sync()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
