// Package app assembles the dispatch log's runtime pieces from a loaded
// configuration. The server and the CLI share it.
package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pakalnivut/backend/internal/config"
	"github.com/pakalnivut/backend/internal/dispatch"
	"github.com/pakalnivut/backend/internal/dispatchlog"
	"github.com/pakalnivut/backend/internal/logging"
	"github.com/pakalnivut/backend/internal/storage"
	"github.com/pakalnivut/backend/internal/table"
)

// App holds the wired components.
type App struct {
	Config    *config.AppConfig
	Log       *logging.Logger
	KV        storage.KV
	Store     *dispatchlog.Store
	Service   *dispatch.Service
	Presenter *table.Presenter
	Now       func() time.Time
}

// Open wires logging, storage, the store and the dispatch service per cfg.
// now defaults to time.Now.
func Open(cfg *config.AppConfig, now func() time.Time) (*App, error) {
	if now == nil {
		now = time.Now
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	codec, err := storage.CodecByName(cfg.Storage.Codec)
	if err != nil {
		log.Close()
		return nil, err
	}

	kv, err := storage.Open(storage.Options{
		Backend:     cfg.Storage.Backend,
		DataDir:     cfg.GetDataDir(),
		FileExt:     codec.Ext(),
		DuckDBPath:  cfg.Storage.DuckDBPath,
		MemoryLimit: cfg.Storage.DuckDBMemoryLimit,
		Threads:     cfg.Storage.DuckDBThreads,
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	store := dispatchlog.NewStore(kv, codec, log)
	svc := dispatch.NewService(store, now, dispatch.Defaults{
		DistanceKm: cfg.Dispatch.DefaultDistanceKm,
		SpeedKmh:   cfg.Dispatch.DefaultSpeedKmh,
		StepKm:     cfg.Dispatch.DistanceStepKm,
	}, log)

	log.Debug("storage opened",
		"backend", cfg.Storage.Backend,
		"codec", codec.Name(),
		"data_dir", cfg.GetDataDir(),
	)

	return &App{
		Config:    cfg,
		Log:       log,
		KV:        kv,
		Store:     store,
		Service:   svc,
		Presenter: table.NewPresenter(store, now),
		Now:       now,
	}, nil
}

// Close releases storage and the log file.
func (a *App) Close() error {
	return errors.Join(a.KV.Close(), a.Log.Close())
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	if cfg.Directory != "" {
		return logging.NewFileLogger(cfg.Directory, cfg.Level)
	}
	return logging.New(os.Stderr, cfg.Level, cfg.Format), nil
}
