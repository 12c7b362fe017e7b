// Package app wires one store into the services commands use.
//
// An App is the process-wide context: it owns the sandbox, the adapter
// registry and the resolved capability, so their lifetime is explicit and a
// test can build a fresh one per case.
package app

import (
	"fmt"

	"github.com/blackcoderx/postmaiden/pkg/config"
	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/exchange"
	"github.com/blackcoderx/postmaiden/pkg/listing"
	"github.com/blackcoderx/postmaiden/pkg/opfs"
	"github.com/blackcoderx/postmaiden/pkg/project"
	"github.com/blackcoderx/postmaiden/pkg/runtime"
	"github.com/blackcoderx/postmaiden/pkg/session"
	"github.com/blackcoderx/postmaiden/pkg/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// App holds every service of one store.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Root       *opfs.Root
	Registry   *opfs.Registry
	Capability opfs.Capability

	Projects  *project.Repository
	Listing   *listing.Service
	Workspace *workspace.Service
	Exchange  *exchange.Service
	Session   *session.Store
	Guard     *session.Guard
	Executor  *runtime.Executor
}

// New opens the sandbox directory named by cfg on the OS filesystem.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	osFs := afero.NewOsFs()
	if !cfg.Storage.ReadOnly {
		if err := osFs.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", cfg.Storage.Dir, err)
		}
	}

	var fs afero.Fs = afero.NewBasePathFs(osFs, cfg.Storage.Dir)
	if cfg.Storage.ReadOnly {
		fs = afero.NewReadOnlyFs(fs)
	}
	return NewWithFs(cfg, fs, logger)
}

// NewWithFs builds an App over an existing filesystem. It fails with
// CodeUnsupported when the filesystem cannot persist, before anything is read.
func NewWithFs(cfg *config.Config, fs afero.Fs, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	capability := opfs.DetectCapability(fs)
	if !capability.PersistenceSupported() {
		return nil, errs.New(errs.CodeUnsupported, "this storage cannot persist data").
			WithMeta("dir", cfg.Storage.Dir)
	}

	root := opfs.NewRoot(fs, logger.Named("opfs"))
	registry := opfs.NewRegistry(root)
	repo := project.NewRepository(root, capability, logger.Named("project"))
	store := session.NewStore(registry)

	a := &App{
		Config:     cfg,
		Logger:     logger,
		Root:       root,
		Registry:   registry,
		Capability: capability,
		Projects:   repo,
		Listing:    listing.NewService(repo),
		Workspace:  workspace.NewService(repo),
		Exchange:   exchange.NewService(repo),
		Session:    store,
		Guard:      session.NewGuard(store, cfg.Session.PollInterval, logger),
		Executor:   runtime.NewExecutor(cfg.HTTP.Timeout, logger),
	}

	logger.Debug("app ready", zap.String("storage", cfg.Storage.Dir))
	return a, nil
}

// Close flushes the logger and forgets memoized adapters.
func (a *App) Close() error {
	a.Registry.Reset()
	_ = a.Logger.Sync()
	return nil
}
