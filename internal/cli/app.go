// Package cli holds the state shared by the nvprime commands.
package cli

import (
	"context"
	"fmt"

	"github.com/bnema/nvprime/internal/cli/styles"
	"github.com/bnema/nvprime/internal/domain/build"
	"github.com/bnema/nvprime/internal/infrastructure/config"
	"github.com/bnema/nvprime/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config        *config.Config
	ConfigManager *config.Manager
	Theme         *styles.Theme
	BuildInfo     build.Info

	// Context with logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp loads configuration and builds the logger. An empty configFile
// searches the default locations.
func NewApp(parent context.Context, configFile string) (*App, error) {
	mgr, err := newManager(configFile)
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx, cancel := context.WithCancel(logging.WithContext(parent, logger))

	logger.Debug().
		Str("config", mgr.ConfigFileUsed()).
		Str("backend", string(cfg.Backend.Kind)).
		Msg("configuration loaded")

	return &App{
		Config:        cfg,
		ConfigManager: mgr,
		Theme:         styles.NewTheme(),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func newManager(configFile string) (*config.Manager, error) {
	if configFile != "" {
		mgr, err := config.NewManagerForFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", configFile, err)
		}
		return mgr, nil
	}
	return config.NewManager()
}

// Close releases all resources.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
