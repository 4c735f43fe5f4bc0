package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/internal/config"
	"github.com/aretw0/mcdata/internal/logging"
	"github.com/aretw0/mcdata/pkg/vanilla"
)

// CreateLogger builds the application logger from cfg, writing to w.
// Logs go to stderr so that stdout stays free for command output.
func CreateLogger(w io.Writer, cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level, cfg.LogFormat)
}

// LoadGlobal reads the vanilla data named by cfg. No VanillaDir means an
// empty global layer.
func LoadGlobal(cfg config.Config, logger *slog.Logger) (*vanilla.Global, error) {
	if cfg.VanillaDir == "" {
		logger.Debug("No vanilla data configured")
		return vanilla.Empty(), nil
	}
	global, err := vanilla.Load(os.DirFS(cfg.VanillaDir), cfg.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load vanilla data from %s: %w", cfg.VanillaDir, err)
	}
	logger.Info("Vanilla data loaded", "dir", cfg.VanillaDir, "version", global.Version, "blocks", global.Blocks.Len())
	return global, nil
}

// OpenWorkspace loads the global layer and adds every configured root.
func OpenWorkspace(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...mcdata.Option) (*mcdata.Workspace, error) {
	global, err := LoadGlobal(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts = append([]mcdata.Option{mcdata.WithLogger(logger)}, opts...)
	ws := mcdata.New(global, opts...)

	for _, path := range cfg.Roots {
		if _, err := ws.AddRoot(ctx, os.DirFS(path), path); err != nil {
			return nil, fmt.Errorf("failed to add root %s: %w", path, err)
		}
	}
	return ws, nil
}
