// Package backend selects a task repository from configuration.
package backend

import (
	"context"
	"fmt"
	"os"

	"todo/internal/backend/file"
	"todo/internal/backend/googletasks"
	"todo/internal/backend/memory"
	"todo/internal/backend/sqlstore"
	"todo/internal/config"
	"todo/internal/task"
)

// Open returns the repository named by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config) (task.Repository, error) {
	logger := cfg.Logger(os.Stderr)
	logger.Debug("opening backend", "backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendFile, "":
		return file.New(cfg.TasksPath(), file.WithLogger(logger))
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		return sqlstore.Open(cfg.DatabasePath(), cfg.Debug)
	case config.BackendGoogle:
		return googletasks.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
