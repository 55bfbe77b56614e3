package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-monolith/mono"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"todo/internal/auth"
	"todo/internal/backend/sqlstore"
)

// StoreModule owns the SQLite database shared by users and tasks.
type StoreModule struct {
	dbPath string
	debug  bool
	logger *slog.Logger

	db    *gorm.DB
	tasks *sqlstore.Repository
}

// Compile-time interface checks.
var _ mono.Module = (*StoreModule)(nil)
var _ mono.HealthCheckableModule = (*StoreModule)(nil)

// NewStoreModule creates a StoreModule for the database at dbPath.
func NewStoreModule(dbPath string, debug bool, logger *slog.Logger) *StoreModule {
	return &StoreModule{dbPath: dbPath, debug: debug, logger: logger}
}

// Name returns the module name.
func (m *StoreModule) Name() string {
	return "store"
}

// Start opens the database and migrates the users and tasks tables.
func (m *StoreModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), sqlstore.Config(m.debug))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := auth.Migrate(db); err != nil {
		closeQuietly(db)
		return err
	}
	tasks, err := sqlstore.New(db)
	if err != nil {
		closeQuietly(db)
		return err
	}

	m.db = db
	m.tasks = tasks
	m.logger.Info("store module started", "database", m.dbPath)
	return nil
}

// Stop closes the database.
func (m *StoreModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	m.logger.Info("store module stopped")
	return nil
}

// Health pings the database.
func (m *StoreModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// DB returns the connection. Valid after Start.
func (m *StoreModule) DB() *gorm.DB {
	return m.db
}

// Tasks returns the unscoped task repository. Valid after Start.
func (m *StoreModule) Tasks() *sqlstore.Repository {
	return m.tasks
}

func closeQuietly(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
