// Package api serves the task service over HTTP with JWT authentication.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"

	"todo/internal/auth"
	"todo/internal/config"
	"todo/internal/service"
)

// startupGrace is how long Start waits for an immediate Listen failure.
const startupGrace = 100 * time.Millisecond

// APIModule is the HTTP API module. It must be registered after the store module.
type APIModule struct {
	cfg    config.ServerConfig
	store  *StoreModule
	logger *slog.Logger

	app *fiber.App
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates an APIModule serving tasks from store.
func NewModule(cfg config.ServerConfig, store *StoreModule, logger *slog.Logger) *APIModule {
	return &APIModule{cfg: cfg, store: store, logger: logger}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Start builds the services and starts the HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.store == nil || m.store.DB() == nil {
		return errors.New("store module not started")
	}

	m.app = NewApp(m.deps())

	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(startupGrace):
	}

	m.logger.Info("HTTP server started", "addr", m.cfg.Addr)
	return nil
}

// deps wires the auth and task services over the store's database.
func (m *APIModule) deps() Deps {
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:           m.cfg.JWTSecret,
		AccessTokenDuration: m.cfg.AccessTokenTTL,
		Issuer:              m.cfg.JWTIssuer,
	})
	authService := auth.NewService(
		auth.NewUserRepository(m.store.DB()),
		auth.NewPasswordHasher(),
		jwtManager,
		auth.WithLogger(m.logger),
	)

	repo := m.store.Tasks()
	tasks := func(userID string) *service.TaskService {
		return service.NewTaskService(repo.ForUser(userID))
	}

	return Deps{
		Handlers:          NewHandlers(authService, tasks, m.logger),
		Verifier:          authService,
		AuthRatePerMinute: m.cfg.AuthRatePerMinute,
		Health:            map[string]HealthChecker{m.store.Name(): m.store, m.Name(): m},
		Logger:            m.logger,
		AccessLog:         true,
	}
}

// Stop shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("shutting down HTTP server")
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.Addr,
		},
	}
}
