package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"todo/internal/backend/file"
	"todo/internal/backend/memory"
	"todo/internal/config"
	"todo/internal/task"
)

// Opener builds the repository for a configuration.
type Opener func(ctx context.Context, cfg *config.Config) (task.Repository, error)

// Manager holds one shared Service for a process. It is built once in main and
// passed to whatever needs a service, so tests construct their own.
type Manager struct {
	mu     sync.Mutex
	open   Opener
	svc    Service
	closer io.Closer
}

// NewManager creates a Manager. A nil opener uses the JSON file at cfg.TasksPath().
func NewManager(open Opener) *Manager {
	if open == nil {
		open = openFile
	}
	return &Manager{open: open}
}

func openFile(ctx context.Context, cfg *config.Config) (task.Repository, error) {
	return file.New(cfg.TasksPath(), file.WithLogger(cfg.Logger(os.Stderr)))
}

// Service returns the shared service, building it on first use.
func (m *Manager) Service(ctx context.Context, cfg *config.Config) (Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.svc != nil {
		return m.svc, nil
	}
	repo, err := m.open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	m.svc = NewTaskService(repo)
	m.closer, _ = repo.(io.Closer)
	return m.svc, nil
}

// Reset replaces the shared service with one over a fresh in-memory repository.
func (m *Manager) Reset() Service {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	m.svc = NewTaskService(memory.New())
	return m.svc
}

// Set replaces the shared service.
func (m *Manager) Set(svc Service) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	m.svc = svc
}

// Close releases the repository if it holds resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	c := m.closer
	m.closer = nil
	if c == nil {
		return nil
	}
	return c.Close()
}
