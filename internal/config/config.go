// Package config handles the XDG configuration directory, backend selection and file paths.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// TasksFile is the default JSON tasks filename.
	TasksFile = "tasks.json"

	// DatabaseFile is the default SQLite database filename.
	DatabaseFile = "todo.db"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (google backend).
	TokenFile = "token.json"

	// DefaultListID is the Google Tasks list used when none is configured.
	DefaultListID = "@default"
)

// Backend names accepted by --backend and TODO_BACKEND.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendGoogle = "google"
)

// Environment variables read by Load.
const (
	EnvConfigDir = "TODO_CONFIG_DIR"
	EnvBackend   = "TODO_BACKEND"
	EnvFile      = "TODO_FILE"
	EnvDBPath    = "TODO_DB_PATH"
	EnvListID    = "TODO_LIST_ID"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the task repository: file, memory, sqlite or google.
	Backend string

	// File overrides the JSON tasks file path.
	File string

	// DBPath overrides the SQLite database path.
	DBPath string

	// ListID is the Google Tasks list backing the google backend.
	ListID string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Backend: BackendFile, ListID: DefaultListID}, nil
}

// Load is New followed by environment overrides. Explicit values win over the environment.
func Load(configDir, backend, file string) (*Config, error) {
	if configDir == "" {
		configDir = os.Getenv(EnvConfigDir)
	}
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvFile); v != "" {
		cfg.File = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvListID); v != "" {
		cfg.ListID = v
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if file != "" {
		cfg.File = file
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend name.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = BackendFile
	case BackendFile, BackendMemory, BackendSQLite, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// TasksPath returns the JSON tasks file path.
func (c *Config) TasksPath() string {
	if c.File != "" {
		return c.File
	}
	return filepath.Join(c.Dir, TasksFile)
}

// DatabasePath returns the SQLite database path.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.Dir, DatabaseFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// Logger returns a logger writing to w at debug level when Debug is set,
// and a discarding logger otherwise.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if !c.Debug || w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
