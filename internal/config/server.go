package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by LoadServer.
const (
	EnvAPIAddr         = "TODO_API_ADDR"
	EnvAPIDBPath       = "TODO_API_DB_PATH"
	EnvJWTSecret       = "JWT_SECRET_KEY"
	EnvJWTIssuer       = "JWT_ISSUER"
	EnvTokenTTLMinutes = "ACCESS_TOKEN_EXPIRE_MINUTES"
	EnvAuthRateLimit   = "TODO_AUTH_RATE_LIMIT"
	EnvDebug           = "TODO_DEBUG"
)

// ServerConfig configures the REST API process.
type ServerConfig struct {
	Addr           string
	DBPath         string
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	// AuthRatePerMinute limits auth requests per client IP.
	AuthRatePerMinute int
	ShutdownTimeout   time.Duration
	Debug             bool
}

// DefaultServerConfig returns the defaults without a signing secret.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":3000",
		DBPath:            "todo_api.db",
		JWTIssuer:         AppName,
		AccessTokenTTL:    30 * time.Minute,
		AuthRatePerMinute: 20,
		ShutdownTimeout:   30 * time.Second,
	}
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if v := os.Getenv(EnvAPIAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvAPIDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvJWTIssuer); v != "" {
		cfg.JWTIssuer = v
	}
	cfg.JWTSecret = os.Getenv(EnvJWTSecret)
	if v := os.Getenv(EnvTokenTTLMinutes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid %s: %q", EnvTokenTTLMinutes, v)
		}
		cfg.AccessTokenTTL = time.Duration(n) * time.Minute
	}
	if v := os.Getenv(EnvAuthRateLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid %s: %q", EnvAuthRateLimit, v)
		}
		cfg.AuthRatePerMinute = n
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %q", EnvDebug, v)
		}
		cfg.Debug = debug
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New(EnvJWTSecret + " must be set")
	}
	return cfg, nil
}
