// Package config loads client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

const (
	defaultAPIURL  = "http://localhost:8080/api"
	defaultWebURL  = "http://localhost:5173"
	defaultTimeout = 30 * time.Second
)

// Config is the resolved client configuration.
type Config struct {
	APIURL   string
	WebURL   string
	Home     string // state directory
	Store    string // StoreFile or StoreSQLite
	LogLevel string
	Timeout  time.Duration
}

// Load reads an optional .env file from the working directory, then the
// STOREFRONT_* environment variables. Variables already set in the
// environment win over the .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIURL:   strings.TrimRight(or(getenv("STOREFRONT_API_URL"), defaultAPIURL), "/"),
		WebURL:   strings.TrimRight(or(getenv("STOREFRONT_WEB_URL"), defaultWebURL), "/"),
		Home:     getenv("STOREFRONT_HOME"),
		Store:    strings.ToLower(or(getenv("STOREFRONT_STORE"), StoreFile)),
		LogLevel: strings.ToLower(or(getenv("STOREFRONT_LOG_LEVEL"), "info")),
		Timeout:  defaultTimeout,
	}

	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config.FromEnv: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".storefront")
	}

	switch cfg.Store {
	case StoreFile, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("config.FromEnv: STOREFRONT_STORE must be %q or %q, got %q", StoreFile, StoreSQLite, cfg.Store)
	}

	if raw := getenv("STOREFRONT_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("config.FromEnv: invalid STOREFRONT_TIMEOUT %q", raw)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// LogPath is the log file inside the state directory.
func (c Config) LogPath() string {
	return filepath.Join(c.Home, "storefront.log")
}

// DBPath is the SQLite session database inside the state directory.
func (c Config) DBPath() string {
	return filepath.Join(c.Home, "session.db")
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
