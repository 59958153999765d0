package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/quoted/internal/quote"
)

// Config captures the settings quoted reads from config.toml.
type Config struct {
	Path           string // resolved config file, whether or not it exists
	RemoteURL      string
	SyncInterval   time.Duration
	BatchSize      int
	ServerCategory string
	IdentityKey    quote.IdentityKey
	Push           bool
	DBPath         string
	LogPath        string
	SessionDir     string // empty means the session package default
	BannerTimeout  time.Duration
}

const (
	defaultConfigPath     = "~/.config/quoted/config.toml"
	defaultRemoteURL      = "https://jsonplaceholder.typicode.com/posts"
	defaultSyncInterval   = 30 * time.Second
	defaultBatchSize      = 5
	defaultServerCategory = "Server"
	defaultDBPath         = "~/.local/share/quoted/quoted.db"
	defaultLogPath        = "~/.local/share/quoted/quoted.log"
	defaultBannerTimeout  = 4 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		RemoteURL:      defaultRemoteURL,
		SyncInterval:   defaultSyncInterval,
		BatchSize:      defaultBatchSize,
		ServerCategory: defaultServerCategory,
		IdentityKey:    quote.KeyText,
		Push:           true,
		DBPath:         mustExpand(defaultDBPath),
		LogPath:        mustExpand(defaultLogPath),
		BannerTimeout:  defaultBannerTimeout,
	}
}

// Load locates and parses the quoted config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Path = resolved

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		RemoteURL      string `toml:"remote_url"`
		SyncInterval   string `toml:"sync_interval"`
		BatchSize      int    `toml:"batch_size"`
		ServerCategory string `toml:"server_category"`
		IdentityKey    string `toml:"identity_key"`
		Push           *bool  `toml:"push"`
		DBPath         string `toml:"db_path"`
		LogPath        string `toml:"log_path"`
		SessionDir     string `toml:"session_dir"`
		BannerTimeout  string `toml:"banner_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.RemoteURL); v != "" {
		cfg.RemoteURL = v
	}
	if v := strings.TrimSpace(raw.ServerCategory); v != "" {
		cfg.ServerCategory = v
	}
	if raw.BatchSize < 0 {
		return Config{}, fmt.Errorf("parse config: batch_size must be positive, got %d", raw.BatchSize)
	}
	if raw.BatchSize > 0 {
		cfg.BatchSize = raw.BatchSize
	}
	if raw.Push != nil {
		cfg.Push = *raw.Push
	}

	if cfg.SyncInterval, err = parseDuration("sync_interval", raw.SyncInterval, defaultSyncInterval); err != nil {
		return Config{}, err
	}
	if cfg.BannerTimeout, err = parseDuration("banner_timeout", raw.BannerTimeout, defaultBannerTimeout); err != nil {
		return Config{}, err
	}
	if cfg.IdentityKey, err = quote.ParseIdentityKey(raw.IdentityKey); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.DBPath); v != "" {
		cfg.DBPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.SessionDir); v != "" {
		cfg.SessionDir = mustExpand(v)
	}

	return cfg, nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogPath) == "" {
		return filepath.Dir(mustExpand(defaultLogPath))
	}
	return filepath.Dir(c.LogPath)
}

// ExpandPath resolves a leading ~ and makes path absolute. CLI flags go through
// it so they behave like config values.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive, got %s", key, trimmed)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
