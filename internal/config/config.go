// Package config loads thriftly's settings from viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/thriftly/internal/common"
	"github.com/Veraticus/thriftly/internal/pattern"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Keys read from viper.
const (
	KeyStorageBackend = "storage.backend"
	KeyStoragePath    = "storage.path"
	KeyFeedPageSize   = "feed.page_size"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyImportRules    = "import.rules"
)

// DefaultStoragePath is where the SQLite database lives unless configured.
const DefaultStoragePath = "$HOME/.local/share/thriftly/thriftly.db"

// EnvPrefix prefixes environment overrides, e.g. THRIFTLY_STORAGE_PATH.
const EnvPrefix = "THRIFTLY"

// Config is the validated application configuration.
type Config struct {
	Storage StorageConfig
	Logging LoggingConfig
	Feed    FeedConfig
	Import  ImportConfig
}

// StorageConfig selects where collections are persisted.
type StorageConfig struct {
	Backend string
	Path    string
}

// LoggingConfig controls the global slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// FeedConfig controls feed pagination.
type FeedConfig struct {
	PageSize int
}

// ImportConfig holds the rules applied to imported statement lines.
type ImportConfig struct {
	Rules []pattern.Rule
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageBackend, BackendSQLite)
	v.SetDefault(KeyStoragePath, DefaultStoragePath)
	v.SetDefault(KeyFeedPageSize, 10)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, common.FormatConsole)
}

// BindEnv makes every key overridable from THRIFTLY_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from a .env file in the working directory if
// one exists. Variables already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Storage: StorageConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageBackend))),
			Path:    ExpandPath(v.GetString(KeyStoragePath)),
		},
		Logging: LoggingConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Feed: FeedConfig{
			PageSize: v.GetInt(KeyFeedPageSize),
		},
	}

	if err := v.UnmarshalKey(KeyImportRules, &cfg.Import.Rules); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyImportRules, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting has a usable value.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: %s is required for the sqlite backend", common.ErrInvalidConfig, KeyStoragePath)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown %s %q", common.ErrInvalidConfig, KeyStorageBackend, c.Storage.Backend)
	}

	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, KeyFeedPageSize, c.Feed.PageSize)
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case common.FormatConsole, common.FormatJSON:
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}

	for _, rule := range c.Import.Rules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
		}
	}

	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
