package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conduit-lang/gridmeta/internal/i18n"
	"github.com/conduit-lang/gridmeta/internal/logging"
	"github.com/conduit-lang/gridmeta/internal/table/width"
)

// Snapshot backends
const (
	SnapshotNone   = "none"
	SnapshotMemory = "memory"
	SnapshotRedis  = "redis"
)

// Config represents the gridmeta project configuration
type Config struct {
	Metadata     string         `mapstructure:"metadata"`
	Tables       string         `mapstructure:"tables"`
	I18n         string         `mapstructure:"i18n"`
	I18nFallback string         `mapstructure:"i18n_fallback"`
	Width        WidthConfig    `mapstructure:"width"`
	Log          LogConfig      `mapstructure:"log"`
	Server       ServerConfig   `mapstructure:"server"`
	Snapshot     SnapshotConfig `mapstructure:"snapshot"`

	// ConfigFile is the file the configuration was read from, if any
	ConfigFile string `mapstructure:"-"`
}

// WidthConfig tunes the width estimator
type WidthConfig struct {
	ButtonPadding  float64 `mapstructure:"button_padding"`
	ValueHelpGap   float64 `mapstructure:"value_help_gap"`
	UnitEditGap    float64 `mapstructure:"unit_edit_gap"`
	MaxStringWidth float64 `mapstructure:"max_string_width"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	Host        string   `mapstructure:"host"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// SnapshotConfig selects where derivation snapshots are published
type SnapshotConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig represents the redis snapshot backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func newViper() *viper.Viper {
	v := viper.New()

	// Set defaults
	defaults := width.DefaultConfig()
	v.SetDefault("metadata", "metadata.yaml")
	v.SetDefault("tables", "tables.yaml")
	v.SetDefault("i18n", "")
	v.SetDefault("i18n_fallback", "key")
	v.SetDefault("width.button_padding", defaults.ButtonPadding)
	v.SetDefault("width.value_help_gap", defaults.ValueHelpGap)
	v.SetDefault("width.unit_edit_gap", defaults.UnitEditGap)
	v.SetDefault("width.max_string_width", defaults.MaxStringWidth)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("snapshot.backend", SnapshotNone)
	v.SetDefault("snapshot.ttl", 10*time.Minute)
	v.SetDefault("snapshot.prefix", "gridmeta:")
	v.SetDefault("snapshot.redis.addr", "localhost:6379")
	v.SetDefault("snapshot.redis.password", "")
	v.SetDefault("snapshot.redis.db", 0)

	// GRIDMETA_SERVER_PORT overrides server.port
	v.SetEnvPrefix("GRIDMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads the configuration from gridmeta.yml or gridmeta.yaml in the
// working directory. A missing file leaves the defaults in place.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("gridmeta")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFile loads the configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Path resolves a configured path relative to the config file's directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.ConfigFile == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.ConfigFile), p)
}

// WidthEstimator returns the estimator configuration
func (c *Config) WidthEstimator() *width.Config {
	return &width.Config{
		ButtonPadding:  c.Width.ButtonPadding,
		ValueHelpGap:   c.Width.ValueHelpGap,
		UnitEditGap:    c.Width.UnitEditGap,
		MaxStringWidth: c.Width.MaxStringWidth,
	}
}

// Logging returns the logger configuration
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Development: c.Log.Development}
}

// Address returns the server listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// InProject checks if the current directory holds a gridmeta configuration
func InProject() bool {
	for _, name := range []string{"gridmeta.yml", "gridmeta.yaml"} {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}

// GetProjectRoot walks up from the working directory to the first directory
// holding a gridmeta configuration.
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{"gridmeta.yml", "gridmeta.yaml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a gridmeta project (no gridmeta.yml found)")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Metadata == "" {
		return fmt.Errorf("metadata must not be empty")
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := i18n.ParseFallback(cfg.I18nFallback); err != nil {
		return fmt.Errorf("i18n_fallback: %w", err)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got: %d", cfg.Server.Port)
	}
	if cfg.Width.ButtonPadding < 0 || cfg.Width.ValueHelpGap < 0 || cfg.Width.UnitEditGap < 0 {
		return fmt.Errorf("width gaps must not be negative")
	}
	if cfg.Width.MaxStringWidth <= 0 {
		return fmt.Errorf("width.max_string_width must be positive, got: %v", cfg.Width.MaxStringWidth)
	}

	switch cfg.Snapshot.Backend {
	case SnapshotNone, SnapshotMemory:
	case SnapshotRedis:
		if cfg.Snapshot.Redis.Addr == "" {
			return fmt.Errorf("snapshot.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("snapshot.backend must be one of none, memory, redis, got: %s", cfg.Snapshot.Backend)
	}
	if cfg.Snapshot.TTL < 0 {
		return fmt.Errorf("snapshot.ttl must not be negative")
	}
	return nil
}
