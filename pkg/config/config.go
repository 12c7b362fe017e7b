// Package config loads Postmaiden's configuration from a config file, the environment and .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g. POSTMAIDEN_STORAGE_DIR.
const EnvPrefix = "POSTMAIDEN"

// Config represents the user's Postmaiden configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Session SessionConfig `mapstructure:"session"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig locates the sandbox directory.
type StorageConfig struct {
	Dir      string `mapstructure:"dir" validate:"required"`
	ReadOnly bool   `mapstructure:"readonly"`
}

// SessionConfig tunes the single-active-session heartbeat.
type SessionConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,gte=10ms"`
}

// HTTPConfig tunes request execution.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"required,gte=1ms"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfigDir returns the directory searched for config.yaml.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".postmaiden"
	}
	return filepath.Join(dir, "postmaiden")
}

// DefaultDataDir returns the default sandbox directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".postmaiden"
	}
	return filepath.Join(home, ".local", "share", "postmaiden")
}

// Load reads configuration. cfgFile overrides the default search path; a
// missing default config file is not an error. .env is loaded if present.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.dir", DefaultDataDir())
	v.SetDefault("storage.readonly", false)
	v.SetDefault("session.poll_interval", "1s")
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
