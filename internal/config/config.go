// Package config loads application settings from defaults, an optional
// YAML file in the data directory and TRAMIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/abhisek/tramind/internal/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TRAMIND"

// Config holds all application configuration.
type Config struct {
	DataDir    string `mapstructure:"data_dir" validate:"required"`
	DBPath     string `mapstructure:"db_path" validate:"required"`
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFile    string `mapstructure:"log_file"`
	CurvesFile string `mapstructure:"curves_file" validate:"omitempty,file"`
}

// Load builds the configuration. Environment variables take precedence
// over the config file, which takes precedence over defaults. configFile
// may be empty, in which case config.yaml in the data directory is used
// when it exists.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	dataDir, err := store.DataDir()
	if err != nil {
		return nil, err
	}
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("db_path", "")
	v.SetDefault("log_file", "")
	v.SetDefault("curves_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"data_dir", "TRAMIND_DATA_DIR"},
		{"db_path", "TRAMIND_DB"},
		{"log_level", "TRAMIND_LOG_LEVEL"},
		{"log_file", "TRAMIND_LOG_FILE"},
		{"curves_file", "TRAMIND_CURVES_FILE"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("bind environment variable %s: %w", env.envVar, err)
		}
	}

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDerived fills paths that default to locations in the data dir.
func (c *Config) applyDerived() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.DBPath == "" && c.DataDir != "" {
		c.DBPath = filepath.Join(c.DataDir, "tramind.db")
	}
	if c.LogFile == "" && c.DataDir != "" {
		c.LogFile = filepath.Join(c.DataDir, "tramind.log")
	}
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// EnsureDirs creates the data directory and the parents of the database
// and log files.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	for _, p := range []string{c.DBPath, c.LogFile} {
		if p == "" {
			continue
		}
		if err := store.EnsureDir(p); err != nil {
			return fmt.Errorf("create dir for %s: %w", p, err)
		}
	}
	return nil
}
