// Package config handles configuration loading for mockhive.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Content  ContentConfig  `mapstructure:"content"`
}

// StorageConfig represents storage configuration.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// DefaultsConfig represents the endpoint-level defaults applied to
// responses that do not set their own status or delay.
type DefaultsConfig struct {
	Status int   `mapstructure:"status"`
	Delay  int64 `mapstructure:"delay"` // milliseconds
}

// ContentConfig represents body content resolution configuration.
type ContentConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// Load loads the configuration from files and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	v.AddConfigPath("./mockhive")

	// Add user config directory
	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "mockhive"))
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Bind environment variables
	v.SetEnvPrefix("MOCKHIVE")
	v.AutomaticEnv()

	// Also support direct env var names
	v.BindEnv("storage.path", "MOCKHIVE_STORAGE_PATH")
	v.BindEnv("defaults.status", "MOCKHIVE_DEFAULT_STATUS")
	v.BindEnv("defaults.delay", "MOCKHIVE_DEFAULT_DELAY")
	v.BindEnv("content.base_dir", "MOCKHIVE_CONTENT_DIR")

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Expand environment variables in paths
	cfg.Storage.Path = os.ExpandEnv(cfg.Storage.Path)
	cfg.Content.BaseDir = os.ExpandEnv(cfg.Content.BaseDir)

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "./mockhive.db")

	// Response defaults
	v.SetDefault("defaults.status", 200)
	v.SetDefault("defaults.delay", 0)

	// Content defaults
	v.SetDefault("content.base_dir", "")
}

// GetDefaultStoragePath returns the default storage path.
func GetDefaultStoragePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./mockhive.db"
	}
	return filepath.Join(homeDir, ".config", "mockhive", "mockhive.db")
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	configDir := filepath.Join(homeDir, ".config", "mockhive")
	return os.MkdirAll(configDir, 0755)
}

// EnsureStorageDir ensures the directory for the storage path exists.
func EnsureStorageDir(storagePath string) error {
	dir := filepath.Dir(storagePath)
	return os.MkdirAll(dir, 0755)
}
