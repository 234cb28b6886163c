package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings and any
// config file set with viper.SetConfigFile.
func Load() (*Config, error) {
	return load(viper.GetViper(), "", (*Config).Validate)
}

// LoadLocal loads configuration from the global viper instance without
// requiring an endpoint
func LoadLocal() (*Config, error) {
	return load(viper.GetViper(), "", (*Config).ValidateLocal)
}

// LoadFile loads configuration from an explicit file on a fresh viper instance
func LoadFile(path string) (*Config, error) {
	return load(viper.New(), path, (*Config).Validate)
}

// LoadWithViper loads configuration and returns the viper instance.
// This is useful for merging CLI flags later.
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := load(v, "", (*Config).Validate)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func load(v *viper.Viper, path string, validate func(*Config) error) (*Config, error) {
	setDefaults(v)

	v.SetConfigType("yaml")
	if path == "" {
		path = v.ConfigFileUsed()
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// Environment variables (WPLOADER_*)
	v.SetEnvPrefix("WPLOADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfigFile returns the first existing config file, preferring the
// working directory over the user config directory
func findConfigFile() string {
	for _, candidate := range []string{LocalConfigFile, ConfigFilePath()} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		} else if !errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
	return ""
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "")

	// HTTP defaults
	v.SetDefault("http.timeout", DefaultTimeout)
	v.SetDefault("http.max_retries", DefaultMaxRetries)
	v.SetDefault("http.user_agent", "")

	// Cache defaults
	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.directory", CacheDir())

	// Store defaults
	v.SetDefault("store.backend", BackendBadger)
	v.SetDefault("store.directory", StoreDir())

	// Build defaults
	v.SetDefault("build.workers", DefaultWorkers)
	v.SetDefault("build.skip_invalid", false)
	v.SetDefault("build.collections", []string{})

	// Output defaults
	v.SetDefault("output.directory", DefaultOutputDir)
	v.SetDefault("output.overwrite", false)
	v.SetDefault("output.json_index", false)

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
