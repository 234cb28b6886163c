package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Output defaults
	DefaultOutputDir = "./content"

	// HTTP defaults
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	// Cache defaults
	DefaultCacheEnabled = false
	DefaultCacheTTL     = time.Hour

	// Build defaults
	DefaultWorkers = 4

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// LocalConfigFile is read from the working directory before the user config
	LocalConfigFile = "wploader.yaml"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wploader"
	}
	return filepath.Join(home, ".wploader")
}

// CacheDir returns the response cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// StoreDir returns the entry store directory path
func StoreDir() string {
	return filepath.Join(ConfigDir(), "store")
}

// ConfigFilePath returns the user config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration. The endpoint has no default.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Store: StoreConfig{
			Backend:   BackendBadger,
			Directory: StoreDir(),
		},
		Build: BuildConfig{
			Workers: DefaultWorkers,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
