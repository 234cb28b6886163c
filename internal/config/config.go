package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Store backends
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"`
	HTTP     HTTPConfig    `mapstructure:"http" yaml:"http"`
	Cache    CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Store    StoreConfig   `mapstructure:"store" yaml:"store"`
	Build    BuildConfig   `mapstructure:"build" yaml:"build"`
	Output   OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging  LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// HTTPConfig contains REST client settings
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// CacheConfig contains response cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// StoreConfig selects where loaded entries live
type StoreConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// BuildConfig contains loader settings
type BuildConfig struct {
	Workers     int      `mapstructure:"workers" yaml:"workers"`
	SkipInvalid bool     `mapstructure:"skip_invalid" yaml:"skip_invalid"`
	Collections []string `mapstructure:"collections" yaml:"collections"`
}

// OutputConfig contains export settings
type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite"`
	JSONIndex bool   `mapstructure:"json_index" yaml:"json_index"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate applies defaults for unset or out-of-range values and rejects
// configurations that cannot work
func (c *Config) Validate() error {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" {
		return domain.NewConfigError("endpoint",
			"set endpoint in wploader.yaml, WPLOADER_ENDPOINT or --endpoint, e.g. https://example.com/wp-json/",
			domain.ErrMissingEndpoint)
	}
	return c.ValidateLocal()
}

// ValidateLocal applies defaults and checks everything but the endpoint.
// Commands that only read the store use it.
func (c *Config) ValidateLocal() error {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.HTTP.Timeout < time.Second {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Build.Workers < 1 {
		c.Build.Workers = DefaultWorkers
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}

	switch strings.ToLower(c.Store.Backend) {
	case "":
		c.Store.Backend = BackendBadger
	case BackendBadger, BackendMemory:
		c.Store.Backend = strings.ToLower(c.Store.Backend)
	default:
		return domain.NewConfigError("store.backend",
			fmt.Sprintf("use %q or %q", BackendBadger, BackendMemory),
			fmt.Errorf("unknown backend %q", c.Store.Backend))
	}

	if _, err := domain.ParseKinds(c.Build.Collections); err != nil {
		return domain.NewConfigError("build.collections", "", err)
	}

	return nil
}

// Kinds returns the collections selected for loading
func (c *Config) Kinds() []domain.Kind {
	kinds, err := domain.ParseKinds(c.Build.Collections)
	if err != nil {
		return append([]domain.Kind(nil), domain.AllKinds...)
	}
	return kinds
}
