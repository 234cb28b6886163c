package app

import (
	"errors"

	"github.com/quantmind-br/wploader-go/internal/cache"
	"github.com/quantmind-br/wploader-go/internal/config"
	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/fetcher"
	"github.com/quantmind-br/wploader-go/internal/loader"
	"github.com/quantmind-br/wploader-go/internal/schema"
	"github.com/quantmind-br/wploader-go/internal/store"
	"github.com/quantmind-br/wploader-go/internal/utils"
)

// Dependencies contains the shared collaborators of a build
type Dependencies struct {
	Fetcher *fetcher.Client
	Cache   domain.Cache
	Pager   *fetcher.Pager
	Store   domain.Store
	Schemas *schema.Registry
	Loaders *loader.Registry
	Logger  *utils.Logger
}

// DependencyOptions configures NewDependencies
type DependencyOptions struct {
	Config *config.Config
	Logger *utils.Logger
	// Store replaces the configured backend when set
	Store domain.Store
}

// NewDependencies wires the fetcher, cache, store and loaders from config.
// The endpoint is validated before anything is opened.
func NewDependencies(opts DependencyOptions) (*Dependencies, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	if _, err := loader.NewEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}

	client, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:     cfg.HTTP.Timeout,
		MaxRetries:  cfg.HTTP.MaxRetries,
		EnableCache: cfg.Cache.Enabled,
		CacheTTL:    cfg.Cache.TTL,
		UserAgent:   cfg.HTTP.UserAgent,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{Fetcher: client, Logger: logger}

	if cfg.Cache.Enabled {
		c, err := cache.NewBadgerCache(cache.Options{
			Directory: utils.ExpandPath(cfg.Cache.Directory),
		})
		if err != nil {
			_ = deps.Close()
			return nil, err
		}
		deps.Cache = c
		client.SetCache(c)
	}

	deps.Store = opts.Store
	if deps.Store == nil {
		s, err := OpenStore(cfg)
		if err != nil {
			_ = deps.Close()
			return nil, err
		}
		deps.Store = s
	}

	deps.Pager = fetcher.NewPager(client, logger)
	deps.Schemas = schema.NewRegistry()
	deps.Loaders, err = loader.NewRegistry(cfg.Endpoint, deps.Pager, deps.Schemas, loader.Options{
		SkipInvalid: cfg.Build.SkipInvalid,
		Logger:      logger,
	})
	if err != nil {
		_ = deps.Close()
		return nil, err
	}

	return deps, nil
}

// OpenStore opens the configured entry store on its own. Read commands use it
// so they need neither an endpoint nor an HTTP client.
func OpenStore(cfg *config.Config) (domain.Store, error) {
	return store.New(store.Options{
		Backend:   cfg.Store.Backend,
		Directory: utils.ExpandPath(cfg.Store.Directory),
	})
}

// Close releases all resources
func (d *Dependencies) Close() error {
	var errs []error
	if d.Fetcher != nil {
		errs = append(errs, d.Fetcher.Close())
	}
	if d.Cache != nil {
		errs = append(errs, d.Cache.Close())
	}
	if d.Store != nil {
		errs = append(errs, d.Store.Close())
	}
	return errors.Join(errs...)
}
