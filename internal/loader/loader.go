// Package loader turns WordPress REST collections into stored entries.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/schema"
	"github.com/quantmind-br/wploader-go/internal/utils"
)

// Source retrieves raw REST items
type Source interface {
	FetchAll(ctx context.Context, collectionURL string) ([]map[string]any, error)
	FetchOne(ctx context.Context, rawURL string) (map[string]any, error)
}

// Loader fills the key space of one kind in a sink
type Loader interface {
	Name() string
	Kind() domain.Kind
	Load(ctx context.Context, sink domain.Sink) (Result, error)
}

// Result summarizes one load
type Result struct {
	Kind     domain.Kind
	Fetched  int
	Stored   int
	Skipped  int
	Duration time.Duration
}

// Options configures loaders
type Options struct {
	// SkipInvalid logs and skips records that fail validation instead of
	// failing the load
	SkipInvalid bool
	Logger      *utils.Logger
}

func (o Options) logger() *utils.Logger {
	if o.Logger == nil {
		return utils.NewNopLogger()
	}
	return o.Logger
}

func loaderName(kind domain.Kind) string {
	return "wp-" + string(kind)
}

// NewEntry builds the stored form of a validated record
func NewEntry(kind domain.Kind, rec schema.Record) (domain.Entry, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to encode %s/%s: %w", kind, rec.RecordID(), err)
	}

	entry := domain.Entry{Kind: kind, ID: rec.RecordID(), Data: data}
	if r, ok := rec.(schema.Renderable); ok {
		if html := r.RenderedHTML(); html != "" {
			entry.Rendered = &domain.Rendered{HTML: html}
		}
	}
	return entry, nil
}

// CollectionLoader loads a paginated wp/v2 collection
type CollectionLoader struct {
	kind    domain.Kind
	url     string
	source  Source
	schemas *schema.Registry
	opts    Options
	logger  *utils.Logger
}

// NewCollectionLoader creates a loader for kind reading from collectionURL
func NewCollectionLoader(kind domain.Kind, collectionURL string, source Source, schemas *schema.Registry, opts Options) *CollectionLoader {
	return &CollectionLoader{
		kind:    kind,
		url:     collectionURL,
		source:  source,
		schemas: schemas,
		opts:    opts,
		logger:  opts.logger().WithComponent("loader").WithKind(string(kind)),
	}
}

// Name returns the loader name
func (l *CollectionLoader) Name() string { return loaderName(l.kind) }

// Kind returns the collection this loader fills
func (l *CollectionLoader) Kind() domain.Kind { return l.kind }

// URL returns the collection URL
func (l *CollectionLoader) URL() string { return l.url }

// Load fetches every page, validates every item and then replaces the kind's
// entries. The sink is untouched unless fetching and validation succeeded.
func (l *CollectionLoader) Load(ctx context.Context, sink domain.Sink) (Result, error) {
	start := time.Now()
	res := Result{Kind: l.kind}

	items, err := l.source.FetchAll(ctx, l.url)
	if err != nil {
		return res, domain.NewLoadError(l.kind, err)
	}
	res.Fetched = len(items)

	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		rec, err := l.schemas.Parse(l.kind, item)
		if err != nil {
			if l.opts.SkipInvalid {
				l.logger.Warn().Err(err).Interface("id", item["id"]).Msg("Skipping invalid record")
				res.Skipped++
				continue
			}
			return res, domain.NewLoadError(l.kind, err)
		}

		entry, err := NewEntry(l.kind, rec)
		if err != nil {
			return res, domain.NewLoadError(l.kind, err)
		}
		entries = append(entries, entry)
	}

	if err := sink.Clear(ctx, l.kind); err != nil {
		return res, domain.NewLoadError(l.kind, fmt.Errorf("failed to clear: %w", err))
	}
	for _, entry := range entries {
		if err := sink.Set(ctx, entry); err != nil {
			return res, domain.NewLoadError(l.kind, fmt.Errorf("failed to store %s: %w", entry.ID, err))
		}
		res.Stored++
	}

	res.Duration = time.Since(start)
	l.logger.Info().
		Int("fetched", res.Fetched).
		Int("stored", res.Stored).
		Int("skipped", res.Skipped).
		Dur("duration", res.Duration).
		Msg("Loaded collection")

	return res, nil
}

// SettingsLoader loads the site settings singleton from the API root
type SettingsLoader struct {
	url     string
	source  Source
	schemas *schema.Registry
	logger  *utils.Logger
}

// NewSettingsLoader creates the site settings loader
func NewSettingsLoader(rootURL string, source Source, schemas *schema.Registry, opts Options) *SettingsLoader {
	return &SettingsLoader{
		url:     rootURL,
		source:  source,
		schemas: schemas,
		logger:  opts.logger().WithComponent("loader").WithKind(string(domain.KindSiteSettings)),
	}
}

// Name returns the loader name
func (l *SettingsLoader) Name() string { return loaderName(domain.KindSiteSettings) }

// Kind returns domain.KindSiteSettings
func (l *SettingsLoader) Kind() domain.Kind { return domain.KindSiteSettings }

// URL returns the API root
func (l *SettingsLoader) URL() string { return l.url }

// Load fetches the API root once and stores it under the fixed settings id.
// Invalid settings always fail the load.
func (l *SettingsLoader) Load(ctx context.Context, sink domain.Sink) (Result, error) {
	start := time.Now()
	res := Result{Kind: domain.KindSiteSettings}

	raw, err := l.source.FetchOne(ctx, l.url)
	if err != nil {
		return res, domain.NewLoadError(domain.KindSiteSettings, err)
	}
	res.Fetched = 1

	data := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		data[k] = v
	}
	data["id"] = domain.SettingsID

	rec, err := l.schemas.Parse(domain.KindSiteSettings, data)
	if err != nil {
		return res, domain.NewLoadError(domain.KindSiteSettings, err)
	}

	entry, err := NewEntry(domain.KindSiteSettings, rec)
	if err != nil {
		return res, domain.NewLoadError(domain.KindSiteSettings, err)
	}

	if err := sink.Clear(ctx, domain.KindSiteSettings); err != nil {
		return res, domain.NewLoadError(domain.KindSiteSettings, fmt.Errorf("failed to clear: %w", err))
	}
	if err := sink.Set(ctx, entry); err != nil {
		return res, domain.NewLoadError(domain.KindSiteSettings, err)
	}
	res.Stored = 1
	res.Duration = time.Since(start)

	l.logger.Info().Dur("duration", res.Duration).Msg("Loaded site settings")
	return res, nil
}
