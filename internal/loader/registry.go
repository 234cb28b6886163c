package loader

import (
	"fmt"

	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/schema"
)

// Registry holds one loader per kind
type Registry struct {
	endpoint *Endpoint
	loaders  map[domain.Kind]Loader
}

// NewRegistry builds the loaders for every kind. It fails with a
// ConfigError before any request when the endpoint is missing or invalid.
func NewRegistry(endpoint string, source Source, schemas *schema.Registry, opts Options) (*Registry, error) {
	ep, err := NewEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	if schemas == nil {
		schemas = schema.NewRegistry()
	}

	r := &Registry{endpoint: ep, loaders: make(map[domain.Kind]Loader, len(domain.AllKinds))}
	for _, kind := range domain.AllKinds {
		if kind == domain.KindSiteSettings {
			r.loaders[kind] = NewSettingsLoader(ep.String(), source, schemas, opts)
			continue
		}
		r.loaders[kind] = NewCollectionLoader(kind, ep.CollectionURL(kind), source, schemas, opts)
	}
	return r, nil
}

// Endpoint returns the normalized endpoint
func (r *Registry) Endpoint() *Endpoint {
	return r.endpoint
}

// Get returns the loader for kind
func (r *Registry) Get(kind domain.Kind) (Loader, bool) {
	l, ok := r.loaders[kind]
	return l, ok
}

// All returns every loader in load order
func (r *Registry) All() []Loader {
	loaders := make([]Loader, 0, len(domain.AllKinds))
	for _, kind := range domain.AllKinds {
		loaders = append(loaders, r.loaders[kind])
	}
	return loaders
}

// Select returns the loaders for kinds, or all loaders when kinds is empty
func (r *Registry) Select(kinds []domain.Kind) ([]Loader, error) {
	if len(kinds) == 0 {
		return r.All(), nil
	}
	loaders := make([]Loader, 0, len(kinds))
	for _, kind := range kinds {
		l, ok := r.loaders[kind]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
		}
		loaders = append(loaders, l)
	}
	return loaders, nil
}
