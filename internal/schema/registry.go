package schema

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Registry maps each kind to its descriptor and typed record
type Registry struct {
	descriptors map[domain.Kind]*Descriptor
}

// NewRegistry creates a registry holding the built-in WordPress descriptors
func NewRegistry() *Registry {
	r := &Registry{descriptors: make(map[domain.Kind]*Descriptor)}
	for _, d := range []*Descriptor{
		PostDescriptor,
		PageDescriptor,
		TagDescriptor,
		CategoryDescriptor,
		CommentDescriptor,
		UserDescriptor,
		MediaDescriptor,
		StatusDescriptor,
		TaxonomyDescriptor,
		TypeDescriptor,
		SiteSettingsDescriptor,
	} {
		r.Register(d)
	}
	return r
}

// Register adds or replaces the descriptor for d.Kind
func (r *Registry) Register(d *Descriptor) {
	r.descriptors[d.Kind] = d
}

// Descriptor returns the descriptor for kind
func (r *Registry) Descriptor(kind domain.Kind) (*Descriptor, error) {
	d, ok := r.descriptors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}
	return d, nil
}

// Validate checks raw against the descriptor registered for kind
func (r *Registry) Validate(kind domain.Kind, raw map[string]any) (map[string]any, error) {
	d, err := r.Descriptor(kind)
	if err != nil {
		return nil, err
	}
	return Validate(d, raw)
}

// Parse validates raw and decodes the result into the typed record for kind
func (r *Registry) Parse(kind domain.Kind, raw map[string]any) (Record, error) {
	clean, err := r.Validate(kind, raw)
	if err != nil {
		return nil, err
	}

	rec, err := NewRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := decode(clean, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", kind, err)
	}
	return rec, nil
}

// NewRecord returns an empty typed record for kind
func NewRecord(kind domain.Kind) (Record, error) {
	switch kind {
	case domain.KindPost:
		return &Post{}, nil
	case domain.KindPage:
		return &Page{}, nil
	case domain.KindTag:
		return &Tag{}, nil
	case domain.KindCategory:
		return &Category{}, nil
	case domain.KindComment:
		return &Comment{}, nil
	case domain.KindUser:
		return &User{}, nil
	case domain.KindMedia:
		return &Media{}, nil
	case domain.KindStatus:
		return &Status{}, nil
	case domain.KindTaxonomy:
		return &Taxonomy{}, nil
	case domain.KindType:
		return &Type{}, nil
	case domain.KindSiteSettings:
		return &SiteSettings{}, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
}

func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
