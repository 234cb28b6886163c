package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies a WordPress entity kind and the collection its records live in
type Kind string

const (
	KindPost         Kind = "posts"
	KindPage         Kind = "pages"
	KindTag          Kind = "tags"
	KindCategory     Kind = "categories"
	KindComment      Kind = "comments"
	KindUser         Kind = "users"
	KindMedia        Kind = "media"
	KindStatus       Kind = "statuses"
	KindTaxonomy     Kind = "taxonomies"
	KindType         Kind = "types"
	KindSiteSettings Kind = "site-settings"
)

// SettingsID is the fixed identity of the site settings singleton
const SettingsID = "settings"

// AllKinds lists every kind in load order
var AllKinds = []Kind{
	KindPost,
	KindPage,
	KindTag,
	KindCategory,
	KindComment,
	KindUser,
	KindMedia,
	KindStatus,
	KindTaxonomy,
	KindType,
	KindSiteSettings,
}

// String returns the collection name
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a known kind
func (k Kind) IsValid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind parses a collection name into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// ParseKinds parses a list of collection names. An empty list selects every kind.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return append([]Kind(nil), AllKinds...), nil
	}
	kinds := make([]Kind, 0, len(names))
	seen := make(map[Kind]bool, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Reference is a typed pointer from one stored record to another
type Reference struct {
	Collection Kind   `json:"collection"`
	ID         string `json:"id"`
}

// String returns "collection/id"
func (r Reference) String() string {
	return string(r.Collection) + "/" + r.ID
}

// Rendered holds pre-rendered markup stored alongside structured data
type Rendered struct {
	HTML string `json:"html"`
}

// Entry is one record as written to and read from a sink
type Entry struct {
	Kind     Kind            `json:"kind"`
	ID       string          `json:"id"`
	Data     json.RawMessage `json:"data"`
	Rendered *Rendered       `json:"rendered,omitempty"`
}

// Decode unmarshals the entry's structured data into v
func (e *Entry) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("entry %s/%s has no data", e.Kind, e.ID)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode entry %s/%s: %w", e.Kind, e.ID, err)
	}
	return nil
}

// HTML returns the rendered payload or an empty string
func (e *Entry) HTML() string {
	if e.Rendered == nil {
		return ""
	}
	return e.Rendered.HTML
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     Header
	ContentType string
	URL         string
	FromCache   bool
}

// Header is a case-insensitive view over response headers
type Header map[string][]string

// Get returns the first value for key, matching case-insensitively
func (h Header) Get(key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
