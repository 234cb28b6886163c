package loader

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

const endpointHint = "pass the URL of your WordPress REST API, most commonly https://example.com/wp-json/"

// Endpoint is the validated root of a WordPress REST API
type Endpoint struct {
	base *url.URL
}

// NewEndpoint validates raw and normalizes it to end with a slash
func NewEndpoint(raw string) (*Endpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.NewConfigError("endpoint", endpointHint, domain.ErrMissingEndpoint)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, domain.NewConfigError("endpoint", endpointHint, fmt.Errorf("invalid url %q: %w", raw, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, domain.NewConfigError("endpoint", endpointHint, fmt.Errorf("unsupported scheme in %q", raw))
	}
	if u.Host == "" {
		return nil, domain.NewConfigError("endpoint", endpointHint, fmt.Errorf("missing host in %q", raw))
	}

	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""

	return &Endpoint{base: u}, nil
}

// String returns the normalized endpoint
func (e *Endpoint) String() string {
	return e.base.String()
}

// CollectionURL returns <endpoint>wp/v2/<kind>
func (e *Endpoint) CollectionURL(kind domain.Kind) string {
	return e.base.ResolveReference(&url.URL{Path: "wp/v2/" + string(kind)}).String()
}
