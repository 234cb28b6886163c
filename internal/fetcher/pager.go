package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/utils"
)

const (
	// PerPage is the largest page size the WordPress REST API accepts
	PerPage = 100

	// TotalPagesHeader carries the page count of a collection response
	TotalPagesHeader = "X-WP-TotalPages"
)

// Item is one raw REST record
type Item = map[string]any

// Pager walks a paginated WordPress collection
type Pager struct {
	fetcher domain.Fetcher
	logger  *utils.Logger
}

// NewPager creates a Pager on top of fetcher
func NewPager(fetcher domain.Fetcher, logger *utils.Logger) *Pager {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Pager{
		fetcher: fetcher,
		logger:  logger.WithComponent("pager"),
	}
}

// FetchAll requests every page of collectionURL in order and returns the
// concatenated, normalized items. Pages are fetched one at a time; the page
// count comes from the X-WP-TotalPages header of each response.
func (p *Pager) FetchAll(ctx context.Context, collectionURL string) ([]Item, error) {
	var items []Item

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL, err := PageURL(collectionURL, page)
		if err != nil {
			return nil, err
		}

		p.logger.WithURL(pageURL).Info().Int("page", page).Msg("Fetching page")

		resp, err := p.fetcher.Get(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		pageItems, err := Normalize(pageURL, resp.Body)
		if err != nil {
			return nil, err
		}
		items = append(items, pageItems...)

		if page >= TotalPages(resp.Headers) {
			break
		}
	}

	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// FetchOne requests a single JSON object, such as the site settings at the
// API root.
func (p *Pager) FetchOne(ctx context.Context, rawURL string) (Item, error) {
	p.logger.WithURL(rawURL).Info().Msg("Fetching object")

	resp, err := p.fetcher.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	data, err := decodeJSON(rawURL, resp.Body)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, shapeError(rawURL, data)
	}
	return obj, nil
}

// PageURL sets per_page and page on collectionURL, keeping other parameters
func PageURL(collectionURL string, page int) (string, error) {
	u, err := url.Parse(collectionURL)
	if err != nil {
		return "", fmt.Errorf("invalid collection url %q: %w", collectionURL, err)
	}
	q := u.Query()
	q.Set("per_page", strconv.Itoa(PerPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TotalPages reads the leading integer of X-WP-TotalPages, so "3.0" and
// "3 pages" both mean 3. It defaults to 1 when no integer is present.
func TotalPages(h domain.Header) int {
	v := strings.TrimSpace(h.Get(TotalPagesHeader))
	end := 0
	if end < len(v) && (v[end] == '+' || v[end] == '-') {
		end++
	}
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 1
	}
	return n
}

// Normalize turns a response body into a list of items.
//
// An array is returned as is. An object becomes one item per key, in key
// order: {"id": key, ...value} when the value is an object, otherwise
// {"id": key}. Anything else is a ShapeError.
func Normalize(sourceURL string, body []byte) ([]Item, error) {
	data, err := decodeJSON(sourceURL, body)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []any:
		items := make([]Item, 0, len(v))
		for _, el := range v {
			item, ok := el.(map[string]any)
			if !ok {
				return nil, shapeError(sourceURL, data)
			}
			items = append(items, item)
		}
		return items, nil

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]Item, 0, len(v))
		for _, k := range keys {
			item := Item{"id": k}
			if obj, ok := v[k].(map[string]any); ok {
				for field, val := range obj {
					item[field] = val
				}
			}
			items = append(items, item)
		}
		return items, nil
	}

	return nil, shapeError(sourceURL, data)
}

func decodeJSON(sourceURL string, body []byte) (any, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, domain.NewFetchError(sourceURL, 0, fmt.Errorf("invalid JSON response: %w", err))
	}
	return data, nil
}

func shapeError(sourceURL string, data any) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		payload = []byte(fmt.Sprint(data))
	}
	return &domain.ShapeError{
		URL:     sourceURL,
		Type:    jsonType(data),
		Payload: string(payload),
	}
}

func jsonType(data any) string {
	switch v := data.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		for _, el := range v {
			if _, ok := el.(map[string]any); !ok {
				return "array containing " + jsonType(el)
			}
		}
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", data)
}
