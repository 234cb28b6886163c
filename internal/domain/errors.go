package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotFound indicates an entry was not found
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrMissingEndpoint indicates no REST API endpoint was configured
	ErrMissingEndpoint = errors.New("missing endpoint")

	// ErrUnknownKind indicates an unrecognized collection name
	ErrUnknownKind = errors.New("unknown collection")

	// ErrParentCycle indicates a parent chain that loops or exceeds the depth bound
	ErrParentCycle = errors.New("parent chain cycle")
)

// ConfigError represents an invalid setup, raised before any network call
type ConfigError struct {
	Field string
	Hint  string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("configuration error for %s: %v (%s)", e.Field, e.Err, e.Hint)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, hint string, err error) *ConfigError {
	return &ConfigError{Field: field, Hint: hint, Err: err}
}

// FetchError represents an error during fetching
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ShapeError indicates a payload that is neither a JSON array nor a JSON object
type ShapeError struct {
	URL     string
	Type    string
	Payload string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("expected WordPress API to return an array of items from %s, received %s:\n\n%s",
		e.URL, e.Type, e.Payload)
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 503, 502, 504:
			return true
		}
		// Cloudflare errors
		if fetchErr.StatusCode >= 520 && fetchErr.StatusCode <= 530 {
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// ValidationError represents a record that failed schema validation
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error for %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("validation error for %s field %s: %s", e.Kind, e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(kind Kind, field, message string) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Message: message,
	}
}

// LoadError names the collection whose loader failed
type LoadError struct {
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError
func NewLoadError(kind Kind, err error) *LoadError {
	return &LoadError{Kind: kind, Err: err}
}
