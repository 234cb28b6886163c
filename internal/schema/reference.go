package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// ToReference coerces a raw REST id into a reference to kind.
//
// WordPress reports a missing relation as 0, so every falsy value (0, "",
// false, null) maps to nil. Numbers keep their shortest decimal form, so
// 42 and "42" produce the same reference.
func ToReference(kind domain.Kind, raw any) *domain.Reference {
	id, ok := referenceID(raw)
	if !ok || id == "" {
		return nil
	}
	return &domain.Reference{Collection: kind, ID: id}
}

// referenceID returns the string form of raw. ok is false for values that
// cannot be an id at all.
func referenceID(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", true
	case bool:
		if !v {
			return "", true
		}
		return "true", true
	case string:
		return v, true
	case float64:
		if v == 0 {
			return "", true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return referenceID(float64(v))
	case int:
		return referenceID(int64(v))
	case int64:
		if v == 0 {
			return "", true
		}
		return strconv.FormatInt(v, 10), true
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return "", true
		}
		return strings.TrimSpace(v.String()), true
	}
	return "", false
}

// validateRef checks a reference field value and returns the reference or
// nil when the relation is absent.
func validateRef(f Field, raw any) (*domain.Reference, error) {
	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("reference has no target collection")
	}
	if _, ok := referenceID(raw); !ok {
		return nil, fmt.Errorf("expected reference id, received %s", typeOf(raw))
	}
	return ToReference(f.Targets[0], raw), nil
}
