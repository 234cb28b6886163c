package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Validate checks raw against desc and returns a cleaned copy holding only
// the described keys, with dates parsed, numbers normalized and references
// coerced to domain.Reference values.
func Validate(desc *Descriptor, raw map[string]any) (map[string]any, error) {
	if raw == nil {
		return nil, domain.NewValidationError(desc.Kind, "", "expected object, received null")
	}

	v := &validator{kind: desc.Kind}
	out, err := v.object(&desc.Object, raw, "")
	if err != nil {
		return nil, err
	}

	selfID, _ := referenceID(out["id"])
	for _, f := range desc.Fields {
		if !f.NotSelf || selfID == "" {
			continue
		}
		if r, ok := out[f.Name].(domain.Reference); ok && r.ID == selfID {
			return nil, v.fail(f.Name, "record %s references itself", selfID)
		}
	}

	return out, nil
}

type validator struct {
	kind domain.Kind
}

func (v *validator) fail(path, format string, args ...any) error {
	return domain.NewValidationError(v.kind, path, fmt.Sprintf(format, args...))
}

func (v *validator) object(obj *Object, m map[string]any, path string) (map[string]any, error) {
	out := make(map[string]any, len(obj.Fields))
	for _, f := range obj.Fields {
		p := joinPath(path, f.Name)
		raw, present := m[f.Name]
		if !present {
			switch {
			case f.HasDefault:
				out[f.Name] = f.Default
			case f.Optional:
			default:
				return nil, v.fail(p, "required")
			}
			continue
		}

		val, keep, err := v.value(f, raw, p)
		if err != nil {
			return nil, err
		}
		if keep {
			out[f.Name] = val
		}
	}
	return out, nil
}

// value validates one present value. keep is false when the value resolves
// to an absent optional reference.
func (v *validator) value(f Field, raw any, path string) (any, bool, error) {
	if raw == nil {
		switch {
		case f.Nullable:
			return nil, true, nil
		case f.Type == TypeRef, f.Type == TypeAny, f.Type == TypeCoercedNumber:
			// handled below
		default:
			return nil, false, v.fail(path, "expected %s, received null", f.Type)
		}
	}

	switch f.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		return s, true, nil

	case TypeURL:
		s, ok := raw.(string)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		if !isURL(s) {
			return nil, false, v.fail(path, "invalid url %q", s)
		}
		return s, true, nil

	case TypeNumber:
		n, ok := toFloat(raw)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		return n, true, nil

	case TypeInteger:
		n, ok := toFloat(raw)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return nil, false, v.fail(path, "expected integer, received %v", n)
		}
		return int64(n), true, nil

	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		return b, true, nil

	case TypeDate:
		t, err := ParseDate(raw)
		if err != nil {
			return nil, false, v.fail(path, "%v", err)
		}
		return t, true, nil

	case TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		for _, allowed := range f.Enum {
			if s == allowed {
				return s, true, nil
			}
		}
		return nil, false, v.fail(path, "invalid value %q, expected one of %s", s, quoteAll(f.Enum))

	case TypeLiteral:
		s, ok := raw.(string)
		if !ok || len(f.Enum) == 0 || s != f.Enum[0] {
			return nil, false, v.fail(path, "expected literal %s, received %v", quoteAll(f.Enum), raw)
		}
		return s, true, nil

	case TypeRef:
		r, err := validateRef(f, raw)
		if err != nil {
			return nil, false, v.fail(path, "%v", err)
		}
		if r == nil {
			if f.Optional {
				return nil, false, nil
			}
			return nil, false, v.fail(path, "required reference to %s", f.Targets[0])
		}
		return *r, true, nil

	case TypeRefList:
		items, ok := raw.([]any)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		refs := make([]domain.Reference, 0, len(items))
		for i, item := range items {
			p := fmt.Sprintf("%s[%d]", path, i)
			r, err := validateRef(f, item)
			if err != nil {
				return nil, false, v.fail(p, "%v", err)
			}
			if r == nil {
				return nil, false, v.fail(p, "required reference to %s", f.Targets[0])
			}
			refs = append(refs, *r)
		}
		return refs, true, nil

	case TypeObject:
		m, ok := asMap(raw)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		out, err := v.object(f.Object, m, path)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil

	case TypeRecord:
		m, ok := asMap(raw)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(m))
		for _, k := range keys {
			val, keep, err := v.value(*f.Elem, m[k], joinPath(path, k))
			if err != nil {
				return nil, false, err
			}
			if keep {
				out[k] = val
			}
		}
		return out, true, nil

	case TypeList:
		items, ok := raw.([]any)
		if !ok {
			return nil, false, v.mismatch(path, f.Type, raw)
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			val, keep, err := v.value(*f.Elem, item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, false, err
			}
			if keep {
				out = append(out, val)
			}
		}
		return out, true, nil

	case TypeMeta:
		switch raw.(type) {
		case []any, map[string]any:
			return raw, true, nil
		}
		return nil, false, v.mismatch(path, f.Type, raw)

	case TypeAny:
		return raw, true, nil

	case TypeUnion:
		var firstErr error
		for _, variant := range f.Variants {
			variant.Name = f.Name
			val, keep, err := v.value(variant, raw, path)
			if err == nil {
				return val, keep, nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		return nil, false, v.fail(path, "value matched no variant (first: %v)", firstErr)

	case TypeStringOrBool:
		switch raw.(type) {
		case string, bool:
			return raw, true, nil
		}
		return nil, false, v.mismatch(path, f.Type, raw)

	case TypeCoercedNumber:
		n, err := coerceNumber(raw)
		if err != nil {
			return nil, false, v.fail(path, "%v", err)
		}
		return n, true, nil
	}

	return nil, false, v.fail(path, "unsupported field type %d", int(f.Type))
}

func (v *validator) mismatch(path string, want FieldType, raw any) error {
	return v.fail(path, "expected %s, received %s", want, typeOf(raw))
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func typeOf(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", raw)
}

// asMap also accepts an empty array, which is how PHP encodes an empty map
func asMap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case []any:
		if len(v) == 0 {
			return map[string]any{}, true
		}
	}
	return nil, false
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return toFloat(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// coerceNumber accepts numbers, numeric strings and booleans. Blank strings
// and null become 0.
func coerceNumber(raw any) (float64, error) {
	if n, ok := toFloat(raw); ok {
		return n, nil
	}
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("expected number, received %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected number, received %s", typeOf(raw))
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return strings.Join(quoted, ", ")
}
