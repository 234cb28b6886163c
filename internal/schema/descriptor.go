package schema

import (
	"github.com/quantmind-br/wploader-go/internal/domain"
)

// FieldType enumerates the value shapes a Field can validate
type FieldType int

const (
	TypeString FieldType = iota
	TypeURL
	TypeNumber
	TypeInteger
	TypeBool
	TypeDate
	TypeEnum
	TypeLiteral
	TypeRef
	TypeRefList
	TypeObject
	TypeRecord
	TypeList
	TypeMeta
	TypeAny
	TypeUnion
	TypeStringOrBool
	TypeCoercedNumber
)

var typeNames = map[FieldType]string{
	TypeString:        "string",
	TypeURL:           "url",
	TypeNumber:        "number",
	TypeInteger:       "integer",
	TypeBool:          "boolean",
	TypeDate:          "date",
	TypeEnum:          "enum",
	TypeLiteral:       "literal",
	TypeRef:           "reference",
	TypeRefList:       "reference list",
	TypeObject:        "object",
	TypeRecord:        "record",
	TypeList:          "array",
	TypeMeta:          "array or object",
	TypeAny:           "any",
	TypeUnion:         "union",
	TypeStringOrBool:  "string or boolean",
	TypeCoercedNumber: "number",
}

// String returns the human-readable name used in validation messages
func (t FieldType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Field describes one key of an object
type Field struct {
	Name string
	Type FieldType

	// Optional fields may be missing. A present null is still rejected
	// unless Nullable is set.
	Optional bool
	Nullable bool

	// Default is substituted when the key is missing and HasDefault is set
	Default    any
	HasDefault bool

	// Enum holds the allowed values for TypeEnum, or the single value for TypeLiteral
	Enum []string

	// Targets holds the collections a reference may point to. The first target
	// is used when the id alone cannot tell them apart.
	Targets []domain.Kind

	// NotSelf rejects a reference whose id equals the record's own id
	NotSelf bool

	// Object describes nested keys for TypeObject
	Object *Object

	// Elem describes values for TypeRecord and elements for TypeList
	Elem *Field

	// Variants are tried in order for TypeUnion; the first match wins
	Variants []Field
}

// Object is an ordered set of fields. Keys not listed are stripped.
type Object struct {
	Fields []Field
}

// Descriptor binds an entity kind to the shape of its records
type Descriptor struct {
	Kind domain.Kind
	Object
}

// Field returns the named top-level field
func (d *Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Field constructors keep the per-kind descriptors readable.

func str(name string) Field      { return Field{Name: name, Type: TypeString} }
func urlField(name string) Field { return Field{Name: name, Type: TypeURL} }
func num(name string) Field      { return Field{Name: name, Type: TypeNumber} }
func integer(name string) Field  { return Field{Name: name, Type: TypeInteger} }
func boolean(name string) Field  { return Field{Name: name, Type: TypeBool} }
func date(name string) Field     { return Field{Name: name, Type: TypeDate} }
func anyField(name string) Field { return Field{Name: name, Type: TypeAny} }
func meta() Field                { return Field{Name: "meta", Type: TypeMeta} }

func enum(name string, values ...string) Field {
	return Field{Name: name, Type: TypeEnum, Enum: values}
}

func ref(name string, targets ...domain.Kind) Field {
	return Field{Name: name, Type: TypeRef, Targets: targets}
}

func refList(name string, target domain.Kind) Field {
	return Field{Name: name, Type: TypeRefList, Targets: []domain.Kind{target}}
}

func object(name string, fields ...Field) Field {
	return Field{Name: name, Type: TypeObject, Object: &Object{Fields: fields}}
}

func record(name string, elem Field) Field {
	return Field{Name: name, Type: TypeRecord, Elem: &elem}
}

func list(name string, elem Field) Field {
	return Field{Name: name, Type: TypeList, Elem: &elem}
}

func union(name string, variants ...Field) Field {
	return Field{Name: name, Type: TypeUnion, Variants: variants}
}

func (f Field) optional() Field {
	f.Optional = true
	return f
}

func (f Field) nullable() Field {
	f.Nullable = true
	return f
}

func (f Field) withDefault(v any) Field {
	f.Default = v
	f.HasDefault = true
	return f
}

func (f Field) notSelf() Field {
	f.NotSelf = true
	return f
}
