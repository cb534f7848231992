package schema

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
)

// Schema serializes and validates values of the struct type T.
// It is immutable after New and safe for concurrent use.
type Schema[T any] struct {
	resourceType string
	id           *field
	fields       []field
	byName       map[string]*field
	validate     *validator.Validate
	strictDump   bool
}

var _ jsonapi.Schema[struct{}] = (*Schema[struct{}])(nil)

// field describes one serializable struct field.
type field struct {
	name     string // wire name
	goName   string // struct field name, used for partial validation
	index    []int
	readOnly bool
	kind     string // human readable type for error messages
}

// Option configures a Schema.
type Option func(*options)

type options struct {
	strictDump  bool
	validations map[string]validator.Func
}

// WithStrictDump runs the validation rules on objects being serialized, so
// stored data that no longer satisfies them is reported instead of rendered.
func WithStrictDump() Option {
	return func(o *options) { o.strictDump = true }
}

// WithValidation registers a custom validation tag.
func WithValidation(tag string, fn validator.Func) Option {
	return func(o *options) {
		if o.validations == nil {
			o.validations = make(map[string]validator.Func)
		}
		o.validations[tag] = fn
	}
}

// New builds a schema for the struct type T. It panics when T is not a struct
// or a custom validation cannot be registered, both programming errors.
func New[T any](resourceType string, opts ...Option) *Schema[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("schema: %s is not a struct", typ))
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _ := jsonName(sf)
		return name
	})
	for tag, fn := range o.validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("schema: register validation %q: %v", tag, err))
		}
	}

	s := &Schema[T]{
		resourceType: resourceType,
		byName:       make(map[string]*field),
		validate:     v,
		strictDump:   o.strictDump,
	}

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		flags := tagFlags(sf.Tag.Get("jsonapi"))
		if flags["id"] {
			s.id = &field{name: "id", goName: sf.Name, index: sf.Index, kind: kindName(sf.Type)}
			continue
		}
		name, ok := jsonName(sf)
		if !ok {
			continue
		}
		s.fields = append(s.fields, field{
			name:     name,
			goName:   sf.Name,
			index:    sf.Index,
			readOnly: flags["readonly"],
			kind:     kindName(sf.Type),
		})
	}
	for i := range s.fields {
		s.byName[s.fields[i].name] = &s.fields[i]
	}
	return s
}

// Type returns the JSON:API resource type.
func (s *Schema[T]) Type() string { return s.resourceType }

// jsonName returns the wire name of a struct field, and false for fields
// excluded with `json:"-"`.
func jsonName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return "", false
	case "":
		return sf.Name, true
	default:
		return name, true
	}
}

func tagFlags(tag string) map[string]bool {
	flags := make(map[string]bool)
	for _, part := range strings.Split(tag, ",") {
		if part = strings.TrimSpace(part); part != "" {
			flags[part] = true
		}
	}
	return flags
}

var (
	timeType            = reflect.TypeFor[time.Time]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// kindName names a Go type the way validation messages refer to it.
func kindName(t reflect.Type) string {
	if t == timeType {
		return "datetime"
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "mapping"
	case reflect.Pointer:
		return kindName(t.Elem())
	default:
		return "value"
	}
}
