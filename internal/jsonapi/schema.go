package jsonapi

import "slices"

// Schema maps domain objects of type T to and from their JSON:API wire form.
// Implementations report validation problems as a *ValidationFailure result
// rather than panicking; a nil failure means success.
type Schema[T any] interface {
	// Type is the JSON:API resource type the schema serializes.
	Type() string
	// Dump serializes one object.
	Dump(obj *T) (Resource, *ValidationFailure)
	// DumpMany serializes a collection.
	DumpMany(objs []*T) ([]Resource, *ValidationFailure)
	// Load deserializes and validates a request document.
	Load(body []byte, opts LoadOptions) (Input[T], *ValidationFailure)
}

// LoadOptions tunes Schema.Load.
type LoadOptions struct {
	// Partial validates only the fields present in the payload; required
	// fields that are absent are not reported.
	Partial bool
}

// Input is the validated content of a request document.
type Input[T any] struct {
	// ID is the client-supplied resource id, if any.
	ID string
	// Value holds the decoded attributes. Fields absent from the payload keep
	// their zero value.
	Value T
	// Fields lists the attribute names present in the payload.
	Fields []string
}

// Has reports whether the payload carried the named attribute.
func (in Input[T]) Has(field string) bool {
	return slices.Contains(in.Fields, field)
}
