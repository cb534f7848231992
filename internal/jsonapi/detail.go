package jsonapi

import (
	"context"
	"fmt"
)

// DetailResource is the set of hooks a single-item resource supplies.
type DetailResource[T any] interface {
	// Schema returns the schema used for this request.
	Schema() Schema[T]
	// Read returns the object with the given id. Hooks signal a missing
	// object with an *Error such as NotFound.
	Read(ctx context.Context, id string) (*T, error)
	// Update applies validated input. Returning a nil object yields 204.
	Update(ctx context.Context, id string, in Input[T]) (*T, error)
	// Destroy removes the object.
	Destroy(ctx context.Context, id string) error
}

// UnimplementedDetail can be embedded to satisfy DetailResource partially.
// Every hook it provides reports ErrNotImplemented.
type UnimplementedDetail[T any] struct{}

// Schema returns nil.
func (UnimplementedDetail[T]) Schema() Schema[T] { return nil }

// Read reports ErrNotImplemented.
func (UnimplementedDetail[T]) Read(context.Context, string) (*T, error) {
	return nil, fmt.Errorf("%w: Read", ErrNotImplemented)
}

// Update reports ErrNotImplemented.
func (UnimplementedDetail[T]) Update(context.Context, string, Input[T]) (*T, error) {
	return nil, fmt.Errorf("%w: Update", ErrNotImplemented)
}

// Destroy reports ErrNotImplemented.
func (UnimplementedDetail[T]) Destroy(context.Context, string) error {
	return fmt.Errorf("%w: Destroy", ErrNotImplemented)
}

// Detail serves GET, PATCH and DELETE for one item identified by a path
// parameter.
type Detail[T any] struct {
	hooks DetailResource[T]
	cfg   endpointConfig
}

// NewDetail returns a Detail endpoint over hooks.
func NewDetail[T any](hooks DetailResource[T], opts ...EndpointOption) *Detail[T] {
	return &Detail[T]{hooks: hooks, cfg: newEndpointConfig(opts)}
}

// ResourceID returns the id path parameter of req.
func (d *Detail[T]) ResourceID(req *Request) string {
	return req.Param(d.cfg.idParam)
}

// Get reads and serializes one object.
func (d *Detail[T]) Get(req *Request) (Response, error) {
	id := d.ResourceID(req)
	obj, err := d.hooks.Read(req.Context(), id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, NotFound(fmt.Sprintf("Resource %q not found.", id))
	}

	s := d.hooks.Schema()
	if err := requireSchema(s); err != nil {
		return nil, err
	}
	res, failure := s.Dump(obj)
	if failure != nil {
		return nil, Translate(failure)
	}
	return &SingleResponse{Data: d.cfg.withLinks(res)}, nil
}

// Delete destroys one object. The response is always 204 once Destroy
// returns without error.
func (d *Detail[T]) Delete(req *Request) (Response, error) {
	if err := d.hooks.Destroy(req.Context(), d.ResourceID(req)); err != nil {
		return nil, err
	}
	return EmptyResponse{}, nil
}

// Patch validates the present fields of the request document and applies
// them through Update.
func (d *Detail[T]) Patch(req *Request) (Response, error) {
	s := d.hooks.Schema()
	if err := requireSchema(s); err != nil {
		return nil, err
	}
	body, err := readBody(req)
	if err != nil {
		return nil, err
	}

	in, failure := s.Load(body, LoadOptions{Partial: true})
	if failure != nil {
		return nil, Translate(failure)
	}

	obj, err := d.hooks.Update(req.Context(), d.ResourceID(req), in)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return EmptyResponse{}, nil
	}

	res, failure := s.Dump(obj)
	if failure != nil {
		return nil, Translate(failure)
	}
	return &SingleResponse{Data: d.cfg.withLinks(res)}, nil
}
