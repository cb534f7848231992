package jsonapi

import (
	"context"
	"fmt"
	"net/http"
)

// ListResource is the set of hooks a collection resource supplies.
type ListResource[T any] interface {
	// Schema returns a fresh schema for each call.
	Schema() Schema[T]
	// ReadMany returns the collection.
	ReadMany(ctx context.Context) ([]*T, error)
	// Create stores a new object from validated input and returns it.
	// Returning a nil object yields 204.
	Create(ctx context.Context, in Input[T]) (*T, error)
}

// UnimplementedList can be embedded to satisfy ListResource partially.
// Every hook it provides reports ErrNotImplemented.
type UnimplementedList[T any] struct{}

// Schema returns nil.
func (UnimplementedList[T]) Schema() Schema[T] { return nil }

// ReadMany reports ErrNotImplemented.
func (UnimplementedList[T]) ReadMany(context.Context) ([]*T, error) {
	return nil, fmt.Errorf("%w: ReadMany", ErrNotImplemented)
}

// Create reports ErrNotImplemented.
func (UnimplementedList[T]) Create(context.Context, Input[T]) (*T, error) {
	return nil, fmt.Errorf("%w: Create", ErrNotImplemented)
}

// List serves GET and POST for a collection.
type List[T any] struct {
	hooks ListResource[T]
	cfg   endpointConfig
}

// NewList returns a List endpoint over hooks.
func NewList[T any](hooks ListResource[T], opts ...EndpointOption) *List[T] {
	return &List[T]{hooks: hooks, cfg: newEndpointConfig(opts)}
}

// Get serializes the whole collection with status 200.
func (l *List[T]) Get(req *Request) (Response, error) {
	objs, err := l.hooks.ReadMany(req.Context())
	if err != nil {
		return nil, err
	}

	s := l.hooks.Schema()
	if err := requireSchema(s); err != nil {
		return nil, err
	}
	resources, failure := s.DumpMany(objs)
	if failure != nil {
		return nil, Translate(failure)
	}
	for i := range resources {
		resources[i] = l.cfg.withLinks(resources[i])
	}
	return &ListResponse{Data: resources, Status: http.StatusOK}, nil
}

// Post validates a complete request document, creates the object and
// returns it with status 201. A payload declaring the wrong resource type is
// rejected with TitleIncorrectType before Create is called.
func (l *List[T]) Post(req *Request) (Response, error) {
	s := l.hooks.Schema()
	if err := requireSchema(s); err != nil {
		return nil, err
	}
	body, err := readBody(req)
	if err != nil {
		return nil, err
	}

	in, failure := s.Load(body, LoadOptions{})
	if failure != nil {
		if failure.Kind == FailureIncorrectType {
			return nil, Translate(failure, WithTitle(TitleIncorrectType))
		}
		return nil, Translate(failure)
	}

	obj, err := l.hooks.Create(req.Context(), in)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return EmptyResponse{}, nil
	}

	res, failure := l.hooks.Schema().Dump(obj)
	if failure != nil {
		return nil, Translate(failure)
	}
	res = l.cfg.withLinks(res)

	resp := &SingleResponse{Data: res, Status: http.StatusCreated}
	if res.Links != nil {
		resp.Location = res.Links.Self
	}
	return resp, nil
}
