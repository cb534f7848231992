package jsonapi

import (
	"fmt"
	"strings"
)

// DefaultIDParam is the path parameter Detail reads the resource id from.
const DefaultIDParam = "id"

// EndpointOption configures Detail and List.
type EndpointOption func(*endpointConfig)

type endpointConfig struct {
	idParam  string
	basePath string
}

// WithIDParam sets the path parameter holding the resource id.
func WithIDParam(name string) EndpointOption {
	return func(c *endpointConfig) { c.idParam = name }
}

// WithBasePath sets the collection path used for links.self and the
// Location header of created resources, e.g. "/api/memos".
func WithBasePath(path string) EndpointOption {
	return func(c *endpointConfig) { c.basePath = strings.TrimSuffix(path, "/") }
}

func newEndpointConfig(opts []EndpointOption) endpointConfig {
	c := endpointConfig{idParam: DefaultIDParam}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// selfLink returns the canonical URL of a resource, or "" without a base path.
func (c endpointConfig) selfLink(id string) string {
	if c.basePath == "" || id == "" {
		return ""
	}
	return c.basePath + "/" + id
}

func (c endpointConfig) withLinks(res Resource) Resource {
	if self := c.selfLink(res.ID); self != "" {
		res.Links = &Links{Self: self}
	}
	return res
}

// requireSchema reports a missing schema as an unimplemented hook.
func requireSchema[T any](s Schema[T]) error {
	if s == nil {
		return fmt.Errorf("%w: Schema", ErrNotImplemented)
	}
	return nil
}
