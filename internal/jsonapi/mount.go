package jsonapi

import "github.com/go-chi/chi/v5"

// Mount registers resource at pattern for every HTTP method, so that the
// Adapter rather than the router decides which verbs are allowed.
func Mount(r chi.Router, pattern string, resource any, opts ...AdapterOption) *Adapter {
	a := NewAdapter(resource, opts...)
	r.Handle(pattern, a)
	return a
}
