package jsonapi

import "encoding/json"

// MediaType is the JSON:API media type used for request and response bodies.
const MediaType = "application/vnd.api+json"

// Resource is a JSON:API resource object.
//
//	https://jsonapi.org/format/#document-resource-objects
type Resource struct {
	Type       string                     `json:"type"`
	ID         string                     `json:"id,omitempty"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
	Links      *Links                     `json:"links,omitempty"`
}

// Links holds the links member of a resource object.
type Links struct {
	Self string `json:"self,omitempty"`
}

// ErrorObject is a single JSON:API error object.
//
//	https://jsonapi.org/format/#error-objects
type ErrorObject struct {
	ID     string       `json:"id,omitempty"`
	Status string       `json:"status"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource points at the part of the request document that caused an error.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// singleDocument is the top-level document for a single resource.
type singleDocument struct {
	Data Resource `json:"data"`
}

// listDocument is the top-level document for a resource collection.
type listDocument struct {
	Data []Resource `json:"data"`
}

// errorDocument is the top-level document for an error response.
type errorDocument struct {
	Errors []ErrorObject `json:"errors"`
}
