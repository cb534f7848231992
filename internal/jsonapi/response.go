package jsonapi

import (
	"encoding/json"
	"net/http"
)

// Response is what a resource handler returns on success. The Adapter writes
// it to the client once the handler is done.
type Response interface {
	StatusCode() int
	Write(w http.ResponseWriter) error
}

// SingleResponse renders one resource under the top-level data key.
type SingleResponse struct {
	Data Resource
	// Status defaults to 200 when zero.
	Status int
	// Location, when set, is sent as the Location header.
	Location string
}

// StatusCode returns the HTTP status code.
func (r *SingleResponse) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// Write writes the response.
func (r *SingleResponse) Write(w http.ResponseWriter) error {
	if r.Location != "" {
		w.Header().Set("Location", r.Location)
	}
	return writeDocument(w, r.StatusCode(), singleDocument{Data: r.Data})
}

// ListResponse renders a resource collection under the top-level data key.
type ListResponse struct {
	Data []Resource
	// Status defaults to 200 when zero.
	Status int
}

// StatusCode returns the HTTP status code.
func (r *ListResponse) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// Write writes the response. A nil collection is rendered as an empty array.
func (r *ListResponse) Write(w http.ResponseWriter) error {
	data := r.Data
	if data == nil {
		data = []Resource{}
	}
	return writeDocument(w, r.StatusCode(), listDocument{Data: data})
}

// EmptyResponse is a 204 No Content response.
type EmptyResponse struct{}

// StatusCode returns http.StatusNoContent.
func (EmptyResponse) StatusCode() int { return http.StatusNoContent }

// Write writes the status line only.
func (EmptyResponse) Write(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ErrorResponse renders an *Error under the top-level errors key.
type ErrorResponse struct {
	Err *Error
}

// StatusCode returns the status carried by the error.
func (r *ErrorResponse) StatusCode() int { return r.Err.Status }

// Write writes the response.
func (r *ErrorResponse) Write(w http.ResponseWriter) error {
	return writeDocument(w, r.StatusCode(), errorDocument{Errors: r.Err.objects()})
}

func writeDocument(w http.ResponseWriter, status int, doc any) error {
	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(doc)
}
