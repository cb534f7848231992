package jsonapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Request is the per-request view handed to resource handlers. It is created
// fresh for every dispatch and never shared between requests.
type Request struct {
	*http.Request

	// Params holds the path parameters of the matched route.
	Params map[string]string

	body    []byte
	bodyErr error
	read    bool
}

// Param returns the named path parameter, or "" when absent.
func (r *Request) Param(key string) string {
	return r.Params[key]
}

// Body reads the request body once and returns the cached bytes on later calls.
func (r *Request) Body() ([]byte, error) {
	if r.read {
		return r.body, r.bodyErr
	}
	r.read = true
	if r.Request.Body == nil {
		return nil, nil
	}
	r.body, r.bodyErr = io.ReadAll(r.Request.Body)
	return r.body, r.bodyErr
}

// ParamsFunc extracts path parameters from a request.
type ParamsFunc func(r *http.Request) map[string]string

// ChiParams reads path parameters from chi's route context.
func ChiParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return map[string]string{}
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[key] = rctx.URLParams.Values[i]
		}
	}
	return params
}

// readBody returns the request body or a 400 *Error when it cannot be read.
func readBody(req *Request) ([]byte, error) {
	body, err := req.Body()
	if err != nil {
		return nil, NewError(http.StatusBadRequest, "Bad request.", "Request body could not be read.")
	}
	return body, nil
}
