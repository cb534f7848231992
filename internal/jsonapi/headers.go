package jsonapi

import (
	"mime"
	"net/http"
	"strings"
)

// HeaderCheck inspects a request before dispatch. A non-nil *Error rejects the
// request and is rendered as the response.
type HeaderCheck func(r *http.Request) *Error

// CheckHeaders enforces the JSON:API content negotiation rules:
// requests carrying a document must use the JSON:API media type without
// parameters (415 otherwise), and an Accept header that names the JSON:API
// media type only with parameters cannot be satisfied (406).
func CheckHeaders(r *http.Request) *Error {
	if hasDocument(r.Method) {
		mt, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != MediaType || len(params) > 0 {
			return NewError(
				http.StatusUnsupportedMediaType,
				"Unsupported media type.",
				"Content-Type header must be "+MediaType+" without media type parameters.",
			)
		}
	}

	accept := r.Header.Values("Accept")
	if len(accept) == 0 {
		return nil
	}
	var named, plain bool
	for _, header := range accept {
		for _, part := range strings.Split(header, ",") {
			mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil || mt != MediaType {
				continue
			}
			named = true
			delete(params, "q")
			if len(params) == 0 {
				plain = true
			}
		}
	}
	if named && !plain {
		return NewError(
			http.StatusNotAcceptable,
			"Not acceptable.",
			"Accept header must include "+MediaType+" without media type parameters.",
		)
	}
	return nil
}

// hasDocument reports whether method carries a request document. PUT is not
// a JSON:API verb and falls through to the adapter's 405.
func hasDocument(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPatch:
		return true
	default:
		return false
	}
}
