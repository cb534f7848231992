package jsonapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/stretchr/testify/assert"
)

func TestCheckHeaders(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		accept      string
		wantStatus  int
	}{
		{"get without headers", http.MethodGet, "", "", 0},
		{"delete ignores content type", http.MethodDelete, "text/plain", "", 0},
		{"post with media type", http.MethodPost, jsonapi.MediaType, "", 0},
		{"patch with media type", http.MethodPatch, jsonapi.MediaType, "", 0},
		{"post without content type", http.MethodPost, "", "", http.StatusUnsupportedMediaType},
		{"put is not gated", http.MethodPut, "", "", 0},
		{"post with plain json", http.MethodPost, "application/json", "", http.StatusUnsupportedMediaType},
		{"patch with media type params", http.MethodPatch, jsonapi.MediaType + "; charset=utf-8", "", http.StatusUnsupportedMediaType},
		{"accept wildcard", http.MethodGet, "", "*/*", 0},
		{"accept media type", http.MethodGet, "", jsonapi.MediaType, 0},
		{"accept media type with quality", http.MethodGet, "", jsonapi.MediaType + ";q=0.9", 0},
		{"accept only with params", http.MethodGet, "", jsonapi.MediaType + "; version=1", http.StatusNotAcceptable},
		{"accept one plain instance", http.MethodGet, "", jsonapi.MediaType + "; version=1, " + jsonapi.MediaType, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/memos", nil)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}

			jerr := jsonapi.CheckHeaders(req)
			if tc.wantStatus == 0 {
				assert.Nil(t, jerr)
				return
			}
			if assert.NotNil(t, jerr) {
				assert.Equal(t, tc.wantStatus, jerr.Status)
				assert.Len(t, jerr.Errors, 1)
			}
		})
	}
}
