package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-jsonapi/internal/domain"
	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/phrazzld/scry-jsonapi/internal/platform/logger"
	"github.com/phrazzld/scry-jsonapi/internal/platform/memory"
	"github.com/phrazzld/scry-jsonapi/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resource struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Attributes map[string]any    `json:"attributes"`
	Links      map[string]string `json:"links"`
}

type document struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Status string `json:"status"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Source *struct {
			Pointer string `json:"pointer"`
		} `json:"source"`
	} `json:"errors"`
}

func newTestServer(t *testing.T, s store.MemoStore) http.Handler {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		Routes(r, "/api", s, log)
	})
	return r
}

func send(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", jsonapi.MediaType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeDoc(t *testing.T, rec *httptest.ResponseRecorder) document {
	t.Helper()
	var doc document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), rec.Body.String())
	return doc
}

func decodeOne(t *testing.T, rec *httptest.ResponseRecorder) resource {
	t.Helper()
	var res resource
	require.NoError(t, json.Unmarshal(decodeDoc(t, rec).Data, &res))
	return res
}

func seed(t *testing.T, s store.MemoStore, text string) *domain.Memo {
	t.Helper()
	memo, err := domain.NewMemo(text)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), memo))
	return memo
}

func TestMemoCollection(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		h := newTestServer(t, memory.NewMemoStore(nil))

		rec := send(t, h, http.MethodPost, "/api/memos",
			`{"data":{"type":"memos","attributes":{"text":"hello","created_at":"1999-01-01T00:00:00Z"}}}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, jsonapi.MediaType, rec.Header().Get("Content-Type"))

		res := decodeOne(t, rec)
		assert.Equal(t, "memos", res.Type)
		_, err := uuid.Parse(res.ID)
		assert.NoError(t, err)
		assert.Equal(t, "hello", res.Attributes["text"])
		assert.Equal(t, "pending", res.Attributes["status"])
		assert.NotEqual(t, "1999-01-01T00:00:00Z", res.Attributes["created_at"])
		assert.Equal(t, "/api/memos/"+res.ID, res.Links["self"])
		assert.Equal(t, "/api/memos/"+res.ID, rec.Header().Get("Location"))
	})

	t.Run("client generated id", func(t *testing.T) {
		t.Parallel()
		h := newTestServer(t, memory.NewMemoStore(nil))
		id := uuid.NewString()
		body := `{"data":{"type":"memos","id":"` + id + `","attributes":{"text":"mine","status":"processing"}}}`

		rec := send(t, h, http.MethodPost, "/api/memos", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		res := decodeOne(t, rec)
		assert.Equal(t, id, res.ID)
		assert.Equal(t, "processing", res.Attributes["status"])

		rec = send(t, h, http.MethodPost, "/api/memos", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Conflict.", decodeDoc(t, rec).Errors[0].Title)
	})

	t.Run("rejections", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name        string
			body        string
			wantStatus  int
			wantTitle   string
			wantPointer string
		}{
			{"wrong type", `{"data":{"type":"cards","attributes":{"text":"x"}}}`, http.StatusConflict, jsonapi.TitleIncorrectType, "/data/type"},
			{"missing text", `{"data":{"type":"memos","attributes":{}}}`, http.StatusUnprocessableEntity, jsonapi.TitleValidation, "/data/attributes/text"},
			{"bad status", `{"data":{"type":"memos","attributes":{"text":"x","status":"archived"}}}`, http.StatusUnprocessableEntity, jsonapi.TitleValidation, "/data/attributes/status"},
			{"malformed id", `{"data":{"type":"memos","id":"nope","attributes":{"text":"x"}}}`, http.StatusUnprocessableEntity, jsonapi.TitleValidation, "/data/id"},
			{"invalid json", `{"data":`, http.StatusUnprocessableEntity, jsonapi.TitleValidation, "/data"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				s := memory.NewMemoStore(nil)
				rec := send(t, newTestServer(t, s), http.MethodPost, "/api/memos", tc.body)

				require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
				doc := decodeDoc(t, rec)
				require.NotEmpty(t, doc.Errors)
				assert.Equal(t, tc.wantTitle, doc.Errors[0].Title)
				require.NotNil(t, doc.Errors[0].Source)
				assert.Equal(t, tc.wantPointer, doc.Errors[0].Source.Pointer)

				memos, err := s.List(context.Background(), store.ListOptions{})
				require.NoError(t, err)
				assert.Empty(t, memos, "nothing is stored for a rejected request")
			})
		}
	})

	t.Run("requires the JSON:API media type", func(t *testing.T) {
		t.Parallel()
		h := newTestServer(t, memory.NewMemoStore(nil))
		req := httptest.NewRequest(http.MethodPost, "/api/memos",
			strings.NewReader(`{"data":{"type":"memos","attributes":{"text":"x"}}}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		first := seed(t, s, "one")
		seed(t, s, "two")

		rec := send(t, newTestServer(t, s), http.MethodGet, "/api/memos", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list []resource
		require.NoError(t, json.Unmarshal(decodeDoc(t, rec).Data, &list))
		require.Len(t, list, 2)
		ids := []string{list[0].ID, list[1].ID}
		assert.Contains(t, ids, first.ID.String())
		for _, res := range list {
			assert.Equal(t, "/api/memos/"+res.ID, res.Links["self"])
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		rec := send(t, newTestServer(t, memory.NewMemoStore(nil)), http.MethodGet, "/api/memos", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		rec := send(t, newTestServer(t, memory.NewMemoStore(nil)), http.MethodDelete, "/api/memos", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
		assert.Equal(t, "Method Not Allowed.", rec.Body.String())
	})

	t.Run("list returns the whole collection", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		h := newTestServer(t, s)
		total := store.DefaultListLimit + 21
		for i := range total {
			rec := send(t, h, http.MethodPost, "/api/memos",
				fmt.Sprintf(`{"data":{"type":"memos","attributes":{"text":"memo %d"}}}`, i))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}

		rec := send(t, h, http.MethodGet, "/api/memos", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []resource
		require.NoError(t, json.Unmarshal(decodeDoc(t, rec).Data, &list))
		assert.Len(t, list, total)
	})
}

func TestMemoItem(t *testing.T) {
	t.Parallel()

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		memo := seed(t, s, "read me")

		rec := send(t, newTestServer(t, s), http.MethodGet, "/api/memos/"+memo.ID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeOne(t, rec)
		assert.Equal(t, memo.ID.String(), res.ID)
		assert.Equal(t, "read me", res.Attributes["text"])
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		t.Parallel()
		h := newTestServer(t, memory.NewMemoStore(nil))
		for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
			for _, method := range []string{http.MethodGet, http.MethodDelete} {
				rec := send(t, h, method, "/api/memos/"+id, "")
				assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", method, id)
				assert.Equal(t, "Not found.", decodeDoc(t, rec).Errors[0].Title)
			}
		}
	})

	t.Run("patch changes only present attributes", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		memo := seed(t, s, "keep this text")

		rec := send(t, newTestServer(t, s), http.MethodPatch, "/api/memos/"+memo.ID.String(),
			`{"data":{"type":"memos","id":"`+memo.ID.String()+`","attributes":{"status":"completed"}}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		res := decodeOne(t, rec)
		assert.Equal(t, "keep this text", res.Attributes["text"])
		assert.Equal(t, "completed", res.Attributes["status"])

		stored, err := s.GetByID(context.Background(), memo.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MemoStatusCompleted, stored.Status)
	})

	t.Run("patch validation", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		memo := seed(t, s, "text")
		h := newTestServer(t, s)

		rec := send(t, h, http.MethodPatch, "/api/memos/"+memo.ID.String(),
			`{"data":{"type":"memos","attributes":{"text":""}}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "/data/attributes/text", decodeDoc(t, rec).Errors[0].Source.Pointer)

		rec = send(t, h, http.MethodPatch, "/api/memos/"+uuid.NewString(),
			`{"data":{"type":"memos","attributes":{"text":"x"}}}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("patch status", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		memo := seed(t, s, "status")
		h := newTestServer(t, s)

		rec := send(t, h, http.MethodPatch, "/api/memos/"+memo.ID.String(),
			`{"data":{"type":"memos","attributes":{"status":""}}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		doc := decodeDoc(t, rec)
		require.Len(t, doc.Errors, 1)
		assert.Equal(t, "/data/attributes/status", doc.Errors[0].Source.Pointer)
		assert.Equal(t, "Not a valid status.", doc.Errors[0].Detail)

		stored, err := s.GetByID(context.Background(), memo.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MemoStatusPending, stored.Status)
	})

	t.Run("patch counts text length in characters", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		memo := seed(t, s, "short")
		h := newTestServer(t, s)

		text := strings.Repeat("é", 6000)
		rec := send(t, h, http.MethodPatch, "/api/memos/"+memo.ID.String(),
			`{"data":{"type":"memos","attributes":{"text":"`+text+`"}}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, text, decodeOne(t, rec).Attributes["text"])

		rec = send(t, h, http.MethodPatch, "/api/memos/"+memo.ID.String(),
			`{"data":{"type":"memos","attributes":{"text":"`+strings.Repeat("é", domain.MaxMemoTextLength+1)+`"}}}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "/data/attributes/text", decodeDoc(t, rec).Errors[0].Source.Pointer)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		s := memory.NewMemoStore(nil)
		memo := seed(t, s, "bye")
		h := newTestServer(t, s)

		rec := send(t, h, http.MethodDelete, "/api/memos/"+memo.ID.String(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = send(t, h, http.MethodGet, "/api/memos/"+memo.ID.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("post is not allowed", func(t *testing.T) {
		t.Parallel()
		rec := send(t, newTestServer(t, memory.NewMemoStore(nil)), http.MethodPost, "/api/memos/"+uuid.NewString(),
			`{"data":{"type":"memos","attributes":{"text":"x"}}}`)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, PATCH, DELETE", rec.Header().Get("Allow"))
	})
}

// failingStore reports the same error from every method.
type failingStore struct{ err error }

func (f failingStore) Create(context.Context, *domain.Memo) error { return f.err }
func (f failingStore) GetByID(context.Context, uuid.UUID) (*domain.Memo, error) {
	return nil, f.err
}
func (f failingStore) List(context.Context, store.ListOptions) ([]*domain.Memo, error) {
	return nil, f.err
}
func (f failingStore) Update(context.Context, uuid.UUID, store.MutateFn) (*domain.Memo, error) {
	return nil, f.err
}
func (f failingStore) Delete(context.Context, uuid.UUID) error { return f.err }

func TestStoreFailuresAreHidden(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		Routes(r, "/api", failingStore{err: errors.New("dial tcp: password=hunter2 refused")}, log)
	})

	rec := send(t, r, http.MethodGet, "/api/memos", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), "unhandled resource error")
}
