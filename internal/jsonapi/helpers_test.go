package jsonapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/stretchr/testify/require"
)

// widget is the domain object used throughout the package tests.
type widget struct {
	ID   string
	Name string
}

// stubSchema is a hand-rolled jsonapi.Schema[widget] whose results are set by
// each test.
type stubSchema struct {
	dumpFailure *jsonapi.ValidationFailure
	loadFailure *jsonapi.ValidationFailure
	loaded      jsonapi.Input[widget]

	loadCalls []jsonapi.LoadOptions
	loadBody  []byte
}

func (s *stubSchema) Type() string { return "widgets" }

func (s *stubSchema) Dump(w *widget) (jsonapi.Resource, *jsonapi.ValidationFailure) {
	if s.dumpFailure != nil {
		return jsonapi.Resource{}, s.dumpFailure
	}
	name, _ := json.Marshal(w.Name)
	return jsonapi.Resource{
		Type:       "widgets",
		ID:         w.ID,
		Attributes: map[string]json.RawMessage{"name": name},
	}, nil
}

func (s *stubSchema) DumpMany(ws []*widget) ([]jsonapi.Resource, *jsonapi.ValidationFailure) {
	out := make([]jsonapi.Resource, 0, len(ws))
	for _, w := range ws {
		res, failure := s.Dump(w)
		if failure != nil {
			return nil, failure
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *stubSchema) Load(body []byte, opts jsonapi.LoadOptions) (jsonapi.Input[widget], *jsonapi.ValidationFailure) {
	s.loadCalls = append(s.loadCalls, opts)
	s.loadBody = body
	if s.loadFailure != nil {
		return jsonapi.Input[widget]{}, s.loadFailure
	}
	return s.loaded, nil
}

// widgetDetail records the hook calls made by jsonapi.Detail.
type widgetDetail struct {
	schema *stubSchema

	readFn    func(id string) (*widget, error)
	updateFn  func(id string, in jsonapi.Input[widget]) (*widget, error)
	destroyFn func(id string) error

	readIDs    []string
	updateIDs  []string
	updateIns  []jsonapi.Input[widget]
	destroyIDs []string
}

func (d *widgetDetail) Schema() jsonapi.Schema[widget] {
	if d.schema == nil {
		return nil
	}
	return d.schema
}

func (d *widgetDetail) Read(_ context.Context, id string) (*widget, error) {
	d.readIDs = append(d.readIDs, id)
	if d.readFn != nil {
		return d.readFn(id)
	}
	return &widget{ID: id, Name: "sprocket"}, nil
}

func (d *widgetDetail) Update(_ context.Context, id string, in jsonapi.Input[widget]) (*widget, error) {
	d.updateIDs = append(d.updateIDs, id)
	d.updateIns = append(d.updateIns, in)
	if d.updateFn != nil {
		return d.updateFn(id, in)
	}
	return nil, nil
}

func (d *widgetDetail) Destroy(_ context.Context, id string) error {
	d.destroyIDs = append(d.destroyIDs, id)
	if d.destroyFn != nil {
		return d.destroyFn(id)
	}
	return nil
}

// widgetList records the hook calls made by jsonapi.List.
type widgetList struct {
	schema *stubSchema

	readManyFn func() ([]*widget, error)
	createFn   func(in jsonapi.Input[widget]) (*widget, error)

	schemaCalls int
	createIns   []jsonapi.Input[widget]
}

func (l *widgetList) Schema() jsonapi.Schema[widget] {
	l.schemaCalls++
	if l.schema == nil {
		return nil
	}
	return l.schema
}

func (l *widgetList) ReadMany(context.Context) ([]*widget, error) {
	if l.readManyFn != nil {
		return l.readManyFn()
	}
	return []*widget{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}, nil
}

func (l *widgetList) Create(_ context.Context, in jsonapi.Input[widget]) (*widget, error) {
	l.createIns = append(l.createIns, in)
	if l.createFn != nil {
		return l.createFn(in)
	}
	return &widget{ID: "new", Name: in.Value.Name}, nil
}

// document is a loose decoding of a response body.
type document struct {
	Data   json.RawMessage       `json:"data"`
	Errors []jsonapi.ErrorObject `json:"errors"`
}

// newRouter mounts the widget endpoints the way an application would.
func newRouter(detail, list any, opts ...jsonapi.AdapterOption) http.Handler {
	r := chi.NewRouter()
	if list != nil {
		jsonapi.Mount(r, "/widgets", list, opts...)
	}
	if detail != nil {
		jsonapi.Mount(r, "/widgets/{id}", detail, opts...)
	}
	return r
}

// do issues a request; bodies are sent with the JSON:API content type.
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", jsonapi.MediaType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) document {
	t.Helper()

	var doc document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), "body: %s", rec.Body.String())
	return doc
}
