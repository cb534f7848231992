package jsonapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/scry-jsonapi/internal/platform/logger"
	"github.com/phrazzld/scry-jsonapi/internal/redact"
)

// Capability interfaces. A resource handles a verb by implementing the
// matching interface; verbs without one are answered with 405.
type (
	// Getter handles GET.
	Getter interface {
		Get(req *Request) (Response, error)
	}
	// Poster handles POST.
	Poster interface {
		Post(req *Request) (Response, error)
	}
	// Patcher handles PATCH.
	Patcher interface {
		Patch(req *Request) (Response, error)
	}
	// Deleter handles DELETE.
	Deleter interface {
		Delete(req *Request) (Response, error)
	}
)

// HandlerFunc is the signature every capability method shares.
type HandlerFunc func(req *Request) (Response, error)

// UnhandledFunc renders errors that are not *Error values.
type UnhandledFunc func(w http.ResponseWriter, r *http.Request, err error)

// Adapter dispatches HTTP requests to a resource by method. It is safe for
// concurrent use; all per-request state lives in the Request it builds.
type Adapter struct {
	resource  any
	logger    *slog.Logger
	logAttrs  []any
	check     HeaderCheck
	params    ParamsFunc
	unhandled UnhandledFunc
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the logger used when the request context carries none.
// A logger placed in the context by middleware takes precedence; use
// WithLogAttrs for attributes that must appear on every record.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = l }
}

// WithLogAttrs adds attributes to every record the adapter logs, whichever
// logger ends up being used.
func WithLogAttrs(attrs ...slog.Attr) AdapterOption {
	return func(a *Adapter) {
		for _, attr := range attrs {
			a.logAttrs = append(a.logAttrs, attr)
		}
	}
}

// WithHeaderCheck replaces CheckHeaders. A nil check disables the gate.
func WithHeaderCheck(check HeaderCheck) AdapterOption {
	return func(a *Adapter) { a.check = check }
}

// WithParams replaces ChiParams as the source of path parameters.
func WithParams(fn ParamsFunc) AdapterOption {
	return func(a *Adapter) { a.params = fn }
}

// WithUnhandled replaces the renderer for errors that are not *Error values.
func WithUnhandled(fn UnhandledFunc) AdapterOption {
	return func(a *Adapter) { a.unhandled = fn }
}

// NewAdapter wraps resource, which should implement at least one of Getter,
// Poster, Patcher or Deleter.
func NewAdapter(resource any, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		resource: resource,
		logger:   slog.Default(),
		check:    CheckHeaders,
		params:   ChiParams,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.unhandled == nil {
		a.unhandled = a.internalError
	}
	return a
}

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := a.requestLogger(r).With(
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if a.check != nil {
		if jerr := a.check(r); jerr != nil {
			a.writeError(w, r, log, jerr)
			return
		}
	}

	handler, ok := a.handler(r.Method)
	if !ok {
		a.methodNotAllowed(w, r, log)
		return
	}

	req := &Request{Request: r, Params: a.params(r)}
	resp, err := handler(req)
	if err != nil {
		if jerr, ok := AsError(err); ok {
			a.writeError(w, r, log, jerr)
			return
		}
		a.unhandled(w, r, err)
		return
	}

	if err := resp.Write(w); err != nil {
		log.Error("failed to write response",
			slog.Int("status_code", resp.StatusCode()),
			slog.String("error", redact.Error(err)))
		return
	}
	log.Debug("request handled", slog.Int("status_code", resp.StatusCode()))
}

// requestLogger returns the context logger, or the injected one, carrying
// the adapter's attributes.
func (a *Adapter) requestLogger(r *http.Request) *slog.Logger {
	log := logger.FromContextOrDefault(r.Context(), a.logger)
	if len(a.logAttrs) > 0 {
		log = log.With(a.logAttrs...)
	}
	return log
}

// Allowed returns the HTTP methods the wrapped resource implements.
func (a *Adapter) Allowed() []string {
	var methods []string
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete} {
		if _, ok := a.handler(m); ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// handler selects the capability for method, case-insensitively.
func (a *Adapter) handler(method string) (HandlerFunc, bool) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		if h, ok := a.resource.(Getter); ok {
			return h.Get, true
		}
	case http.MethodPost:
		if h, ok := a.resource.(Poster); ok {
			return h.Post, true
		}
	case http.MethodPatch:
		if h, ok := a.resource.(Patcher); ok {
			return h.Patch, true
		}
	case http.MethodDelete:
		if h, ok := a.resource.(Deleter); ok {
			return h.Delete, true
		}
	}
	return nil, false
}

// methodNotAllowed answers with a plain-text 405, unlike every other failure,
// which is rendered as a JSON:API error document.
func (a *Adapter) methodNotAllowed(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	log.Error("Method Not Allowed",
		slog.Int("status_code", http.StatusMethodNotAllowed))

	if allowed := a.Allowed(); len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = w.Write([]byte("Method Not Allowed."))
}

func (a *Adapter) writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, jerr *Error) {
	level := slog.LevelDebug
	if jerr.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.Log(r.Context(), level, "API error response",
		slog.Int("status_code", jerr.Status),
		slog.String("title", jerr.Title),
		slog.Int("error_count", len(jerr.objects())))

	resp := &ErrorResponse{Err: jerr}
	if err := resp.Write(w); err != nil {
		log.Error("failed to write error response", slog.String("error", redact.Error(err)))
	}
}

// internalError is the default UnhandledFunc: the error is logged in redacted
// form and the client receives a generic 500 document. The request ID, when
// middleware assigned one, is echoed as the error object id so the client
// can quote it.
func (a *Adapter) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log := a.requestLogger(r)
	log.Error("unhandled resource error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", http.StatusInternalServerError),
		slog.String("error", redact.Error(err)))

	jerr := NewError(http.StatusInternalServerError, "Internal server error.", "An unexpected error occurred.")
	jerr.Errors[0].ID = logger.RequestID(r.Context())
	if werr := (&ErrorResponse{Err: jerr}).Write(w); werr != nil {
		log.Error("failed to write error response", slog.String("error", redact.Error(werr)))
	}
}
