package jsonapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
)

// ErrNotImplemented is returned by resource hooks that a concrete resource did
// not provide. It is deliberately not an *Error: the Adapter treats it as an
// unhandled failure, since it signals a wiring bug rather than a client error.
var ErrNotImplemented = errors.New("resource hook not implemented")

// Default titles used by Translate.
const (
	TitleValidation    = "Validation error."
	TitleIncorrectType = "Incorrect type error."
)

// FieldErrors maps a field name to its ordered validation messages.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// FailureKind classifies a validation failure.
type FailureKind int

const (
	// FailureInvalid is a generic per-field validation failure.
	FailureInvalid FailureKind = iota
	// FailureIncorrectType means the payload declared the wrong resource type.
	FailureIncorrectType
)

// ValidationFailure is the failing outcome of a schema load or dump.
type ValidationFailure struct {
	Kind   FailureKind
	Fields FieldErrors
}

// Invalid returns a generic validation failure for the given field errors.
func Invalid(fields FieldErrors) *ValidationFailure {
	return &ValidationFailure{Kind: FailureInvalid, Fields: fields}
}

// IncorrectType returns a type-mismatch failure for the expected resource type.
func IncorrectType(expected string) *ValidationFailure {
	return &ValidationFailure{
		Kind:   FailureIncorrectType,
		Fields: FieldErrors{"type": {fmt.Sprintf("Invalid type. Expected %q.", expected)}},
	}
}

// Error is the structured error that flows from handlers to the Adapter. It
// carries everything needed to render a JSON:API error response.
//
//nolint:errname // mirrors the JSON:API "error" vocabulary
type Error struct {
	Status int
	Title  string
	Errors []ErrorObject
}

// NewError returns an Error with a single error object.
func NewError(status int, title, detail string) *Error {
	return &Error{
		Status: status,
		Title:  title,
		Errors: []ErrorObject{{
			Status: strconv.Itoa(status),
			Title:  title,
			Detail: detail,
		}},
	}
}

// NotFound returns a 404 Error with the given detail.
func NotFound(detail string) *Error {
	return NewError(http.StatusNotFound, "Not found.", detail)
}

// Error returns the title followed by the first detail, if any.
func (e *Error) Error() string {
	if len(e.Errors) > 0 && e.Errors[0].Detail != "" {
		return e.Title + " " + e.Errors[0].Detail
	}
	return e.Title
}

// StatusCode returns the HTTP status code.
func (e *Error) StatusCode() int { return e.Status }

// objects returns the error objects to render, synthesizing one from the
// title when the error carries none.
func (e *Error) objects() []ErrorObject {
	if len(e.Errors) > 0 {
		return e.Errors
	}
	return []ErrorObject{{Status: strconv.Itoa(e.Status), Title: e.Title}}
}

// AsError reports whether err is or wraps an *Error and returns it.
func AsError(err error) (*Error, bool) {
	var jerr *Error
	if errors.As(err, &jerr) {
		return jerr, true
	}
	return nil, false
}

// TranslateOption customizes Translate.
type TranslateOption func(*translateOptions)

type translateOptions struct {
	title  string
	status int
}

// WithTitle overrides the title of the translated error.
func WithTitle(title string) TranslateOption {
	return func(o *translateOptions) { o.title = title }
}

// WithStatus overrides the HTTP status of the translated error.
func WithStatus(status int) TranslateOption {
	return func(o *translateOptions) { o.status = status }
}

// Translate turns a validation failure into an *Error with one error object
// per field/message pair. Fields are emitted in sorted order so responses are
// stable. Incorrect-type failures default to 409 with TitleIncorrectType; all
// others default to 422 with TitleValidation.
func Translate(f *ValidationFailure, opts ...TranslateOption) *Error {
	o := translateOptions{title: TitleValidation, status: http.StatusUnprocessableEntity}
	if f != nil && f.Kind == FailureIncorrectType {
		o.title = TitleIncorrectType
		o.status = http.StatusConflict
	}
	for _, opt := range opts {
		opt(&o)
	}

	jerr := &Error{Status: o.status, Title: o.title}
	if f == nil {
		return jerr
	}

	fields := make([]string, 0, len(f.Fields))
	for field := range f.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	status := strconv.Itoa(o.status)
	for _, field := range fields {
		for _, msg := range f.Fields[field] {
			jerr.Errors = append(jerr.Errors, ErrorObject{
				Status: status,
				Title:  o.title,
				Detail: msg,
				Source: &ErrorSource{Pointer: Pointer(field)},
			})
		}
	}
	return jerr
}

// Pointer returns the JSON pointer into a request document for a field name.
func Pointer(field string) string {
	switch field {
	case "data", "_schema", "":
		return "/data"
	case "type":
		return "/data/type"
	case "id":
		return "/data/id"
	default:
		return "/data/attributes/" + field
	}
}
