package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/scry-jsonapi/internal/domain"
	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/phrazzld/scry-jsonapi/internal/store"
)

// MapError converts store and domain failures into *jsonapi.Error values with
// client-safe messages. Errors it does not recognize are returned unchanged
// and end up as a generic 500.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := jsonapi.AsError(err); ok {
		return err
	}

	switch {
	case store.IsNotFoundError(err):
		return jsonapi.NotFound("Memo not found.")
	case store.IsDuplicateError(err):
		return jsonapi.NewError(http.StatusConflict, "Conflict.", "A memo with this id already exists.")
	case errors.Is(err, store.ErrInvalidEntity):
		return invalidEntity(err)
	default:
		return err
	}
}

// invalidEntity reports a domain validation failure against the attribute
// it concerns.
func invalidEntity(err error) *jsonapi.Error {
	fields := jsonapi.FieldErrors{}
	switch {
	case errors.Is(err, domain.ErrEmptyContent):
		fields.Add("text", "Missing data for required field.")
	case errors.Is(err, domain.ErrInvalidMemoStatus):
		fields.Add("status", "Not a valid status.")
	case errors.Is(err, domain.ErrInvalidID):
		fields.Add("id", "Not a valid id.")
	case errors.Is(err, domain.ErrValidation):
		fields.Add("text", fmt.Sprintf("Longer than maximum length %d.", domain.MaxMemoTextLength))
	default:
		fields.Add("_schema", "Invalid entity data.")
	}
	return jsonapi.Translate(jsonapi.Invalid(fields))
}
