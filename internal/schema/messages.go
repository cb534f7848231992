package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
)

// Messages reported by Load and Dump.
const (
	msgInvalidJSON   = "Invalid JSON."
	msgMissingData   = "Object must include `data` key."
	msgMissingType   = "`data` object must include `type` key."
	msgBadAttributes = "`attributes` must be an object."
	msgRequired      = "Missing data for required field."
	msgNullObject    = "Cannot serialize a null object."
)

// addValidationErrors converts validator errors into field messages keyed by
// wire name.
func (s *Schema[T]) addValidationErrors(fields jsonapi.FieldErrors, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("_schema", "Validation failed.")
		return
	}
	for _, fe := range verrs {
		name := fe.Field()
		if s.id != nil && fe.StructField() == s.id.goName {
			name = "id"
		}
		fields.Add(name, validationMessage(fe))
	}
}

// validationMessage maps a validator tag to a client-facing message.
func validationMessage(fe validator.FieldError) string {
	numeric := isNumeric(fe.Kind())
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return msgRequired
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s.", fe.Param())
	case "len":
		return fmt.Sprintf("Length must be %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.Join(strings.Fields(fe.Param()), ", "))
	case "email":
		return "Not a valid email address."
	case "url", "uri":
		return "Not a valid URL."
	case "uuid", "uuid4":
		return "Not a valid UUID."
	default:
		return fmt.Sprintf("Failed validation on %q.", fe.Tag())
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
