package schema

import (
	"encoding"
	"encoding/json"
	"reflect"

	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/tidwall/gjson"
)

// Load decodes a JSON:API request document and validates it. Unknown and
// read-only attributes are ignored. With opts.Partial only the attributes
// present in the document are validated.
func (s *Schema[T]) Load(body []byte, opts jsonapi.LoadOptions) (jsonapi.Input[T], *jsonapi.ValidationFailure) {
	var in jsonapi.Input[T]

	if !gjson.ValidBytes(body) {
		return in, jsonapi.Invalid(jsonapi.FieldErrors{"_schema": {msgInvalidJSON}})
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		return in, jsonapi.Invalid(jsonapi.FieldErrors{"data": {msgMissingData}})
	}
	typ := data.Get("type")
	if !typ.Exists() {
		return in, jsonapi.Invalid(jsonapi.FieldErrors{"data": {msgMissingType}})
	}
	if typ.String() != s.resourceType {
		return in, jsonapi.IncorrectType(s.resourceType)
	}

	fields := jsonapi.FieldErrors{}
	value := reflect.ValueOf(&in.Value).Elem()

	if id := data.Get("id"); id.Exists() {
		in.ID = id.String()
		if s.id != nil && !setID(value.FieldByIndex(s.id.index), in.ID) {
			fields.Add("id", "Not a valid id.")
		}
	}

	attrs := data.Get("attributes")
	if attrs.Exists() && !attrs.IsObject() {
		fields.Add("data", msgBadAttributes)
	}

	decoded := make(map[string]bool)
	attrs.ForEach(func(key, raw gjson.Result) bool {
		f, ok := s.byName[key.String()]
		if !ok || f.readOnly {
			return true
		}
		target := value.FieldByIndex(f.index).Addr().Interface()
		if err := json.Unmarshal([]byte(raw.Raw), target); err != nil {
			fields.Add(f.name, "Not a valid "+f.kind+".")
			return true
		}
		decoded[f.name] = true
		in.Fields = append(in.Fields, f.name)
		return true
	})

	// Fields that failed to decode are already reported; validating their
	// zero value would only add noise.
	var check []string
	for _, f := range s.fields {
		if f.readOnly || fields[f.name] != nil {
			continue
		}
		if opts.Partial && !decoded[f.name] {
			continue
		}
		check = append(check, f.goName)
	}
	if len(check) > 0 {
		if err := s.validate.StructPartial(in.Value, check...); err != nil {
			s.addValidationErrors(fields, err)
		}
	}

	if len(fields) > 0 {
		return in, jsonapi.Invalid(fields)
	}
	return in, nil
}

// setID stores a client-supplied id into the id field.
func setID(dst reflect.Value, id string) bool {
	if u, ok := dst.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(id)) == nil
	}
	if dst.Kind() == reflect.String {
		dst.SetString(id)
		return true
	}
	return false
}
