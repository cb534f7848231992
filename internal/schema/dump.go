package schema

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
)

// Dump serializes one object into a resource object.
func (s *Schema[T]) Dump(obj *T) (jsonapi.Resource, *jsonapi.ValidationFailure) {
	fields := jsonapi.FieldErrors{}
	res := s.dump(obj, fields)
	if len(fields) > 0 {
		return jsonapi.Resource{}, jsonapi.Invalid(fields)
	}
	return res, nil
}

// DumpMany serializes a collection. Field errors of all items are merged.
func (s *Schema[T]) DumpMany(objs []*T) ([]jsonapi.Resource, *jsonapi.ValidationFailure) {
	fields := jsonapi.FieldErrors{}
	out := make([]jsonapi.Resource, 0, len(objs))
	for _, obj := range objs {
		out = append(out, s.dump(obj, fields))
	}
	if len(fields) > 0 {
		return nil, jsonapi.Invalid(fields)
	}
	return out, nil
}

func (s *Schema[T]) dump(obj *T, fields jsonapi.FieldErrors) jsonapi.Resource {
	if obj == nil {
		fields.Add("_schema", msgNullObject)
		return jsonapi.Resource{}
	}
	value := reflect.ValueOf(obj).Elem()

	res := jsonapi.Resource{
		Type:       s.resourceType,
		Attributes: make(map[string]json.RawMessage, len(s.fields)),
	}

	if s.id != nil {
		idValue := value.FieldByIndex(s.id.index)
		if idValue.IsZero() {
			fields.Add("id", msgRequired)
		} else {
			res.ID = idString(idValue)
		}
	}

	for _, f := range s.fields {
		raw, err := json.Marshal(value.FieldByIndex(f.index).Interface())
		if err != nil {
			fields.Add(f.name, "Not a valid "+f.kind+".")
			continue
		}
		res.Attributes[f.name] = raw
	}

	if s.strictDump {
		if err := s.validate.Struct(obj); err != nil {
			s.addValidationErrors(fields, err)
		}
	}
	return res
}

func idString(v reflect.Value) string {
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		if text, err := m.MarshalText(); err == nil {
			return string(text)
		}
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}
