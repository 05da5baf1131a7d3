package lossy

import (
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"
)

var mayBeAbsentType = reflect.TypeFor[mayBeAbsent]()

// Schema projects the Go type of v into a JSON Schema. Wrappers are
// described by their payload type; fields that decode without a loss when
// missing (sequences and optionals) are not listed as required.
func Schema(v any) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
	}
	s := r.Reflect(v)
	relaxRequired(s, reflect.TypeOf(v))
	return s
}

func relaxRequired(s *jsonschema.Schema, t reflect.Type) {
	if s == nil || t == nil {
		return
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Implements(mayBeAbsentType) || s.Properties == nil {
		return
	}
	for _, f := range structFields(t) {
		prop, ok := s.Properties.Get(f.key)
		if !ok {
			continue
		}
		if f.typ.Implements(mayBeAbsentType) {
			s.Required = slices.DeleteFunc(s.Required, func(name string) bool { return name == f.key })
			continue
		}
		relaxRequired(prop, f.typ)
	}
}
