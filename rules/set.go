package rules

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/vitalvas/oasgen/openapi"
	"gopkg.in/yaml.v3"
)

// ErrNotStruct is returned by FromStruct for values that are not structs.
var ErrNotStruct = errors.New("rules: value is not a struct")

// Set is an ordered mapping of field name to rule string. It decodes from a
// YAML mapping, keeping the document order:
//
//	email: required|email
//	name: required|string|max:255
type Set struct {
	m openapi.Map[string]
}

// NewSet builds a set from field/rule pairs.
func NewSet(pairs ...string) Set {
	var s Set
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Add(pairs[i], pairs[i+1])
	}
	return s
}

// Add stores the rule string of a field. Adding a field again replaces its
// rules and keeps its position.
func (s *Set) Add(field, rules string) {
	s.m.Set(field, rules)
}

// Get returns the rule string of a field.
func (s *Set) Get(field string) (string, bool) {
	return s.m.Get(field)
}

// Fields returns the field names in order.
func (s *Set) Fields() []string {
	return s.m.Keys()
}

// Len returns the number of fields.
func (s *Set) Len() int {
	return s.m.Len()
}

// All iterates over fields and their parsed tokens in order.
func (s *Set) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for field, raw := range s.m.All() {
			if !yield(field, Parse(raw)) {
				return
			}
		}
	}
}

// UnmarshalYAML decodes a mapping of field name to rule string.
func (s *Set) UnmarshalYAML(n *yaml.Node) error {
	return s.m.UnmarshalYAML(n)
}

// Required returns the fields carrying the required rule, in order, or nil
// when there are none.
func Required(set Set) []string {
	var fields []string
	for field, tokens := range set.All() {
		if HasRule(tokens, RequiredRule) {
			fields = append(fields, field)
		}
	}

	return fields
}

// ObjectSchema builds an object schema with one property per field of the
// set, and the required list from Required.
func ObjectSchema(set Set) (*openapi.Schema, error) {
	schema := openapi.NewSchema(openapi.TypeObject)

	for field, tokens := range set.All() {
		prop, err := Translate(field, tokens)
		if err != nil {
			return nil, err
		}
		schema.SetProperty(field, openapi.Inline(prop))
	}

	schema.Required = Required(set)

	return schema, nil
}

// FromStruct collects the `rules` tags of a request struct:
//
//	type CreateWidget struct {
//	    Name  string `json:"name" rules:"required|string|max:255"`
//	    Color string `json:"color,omitempty" rules:"in:red,green"`
//	}
//
// Field names follow the json tag. Embedded structs without a json name are
// flattened; fields without a rules tag are skipped.
func FromStruct(v any) (Set, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Set{}, fmt.Errorf("%w: %T", ErrNotStruct, v)
	}

	var set Set
	collectFields(t, &set)

	return set, nil
}

func collectFields(t reflect.Type, set *Set) {
	for i := range t.NumField() {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, _, _ := strings.Cut(jsonTag, ",")

		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, set)
				continue
			}
		}

		tag, ok := field.Tag.Lookup("rules")
		if !ok || tag == "" {
			continue
		}

		if name == "" {
			name = field.Name
		}
		set.Add(name, tag)
	}
}
