package openapi

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Reference is a pointer to another component in the document. References
// are never resolved by this package.
//
// See: https://spec.openapis.org/oas/v3.0.3#reference-object
type Reference struct {
	Extensible
	Ref string
}

func (o *Reference) attrs() []attr {
	return []attr{
		str("$ref", &o.Ref).req(),
	}
}

func (o *Reference) MarshalJSON() ([]byte, error)     { return marshalObject(o) }
func (o *Reference) UnmarshalYAML(n *yaml.Node) error { return decodeObject(o, n) }

// RefOr holds either an inline value or a Reference to one. It is used for
// every slot where OpenAPI allows "T | Reference".
type RefOr[T any] struct {
	ref   *Reference
	value *T
}

// Inline wraps an inline value.
func Inline[T any](v *T) *RefOr[T] {
	return &RefOr[T]{value: v}
}

// Ref wraps a reference to ref, e.g. "#/components/schemas/Widget".
func Ref[T any](ref string) *RefOr[T] {
	return &RefOr[T]{ref: &Reference{Ref: ref}}
}

// IsRef reports whether r holds a reference.
func (r *RefOr[T]) IsRef() bool {
	return r != nil && r.ref != nil
}

// Reference returns the held reference, or nil for an inline value.
func (r *RefOr[T]) Reference() *Reference {
	if r == nil {
		return nil
	}

	return r.ref
}

// Value returns the held inline value, or nil for a reference.
func (r *RefOr[T]) Value() *T {
	if r == nil {
		return nil
	}

	return r.value
}

// MarshalJSON writes the reference object or the inline value.
func (r *RefOr[T]) MarshalJSON() ([]byte, error) {
	if r.ref != nil {
		return json.Marshal(r.ref)
	}

	return json.Marshal(r.value)
}

// UnmarshalYAML decodes a mapping carrying "$ref" as a reference and
// anything else as an inline value.
func (r *RefOr[T]) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "$ref" {
				ref := &Reference{}
				if err := decodeObject(ref, n); err != nil {
					return err
				}
				r.ref, r.value = ref, nil
				return nil
			}
		}
	}

	v := new(T)
	if err := n.Decode(v); err != nil {
		return err
	}
	r.ref, r.value = nil, v

	return nil
}
