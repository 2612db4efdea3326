package openapi

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownAttribute is returned when reading a name that is neither a
	// declared attribute nor a stored extension.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrAttributeType is returned when a value does not fit the declared
	// attribute it is assigned to.
	ErrAttributeType = errors.New("attribute type mismatch")
)

// extensionPrefix marks specification extensions in serialized output.
//
// See: https://spec.openapis.org/oas/v3.0.3#specification-extensions
const extensionPrefix = "x-"

// Object is implemented by every value object of the model. Each object has
// a fixed, ordered set of declared attributes, a required subset of them and
// an open extension bag.
type Object interface {
	// Extensions returns the object's extension bag.
	Extensions() *Extensions

	attrs() []attr
}

// Extensible carries the extension bag shared by all value objects.
type Extensible struct {
	ext Extensions
}

// Extensions returns the extension bag.
func (e *Extensible) Extensions() *Extensions {
	return &e.ext
}

// Extensions is an ordered bag of specification extensions. Names are
// stored without the "x-" prefix; serialization adds it back.
type Extensions struct {
	m Map[any]
}

// Set stores an extension. A leading "x-" in name is ignored.
func (e *Extensions) Set(name string, value any) {
	e.m.Set(strings.TrimPrefix(name, extensionPrefix), value)
}

// Get returns the extension stored under name.
func (e *Extensions) Get(name string) (any, bool) {
	return e.m.Get(strings.TrimPrefix(name, extensionPrefix))
}

// Delete removes an extension.
func (e *Extensions) Delete(name string) {
	e.m.Delete(strings.TrimPrefix(name, extensionPrefix))
}

// Len returns the number of extensions.
func (e *Extensions) Len() int {
	return e.m.Len()
}

// Names returns the extension names, unprefixed, in insertion order.
func (e *Extensions) Names() []string {
	return e.m.Keys()
}

// attr binds one declared attribute to the Go field backing it.
type attr struct {
	name     string
	required bool

	// zero is written when the attribute is required but absent.
	zero string

	present func() bool
	get     func() any
	set     func(any) bool
	decode  func(*yaml.Node) error
}

func (a attr) req() attr {
	a.required = true
	return a
}

func findAttr(o Object, name string) (attr, bool) {
	for _, a := range o.attrs() {
		if a.name == name {
			return a, true
		}
	}

	return attr{}, false
}

// Attributes returns the declared attribute names of o in serialization
// order.
func Attributes(o Object) []string {
	list := o.attrs()
	names := make([]string, len(list))
	for i, a := range list {
		names[i] = a.name
	}

	return names
}

// Required returns the names of the declared attributes that are always
// serialized, even when absent.
func Required(o Object) []string {
	var names []string
	for _, a := range o.attrs() {
		if a.required {
			names = append(names, a.name)
		}
	}

	return names
}

// GetAttribute reads a declared attribute, or an extension when name is not
// declared. An absent declared attribute reads as nil. Reading a name that
// is neither declared nor stored as an extension returns
// ErrUnknownAttribute.
func GetAttribute(o Object, name string) (any, error) {
	if !strings.HasPrefix(name, extensionPrefix) {
		if a, ok := findAttr(o, name); ok {
			if !a.present() {
				return nil, nil
			}
			return a.get(), nil
		}
	}

	if v, ok := o.Extensions().Get(name); ok {
		return v, nil
	}

	return nil, fmt.Errorf("%w: %T has no %q", ErrUnknownAttribute, o, name)
}

// SetAttribute writes a declared attribute, or stores an extension when name
// is not declared. Writing an undeclared name always succeeds. Writing a
// declared attribute fails with ErrAttributeType when value has the wrong
// Go type; a nil value clears the attribute.
func SetAttribute(o Object, name string, value any) error {
	if !strings.HasPrefix(name, extensionPrefix) {
		if a, ok := findAttr(o, name); ok {
			if !a.set(value) {
				return fmt.Errorf("%w: %T.%s cannot hold %T", ErrAttributeType, o, name, value)
			}
			return nil
		}
	}

	o.Extensions().Set(name, value)

	return nil
}

// marshalObject serializes o: declared attributes in order, absent ones
// dropped unless required, then extensions with the "x-" prefix.
func marshalObject(o Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	n := 0
	sep := func() {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
	}

	for _, a := range o.attrs() {
		switch {
		case a.present():
			sep()
			if err := writeMember(&buf, a.name, a.get()); err != nil {
				return nil, err
			}
		case a.required:
			sep()
			zero := a.zero
			if zero == "" {
				zero = "null"
			}
			if err := writeRawMember(&buf, a.name, zero); err != nil {
				return nil, err
			}
		}
	}

	for name, v := range o.Extensions().m.All() {
		sep()
		if err := writeMember(&buf, extensionPrefix+name, v); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// decodeObject fills o from a YAML mapping. Declared names go to their
// attribute, every other key lands in the extension bag.
func decodeObject(o Object, n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: %T expects a mapping at line %d", ErrAttributeType, o, n.Line)
	}

	list := o.attrs()
	index := make(map[string]attr, len(list))
	for _, a := range list {
		index[a.name] = a
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]

		if a, ok := index[key]; ok {
			if err := a.decode(val); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			continue
		}

		var v any
		if err := val.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		o.Extensions().Set(key, v)
	}

	return nil
}

// Ptr returns a pointer to v. Handy for optional numeric and boolean
// attributes.
func Ptr[T any](v T) *T {
	return &v
}

// str binds a string attribute. The empty string means absent.
func str(name string, p *string) attr {
	return attr{
		name:    name,
		zero:    `""`,
		present: func() bool { return *p != "" },
		get:     func() any { return *p },
		set: func(v any) bool {
			switch s := v.(type) {
			case string:
				*p = s
			case nil:
				*p = ""
			default:
				return false
			}
			return true
		},
		decode: func(n *yaml.Node) error { return n.Decode(p) },
	}
}

// ptr binds an optional attribute held by pointer: numbers, booleans and
// nested objects. Set accepts either *T or T.
func ptr[T any](name string, p **T) attr {
	return attr{
		name:    name,
		present: func() bool { return *p != nil },
		get:     func() any { return *p },
		set: func(v any) bool {
			switch x := v.(type) {
			case *T:
				*p = x
			case T:
				*p = &x
			case nil:
				*p = nil
			default:
				return false
			}
			return true
		},
		decode: func(n *yaml.Node) error {
			v := new(T)
			if err := n.Decode(v); err != nil {
				return err
			}
			*p = v
			return nil
		},
	}
}

// list binds a slice attribute. A nil slice means absent, an empty one is
// serialized as [].
func list[T any](name string, p *[]T) attr {
	return attr{
		name:    name,
		present: func() bool { return *p != nil },
		get:     func() any { return *p },
		set: func(v any) bool {
			switch x := v.(type) {
			case []T:
				*p = x
			case nil:
				*p = nil
			default:
				return false
			}
			return true
		},
		decode: func(n *yaml.Node) error {
			var out []T
			if err := n.Decode(&out); err != nil {
				return err
			}
			if out == nil {
				out = []T{}
			}
			*p = out
			return nil
		},
	}
}

// dict binds an ordered map attribute. A nil map means absent, an empty one
// is serialized as {}.
func dict[V any](name string, p **Map[V]) attr {
	return attr{
		name:    name,
		present: func() bool { return *p != nil },
		get:     func() any { return *p },
		set: func(v any) bool {
			switch x := v.(type) {
			case *Map[V]:
				*p = x
			case nil:
				*p = nil
			default:
				return false
			}
			return true
		},
		decode: func(n *yaml.Node) error {
			m := NewMap[V]()
			if err := n.Decode(m); err != nil {
				return err
			}
			*p = m
			return nil
		},
	}
}

// value binds a free-form attribute such as example or default.
func value(name string, p *any) attr {
	return attr{
		name:    name,
		present: func() bool { return *p != nil },
		get:     func() any { return *p },
		set: func(v any) bool {
			*p = v
			return true
		},
		decode: func(n *yaml.Node) error { return n.Decode(p) },
	}
}
