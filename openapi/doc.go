// Package openapi is a typed value model of an OpenAPI 3.0 document.
//
// Every object of the document (Info, PathItem, Operation, Schema, ...) is a
// Go struct with a fixed, ordered set of declared attributes, a subset of
// them that is always written, and a bag of specification extensions.
// Serialization is deterministic: building the same values produces
// byte-identical output.
//
// See: https://spec.openapis.org/oas/v3.0.3
//
// # Building a Document
//
//	doc := openapi.NewDocument(&openapi.Info{Title: "Widgets", Version: "1.0.0"})
//
//	op := &openapi.Operation{OperationID: "show", Tags: []string{"widgets"}}
//	op.SetResponse("200", &openapi.Response{Description: "Success"})
//
//	item := &openapi.PathItem{}
//	item.SetOperation(http.MethodGet, op)
//	doc.Paths.Set("/widgets/{id}", item)
//
//	data, err := json.MarshalIndent(doc, "", "  ")
//
// # Attributes
//
// Declared attributes are written in declaration order. An attribute that
// is not set is dropped, unless it is required: required attributes are
// always written, as "" for strings and null otherwise. For example an
// Info without a title still serializes "title": "".
//
// Attributes can be read and written by their OpenAPI name:
//
//	openapi.SetAttribute(info, "title", "Widgets")
//	v, err := openapi.GetAttribute(info, "title")
//
// Writing a value of the wrong Go type returns ErrAttributeType. Reading a
// name that is neither declared nor stored as an extension returns
// ErrUnknownAttribute.
//
// # Extensions
//
// Names that are not declared are stored as specification extensions.
// They are kept without the "x-" prefix and serialized after the declared
// attributes, with the prefix, in insertion order:
//
//	info.Extensions().Set("logo", map[string]any{"url": "/logo.png"})
//	// {"title": "...", "version": "...", "x-logo": {"url": "/logo.png"}}
//
// See: https://spec.openapis.org/oas/v3.0.3#specification-extensions
//
// # References
//
// Slots that accept "T | Reference" hold a *RefOr[T]:
//
//	openapi.Inline(&openapi.Schema{Type: openapi.TypeString})
//	openapi.Ref[openapi.Schema]("#/components/schemas/Widget")
//
// References are never resolved.
//
// See: https://spec.openapis.org/oas/v3.0.3#reference-object
//
// # YAML
//
// All objects decode from YAML (gopkg.in/yaml.v3) using the same attribute
// names; unknown keys become extensions. MarshalYAML renders any object as
// YAML in the same order as its JSON form.
package openapi
