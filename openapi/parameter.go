package openapi

import "gopkg.in/yaml.v3"

// Parameter locations.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// ParameterFields holds the attributes shared by Parameter and Header.
type ParameterFields struct {
	Description     string
	Required        *bool
	Deprecated      *bool
	AllowEmptyValue *bool
	Style           string
	Explode         *bool
	AllowReserved   *bool
	Schema          *RefOr[Schema]
	Example         any
	Examples        *Map[*RefOr[Example]]
	Content         *Map[*MediaType]
}

func (f *ParameterFields) fieldAttrs() []attr {
	return []attr{
		str("description", &f.Description),
		ptr("required", &f.Required),
		ptr("deprecated", &f.Deprecated),
		ptr("allowEmptyValue", &f.AllowEmptyValue),
		str("style", &f.Style),
		ptr("explode", &f.Explode),
		ptr("allowReserved", &f.AllowReserved),
		ptr("schema", &f.Schema),
		value("example", &f.Example),
		dict("examples", &f.Examples),
		dict("content", &f.Content),
	}
}

// Parameter describes a single operation parameter.
//
// See: https://spec.openapis.org/oas/v3.0.3#parameter-object
type Parameter struct {
	Extensible
	Name string
	In   string
	ParameterFields
}

func (o *Parameter) attrs() []attr {
	return append([]attr{
		str("name", &o.Name).req(),
		str("in", &o.In).req(),
	}, o.fieldAttrs()...)
}

// Header follows the structure of a Parameter without name and in.
//
// See: https://spec.openapis.org/oas/v3.0.3#header-object
type Header struct {
	Extensible
	ParameterFields
}

func (o *Header) attrs() []attr { return o.fieldAttrs() }

// RequestBody describes a single request body.
//
// See: https://spec.openapis.org/oas/v3.0.3#request-body-object
type RequestBody struct {
	Extensible
	Description string
	Content     *Map[*MediaType]
	Required    *bool
}

func (o *RequestBody) attrs() []attr {
	return []attr{
		str("description", &o.Description),
		dict("content", &o.Content).req(),
		ptr("required", &o.Required),
	}
}

// MediaType provides schema and examples for one media type.
//
// See: https://spec.openapis.org/oas/v3.0.3#media-type-object
type MediaType struct {
	Extensible
	Schema   *RefOr[Schema]
	Example  any
	Examples *Map[*RefOr[Example]]
	Encoding *Map[*Encoding]
}

func (o *MediaType) attrs() []attr {
	return []attr{
		ptr("schema", &o.Schema),
		value("example", &o.Example),
		dict("examples", &o.Examples),
		dict("encoding", &o.Encoding),
	}
}

// AddExample stores an example under name, creating the map on first use.
func (o *MediaType) AddExample(name string, ex *RefOr[Example]) {
	if o.Examples == nil {
		o.Examples = NewMap[*RefOr[Example]]()
	}
	o.Examples.Set(name, ex)
}

// Encoding is applied to a single schema property.
//
// See: https://spec.openapis.org/oas/v3.0.3#encoding-object
type Encoding struct {
	Extensible
	ContentType   string
	Headers       *Map[*RefOr[Header]]
	Style         string
	Explode       *bool
	AllowReserved *bool
}

func (o *Encoding) attrs() []attr {
	return []attr{
		str("contentType", &o.ContentType),
		dict("headers", &o.Headers),
		str("style", &o.Style),
		ptr("explode", &o.Explode),
		ptr("allowReserved", &o.AllowReserved),
	}
}

// Response describes a single response from an API operation.
//
// See: https://spec.openapis.org/oas/v3.0.3#response-object
type Response struct {
	Extensible
	Description string
	Headers     *Map[*RefOr[Header]]
	Content     *Map[*MediaType]
	Links       *Map[*RefOr[Link]]
}

func (o *Response) attrs() []attr {
	return []attr{
		str("description", &o.Description).req(),
		dict("headers", &o.Headers),
		dict("content", &o.Content),
		dict("links", &o.Links),
	}
}

// SetContent stores a media type, creating the content map on first use.
func (o *Response) SetContent(mime string, mt *MediaType) {
	if o.Content == nil {
		o.Content = NewMap[*MediaType]()
	}
	o.Content.Set(mime, mt)
}

// Example holds one example value.
//
// See: https://spec.openapis.org/oas/v3.0.3#example-object
type Example struct {
	Extensible
	Summary       string
	Description   string
	Value         any
	ExternalValue string
}

func (o *Example) attrs() []attr {
	return []attr{
		str("summary", &o.Summary),
		str("description", &o.Description),
		value("value", &o.Value),
		str("externalValue", &o.ExternalValue),
	}
}

func (o *Parameter) MarshalJSON() ([]byte, error)       { return marshalObject(o) }
func (o *Parameter) UnmarshalYAML(n *yaml.Node) error   { return decodeObject(o, n) }
func (o *Header) MarshalJSON() ([]byte, error)          { return marshalObject(o) }
func (o *Header) UnmarshalYAML(n *yaml.Node) error      { return decodeObject(o, n) }
func (o *RequestBody) MarshalJSON() ([]byte, error)     { return marshalObject(o) }
func (o *RequestBody) UnmarshalYAML(n *yaml.Node) error { return decodeObject(o, n) }
func (o *MediaType) MarshalJSON() ([]byte, error)       { return marshalObject(o) }
func (o *MediaType) UnmarshalYAML(n *yaml.Node) error   { return decodeObject(o, n) }
func (o *Encoding) MarshalJSON() ([]byte, error)        { return marshalObject(o) }
func (o *Encoding) UnmarshalYAML(n *yaml.Node) error    { return decodeObject(o, n) }
func (o *Response) MarshalJSON() ([]byte, error)        { return marshalObject(o) }
func (o *Response) UnmarshalYAML(n *yaml.Node) error    { return decodeObject(o, n) }
func (o *Example) MarshalJSON() ([]byte, error)         { return marshalObject(o) }
func (o *Example) UnmarshalYAML(n *yaml.Node) error     { return decodeObject(o, n) }
