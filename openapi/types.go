package openapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the OpenAPI version written to every document.
const Version = "3.0.0"

// OpenAPI is the root object of an OpenAPI document.
//
// See: https://spec.openapis.org/oas/v3.0.3#openapi-object
type OpenAPI struct {
	Extensible
	OpenAPI      string
	Info         *Info
	Servers      []*Server
	Paths        *Map[*PathItem]
	Components   *Components
	Security     []SecurityRequirement
	Tags         []*Tag
	ExternalDocs *ExternalDocs
}

// NewDocument returns a root object with the version set and an empty
// paths map.
func NewDocument(info *Info) *OpenAPI {
	return &OpenAPI{
		OpenAPI: Version,
		Info:    info,
		Paths:   NewMap[*PathItem](),
	}
}

func (o *OpenAPI) attrs() []attr {
	return []attr{
		str("openapi", &o.OpenAPI).req(),
		ptr("info", &o.Info).req(),
		list("servers", &o.Servers),
		dict("paths", &o.Paths).req(),
		ptr("components", &o.Components),
		list("security", &o.Security),
		list("tags", &o.Tags),
		ptr("externalDocs", &o.ExternalDocs),
	}
}

// Info provides metadata about the API.
//
// See: https://spec.openapis.org/oas/v3.0.3#info-object
type Info struct {
	Extensible
	Title          string
	Description    string
	TermsOfService string
	Contact        *Contact
	License        *License
	Version        string
}

func (o *Info) attrs() []attr {
	return []attr{
		str("title", &o.Title).req(),
		str("description", &o.Description),
		str("termsOfService", &o.TermsOfService),
		ptr("contact", &o.Contact),
		ptr("license", &o.License),
		str("version", &o.Version).req(),
	}
}

// Contact information for the exposed API.
//
// See: https://spec.openapis.org/oas/v3.0.3#contact-object
type Contact struct {
	Extensible
	Name  string
	URL   string
	Email string
}

func (o *Contact) attrs() []attr {
	return []attr{
		str("name", &o.Name),
		str("url", &o.URL),
		str("email", &o.Email),
	}
}

// License information for the exposed API.
//
// See: https://spec.openapis.org/oas/v3.0.3#license-object
type License struct {
	Extensible
	Name string
	URL  string
}

func (o *License) attrs() []attr {
	return []attr{
		str("name", &o.Name).req(),
		str("url", &o.URL),
	}
}

// Server represents a server.
//
// See: https://spec.openapis.org/oas/v3.0.3#server-object
type Server struct {
	Extensible
	URL         string
	Description string
	Variables   *Map[*ServerVariable]
}

func (o *Server) attrs() []attr {
	return []attr{
		str("url", &o.URL).req(),
		str("description", &o.Description),
		dict("variables", &o.Variables),
	}
}

// ServerVariable is a variable for server URL template substitution.
//
// See: https://spec.openapis.org/oas/v3.0.3#server-variable-object
type ServerVariable struct {
	Extensible
	Enum        []string
	Default     string
	Description string
}

func (o *ServerVariable) attrs() []attr {
	return []attr{
		list("enum", &o.Enum),
		str("default", &o.Default).req(),
		str("description", &o.Description),
	}
}

// Components holds reusable objects referenced from elsewhere in the
// document.
//
// See: https://spec.openapis.org/oas/v3.0.3#components-object
type Components struct {
	Extensible
	Schemas         *Map[*RefOr[Schema]]
	Responses       *Map[*RefOr[Response]]
	Parameters      *Map[*RefOr[Parameter]]
	Examples        *Map[*RefOr[Example]]
	RequestBodies   *Map[*RefOr[RequestBody]]
	Headers         *Map[*RefOr[Header]]
	SecuritySchemes *Map[*RefOr[SecurityScheme]]
	Links           *Map[*RefOr[Link]]
	Callbacks       *Map[*RefOr[Callback]]
}

func (o *Components) attrs() []attr {
	return []attr{
		dict("schemas", &o.Schemas),
		dict("responses", &o.Responses),
		dict("parameters", &o.Parameters),
		dict("examples", &o.Examples),
		dict("requestBodies", &o.RequestBodies),
		dict("headers", &o.Headers),
		dict("securitySchemes", &o.SecuritySchemes),
		dict("links", &o.Links),
		dict("callbacks", &o.Callbacks),
	}
}

// AddExample registers an example under name, creating the registry on
// first use.
func (o *Components) AddExample(name string, ex *Example) {
	if o.Examples == nil {
		o.Examples = NewMap[*RefOr[Example]]()
	}
	o.Examples.Set(name, Inline(ex))
}

// Merge copies every entry of other into o. Entries of other win on key
// collisions; extensions are merged the same way.
func (o *Components) Merge(other *Components) {
	if other == nil {
		return
	}

	mergeMap(&o.Schemas, other.Schemas)
	mergeMap(&o.Responses, other.Responses)
	mergeMap(&o.Parameters, other.Parameters)
	mergeMap(&o.Examples, other.Examples)
	mergeMap(&o.RequestBodies, other.RequestBodies)
	mergeMap(&o.Headers, other.Headers)
	mergeMap(&o.SecuritySchemes, other.SecuritySchemes)
	mergeMap(&o.Links, other.Links)
	mergeMap(&o.Callbacks, other.Callbacks)

	for _, name := range other.Extensions().Names() {
		v, _ := other.Extensions().Get(name)
		o.Extensions().Set(name, v)
	}
}

func mergeMap[V any](dst **Map[V], src *Map[V]) {
	if src == nil {
		return
	}
	if *dst == nil {
		*dst = NewMap[V]()
	}
	for k, v := range src.All() {
		(*dst).Set(k, v)
	}
}

// PathItem describes the operations available on a single path.
//
// See: https://spec.openapis.org/oas/v3.0.3#path-item-object
type PathItem struct {
	Extensible
	Ref         string
	Summary     string
	Description string
	Get         *Operation
	Put         *Operation
	Post        *Operation
	Delete      *Operation
	Options     *Operation
	Head        *Operation
	Patch       *Operation
	Trace       *Operation
	Servers     []*Server
	Parameters  []*RefOr[Parameter]
}

func (o *PathItem) attrs() []attr {
	return []attr{
		str("$ref", &o.Ref),
		str("summary", &o.Summary),
		str("description", &o.Description),
		ptr("get", &o.Get),
		ptr("put", &o.Put),
		ptr("post", &o.Post),
		ptr("delete", &o.Delete),
		ptr("options", &o.Options),
		ptr("head", &o.Head),
		ptr("patch", &o.Patch),
		ptr("trace", &o.Trace),
		list("servers", &o.Servers),
		list("parameters", &o.Parameters),
	}
}

// slot returns the field holding the operation for an HTTP method.
func (o *PathItem) slot(method string) **Operation {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return &o.Get
	case http.MethodPut:
		return &o.Put
	case http.MethodPost:
		return &o.Post
	case http.MethodDelete:
		return &o.Delete
	case http.MethodOptions:
		return &o.Options
	case http.MethodHead:
		return &o.Head
	case http.MethodPatch:
		return &o.Patch
	case http.MethodTrace:
		return &o.Trace
	}

	return nil
}

// Operation returns the operation registered for method, if any.
func (o *PathItem) Operation(method string) *Operation {
	if s := o.slot(method); s != nil {
		return *s
	}

	return nil
}

// SetOperation attaches op under the verb key for method. It reports false
// for methods a path item cannot hold.
func (o *PathItem) SetOperation(method string, op *Operation) bool {
	s := o.slot(method)
	if s == nil {
		return false
	}
	*s = op

	return true
}

// Operation describes a single API operation on a path.
//
// See: https://spec.openapis.org/oas/v3.0.3#operation-object
type Operation struct {
	Extensible
	Tags         []string
	Summary      string
	Description  string
	ExternalDocs *ExternalDocs
	OperationID  string
	Parameters   []*RefOr[Parameter]
	RequestBody  *RefOr[RequestBody]
	Responses    *Map[*RefOr[Response]]
	Callbacks    *Map[*RefOr[Callback]]
	Deprecated   *bool
	Security     []SecurityRequirement
	Servers      []*Server
}

func (o *Operation) attrs() []attr {
	return []attr{
		list("tags", &o.Tags),
		str("summary", &o.Summary),
		str("description", &o.Description),
		ptr("externalDocs", &o.ExternalDocs),
		str("operationId", &o.OperationID),
		list("parameters", &o.Parameters),
		ptr("requestBody", &o.RequestBody),
		dict("responses", &o.Responses).req(),
		dict("callbacks", &o.Callbacks),
		ptr("deprecated", &o.Deprecated),
		list("security", &o.Security),
		list("servers", &o.Servers),
	}
}

// AddParameter appends a parameter.
func (o *Operation) AddParameter(p *RefOr[Parameter]) {
	o.Parameters = append(o.Parameters, p)
}

// HasParameter reports whether an inline parameter with the given name and
// location is already present.
func (o *Operation) HasParameter(name, in string) bool {
	for _, p := range o.Parameters {
		if v := p.Value(); v != nil && v.Name == name && v.In == in {
			return true
		}
	}

	return false
}

// SetResponse stores a response under a status code or "default".
func (o *Operation) SetResponse(code string, r *Response) {
	if o.Responses == nil {
		o.Responses = NewMap[*RefOr[Response]]()
	}
	o.Responses.Set(code, Inline(r))
}

// ExternalDocs references external documentation.
//
// See: https://spec.openapis.org/oas/v3.0.3#external-documentation-object
type ExternalDocs struct {
	Extensible
	Description string
	URL         string
}

func (o *ExternalDocs) attrs() []attr {
	return []attr{
		str("description", &o.Description),
		str("url", &o.URL).req(),
	}
}

// Tag adds metadata to a tag used by operations.
//
// See: https://spec.openapis.org/oas/v3.0.3#tag-object
type Tag struct {
	Extensible
	Name         string
	Description  string
	ExternalDocs *ExternalDocs
}

func (o *Tag) attrs() []attr {
	return []attr{
		str("name", &o.Name).req(),
		str("description", &o.Description),
		ptr("externalDocs", &o.ExternalDocs),
	}
}

// SecurityRequirement maps security scheme names to required scopes.
//
// See: https://spec.openapis.org/oas/v3.0.3#security-requirement-object
type SecurityRequirement map[string][]string

// Link describes a design-time link for a response.
//
// See: https://spec.openapis.org/oas/v3.0.3#link-object
type Link struct {
	Extensible
	OperationRef string
	OperationID  string
	Parameters   *Map[any]
	RequestBody  any
	Description  string
	Server       *Server
}

func (o *Link) attrs() []attr {
	return []attr{
		str("operationRef", &o.OperationRef),
		str("operationId", &o.OperationID),
		dict("parameters", &o.Parameters),
		value("requestBody", &o.RequestBody),
		str("description", &o.Description),
		ptr("server", &o.Server),
	}
}

// Callback maps runtime expressions to the path items describing the
// out-of-band requests. Its keys are dynamic, so it has no declared
// attributes besides the extension bag.
//
// See: https://spec.openapis.org/oas/v3.0.3#callback-object
type Callback struct {
	Extensible
	Expressions Map[*PathItem]
}

func (o *Callback) attrs() []attr { return nil }

func (o *Callback) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	n := 0
	for k, v := range o.Expressions.All() {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		if err := writeMember(&buf, k, v); err != nil {
			return nil, err
		}
	}

	for name, v := range o.ext.m.All() {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		if err := writeMember(&buf, extensionPrefix+name, v); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (o *Callback) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: %T expects a mapping at line %d", ErrAttributeType, o, n.Line)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]

		if strings.HasPrefix(key, extensionPrefix) {
			var v any
			if err := val.Decode(&v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			o.ext.Set(key, v)
			continue
		}

		item := &PathItem{}
		if err := val.Decode(item); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		o.Expressions.Set(key, item)
	}

	return nil
}

func (o *OpenAPI) MarshalJSON() ([]byte, error)            { return marshalObject(o) }
func (o *OpenAPI) UnmarshalYAML(n *yaml.Node) error        { return decodeObject(o, n) }
func (o *Info) MarshalJSON() ([]byte, error)               { return marshalObject(o) }
func (o *Info) UnmarshalYAML(n *yaml.Node) error           { return decodeObject(o, n) }
func (o *Contact) MarshalJSON() ([]byte, error)            { return marshalObject(o) }
func (o *Contact) UnmarshalYAML(n *yaml.Node) error        { return decodeObject(o, n) }
func (o *License) MarshalJSON() ([]byte, error)            { return marshalObject(o) }
func (o *License) UnmarshalYAML(n *yaml.Node) error        { return decodeObject(o, n) }
func (o *Server) MarshalJSON() ([]byte, error)             { return marshalObject(o) }
func (o *Server) UnmarshalYAML(n *yaml.Node) error         { return decodeObject(o, n) }
func (o *ServerVariable) MarshalJSON() ([]byte, error)     { return marshalObject(o) }
func (o *ServerVariable) UnmarshalYAML(n *yaml.Node) error { return decodeObject(o, n) }
func (o *Components) MarshalJSON() ([]byte, error)         { return marshalObject(o) }
func (o *Components) UnmarshalYAML(n *yaml.Node) error     { return decodeObject(o, n) }
func (o *PathItem) MarshalJSON() ([]byte, error)           { return marshalObject(o) }
func (o *PathItem) UnmarshalYAML(n *yaml.Node) error       { return decodeObject(o, n) }
func (o *Operation) MarshalJSON() ([]byte, error)          { return marshalObject(o) }
func (o *Operation) UnmarshalYAML(n *yaml.Node) error      { return decodeObject(o, n) }
func (o *ExternalDocs) MarshalJSON() ([]byte, error)       { return marshalObject(o) }
func (o *ExternalDocs) UnmarshalYAML(n *yaml.Node) error   { return decodeObject(o, n) }
func (o *Tag) MarshalJSON() ([]byte, error)                { return marshalObject(o) }
func (o *Tag) UnmarshalYAML(n *yaml.Node) error            { return decodeObject(o, n) }
func (o *Link) MarshalJSON() ([]byte, error)               { return marshalObject(o) }
func (o *Link) UnmarshalYAML(n *yaml.Node) error           { return decodeObject(o, n) }
