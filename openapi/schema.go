package openapi

import "gopkg.in/yaml.v3"

// Schema types.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Constraints are the validation keywords of a Schema.
type Constraints struct {
	MultipleOf       *float64
	Maximum          *float64
	ExclusiveMaximum *bool
	Minimum          *float64
	ExclusiveMinimum *bool
	MaxLength        *int
	MinLength        *int
	Pattern          string
	MaxItems         *int
	MinItems         *int
	UniqueItems      *bool
	MaxProperties    *int
	MinProperties    *int
	Required         []string
	Enum             []any
}

func (c *Constraints) constraintAttrs() []attr {
	return []attr{
		ptr("multipleOf", &c.MultipleOf),
		ptr("maximum", &c.Maximum),
		ptr("exclusiveMaximum", &c.ExclusiveMaximum),
		ptr("minimum", &c.Minimum),
		ptr("exclusiveMinimum", &c.ExclusiveMinimum),
		ptr("maxLength", &c.MaxLength),
		ptr("minLength", &c.MinLength),
		str("pattern", &c.Pattern),
		ptr("maxItems", &c.MaxItems),
		ptr("minItems", &c.MinItems),
		ptr("uniqueItems", &c.UniqueItems),
		ptr("maxProperties", &c.MaxProperties),
		ptr("minProperties", &c.MinProperties),
		list("required", &c.Required),
		list("enum", &c.Enum),
	}
}

// Schema defines an input or output data type, following the OpenAPI 3.0
// subset of JSON Schema.
//
// See: https://spec.openapis.org/oas/v3.0.3#schema-object
type Schema struct {
	Extensible
	Title string
	Constraints
	Type        string
	AllOf       []*RefOr[Schema]
	OneOf       []*RefOr[Schema]
	AnyOf       []*RefOr[Schema]
	Not         *RefOr[Schema]
	Items       *RefOr[Schema]
	Properties  *Map[*RefOr[Schema]]
	Description string
	Format      string
	Default     any
	Nullable    *bool

	// AdditionalProperties holds either a bool or a *RefOr[Schema].
	AdditionalProperties any

	Discriminator *Discriminator
	ReadOnly      *bool
	WriteOnly     *bool
	XML           *XML
	ExternalDocs  *ExternalDocs
	Example       any
	Deprecated    *bool
}

// NewSchema returns a schema of the given type.
func NewSchema(typ string) *Schema {
	return &Schema{Type: typ}
}

func (o *Schema) attrs() []attr {
	out := []attr{str("title", &o.Title)}
	out = append(out, o.constraintAttrs()...)

	return append(out,
		str("type", &o.Type),
		list("allOf", &o.AllOf),
		list("oneOf", &o.OneOf),
		list("anyOf", &o.AnyOf),
		ptr("not", &o.Not),
		ptr("items", &o.Items),
		dict("properties", &o.Properties),
		additional("additionalProperties", &o.AdditionalProperties),
		str("description", &o.Description),
		str("format", &o.Format),
		value("default", &o.Default),
		ptr("nullable", &o.Nullable),
		ptr("discriminator", &o.Discriminator),
		ptr("readOnly", &o.ReadOnly),
		ptr("writeOnly", &o.WriteOnly),
		ptr("xml", &o.XML),
		ptr("externalDocs", &o.ExternalDocs),
		value("example", &o.Example),
		ptr("deprecated", &o.Deprecated),
	)
}

// SetProperty stores a property schema, creating the map on first use.
func (o *Schema) SetProperty(name string, s *RefOr[Schema]) {
	if o.Properties == nil {
		o.Properties = NewMap[*RefOr[Schema]]()
	}
	o.Properties.Set(name, s)
}

// additional binds additionalProperties, which is either a boolean or a
// schema.
func additional(name string, p *any) attr {
	return attr{
		name:    name,
		present: func() bool { return *p != nil },
		get:     func() any { return *p },
		set: func(v any) bool {
			switch v.(type) {
			case bool, *RefOr[Schema], nil:
				*p = v
				return true
			}
			return false
		},
		decode: func(n *yaml.Node) error {
			if n.Kind == yaml.ScalarNode && n.Tag == "!!bool" {
				var b bool
				if err := n.Decode(&b); err != nil {
					return err
				}
				*p = b
				return nil
			}

			s := &RefOr[Schema]{}
			if err := n.Decode(s); err != nil {
				return err
			}
			*p = s
			return nil
		},
	}
}

// Discriminator aids serialization when payloads may be one of several
// schemas.
//
// See: https://spec.openapis.org/oas/v3.0.3#discriminator-object
type Discriminator struct {
	Extensible
	PropertyName string
	Mapping      *Map[string]
}

func (o *Discriminator) attrs() []attr {
	return []attr{
		str("propertyName", &o.PropertyName).req(),
		dict("mapping", &o.Mapping),
	}
}

// XML fine-tunes the XML representation of a property.
//
// See: https://spec.openapis.org/oas/v3.0.3#xml-object
type XML struct {
	Extensible
	Name      string
	Namespace string
	Prefix    string
	Attribute *bool
	Wrapped   *bool
}

func (o *XML) attrs() []attr {
	return []attr{
		str("name", &o.Name),
		str("namespace", &o.Namespace),
		str("prefix", &o.Prefix),
		ptr("attribute", &o.Attribute),
		ptr("wrapped", &o.Wrapped),
	}
}

func (o *Schema) MarshalJSON() ([]byte, error)            { return marshalObject(o) }
func (o *Schema) UnmarshalYAML(n *yaml.Node) error        { return decodeObject(o, n) }
func (o *Discriminator) MarshalJSON() ([]byte, error)     { return marshalObject(o) }
func (o *Discriminator) UnmarshalYAML(n *yaml.Node) error { return decodeObject(o, n) }
func (o *XML) MarshalJSON() ([]byte, error)               { return marshalObject(o) }
func (o *XML) UnmarshalYAML(n *yaml.Node) error           { return decodeObject(o, n) }
