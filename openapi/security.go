package openapi

import "gopkg.in/yaml.v3"

// Security scheme types.
const (
	SecurityAPIKey        = "apiKey"
	SecurityHTTP          = "http"
	SecurityOAuth2        = "oauth2"
	SecurityOpenIDConnect = "openIdConnect"
)

// SecurityScheme defines a security scheme usable by operations.
//
// See: https://spec.openapis.org/oas/v3.0.3#security-scheme-object
type SecurityScheme struct {
	Extensible
	Type             string
	Description      string
	Name             string
	In               string
	Scheme           string
	BearerFormat     string
	Flows            *OAuthFlows
	OpenIDConnectURL string
}

func (o *SecurityScheme) attrs() []attr {
	return []attr{
		str("type", &o.Type).req(),
		str("description", &o.Description),
		str("name", &o.Name),
		str("in", &o.In),
		str("scheme", &o.Scheme),
		str("bearerFormat", &o.BearerFormat),
		ptr("flows", &o.Flows),
		str("openIdConnectUrl", &o.OpenIDConnectURL),
	}
}

// FlowKind names an OAuth 2.0 flow.
type FlowKind string

// Supported OAuth 2.0 flows.
const (
	FlowImplicit          FlowKind = "implicit"
	FlowPassword          FlowKind = "password"
	FlowClientCredentials FlowKind = "clientCredentials"
	FlowAuthorizationCode FlowKind = "authorizationCode"
)

// OAuthFlow configures one OAuth 2.0 flow. The flow kind decides which
// URLs the flow declares and which of them are required: implicit flows
// have no token URL, password and client credentials flows have no
// authorization URL. The OAuthFlows slot holding a flow sets its kind, so
// a struct literal placed in OAuthFlows.Implicit is an implicit flow.
//
// See: https://spec.openapis.org/oas/v3.0.3#oauth-flow-object
type OAuthFlow struct {
	Extensible
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           *Map[string]

	kind FlowKind
}

// NewOAuthFlow returns an empty flow of the given kind.
func NewOAuthFlow(kind FlowKind) *OAuthFlow {
	return &OAuthFlow{kind: kind}
}

// Kind returns the flow kind.
func (o *OAuthFlow) Kind() FlowKind {
	return o.kind
}

func (o *OAuthFlow) attrs() []attr {
	authURL := str("authorizationUrl", &o.AuthorizationURL).req()
	tokenURL := str("tokenUrl", &o.TokenURL).req()
	rest := []attr{
		str("refreshUrl", &o.RefreshURL),
		dict("scopes", &o.Scopes).req(),
	}

	switch o.kind {
	case FlowImplicit:
		return append([]attr{authURL}, rest...)
	case FlowPassword, FlowClientCredentials:
		return append([]attr{tokenURL}, rest...)
	}

	return append([]attr{authURL, tokenURL}, rest...)
}

// OAuthFlows lists the configured OAuth 2.0 flows.
//
// See: https://spec.openapis.org/oas/v3.0.3#oauth-flows-object
type OAuthFlows struct {
	Extensible
	Implicit          *OAuthFlow
	Password          *OAuthFlow
	ClientCredentials *OAuthFlow
	AuthorizationCode *OAuthFlow
}

func (o *OAuthFlows) attrs() []attr {
	return []attr{
		flow(FlowImplicit, &o.Implicit),
		flow(FlowPassword, &o.Password),
		flow(FlowClientCredentials, &o.ClientCredentials),
		flow(FlowAuthorizationCode, &o.AuthorizationCode),
	}
}

// flow binds a flow slot. The slot fixes the kind of whatever is stored,
// assigned or decoded into it.
func flow(kind FlowKind, p **OAuthFlow) attr {
	if *p != nil {
		(*p).kind = kind
	}

	a := ptr(string(kind), p)

	set := a.set
	a.set = func(v any) bool {
		f, ok := v.(*OAuthFlow)
		if ok && f != nil {
			if f.kind != "" && f.kind != kind {
				return false
			}
			f.kind = kind
		}
		return set(v)
	}

	a.decode = func(n *yaml.Node) error {
		f := NewOAuthFlow(kind)
		if err := n.Decode(f); err != nil {
			return err
		}
		*p = f
		return nil
	}

	return a
}

func (o *SecurityScheme) MarshalJSON() ([]byte, error)     { return marshalObject(o) }
func (o *SecurityScheme) UnmarshalYAML(n *yaml.Node) error { return decodeObject(o, n) }
func (o *OAuthFlow) MarshalJSON() ([]byte, error)          { return marshalObject(o) }
func (o *OAuthFlow) UnmarshalYAML(n *yaml.Node) error      { return decodeObject(o, n) }
func (o *OAuthFlows) MarshalJSON() ([]byte, error)         { return marshalObject(o) }
func (o *OAuthFlows) UnmarshalYAML(n *yaml.Node) error     { return decodeObject(o, n) }
