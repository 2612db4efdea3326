package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vitalvas/oasgen/annotations"
	"github.com/vitalvas/oasgen/capture"
	"github.com/vitalvas/oasgen/mux"
	"github.com/vitalvas/oasgen/openapi"
	"github.com/vitalvas/oasgen/rules"
)

const (
	mimeJSON        = "application/json"
	defaultResponse = "default"
	examplesRef     = "#/components/examples/"
	exampleSuffix   = "ExampleResponse"
)

type state int

const (
	stateInit state = iota
	stateProcessing
	stateDone
)

// Config configures a Generator.
type Config struct {
	Logger zerolog.Logger

	// Describer supplies documentation and rules. Nil describes nothing.
	Describer Describer

	// Capturer records live examples. Nil disables capture.
	Capturer *capture.Capturer

	// URI returns the OpenAPI path of a route. It defaults to the URI of
	// the capturer's router, else to TemplateURI.
	URI func(Route) string

	// StrictOperationIDs fails a route whose operationId is already used
	// by another operation. Collisions are only logged otherwise.
	StrictOperationIDs bool

	// ContinueOnError logs and skips failing operations instead of
	// aborting the run.
	ContinueOnError bool
}

// Bindings are the static parts of the document taken from a profile.
type Bindings struct {
	Info       *openapi.Info                 `yaml:"info"`
	Servers    []*openapi.Server             `yaml:"servers"`
	Security   []openapi.SecurityRequirement `yaml:"security"`
	Components *openapi.Components           `yaml:"components"`
}

// Generator builds one OpenAPI document from a route table. A generator
// is used once: apply bindings, process routes, write the document.
type Generator struct {
	cfg   Config
	doc   *openapi.OpenAPI
	state state

	// operationIDs maps each operationId to the first "METHOD path" using it.
	operationIDs map[string]string

	// operations maps each "METHOD path" in the document to its route.
	operations map[string]string
}

// New returns a generator with an empty document.
func New(cfg Config) *Generator {
	if cfg.URI == nil {
		cfg.URI = TemplateURI
		if cfg.Capturer != nil {
			cfg.URI = cfg.Capturer.URI
		}
	}

	return &Generator{
		cfg:          cfg,
		doc:          openapi.NewDocument(nil),
		operationIDs: make(map[string]string),
		operations:   make(map[string]string),
	}
}

// TemplateURI strips the patterns from a mux-style route template:
// "/widgets/{id:int}" becomes "/widgets/{id}".
func TemplateURI(route Route) string {
	uri, _, err := mux.ParseTemplate(route.Template)
	if err != nil {
		return route.Template
	}

	return uri
}

// ApplyBindings merges profile bindings into the document. It must be
// called before any route is processed.
func (g *Generator) ApplyBindings(b Bindings) error {
	if g.state != stateInit {
		return fmt.Errorf("%w: bindings must be applied before processing", ErrFinalized)
	}

	if b.Info == nil {
		return ErrMissingInfo
	}

	g.doc.Info = b.Info

	if b.Servers != nil {
		g.doc.Servers = b.Servers
	}
	if b.Security != nil {
		g.doc.Security = b.Security
	}
	if b.Components != nil {
		g.components().Merge(b.Components)
	}

	return nil
}

// Document returns the document built so far.
func (g *Generator) Document() *openapi.OpenAPI {
	return g.doc
}

// ProcessRoutes maps every route, in order, into the document. The first
// failing operation aborts the run unless ContinueOnError is set.
func (g *Generator) ProcessRoutes(ctx context.Context, routes []Route) error {
	if g.state == stateDone {
		return ErrFinalized
	}
	g.state = stateProcessing

	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := g.processRoute(ctx, route); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) processRoute(ctx context.Context, route Route) error {
	uri := g.cfg.URI(route)

	g.cfg.Logger.Info().
		Str("route", route.Name).
		Strs("methods", route.Methods).
		Str("uri", uri).
		Msg("processing route")

	var desc Description
	if g.cfg.Describer != nil {
		d, err := g.cfg.Describer.Describe(route)
		if err != nil {
			return g.fail(&RouteError{Route: routeLabel(route), Err: err})
		}
		desc = d
	}

	ann := annotations.Extract(desc.Method, desc.Controller)

	for _, method := range route.Methods {
		method = strings.ToUpper(method)

		if method == http.MethodHead {
			continue
		}

		if !slices.Contains(standardMethods, method) {
			g.cfg.Logger.Warn().
				Str("route", route.Name).
				Str("method", method).
				Msg("unsupported method skipped")
			continue
		}

		key := method + " " + uri
		if owner, ok := g.operations[key]; ok {
			if g.cfg.StrictOperationIDs {
				err := fmt.Errorf("%w: %s is already defined by route %q", ErrDuplicateOperation, key, owner)
				if err := g.fail(&RouteError{Route: routeLabel(route), Method: method, Err: err}); err != nil {
					return err
				}
				continue
			}

			g.cfg.Logger.Warn().
				Str("route", routeLabel(route)).
				Str("operation", key).
				Str("previous", owner).
				Msg("operation already defined, skipped")
			continue
		}

		op, err := g.operation(ctx, route, method, uri, desc, ann)
		if err != nil {
			if err := g.fail(&RouteError{Route: routeLabel(route), Method: method, Err: err}); err != nil {
				return err
			}
			continue
		}

		if _, ok := g.operationIDs[op.OperationID]; !ok {
			g.operationIDs[op.OperationID] = key
		}
		g.operations[key] = routeLabel(route)

		g.pathItem(uri, desc.Controller).SetOperation(method, op)
	}

	return nil
}

// fail applies the failure policy to a route error.
func (g *Generator) fail(err *RouteError) error {
	if !g.cfg.ContinueOnError {
		return err
	}

	g.cfg.Logger.Error().
		Err(err.Err).
		Str("route", err.Route).
		Str("method", err.Method).
		Msg("skipped route")

	return nil
}

// pathItem returns the path item for uri, creating it on first use with
// the controller summary and description.
func (g *Generator) pathItem(uri string, controller *annotations.DocBlock) *openapi.PathItem {
	if item, ok := g.doc.Paths.Get(uri); ok {
		return item
	}

	item := &openapi.PathItem{}
	if controller != nil {
		item.Summary = controller.Summary
		item.Description = controller.Description
	}
	g.doc.Paths.Set(uri, item)

	return item
}

func (g *Generator) operation(ctx context.Context, route Route, method, uri string, desc Description, ann annotations.Annotations) (*openapi.Operation, error) {
	op := &openapi.Operation{Tags: ann.Tags}
	if desc.Method != nil {
		op.Summary = desc.Method.Summary
		op.Description = desc.Method.Description
	}

	id, err := g.operationID(route, method, uri, ann.OperationID)
	if err != nil {
		return nil, err
	}
	op.OperationID = id

	for _, p := range pathParameters(uri, route.Template, ann.Params) {
		op.AddParameter(openapi.Inline(p))
	}

	if err := applyRules(op, method, desc.Rules); err != nil {
		return nil, err
	}

	for _, ref := range ann.ExtraParameterRefs {
		op.AddParameter(openapi.Ref[openapi.Parameter](ref))
	}

	primary := newResponse(ann.ResponseSchemaRef, ann.ResponseDescription)
	if ann.ResponseSchemaRef == "" && !ann.NoCall {
		g.attachExample(ctx, route, method, uri, primary)
	}

	code := ann.ExpectedStatus
	if code == "" {
		code = defaultStatus(method)
	}
	if code != "" {
		op.SetResponse(code, primary)
	}

	op.SetResponse(defaultResponse, newResponse(ann.DefaultResponseSchemaRef, ann.DefaultResponseDescription))

	return op, nil
}

// applyRules turns validation rules into query parameters for GET and into
// a JSON request body for POST, PUT and PATCH. Fields already present as
// parameters are not added again.
func applyRules(op *openapi.Operation, method string, set rules.Set) error {
	if set.Len() == 0 {
		return nil
	}

	switch method {
	case http.MethodGet:
		for field, tokens := range set.All() {
			schema, err := rules.Translate(field, tokens)
			if err != nil {
				return err
			}

			if op.HasParameter(field, openapi.InPath) || op.HasParameter(field, openapi.InQuery) {
				continue
			}

			p := &openapi.Parameter{Name: field, In: openapi.InQuery}
			p.Required = openapi.Ptr(rules.HasRule(tokens, rules.RequiredRule))
			p.Schema = openapi.Inline(schema)
			op.AddParameter(openapi.Inline(p))
		}

	case http.MethodPost, http.MethodPut, http.MethodPatch:
		schema, err := rules.ObjectSchema(set)
		if err != nil {
			return err
		}

		body := &openapi.RequestBody{Content: openapi.NewMap[*openapi.MediaType]()}
		body.Content.Set(mimeJSON, &openapi.MediaType{Schema: openapi.Inline(schema)})
		op.RequestBody = openapi.Inline(body)
	}

	return nil
}

// newResponse builds a response with an optional schema reference. The
// description defaults to the empty string.
func newResponse(schemaRef string, description *string) *openapi.Response {
	r := &openapi.Response{}
	if description != nil {
		r.Description = *description
	}

	if schemaRef != "" {
		r.SetContent(mimeJSON, &openapi.MediaType{Schema: openapi.Ref[openapi.Schema](schemaRef)})
	}

	return r
}

// attachExample captures a live response of the route, registers it in the
// components and links it from the JSON content of r.
func (g *Generator) attachExample(ctx context.Context, route Route, method, uri string, r *openapi.Response) {
	body, ok := g.cfg.Capturer.Example(ctx, route, method)
	if !ok || len(bytes.TrimSpace(body)) == 0 {
		return
	}

	id := exampleID(route, uri)
	g.components().AddExample(id, &openapi.Example{Value: exampleValue(body)})

	mt, ok := r.Content.Get(mimeJSON)
	if !ok {
		mt = &openapi.MediaType{}
		r.SetContent(mimeJSON, mt)
	}
	mt.AddExample(id, openapi.Ref[openapi.Example](examplesRef+id))
}

func (g *Generator) components() *openapi.Components {
	if g.doc.Components == nil {
		g.doc.Components = &openapi.Components{}
	}

	return g.doc.Components
}

// operationID resolves the operationId of an operation and checks it
// against the ids already in the document.
func (g *Generator) operationID(route Route, method, uri, explicit string) (string, error) {
	id := explicit
	if id == "" {
		id = deriveOperationID(route.Name, method, uri)
	}

	key := method + " " + uri
	prev, seen := g.operationIDs[id]
	switch {
	case !seen:
	case g.cfg.StrictOperationIDs:
		return "", fmt.Errorf("%w: %q is already used by %s", ErrDuplicateOperationID, id, prev)
	default:
		g.cfg.Logger.Warn().
			Str("operation_id", id).
			Str("operation", key).
			Str("previous", prev).
			Msg("operationId collision")
	}

	return id, nil
}

// deriveOperationID names an operation after the last segment of its route
// name. PUT and PATCH are prefixed with the verb so they do not clash with
// GET and POST on the same route:
//
//	GET   widgets.show    -> show
//	PUT   widgets.update  -> putUpdate
//	GET   /widgets/{id}   -> getWidgetsId (unnamed)
func deriveOperationID(name, method, uri string) string {
	verb := strings.ToLower(method)

	if name == "" {
		return verb + studly(uri)
	}

	segment := name[strings.LastIndex(name, ".")+1:]

	switch method {
	case http.MethodPut, http.MethodPatch:
		return verb + upperFirst(segment)
	}

	return segment
}

// exampleID names the example registered for a route.
func exampleID(route Route, uri string) string {
	base := route.Name
	if base == "" {
		base = uri
	}

	return studly(base) + exampleSuffix
}

// exampleValue decodes a JSON body; bodies that are not JSON are kept as
// text.
func exampleValue(body []byte) any {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(body)
	}

	return v
}

func defaultStatus(method string) string {
	switch method {
	case http.MethodGet:
		return "200"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "201"
	case http.MethodDelete:
		return "204"
	}

	return ""
}

// studly joins the words of s with their first letters upper-cased:
// "widgets.show_all" becomes "WidgetsShowAll".
func studly(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}

	return b.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

func routeLabel(route Route) string {
	if route.Name != "" {
		return route.Name
	}

	return route.Template
}

// WriteJSON writes the document as JSON, indented with two spaces when
// indent is set. The generator accepts no more routes afterwards.
func (g *Generator) WriteJSON(w io.Writer, indent bool) error {
	if g.doc.Info == nil {
		return ErrMissingInfo
	}
	g.state = stateDone

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(g.doc, "", "  ")
	} else {
		data, err = json.Marshal(g.doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

// WriteYAML writes the document as YAML with the key order of the JSON
// output. The generator accepts no more routes afterwards.
func (g *Generator) WriteYAML(w io.Writer) error {
	if g.doc.Info == nil {
		return ErrMissingInfo
	}
	g.state = stateDone

	data, err := openapi.MarshalYAML(g.doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = w.Write(data)

	return err
}
