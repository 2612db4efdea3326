package generator

import (
	"github.com/vitalvas/oasgen/annotations"
	"github.com/vitalvas/oasgen/rules"
)

// Description is what the generator knows about a route beyond its
// descriptor: the documentation of the handler and of the type declaring
// it, and the validation rules of its input.
type Description struct {
	Controller *annotations.DocBlock
	Method     *annotations.DocBlock
	Rules      rules.Set
}

// Describer looks up the description of a route. Missing documentation and
// missing rules are normal absence, not errors.
type Describer interface {
	Describe(route Route) (Description, error)
}

// Registry describes routes from explicit registrations, falling back to a
// Go source documentation index for routes not registered by name.
//
//	reg := generator.NewRegistry(idx)
//	reg.Route("widgets.store").
//	    Doc("Create a widget.\n\n@OpenApiOperationTag widgets").
//	    Request(StoreWidget{})
type Registry struct {
	index  *annotations.Index
	routes map[string]*RouteDoc
}

// NewRegistry returns a registry backed by index, which may be nil.
func NewRegistry(index *annotations.Index) *Registry {
	return &Registry{
		index:  index,
		routes: make(map[string]*RouteDoc),
	}
}

// Route returns the registration of the named route, creating it on first
// use.
func (r *Registry) Route(name string) *RouteDoc {
	if d, ok := r.routes[name]; ok {
		return d
	}

	d := &RouteDoc{}
	r.routes[name] = d

	return d
}

// Controller returns a group whose routes share the controller block
// parsed from doc.
func (r *Registry) Controller(doc string) *ControllerDoc {
	return &ControllerDoc{registry: r, block: annotations.Parse(doc)}
}

// Describe implements Describer. Index results come first; registered
// fields replace them.
func (r *Registry) Describe(route Route) (Description, error) {
	var desc Description
	if r == nil {
		return desc, nil
	}

	desc.Controller, desc.Method = r.index.Lookup(route.Handler)

	d, ok := r.routes[route.Name]
	if !ok || route.Name == "" {
		return desc, nil
	}

	if d.err != nil {
		return desc, d.err
	}

	if d.controller != nil {
		desc.Controller = d.controller
	}
	if d.method != nil {
		desc.Method = d.method
	}
	desc.Rules = d.rules

	return desc, nil
}

// RouteDoc holds the registered description of one route.
type RouteDoc struct {
	controller *annotations.DocBlock
	method     *annotations.DocBlock
	rules      rules.Set
	err        error
}

// Doc sets the handler documentation block.
func (d *RouteDoc) Doc(text string) *RouteDoc {
	d.method = annotations.Parse(text)
	return d
}

// ControllerDoc sets the controller documentation block of this route only.
func (d *RouteDoc) ControllerDoc(text string) *RouteDoc {
	d.controller = annotations.Parse(text)
	return d
}

// Rules sets the validation rules of the route input.
func (d *RouteDoc) Rules(set rules.Set) *RouteDoc {
	d.rules = set
	return d
}

// Request reads the validation rules from the rules tags of a request
// struct. A value that is not a struct fails the route when described.
func (d *RouteDoc) Request(v any) *RouteDoc {
	set, err := rules.FromStruct(v)
	if err != nil {
		d.err = err
		return d
	}

	d.rules = set

	return d
}

// ControllerDoc groups routes served by the same controller.
type ControllerDoc struct {
	registry *Registry
	block    *annotations.DocBlock
}

// Route returns the registration of the named route with the controller
// block of the group applied.
func (c *ControllerDoc) Route(name string) *RouteDoc {
	d := c.registry.Route(name)
	d.controller = c.block

	return d
}
