package mux

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Route stores information to match a request.
type Route struct {
	parent      *Router
	handler     http.Handler
	methods     []string
	path        *pathRegexp
	name        string
	err         error
	namedRoutes map[string]*Route
}

// Match matches this route against the request. A route whose path matches
// but whose methods do not sets match.MatchErr to ErrMethodMismatch.
func (r *Route) Match(req *http.Request, match *RouteMatch) bool {
	if r.err != nil || r.path == nil {
		return false
	}

	vars, ok := r.path.vars(req.URL.Path)
	if !ok {
		return false
	}

	if sub, ok := r.handler.(*Router); ok {
		return sub.Match(req, match)
	}

	if len(r.methods) > 0 && !slices.Contains(r.methods, req.Method) {
		match.MatchErr = ErrMethodMismatch
		return false
	}

	match.Route = r
	match.Handler = r.handler
	match.Vars = vars
	match.MatchErr = nil

	return true
}

// Handler sets a handler for the route.
func (r *Route) Handler(handler http.Handler) *Route {
	if r.err == nil {
		r.handler = handler
	}
	return r
}

// HandlerFunc sets a handler function for the route.
func (r *Route) HandlerFunc(f func(http.ResponseWriter, *http.Request)) *Route {
	return r.Handler(http.HandlerFunc(f))
}

// GetHandler returns the handler for the route, if any.
func (r *Route) GetHandler() http.Handler {
	return r.handler
}

// GetHandlerName returns the fully qualified name of the function serving
// the route. See HandlerName.
func (r *Route) GetHandlerName() string {
	return HandlerName(r.handler)
}

// Name sets the name for the route. Naming a route twice is an error.
func (r *Route) Name(name string) *Route {
	if r.name != "" {
		r.err = fmt.Errorf("mux: route already has name %q, can't set %q", r.name, name)
		return r
	}
	if r.err == nil {
		r.name = name
		if r.namedRoutes != nil {
			r.namedRoutes[name] = r
		}
	}
	return r
}

// GetName returns the name for the route, if any.
func (r *Route) GetName() string {
	return r.name
}

// Path sets the path template of the route. Templates of parent subrouters
// are prepended.
func (r *Route) Path(tpl string) *Route {
	return r.setPath(tpl, false)
}

// PathPrefix sets a path prefix template. Routes created from the
// Subrouter of a prefix route extend that prefix.
func (r *Route) PathPrefix(tpl string) *Route {
	return r.setPath(tpl, true)
}

func (r *Route) setPath(tpl string, prefix bool) *Route {
	if r.err != nil {
		return r
	}

	if r.parent != nil && r.parent.parent != nil && r.parent.parent.path != nil {
		tpl = strings.TrimRight(r.parent.parent.path.template, "/") + tpl
	}

	r.path, r.err = newPathRegexp(tpl, prefix)

	return r
}

// Methods restricts the route to the given HTTP methods. Calling Methods
// again replaces the previous list.
func (r *Route) Methods(methods ...string) *Route {
	r.methods = make([]string, len(methods))
	for i, m := range methods {
		r.methods[i] = strings.ToUpper(m)
	}
	return r
}

// Subrouter creates a Router whose routes extend this route's path.
func (r *Route) Subrouter() *Router {
	router := &Router{
		parent:      r,
		namedRoutes: r.namedRoutes,
	}
	r.handler = router
	return router
}

// GetPathTemplate returns the template for the route path, if defined.
func (r *Route) GetPathTemplate() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.path == nil {
		return "", errors.New("mux: route doesn't have a path")
	}
	return r.path.template, nil
}

// GetMethods returns the methods the route matches against.
func (r *Route) GetMethods() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.methods) == 0 {
		return nil, errors.New("mux: route doesn't have methods")
	}
	return slices.Clone(r.methods), nil
}

// GetVarNames returns the variable names of the route path.
func (r *Route) GetVarNames() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.path == nil {
		return nil, nil
	}
	return slices.Clone(r.path.varsN), nil
}

// GetError returns any error that was set on the route.
func (r *Route) GetError() error {
	return r.err
}
