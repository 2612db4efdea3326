package mux

import (
	"context"
	"errors"
	"net/http"
)

type routeContextKey struct{}

// routeContext holds the matched route and extracted variables.
type routeContext struct {
	route *Route
	vars  map[string]string
}

// Vars returns the route variables for the current request, if any.
func Vars(r *http.Request) map[string]string {
	if rc, ok := r.Context().Value(routeContextKey{}).(*routeContext); ok {
		return rc.vars
	}
	return nil
}

// CurrentRoute returns the matched route for the current request, if any.
func CurrentRoute(r *http.Request) *Route {
	if rc, ok := r.Context().Value(routeContextKey{}).(*routeContext); ok {
		return rc.route
	}
	return nil
}

// SetURLVars returns a copy of r carrying the given route variables.
// Intended for handler tests.
func SetURLVars(r *http.Request, vars map[string]string) *http.Request {
	return setRouteContext(r, CurrentRoute(r), vars)
}

func setRouteContext(r *http.Request, route *Route, vars map[string]string) *http.Request {
	ctx := context.WithValue(r.Context(), routeContextKey{}, &routeContext{route: route, vars: vars})
	return r.WithContext(ctx)
}

// RouteMatch stores information about a matched route.
type RouteMatch struct {
	Route   *Route
	Handler http.Handler
	Vars    map[string]string

	// MatchErr is ErrMethodMismatch when the path matched but the method
	// did not, ErrNotFound when nothing matched.
	MatchErr error
}

// MiddlewareFunc wraps an http.Handler with additional behavior.
type MiddlewareFunc func(http.Handler) http.Handler

// WalkFunc is called for each route visited by Walk, with the router
// holding it and the subrouter routes that led to it.
type WalkFunc func(route *Route, router *Router, ancestors []*Route) error

var (
	// ErrMethodMismatch is set when the path matched but the method did not.
	ErrMethodMismatch = errors.New("method is not allowed")

	// ErrNotFound is set when no route matched.
	ErrNotFound = errors.New("no matching route was found")

	// SkipRouter returned from a WalkFunc skips the subrouter about to be
	// descended into.
	SkipRouter = errors.New("skip this router") //nolint:revive,staticcheck // gorilla/mux API compatibility
)
