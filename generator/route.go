package generator

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitalvas/oasgen/capture"
	"github.com/vitalvas/oasgen/mux"
)

// Route is the route descriptor the generator consumes.
type Route = capture.Route

// standardMethods are the verbs a path item can hold, in path item order.
var standardMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// MuxRoutes walks r and returns its routes in registration order.
// Subrouter mounts and routes without methods are skipped.
func MuxRoutes(r *mux.Router) ([]Route, error) {
	var routes []Route

	err := r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if err := route.GetError(); err != nil {
			return err
		}

		if _, ok := route.GetHandler().(*mux.Router); ok {
			return nil
		}

		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, err := route.GetMethods()
		if err != nil || len(methods) == 0 {
			return nil
		}

		routes = append(routes, Route{
			Name:     route.GetName(),
			Template: tpl,
			Methods:  methods,
			Handler:  route.GetHandlerName(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return routes, nil
}

// EchoRoutes returns the routes of e sorted by path, then method. Echo
// keeps no registration order and registers one route per method; entries
// sharing a name and a path are folded into one Route.
//
// Echo names unnamed routes after their handler function. Such names are
// reported as the handler identity and the route is left unnamed.
func EchoRoutes(e *echo.Echo) []Route {
	echoRoutes := e.Routes()
	slices.SortStableFunc(echoRoutes, func(a, b *echo.Route) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return cmp.Compare(methodRank(a.Method), methodRank(b.Method))
	})

	var routes []Route
	index := make(map[string]int)

	for _, r := range echoRoutes {
		method := strings.ToUpper(r.Method)
		if !slices.Contains(standardMethods, method) {
			continue
		}

		key := r.Name + " " + r.Path
		if i, ok := index[key]; ok {
			if !slices.Contains(routes[i].Methods, method) {
				routes[i].Methods = append(routes[i].Methods, method)
			}
			continue
		}

		route := Route{Template: r.Path, Methods: []string{method}}
		if isFuncName(r.Name) {
			route.Handler = r.Name
		} else {
			route.Name = r.Name
		}

		index[key] = len(routes)
		routes = append(routes, route)
	}

	return routes
}

func methodRank(method string) int {
	if i := slices.Index(standardMethods, strings.ToUpper(method)); i >= 0 {
		return i
	}
	return len(standardMethods)
}

func isFuncName(name string) bool {
	return strings.Contains(name, "/") ||
		strings.Contains(name, "(") ||
		strings.HasSuffix(name, "-fm") ||
		strings.Contains(name, ".func")
}

// FilterPrefix keeps the routes whose first path segment is prefix. An
// empty prefix keeps every route.
//
//	FilterPrefix(routes, "v1")  // keeps /v1/widgets, drops /v2/widgets and /v10
func FilterPrefix(routes []Route, prefix string) []Route {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return routes
	}

	var out []Route
	for _, r := range routes {
		first, _, _ := strings.Cut(strings.TrimPrefix(r.Template, "/"), "/")
		if first == prefix {
			out = append(out, r)
		}
	}

	return out
}
