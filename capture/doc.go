// Package capture calls routes to record example responses.
//
// A Router knows how to turn a route into an OpenAPI path template and how
// to call it. Three kinds exist:
//
//	mux   in-process dispatch into a *mux.Router
//	echo  in-process dispatch into an *echo.Echo
//	http  requests against a running server
//
// In-process calls run behind panic recovery, a request id and an optional
// timeout, so a misbehaving handler costs one example and nothing else.
//
// # Bindings
//
// Route URIs usually contain placeholders that need real values before a
// call can succeed. Bindings supply them per route name:
//
//	api_calls_bindings:
//	  - routes_aliases: [widgets.show]
//	    bindings:
//	      - {in: query-route, name: id, value: "1"}
//	      - {in: query-injected, name: expand, value: parts}
//
// With these, /widgets/{id} is called as /widgets/1?expand=parts.
package capture
