// Package mux is a small request router whose routes can be inspected
// after registration: path templates, methods, names and the identity of
// the function serving each route.
//
// # Router
//
//	r := mux.NewRouter()
//	r.HandleFunc("/widgets", ctrl.Index).Methods(http.MethodGet).Name("widgets.index")
//	r.HandleFunc("/widgets/{id:int}", ctrl.Show).Methods(http.MethodGet).Name("widgets.show")
//	http.ListenAndServe(":8080", r)
//
// A route whose path matches but whose methods do not yields 405 Method
// Not Allowed with an Allow header; anything else unmatched yields 404.
//
// # Path Variables
//
// Variables are enclosed in braces, optionally followed by a colon and a
// regular expression or macro name:
//
//	/articles/{category}/{id:[0-9]+}
//	/users/{id:uuid}
//
// Available macros:
//
//	uuid     - RFC 4122 UUID
//	int      - unsigned integer
//	float    - decimal number
//	slug     - URL-safe slug
//	alpha    - alphabetic characters
//	alphanum - alphanumeric characters
//	date     - ISO 8601 date (2024-01-15)
//	hex      - hexadecimal string
//	domain   - domain name per RFC 1123
//
// Matched values are available through Vars:
//
//	id := mux.Vars(r)["id"]
//
// # Subrouters and Middleware
//
//	api := r.PathPrefix("/api").Subrouter()
//	api.Use(authMiddleware)
//	api.HandleFunc("/users", users.Index)
//
// Subrouter middleware runs inside parent router middleware.
//
// # Inspection
//
// Walk visits every route, including those of subrouters:
//
//	r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
//	    tpl, _ := route.GetPathTemplate()
//	    methods, _ := route.GetMethods()
//	    fmt.Println(route.GetName(), methods, tpl, route.GetHandlerName())
//	    return nil
//	})
//
// Return SkipRouter from the walk function to skip a subrouter.
package mux
