// Package generator builds an OpenAPI 3.0 document from a route table.
//
// Routes come from a mux router (MuxRoutes), an echo instance (EchoRoutes)
// or a YAML manifest (LoadManifest). A Describer supplies the documentation
// blocks and validation rules of each route; Registry is the stock
// implementation, backed by explicit registrations and an
// annotations.Index of the application sources.
//
//	gen := generator.New(generator.Config{
//	    Logger:    logger,
//	    Describer: registry,
//	    Capturer:  capturer,
//	})
//	if err := gen.ApplyBindings(bindings); err != nil {
//	    return err
//	}
//	if err := gen.ProcessRoutes(ctx, routes); err != nil {
//	    return err
//	}
//	return gen.WriteJSON(w, true)
//
// For each route and method other than HEAD the generator creates one
// operation:
//
//   - path parameters from the template placeholders, typed by mux macros
//     and documented @param tags;
//   - query parameters (GET) or a JSON request body (POST, PUT, PATCH)
//     from the validation rules;
//   - a primary response under the annotated or verb default status code,
//     carrying a schema reference or a captured live example;
//   - a default response.
//
// Documents are not validated; unresolved $ref targets are left as is.
package generator
