// Package annotations reads route documentation from doc comments.
//
// A documentation block is a summary, an optional description and a list
// of "@name body" tags:
//
//	// Show returns one widget.
//	//
//	// The widget is looked up by its numeric id.
//	//
//	// @OpenApiOperationTag [widgets, public]
//	// @OpenApiResponseExceptedHTTPCode 200
//	// @param int $id Widget id
//	func (c *Controller) Show(w http.ResponseWriter, r *http.Request) {}
//
// Extract turns the block of a handler and the block of the type declaring
// it into Annotations. An Index built with ScanDir finds both blocks for a
// handler from its runtime name.
//
// # Tags
//
//	@OpenApiOperationId <id>                    operationId override
//	@OpenApiOperationTag <tag> | [<a>, <b>]     operation tags
//	@OpenApiExtraParameterRef <ref>             extra $ref parameter
//	@OpenApiResponseSchemaRef <ref>             primary response schema
//	@OpenApiDefaultResponseSchemaRef <ref>      default response schema
//	@OpenApiResponseDescription <text>          primary response description
//	@OpenApiDefaultResponseDescription <text>   default response description
//	@OpenApiResponseExceptedHTTPCode <code>     primary response status
//	@ApiDocsNoCall                              no live example call
//	@param <type> $<name> <text>                path parameter documentation
package annotations
