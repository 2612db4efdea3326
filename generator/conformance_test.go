package generator

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/oasgen/capture"
	"github.com/vitalvas/oasgen/mux"
	"github.com/vitalvas/oasgen/openapi"
	"github.com/vitalvas/oasgen/rules"
)

// shopRouter is a small application exercising every operation shape the
// generator emits.
func shopRouter() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/widgets", func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusOK, []map[string]any{{"id": 7, "name": "bolt", "price": 1.25}})
	}).Methods(http.MethodGet).Name("widgets.index")
	api.HandleFunc("/widgets", func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusCreated, map[string]any{"id": 8})
	}).Methods(http.MethodPost).Name("widgets.store")
	api.HandleFunc("/widgets/{id:int}", func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusOK, map[string]any{"id": 7, "name": "bolt"})
	}).Methods(http.MethodGet, http.MethodHead).Name("widgets.show")
	api.HandleFunc("/widgets/{id:int}", func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusOK, map[string]any{"id": 7})
	}).Methods(http.MethodPut, http.MethodPatch).Name("widgets.update")
	api.HandleFunc("/widgets/{id:int}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete).Name("widgets.destroy")
	api.HandleFunc("/widgets/{id:int}/tags/{tag:slug}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet).Name("widgets.tag")
	api.HandleFunc("/widgets", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", "GET, POST")
	}).Methods(http.MethodOptions).Name("widgets.options")

	return r
}

func TestGeneratedDocumentIsValid(t *testing.T) {
	r := shopRouter()

	router, err := capture.NewMuxRouter(r, capture.Options{})
	require.NoError(t, err)

	c := capture.NewCapturer(router, []capture.APICallsBinding{{
		RoutesAliases: []string{"widgets.show", "widgets.update", "widgets.destroy", "widgets.tag"},
		Bindings: []capture.Binding{
			{In: capture.InQueryRoute, Name: "id", Value: "7"},
			{In: capture.InQueryRoute, Name: "tag", Value: "blue"},
		},
	}}, zerolog.Nop())

	reg := NewRegistry(nil)
	widgets := reg.Controller("Widgets.\n\nEverything about widgets.\n\n@OpenApiOperationTag widgets")
	widgets.Route("widgets.index").
		Doc("List widgets.\n\n@OpenApiExtraParameterRef #/components/parameters/Locale").
		Rules(rules.NewSet("page", "integer|min:1", "sort", "in:name,price", "q", "required|string|max:64"))
	widgets.Route("widgets.store").
		Doc("Create a widget.\n\n@OpenApiResponseSchemaRef #/components/schemas/Widget\n@OpenApiResponseDescription Created widget").
		Rules(rules.NewSet("name", "required|string|max:255", "price", "integer|min:0", "tags", "array", "active", "boolean"))
	widgets.Route("widgets.show").
		Doc("Show a widget.\n\n@param int $id Widget id\n@OpenApiDefaultResponseSchemaRef #/components/schemas/Error\n@OpenApiDefaultResponseDescription Unexpected error")
	widgets.Route("widgets.update").Rules(rules.NewSet("name", "sometimes|string"))
	widgets.Route("widgets.destroy").Rules(rules.NewSet("force", "boolean"))
	widgets.Route("widgets.tag")
	widgets.Route("widgets.options")

	components := &openapi.Components{
		Schemas:    openapi.NewMap[*openapi.RefOr[openapi.Schema]](),
		Parameters: openapi.NewMap[*openapi.RefOr[openapi.Parameter]](),
	}
	components.Schemas.Set("Widget", openapi.Inline(openapi.NewSchema(openapi.TypeObject)))
	components.Schemas.Set("Error", openapi.Inline(openapi.NewSchema(openapi.TypeObject)))
	components.Parameters.Set("Locale", openapi.Inline(&openapi.Parameter{
		Name: "locale",
		In:   openapi.InHeader,
		ParameterFields: openapi.ParameterFields{
			Schema: openapi.Inline(openapi.NewSchema(openapi.TypeString)),
		},
	}))

	routes, err := MuxRoutes(r)
	require.NoError(t, err)

	g := New(Config{Describer: reg, Capturer: c, StrictOperationIDs: true})
	require.NoError(t, g.ApplyBindings(Bindings{
		Info:       &openapi.Info{Title: "Shop", Version: "1.0.0"},
		Servers:    []*openapi.Server{{URL: "https://shop.example.com"}},
		Components: components,
	}))
	require.NoError(t, g.ProcessRoutes(t.Context(), FilterPrefix(routes, "v1")))

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if format == "json" {
				require.NoError(t, g.WriteJSON(&buf, true))
			} else {
				require.NoError(t, g.WriteYAML(&buf))
			}

			loader := openapi3.NewLoader()
			doc, err := loader.LoadFromData(buf.Bytes())
			require.NoError(t, err)
			require.NoError(t, doc.Validate(t.Context()))

			assert.Equal(t, "3.0.0", doc.OpenAPI)
			assert.Len(t, doc.Paths.Map(), 3)

			index := doc.Paths.Find("/v1/widgets").Get
			require.NotNil(t, index)
			assert.Equal(t, "index", index.OperationID)
			assert.NotNil(t, index.Parameters.GetByInAndName("query", "page"))
			assert.NotNil(t, index.Parameters.GetByInAndName("header", "locale"))

			tag := doc.Paths.Find("/v1/widgets/{id}/tags/{tag}").Get
			require.NotNil(t, tag)
			assert.Equal(t, "tag", tag.OperationID)

			assert.Contains(t, doc.Components.Examples, "WidgetsShowExampleResponse")
		})
	}
}
