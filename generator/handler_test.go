package generator

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/oasgen/mux"
)

func servedGenerator(t *testing.T) *Generator {
	t.Helper()

	g := newTestGenerator(t, Config{})
	require.NoError(t, g.ProcessRoutes(t.Context(), []Route{
		{Name: "widgets.show", Template: "/widgets/{id:int}", Methods: []string{http.MethodGet}},
	}))

	return g
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestHandle(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := mux.NewRouter()
		servedGenerator(t).Handle(r, "/docs/", nil)

		w := get(t, r, "/docs/openapi.json")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `"operationId": "show"`)

		w = get(t, r, "/docs/openapi.yaml")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-yaml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "operationId: show")

		for _, path := range []string{"/docs", "/docs/"} {
			w = get(t, r, path)
			require.Equal(t, http.StatusOK, w.Code, path)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), "swagger-ui-bundle.js")
			assert.Contains(t, w.Body.String(), `url: "/docs/openapi.json"`)
			assert.Contains(t, w.Body.String(), "<title>Shop</title>")
		}
	})

	t.Run("root base path", func(t *testing.T) {
		r := mux.NewRouter()
		servedGenerator(t).Handle(r, "", nil)

		assert.Equal(t, http.StatusOK, get(t, r, "/openapi.json").Code)
		assert.Equal(t, http.StatusOK, get(t, r, "/").Code)
	})

	t.Run("ui variants", func(t *testing.T) {
		tests := []struct {
			ui       DocsUI
			expected string
		}{
			{DocsRapiDoc, `<rapi-doc spec-url="/docs/openapi.json"`},
			{DocsRedoc, `<redoc spec-url="/docs/openapi.json"`},
		}

		for _, tt := range tests {
			r := mux.NewRouter()
			servedGenerator(t).Handle(r, "/docs", &HandleConfig{UI: tt.ui, Title: "Shop <API>"})

			body := get(t, r, "/docs").Body.String()
			assert.Contains(t, body, tt.expected)
			assert.Contains(t, body, "<title>Shop &lt;API&gt;</title>")
		}
	})

	t.Run("custom filenames", func(t *testing.T) {
		r := mux.NewRouter()
		servedGenerator(t).Handle(r, "/docs", &HandleConfig{
			JSONFilename: "-",
			YAMLFilename: "/spec.yaml",
		})

		assert.Equal(t, http.StatusNotFound, get(t, r, "/docs/openapi.json").Code)
		assert.Equal(t, http.StatusOK, get(t, r, "/spec.yaml").Code)
		assert.Contains(t, get(t, r, "/docs").Body.String(), `url: "/spec.yaml"`)
	})

	t.Run("docs disabled", func(t *testing.T) {
		r := mux.NewRouter()
		servedGenerator(t).Handle(r, "/docs", &HandleConfig{DisableDocs: true})

		assert.Equal(t, http.StatusOK, get(t, r, "/docs/openapi.json").Code)
		assert.Equal(t, http.StatusNotFound, get(t, r, "/docs").Code)
	})

	t.Run("swagger ui options", func(t *testing.T) {
		r := mux.NewRouter()
		servedGenerator(t).Handle(r, "/docs", &HandleConfig{
			SwaggerUIConfig: map[string]any{"deepLinking": true, "docExpansion": "none"},
		})

		assert.Contains(t, get(t, r, "/docs").Body.String(),
			`dom_id: "#swagger-ui", deepLinking: true, docExpansion: "none"`)
	})

	t.Run("missing info", func(t *testing.T) {
		r := mux.NewRouter()
		New(Config{}).Handle(r, "/docs", nil)

		assert.Equal(t, http.StatusInternalServerError, get(t, r, "/docs/openapi.json").Code)
	})
}

func TestParseDocsUI(t *testing.T) {
	assert.Equal(t, DocsRapiDoc, ParseDocsUI("RapiDoc"))
	assert.Equal(t, DocsRedoc, ParseDocsUI("redoc"))
	assert.Equal(t, DocsSwaggerUI, ParseDocsUI("swagger"))
	assert.Equal(t, DocsSwaggerUI, ParseDocsUI(""))
}
