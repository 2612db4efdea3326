package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/vitalvas/oasgen/mux"
)

// DocsUI selects the interactive documentation page.
type DocsUI int

const (
	DocsSwaggerUI DocsUI = iota
	DocsRapiDoc
	DocsRedoc
)

// ParseDocsUI maps a UI name to a DocsUI. Unknown names select Swagger UI.
func ParseDocsUI(name string) DocsUI {
	switch strings.ToLower(name) {
	case "rapidoc":
		return DocsRapiDoc
	case "redoc":
		return DocsRedoc
	}

	return DocsSwaggerUI
}

// HandleConfig configures the endpoints registered by Handle.
type HandleConfig struct {
	// UI selects the interactive docs UI (default: DocsSwaggerUI).
	UI DocsUI

	// Title overrides the HTML page title (default: info.title).
	Title string

	// JSONFilename is the path of the JSON endpoint (default:
	// "openapi.json"). Relative paths are joined with the base path;
	// absolute paths are used as-is. Set to "-" to disable.
	JSONFilename string

	// YAMLFilename is the path of the YAML endpoint (default:
	// "openapi.yaml"). Same rules as JSONFilename.
	YAMLFilename string

	// DisableDocs disables the HTML docs page.
	DisableDocs bool

	// SwaggerUIConfig holds extra SwaggerUIBundle options, rendered in key
	// order after url and dom_id.
	SwaggerUIConfig map[string]any
}

func (cfg HandleConfig) jsonFilename() string {
	if cfg.JSONFilename == "" {
		return "openapi.json"
	}
	return cfg.JSONFilename
}

func (cfg HandleConfig) yamlFilename() string {
	if cfg.YAMLFilename == "" {
		return "openapi.yaml"
	}
	return cfg.YAMLFilename
}

func resolvePath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}
	if basePath == "" {
		return "/" + filename
	}
	return basePath + "/" + filename
}

// Handle serves the document on r:
//
//	<basePath>/            interactive HTML docs (unless DisableDocs)
//	<JSONFilename path>    document as JSON (unless "-")
//	<YAMLFilename path>    document as YAML (unless "-")
//
// The document is encoded once, on first request; routes must be
// processed before serving. A nil cfg selects the defaults.
func (g *Generator) Handle(r *mux.Router, basePath string, cfg *HandleConfig) {
	if cfg == nil {
		cfg = &HandleConfig{}
	}
	basePath = strings.TrimRight(basePath, "/")

	var (
		once     sync.Once
		jsonData []byte
		yamlData []byte
		encErr   error
	)
	encode := func() {
		var jb, yb bytes.Buffer
		if encErr = g.WriteJSON(&jb, true); encErr != nil {
			return
		}
		if encErr = g.WriteYAML(&yb); encErr != nil {
			return
		}
		jsonData, yamlData = jb.Bytes(), yb.Bytes()
	}

	serve := func(contentType string, data *[]byte) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			once.Do(encode)
			if encErr != nil {
				http.Error(w, "failed to encode OpenAPI document", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(*data)
		}
	}

	var jsonPath, yamlPath string

	if f := cfg.jsonFilename(); f != "-" {
		jsonPath = resolvePath(basePath, f)
		r.HandleFunc(jsonPath, serve("application/json", &jsonData)).Methods(http.MethodGet)
	}

	if f := cfg.yamlFilename(); f != "-" {
		yamlPath = resolvePath(basePath, f)
		r.HandleFunc(yamlPath, serve("application/x-yaml", &yamlData)).Methods(http.MethodGet)
	}

	specURL := jsonPath
	if specURL == "" {
		specURL = yamlPath
	}

	if cfg.DisableDocs || specURL == "" {
		return
	}

	page := []byte(g.docsPage(cfg, specURL))
	docs := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}

	if basePath == "" {
		r.HandleFunc("/", docs).Methods(http.MethodGet)
		return
	}
	r.HandleFunc(basePath, docs).Methods(http.MethodGet)
	r.HandleFunc(basePath+"/", docs).Methods(http.MethodGet)
}

func (g *Generator) docsPage(cfg *HandleConfig, specURL string) string {
	title := cfg.Title
	if title == "" && g.doc.Info != nil {
		title = g.doc.Info.Title
	}

	switch cfg.UI {
	case DocsRapiDoc:
		return rapidocTemplate(title, specURL)
	case DocsRedoc:
		return redocTemplate(title, specURL)
	}

	return swaggerUITemplate(title, specURL, cfg.SwaggerUIConfig)
}

func swaggerUITemplate(title, specPath string, config map[string]any) string {
	var extra strings.Builder
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, err := json.Marshal(config[k])
		if err != nil {
			continue
		}
		fmt.Fprintf(&extra, ", %s: %s", k, v)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"%s});
</script>
</body>
</html>`, html.EscapeString(title), specPath, extra.String())
}

func rapidocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<script type="module" src="https://unpkg.com/rapidoc/dist/rapidoc-min.js"></script>
</head>
<body>
<rapi-doc spec-url=%q render-style="read"></rapi-doc>
</body>
</html>`, html.EscapeString(title), specPath)
}

func redocTemplate(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
</head>
<body>
<redoc spec-url=%q></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`, html.EscapeString(title), specPath)
}
