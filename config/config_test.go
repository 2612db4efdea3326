package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/oasgen/capture"
	"github.com/vitalvas/oasgen/generator"
)

const shopConfig = `router: mux
routes_prefix: v1
log:
  level: debug
capture:
  timeout: 2s
  headers:
    Authorization: Bearer test
output:
  path: openapi.yaml
  format: yaml
profiles:
  default:
    openapi_bindings:
      info:
        title: Shop
        version: 1.0.0
      servers:
        - url: https://shop.example.com
      security:
        - bearer: []
      components:
        securitySchemes:
          bearer:
            type: http
            scheme: bearer
    api_calls_bindings:
      - routes_aliases: [widgets.show, widgets.update]
        bindings:
          - in: query-route
            name: id
            value: "7"
  staging:
    openapi_bindings:
      info:
        title: Shop (staging)
        version: 1.0.0-rc1
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "oasgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, shopConfig))
	require.NoError(t, err)

	assert.Equal(t, capture.KindMux, cfg.Router)
	assert.Equal(t, "v1", cfg.RoutesPrefix)
	assert.False(t, cfg.StrictOperationIDs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)

	assert.True(t, cfg.Capture.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, capture.Options{
		Headers: map[string]string{"Authorization": "Bearer test"},
		Timeout: 2 * time.Second,
	}, cfg.CaptureOptions())

	assert.Equal(t, "openapi.yaml", cfg.Output.Path)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Output.Indent)

	assert.Equal(t, "127.0.0.1:8080", cfg.Serve.Listen)
	assert.Equal(t, "/docs", cfg.Serve.BasePath)
	assert.Equal(t, "swagger", cfg.Serve.UI)

	p, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, []capture.APICallsBinding{{
		RoutesAliases: []string{"widgets.show", "widgets.update"},
		Bindings:      []capture.Binding{{In: capture.InQueryRoute, Name: "id", Value: "7"}},
	}}, p.APICallsBindings)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, shopConfig)

	t.Setenv("OASGEN_LOG_LEVEL", "warn")
	t.Setenv("OASGEN_LOG_PRETTY", "true")
	t.Setenv("OASGEN_ROUTES_PREFIX", "v2")
	t.Setenv("OASGEN_STRICT_OPERATION_IDS", "true")
	t.Setenv("OASGEN_CAPTURE_TIMEOUT", "250ms")
	t.Setenv("OASGEN_SERVE_LISTEN", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "v2", cfg.RoutesPrefix)
	assert.True(t, cfg.StrictOperationIDs)
	assert.Equal(t, 250*time.Millisecond, cfg.Capture.Timeout)
	assert.Equal(t, ":9090", cfg.Serve.Listen)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"no profiles", "router: mux\n"},
		{"unknown router", strings.Replace(shopConfig, "router: mux", "router: chi", 1)},
		{"unknown output format", strings.Replace(shopConfig, "format: yaml", "format: toml", 1)},
		{"http router without base url", strings.Replace(shopConfig, "router: mux", "router: http", 1)},
		{"bad binding location", `profiles:
  default:
    openapi_bindings: {info: {title: Shop, version: "1"}}
    api_calls_bindings:
      - routes_aliases: [widgets.show]
        bindings: [{in: body, name: id, value: "1"}]
`},
		{"binding without routes", `profiles:
  default:
    openapi_bindings: {info: {title: Shop, version: "1"}}
    api_calls_bindings:
      - bindings: [{in: query-route, name: id, value: "1"}]
`},
		{"profile without bindings", "profiles:\n  default:\n    api_calls_bindings: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.config))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("http router with base url", func(t *testing.T) {
		t.Setenv("OASGEN_CAPTURE_BASE_URL", "http://localhost:8080")

		cfg, err := Load(writeConfig(t, strings.Replace(shopConfig, "router: mux", "router: http", 1)))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.Capture.BaseURL)
	})
}

func TestProfile(t *testing.T) {
	cfg, err := Load(writeConfig(t, shopConfig))
	require.NoError(t, err)

	t.Run("named", func(t *testing.T) {
		p, err := cfg.Profile("staging")
		require.NoError(t, err)

		b, err := p.Bindings()
		require.NoError(t, err)
		assert.Equal(t, "Shop (staging)", b.Info.Title)
		assert.Nil(t, b.Servers)
		assert.Nil(t, b.Components)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := cfg.Profile("production")
		assert.ErrorIs(t, err, ErrUnknownProfile)
	})

	t.Run("bindings", func(t *testing.T) {
		p, err := cfg.Profile(DefaultProfile)
		require.NoError(t, err)

		b, err := p.Bindings()
		require.NoError(t, err)
		assert.Equal(t, "Shop", b.Info.Title)
		assert.Equal(t, "1.0.0", b.Info.Version)
		require.Len(t, b.Servers, 1)
		assert.Equal(t, "https://shop.example.com", b.Servers[0].URL)
		assert.Len(t, b.Security, 1)
		assert.Contains(t, b.Security[0], "bearer")
		require.NotNil(t, b.Components)
		assert.Equal(t, []string{"bearer"}, b.Components.SecuritySchemes.Keys())

		g := generator.New(generator.Config{})
		require.NoError(t, g.ApplyBindings(b))
		assert.Equal(t, "Shop", g.Document().Info.Title)
	})

	t.Run("bindings keep file order", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `profiles:
  default:
    openapi_bindings:
      info: {title: Shop, version: 1.0.0}
      components:
        schemas:
          Zeta: {type: string}
          v1.Widget:
            type: object
            properties:
              name: {type: string}
              id: {type: integer}
          Alpha: {type: string}
`))
		require.NoError(t, err)

		p, err := cfg.Profile("")
		require.NoError(t, err)

		b, err := p.Bindings()
		require.NoError(t, err)
		assert.Equal(t, []string{"Zeta", "v1.Widget", "Alpha"}, b.Components.Schemas.Keys())

		widget, ok := b.Components.Schemas.Get("v1.Widget")
		require.True(t, ok)
		assert.Equal(t, []string{"name", "id"}, widget.Value().Properties.Keys())
	})

	t.Run("missing info", func(t *testing.T) {
		p := &Profile{OpenAPIBindings: map[string]any{"servers": []any{}}}
		_, err := p.Bindings()
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, generator.ErrMissingInfo)
	})
}
