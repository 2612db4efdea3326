// Package config loads the oasgen configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults
//  2. the YAML configuration file
//  3. OASGEN_* environment variables
//
// Environment names are the upper-cased key path joined with underscores,
// so OASGEN_LOG_LEVEL sets log.level and OASGEN_CAPTURE_BASE_URL sets
// capture.base_url.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/vitalvas/oasgen/capture"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OASGEN_"

// DefaultProfile is the profile selected when none is named.
const DefaultProfile = "default"

var (
	// ErrInvalidConfig is returned by Load when validation fails.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownProfile is returned by Profile for a name the
	// configuration does not define.
	ErrUnknownProfile = errors.New("unknown profile")
)

// Config is the complete tool configuration.
type Config struct {
	// Router is the capture router kind: mux, echo or http.
	Router string `koanf:"router" validate:"oneof=mux echo http"`

	// RoutesPrefix keeps only routes whose first path segment matches.
	RoutesPrefix string `koanf:"routes_prefix"`

	StrictOperationIDs bool `koanf:"strict_operation_ids"`
	ContinueOnError    bool `koanf:"continue_on_error"`

	Log      LogConfig          `koanf:"log"`
	Capture  CaptureConfig      `koanf:"capture"`
	Output   OutputConfig       `koanf:"output"`
	Serve    ServeConfig        `koanf:"serve"`
	Profiles map[string]Profile `koanf:"profiles" validate:"min=1,dive"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// CaptureConfig configures example capture.
type CaptureConfig struct {
	Enabled bool              `koanf:"enabled"`
	BaseURL string            `koanf:"base_url" validate:"omitempty,url"`
	Timeout time.Duration     `koanf:"timeout" validate:"gte=0"`
	Headers map[string]string `koanf:"headers"`
}

type OutputConfig struct {
	Path   string `koanf:"path"`
	Format string `koanf:"format" validate:"oneof=json yaml"`
	Indent bool   `koanf:"indent"`
}

// ServeConfig configures the docs server.
type ServeConfig struct {
	Listen   string `koanf:"listen" validate:"required"`
	BasePath string `koanf:"base_path" validate:"omitempty,startswith=/"`
	UI       string `koanf:"ui" validate:"oneof=swagger rapidoc redoc"`
}

// Profile is one named set of document and capture bindings.
type Profile struct {
	// OpenAPIBindings holds info, servers, security and components as
	// plain YAML values. See Bindings.
	OpenAPIBindings map[string]any `koanf:"openapi_bindings" validate:"required"`

	APICallsBindings []capture.APICallsBinding `koanf:"api_calls_bindings" validate:"dive"`

	// bindings is openapi_bindings as written in the file, with its
	// mapping order intact.
	bindings *bindingsNode
}

func defaults() map[string]any {
	return map[string]any{
		"router":               capture.KindMux,
		"routes_prefix":        "",
		"strict_operation_ids": false,
		"continue_on_error":    false,

		"log.level":  "info",
		"log.pretty": false,

		"capture.enabled":  true,
		"capture.base_url": "",
		"capture.timeout":  "5s",

		"output.path":   "",
		"output.format": "json",
		"output.indent": true,

		"serve.listen":    "127.0.0.1:8080",
		"serve.base_path": "/docs",
		"serve.ui":        "swagger",
	}
}

// Load reads path, which may be empty, and applies the environment on top.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defs := defaults()
	if err := k.Load(confmap.Provider(defs, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	var nodes map[string]*bindingsNode
	if path != "" {
		fp := file.Provider(path)
		if err := k.Load(fp, yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		data, err := fp.ReadBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		if nodes, err = profileBindings(data); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	keys := envKeys(defs)
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(name, value string) (string, any) {
			return envKey(keys, name), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for name, p := range cfg.Profiles {
		p.bindings = nodes[name]
		cfg.Profiles[name] = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKeys indexes the known key paths by their environment spelling.
func envKeys(defs map[string]any) map[string]string {
	keys := make(map[string]string, len(defs))
	for key := range defs {
		keys[strings.ReplaceAll(key, ".", "_")] = key
	}
	return keys
}

// envKey maps OASGEN_CAPTURE_BASE_URL to capture.base_url. Names that are
// not known keys split on every underscore.
func envKey(keys map[string]string, name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if key, ok := keys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "_", ".")
}

// Validate checks the configuration. The http router kind needs a
// capture base URL when capture is enabled.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Router == capture.KindHTTP && c.Capture.Enabled && c.Capture.BaseURL == "" {
		return fmt.Errorf("%w: capture.base_url is required for the %s router", ErrInvalidConfig, capture.KindHTTP)
	}

	for name, p := range c.Profiles {
		if err := capture.Validate(p.APICallsBindings); err != nil {
			return fmt.Errorf("%w: profile %q: %w", ErrInvalidConfig, name, err)
		}
	}

	return nil
}

// Profile returns the named profile. An empty name selects
// DefaultProfile.
func (c *Config) Profile(name string) (*Profile, error) {
	if name == "" {
		name = DefaultProfile
	}

	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}

	return &p, nil
}

// CaptureOptions returns the capture router options of c.
func (c *Config) CaptureOptions() capture.Options {
	return capture.Options{
		BaseURL: c.Capture.BaseURL,
		Headers: c.Capture.Headers,
		Timeout: c.Capture.Timeout,
	}
}
