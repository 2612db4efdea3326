package generator

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/oasgen/rules"
)

// ErrInvalidManifest is returned by LoadManifest for manifests that fail
// validation.
var ErrInvalidManifest = errors.New("invalid route manifest")

// Manifest is a route table read from YAML, for applications whose router
// cannot be introspected in process:
//
//	routes:
//	  - name: widgets.store
//	    path: /v1/widgets
//	    methods: [POST]
//	    controller_doc: Widgets.
//	    doc: |
//	      Create a widget.
//	      @OpenApiOperationTag widgets
//	    rules:
//	      name: required|string|max:255
type Manifest struct {
	Entries []ManifestRoute `yaml:"routes" validate:"dive"`
}

// ManifestRoute is one route of a manifest.
type ManifestRoute struct {
	Name          string    `yaml:"name"`
	Path          string    `yaml:"path" validate:"required,startswith=/"`
	Methods       []string  `yaml:"methods" validate:"min=1,dive,oneof=GET PUT POST DELETE OPTIONS HEAD PATCH TRACE"`
	Handler       string    `yaml:"handler"`
	Doc           string    `yaml:"doc"`
	ControllerDoc string    `yaml:"controller_doc"`
	Rules         rules.Set `yaml:"rules"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return ParseManifest(data)
}

// ParseManifest decodes and validates manifest YAML. Methods are
// upper-cased before validation.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	for i := range m.Entries {
		for j, method := range m.Entries[i].Methods {
			m.Entries[i].Methods[j] = strings.ToUpper(strings.TrimSpace(method))
		}
	}

	if err := validator.New().Struct(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	return &m, nil
}

// Routes returns the route descriptors of the manifest in file order.
func (m *Manifest) Routes() []Route {
	routes := make([]Route, 0, len(m.Entries))
	for _, e := range m.Entries {
		routes = append(routes, Route{
			Name:     e.Name,
			Template: e.Path,
			Methods:  e.Methods,
			Handler:  e.Handler,
		})
	}

	return routes
}

// Register adds the documentation and rules of every named manifest route
// to reg. Unnamed routes can only be described through their handler.
func (m *Manifest) Register(reg *Registry) {
	for _, e := range m.Entries {
		if e.Name == "" {
			continue
		}

		d := reg.Route(e.Name)
		if e.Doc != "" {
			d.Doc(e.Doc)
		}
		if e.ControllerDoc != "" {
			d.ControllerDoc(e.ControllerDoc)
		}
		if e.Rules.Len() > 0 {
			d.Rules(e.Rules)
		}
	}
}
