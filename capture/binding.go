package capture

import (
	"fmt"
	"slices"
	"strings"
)

// Binding locations.
const (
	// InQueryRoute fills a {name} placeholder of the route URI.
	InQueryRoute = "query-route"

	// InQueryInjected appends name=value to the query string.
	InQueryInjected = "query-injected"
)

// Binding is one substitution applied to a route URI before calling it.
type Binding struct {
	In    string `yaml:"in" koanf:"in" validate:"required,oneof=query-route query-injected"`
	Name  string `yaml:"name" koanf:"name" validate:"required"`
	Value string `yaml:"value" koanf:"value"`
}

// APICallsBinding applies Bindings to the routes named in RoutesAliases.
type APICallsBinding struct {
	RoutesAliases []string  `yaml:"routes_aliases" koanf:"routes_aliases" validate:"required,min=1"`
	Bindings      []Binding `yaml:"bindings" koanf:"bindings" validate:"dive"`
}

// Validate checks the binding locations and names.
func Validate(bindings []APICallsBinding) error {
	for i, b := range bindings {
		for j, bind := range b.Bindings {
			if bind.In != InQueryRoute && bind.In != InQueryInjected {
				return fmt.Errorf("%w: bindings[%d][%d]: unknown location %q", ErrInvalidBinding, i, j, bind.In)
			}
			if bind.Name == "" {
				return fmt.Errorf("%w: bindings[%d][%d]: name is empty", ErrInvalidBinding, i, j)
			}
		}
	}

	return nil
}

// Resolve applies the bindings of routeName to uri. Route bindings replace
// {name} placeholders; injected bindings are appended as a query string in
// declaration order, a repeated name keeping its first position. For both
// kinds the last value of a repeated name wins. Values are used verbatim.
func Resolve(uri, routeName string, bindings []APICallsBinding) string {
	var (
		names  []string
		values = make(map[string]string)
		route  = make(map[string]string)
		order  []string
	)

	for _, b := range bindings {
		if !slices.Contains(b.RoutesAliases, routeName) {
			continue
		}

		for _, bind := range b.Bindings {
			switch bind.In {
			case InQueryRoute:
				if _, seen := route[bind.Name]; !seen {
					order = append(order, bind.Name)
				}
				route[bind.Name] = bind.Value
			case InQueryInjected:
				if _, seen := values[bind.Name]; !seen {
					names = append(names, bind.Name)
				}
				values[bind.Name] = bind.Value
			}
		}
	}

	for _, name := range order {
		uri = strings.ReplaceAll(uri, "{"+name+"}", route[name])
	}

	if len(names) == 0 {
		return uri
	}

	query := make([]string, len(names))
	for i, name := range names {
		query[i] = name + "=" + values[name]
	}

	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}

	return uri + sep + strings.Join(query, "&")
}
