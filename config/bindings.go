package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/oasgen/generator"
)

// Bindings decodes the document bindings of p:
//
//	openapi_bindings:
//	  info: {title: Shop, version: 1.0.0}
//	  servers: [{url: https://shop.example.com}]
//	  security: [{bearer: []}]
//	  components:
//	    securitySchemes:
//	      bearer: {type: http, scheme: bearer}
//
// Bindings read from a configuration file keep the order in which paths,
// components and properties were written there.
func (p *Profile) Bindings() (generator.Bindings, error) {
	var b generator.Bindings

	if p.bindings != nil {
		if err := p.bindings.Decode(&b); err != nil {
			return b, fmt.Errorf("%w: openapi bindings: %w", ErrInvalidConfig, err)
		}
	} else {
		data, err := yaml.Marshal(p.OpenAPIBindings)
		if err != nil {
			return b, fmt.Errorf("failed to encode openapi bindings: %w", err)
		}

		if err := yaml.Unmarshal(data, &b); err != nil {
			return b, fmt.Errorf("%w: openapi bindings: %w", ErrInvalidConfig, err)
		}
	}

	if b.Info == nil {
		return b, fmt.Errorf("%w: openapi bindings: %w", ErrInvalidConfig, generator.ErrMissingInfo)
	}

	return b, nil
}

// bindingsNode is a raw openapi_bindings mapping.
type bindingsNode = yaml.Node

// profileBindings finds profiles.<name>.openapi_bindings in a YAML
// configuration file.
func profileBindings(data []byte) (map[string]*bindingsNode, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	nodes := make(map[string]*bindingsNode)
	if len(doc.Content) == 0 {
		return nodes, nil
	}

	profiles := mappingValue(doc.Content[0], "profiles")
	if profiles == nil || profiles.Kind != yaml.MappingNode {
		return nodes, nil
	}

	for i := 0; i+1 < len(profiles.Content); i += 2 {
		if n := mappingValue(profiles.Content[i+1], "openapi_bindings"); n != nil {
			nodes[profiles.Content[i].Value] = n
		}
	}

	return nodes, nil
}

// mappingValue returns the value under key in a mapping node, following
// aliases.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			v := n.Content[i+1]
			for v.Kind == yaml.AliasNode {
				v = v.Alias
			}
			return v
		}
	}

	return nil
}
