package openapi

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ToYAML converts v to a YAML node tree. The JSON serialization is the
// source of truth, so attribute order and extension placement are the same
// in both encodings.
func ToYAML(v any) (*yaml.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	// JSON input decodes with flow style and quoted strings; reset them so
	// the encoder picks block style and plain scalars where it can.
	resetStyle(&doc)

	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return doc.Content[0], nil
	}

	return &doc, nil
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

// MarshalYAML renders v as a YAML document indented by two spaces.
func MarshalYAML(v any) ([]byte, error) {
	node, err := ToYAML(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
