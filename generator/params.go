package generator

import (
	"strings"

	"github.com/vitalvas/oasgen/annotations"
	"github.com/vitalvas/oasgen/mux"
	"github.com/vitalvas/oasgen/openapi"
)

// macroTypeMap maps mux route macros to OpenAPI type and format.
var macroTypeMap = map[string][2]string{
	"uuid":     {openapi.TypeString, "uuid"},
	"int":      {openapi.TypeInteger, ""},
	"float":    {openapi.TypeNumber, ""},
	"slug":     {openapi.TypeString, ""},
	"alpha":    {openapi.TypeString, ""},
	"alphanum": {openapi.TypeString, ""},
	"date":     {openapi.TypeString, "date"},
	"hex":      {openapi.TypeString, ""},
	"domain":   {openapi.TypeString, "hostname"},
}

// docTypeMap maps @param types to OpenAPI types.
var docTypeMap = map[string]string{
	"int":     openapi.TypeInteger,
	"int32":   openapi.TypeInteger,
	"int64":   openapi.TypeInteger,
	"integer": openapi.TypeInteger,
	"uint":    openapi.TypeInteger,
	"float":   openapi.TypeNumber,
	"float32": openapi.TypeNumber,
	"float64": openapi.TypeNumber,
	"double":  openapi.TypeNumber,
	"number":  openapi.TypeNumber,
	"bool":    openapi.TypeBoolean,
	"boolean": openapi.TypeBoolean,
	"string":  openapi.TypeString,
}

// pathParameters builds the required path parameters of uri. The types
// come from the macros of the raw template; a documented @param type
// replaces them and a documented description is attached.
func pathParameters(uri, template string, params map[string]annotations.Param) []*openapi.Parameter {
	_, vars, err := mux.ParseTemplate(uri)
	if err != nil || len(vars) == 0 {
		return nil
	}

	patterns := make(map[string]string)
	if _, raw, err := mux.ParseTemplate(template); err == nil {
		for _, v := range raw {
			patterns[v.Name] = v.Pattern
		}
	}

	out := make([]*openapi.Parameter, 0, len(vars))
	for _, v := range vars {
		p := &openapi.Parameter{Name: v.Name, In: openapi.InPath}
		p.Required = openapi.Ptr(true)
		p.Schema = openapi.Inline(macroSchema(patterns[v.Name]))

		if doc, ok := params[v.Name]; ok {
			if typ, ok := docTypeMap[strings.ToLower(doc.Type)]; ok {
				p.Schema = openapi.Inline(openapi.NewSchema(typ))
			}
			p.Description = strings.TrimSpace(doc.Description)
		}

		out = append(out, p)
	}

	return out
}

// macroSchema returns the schema of a placeholder pattern. Plain
// placeholders and custom regular expressions are strings.
func macroSchema(pattern string) *openapi.Schema {
	info, ok := macroTypeMap[pattern]
	if !ok {
		return openapi.NewSchema(openapi.TypeString)
	}

	s := openapi.NewSchema(info[0])
	s.Format = info[1]

	return s
}
