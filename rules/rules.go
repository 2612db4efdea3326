// Package rules translates pipe-delimited validation rule strings, such as
// "required|string|max:255", into OpenAPI schemas.
//
// Each field carries its own rule string. Translate folds the tokens of one
// field left to right into a single Schema; ObjectSchema does the same for
// every field of a Set and collects the required ones.
package rules

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vitalvas/oasgen/openapi"
)

var (
	// ErrMissingParameter is returned when a rule that needs a parameter,
	// such as min or max, has none.
	ErrMissingParameter = errors.New("rule parameter is missing")

	// ErrTypeRequired is returned when a type-dependent rule is applied
	// before any rule established the field type.
	ErrTypeRequired = errors.New("rule requires a type to be declared first")

	// ErrInvalidParameter is returned when a rule parameter cannot be
	// parsed.
	ErrInvalidParameter = errors.New("invalid rule parameter")
)

// RequiredRule is the token marking a field as required.
const RequiredRule = "required"

// DateDescription is attached to schemas produced by the date rule. The
// rule only guarantees the value is parseable as a date, not that it
// follows a particular format.
const DateDescription = "Must be a date string the application's date parser accepts."

// formats maps string-typed rules to the format they set.
var formats = map[string]string{
	"uuid":     "uuid",
	"email":    "email",
	"password": "password",
	"strength": "password",
	"url":      "url",
}

// Parse splits a rule string on "|" and drops empty tokens.
func Parse(rules string) []string {
	var tokens []string
	for _, tok := range strings.Split(rules, "|") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	return tokens
}

// HasRule reports whether tokens contain the bare rule name.
func HasRule(tokens []string, name string) bool {
	return slices.ContainsFunc(tokens, func(tok string) bool {
		n, _, _ := strings.Cut(tok, ":")
		return n == name
	})
}

// Translate folds the rule tokens of field into a schema. Unknown rules
// are ignored. Errors name the field and the offending rule.
func Translate(field string, tokens []string) (*openapi.Schema, error) {
	schema := &openapi.Schema{}

	for _, tok := range tokens {
		name, raw, hasParams := strings.Cut(tok, ":")

		var params []string
		if hasParams && raw != "" {
			params = strings.Split(raw, ",")
		}

		switch name {
		case "integer":
			schema.Type = openapi.TypeInteger
		case "boolean":
			schema.Type = openapi.TypeBoolean
		case "string":
			schema.Type = openapi.TypeString

		case "uuid", "email", "password", "strength", "url":
			schema.Type = openapi.TypeString
			schema.Format = formats[name]

		case "min", "max":
			if err := applyBound(schema, field, name, params); err != nil {
				return nil, err
			}

		case "in":
			if len(params) == 0 {
				continue
			}
			if schema.Type == "" {
				schema.Type = openapi.TypeString
			}
			schema.Enum = make([]any, len(params))
			for i, p := range params {
				schema.Enum[i] = p
			}

		case "date":
			schema.Type = openapi.TypeString
			schema.Description = DateDescription
		}
	}

	return schema, nil
}

// applyBound handles min and max. For strings they bound the length, for
// integers the value; other types ignore them.
func applyBound(schema *openapi.Schema, field, rule string, params []string) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: field %q, rule %q", ErrMissingParameter, field, rule)
	}

	switch schema.Type {
	case "":
		return fmt.Errorf("%w: field %q, rule %q", ErrTypeRequired, field, rule)
	case openapi.TypeString, openapi.TypeInteger:
	default:
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(params[0]))
	if err != nil {
		return fmt.Errorf("%w: field %q, rule %q: %q is not an integer", ErrInvalidParameter, field, rule, params[0])
	}

	switch {
	case schema.Type == openapi.TypeString && rule == "min":
		schema.MinLength = &n
	case schema.Type == openapi.TypeString:
		schema.MaxLength = &n
	case rule == "min":
		schema.Minimum = openapi.Ptr(float64(n))
	default:
		schema.Maximum = openapi.Ptr(float64(n))
	}

	return nil
}
