package mux

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// macros maps the names usable in {name:macro} to their patterns.
var macros = map[string]string{
	"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
	"int":      `[0-9]+`,
	"float":    `[0-9]*\.?[0-9]+`,
	"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
	"alpha":    `[a-zA-Z]+`,
	"alphanum": `[a-zA-Z0-9]+`,
	"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
	"hex":      `[0-9a-fA-F]+`,
	// RFC 1035/1123 labels.
	"domain": `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`,
}

// IsMacro reports whether name is a known pattern macro.
func IsMacro(name string) bool {
	_, ok := macros[name]
	return ok
}

// SplitVar splits the inside of a template variable, "id:uuid", into the
// variable name and its pattern. The pattern is empty when none is given.
func SplitVar(v string) (name, pattern string) {
	name, pattern, _ = strings.Cut(v, ":")
	return name, pattern
}

// pathRegexp is a compiled path template.
type pathRegexp struct {
	template string
	regexp   *regexp.Regexp
	varsN    []string
	prefix   bool
}

// newPathRegexp compiles a path template such as "/users/{id:int}". With
// prefix set the expression is left unanchored at the end.
func newPathRegexp(tpl string, prefix bool) (*pathRegexp, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, err
	}

	var (
		pattern bytes.Buffer
		varsN   []string
		end     int
	)

	pattern.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		raw := tpl[end:idxs[i]]
		end = idxs[i+1]

		name, patt := SplitVar(tpl[idxs[i]+1 : end-1])
		if name == "" {
			return nil, fmt.Errorf("mux: missing name in %q from %q", tpl[idxs[i]:end], tpl)
		}

		switch {
		case patt == "":
			patt = "[^/]+"
		case IsMacro(patt):
			patt = macros[patt]
		}

		if _, err := regexp.Compile(patt); err != nil {
			return nil, fmt.Errorf("mux: invalid pattern %q in variable %q: %w", patt, name, err)
		}

		for _, seen := range varsN {
			if seen == name {
				return nil, fmt.Errorf("mux: duplicated route variable %q", name)
			}
		}

		fmt.Fprintf(&pattern, "%s(%s)", regexp.QuoteMeta(raw), patt)
		varsN = append(varsN, name)
	}

	pattern.WriteString(regexp.QuoteMeta(tpl[end:]))
	if !prefix {
		pattern.WriteByte('$')
	}

	reg, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, err
	}

	return &pathRegexp{
		template: tpl,
		regexp:   reg,
		varsN:    varsN,
		prefix:   prefix,
	}, nil
}

// vars extracts the variables of a matching path.
func (p *pathRegexp) vars(path string) (map[string]string, bool) {
	matches := p.regexp.FindStringSubmatch(path)
	if matches == nil {
		return nil, false
	}
	if len(p.varsN) == 0 {
		return nil, true
	}

	vars := make(map[string]string, len(p.varsN))
	for i, name := range p.varsN {
		vars[name] = matches[i+1]
	}

	return vars, true
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("mux: unbalanced braces in %q", s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("mux: unbalanced braces in %q", s)
	}
	return idxs, nil
}

// TemplateVar is one placeholder of a path template.
type TemplateVar struct {
	Name    string
	Pattern string
}

// ParseTemplate strips the patterns from a path template and returns its
// variables in order:
//
//	/users/{id:uuid}/posts/{slug}  ->  /users/{id}/posts/{slug}
func ParseTemplate(tpl string) (string, []TemplateVar, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return "", nil, err
	}

	var (
		out  strings.Builder
		vars []TemplateVar
		end  int
	)

	for i := 0; i < len(idxs); i += 2 {
		out.WriteString(tpl[end:idxs[i]])
		end = idxs[i+1]

		name, patt := SplitVar(tpl[idxs[i]+1 : end-1])
		vars = append(vars, TemplateVar{Name: name, Pattern: patt})
		out.WriteString("{" + name + "}")
	}

	out.WriteString(tpl[end:])

	return out.String(), vars, nil
}
