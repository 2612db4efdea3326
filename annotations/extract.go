package annotations

import (
	"strconv"
	"strings"
)

// Recognized tag names.
const (
	OpenApiOperationId                = "OpenApiOperationId"
	OpenApiOperationTag               = "OpenApiOperationTag"
	OpenApiExtraParameterRef          = "OpenApiExtraParameterRef"
	OpenApiResponseSchemaRef          = "OpenApiResponseSchemaRef"
	OpenApiDefaultResponseSchemaRef   = "OpenApiDefaultResponseSchemaRef"
	OpenApiResponseDescription        = "OpenApiResponseDescription"
	OpenApiDefaultResponseDescription = "OpenApiDefaultResponseDescription"
	OpenApiResponseExceptedHTTPCode   = "OpenApiResponseExceptedHTTPCode"
	ApiDocsNoCall                     = "ApiDocsNoCall"

	// ParamTag documents a handler parameter: "@param int $id Widget id"
	// or "@param id int Widget id".
	ParamTag = "param"
)

// primitives are the type names recognized in the "name type" form of a
// param tag.
var primitives = map[string]bool{
	"int": true, "integer": true,
	"float": true, "double": true, "number": true,
	"bool": true, "boolean": true,
	"string": true,
}

// Param is a documented handler parameter.
type Param struct {
	Type        string
	Description string
}

// Annotations is what the generator reads from the controller and method
// documentation of a route.
type Annotations struct {
	OperationID string

	// Tags holds controller tags followed by method tags.
	Tags []string

	ExtraParameterRefs []string

	ResponseSchemaRef        string
	DefaultResponseSchemaRef string

	// Descriptions are nil when no tag sets them.
	ResponseDescription        *string
	DefaultResponseDescription *string

	// ExpectedStatus is the primary response status code override.
	ExpectedStatus string

	NoCall bool

	Params map[string]Param
}

// Extract reads the annotations of a route from its method block and the
// block of the controller declaring it. Either block may be nil.
func Extract(method, controller *DocBlock) Annotations {
	a := Annotations{
		Tags: append(operationTags(controller), operationTags(method)...),
	}

	if v, ok := method.First(OpenApiOperationId); ok {
		a.OperationID = v
	}

	for _, t := range method.TagsByName(OpenApiExtraParameterRef) {
		if t.Body != "" {
			a.ExtraParameterRefs = append(a.ExtraParameterRefs, t.Body)
		}
	}

	a.ResponseSchemaRef, _ = method.First(OpenApiResponseSchemaRef)
	a.DefaultResponseSchemaRef, _ = method.First(OpenApiDefaultResponseSchemaRef)

	if v, ok := method.First(OpenApiResponseDescription); ok {
		a.ResponseDescription = &v
	}
	if v, ok := method.First(OpenApiDefaultResponseDescription); ok {
		a.DefaultResponseDescription = &v
	}

	if v, ok := method.First(OpenApiResponseExceptedHTTPCode); ok {
		a.ExpectedStatus = strings.TrimSpace(v)
	}

	a.NoCall = method.Has(ApiDocsNoCall)

	for _, t := range method.TagsByName(ParamTag) {
		name, p, ok := parseParam(t.Body)
		if !ok {
			continue
		}
		if a.Params == nil {
			a.Params = make(map[string]Param)
		}
		a.Params[name] = p
	}

	return a
}

// Status returns ExpectedStatus as an integer, or 0 when it is not set or
// not numeric.
func (a Annotations) Status() int {
	n, err := strconv.Atoi(a.ExpectedStatus)
	if err != nil {
		return 0
	}
	return n
}

// operationTags reads the first operation tag line of a block. The body is
// a single tag or a bracketed list: "[widgets, admin]".
func operationTags(b *DocBlock) []string {
	body, ok := b.First(OpenApiOperationTag)
	if !ok {
		return nil
	}

	if !strings.Contains(body, "[") {
		if body == "" {
			return nil
		}
		return []string{body}
	}

	body = strings.NewReplacer("[", "", "]", "").Replace(body)

	var tags []string
	for _, t := range strings.Split(body, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}

func parseParam(body string) (string, Param, bool) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return "", Param{}, false
	}

	rest := func(n int) string {
		if len(fields) <= n {
			return ""
		}
		return strings.Join(fields[n:], " ")
	}

	switch {
	case strings.HasPrefix(fields[0], "$"):
		return fields[0][1:], Param{Description: rest(1)}, true

	case len(fields) > 1 && strings.HasPrefix(fields[1], "$"):
		return fields[1][1:], Param{Type: fields[0], Description: rest(2)}, true

	case len(fields) > 1 && primitives[strings.ToLower(fields[1])]:
		return fields[0], Param{Type: fields[1], Description: rest(2)}, true
	}

	return fields[0], Param{Description: rest(1)}, true
}
