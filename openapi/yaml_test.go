package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const petstore = `
openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
  x-logo: /logo.png
servers:
  - url: https://{env}.example.com
    variables:
      env:
        default: api
        enum: [api, staging]
paths:
  /pets/{id}:
    get:
      operationId: showPet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: Success
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
              examples:
                ShowPetExampleResponse:
                  $ref: '#/components/examples/ShowPetExampleResponse'
        default:
          description: Error
components:
  schemas:
    Pet:
      type: object
      required: [id]
      additionalProperties: false
      properties:
        id:
          type: integer
        tags:
          type: array
          items:
            type: string
  securitySchemes:
    oauth:
      type: oauth2
      flows:
        authorizationCode:
          authorizationUrl: https://example.com/auth
          tokenUrl: https://example.com/token
          scopes:
            read: Read access
`

func TestDecodeYAML(t *testing.T) {
	var doc OpenAPI
	require.NoError(t, yaml.Unmarshal([]byte(petstore), &doc))

	t.Run("info and extensions", func(t *testing.T) {
		assert.Equal(t, "Petstore", doc.Info.Title)
		v, ok := doc.Info.Extensions().Get("logo")
		require.True(t, ok)
		assert.Equal(t, "/logo.png", v)
	})

	t.Run("server variables", func(t *testing.T) {
		require.Len(t, doc.Servers, 1)
		env, ok := doc.Servers[0].Variables.Get("env")
		require.True(t, ok)
		assert.Equal(t, "api", env.Default)
		assert.Equal(t, []string{"api", "staging"}, env.Enum)
	})

	t.Run("operation", func(t *testing.T) {
		item, ok := doc.Paths.Get("/pets/{id}")
		require.True(t, ok)
		op := item.Operation("GET")
		require.NotNil(t, op)
		assert.Equal(t, "showPet", op.OperationID)
		assert.Equal(t, []string{"200", "default"}, op.Responses.Keys())

		require.Len(t, op.Parameters, 1)
		p := op.Parameters[0].Value()
		require.NotNil(t, p)
		assert.Equal(t, InPath, p.In)
		assert.True(t, *p.Required)
	})

	t.Run("references", func(t *testing.T) {
		item, _ := doc.Paths.Get("/pets/{id}")
		resp, _ := item.Get.Responses.Get("200")
		mt, ok := resp.Value().Content.Get("application/json")
		require.True(t, ok)
		assert.True(t, mt.Schema.IsRef())
		assert.Equal(t, "#/components/schemas/Pet", mt.Schema.Reference().Ref)

		ex, ok := mt.Examples.Get("ShowPetExampleResponse")
		require.True(t, ok)
		assert.Equal(t, "#/components/examples/ShowPetExampleResponse", ex.Reference().Ref)
	})

	t.Run("schema", func(t *testing.T) {
		pet, ok := doc.Components.Schemas.Get("Pet")
		require.True(t, ok)
		s := pet.Value()
		assert.Equal(t, TypeObject, s.Type)
		assert.Equal(t, []string{"id"}, s.Required)
		assert.Equal(t, false, s.AdditionalProperties)
		assert.Equal(t, []string{"id", "tags"}, s.Properties.Keys())

		tags, _ := s.Properties.Get("tags")
		assert.Equal(t, TypeString, tags.Value().Items.Value().Type)
	})

	t.Run("oauth flow kind comes from its slot", func(t *testing.T) {
		oauth, ok := doc.Components.SecuritySchemes.Get("oauth")
		require.True(t, ok)
		f := oauth.Value().Flows.AuthorizationCode
		require.NotNil(t, f)
		assert.Equal(t, FlowAuthorizationCode, f.Kind())
		assert.Equal(t, []string{"read"}, f.Scopes.Keys())
	})

	t.Run("round trip keeps order", func(t *testing.T) {
		first, err := json.Marshal(&doc)
		require.NoError(t, err)

		var again OpenAPI
		require.NoError(t, yaml.Unmarshal(first, &again))
		second, err := json.Marshal(&again)
		require.NoError(t, err)

		assert.JSONEq(t, string(first), string(second))
		assert.Equal(t, string(first), string(second))
	})
}

func TestDecodeYAMLErrors(t *testing.T) {
	t.Run("object expects mapping", func(t *testing.T) {
		var info Info
		err := yaml.Unmarshal([]byte(`[1, 2]`), &info)
		require.ErrorIs(t, err, ErrAttributeType)
	})

	t.Run("empty sequence stays present", func(t *testing.T) {
		var op Operation
		require.NoError(t, yaml.Unmarshal([]byte("tags: []\nresponses: {}\n"), &op))
		assert.NotNil(t, op.Tags)
		assert.Empty(t, op.Tags)
	})
}

func TestMarshalYAML(t *testing.T) {
	doc := NewDocument(&Info{Title: "Widgets", Version: "1.0.0"})
	op := &Operation{OperationID: "index", Tags: []string{"widgets"}}
	op.SetResponse("200", &Response{Description: "Success"})
	item := &PathItem{}
	item.SetOperation("GET", op)
	doc.Paths.Set("/widgets", item)

	data, err := MarshalYAML(doc)
	require.NoError(t, err)

	expected := `openapi: 3.0.0
info:
  title: Widgets
  version: 1.0.0
paths:
  /widgets:
    get:
      tags:
        - widgets
      operationId: index
      responses:
        "200":
          description: Success
`
	assert.Equal(t, expected, string(data))
}

func TestToYAML(t *testing.T) {
	node, err := ToYAML(&Info{Title: "Widgets", Version: "1"})
	require.NoError(t, err)
	require.Equal(t, yaml.MappingNode, node.Kind)
	require.Len(t, node.Content, 4)
	assert.Equal(t, "title", node.Content[0].Value)
	assert.Equal(t, "version", node.Content[2].Value)
}
