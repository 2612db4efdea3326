package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/oasgen/openapi"
)

func TestParse(t *testing.T) {
	assert.Equal(t, []string{"required", "string", "max:255"}, Parse("required|string|max:255"))
	assert.Equal(t, []string{"required", "email"}, Parse("required||email|"))
	assert.Nil(t, Parse(""))
}

func TestHasRule(t *testing.T) {
	tokens := []string{"required", "in:a,b"}

	assert.True(t, HasRule(tokens, "required"))
	assert.True(t, HasRule(tokens, "in"))
	assert.False(t, HasRule(tokens, "min"))
}

func TestTranslate(t *testing.T) {
	t.Run("bounded string", func(t *testing.T) {
		s, err := Translate("name", []string{"required", "string", "max:10"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeString, s.Type)
		require.NotNil(t, s.MaxLength)
		assert.Equal(t, 10, *s.MaxLength)
		assert.Nil(t, s.MinLength)
	})

	t.Run("bounded integer", func(t *testing.T) {
		s, err := Translate("count", []string{"integer", "min:1", "max:5"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeInteger, s.Type)
		require.NotNil(t, s.Minimum)
		require.NotNil(t, s.Maximum)
		assert.Equal(t, 1.0, *s.Minimum)
		assert.Equal(t, 5.0, *s.Maximum)

		data, err := json.Marshal(s)
		require.NoError(t, err)
		assert.Equal(t, `{"maximum":5,"minimum":1,"type":"integer"}`, string(data))
	})

	t.Run("formats", func(t *testing.T) {
		tests := []struct {
			rule   string
			format string
		}{
			{"uuid", "uuid"},
			{"email", "email"},
			{"password", "password"},
			{"strength", "password"},
			{"url", "url"},
		}

		for _, tt := range tests {
			t.Run(tt.rule, func(t *testing.T) {
				s, err := Translate("f", []string{tt.rule})
				require.NoError(t, err)
				assert.Equal(t, openapi.TypeString, s.Type)
				assert.Equal(t, tt.format, s.Format)
				assert.Empty(t, s.Pattern)
			})
		}
	})

	t.Run("boolean", func(t *testing.T) {
		s, err := Translate("active", []string{"boolean"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeBoolean, s.Type)
	})

	t.Run("enum defaults to string", func(t *testing.T) {
		s, err := Translate("color", []string{"in:red,green,blue"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeString, s.Type)
		assert.Equal(t, []any{"red", "green", "blue"}, s.Enum)
	})

	t.Run("enum keeps established type", func(t *testing.T) {
		s, err := Translate("level", []string{"integer", "in:1,2"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeInteger, s.Type)
		assert.Len(t, s.Enum, 2)
	})

	t.Run("enum without values is ignored", func(t *testing.T) {
		s, err := Translate("color", []string{"in"})
		require.NoError(t, err)
		assert.Empty(t, s.Type)
		assert.Nil(t, s.Enum)
	})

	t.Run("date", func(t *testing.T) {
		s, err := Translate("born", []string{"date"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeString, s.Type)
		assert.Equal(t, DateDescription, s.Description)
		assert.Empty(t, s.Format)
	})

	t.Run("unknown rules are ignored", func(t *testing.T) {
		s, err := Translate("name", []string{"sometimes", "string", "confirmed", "regex:/x/"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeString, s.Type)
	})

	t.Run("bound on another type is ignored", func(t *testing.T) {
		s, err := Translate("active", []string{"boolean", "min:1"})
		require.NoError(t, err)
		assert.Nil(t, s.Minimum)
		assert.Nil(t, s.MinLength)
	})

	t.Run("last type wins", func(t *testing.T) {
		s, err := Translate("id", []string{"integer", "uuid"})
		require.NoError(t, err)
		assert.Equal(t, openapi.TypeString, s.Type)
		assert.Equal(t, "uuid", s.Format)
	})
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		err    error
	}{
		{"bound before type", []string{"min:3"}, ErrTypeRequired},
		{"bound after required only", []string{"required", "max:3"}, ErrTypeRequired},
		{"missing parameter", []string{"string", "max"}, ErrMissingParameter},
		{"empty parameter", []string{"string", "min:"}, ErrMissingParameter},
		{"non numeric parameter", []string{"integer", "max:ten"}, ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Translate("title", tt.tokens)
			require.ErrorIs(t, err, tt.err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), `field "title"`)
		})
	}

	t.Run("names the rule", func(t *testing.T) {
		_, err := Translate("title", []string{"min:3"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `rule "min"`)
	})
}

func TestRequired(t *testing.T) {
	t.Run("fields in order", func(t *testing.T) {
		set := NewSet("name", "required|string", "nick", "string", "email", "email|required")
		assert.Equal(t, []string{"name", "email"}, Required(set))
	})

	t.Run("none", func(t *testing.T) {
		assert.Nil(t, Required(NewSet("nick", "string")))
		assert.Nil(t, Required(Set{}))
	})

	t.Run("parameterised token is not required", func(t *testing.T) {
		assert.Equal(t, []string{"b"}, Required(NewSet("a", "required_if:b,1", "b", "required:x")))
	})
}

func TestObjectSchema(t *testing.T) {
	t.Run("email body", func(t *testing.T) {
		s, err := ObjectSchema(NewSet("email", "required|email"))
		require.NoError(t, err)

		data, err := json.Marshal(s)
		require.NoError(t, err)
		assert.Equal(t, `{"required":["email"],"type":"object","properties":{"email":{"type":"string","format":"email"}}}`, string(data))
	})

	t.Run("no required fields", func(t *testing.T) {
		s, err := ObjectSchema(NewSet("nick", "string|max:20"))
		require.NoError(t, err)
		assert.Nil(t, s.Required)
		assert.Equal(t, []string{"nick"}, s.Properties.Keys())
	})

	t.Run("translation error", func(t *testing.T) {
		_, err := ObjectSchema(NewSet("nick", "string", "age", "min:18"))
		require.ErrorIs(t, err, ErrTypeRequired)
		assert.Contains(t, err.Error(), `"age"`)
	})
}

func TestSet(t *testing.T) {
	t.Run("add replaces in place", func(t *testing.T) {
		var s Set
		s.Add("a", "string")
		s.Add("b", "integer")
		s.Add("a", "required|string")

		assert.Equal(t, []string{"a", "b"}, s.Fields())
		assert.Equal(t, 2, s.Len())

		v, ok := s.Get("a")
		require.True(t, ok)
		assert.Equal(t, "required|string", v)
	})

	t.Run("yaml keeps document order", func(t *testing.T) {
		src := "zeta: required|string\nalpha: integer|min:1\nmid: in:a,b\n"

		var s Set
		require.NoError(t, yaml.Unmarshal([]byte(src), &s))
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, s.Fields())

		var fields []string
		var tokens [][]string
		for f, toks := range s.All() {
			fields = append(fields, f)
			tokens = append(tokens, toks)
		}
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, fields)
		assert.Equal(t, []string{"integer", "min:1"}, tokens[1])
	})
}

type auditFields struct {
	Reason string `json:"reason" rules:"string|max:200"`
}

type createWidget struct {
	auditFields

	Name     string `json:"name" rules:"required|string|max:255"`
	Color    string `json:"color,omitempty" rules:"in:red,green"`
	Quantity int    `rules:"integer|min:1"`
	Internal string `json:"-" rules:"required"`
	Notes    string `json:"notes"`
	secret   string `rules:"required"`
}

func TestFromStruct(t *testing.T) {
	t.Run("tags", func(t *testing.T) {
		set, err := FromStruct(&createWidget{})
		require.NoError(t, err)

		assert.Equal(t, []string{"reason", "name", "color", "Quantity"}, set.Fields())
		v, _ := set.Get("color")
		assert.Equal(t, "in:red,green", v)
		assert.Equal(t, []string{"name"}, Required(set))
	})

	t.Run("value", func(t *testing.T) {
		set, err := FromStruct(createWidget{secret: "x"})
		require.NoError(t, err)
		assert.Equal(t, 4, set.Len())
	})

	t.Run("not a struct", func(t *testing.T) {
		_, err := FromStruct("widget")
		require.ErrorIs(t, err, ErrNotStruct)

		_, err = FromStruct(nil)
		require.ErrorIs(t, err, ErrNotStruct)
	})
}
