package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("insertion order", func(t *testing.T) {
		m := NewMap[int]()
		m.Set("zeta", 1)
		m.Set("alpha", 2)
		m.Set("mid", 3)
		m.Set("zeta", 4)

		assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())

		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, `{"zeta":4,"alpha":2,"mid":3}`, string(data))
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var m Map[string]
		assert.Equal(t, 0, m.Len())
		_, ok := m.Get("a")
		assert.False(t, ok)

		m.Set("a", "b")
		v, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, "b", v)
	})

	t.Run("nil map reads empty", func(t *testing.T) {
		var m *Map[string]
		assert.Equal(t, 0, m.Len())
		assert.Empty(t, m.Keys())
		m.Delete("a")
	})

	t.Run("delete", func(t *testing.T) {
		m := NewMap[int]()
		m.Set("a", 1)
		m.Set("b", 2)
		m.Delete("a")
		assert.Equal(t, []string{"b"}, m.Keys())
	})

	t.Run("all stops early", func(t *testing.T) {
		m := NewMap[int]()
		m.Set("a", 1)
		m.Set("b", 2)

		var seen []string
		for k := range m.All() {
			seen = append(seen, k)
			break
		}
		assert.Equal(t, []string{"a"}, seen)
	})
}

func TestRefOr(t *testing.T) {
	t.Run("reference", func(t *testing.T) {
		r := Ref[Schema]("#/components/schemas/Pet")
		assert.True(t, r.IsRef())
		assert.Nil(t, r.Value())

		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Equal(t, `{"$ref":"#/components/schemas/Pet"}`, string(data))
	})

	t.Run("inline", func(t *testing.T) {
		r := Inline(NewSchema(TypeString))
		assert.False(t, r.IsRef())
		assert.Nil(t, r.Reference())

		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Equal(t, `{"type":"string"}`, string(data))
	})

	t.Run("nil", func(t *testing.T) {
		var r *RefOr[Schema]
		assert.False(t, r.IsRef())
		assert.Nil(t, r.Value())
		assert.Nil(t, r.Reference())
	})
}
