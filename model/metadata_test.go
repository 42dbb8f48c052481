package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValueAndScan(t *testing.T) {
	t.Run("Nil metadata is stored as an empty object", func(t *testing.T) {
		var m Metadata

		value, err := m.Value()

		require.NoError(t, err)
		assert.Equal(t, []byte("{}"), value)
	})

	t.Run("Scan accepts bytes, strings and nil", func(t *testing.T) {
		var fromBytes, fromString, fromNil Metadata

		require.NoError(t, fromBytes.Scan([]byte(`{"bio":"A smuggler"}`)))
		require.NoError(t, fromString.Scan(`{"bio":"A smuggler"}`))
		require.NoError(t, fromNil.Scan(nil))

		assert.Equal(t, "A smuggler", fromBytes["bio"])
		assert.Equal(t, "A smuggler", fromString["bio"])
		assert.NotNil(t, fromNil)
		assert.Len(t, fromNil, 0)
	})

	t.Run("Scan rejects unsupported types", func(t *testing.T) {
		var m Metadata

		err := m.Scan(12345)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "type assertion")
	})

	t.Run("Scan rejects invalid JSON", func(t *testing.T) {
		var m Metadata

		assert.Error(t, m.Scan([]byte(`{invalid json}`)))
	})

	t.Run("Value then Scan keeps nested payloads", func(t *testing.T) {
		original := Metadata{
			"traits": []interface{}{map[string]interface{}{"name": "brave"}},
		}

		value, err := original.Value()
		require.NoError(t, err)

		var restored Metadata
		require.NoError(t, restored.Scan(value))

		traits := restored.List("traits")
		require.Len(t, traits, 1)
		assert.Equal(t, "brave", coerceMap(traits[0])["name"])
	})
}

func TestMetadataAccessors(t *testing.T) {
	m := Metadata{
		"bio":      "Raised by wolves",
		"age":      float64(31),
		"year":     1204,
		"alive":    true,
		"traits":   "not a list",
		"features": []string{"harbor", " ", "lighthouse"},
		"nested":   map[string]interface{}{"k": "v"},
	}

	t.Run("String coerces scalars", func(t *testing.T) {
		assert.Equal(t, "Raised by wolves", m.String("bio"))
		assert.Equal(t, "31", m.String("age"))
		assert.Equal(t, "1204", m.String("year"))
		assert.Equal(t, "true", m.String("alive"))
		assert.Equal(t, "", m.String("nested"))
		assert.Equal(t, "", m.String("missing"))
	})

	t.Run("List returns nil for non-lists", func(t *testing.T) {
		assert.Nil(t, m.List("traits"))
		assert.Nil(t, m.List("missing"))
		assert.Len(t, m.List("features"), 3)
	})

	t.Run("String lists drop blank entries", func(t *testing.T) {
		assert.Equal(t, []string{"harbor", "lighthouse"}, coerceStrings(m["features"]))
	})

	t.Run("Accessors work on nil metadata", func(t *testing.T) {
		var empty Metadata
		assert.Equal(t, "", empty.String("bio"))
		assert.Nil(t, empty.List("traits"))
	})
}
