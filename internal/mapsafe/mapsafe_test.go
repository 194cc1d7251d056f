package mapsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_Conversions(t *testing.T) {
	m := map[string]any{
		"int":    3,
		"int64":  int64(4),
		"float":  2.5,
		"name":   "ada",
		"admin":  true,
		"nested": map[string]any{"a": 1},
	}

	assert.Equal(t, 3, Get(m, "int", 0))
	assert.Equal(t, 4, Get(m, "int64", 0))
	assert.Equal(t, 2, Get(m, "float", 0))
	assert.Equal(t, 3.0, Get(m, "int", 0.0))
	assert.Equal(t, "ada", Get(m, "name", ""))
	assert.True(t, Get(m, "admin", false))
	assert.Equal(t, map[string]any{"a": 1}, Get[map[string]any](m, "nested", nil))
}

func TestGet_DefaultOnMissingOrMismatch(t *testing.T) {
	m := map[string]any{"name": "ada"}

	assert.Equal(t, "none", Get(m, "missing", "none"))
	assert.Equal(t, 7, Get(m, "name", 7))
	assert.Equal(t, "x", Get[string](nil, "name", "x"))
}

func TestLookup_ReportsPresence(t *testing.T) {
	m := map[string]any{"name": "ada"}

	v, ok := Lookup[string](m, "name")
	assert.True(t, ok)
	assert.Equal(t, "ada", v)

	_, ok = Lookup[string](m, "missing")
	assert.False(t, ok)

	_, ok = Lookup[bool](m, "name")
	assert.False(t, ok)
}
