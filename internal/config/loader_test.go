package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
version: "1"
logging:
  level: debug
stores:
  users:
    id_attribute: _id
    resolve_id: string
    defaults:
      role: guest
    records:
      - {_id: 1, name: Ada}
      - {_id: 2, name: Grace}
  posts: {}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, validConfig), "")
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"posts", "users"}, cfg.StoreNames())

	users := cfg.Stores["users"]
	assert.Equal(t, "_id", users.IDAttribute)
	assert.Equal(t, ResolveModeString, users.Mode())
	assert.Equal(t, map[string]any{"role": "guest"}, users.Defaults)
	require.Len(t, users.Records, 2)
	assert.Equal(t, map[string]any{"_id": 1, "name": "Ada"}, users.Records[0])

	assert.Equal(t, ResolveModeIdentity, cfg.Stores["posts"].Mode())
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: [1"},
		{"missing stores", `version: "1"`},
		{"unknown version", "version: \"2\"\nstores: {}"},
		{"unknown store field", "version: \"1\"\nstores:\n  users:\n    ttl: 5"},
		{"unknown resolve mode", "version: \"1\"\nstores:\n  users:\n    resolve_id: lower"},
		{"record is not an object", "version: \"1\"\nstores:\n  users:\n    records: [1]"},
		{"defaults set the id", "version: \"1\"\nstores:\n  users:\n    id_attribute: _id\n    defaults: {_id: 1}"},
		{"defaults set the default id", "version: \"1\"\nstores:\n  users:\n    defaults: {id: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "")
			assert.Error(t, err)
		})
	}
}

func TestParse_SchemaPath(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "strict.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "object", "required": ["owner"]}`), 0o644))

	_, err := Parse([]byte(validConfig), schemaPath)
	assert.ErrorContains(t, err, "validation failed")

	_, err = Parse([]byte(validConfig), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to compile schema")
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Stores: map[string]StoreConfig{
		"a": {ResolveID: "bogus"},
		"b": {IDAttribute: "key", Defaults: map[string]any{"key": 1}},
		"c": {IDAttribute: "key", Defaults: map[string]any{"other": 1}},
		"d": {Defaults: map[string]any{"id": 1}},
		"e": {IDAttribute: "key", Defaults: map[string]any{"id": 1}},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `store "a"`)
	assert.Contains(t, err.Error(), `store "b"`)
	assert.NotContains(t, err.Error(), `store "c"`)
	assert.Contains(t, err.Error(), `store "d": defaults must not set the id attribute "id"`)
	assert.NotContains(t, err.Error(), `store "e"`)
}
