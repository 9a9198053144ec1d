package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const typesYAML = `
types:
  User:
    type: object
    properties:
      name: { type: string }
    required: [name]
root: User
`

func TestLoadValidator_RootAndNamed(t *testing.T) {
	path := writeFile(t, "types.yaml", typesYAML)

	v, err := loadValidator(path, "")
	require.NoError(t, err)
	assert.True(t, v.Check(map[string]any{"name": "ann"}))
	assert.False(t, v.Check(map[string]any{}))

	v, err = loadValidator(path, "User")
	require.NoError(t, err)
	assert.True(t, v.Check(map[string]any{"name": "ann"}))

	_, err = loadValidator(path, "Nope")
	assert.Error(t, err)
}

func TestImportByExt(t *testing.T) {
	jsonPath := writeFile(t, "types.json", `{"types":{"N":{"type":"number"}},"root":"N"}`)
	set, err := importByExt(jsonPath, []byte(`{"types":{"N":{"type":"number"}},"root":"N"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"N"}, set.Names())

	yamlPath := writeFile(t, "types.yaml", typesYAML)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	set, err = importByExt(yamlPath, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, set.Names())
}

func TestCheckCommand_ReportsStatusAsError(t *testing.T) {
	types := writeFile(t, "types.yaml", typesYAML)
	good := writeFile(t, "good.json", `{"name":"ann"}`)
	bad := writeFile(t, "bad.json", `{"name":1}`)

	rootCmd.SetArgs([]string{"check", "--types", types, good})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"check", "--types", types, bad})
	err := rootCmd.Execute()
	require.ErrorIs(t, err, errDocumentsInvalid)

	// a mixed batch still signals failure
	rootCmd.SetArgs([]string{"check", "--types", types, good, bad})
	require.ErrorIs(t, rootCmd.Execute(), errDocumentsInvalid)
}

func TestDecodeDocument(t *testing.T) {
	doc := writeFile(t, "doc.json", `{"name":"ann"}`)
	v, err := decodeDocument(doc)
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ann", m["name"])

	bad := writeFile(t, "bad.json", `{`)
	_, err = decodeDocument(bad)
	assert.Error(t, err)
}
