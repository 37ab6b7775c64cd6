package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		p := write(t, "catalog.json", `[
			{"name": "Demo", "repo": "org/demo", "folder": "demo", "startFile": "index.js"},
			{"name": "Tool", "repo": "org/tool", "branch": "dev", "folder": "tool", "exclude": ["*.md"]}
		]`)

		c, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, p, c.Path)
		require.Len(t, c.Entries, 2)

		assert.Equal(t, &Entry{Name: "Demo", Repo: "org/demo", Branch: "main", Folder: "demo", StartFile: "index.js"}, c.Entries[0])
		assert.Equal(t, "dev", c.Entries[1].Branch)
		assert.Equal(t, []string{"*.md"}, c.Entries[1].Exclude)
		assert.Empty(t, c.Warnings())
	})

	t.Run("object", func(t *testing.T) {
		p := write(t, "catalog.json", `{"minVersion": "1.2.0", "entries": [
			{"name": "Demo", "repo": "org/demo", "folder": "demo", "branch": ""}
		]}`)

		c, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", c.MinVersion)
		require.Len(t, c.Entries, 1)
		assert.Equal(t, "main", c.Entries[0].Branch)
	})

	t.Run("yaml", func(t *testing.T) {
		p := write(t, "catalog.yaml", `
entries:
  - name: Demo
    repo: org/demo
    folder: demo
    startCommand: node index.js --port 8080
`)

		c, err := Load(p)
		require.NoError(t, err)
		require.Len(t, c.Entries, 1)
		assert.Equal(t, "node index.js --port 8080", c.Entries[0].StartCommand)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := Load(write(t, "catalog.json", `[{`))
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("schema violations", func(t *testing.T) {
		_, err := Load(write(t, "catalog.json", `[{"name": "Demo", "repo": "not-a-repo"}]`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "/0")
	})

	t.Run("escaping folder", func(t *testing.T) {
		for _, folder := range []string{"../demo", ".", "./", "a/..", "a/../..", ".repobox", ".repobox/x", "./.repobox"} {
			_, err := Load(write(t, "catalog.json", `[{"name": "Demo", "repo": "org/demo", "folder": "`+folder+`"}]`))
			assert.ErrorIs(t, err, ErrInvalid, folder)
		}
	})

	t.Run("folder is cleaned", func(t *testing.T) {
		c, err := Load(write(t, "catalog.json", `[{"name": "Demo", "repo": "org/demo", "folder": "./apps//demo/"}]`))
		require.NoError(t, err)
		assert.Equal(t, "apps/demo", c.Entries[0].Folder)
	})

	t.Run("duplicate folders warn", func(t *testing.T) {
		c, err := Load(write(t, "catalog.json", `[
			{"name": "A", "repo": "org/a", "folder": "same"},
			{"name": "B", "repo": "org/b", "folder": "same"}
		]`))
		require.NoError(t, err)
		assert.Len(t, c.Entries, 2)
		assert.Equal(t, []string{"A and B share folder same"}, c.Warnings())
	})

	t.Run("duplicate folders warn after cleaning", func(t *testing.T) {
		c, err := Load(write(t, "catalog.json", `[
			{"name": "A", "repo": "org/a", "folder": "demo"},
			{"name": "B", "repo": "org/b", "folder": "demo/"},
			{"name": "C", "repo": "org/c", "folder": "./demo"}
		]`))
		require.NoError(t, err)
		assert.Equal(t, []string{"A and B share folder demo", "A and C share folder demo"}, c.Warnings())
	})
}

func TestFind(t *testing.T) {
	c, err := Parse([]byte(`[
		{"name": "Demo App", "repo": "org/demo", "folder": "demo"},
		{"name": "Other", "repo": "org/other", "folder": "other"}
	]`))
	require.NoError(t, err)

	e, ok := c.Find("Demo App")
	require.True(t, ok)
	assert.Equal(t, "org/demo", e.Repo)

	e, ok = c.Find("other")
	require.True(t, ok)
	assert.Equal(t, "Other", e.Name)

	e, ok = c.Find("demo app")
	require.True(t, ok)
	assert.Equal(t, "demo", e.Folder)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestCheckVersion(t *testing.T) {
	c := &Catalog{MinVersion: "1.2.0"}

	assert.NoError(t, c.CheckVersion("1.2.0"))
	assert.NoError(t, c.CheckVersion("v1.3.0"))
	assert.NoError(t, c.CheckVersion("DEV"))
	assert.Error(t, c.CheckVersion("1.1.9"))

	assert.NoError(t, (&Catalog{}).CheckVersion("0.0.1"))
	assert.ErrorIs(t, (&Catalog{MinVersion: "latest"}).CheckVersion("1.0.0"), ErrInvalid)
}
