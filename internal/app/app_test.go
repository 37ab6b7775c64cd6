package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImSingee/repobox/internal/config"
	"github.com/ImSingee/repobox/internal/lib/tl"
	"github.com/ImSingee/repobox/internal/lifecycle"
	"github.com/ImSingee/repobox/internal/selfupdate"
)

// fakeGitHub serves a tree API and raw files for org/demo@main
func fakeGitHub(t *testing.T, files map[string]string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/org/demo/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))

		body := `{"sha":"x","truncated":false,"tree":[`
		i := 0
		for p := range files {
			if i > 0 {
				body += ","
			}
			body += fmt.Sprintf(`{"path":%q,"type":"blob","sha":"s","size":1}`, p)
			i++
		}
		body += `,{"path":"src","type":"tree","sha":"t"}]}`
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/raw/org/demo/main/", func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path[len("/raw/org/demo/main/"):]
		content, ok := files[p]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(content))
	})

	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newTestApp(t *testing.T, server *httptest.Server) *App {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "catalog.json"), []byte(`[
  {"name": "Demo", "repo": "org/demo", "folder": "demo", "exclude": ["*.md"]}
]`), 0644))

	c := &config.Config{
		Root:           root,
		Catalog:        filepath.Join(root, "catalog.json"),
		FetchRetries:   3,
		FetchDelay:     time.Millisecond,
		RemoveAttempts: 5,
		RemoveDelay:    time.Millisecond,
		GitHubAPI:      server.URL,
		GitHubRaw:      server.URL + "/raw",
		HTTPTimeout:    5 * time.Second,
		Theme:          "mocha",
	}

	a := New(c)
	a.Manager.Deps = nil
	a.RunnerOptions = []tl.RunnerOption{tl.Headless()}
	return a
}

func TestInstallEndToEnd(t *testing.T) {
	server := fakeGitHub(t, map[string]string{
		"index.js":  "console.log(1)",
		"src/a.js":  "export {}",
		"README.md": "# demo",
	})
	a := newTestApp(t, server)

	e, err := a.Entry("demo")
	require.NoError(t, err)

	r, err := a.Manager.Install(context.Background(), e, lifecycle.InstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Files)

	data, err := os.ReadFile(filepath.Join(a.Config.Root, "demo", "src", "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "export {}", string(data))
	assert.NoFileExists(t, filepath.Join(a.Config.Root, "demo", "README.md"))

	_, err = a.Entry("nope")
	assert.Error(t, err)
}

func TestSelfUpdate(t *testing.T) {
	server := fakeGitHub(t, map[string]string{
		"catalog.json": `[{"name": "New", "repo": "org/new", "folder": "new"}]`,
	})
	a := newTestApp(t, server)

	changes, err := a.SelfUpdate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes)

	a.Config.SelfUpdateSource = "org/demo"
	a.Config.SelfUpdateFiles = []string{"catalog.json"}

	changes, err = a.SelfUpdate(context.Background())
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "catalog.json", changes[0].File)
	assert.Equal(t, selfupdate.Hash([]byte(`[{"name": "New", "repo": "org/new", "folder": "new"}]`)), changes[0].NewHash)

	c, err := a.Catalog()
	require.NoError(t, err)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, "New", c.Entries[0].Name)

	changes, err = a.SelfUpdate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changes)
}
