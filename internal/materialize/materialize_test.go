package materialize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImSingee/repobox/internal/github"
	"github.com/ImSingee/repobox/internal/lib/retry"
)

type fakeRemote struct {
	tree    []github.TreeEntry
	listErr error
	content map[string]string
	// failures[path] is the number of failing attempts before success, -1 fails forever
	failures map[string]int
	calls    map[string]int
	order    []string
}

func (r *fakeRemote) ListFiles(_ context.Context, _, _ string) ([]github.TreeEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var blobs []github.TreeEntry
	for _, e := range r.tree {
		if e.Type == github.TypeBlob {
			blobs = append(blobs, e)
		}
	}
	return blobs, nil
}

func (r *fakeRemote) Fetch(_ context.Context, _, _, p string) ([]byte, error) {
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[p]++
	r.order = append(r.order, p)

	if n, ok := r.failures[p]; ok && (n < 0 || r.calls[p] <= n) {
		return nil, github.ErrNetwork
	}
	c, ok := r.content[p]
	if !ok {
		return nil, github.ErrNotFound
	}
	return []byte(c), nil
}

type sleeps struct{ waits []time.Duration }

func (s *sleeps) sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func newMaterializer(remote *fakeRemote, s *sleeps) *Materializer {
	p := retry.WithRetries(3, time.Second)
	p.Sleep = s.sleep
	return New(remote, NewFetcher(remote, p))
}

func listFiles(t *testing.T, dir string) []string {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

func TestMaterialize(t *testing.T) {
	t.Run("demo scenario", func(t *testing.T) {
		root := t.TempDir()
		remote := &fakeRemote{
			tree: []github.TreeEntry{
				{Path: "index.js", Type: github.TypeBlob},
				{Path: "src", Type: github.TypeTree},
				{Path: "src/a.js", Type: github.TypeBlob},
			},
			content: map[string]string{"index.js": "main", "src/a.js": "a"},
		}
		s := &sleeps{}

		var reported [][2]int
		progress := ProgressFunc(func(done, total int) {
			reported = append(reported, [2]int{done, total})
		}).Progress()

		dir := filepath.Join(root, "demo")
		result := newMaterializer(remote, s).Materialize(context.Background(), Target{Repo: "org/demo", Branch: "main", Dir: dir}, progress)
		require.NoError(t, result.Err)
		assert.True(t, result.Succeeded)
		assert.Equal(t, 2, result.FilesWritten)
		assert.Equal(t, []string{"index.js", "src/a.js"}, result.Files)

		assert.Equal(t, []string{"index.js", "src/a.js"}, listFiles(t, dir))
		data, err := os.ReadFile(filepath.Join(dir, "src", "a.js"))
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))

		assert.Equal(t, [][2]int{{0, 2}, {1, 2}, {2, 2}}, reported)
		assert.Equal(t, []string{"index.js", "src/a.js"}, remote.order)
		assert.Empty(t, s.waits)
	})

	t.Run("transient failures are retried", func(t *testing.T) {
		root := t.TempDir()
		remote := &fakeRemote{
			tree:     []github.TreeEntry{{Path: "a.txt", Type: github.TypeBlob}},
			content:  map[string]string{"a.txt": "ok"},
			failures: map[string]int{"a.txt": 3},
		}
		s := &sleeps{}

		result := newMaterializer(remote, s).Materialize(context.Background(), Target{Repo: "org/x", Branch: "main", Dir: root}, nil)
		require.NoError(t, result.Err)
		assert.Equal(t, 4, remote.calls["a.txt"])
		assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, s.waits)
	})

	t.Run("fail fast after exhausted retries", func(t *testing.T) {
		root := t.TempDir()
		remote := &fakeRemote{
			tree: []github.TreeEntry{
				{Path: "1.txt", Type: github.TypeBlob},
				{Path: "2.txt", Type: github.TypeBlob},
				{Path: "3.txt", Type: github.TypeBlob},
			},
			content:  map[string]string{"1.txt": "1", "2.txt": "2", "3.txt": "3"},
			failures: map[string]int{"2.txt": -1},
		}
		s := &sleeps{}

		advanced := 0
		progress := ProgressFunc(func(done, total int) { advanced = done }).Progress()

		result := newMaterializer(remote, s).Materialize(context.Background(), Target{Repo: "org/x", Branch: "main", Dir: root}, progress)
		require.Error(t, result.Err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, 1, result.FilesWritten)

		var exhausted *RetryExhaustedError
		require.ErrorAs(t, result.Err, &exhausted)
		assert.Equal(t, "2.txt", exhausted.Path)
		assert.Equal(t, 4, exhausted.Attempts)
		assert.ErrorIs(t, result.Err, github.ErrNetwork)

		assert.Equal(t, 4, remote.calls["2.txt"])
		assert.Zero(t, remote.calls["3.txt"])
		assert.Len(t, s.waits, 3)
		assert.Equal(t, 2, advanced)

		// the failed file is never written, the earlier one is kept
		assert.Equal(t, []string{"1.txt"}, listFiles(t, root))
	})

	t.Run("listing failure", func(t *testing.T) {
		remote := &fakeRemote{listErr: github.ErrNotFound}

		result := newMaterializer(remote, &sleeps{}).Materialize(context.Background(), Target{Repo: "org/x", Branch: "main", Dir: t.TempDir()}, nil)
		assert.ErrorIs(t, result.Err, github.ErrNotFound)
		assert.False(t, result.Succeeded)
	})

	t.Run("exclude", func(t *testing.T) {
		root := t.TempDir()
		remote := &fakeRemote{
			tree: []github.TreeEntry{
				{Path: "README.md", Type: github.TypeBlob},
				{Path: "docs/guide.txt", Type: github.TypeBlob},
				{Path: "main.py", Type: github.TypeBlob},
			},
			content: map[string]string{"README.md": "r", "docs/guide.txt": "g", "main.py": "m"},
		}

		result := newMaterializer(remote, &sleeps{}).Materialize(context.Background(), Target{
			Repo: "org/x", Branch: "main", Dir: root, Exclude: []string{"*.md", "docs/**"},
		}, nil)
		require.NoError(t, result.Err)
		assert.Equal(t, []string{"main.py"}, listFiles(t, root))
	})

	t.Run("escaping path", func(t *testing.T) {
		root := t.TempDir()
		remote := &fakeRemote{
			tree:    []github.TreeEntry{{Path: "../evil", Type: github.TypeBlob}},
			content: map[string]string{"../evil": "x"},
		}

		result := newMaterializer(remote, &sleeps{}).Materialize(context.Background(), Target{Repo: "org/x", Branch: "main", Dir: filepath.Join(root, "app")}, nil)
		assert.ErrorIs(t, result.Err, ErrPathEscape)
		assert.NoFileExists(t, filepath.Join(root, "evil"))
	})
}

func TestFetchFileNotFoundIsRetried(t *testing.T) {
	remote := &fakeRemote{content: map[string]string{}}
	s := &sleeps{}
	p := retry.WithRetries(3, time.Second)
	p.Sleep = s.sleep

	dest := filepath.Join(t.TempDir(), "x")
	err := NewFetcher(remote, p).FetchFile(context.Background(), "org/x", "main", "x", dest)
	assert.ErrorIs(t, err, github.ErrNotFound)
	assert.Equal(t, 4, remote.calls["x"])
	assert.NoFileExists(t, dest)
}

func TestFetchFileCanceled(t *testing.T) {
	remote := &fakeRemote{content: map[string]string{"x": "x"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFetcher(remote, retry.WithRetries(3, time.Second)).FetchFile(ctx, "org/x", "main", "x", filepath.Join(t.TempDir(), "x"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestJoin(t *testing.T) {
	dir := filepath.Join("/", "root", "app")

	p, err := Join(dir, "src/a.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src", "a.js"), p)

	for _, bad := range []string{"", "/", "../x", "a/../../x", "/etc/passwd", `a\b`, "./a"} {
		_, err := Join(dir, bad)
		assert.ErrorIs(t, err, ErrPathEscape, bad)
	}
}
