package selfupdate

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImSingee/repobox/internal/github"
)

type fakeSource struct {
	files   map[string]string
	fetched []string
}

func (s *fakeSource) Fetch(_ context.Context, repo, branch, p string) ([]byte, error) {
	s.fetched = append(s.fetched, repo+"@"+branch+":"+p)
	c, ok := s.files[p]
	if !ok {
		return nil, github.ErrNotFound
	}
	return []byte(c), nil
}

func TestParseSource(t *testing.T) {
	repo, branch, err := ParseSource("org/box")
	require.NoError(t, err)
	assert.Equal(t, "org/box", repo)
	assert.Equal(t, "main", branch)

	repo, branch, err = ParseSource(" org/box@stable ")
	require.NoError(t, err)
	assert.Equal(t, "org/box", repo)
	assert.Equal(t, "stable", branch)

	_, _, err = ParseSource("box")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	t.Run("replaces changed files only", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.json"), []byte("old"), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "same.txt"), []byte("same"), 0644))

		src := &fakeSource{files: map[string]string{
			"catalog.json":  "new",
			"same.txt":      "same",
			"extra/new.txt": "fresh",
		}}
		u := &Updater{Source: src, Repo: "org/box", Branch: "main", Dir: dir, Files: []string{"catalog.json", "same.txt", "extra/new.txt"}}

		changes, err := u.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []Change{
			{File: "catalog.json", OldHash: Hash([]byte("old")), NewHash: Hash([]byte("new"))},
			{File: "extra/new.txt", OldHash: "", NewHash: Hash([]byte("fresh"))},
		}, changes)

		data, err := os.ReadFile(filepath.Join(dir, "catalog.json"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		stat, err := os.Stat(filepath.Join(dir, "catalog.json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), stat.Mode().Perm())

		data, err = os.ReadFile(filepath.Join(dir, "extra", "new.txt"))
		require.NoError(t, err)
		assert.Equal(t, "fresh", string(data))

		assert.Contains(t, src.fetched, "org/box@main:same.txt")
	})

	t.Run("unreachable file is skipped", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("keep"), 0644))

		u := &Updater{Source: &fakeSource{files: map[string]string{"b.txt": "b"}}, Repo: "org/box", Branch: "main", Dir: dir, Files: []string{"a.txt", "b.txt"}}

		changes, err := u.Run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, github.ErrNotFound)
		require.Len(t, changes, 1)
		assert.Equal(t, "b.txt", changes[0].File)

		data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "keep", string(data))
	})

	t.Run("escaping path", func(t *testing.T) {
		u := &Updater{Source: &fakeSource{}, Dir: t.TempDir(), Files: []string{"../x"}}
		_, err := u.Run(context.Background())
		assert.Error(t, err)
	})
}

type signer struct {
	priv   ed25519.PrivateKey
	keyID  [8]byte
	pubStr string
}

func newSigner(t *testing.T) *signer {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	s := &signer{priv: priv, keyID: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}}
	raw := append(append([]byte("Ed"), s.keyID[:]...), pub...)
	s.pubStr = base64.StdEncoding.EncodeToString(raw)
	return s
}

func (s *signer) sign(content string) string {
	sig := ed25519.Sign(s.priv, []byte(content))
	line1 := base64.StdEncoding.EncodeToString(append(append([]byte("Ed"), s.keyID[:]...), sig...))
	trusted := "trusted comment: test"
	global := ed25519.Sign(s.priv, append(append([]byte{}, sig...), []byte(trusted)[17:]...))

	return "untrusted comment: signature\n" + line1 + "\n" + trusted + "\n" + base64.StdEncoding.EncodeToString(global) + "\n"
}

func TestRunSigned(t *testing.T) {
	s := newSigner(t)

	t.Run("valid signature", func(t *testing.T) {
		dir := t.TempDir()
		u := &Updater{
			Source: &fakeSource{files: map[string]string{
				"catalog.json":         "signed",
				"catalog.json.minisig": s.sign("signed"),
			}},
			Repo: "org/box", Branch: "main", Dir: dir, Files: []string{"catalog.json"}, PublicKey: s.pubStr,
		}

		changes, err := u.Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, changes, 1)
	})

	t.Run("tampered content", func(t *testing.T) {
		dir := t.TempDir()
		u := &Updater{
			Source: &fakeSource{files: map[string]string{
				"catalog.json":         "tampered",
				"catalog.json.minisig": s.sign("signed"),
			}},
			Repo: "org/box", Branch: "main", Dir: dir, Files: []string{"catalog.json"}, PublicKey: s.pubStr,
		}

		changes, err := u.Run(context.Background())
		assert.Error(t, err)
		assert.Empty(t, changes)
		assert.NoFileExists(t, filepath.Join(dir, "catalog.json"))
	})

	t.Run("missing signature", func(t *testing.T) {
		u := &Updater{
			Source: &fakeSource{files: map[string]string{"catalog.json": "x"}},
			Repo:   "org/box", Branch: "main", Dir: t.TempDir(), Files: []string{"catalog.json"}, PublicKey: s.pubStr,
		}

		_, err := u.Run(context.Background())
		assert.ErrorIs(t, err, github.ErrNotFound)
	})

	t.Run("bad key", func(t *testing.T) {
		u := &Updater{Source: &fakeSource{}, Dir: t.TempDir(), PublicKey: "nope"}
		_, err := u.Run(context.Background())
		assert.Error(t, err)
	})
}

func TestRestartOnlyOnce(t *testing.T) {
	t.Setenv(RestartedEnv, "1")

	_, err := Restart(nil)
	assert.ErrorIs(t, err, ErrAlreadyRestarted)
}
