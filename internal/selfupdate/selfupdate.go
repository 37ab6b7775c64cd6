package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ImSingee/go-ex/ee"
	"github.com/jedisct1/go-minisign"

	"github.com/ImSingee/repobox/internal/lib/fsutil"
)

// Source returns the raw content of one upstream file
type Source interface {
	Fetch(ctx context.Context, repo, branch, path string) ([]byte, error)
}

// Updater keeps a fixed set of local files identical to their upstream copies
type Updater struct {
	Source Source
	Repo   string
	Branch string
	// Dir is the local directory Files are relative to
	Dir   string
	Files []string
	// PublicKey is an optional minisign public key, every file then needs a valid <file>.minisig upstream
	PublicKey string
}

type Change struct {
	File    string
	OldHash string // empty when the local file did not exist
	NewHash string
}

// ParseSource parses "owner/repo[@branch]"
func ParseSource(s string) (repo, branch string, err error) {
	repo, branch, _ = strings.Cut(strings.TrimSpace(s), "@")
	if branch == "" {
		branch = "main"
	}

	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", ee.Errorf("invalid self-update source %q, expect owner/repo[@branch]", s)
	}

	return repo, branch, nil
}

// Run compares every file with upstream and overwrites the ones that differ.
//
// A file which cannot be fetched or verified is skipped, the returned error joins every skip reason.
func (u *Updater) Run(ctx context.Context) ([]Change, error) {
	var pk *minisign.PublicKey
	if u.PublicKey != "" {
		k, err := minisign.NewPublicKey(strings.TrimSpace(u.PublicKey))
		if err != nil {
			return nil, ee.Wrap(err, "invalid self-update public key")
		}
		pk = &k
	}

	var changes []Change
	var errs []error
	for _, file := range u.Files {
		change, err := u.update(ctx, file, pk)
		if err != nil {
			slog.Warn("self-update skipped file", "file", file, "error", err)
			errs = append(errs, ee.Wrapf(err, "%s", file))
			continue
		}
		if change != nil {
			changes = append(changes, *change)
		}
	}

	return changes, errors.Join(errs...)
}

func (u *Updater) update(ctx context.Context, file string, pk *minisign.PublicKey) (*Change, error) {
	if !filepath.IsLocal(filepath.FromSlash(file)) {
		return nil, ee.New("path must stay inside the install root")
	}

	local := filepath.Join(u.Dir, filepath.FromSlash(file))

	oldHash := ""
	if data, err := os.ReadFile(local); err == nil {
		oldHash = Hash(data)
	} else if !os.IsNotExist(err) {
		return nil, ee.Wrap(err, "cannot read local copy")
	}

	remote, err := u.Source.Fetch(ctx, u.Repo, u.Branch, file)
	if err != nil {
		return nil, err
	}

	newHash := Hash(remote)
	if newHash == oldHash {
		slog.Debug("self-update up to date", "file", file)
		return nil, nil
	}

	if pk != nil {
		if err := u.verify(ctx, file, remote, pk); err != nil {
			return nil, err
		}
	}

	perm := os.FileMode(0644)
	if stat, err := os.Stat(local); err == nil {
		perm = stat.Mode().Perm()
	}

	if err := fsutil.WriteFile(local, remote, perm); err != nil {
		return nil, err
	}

	slog.Info("self-update replaced file", "file", file, "old", oldHash, "new", newHash)
	return &Change{File: file, OldHash: oldHash, NewHash: newHash}, nil
}

func (u *Updater) verify(ctx context.Context, file string, content []byte, pk *minisign.PublicKey) error {
	raw, err := u.Source.Fetch(ctx, u.Repo, u.Branch, file+".minisig")
	if err != nil {
		return ee.Wrap(err, "cannot fetch signature")
	}

	sig, err := minisign.DecodeSignature(string(raw))
	if err != nil {
		return ee.Wrap(err, "invalid signature")
	}

	ok, err := pk.Verify(content, sig)
	if err != nil {
		return ee.Wrap(err, "signature verification error")
	}
	if !ok {
		return ee.New("signature verification failed")
	}

	return nil
}

func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
