package materialize

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/mr"

	"github.com/ImSingee/repobox/internal/github"
	"github.com/ImSingee/repobox/internal/lib/glob"
)

// Resolver lists the files (blobs) of a repository at a branch
type Resolver interface {
	ListFiles(ctx context.Context, repo, branch string) ([]github.TreeEntry, error)
}

// Target describes what to download and where
type Target struct {
	Repo    string
	Branch  string
	Dir     string   // absolute installation folder
	Exclude []string // glob patterns of remote paths to skip
}

type Result struct {
	Succeeded    bool
	FilesWritten int
	Files        []string
	Err          error
}

type Materializer struct {
	Resolver Resolver
	Fetcher  *Fetcher
}

func New(resolver Resolver, fetcher *Fetcher) *Materializer {
	return &Materializer{Resolver: resolver, Fetcher: fetcher}
}

// Materialize writes every file of the remote tree into t.Dir, sequentially and in listing order.
//
// The first failure stops the process; files already written are kept.
func (m *Materializer) Materialize(ctx context.Context, t Target, progress Progress) Result {
	if progress == nil {
		progress = noProgress{}
	}

	files, err := m.Resolver.ListFiles(ctx, t.Repo, t.Branch)
	if err != nil {
		return Result{Err: ee.Wrapf(err, "cannot list files of %s@%s", t.Repo, t.Branch)}
	}

	files, err = exclude(files, t.Exclude)
	if err != nil {
		return Result{Err: err}
	}

	progress.Total(len(files))
	slog.Info("materialize", "repo", t.Repo, "branch", t.Branch, "dir", t.Dir, "files", len(files))

	result := Result{}
	for _, file := range files {
		dest, err := Join(t.Dir, file.Path)
		if err != nil {
			progress.Advance(file.Path)
			result.Err = err
			return result
		}

		err = m.Fetcher.FetchFile(ctx, t.Repo, t.Branch, file.Path, dest)
		progress.Advance(file.Path)
		if err != nil {
			result.Err = err
			return result
		}

		result.FilesWritten++
		result.Files = append(result.Files, file.Path)
	}

	result.Succeeded = true
	return result
}

// Join resolves the slash separated remote path rel inside dir
func Join(dir, rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" || strings.Contains(rel, "\\") || path.IsAbs(rel) || clean != "/"+strings.TrimSuffix(rel, "/") {
		return "", ee.Wrapf(ErrPathEscape, "%q", rel)
	}

	return filepath.Join(dir, filepath.FromSlash(clean[1:])), nil
}

func exclude(files []github.TreeEntry, patterns []string) ([]github.TreeEntry, error) {
	set, err := glob.Compile(patterns...)
	if err != nil {
		return nil, ee.Wrap(err, "invalid exclude")
	}
	if set.Empty() {
		return files, nil
	}

	return mr.Filter(files, func(f github.TreeEntry, _index int) bool {
		if pattern, ok := set.Match(f.Path); ok {
			slog.Debug("excluded", "path", f.Path, "pattern", pattern)
			return false
		}
		return true
	}), nil
}
