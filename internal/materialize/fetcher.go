package materialize

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/lib/fsutil"
	"github.com/ImSingee/repobox/internal/lib/retry"
)

// Source returns the raw content of one remote file
type Source interface {
	Fetch(ctx context.Context, repo, branch, path string) ([]byte, error)
}

// Fetcher downloads single files with retry
type Fetcher struct {
	Source Source
	Policy retry.Policy
}

func NewFetcher(source Source, policy retry.Policy) *Fetcher {
	if policy.Name == "" {
		policy.Name = "fetch"
	}

	return &Fetcher{Source: source, Policy: policy}
}

// FetchFile downloads path of repo at branch into dest.
//
// Nothing is written unless the content is fully received.
func (f *Fetcher) FetchFile(ctx context.Context, repo, branch, path, dest string) error {
	var data []byte
	err := f.Policy.Do(ctx, func(attempt int) error {
		d, err := f.Source.Fetch(ctx, repo, branch, path)
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return &RetryExhaustedError{Path: path, Attempts: exhausted.Attempts, Last: exhausted.Last}
		}
		return err
	}

	slog.Debug("fetched", "repo", repo, "path", path, "bytes", len(data))

	err = fsutil.WriteFile(dest, data, 0644)
	if err != nil {
		return ee.Wrapf(err, "cannot save %s", path)
	}

	return nil
}
