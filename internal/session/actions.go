package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/ImSingee/go-ex/pp"

	"github.com/ImSingee/repobox/internal/catalog"
	"github.com/ImSingee/repobox/internal/deps"
	"github.com/ImSingee/repobox/internal/lib/tl"
	"github.com/ImSingee/repobox/internal/lifecycle"
	"github.com/ImSingee/repobox/internal/materialize"
)

type installFunc func(ctx context.Context, o lifecycle.InstallOptions) (*lifecycle.InstallResult, error)

func (s *Session) download(ctx context.Context, e *catalog.Entry) error {
	// the task list owns the terminal while running, so ask first
	if s.Manager.Installed(e) {
		ok, err := s.confirm(fmt.Sprintf("%s already exists in %s, overwrite it?", e.Name, s.Manager.Dir(e)))
		if err != nil {
			return err
		}
		if !ok {
			return lifecycle.ErrDeclined
		}
	}

	return s.install(ctx, "Download "+e.Name, e, func(ctx context.Context, o lifecycle.InstallOptions) (*lifecycle.InstallResult, error) {
		o.Confirm = func(string) (bool, error) { return true, nil }
		return s.Manager.Install(ctx, e, o)
	})
}

func (s *Session) update(ctx context.Context, e *catalog.Entry) error {
	return s.install(ctx, "Update "+e.Name, e, func(ctx context.Context, o lifecycle.InstallOptions) (*lifecycle.InstallResult, error) {
		return s.Manager.Update(ctx, e, o)
	})
}

// install shows the download and the dependency install as two sub tasks
func (s *Session) install(ctx context.Context, title string, e *catalog.Entry, f installFunc) error {
	var result *lifecycle.InstallResult

	err := s.task(ctx, title, func(callback tl.TaskCallback) error {
		callback.AddSubTask(
			tl.NewTask("Fetch files", func(callback tl.TaskCallback) error {
				var err error
				result, err = f(callback.Context(), lifecycle.InstallOptions{
					Progress: materialize.ProgressFunc(callback.Progress).Progress(),
					SkipDeps: true,
				})
				return err
			}),
			tl.NewTask("Install dependencies", func(callback tl.TaskCallback) error {
				if s.Manager.Deps == nil {
					callback.Hide()
					return nil
				}

				command, err := s.Manager.InstallDeps(callback.Context(), e)
				switch {
				case errors.Is(err, deps.ErrNoManifest):
					callback.Skip("no dependency manifest")
				case err != nil:
					// the download stays usable without dependencies
					result.DepsCommand, result.DepsErr = command, err
					callback.Skip("failed")
				default:
					result.DepsCommand = command
				}
				return nil
			}),
		)
		return nil
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func (s *Session) uninstall(ctx context.Context, e *catalog.Entry) error {
	err := s.task(ctx, "Uninstall "+e.Name, func(callback tl.TaskCallback) error {
		return s.Manager.Uninstall(callback.Context(), e)
	})
	if err != nil {
		return err
	}

	pp.Println(pp.GreenString("%s removed", e.Name).GetForStdout())
	return nil
}

func (s *Session) start(ctx context.Context, e *catalog.Entry) error {
	p, err := s.Manager.Start(ctx, e)
	if err != nil {
		return err
	}

	pp.Println(pp.GreenString("%s started (pid %d)", e.Name, p.Pid).GetForStdout())
	if p.LogPath != "" {
		pp.Println("Output is written to", p.LogPath)
	}
	return nil
}
