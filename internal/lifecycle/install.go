package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/catalog"
	"github.com/ImSingee/repobox/internal/deps"
	"github.com/ImSingee/repobox/internal/materialize"
)

type InstallOptions struct {
	// Confirm is asked before an existing folder is replaced, nil declines
	Confirm  Confirmer
	Progress materialize.Progress
	// SkipDeps disables the dependency install step
	SkipDeps bool
}

type InstallResult struct {
	Dir      string
	Files    int
	Replaced bool

	// DepsCommand is empty when no dependency manifest was found
	DepsCommand string
	// DepsErr is a non-fatal dependency install failure
	DepsErr error
}

// Install downloads e into its folder and installs its dependencies.
//
// When the folder already exists the user must confirm the overwrite, declining
// returns ErrDeclined and leaves the folder untouched.
// A download failure leaves the files written so far in place.
func (m *Manager) Install(ctx context.Context, e *catalog.Entry, o InstallOptions) (*InstallResult, error) {
	unlock, err := m.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	return m.install(ctx, e, o)
}

func (m *Manager) install(ctx context.Context, e *catalog.Entry, o InstallOptions) (*InstallResult, error) {
	dir := m.Dir(e)
	if err := m.inside(dir); err != nil {
		return nil, err
	}
	result := &InstallResult{Dir: dir}

	if m.Installed(e) {
		if o.Confirm == nil {
			return nil, ErrDeclined
		}

		ok, err := o.Confirm(fmt.Sprintf("%s already exists in %s, overwrite it?", e.Name, dir))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeclined
		}

		slog.Info("replace existing installation", "name", e.Name, "dir", dir)
		if err := m.remove(ctx, dir); err != nil {
			return nil, err
		}
		m.removeRecord(e)
		result.Replaced = true
	}

	r := m.Materializer.Materialize(ctx, materialize.Target{
		Repo:    e.Repo,
		Branch:  e.Branch,
		Dir:     dir,
		Exclude: e.Exclude,
	}, o.Progress)
	result.Files = r.FilesWritten
	if r.Err != nil {
		slog.Error("download failed", "name", e.Name, "written", r.FilesWritten, "error", r.Err)
		return result, ee.Wrapf(r.Err, "cannot download %s", e.Name)
	}

	if err := m.writeRecord(e, r.FilesWritten); err != nil {
		slog.Warn("cannot write install record", "name", e.Name, "error", err)
	}

	if o.SkipDeps {
		return result, nil
	}

	result.DepsCommand, result.DepsErr = m.installDeps(ctx, e)
	if ee.Is(result.DepsErr, deps.ErrNoManifest) {
		result.DepsErr = nil
	}

	return result, nil
}

// InstallDeps runs the dependency install step alone for an installed entry.
// deps.ErrNoManifest is returned when there is nothing to install.
func (m *Manager) InstallDeps(ctx context.Context, e *catalog.Entry) (command string, err error) {
	unlock, err := m.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	if !m.Installed(e) {
		return "", ee.Wrapf(ErrNotInstalled, "%s", e.Name)
	}

	return m.installDeps(ctx, e)
}

func (m *Manager) installDeps(ctx context.Context, e *catalog.Entry) (string, error) {
	if m.Deps == nil {
		return "", deps.ErrNoManifest
	}

	command, err := m.Deps.Install(ctx, m.Dir(e), e.InstallCommand)
	if err != nil && !ee.Is(err, deps.ErrNoManifest) {
		slog.Warn("installed without dependencies", "name", e.Name, "error", err)
	}
	return command, err
}
