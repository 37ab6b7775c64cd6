package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ImSingee/go-ex/ee"
	"github.com/gofrs/flock"

	"github.com/ImSingee/repobox/internal/catalog"
	"github.com/ImSingee/repobox/internal/launcher"
	"github.com/ImSingee/repobox/internal/lib/fsutil"
	"github.com/ImSingee/repobox/internal/lib/retry"
	"github.com/ImSingee/repobox/internal/materialize"
)

type Materializer interface {
	Materialize(ctx context.Context, t materialize.Target, progress materialize.Progress) materialize.Result
}

type DependencyInstaller interface {
	Install(ctx context.Context, dir string, override string) (command string, err error)
}

// Confirmer asks the user a yes/no question
type Confirmer func(question string) (bool, error)

// Manager owns every installation under Root
type Manager struct {
	Root         string
	Materializer Materializer
	Deps         DependencyInstaller
	Launcher     launcher.ProcessLauncher
	RemovePolicy retry.Policy

	// RemoveAll deletes a folder recursively, defaults to os.RemoveAll
	RemoveAll func(path string) error
	Now       func() time.Time
}

type Options struct {
	Root           string
	Materializer   Materializer
	Deps           DependencyInstaller
	Launcher       launcher.ProcessLauncher
	RemoveAttempts int
	RemoveDelay    time.Duration
}

func New(o Options) *Manager {
	if o.RemoveAttempts == 0 {
		o.RemoveAttempts = 5
	}
	if o.RemoveDelay == 0 {
		o.RemoveDelay = 500 * time.Millisecond
	}
	if o.Launcher == nil {
		o.Launcher = launcher.Detached{}
	}

	return &Manager{
		Root:         o.Root,
		Materializer: o.Materializer,
		Deps:         o.Deps,
		Launcher:     o.Launcher,
		RemovePolicy: retry.Policy{Attempts: o.RemoveAttempts, Delay: o.RemoveDelay, Name: "remove"},
	}
}

// Dir returns the installation folder of e
func (m *Manager) Dir(e *catalog.Entry) string {
	return filepath.Join(m.Root, filepath.FromSlash(e.Folder))
}

// Installed reports whether the installation folder of e exists
func (m *Manager) Installed(e *catalog.Entry) bool {
	_, err := os.Stat(m.Dir(e))
	return err == nil
}

func (m *Manager) stateDir(elem ...string) string {
	return filepath.Join(append([]string{m.Root, catalog.ReservedFolder}, elem...)...)
}

// lock prevents two processes from changing the same install root together
func (m *Manager) lock() (func(), error) {
	p := m.stateDir("lock")
	if _, err := fsutil.MkdirFor(p); err != nil {
		return nil, err
	}

	l := flock.New(p)
	ok, err := l.TryLock()
	if err != nil {
		return nil, ee.Wrapf(err, "cannot lock %s", p)
	}
	if !ok {
		return nil, ErrBusy
	}

	return func() { _ = l.Unlock() }, nil
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// inside fails unless dir is strictly below Root
func (m *Manager) inside(dir string) error {
	rel, err := filepath.Rel(m.Root, dir)
	if err != nil || rel == "." || !filepath.IsLocal(rel) {
		return ee.Wrapf(ErrFilesystem, "%s is not a folder inside the install root %s", dir, m.Root)
	}
	return nil
}

func (m *Manager) remove(ctx context.Context, dir string) error {
	if err := m.inside(dir); err != nil {
		return err
	}

	removeAll := m.RemoveAll
	if removeAll == nil {
		removeAll = os.RemoveAll
	}

	err := m.RemovePolicy.Do(ctx, func(attempt int) error {
		return removeAll(dir)
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return &FilesystemError{Path: dir, Attempts: exhausted.Attempts, Err: exhausted.Last}
		}
		return err
	}

	return nil
}
