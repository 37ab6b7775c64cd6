package lifecycle

import (
	"context"
	"log/slog"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/catalog"
)

// Uninstall removes the installation folder of e.
// It retries the removal and returns a FilesystemError once the attempts are used up.
func (m *Manager) Uninstall(ctx context.Context, e *catalog.Entry) error {
	unlock, err := m.lock()
	if err != nil {
		return err
	}
	defer unlock()

	return m.uninstall(ctx, e)
}

func (m *Manager) uninstall(ctx context.Context, e *catalog.Entry) error {
	if !m.Installed(e) {
		return ee.Wrapf(ErrNotInstalled, "%s", e.Name)
	}

	dir := m.Dir(e)
	slog.Info("uninstall", "name", e.Name, "dir", dir)

	if err := m.remove(ctx, dir); err != nil {
		return err
	}
	m.removeRecord(e)

	return nil
}
