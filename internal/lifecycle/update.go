package lifecycle

import (
	"context"
	"fmt"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/catalog"
)

// Update removes the current installation of e (if any) and installs it again.
//
// It is not transactional, if the reinstall fails the entry is left absent or
// partially downloaded and the error wraps ErrUpdateIncomplete.
func (m *Manager) Update(ctx context.Context, e *catalog.Entry, o InstallOptions) (*InstallResult, error) {
	unlock, err := m.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = m.uninstall(ctx, e)
	if err != nil && !ee.Is(err, ErrNotInstalled) {
		return nil, err
	}

	o.Confirm = nil // nothing left to overwrite
	result, err := m.install(ctx, e, o)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrUpdateIncomplete, err)
	}

	return result, nil
}
