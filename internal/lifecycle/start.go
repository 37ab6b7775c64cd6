package lifecycle

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/catalog"
	"github.com/ImSingee/repobox/internal/launcher"
	"github.com/ImSingee/repobox/internal/lib/fsutil"
	"github.com/ImSingee/repobox/internal/lib/shells"
)

// interpreters by start file extension, files with other extensions are executed directly
var interpreters = map[string][]string{
	".js":  {"node"},
	".mjs": {"node"},
	".cjs": {"node"},
	".ts":  {"npx", "tsx"},
	".py":  {"python3"},
	".sh":  {"sh"},
}

// StartCommand returns the command used to launch e
func StartCommand(e *catalog.Entry) ([]string, error) {
	if strings.TrimSpace(e.StartCommand) != "" {
		argv, err := shells.Split(e.StartCommand)
		if err != nil {
			return nil, ee.Wrapf(err, "invalid start command of %s", e.Name)
		}
		return argv, nil
	}

	if e.StartFile == "" {
		return nil, ee.Wrapf(ErrStartFileMissing, "%s has no start file", e.Name)
	}

	file := filepath.FromSlash(e.StartFile)
	if interpreter, ok := interpreters[strings.ToLower(filepath.Ext(file))]; ok {
		return append(append([]string{}, interpreter...), file), nil
	}

	return []string{"." + string(filepath.Separator) + file}, nil
}

// Start launches e from its folder and returns without waiting for it
func (m *Manager) Start(_ context.Context, e *catalog.Entry) (*launcher.Process, error) {
	if !m.Installed(e) {
		return nil, ee.Wrapf(ErrNotInstalled, "%s", e.Name)
	}

	dir := m.Dir(e)
	if e.StartFile != "" && !fsutil.IsFile(filepath.Join(dir, filepath.FromSlash(e.StartFile))) {
		return nil, ee.Wrapf(ErrStartFileMissing, "%s not found in %s", e.StartFile, dir)
	}

	argv, err := StartCommand(e)
	if err != nil {
		return nil, err
	}

	logName := strings.ReplaceAll(filepath.ToSlash(e.Folder), "/", "%2F") + ".log"

	return m.Launcher.Launch(launcher.Command{
		Argv:    argv,
		Dir:     dir,
		LogPath: m.stateDir("logs", logName),
	})
}
