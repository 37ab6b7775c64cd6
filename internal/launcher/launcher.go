package launcher

import (
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/lib/fsutil"
	"github.com/ImSingee/repobox/internal/lib/shells"
)

type Command struct {
	Argv []string
	Dir  string
	Env  []string // appended to the current environment
	// LogPath receives stdout and stderr of the process, empty means discard
	LogPath string
}

func (c Command) String() string {
	return shells.Join(c.Argv)
}

type Process struct {
	Pid     int
	LogPath string
}

// ProcessLauncher starts a process and returns without waiting for it
type ProcessLauncher interface {
	Launch(c Command) (*Process, error)
}

// Detached runs processes in their own process group so they outlive repobox
type Detached struct{}

func (Detached) Launch(c Command) (*Process, error) {
	if len(c.Argv) == 0 {
		return nil, ee.New("empty command")
	}

	cmd := exec.Command(c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdin = nil
	cmd.SysProcAttr = detachAttr()

	var out io.WriteCloser
	if c.LogPath != "" {
		if _, err := fsutil.MkdirFor(c.LogPath); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(c.LogPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, ee.Wrapf(err, "cannot open log file %s", c.LogPath)
		}
		out = f
		cmd.Stdout = f
		cmd.Stderr = f
	}

	err := cmd.Start()
	if out != nil {
		_ = out.Close() // the child holds its own descriptor
	}
	if err != nil {
		return nil, ee.Wrapf(err, "cannot start `%s`", c)
	}

	p := &Process{Pid: cmd.Process.Pid, LogPath: c.LogPath}
	slog.Info("launched", "pid", p.Pid, "command", c.String(), "dir", c.Dir)

	if err := cmd.Process.Release(); err != nil {
		slog.Debug("cannot release process", "pid", p.Pid, "error", err)
	}

	return p, nil
}
