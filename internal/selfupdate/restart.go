package selfupdate

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ImSingee/go-ex/ee"
)

// RestartedEnv is set on the restarted process so it never restarts twice
const RestartedEnv = "REPOBOX_RESTARTED"

var ErrAlreadyRestarted = fmt.Errorf("already restarted once")

// Executable returns the resolved path of the running binary
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", ee.Wrap(err, "cannot locate executable")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

// Restart runs the current binary again with args and returns its exit code
func Restart(args []string) (int, error) {
	if os.Getenv(RestartedEnv) == "1" {
		return 0, ErrAlreadyRestarted
	}

	exe, err := Executable()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(exe, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), RestartedEnv+"=1")

	err = cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, ee.Wrapf(err, "cannot restart %s", exe)
	}

	return 0, nil
}
