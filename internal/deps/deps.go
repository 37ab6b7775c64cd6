package deps

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/lib/fsutil"
	"github.com/ImSingee/repobox/internal/lib/shells"
)

var (
	ErrDependencyInstall = fmt.Errorf("dependency install failed")
	ErrNoManifest        = fmt.Errorf("no dependency manifest found")
)

// Manifest maps a file found in the installation folder to the command installing its dependencies
type Manifest struct {
	File    string
	Command string
}

// DefaultManifests are checked in order, the first existing file wins
var DefaultManifests = []Manifest{
	{File: "package.json", Command: "npm install"},
	{File: "requirements.txt", Command: "pip install -r requirements.txt"},
	{File: "go.mod", Command: "go mod download"},
}

// Runner runs argv inside dir and returns its combined output
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

type Installer struct {
	Runner    Runner
	Manifests []Manifest
}

func NewInstaller() *Installer {
	return &Installer{
		Runner:    ExecRunner{},
		Manifests: DefaultManifests,
	}
}

// Detect returns the install command for dir, override wins when not empty
func (in *Installer) Detect(dir string, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}

	for _, m := range in.Manifests {
		if fsutil.IsFile(filepath.Join(dir, m.File)) {
			return m.Command, nil
		}
	}

	return "", ErrNoManifest
}

// Install runs the dependency install command inside dir.
// Output is only kept for the error message.
func (in *Installer) Install(ctx context.Context, dir string, override string) (string, error) {
	command, err := in.Detect(dir, override)
	if err != nil {
		return "", err
	}

	argv, err := shells.Split(command)
	if err != nil {
		return command, ee.Wrapf(ErrDependencyInstall, "invalid command `%s`: %v", command, err)
	}

	slog.Info("install dependencies", "dir", dir, "command", command)

	output, err := in.Runner.Run(ctx, dir, argv)
	if err != nil {
		slog.Warn("dependency install failed", "dir", dir, "command", command, "error", err)
		return command, ee.Wrapf(ErrDependencyInstall, "`%s`: %v%s", command, err, tail(output, 10))
	}

	return command, nil
}

func tail(output []byte, n int) string {
	s := strings.TrimSpace(string(output))
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return "\n" + strings.Join(lines, "\n")
}
