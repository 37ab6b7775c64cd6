package shells

import (
	"fmt"

	"github.com/alessio/shellescape"
	"github.com/google/shlex"
)

var ErrEmptyCommand = fmt.Errorf("empty command")

// Join quotes argv into a single line that a POSIX shell splits back into argv
func Join(argv []string) string {
	return shellescape.QuoteCommand(argv)
}

// Split splits cmd with shell quoting rules, a blank cmd returns ErrEmptyCommand
func Split(cmd string) ([]string, error) {
	argv, err := shlex.Split(cmd)
	if err != nil {
		return nil, fmt.Errorf("cannot split command `%s`: %w", cmd, err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}
