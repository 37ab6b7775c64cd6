package tl

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

type option struct {
	inited      bool
	exitOnError bool
}

func defaultOption() option {
	return option{
		inited:      true,
		exitOnError: true,
	}
}

type OptionApplier func(o *option)

func WithExitOnError(exitOnError bool) OptionApplier {
	return func(o *option) {
		o.exitOnError = exitOnError
	}
}

type runnerOption struct {
	tea []tea.ProgramOption
}

type RunnerOption func(o *runnerOption)

// WithOutput renders to w instead of stdout
func WithOutput(w io.Writer) RunnerOption {
	return func(o *runnerOption) {
		o.tea = append(o.tea, tea.WithOutput(w))
	}
}

// Headless runs the tasks without reading input or rendering anything
func Headless() RunnerOption {
	return func(o *runnerOption) {
		o.tea = append(o.tea, tea.WithInput(nil), tea.WithoutRenderer(), tea.WithoutSignalHandler())
	}
}
