package tl

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrCanceled        = fmt.Errorf("canceled")
	ErrSomeTasksFailed = fmt.Errorf("some tasks error")
)

type Runner struct {
	tl      *TaskList
	options runnerOption

	result      *Result
	err         error
	done        chan struct{}
	interrupted atomic.Bool
}

func New(tasks []*Task, options ...OptionApplier) *Runner {
	return &Runner{
		tl: NewTaskList(tasks, options...),
	}
}

func (runner *Runner) With(options ...RunnerOption) *Runner {
	for _, apply := range options {
		apply(&runner.options)
	}
	return runner
}

func (runner *Runner) Run() error {
	return runner.RunContext(context.Background())
}

// RunContext runs every task and blocks until they are finished.
// Pressing ctrl+c cancels the context passed to the tasks.
func (runner *Runner) RunContext(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner.prepare(ctx)
	p := tea.NewProgram(runner.createModel(func() {
		runner.interrupted.Store(true)
		cancel()
	}), runner.options.tea...)

	runner.done = make(chan struct{})
	go func() {
		runner.start(p)
	}()

	_, err := p.Run()
	cancel()
	<-runner.done

	if err != nil {
		return err
	}
	if runner.interrupted.Load() {
		return ErrCanceled
	}

	return runner.err
}

// Result is only available after Run
func (runner *Runner) Result() *Result {
	return runner.result
}

func (runner *Runner) prepare(ctx context.Context) {
	runner.tl.ctx = ctx
	runner.tl.prepare()
}

func (runner *Runner) start(p *tea.Program) {
	defer func() {
		close(runner.done)
		p.Send(tea.Quit())
	}()

	result := runner.tl.start(p)
	runner.result = result
	if result.Error {
		runner.err = ErrSomeTasksFailed
		if err := result.FirstError(); err != nil {
			runner.err = fmt.Errorf("%w: %w", ErrSomeTasksFailed, err)
		}
	}
}

type runnerModel struct {
	tl        tea.Model
	interrupt func()
}

func (runner *Runner) createModel(interrupt func()) runnerModel {
	return runnerModel{
		tl:        runner.tl.createModel(),
		interrupt: interrupt,
	}
}

func (m runnerModel) Init() tea.Cmd {
	return nil
}

func (m runnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// tasks see the canceled context and finish, the runner quits afterwards
	if shouldQuit(msg) {
		m.interrupt()
		return m, nil
	}

	tl, cmd := m.tl.Update(msg)
	m.tl = tl
	return m, cmd
}

func (m runnerModel) View() string {
	return m.tl.View()
}

func shouldQuit(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return true
		}
	}

	return false
}
