package tl

import (
	"context"
	"fmt"
	"strings"

	"github.com/ImSingee/go-ex/ee"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
)

// errorWidth limits every rendered error line
const errorWidth = 160

type Task struct {
	Title string
	Run   func(callback TaskCallback) error

	Options []OptionApplier

	id  string
	ctx context.Context
	option
}

func NewTask(title string, run func(callback TaskCallback) error, options ...OptionApplier) *Task {
	return &Task{
		Title:   title,
		Run:     run,
		Options: options,
	}
}

// Id only available after run
func (t *Task) Id() string {
	return t.id
}

func (t *Task) use() {
	if t.id != "" {
		panic("Cannot use the same task more than once")
	}

	t.id = uuid.NewString()
	if !t.inited {
		panic("Task can only be used inside TaskList (this is internal logic error)")
	}

	for _, applyOpt := range t.Options {
		applyOpt(&t.option)
	}
}

func (t *Task) start(p *tea.Program) (result *Result) {
	result = &Result{
		Task:    t,
		Enabled: true,
	}

	p.Send(&eventTaskStart{
		Id: t.id,
	})

	// update UI
	defer func() {
		if result.Hide {
			p.Send(&eventTaskHide{
				Id: t.id,
			})
		}

		if result.Error {
			p.Send(&eventTaskFail{
				Id:  t.id,
				Err: result.Err,
			})
			return
		}

		if result.Skipped {
			p.Send(&eventTaskSkip{
				Id:     t.id,
				Reason: result.SkipReason,
			})
			return
		}

		p.Send(&eventTaskSuccess{
			Id: t.id,
		})
	}()

	controller := t.controller(p)

	result.Err = t.run(controller)
	if result.Err != nil {
		result.Error = true
	}

	if controller.hide {
		result.Hide = true
	}

	if result.Err != nil {
		return
	}

	if controller.skipped {
		result.Skipped = true
		result.SkipReason = controller.skipReason
		return
	}

	if controller.subList != nil {
		controller.subList.option = t.option
		controller.subList.ctx = t.ctx
		controller.subList.prepare()

		p.Send(&eventTaskAddSubList{
			Id:   t.id,
			List: controller.subList.createModel(),
		})

		subListResult := controller.subList.start(p)
		result.TaskList = subListResult.TaskList
		result.SubResults = subListResult.SubResults

		if subListResult.Error {
			result.Error = true // without reason
			return
		}
	}

	return
}

func (t *Task) run(controller *taskController) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("panic: %v", e)
		}
	}()

	if t.Run == nil {
		return ee.New("no Run function provided")
	}

	return t.Run(controller)
}

func (t *Task) controller(p *tea.Program) *taskController {
	return &taskController{
		task: t,
		send: p.Send,
	}
}

func (t *Task) skip(p *tea.Program) {
	p.Send(&eventTaskSkip{
		Id: t.id,
	})
}

type taskModel struct {
	id          string
	title       string
	status      taskStatus
	skipReason  string
	enable      bool
	hide        bool
	errorReason string
	subList     tea.Model

	done     int
	total    int
	progress progress.Model
}

type taskStatus uint8

const (
	taskStatusPending taskStatus = iota
	taskStatusRunning
	taskStatusSuccess
	taskStatusFailed
	taskStatusSkipped
)

func (t *Task) createModel() taskModel {
	m := taskModel{
		id:       t.id,
		title:    t.Title,
		status:   taskStatusPending,
		enable:   true,
		hide:     false,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}

	return m
}

func (m taskModel) Init() tea.Cmd {
	return nil
}

// model msg cmd

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case *eventTaskStart:
		if m.id == v.Id {
			m.enable = true
			m.status = taskStatusRunning
			return m, nil
		}
	case *eventTaskSuccess:
		if m.id == v.Id {
			m.status = taskStatusSuccess
			return m, nil
		}
	case *eventTaskFail:
		if m.id == v.Id {
			m.status = taskStatusFailed
			if v.Err != nil {
				m.errorReason = v.Err.Error()
			}
			return m, nil
		}
	case *eventTaskSkip:
		if m.id == v.Id {
			m.status = taskStatusSkipped
			m.skipReason = v.Reason
			return m, nil
		}
	case *eventTaskHide:
		if m.id == v.Id {
			m.hide = true
			return m, nil
		}
	case *eventTaskProgress:
		if m.id == v.Id {
			m.done = v.Done
			m.total = v.Total
			return m, nil
		}
	case *eventTaskAddSubList:
		if m.id == v.Id {
			m.subList = v.List
			return m, nil
		}
	}

	if m.subList != nil {
		l, cmd := m.subList.Update(msg)
		m.subList = l
		return m, cmd
	}

	return m, nil
}

func (m taskModel) View() string {
	if !m.enable || m.hide {
		return ""
	}

	b := strings.Builder{}

	b.WriteString(statusIcon(m.status) + " ")

	b.WriteString(m.title)

	if m.status == taskStatusSkipped {
		b.WriteString(" (skipped")
		if m.skipReason != "" {
			b.WriteString(" - ")
			b.WriteString(m.skipReason)
		}
		b.WriteString(")")
	}

	b.WriteString("\n")

	if m.total > 0 && m.status == taskStatusRunning {
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(float64(m.done) / float64(m.total)))
		b.WriteString(fmt.Sprintf(" %d/%d", m.done, m.total))
		b.WriteString("\n")
	}

	if m.errorReason != "" {
		for i, line := range strings.Split(strings.TrimSpace(m.errorReason), "\n") {
			if i == 0 {
				b.WriteString("  ERROR: ")
			} else {
				b.WriteString("         ")
			}
			b.WriteString(ansi.Truncate(line, errorWidth, "…"))
			b.WriteString("\n")
		}
	}

	if m.subList != nil {
		subListView := m.subList.View()
		subListView = strings.TrimSpace(subListView)

		if len(subListView) != 0 {
			for _, line := range strings.Split(subListView, "\n") {
				b.WriteString("  ")
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

type taskController struct {
	task *Task
	send func(msg tea.Msg)

	skipped    bool
	skipReason string
	hide       bool
	subList    *TaskList
}

func (c *taskController) Context() context.Context {
	return c.task.ctx
}

func (c *taskController) Progress(done, total int) {
	c.send(&eventTaskProgress{
		Id:    c.task.id,
		Done:  done,
		Total: total,
	})
}

func (c *taskController) Skip(reason string) {
	c.skipped = true
	c.skipReason = reason
}

func (c *taskController) Hide() {
	c.hide = true
}

func (c *taskController) AddSubTask(tasks ...*Task) {
	if c.subList == nil {
		c.subList = NewTaskList(nil)
	}

	c.subList.Tasks = append(c.subList.Tasks, tasks...)
}
