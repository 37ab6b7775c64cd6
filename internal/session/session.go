package session

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/mr"
	"github.com/ImSingee/go-ex/pp"

	"github.com/ImSingee/repobox/internal/catalog"
	"github.com/ImSingee/repobox/internal/lib/tl"
	"github.com/ImSingee/repobox/internal/lifecycle"
	"github.com/ImSingee/repobox/internal/menu"
)

type Prompter interface {
	Select(title string, items []menu.Item) (int, error)
	Confirm(question string) (bool, error)
}

type Action string

const (
	ActionDownload  Action = "Download"
	ActionStart     Action = "Start"
	ActionUninstall Action = "Uninstall"
	ActionUpdate    Action = "Update"
	ActionBack      Action = "Back"
)

var actions = []Action{ActionDownload, ActionStart, ActionUninstall, ActionUpdate, ActionBack}

// Session is the interactive menu loop
type Session struct {
	CatalogPath string
	// Version is compared with the minVersion of the catalog
	Version  string
	Manager  *lifecycle.Manager
	Prompter Prompter

	// RunnerOptions are applied to every task list
	RunnerOptions []tl.RunnerOption
}

// Run shows the menu until the user exits.
//
// The catalog is loaded again before every selection. A missing catalog ends
// the session after printing a message, action failures are printed and the
// loop goes on.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		c, err := catalog.Load(s.CatalogPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				pp.RedPrintln("Catalog not found:", s.CatalogPath)
				return nil
			}
			return ee.Wrap(err, "cannot load catalog")
		}
		for _, w := range c.Warnings() {
			pp.Println(pp.YellowString("WARN: %s", w).GetForStdout())
		}
		if err := c.CheckVersion(s.Version); err != nil {
			return err
		}

		e, err := s.selectEntry(c)
		if err != nil {
			if errors.Is(err, menu.ErrAborted) {
				return nil
			}
			return err
		}
		if e == nil {
			return nil
		}

		action, err := s.selectAction(e)
		if err != nil {
			if errors.Is(err, menu.ErrAborted) {
				continue
			}
			return err
		}
		if action == ActionBack {
			continue
		}

		s.report(e, action, s.Do(ctx, e, action))
	}
}

// selectEntry returns nil when Exit is chosen
func (s *Session) selectEntry(c *catalog.Catalog) (*catalog.Entry, error) {
	items := mr.Map(c.Entries, func(e *catalog.Entry, _index int) menu.Item {
		detail := e.Repo
		if e.Description != "" {
			detail = e.Description
		}
		if s.Manager.Installed(e) {
			detail = "[installed] " + detail
		}
		return menu.Item{Label: e.Name, Detail: detail}
	})
	items = append(items, menu.Item{Label: "Exit"})

	i, err := s.Prompter.Select("Select a repository", items)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(c.Entries) {
		return nil, nil
	}

	return c.Entries[i], nil
}

func (s *Session) selectAction(e *catalog.Entry) (Action, error) {
	items := mr.Map(actions, func(a Action, _index int) menu.Item {
		return menu.Item{Label: string(a)}
	})

	i, err := s.Prompter.Select(e.Name, items)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(actions) {
		return ActionBack, nil
	}

	return actions[i], nil
}

// Do runs one action on e
func (s *Session) Do(ctx context.Context, e *catalog.Entry, action Action) error {
	slog.Info("run action", "action", action, "name", e.Name)

	switch action {
	case ActionDownload:
		return s.download(ctx, e)
	case ActionStart:
		return s.start(ctx, e)
	case ActionUninstall:
		return s.uninstall(ctx, e)
	case ActionUpdate:
		return s.update(ctx, e)
	case ActionBack:
		return nil
	default:
		return ee.Errorf("unknown action %s", action)
	}
}

func (s *Session) report(e *catalog.Entry, action Action, err error) {
	switch {
	case err == nil:
	case errors.Is(err, lifecycle.ErrDeclined), errors.Is(err, menu.ErrAborted):
		pp.Println("Skipped, nothing changed")
	case errors.Is(err, tl.ErrCanceled):
		pp.RedPrintln("Canceled:", action, e.Name)
	default:
		slog.Error("action failed", "action", action, "name", e.Name, "error", err)
		pp.RedPrintln("ERROR:", err.Error())
	}
}

func (s *Session) confirm(question string) (bool, error) {
	ok, err := s.Prompter.Confirm(question)
	if errors.Is(err, menu.ErrAborted) {
		return false, nil
	}
	return ok, err
}

// task runs f as a task list with a progress bar and returns the first task error
func (s *Session) task(ctx context.Context, title string, f func(callback tl.TaskCallback) error) error {
	runner := tl.New([]*tl.Task{tl.NewTask(title, f)}).With(s.RunnerOptions...)

	err := runner.RunContext(ctx)
	if err == nil || errors.Is(err, tl.ErrCanceled) {
		return err
	}
	if first := runner.Result().FirstError(); first != nil {
		return first
	}
	return err
}

func printResult(r *lifecycle.InstallResult) {
	if r == nil {
		return
	}

	pp.Println(pp.GreenString("%d files written to %s", r.Files, r.Dir).GetForStdout())
	switch {
	case r.DepsErr != nil:
		pp.RedPrintln("Dependencies not installed:", r.DepsErr.Error())
	case r.DepsCommand != "":
		pp.Println("Dependencies installed with", r.DepsCommand)
	}
}
