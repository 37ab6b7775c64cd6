package main

import (
	"errors"
	"os"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/pp"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ImSingee/repobox/internal/lifecycle"
	"github.com/ImSingee/repobox/internal/menu"
	"github.com/ImSingee/repobox/internal/session"
)

const (
	actionInstall   = session.ActionDownload
	actionUpdate    = session.ActionUpdate
	actionUninstall = session.ActionUninstall
	actionStart     = session.ActionStart
)

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.Catalog()
			if err != nil {
				return ee.Wrap(err, "cannot load catalog")
			}

			for _, w := range c.Warnings() {
				l("WARN: %s", w)
			}

			for _, e := range c.Entries {
				mark := "  "
				if a.Manager.Installed(e) {
					mark = pp.GreenString("✔ ").GetForStdout()
				}

				pp.Printf("%s%s\t%s@%s\t%s\n", mark, e.Name, e.Repo, e.Branch, e.Folder)
				if e.Description != "" {
					pp.Printf("  \t%s\n", e.Description)
				}
			}

			return nil
		},
	}
}

// yesPrompter answers yes to every question
type yesPrompter struct {
	session.Prompter
}

func (yesPrompter) Confirm(string) (bool, error) {
	return true, nil
}

// noPrompter declines every question, it is used when nobody can answer
type noPrompter struct {
	session.Prompter
}

func (noPrompter) Confirm(question string) (bool, error) {
	l("%s (use --yes to confirm)", question)
	return false, nil
}

func actionCommand(use, short string, action session.Action) *cobra.Command {
	yes := false

	cmd := &cobra.Command{
		Use:   use + " <name|folder>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Entry(args[0])
			if err != nil {
				return err
			}

			s := a.Session()
			switch {
			case yes:
				s.Prompter = yesPrompter{s.Prompter}
			case !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()):
				s.Prompter = noPrompter{s.Prompter}
			}

			err = s.Do(cmd.Context(), e, action)
			if errors.Is(err, lifecycle.ErrDeclined) || errors.Is(err, menu.ErrAborted) {
				l("%s skipped, nothing changed", e.Name)
				return ee.Phantom
			}
			return err
		},
	}

	if action == session.ActionDownload {
		cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite an existing folder without asking")
	}

	return cmd
}
