package main

import (
	"context"
	"errors"
	"os"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/pp"
	"github.com/spf13/cobra"

	"github.com/ImSingee/repobox/internal/app"
	"github.com/ImSingee/repobox/internal/selfupdate"
)

func selfUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Sync the self-update files with their upstream copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Config.SelfUpdateSource == "" {
				return ee.New("selfupdate.source is not configured")
			}

			changes, err := a.SelfUpdate(cmd.Context())
			printChanges(changes)
			if err != nil {
				return err
			}

			if len(changes) == 0 {
				pp.Println("Already up to date")
			}
			return nil
		},
	}
}

func printChanges(changes []selfupdate.Change) {
	for _, c := range changes {
		pp.BluePrintln(">>> Updated", c.File)
	}
}

// selfUpdateAndRestart runs the self-update before the menu and restarts
// the process once when any file changed
func selfUpdateAndRestart(ctx context.Context) error {
	if app.Restarted() {
		return nil
	}

	changes, err := a.SelfUpdate(ctx)
	if err != nil {
		// an unreachable upstream must not block the menu
		l("self-update failed: %v", err)
	}
	if len(changes) == 0 {
		return nil
	}

	printChanges(changes)

	code, err := selfupdate.Restart(os.Args[1:])
	if err != nil {
		if errors.Is(err, selfupdate.ErrAlreadyRestarted) {
			return nil
		}
		return err
	}

	closeLogger()
	os.Exit(code)
	return nil
}
