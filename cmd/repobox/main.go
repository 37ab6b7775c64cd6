package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/pp"
	"github.com/spf13/cobra"

	"github.com/ImSingee/repobox/internal/app"
	"github.com/ImSingee/repobox/internal/config"
	"github.com/ImSingee/repobox/internal/lib/xlog"
	"github.com/ImSingee/repobox/internal/version"
)

const help = `Browse a catalog of GitHub repositories, download one into a local folder,
install its dependencies and start it.

Run without arguments for the interactive menu.`

var (
	a      *app.App
	logger *xlog.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "repobox",
		Long:          help,
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// for global flags
	flags := root.PersistentFlags()
	flags.SortFlags = false
	flags.StringP("root", "R", "", "install root (default: current directory)")
	flags.StringP("catalog", "c", "", "catalog file (default: <root>/catalog.json)")
	flags.String("config", "", "config file (default: "+config.DefaultPath()+")")
	flags.BoolVar(&config.Debug, "debug", false, "print additional debug information")
	flags.BoolP("quiet", "q", false, "quiet mode (hide any output)")
	flags.Bool("no-self-update", false, "do not sync files with the self-update source")

	root.PersistentPreRunE = setup
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if skip, _ := cmd.Flags().GetBool("no-self-update"); !skip {
			if err := selfUpdateAndRestart(cmd.Context()); err != nil {
				return err
			}
		}

		return a.Session().Run(cmd.Context())
	}

	root.AddCommand(
		listCommand(),
		actionCommand("install", "Download a repository and install its dependencies", actionInstall),
		actionCommand("update", "Remove a repository and download it again", actionUpdate),
		actionCommand("uninstall", "Remove a downloaded repository", actionUninstall),
		actionCommand("start", "Start a downloaded repository in the background", actionStart),
		selfUpdateCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	// run!
	err := root.ExecuteContext(ctx)
	stop()
	closeLogger()
	if err != nil {
		if !ee.Is(err, ee.Phantom) {
			l("Error: %v", err)
		}

		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		if null, _ := os.Open(os.DevNull); null != nil {
			os.Stdout = null
			os.Stderr = null
		}

		pp.Stdout.ChangeWriter(io.Discard)
		pp.Stderr.ChangeWriter(io.Discard)
	}

	file, _ := cmd.Flags().GetString("config")
	c, err := config.Load(file, cmd.Flags())
	if err != nil {
		return err
	}

	if quiet {
		slog.SetDefault(xlog.DisabledLogger)
	} else { // setup logger
		o := xlog.Options{File: c.LogFile, Level: c.LogLevel}
		if config.Debug {
			o.Console = os.Stderr
		}

		logger, err = xlog.New(o)
		if err != nil {
			l("cannot write log file, logging disabled: %v", err)
			slog.SetDefault(xlog.DisabledLogger)
		} else {
			slog.SetDefault(logger.Logger)
		}
	}

	slog.Debug("Config loaded", "file", c.File, "root", c.Root, "catalog", c.Catalog)

	a = app.New(c)
	return nil
}

func closeLogger() {
	if logger != nil {
		_ = logger.Close()
	}
}

func l(msg string, args ...any) {
	s := msg
	if len(args) != 0 {
		s = fmt.Sprintf(msg, args...)
	}

	_, _ = os.Stderr.Write([]byte("repobox - " + strings.TrimSpace(s) + "\n"))
}
