package app

import (
	"context"
	"os"

	"github.com/ImSingee/go-ex/ee"

	"github.com/ImSingee/repobox/internal/catalog"
	"github.com/ImSingee/repobox/internal/config"
	"github.com/ImSingee/repobox/internal/deps"
	"github.com/ImSingee/repobox/internal/github"
	"github.com/ImSingee/repobox/internal/lib/retry"
	"github.com/ImSingee/repobox/internal/lib/tl"
	"github.com/ImSingee/repobox/internal/lifecycle"
	"github.com/ImSingee/repobox/internal/materialize"
	"github.com/ImSingee/repobox/internal/menu"
	"github.com/ImSingee/repobox/internal/selfupdate"
	"github.com/ImSingee/repobox/internal/session"
	"github.com/ImSingee/repobox/internal/version"
)

// App holds every component built from one Config
type App struct {
	Config   *config.Config
	GitHub   *github.Client
	Manager  *lifecycle.Manager
	Prompter session.Prompter

	RunnerOptions []tl.RunnerOption
}

func New(c *config.Config) *App {
	gh := github.NewClient(github.Options{
		APIBase:   c.GitHubAPI,
		RawBase:   c.GitHubRaw,
		Token:     c.GitHubToken,
		UserAgent: "repobox/" + version.Version(),
		Timeout:   c.HTTPTimeout,
	})

	policy := retry.WithRetries(c.FetchRetries, c.FetchDelay)
	policy.Name = "fetch"
	m := materialize.New(gh, materialize.NewFetcher(gh, policy))

	return &App{
		Config: c,
		GitHub: gh,
		Manager: lifecycle.New(lifecycle.Options{
			Root:           c.Root,
			Materializer:   m,
			Deps:           deps.NewInstaller(),
			RemoveAttempts: c.RemoveAttempts,
			RemoveDelay:    c.RemoveDelay,
		}),
		Prompter: menu.NewPrompter(c.Theme),
	}
}

func (a *App) Catalog() (*catalog.Catalog, error) {
	c, err := catalog.Load(a.Config.Catalog)
	if err != nil {
		return nil, err
	}
	if err := c.CheckVersion(version.Version()); err != nil {
		return nil, err
	}
	return c, nil
}

// Entry finds a catalog entry by name or folder
func (a *App) Entry(key string) (*catalog.Entry, error) {
	c, err := a.Catalog()
	if err != nil {
		return nil, err
	}

	e, ok := c.Find(key)
	if !ok {
		return nil, ee.Errorf("%s is not in the catalog %s", key, a.Config.Catalog)
	}
	return e, nil
}

func (a *App) Session() *session.Session {
	return &session.Session{
		CatalogPath:   a.Config.Catalog,
		Version:       version.Version(),
		Manager:       a.Manager,
		Prompter:      a.Prompter,
		RunnerOptions: a.RunnerOptions,
	}
}

// SelfUpdate syncs the configured files with upstream, it does nothing without selfupdate.source
func (a *App) SelfUpdate(ctx context.Context) ([]selfupdate.Change, error) {
	if a.Config.SelfUpdateSource == "" {
		return nil, nil
	}

	repo, branch, err := selfupdate.ParseSource(a.Config.SelfUpdateSource)
	if err != nil {
		return nil, err
	}

	u := &selfupdate.Updater{
		Source:    a.GitHub,
		Repo:      repo,
		Branch:    branch,
		Dir:       a.Config.Root,
		Files:     a.Config.SelfUpdateFiles,
		PublicKey: a.Config.SelfUpdatePublicKey,
	}
	return u.Run(ctx)
}

// Restarted reports whether this process was started by a self-update restart
func Restarted() bool {
	return os.Getenv(selfupdate.RestartedEnv) == "1"
}
