package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ImSingee/go-ex/ee"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Debug is set by the --debug flag
var Debug bool

const EnvPrefix = "REPOBOX"

type Config struct {
	// Root is the absolute install root every catalog folder is relative to
	Root    string
	Catalog string
	File    string // config file in use, empty when none was found

	FetchRetries   int
	FetchDelay     time.Duration
	RemoveAttempts int
	RemoveDelay    time.Duration

	GitHubAPI   string
	GitHubRaw   string
	GitHubToken string
	HTTPTimeout time.Duration

	LogFile  string
	LogLevel string
	Theme    string

	SelfUpdateSource    string
	SelfUpdateFiles     []string
	SelfUpdatePublicKey string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.retries", 3)
	v.SetDefault("fetch.delay", time.Second)
	v.SetDefault("remove.attempts", 5)
	v.SetDefault("remove.delay", 500*time.Millisecond)
	v.SetDefault("github.api", "https://api.github.com")
	v.SetDefault("github.raw", "https://raw.githubusercontent.com")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("theme", "mocha")
	v.SetDefault("selfupdate.files", []string{"catalog.json"})
}

// DefaultPath returns $XDG_CONFIG_HOME/repobox/config.yaml
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "repobox", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "repobox", "config.yaml")
	}
	return filepath.Join(home, ".config", "repobox", "config.yaml")
}

// Load merges (by priority) flags, REPOBOX_* environment variables, the config file and defaults.
//
// file is optional, a missing default config file is not an error.
// flags may contain "root" and "catalog".
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, name := range []string{"root", "catalog"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, ee.Wrapf(err, "cannot bind flag %s", name)
				}
			}
		}
	}

	explicit := file != ""
	if !explicit {
		file = DefaultPath()
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !IsNotExist(err) {
			return nil, ee.Wrapf(err, "cannot read config file %s", file)
		}
	}

	c := &Config{
		Root:                v.GetString("root"),
		Catalog:             v.GetString("catalog"),
		File:                v.ConfigFileUsed(),
		FetchRetries:        v.GetInt("fetch.retries"),
		FetchDelay:          v.GetDuration("fetch.delay"),
		RemoveAttempts:      v.GetInt("remove.attempts"),
		RemoveDelay:         v.GetDuration("remove.delay"),
		GitHubAPI:           v.GetString("github.api"),
		GitHubRaw:           v.GetString("github.raw"),
		GitHubToken:         v.GetString("github.token"),
		HTTPTimeout:         v.GetDuration("http.timeout"),
		LogFile:             v.GetString("log.file"),
		LogLevel:            v.GetString("log.level"),
		Theme:               v.GetString("theme"),
		SelfUpdateSource:    v.GetString("selfupdate.source"),
		SelfUpdateFiles:     v.GetStringSlice("selfupdate.files"),
		SelfUpdatePublicKey: v.GetString("selfupdate.publicKey"),
	}
	if !fileExists(c.File) {
		c.File = ""
	}

	if err := c.resolve(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) resolve() error {
	if c.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ee.Wrap(err, "cannot get working directory")
		}
		c.Root = wd
	}

	root, err := filepath.Abs(c.Root)
	if err != nil {
		return ee.Wrapf(err, "cannot get absolute path of %s", c.Root)
	}
	c.Root = root

	if c.Catalog == "" {
		c.Catalog = filepath.Join(c.Root, "catalog.json")
	} else if c.Catalog, err = filepath.Abs(c.Catalog); err != nil {
		return ee.Wrap(err, "cannot get absolute path of catalog")
	}

	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.Root, ".repobox", "repobox.log")
	}

	if c.GitHubToken == "" {
		c.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	if c.FetchRetries < 0 {
		return ee.Wrapf(ErrInvalid, "fetch.retries must not be negative (got %d)", c.FetchRetries)
	}
	if c.RemoveAttempts < 1 {
		return ee.Wrapf(ErrInvalid, "remove.attempts must be at least 1 (got %d)", c.RemoveAttempts)
	}
	if c.FetchDelay < 0 || c.RemoveDelay < 0 {
		return ee.Wrap(ErrInvalid, "delays must not be negative")
	}

	return nil
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}
