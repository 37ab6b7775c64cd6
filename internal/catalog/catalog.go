package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/exjson"
	"github.com/ImSingee/go-ex/mr"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

const DefaultBranch = "main"

// ReservedFolder holds repobox's own state inside the install root
const ReservedFolder = ".repobox"

var ErrInvalid = fmt.Errorf("invalid catalog")

// Entry is one installable repository
type Entry struct {
	Name           string
	Description    string
	Repo           string
	Branch         string
	Folder         string
	StartFile      string
	StartCommand   string
	InstallCommand string
	Exclude        []string
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s (%s@%s)", e.Name, e.Repo, e.Branch)
}

type Catalog struct {
	Path       string
	MinVersion string
	Entries    []*Entry

	warnings []string
}

// Load reads the catalog from path.
//
// A missing file results in an error satisfying errors.Is(err, os.ErrNotExist)
func Load(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ee.Wrapf(err, "cannot find catalog %s", path)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ee.Wrapf(err, "cannot read catalog %s", path)
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, ee.Wrapf(ErrInvalid, "%s: %v", path, err)
		}
	default:
		if err := exjson.Read(path, &doc); err != nil {
			return nil, ee.Wrapf(ErrInvalid, "%s: %v", path, err)
		}
	}

	c, err := fromDocument(doc)
	if err != nil {
		return nil, ee.Wrapf(err, "catalog %s", path)
	}
	c.Path = path

	return c, nil
}

// Parse reads a JSON encoded catalog
func Parse(data []byte) (*Catalog, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ee.Wrapf(ErrInvalid, "%v", err)
	}

	return fromDocument(doc)
}

func fromDocument(doc any) (*Catalog, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, ee.Wrapf(ErrInvalid, "%v", err)
	}

	issues, err := validate(data)
	if err != nil {
		return nil, err
	}
	if len(issues) != 0 {
		return nil, ee.Wrapf(ErrInvalid, "%s", strings.Join(mr.Map(issues, func(i Issue, _index int) string {
			return i.String()
		}), "; "))
	}

	c, err := parseCatalog(data)
	if err != nil {
		return nil, ee.Wrapf(ErrInvalid, "%v", err)
	}

	return c, nil
}

// Find returns the entry whose name or folder equals key
func (c *Catalog) Find(key string) (*Entry, bool) {
	for _, e := range c.Entries {
		if e.Name == key || e.Folder == key {
			return e, true
		}
	}
	for _, e := range c.Entries {
		if strings.EqualFold(e.Name, key) {
			return e, true
		}
	}

	return nil, false
}

// Warnings are problems that do not prevent the catalog from being used
func (c *Catalog) Warnings() []string {
	return c.warnings
}

// CheckVersion fails if the catalog requires a newer repobox than current.
// Unparsable current versions (development builds) always pass.
func (c *Catalog) CheckVersion(current string) error {
	if c.MinVersion == "" {
		return nil
	}

	cur, err := semver.NewVersion(current)
	if err != nil {
		return nil
	}

	required, err := semver.NewVersion(c.MinVersion)
	if err != nil {
		return ee.Wrapf(ErrInvalid, "invalid minVersion %q", c.MinVersion)
	}

	if cur.LessThan(required) {
		return ee.Errorf("this catalog requires repobox %s or later (current %s), please upgrade", required, cur)
	}

	return nil
}
