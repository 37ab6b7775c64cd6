package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ysmood/gson"
)

func parseCatalog(data []byte) (*Catalog, error) {
	doc := gson.New(data)

	c := &Catalog{}

	var raw []gson.JSON
	if doc.Has("entries") {
		c.MinVersion = str(doc.Get("minVersion"))
		raw = doc.Get("entries").Arr()
	} else {
		raw = doc.Arr()
	}

	folders := make(map[string]string, len(raw))
	for i, j := range raw {
		e, err := parseEntry(j.Map())
		if err != nil {
			return nil, ee.Wrapf(err, "entry %d", i)
		}

		// Folder is already cleaned, "demo/" and "./demo" share a key
		if other, ok := folders[e.Folder]; ok {
			c.warnings = append(c.warnings, fmt.Sprintf("%s and %s share folder %s", other, e.Name, e.Folder))
		} else {
			folders[e.Folder] = e.Name
		}

		c.Entries = append(c.Entries, e)
	}

	return c, nil
}

func parseEntry(m map[string]gson.JSON) (*Entry, error) {
	e := &Entry{
		Name:           str(m["name"]),
		Description:    str(m["description"]),
		Repo:           str(m["repo"]),
		Branch:         str(m["branch"]),
		Folder:         str(m["folder"]),
		StartFile:      str(m["startFile"]),
		StartCommand:   str(m["startCommand"]),
		InstallCommand: str(m["installCommand"]),
	}

	if e.Branch == "" {
		e.Branch = DefaultBranch
	}

	for _, p := range m["exclude"].Arr() {
		e.Exclude = append(e.Exclude, str(p))
	}

	// "." and "a/.." are local but name the install root itself
	clean := filepath.Clean(filepath.FromSlash(e.Folder))
	if clean == "." || !filepath.IsLocal(clean) {
		return nil, ee.Errorf("folder %q of %s must be a relative path inside the install root", e.Folder, e.Name)
	}
	e.Folder = filepath.ToSlash(clean)
	if top, _, _ := strings.Cut(e.Folder, "/"); top == ReservedFolder {
		return nil, ee.Errorf("folder %q of %s is reserved", e.Folder, e.Name)
	}

	if e.StartFile != "" && !filepath.IsLocal(filepath.FromSlash(e.StartFile)) {
		return nil, ee.Errorf("startFile %q of %s must be a relative path inside the folder", e.StartFile, e.Name)
	}

	return e, nil
}

func str(j gson.JSON) string {
	s, _ := j.Val().(string)
	return s
}
