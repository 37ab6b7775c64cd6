package lifecycle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ImSingee/go-ex/ee"
	"github.com/ImSingee/go-ex/exjson"

	"github.com/ImSingee/repobox/internal/catalog"
	"github.com/ImSingee/repobox/internal/lib/fsutil"
)

// InstallRecord is written after a successful install.
// It lives outside the installation folder and is informational only,
// whether an entry is installed is decided by the folder alone.
type InstallRecord struct {
	Name        string    `json:"name"`
	Repo        string    `json:"repo"`
	Branch      string    `json:"branch"`
	Files       int       `json:"files"`
	InstalledAt time.Time `json:"installedAt"`
}

func (m *Manager) recordPath(e *catalog.Entry) string {
	name := strings.ReplaceAll(filepath.ToSlash(e.Folder), "/", "%2F")
	return m.stateDir("installs", name+".json")
}

// Record returns the install record of e, errors.Is(err, os.ErrNotExist) when there is none
func (m *Manager) Record(e *catalog.Entry) (*InstallRecord, error) {
	p := m.recordPath(e)
	if _, err := os.Stat(p); err != nil {
		return nil, err
	}

	r := &InstallRecord{}
	if err := exjson.Read(p, r); err != nil {
		return nil, ee.Wrapf(err, "cannot read install record %s", p)
	}
	return r, nil
}

func (m *Manager) writeRecord(e *catalog.Entry, files int) error {
	r := &InstallRecord{
		Name:        e.Name,
		Repo:        e.Repo,
		Branch:      e.Branch,
		Files:       files,
		InstalledAt: m.now().UTC(),
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return ee.Wrap(err, "cannot encode install record")
	}

	return fsutil.WriteFile(m.recordPath(e), data, 0644)
}

func (m *Manager) removeRecord(e *catalog.Entry) {
	_ = os.Remove(m.recordPath(e))
}
