package fsutil

import (
	"os"
	"path/filepath"

	"github.com/ImSingee/go-ex/ee"
)

// MkdirFor creates the parent directory chain of file and returns the directory
func MkdirFor(file string) (string, error) {
	d, err := filepath.Abs(file)
	if err != nil {
		return "", ee.Wrapf(err, "cannot get absolute path of %s", file)
	}

	d = filepath.Dir(d)

	err = os.MkdirAll(d, 0755)
	if err != nil {
		return "", ee.Wrapf(err, "cannot create directory %s", d)
	}

	return d, nil
}

func IsDir(p string) bool {
	stat, err := os.Stat(p)
	return err == nil && stat.IsDir()
}

func IsFile(p string) bool {
	stat, err := os.Stat(p)
	return err == nil && stat.Mode().IsRegular()
}
