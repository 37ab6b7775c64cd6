package fsutil

import (
	"os"
	"path/filepath"

	"github.com/ImSingee/go-ex/ee"
)

// WriteFile writes data to a temp file next to dst and renames it into place.
// The parent directories of dst are created when missing.
//
// dst is either fully replaced or untouched.
func WriteFile(dst string, data []byte, perm os.FileMode) error {
	dir, err := MkdirFor(dst)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return ee.Wrapf(err, "cannot create temp file for %s", dst)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	_, err = f.Write(data)
	if err != nil {
		_ = f.Close()
		return ee.Wrapf(err, "cannot write data for %s", dst)
	}

	err = f.Close()
	if err != nil {
		return ee.Wrapf(err, "cannot save and close file for %s", dst)
	}

	err = os.Chmod(tmp, perm)
	if err != nil {
		return ee.Wrapf(err, "cannot change mode of %s", dst)
	}

	err = Rename(tmp, dst)
	if err != nil {
		return ee.Wrapf(err, "cannot move file into %s", dst)
	}

	return nil
}
