package fsutil

import (
	"errors"
	"os"
	"syscall"

	"github.com/ImSingee/go-ex/ee"
)

// Rename is os.Rename with a copy-and-remove fallback across devices
func Rename(oldpath, newpath string) error {
	err := os.Rename(oldpath, newpath)
	if err == nil {
		return nil
	}

	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	return moveFile(oldpath, newpath)
}

func moveFile(oldpath, newpath string) error {
	err := copyFile(oldpath, newpath)
	if err != nil {
		return ee.Wrapf(err, "rename %s -> %s: cannot copy file", oldpath, newpath)
	}
	err = os.Remove(oldpath)
	if err != nil {
		return ee.Wrapf(err, "rename %s -> %s: cannot remove old file", oldpath, newpath)
	}

	return nil
}
