package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ImSingee/go-ex/ee"
)

// copyFile overwrites to with the content and mode of from
func copyFile(from, to string) error {
	from = filepath.Clean(from)
	to = filepath.Clean(to)
	if from == to {
		return nil
	}

	fromF, err := os.Open(from)
	if err != nil {
		return ee.Wrapf(err, "cannot open source file %s", from)
	}
	defer fromF.Close()

	stat, err := fromF.Stat()
	if err != nil {
		return ee.Wrapf(err, "cannot stat source file %s", from)
	}

	toF, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stat.Mode())
	if err != nil {
		return ee.Wrapf(err, "cannot open destination file %s", to)
	}
	defer toF.Close()

	_, err = io.Copy(toF, fromF)
	if err != nil {
		return ee.Wrap(err, "cannot copy data")
	}

	return toF.Close()
}
