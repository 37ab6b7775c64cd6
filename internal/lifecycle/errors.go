package lifecycle

import (
	"fmt"
)

var (
	ErrDeclined         = fmt.Errorf("overwrite declined")
	ErrNotInstalled     = fmt.Errorf("not installed")
	ErrStartFileMissing = fmt.Errorf("start file missing")
	ErrUpdateIncomplete = fmt.Errorf("update incomplete, the previous installation was removed")
	ErrBusy             = fmt.Errorf("another repobox process is working on this install root")
	ErrFilesystem       = fmt.Errorf("filesystem error")
)

// FilesystemError is returned when a folder could not be removed within the allowed attempts
type FilesystemError struct {
	Path     string
	Attempts int
	Err      error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("cannot remove %s after %d attempts: %v", e.Path, e.Attempts, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}
