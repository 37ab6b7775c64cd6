package github

import "fmt"

var (
	// ErrNetwork means the request could not be completed or GitHub answered with an unexpected status
	ErrNetwork = fmt.Errorf("network error")
	// ErrNotFound means the repository, branch or file does not exist
	ErrNotFound = fmt.Errorf("not found")
)
