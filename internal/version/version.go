package version

import (
	"fmt"
	"runtime"
)

// set by -ldflags "-X github.com/ImSingee/repobox/internal/version.version=..."
var (
	version = "DEV"
	commit  = ""
	buildAt = ""
)

func Version() string {
	return version
}

// IsDev reports whether this is a build without a release version
func IsDev() bool {
	return version == "DEV"
}

func Commit() string {
	return commit
}

func BuildAt() string {
	return buildAt
}

func String() string {
	s := version
	if commit != "" {
		s += "\nCommit: " + commit
	}
	if buildAt != "" {
		s += "\nBuild At: " + buildAt
	}
	return s + fmt.Sprintf("\nGo: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
