package glob

import (
	"strings"

	"github.com/ImSingee/go-ex/ee"
	"github.com/gobwas/glob"
)

// Set is a list of compiled patterns matched against slash separated paths.
//
// A pattern without "/" only matches the base name, so "*.md" excludes
// markdown files in every directory while "docs/**" is anchored at the root.
type Set struct {
	patterns []string
	globs    []glob.Glob
}

func Compile(patterns ...string) (*Set, error) {
	s := &Set{
		patterns: make([]string, 0, len(patterns)),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, ee.Wrapf(err, "invalid pattern %q", p)
		}

		s.patterns = append(s.patterns, p)
		s.globs = append(s.globs, g)
	}

	return s, nil
}

func (s *Set) Empty() bool {
	return s == nil || len(s.globs) == 0
}

// Match returns the first pattern matching name
func (s *Set) Match(name string) (string, bool) {
	if s == nil {
		return "", false
	}

	for i, g := range s.globs {
		if Match(s.patterns[i], g, name) {
			return s.patterns[i], true
		}
	}

	return "", false
}

func Match(pattern string, g glob.Glob, name string) bool {
	if strings.Contains(pattern, "/") {
		return g.Match(name)
	} else {
		return g.Match(baseName(name))
	}
}

func baseName(name string) string {
	name = strings.TrimSuffix(name, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
