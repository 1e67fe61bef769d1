// Package globs matches repository paths against `changes:` and `exists:`
// patterns.
//
// Patterns follow fnmatch with pathname semantics: `*` and `?` stay inside a
// path segment, `**/` spans any number of directories, `{a,b}` alternation
// is supported and dotfiles are matched like any other file. Paths are
// repository-relative, so a pattern with a leading slash never matches.
package globs

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const metaChars = `*?[{\`

// IsPattern reports whether p contains glob syntax. Anything else is an
// exact path.
func IsPattern(p string) bool {
	return strings.ContainsAny(p, metaChars)
}

// Valid reports whether p is a well formed pattern
func Valid(p string) bool {
	return doublestar.ValidatePattern(p)
}

// Match reports whether path matches pattern. Malformed patterns match
// nothing.
func Match(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}

// Set is a list of patterns split into exact paths and real globs
type Set struct {
	exact    []string
	patterns []string
}

// NewSet classifies patterns. Empty entries are dropped.
func NewSet(patterns []string) *Set {
	s := &Set{}
	for _, p := range patterns {
		switch {
		case p == "":
			continue
		case IsPattern(p):
			s.patterns = append(s.patterns, p)
		default:
			s.exact = append(s.exact, p)
		}
	}
	return s
}

// Empty reports whether the set has nothing to match
func (s *Set) Empty() bool {
	return len(s.exact) == 0 && len(s.patterns) == 0
}

// Patterns returns the glob entries
func (s *Set) Patterns() []string {
	return s.patterns
}

// Exact returns the exact path entries
func (s *Set) Exact() []string {
	return s.exact
}

// MatchAny reports whether any pattern matches any path
func (s *Set) MatchAny(paths []string) bool {
	if s.Empty() {
		return false
	}
	if len(s.exact) > 0 {
		index := Index(paths)
		if s.matchExact(index) {
			return true
		}
	}
	for _, path := range paths {
		for _, pattern := range s.patterns {
			if Match(pattern, path) {
				return true
			}
		}
	}
	return false
}

// MatchBudgeted is MatchAny over an indexed path set with a cap on glob
// comparisons. Exact entries are set lookups and cost nothing. exhausted is
// true when the cap was exceeded before a match was found.
func (s *Set) MatchBudgeted(index map[string]struct{}, paths []string, budget int) (matched, exhausted bool) {
	if s.matchExact(index) {
		return true, false
	}
	comparisons := 0
	for _, pattern := range s.patterns {
		for _, path := range paths {
			comparisons++
			if budget > 0 && comparisons > budget {
				return false, true
			}
			if Match(pattern, path) {
				return true, false
			}
		}
	}
	return false, false
}

func (s *Set) matchExact(index map[string]struct{}) bool {
	for _, p := range s.exact {
		if _, ok := index[p]; ok {
			return true
		}
	}
	return false
}

// Index builds a lookup set over paths
func Index(paths []string) map[string]struct{} {
	index := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		index[p] = struct{}{}
	}
	return index
}
