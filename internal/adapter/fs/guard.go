package fs

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Guard decides whether a file is eligible for rewriting, based on
// include/exclude glob patterns. It keeps the tool away from binaries,
// vendored trees and its own .bak siblings.
type Guard struct {
	includes []string
	excludes []string
}

func NewGuard(includes, excludes []string) *Guard {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Guard{
		includes: includes,
		excludes: excludes,
	}
}

// Allows reports whether the path matches an include pattern and no exclude
// pattern. Matching is done on the slash-normalized path and, for bare
// filename patterns, on the base name.
func (g *Guard) Allows(path string) bool {
	norm := strings.TrimPrefix(filepath.ToSlash(path), "/")

	for _, pattern := range g.excludes {
		if matched, _ := doublestar.Match(pattern, norm); matched {
			return false
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(norm)); matched {
			return false
		}
	}

	for _, pattern := range g.includes {
		if matched, _ := doublestar.Match(pattern, norm); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(norm)); matched {
			return true
		}
	}
	return false
}
