package search

import (
	"path/filepath"
	"strings"
)

// DefaultSkipPaths are the pseudo/system filesystem prefixes excluded from
// traversal by default. Walking /proc or /sys yields kernel state, not user
// files, and /dev enumeration can block on device nodes.
var DefaultSkipPaths = []string{"/proc", "/sys", "/dev", "/cdrom"}

// skipList decides which directories are excluded from traversal entirely:
// they are neither expanded nor forwarded to the file queue.
type skipList struct {
	prefixes []string
}

func newSkipList(prefixes []string) *skipList {
	cleaned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			continue
		}

		cleaned = append(cleaned, filepath.Clean(p))
	}

	return &skipList{prefixes: cleaned}
}

// Match reports whether the absolute path absPath should be skipped.
//
// A path is skipped when any of its segments starts with a dot (hidden
// entries) or when it equals or descends from one of the configured skip
// prefixes.
func (s *skipList) Match(absPath string) bool {
	if containsHiddenSegment(absPath) {
		return true
	}

	for _, prefix := range s.prefixes {
		if absPath == prefix || strings.HasPrefix(absPath, prefix+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// containsHiddenSegment reports whether any path segment starts with ".".
// The root segment "/" and the segments "." / ".." produced by Clean are not
// considered hidden.
func containsHiddenSegment(absPath string) bool {
	for _, seg := range strings.Split(absPath, string(filepath.Separator)) {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}

		if strings.HasPrefix(seg, ".") {
			return true
		}
	}

	return false
}
