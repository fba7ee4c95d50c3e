package search

import (
	"os"
	"runtime"
)

// DefaultRoots returns the root directories to seed a whole-machine search.
//
// On Windows every mounted drive letter is a distinct tree root, so each
// existing drive is returned; on single-root filesystems the sole root "/" is
// returned.
func DefaultRoots() []string {
	if runtime.GOOS == "windows" {
		return windowsDriveRoots()
	}

	return []string{"/"}
}

// windowsDriveRoots probes A: through Z: and returns the drives that exist.
func windowsDriveRoots() []string {
	var roots []string

	for letter := 'A'; letter <= 'Z'; letter++ {
		root := string(letter) + `:\`
		if _, err := os.Stat(root); err == nil {
			roots = append(roots, root)
		}
	}

	return roots
}
