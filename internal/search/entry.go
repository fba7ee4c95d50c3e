// Package search implements a concurrent filesystem tree search.
//
// A search runs as a multi-producer/single-consumer pipeline: N directory
// producers pull pending directories from an unbounded queue, list their
// children, route subdirectories back into the directory queue and everything
// else into a bounded file queue, and a single consumer drains the file queue
// filtering by exact name match. Termination across the dynamically-discovered
// tree is detected with a shared atomic counter of in-flight directory
// expansions; the producer that observes the counter reach zero broadcasts a
// poison-pill sentinel to shut the pipeline down.
package search

// Entry is a single visited filesystem entry: an absolute path plus a cheap
// directory/non-directory classification. No other metadata is retained.
type Entry struct {
	// Path is the absolute path of the entry.
	Path string

	// IsDir reports whether the entry is a directory.
	IsDir bool
}

// newSentinel returns the poison-pill entry for one search invocation.
//
// The sentinel is distinguished by pointer identity, never by value: a real
// filesystem entry can never compare equal to it, no matter what path it
// carries. Each invocation allocates its own sentinel so two concurrent
// searches cannot observe each other's shutdown signal.
func newSentinel() *Entry {
	return &Entry{}
}
