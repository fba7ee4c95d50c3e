package search

import "sync/atomic"

// pendingCounter tracks directory entries that have been enqueued but not yet
// fully expanded.
//
// Invariant: the value equals the number of directories currently queued or
// in-flight. It is incremented before every directory-queue Put (including the
// initial roots) and decremented exactly once per finished expansion, whether
// or not that expansion discovered more work. The counter reaches zero exactly
// once per search, at the moment the last in-flight expansion completes with
// nothing left queued; the atomic decrement-and-read makes that zero-crossing
// observable by exactly one producer.
type pendingCounter struct {
	n atomic.Int64
}

// Inc records one newly enqueued directory.
func (c *pendingCounter) Inc() {
	c.n.Add(1)
}

// Dec records one finished expansion and returns the new value.
func (c *pendingCounter) Dec() int64 {
	return c.n.Add(-1)
}

// Value returns the current count.
func (c *pendingCounter) Value() int64 {
	return c.n.Load()
}
