package search

import "sync"

// dirQueue is an unbounded blocking queue of directory entries shared by all
// producers.
//
// Put never blocks. This is load-bearing for the termination protocol: a
// producer that just discovered subdirectories still owes a decrement on the
// pending-work counter, and if its enqueue could block on a full queue while
// every other producer waited for work, the pipeline would deadlock. Bounding
// memory is the file queue's job, not this one's.
type dirQueue struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	entries  []*Entry
}

func newDirQueue() *dirQueue {
	q := &dirQueue{}
	q.notEmpty.L = &q.mu

	return q
}

// Put appends an entry to the queue and wakes one waiting taker.
func (q *dirQueue) Put(e *Entry) {
	q.mu.Lock()
	q.entries = append(q.entries, e)
	q.mu.Unlock()

	q.notEmpty.Signal()
}

// Take removes and returns the oldest entry, blocking while the queue is
// empty.
func (q *dirQueue) Take() *Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.entries) == 0 {
		q.notEmpty.Wait()
	}

	e := q.entries[0]
	q.entries = q.entries[1:]

	return e
}

// Len returns the current number of queued entries.
func (q *dirQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.entries)
}
