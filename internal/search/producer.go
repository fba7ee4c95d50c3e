package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// pipeline holds the shared state of one search invocation. Queues, counter
// and sentinel are created per invocation and discarded with it; nothing
// persists across searches.
type pipeline struct {
	target    string
	producers int

	dirs     *dirQueue
	files    chan *Entry
	pending  pendingCounter
	sentinel *Entry

	skip        *skipList
	log         Logger
	onListError func(path string, err error)

	dirsExpanded atomic.Int64
	filesQueued  atomic.Int64
	dirsSkipped  atomic.Int64
	listErrors   atomic.Int64
}

// runProducer is the directory-expansion worker loop.
//
// Each iteration takes one entry from the directory queue. A sentinel is
// re-broadcast before exiting so that a sibling producer also observes it; a
// real entry is expanded, and the producer that brings the pending counter to
// zero afterwards is the one responsible for initiating global shutdown. That
// producer keeps looping and exits by pulling one of its own broadcast
// sentinels, the same way every other producer does.
func (p *pipeline) runProducer() {
	for {
		entry := p.dirs.Take()
		if entry == p.sentinel {
			p.dirs.Put(p.sentinel)

			return
		}

		p.expand(entry)

		if p.pending.Dec() == 0 {
			// Tree exhausted. Exactly one producer observes the zero
			// crossing; it ends the consumer and every producer.
			p.files <- p.sentinel

			for i := 0; i < p.producers; i++ {
				p.dirs.Put(p.sentinel)
			}
		}
	}
}

// expand lists one directory's immediate children and routes them:
// subdirectories back to the directory queue (counted first, so the pending
// counter never under-reads), everything else to the file queue. Entries
// matching the skip predicate are dropped entirely: not expanded, not counted,
// not forwarded.
//
// Listing failures (permission denied, entry vanished mid-walk) are treated as
// zero children. They never abort the walk; they are counted and reported
// through the optional hook so callers can decide whether silence is
// acceptable.
func (p *pipeline) expand(dir *Entry) {
	children, err := os.ReadDir(dir.Path)
	if err != nil {
		p.listErrors.Add(1)

		if p.log != nil {
			p.log.LogDebug(fmt.Sprintf("list %s: %v", dir.Path, err))
		}

		if p.onListError != nil {
			p.onListError(dir.Path, err)
		}

		children = nil
	}

	for _, child := range children {
		path := filepath.Join(dir.Path, child.Name())
		isDir := child.IsDir()

		if p.skip.Match(path) {
			if isDir {
				p.dirsSkipped.Add(1)
			}

			continue
		}

		if isDir {
			p.pending.Inc()
			p.dirs.Put(&Entry{Path: path, IsDir: true})

			continue
		}

		// Blocks while the file queue is full: backpressure on the
		// producers bounds peak memory when the consumer lags.
		p.files <- &Entry{Path: path}
		p.filesQueued.Add(1)
	}

	p.dirsExpanded.Add(1)
}
