package search

import (
	"fmt"
	"sync"
	"time"
)

// Default tunables, matching the reference behavior of a whole-machine name
// search: enough producers to keep directory I/O busy, a file queue large
// enough to smooth bursts without letting memory grow with tree size.
const (
	DefaultProducers         = 6
	DefaultFileQueueCapacity = 10000
)

// Logger receives diagnostic messages from a running search. It is satisfied
// by logger.ConsoleLogger; a nil Logger disables logging.
type Logger interface {
	LogDebug(message string)
}

// Options configures a Searcher. The zero value is usable: every field falls
// back to its default.
type Options struct {
	// Producers is the number of concurrent directory-expansion workers.
	Producers int

	// FileQueueCapacity bounds the queue between producers and the consumer.
	// Producers block when it is full.
	FileQueueCapacity int

	// Roots are the directories to seed a Find call with. Empty means the
	// host defaults (drive letters on Windows, "/" elsewhere).
	Roots []string

	// SkipPaths are absolute prefixes excluded from traversal. Nil means
	// DefaultSkipPaths; use an empty non-nil slice to disable prefix
	// skipping (hidden-segment skipping always applies).
	SkipPaths []string

	// Logger, when non-nil, receives search lifecycle and debug messages.
	Logger Logger

	// OnListError, when non-nil, is invoked for every directory listing
	// failure. Failures never abort the walk either way.
	OnListError func(path string, err error)
}

// Stats summarizes one completed search.
type Stats struct {
	DirsExpanded int64
	FilesQueued  int64
	DirsSkipped  int64
	ListErrors   int64
	Matches      int
	Duration     time.Duration
}

// Searcher runs concurrent filesystem name searches. It is safe for
// concurrent use; each call runs an independent pipeline.
type Searcher struct {
	opts Options

	mu        sync.Mutex
	lastStats Stats
}

// New returns a Searcher with defaults applied for unset options.
func New(opts Options) (*Searcher, error) {
	if opts.Producers == 0 {
		opts.Producers = DefaultProducers
	}

	if opts.Producers < 0 {
		return nil, fmt.Errorf("producers must be > 0, got %d", opts.Producers)
	}

	if opts.FileQueueCapacity == 0 {
		opts.FileQueueCapacity = DefaultFileQueueCapacity
	}

	if opts.FileQueueCapacity < 0 {
		return nil, fmt.Errorf("file queue capacity must be > 0, got %d", opts.FileQueueCapacity)
	}

	if opts.SkipPaths == nil {
		opts.SkipPaths = DefaultSkipPaths
	}

	return &Searcher{opts: opts}, nil
}

// Find searches the configured roots (or the host defaults) for entries whose
// base name equals target. It blocks until the full tree has been walked.
func (s *Searcher) Find(target string) ([]string, error) {
	roots := s.opts.Roots
	if len(roots) == 0 {
		roots = DefaultRoots()
	}

	return s.Search(roots, target)
}

// Search walks every tree under roots in parallel and returns the absolute
// paths of all entries whose base name equals target exactly. The result
// order reflects the interleaving of the producers and is not reproducible
// run to run, but the returned set is.
//
// Search spawns Producers+1 workers and joins all of them before returning;
// once it returns, no goroutine from this invocation is still running.
func (s *Searcher) Search(roots []string, target string) ([]string, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no root paths given")
	}

	if target == "" {
		return nil, fmt.Errorf("target name must not be empty")
	}

	start := time.Now()

	p := &pipeline{
		target:      target,
		producers:   s.opts.Producers,
		dirs:        newDirQueue(),
		files:       make(chan *Entry, s.opts.FileQueueCapacity),
		sentinel:    newSentinel(),
		skip:        newSkipList(s.opts.SkipPaths),
		log:         s.opts.Logger,
		onListError: s.opts.OnListError,
	}

	if p.log != nil {
		p.log.LogDebug(fmt.Sprintf("searching for %q under %d root(s) with %d producers", target, len(roots), p.producers))
	}

	// Seed the pipeline. The counter increment must happen before the
	// enqueue: a producer could otherwise expand the root and see a
	// premature zero.
	for _, root := range roots {
		p.pending.Inc()
		p.dirs.Put(&Entry{Path: root, IsDir: true})
	}

	var wg sync.WaitGroup

	wg.Add(p.producers)

	for i := 0; i < p.producers; i++ {
		go func() {
			defer wg.Done()

			p.runProducer()
		}()
	}

	resultCh := make(chan []string, 1)

	go func() {
		resultCh <- p.runConsumer()
	}()

	matches := <-resultCh

	// Producers exit by draining the shutdown broadcast; join them so no
	// worker from this invocation outlives the call.
	wg.Wait()

	stats := Stats{
		DirsExpanded: p.dirsExpanded.Load(),
		FilesQueued:  p.filesQueued.Load(),
		DirsSkipped:  p.dirsSkipped.Load(),
		ListErrors:   p.listErrors.Load(),
		Matches:      len(matches),
		Duration:     time.Since(start),
	}

	s.mu.Lock()
	s.lastStats = stats
	s.mu.Unlock()

	if p.log != nil {
		p.log.LogDebug(fmt.Sprintf("search for %q finished: %d match(es), %d directories, %d listing error(s)",
			target, stats.Matches, stats.DirsExpanded, stats.ListErrors))
	}

	return matches, nil
}

// Stats returns the statistics of the most recently completed search.
func (s *Searcher) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastStats
}
