package search

import "path/filepath"

// runConsumer drains the file queue, keeping entries whose base name equals
// the target exactly. It owns the result slice until it returns; no other
// goroutine touches it. The consumer never exits early on a match — it always
// drains to the sentinel, which the shutdown broadcast places on the file
// queue exactly once.
func (p *pipeline) runConsumer() []string {
	var matches []string

	for {
		entry := <-p.files
		if entry == p.sentinel {
			return matches
		}

		if filepath.Base(entry.Path) == p.target {
			matches = append(matches, entry.Path)
		}
	}
}
