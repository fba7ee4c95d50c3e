package search

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates the given relative file paths under root, creating parent
// directories as needed. Entries ending in "/" become empty directories.
func buildTree(t *testing.T, root string, entries []string) {
	t.Helper()

	for _, e := range entries {
		path := filepath.Join(root, e)

		if len(e) > 0 && e[len(e)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0755))

			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func newTestSearcher(t *testing.T, opts Options) *Searcher {
	t.Helper()

	// Keep host system paths out of unit-test traversals.
	if opts.SkipPaths == nil {
		opts.SkipPaths = []string{}
	}

	s, err := New(opts)
	require.NoError(t, err)

	return s
}

func TestSearchEmptyTreeReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{"a/", "a/b/", "c/"})

	s := newTestSearcher(t, Options{})

	matches, err := s.Search([]string{root}, "nothing-here.txt")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchFindsAllMatches(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{
		"needle.txt",
		"a/needle.txt",
		"a/b/needle.txt",
		"a/b/c/needle.txt",
		"d/needle.txt",
		"d/other.txt",
		"e/deep/er/still/needle.txt",
	})

	want := []string{
		filepath.Join(root, "needle.txt"),
		filepath.Join(root, "a/needle.txt"),
		filepath.Join(root, "a/b/needle.txt"),
		filepath.Join(root, "a/b/c/needle.txt"),
		filepath.Join(root, "d/needle.txt"),
		filepath.Join(root, "e/deep/er/still/needle.txt"),
	}

	for _, producers := range []int{1, 6, 32} {
		s := newTestSearcher(t, Options{Producers: producers})

		matches, err := s.Search([]string{root}, "needle.txt")
		require.NoError(t, err, "producers=%d", producers)
		assert.ElementsMatch(t, want, matches, "producers=%d", producers)
	}
}

func TestSearchMultipleRoots(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	buildTree(t, root1, []string{"a/needle.txt"})
	buildTree(t, root2, []string{"b/c/needle.txt"})

	s := newTestSearcher(t, Options{})

	matches, err := s.Search([]string{root1, root2}, "needle.txt")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root1, "a/needle.txt"),
		filepath.Join(root2, "b/c/needle.txt"),
	}, matches)
}

func TestSearchSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{
		"visible/needle.txt",
		".hidden/needle.txt",
		"visible/.nested/needle.txt",
	})

	s := newTestSearcher(t, Options{})

	matches, err := s.Search([]string{root}, "needle.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "visible/needle.txt")}, matches)
}

func TestSearchSkipsHiddenFiles(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{"a/.needle.txt"})

	s := newTestSearcher(t, Options{})

	matches, err := s.Search([]string{root}, ".needle.txt")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchSkipsConfiguredPrefixes(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{
		"keep/needle.txt",
		"excluded/needle.txt",
		"excluded/sub/needle.txt",
	})

	s := newTestSearcher(t, Options{
		SkipPaths: []string{filepath.Join(root, "excluded")},
	})

	matches, err := s.Search([]string{root}, "needle.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "keep/needle.txt")}, matches)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.DirsSkipped)
}

func TestSearchIdempotent(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{
		"a/needle.txt",
		"b/needle.txt",
		"b/c/needle.txt",
	})

	s := newTestSearcher(t, Options{})

	first, err := s.Search([]string{root}, "needle.txt")
	require.NoError(t, err)

	second, err := s.Search([]string{root}, "needle.txt")
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestSearchBackpressure(t *testing.T) {
	root := t.TempDir()

	// Many distinct files with the same name, spread over subdirectories.
	var entries []string
	for i := 0; i < 10; i++ {
		dir := filepath.Join("bulk", string(rune('a'+i)))
		for j := 0; j < 100; j++ {
			entries = append(entries, filepath.Join(dir, "f"+strconv.Itoa(j), "needle.txt"))
		}
	}

	buildTree(t, root, entries)

	s := newTestSearcher(t, Options{FileQueueCapacity: 1})

	matches, err := s.Search([]string{root}, "needle.txt")
	require.NoError(t, err)
	assert.Len(t, matches, 1000)
}

func TestSearchConcreteScenario(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{
		"a/",
		"b/x.txt",
		".hidden/y.txt",
	})

	s := newTestSearcher(t, Options{})

	matches, err := s.Search([]string{root}, "x.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b/x.txt")}, matches)

	matches, err = s.Search([]string{root}, "y.txt")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchValidation(t *testing.T) {
	s := newTestSearcher(t, Options{})

	_, err := s.Search(nil, "needle.txt")
	assert.ErrorContains(t, err, "no root paths")

	_, err = s.Search([]string{t.TempDir()}, "")
	assert.ErrorContains(t, err, "target name")
}

func TestNewRejectsNegativeOptions(t *testing.T) {
	_, err := New(Options{Producers: -1})
	assert.Error(t, err)

	_, err = New(Options{FileQueueCapacity: -1})
	assert.Error(t, err)
}

func TestFindUsesConfiguredRoots(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{"sub/needle.txt"})

	s := newTestSearcher(t, Options{Roots: []string{root}})

	matches, err := s.Find("needle.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "sub/needle.txt")}, matches)
}

func TestSearchNonexistentRootCompletes(t *testing.T) {
	var reported []string

	s := newTestSearcher(t, Options{
		OnListError: func(path string, err error) {
			reported = append(reported, path)
		},
	})

	missing := filepath.Join(t.TempDir(), "does-not-exist")

	matches, err := s.Search([]string{missing}, "needle.txt")
	require.NoError(t, err)
	assert.Empty(t, matches)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.ListErrors)
	assert.Equal(t, []string{missing}, reported)
}

func TestSearchStats(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, []string{
		"a/needle.txt",
		"a/other.txt",
		"b/",
	})

	s := newTestSearcher(t, Options{})

	matches, err := s.Search([]string{root}, "needle.txt")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	stats := s.Stats()
	assert.Equal(t, int64(3), stats.DirsExpanded) // root, a, b
	assert.Equal(t, int64(2), stats.FilesQueued)
	assert.Equal(t, int64(0), stats.ListErrors)
	assert.Equal(t, 1, stats.Matches)
	assert.Greater(t, stats.Duration, time.Duration(0))
}
