package cache

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/gocd-tui/internal/model"
)

var results = []model.MaterialRevision{
	{Revision: "2a4b782a3a7d2eb13868da75149e716b15f52e5d", User: "GaneshSPatil <ganeshpl@thoughtworks.com>", Date: "2018-02-12T11:02:48Z", Comment: "implemented feature boo"},
}

type countingSearcher struct {
	calls int
}

func (c *countingSearcher) SearchMaterial(context.Context, string, string, string) ([]model.MaterialRevision, error) {
	c.calls++
	return results, nil
}

func TestStoreAndGet(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 10, time.Hour)
	require.NoError(t, err)

	_, ok := sc.Get("fp1", "boo")
	assert.False(t, ok)

	require.NoError(t, sc.Store("build", "fp1", "boo", results))

	got, ok := sc.Get("fp1", "boo")
	require.True(t, ok)
	assert.Equal(t, results, got)

	_, ok = sc.Get("fp1", "baz")
	assert.False(t, ok, "different search text must miss")
}

func TestGetExpired(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 10, time.Minute)
	require.NoError(t, err)
	require.NoError(t, sc.Store("build", "fp1", "", results))

	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(sc.entryPath("fp1", ""), old, old))

	_, ok := sc.Get("fp1", "")
	assert.False(t, ok)

	require.NoError(t, sc.Evict())
	entries, err := sc.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEvictOverSizeCap(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 0, time.Hour)
	require.NoError(t, err)
	require.NoError(t, sc.Store("build", "fp1", "a", results))
	require.NoError(t, sc.Store("build", "fp1", "b", results))

	require.NoError(t, sc.Evict())
	size, err := sc.TotalSize()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestListAndDeleteAll(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 10, time.Hour)
	require.NoError(t, err)
	require.NoError(t, sc.Store("build", "fp1", "a", results))
	require.NoError(t, sc.Store("deploy", "fp2", "", nil))

	entries, err := sc.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEmpty(t, e.Path)
		assert.Positive(t, e.Size)
	}

	require.NoError(t, sc.DeleteAll())
	entries, err = sc.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 10, time.Hour)
	require.NoError(t, err)
	require.NoError(t, sc.Store("build", "fp1", "a", results))
	require.NoError(t, sc.Store("build", "fp1", "b", results))

	require.NoError(t, sc.Remove("fp1", "a"))
	_, ok := sc.Get("fp1", "a")
	assert.False(t, ok)
	_, ok = sc.Get("fp1", "b")
	assert.True(t, ok)

	assert.NoError(t, sc.Remove("fp1", "missing"))
}

func TestCachingSearcher(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 10, time.Hour)
	require.NoError(t, err)
	next := &countingSearcher{}
	cs := NewCachingSearcher(next, sc, nil)

	for i := 0; i < 3; i++ {
		got, err := cs.SearchMaterial(context.Background(), "build", "fp1", "boo")
		require.NoError(t, err)
		assert.Equal(t, results, got)
	}
	assert.Equal(t, 1, next.calls)
}

func TestStoreFailureLeavesNoTempFile(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 10, time.Hour)
	require.NoError(t, err)

	// A directory in the entry's place makes the final rename fail.
	path := sc.entryPath("fp1", "boo")
	require.NoError(t, os.MkdirAll(path+"/blocker", 0o755))

	assert.Error(t, sc.Store("build", "fp1", "boo", results))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be removed, stat err: %v", err)
}

func TestCachingSearcherLogsStoreFailure(t *testing.T) {
	sc, err := NewSearchCache(t.TempDir(), 10, time.Hour)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(sc.entryPath("fp1", "boo")+"/blocker", 0o755))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cs := NewCachingSearcher(&countingSearcher{}, sc, logger)

	got, err := cs.SearchMaterial(context.Background(), "build", "fp1", "boo")
	require.NoError(t, err)
	assert.Equal(t, results, got)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "caching material search failed")
}
