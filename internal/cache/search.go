package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/altinukshini/gocd-tui/internal/model"
)

// SearchCache keeps material search results on disk so reopening a pipeline
// does not hit the server for every material again.
type SearchCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // cache entry TTL
}

// Entry is one cached search, as stored on disk.
type Entry struct {
	Pipeline    string                   `json:"pipeline"`
	Fingerprint string                   `json:"fingerprint"`
	Text        string                   `json:"text"`
	StoredAt    time.Time                `json:"stored_at"`
	Results     []model.MaterialRevision `json:"results"`

	Size int64  `json:"-"`
	Path string `json:"-"`
}

func NewSearchCache(dir string, maxSizeMB int, ttl time.Duration) (*SearchCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create search cache dir: %w", err)
	}
	return &SearchCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
	}, nil
}

func (sc *SearchCache) entryPath(fingerprint, text string) string {
	sum := sha256.Sum256([]byte(fingerprint + "\x00" + text))
	return filepath.Join(sc.dir, "search-"+hex.EncodeToString(sum[:12])+".json")
}

// Get returns the cached results for a search, if present and fresh.
func (sc *SearchCache) Get(fingerprint, text string) ([]model.MaterialRevision, bool) {
	path := sc.entryPath(fingerprint, text)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) >= sc.ttl {
		return nil, false
	}
	entry, err := readEntry(path)
	if err != nil || entry.Fingerprint != fingerprint || entry.Text != text {
		return nil, false
	}
	return entry.Results, true
}

func (sc *SearchCache) Store(pipeline, fingerprint, text string, results []model.MaterialRevision) error {
	entry := Entry{
		Pipeline:    pipeline,
		Fingerprint: fingerprint,
		Text:        text,
		StoredAt:    time.Now(),
		Results:     results,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal search entry: %w", err)
	}
	path := sc.entryPath(fingerprint, text)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write search entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write search entry: %w", err)
	}
	return nil
}

// Evict removes expired and oversized cache entries.
func (sc *SearchCache) Evict() error {
	type cacheFile struct {
		path    string
		modTime time.Time
		size    int64
	}

	var files []cacheFile
	var totalSize int64

	dirEntries, err := os.ReadDir(sc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range dirEntries {
		if e.IsDir() || !isEntryName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, cacheFile{path: filepath.Join(sc.dir, e.Name()), modTime: info.ModTime(), size: info.Size()})
		totalSize += info.Size()
	}

	// Evict expired entries
	now := time.Now()
	remaining := files[:0]
	for _, f := range files {
		if now.Sub(f.modTime) > sc.ttl {
			os.Remove(f.path)
			totalSize -= f.size
		} else {
			remaining = append(remaining, f)
		}
	}
	files = remaining

	// Evict oldest entries if over size cap
	if totalSize > sc.maxSize {
		sort.Slice(files, func(i, j int) bool {
			return files[i].modTime.Before(files[j].modTime)
		})
		for _, f := range files {
			if totalSize <= sc.maxSize {
				break
			}
			os.Remove(f.path)
			totalSize -= f.size
		}
	}
	return nil
}

// ListEntries scans the cache directory and returns all entries, newest
// first.
func (sc *SearchCache) ListEntries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(sc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var result []Entry
	for _, e := range dirEntries {
		if e.IsDir() || !isEntryName(e.Name()) {
			continue
		}
		path := filepath.Join(sc.dir, e.Name())
		entry, err := readEntry(path)
		if err != nil {
			continue
		}
		if info, err := e.Info(); err == nil {
			entry.Size = info.Size()
		}
		entry.Path = path
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StoredAt.After(result[j].StoredAt)
	})
	return result, nil
}

// Remove deletes the cached results of one search.
func (sc *SearchCache) Remove(fingerprint, text string) error {
	err := os.Remove(sc.entryPath(fingerprint, text))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove search entry: %w", err)
	}
	return nil
}

// DeleteAll removes all cache entries.
func (sc *SearchCache) DeleteAll() error {
	dirEntries, err := os.ReadDir(sc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range dirEntries {
		if !e.IsDir() && isEntryName(e.Name()) {
			os.Remove(filepath.Join(sc.dir, e.Name()))
		}
	}
	return nil
}

// TotalSize returns total cache size in bytes.
func (sc *SearchCache) TotalSize() (int64, error) {
	entries, err := sc.ListEntries()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total, nil
}

func isEntryName(name string) bool {
	return strings.HasPrefix(name, "search-") && strings.HasSuffix(name, ".json")
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Searcher is the subset of search.Searcher the cache wraps.
type Searcher interface {
	SearchMaterial(ctx context.Context, pipeline, fingerprint, text string) ([]model.MaterialRevision, error)
}

// CachingSearcher answers searches from the cache and falls back to the
// wrapped searcher, storing what it returns.
// A failed cache write is logged and the fresh results are still returned.
type CachingSearcher struct {
	next   Searcher
	cache  *SearchCache
	logger *slog.Logger
}

func NewCachingSearcher(next Searcher, cache *SearchCache, logger *slog.Logger) *CachingSearcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachingSearcher{next: next, cache: cache, logger: logger}
}

func (cs *CachingSearcher) SearchMaterial(ctx context.Context, pipeline, fingerprint, text string) ([]model.MaterialRevision, error) {
	if results, ok := cs.cache.Get(fingerprint, text); ok {
		return results, nil
	}
	results, err := cs.next.SearchMaterial(ctx, pipeline, fingerprint, text)
	if err != nil {
		return nil, err
	}
	if err := cs.cache.Store(pipeline, fingerprint, text, results); err != nil {
		cs.logger.Warn("caching material search failed", "fingerprint", fingerprint, "text", text, "error", err)
	}
	return results, nil
}
