package build

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/renameio"
	"github.com/qiniu/x/log"
	"golang.org/x/mod/sumdb/dirhash"

	"github.com/goplus/rivebuild/internal/cc"
	"github.com/goplus/rivebuild/internal/toolchain"
)

// Cache directory layout:
//
//	cacheDir/
//	  .cache.json   # maps "target|profile" to buildEntry
const cacheFile = ".cache.json"

// buildEntry records a successful build of one target and profile.
type buildEntry struct {
	WatchHash    string          `json:"watch_hash"`
	Tools        toolchain.Tools `json:"tools"`
	Fingerprints []string        `json:"fingerprints"`
	Archives     []cc.Archive    `json:"archives"`
	BuildTime    time.Time       `json:"build_time"`
}

func newEntry(watchHash string, tools toolchain.Tools, results []Result) *buildEntry {
	e := &buildEntry{WatchHash: watchHash, Tools: tools, BuildTime: time.Now()}
	for _, r := range results {
		e.Fingerprints = append(e.Fingerprints, r.Set.Fingerprint())
		e.Archives = append(e.Archives, *r.Archive)
	}
	return e
}

// matches reports whether e was built from the same watched files, tools
// and unit sets, and all of its archives are still present.
func (e *buildEntry) matches(watchHash string, tools toolchain.Tools, results []Result) bool {
	if watchHash == "" || e.WatchHash != watchHash || e.Tools != tools || len(e.Archives) != len(results) {
		return false
	}
	fps := make([]string, len(results))
	for i, r := range results {
		fps[i] = r.Set.Fingerprint()
	}
	if !slices.Equal(e.Fingerprints, fps) {
		return false
	}
	for _, a := range e.Archives {
		if !exists(a.Path) {
			return false
		}
	}
	return true
}

type buildCache struct {
	Cache map[string]*buildEntry `json:"cache"`
}

func (c *buildCache) get(key string) (*buildEntry, bool) {
	entry, ok := c.Cache[key]
	return entry, ok
}

func (c *buildCache) set(key string, entry *buildEntry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*buildEntry)
	}
	c.Cache[key] = entry
}

// loadCache reads the cache file. A missing or corrupt cache is empty.
func (b *Builder) loadCache() *buildCache {
	cache := &buildCache{}
	if b.opts.CacheDir == "" {
		return cache
	}
	data, err := os.ReadFile(filepath.Join(b.opts.CacheDir, cacheFile))
	if err != nil {
		return cache
	}
	if err := json.Unmarshal(data, cache); err != nil {
		log.Warnf("ignoring corrupt build cache: %v", err)
		return &buildCache{}
	}
	return cache
}

func (b *Builder) saveCache(cache *buildCache) error {
	if b.opts.CacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.opts.CacheDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(b.opts.CacheDir, cacheFile), data, 0o644)
}

// watchHash hashes the contents of the watched paths, descending into
// directories. Missing files hash as empty. It returns "" when caching is
// disabled or the files cannot be hashed.
func (b *Builder) watchHash() string {
	if b.opts.CacheDir == "" {
		return ""
	}
	files, err := watchedFiles(b.opts.Watch)
	if err != nil {
		log.Warnf("build cache disabled: %v", err)
		return ""
	}
	h, err := dirhash.Hash1(files, openWatched)
	if err != nil {
		log.Warnf("build cache disabled: %v", err)
		return ""
	}
	return h
}

func watchedFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil || !fi.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func openWatched(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return io.NopCloser(strings.NewReader("")), nil
	}
	return f, err
}
