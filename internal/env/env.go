// Package env reads the build-script environment: output directory, job
// count and the lookup used by every other package.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Lookup resolves an environment variable. It has the same contract as
// os.LookupEnv.
type Lookup func(key string) (string, bool)

// OS returns a Lookup backed by the process environment.
func OS() Lookup {
	return os.LookupEnv
}

// Map returns a Lookup backed by m.
func Map(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Get returns the value of key, or "" if it is unset.
func (l Lookup) Get(key string) string {
	v, _ := l(key)
	return v
}

// Has reports whether key is set, even to an empty value.
func (l Lookup) Has(key string) bool {
	_, ok := l(key)
	return ok
}

// Override returns a Lookup that consults overrides before l. Empty
// override values are ignored.
func (l Lookup) Override(overrides map[string]string) Lookup {
	return func(key string) (string, bool) {
		if v, ok := overrides[key]; ok && v != "" {
			return v, true
		}
		return l(key)
	}
}

func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".rivebuild"), nil
}

// OutDir returns the directory archives are written to: $OUT_DIR when set,
// otherwise WorkDir()/out. The directory is created if needed.
func OutDir(lookup Lookup) (string, error) {
	dir := lookup.Get("OUT_DIR")
	if dir == "" {
		workDir, err := WorkDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(workDir, "out")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// Jobs returns the object compilation concurrency from $NUM_JOBS, falling
// back to the number of CPUs.
func Jobs(lookup Lookup) (int, error) {
	v := lookup.Get("NUM_JOBS")
	if v == "" {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid NUM_JOBS %q: want a positive integer", v)
	}
	return n, nil
}
