// Package sources discovers vendored source files by extension.
package sources

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// WithExt yields the absolute path of every regular file under root whose
// extension is exactly ext (case-sensitive, without the leading dot).
//
// Entries that fail to resolve are skipped: unreadable directories, dangling
// symlinks and anything Lstat rejects. A root that is itself a symlink is
// followed and paths are reported under root; symlinks below it are never
// followed into directories. Paths come out in traversal order, which is
// not a contract.
func WithExt(root, ext string) iter.Seq[string] {
	return func(yield func(string) bool) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return
		}
		walkRoot := abs
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			walkRoot = resolved
		}
		filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() || extension(d.Name()) != ext {
				return nil
			}
			if !isRegular(path, d) {
				return nil
			}
			if walkRoot != abs {
				if r, err := filepath.Rel(walkRoot, path); err == nil {
					path = filepath.Join(abs, r)
				}
			}
			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// Collect returns WithExt(root, ext) sorted.
func Collect(root, ext string) []string {
	return slices.Sorted(WithExt(root, ext))
}

// extension returns the text after the last dot of name. A name whose only
// dot is the leading one (".cpp") has no extension.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i+1:]
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
