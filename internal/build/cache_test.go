package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/rivebuild/internal/env"
	"github.com/goplus/rivebuild/internal/manifest"
	"github.com/goplus/rivebuild/internal/subsys"
	"github.com/goplus/rivebuild/internal/toolchain"
)

func cachedFixture(t *testing.T) (*fixture, string) {
	t.Helper()
	f := newFixture(t)
	watched := filepath.Join(t.TempDir(), "rivebuild.hcl")
	touch(t, watched)
	f.opts.Watch = []string{watched}
	f.opts.CacheDir = t.TempDir()
	return f, watched
}

func TestBuildCacheHit(t *testing.T) {
	f, _ := cachedFixture(t)
	features := subsys.FeatureSet{Layout: true}
	if _, err := f.build(t, features); err != nil {
		t.Fatal(err)
	}
	first := f.out.String()

	results, err := f.build(t, features)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.compiler.archives(); len(got) != 0 {
		t.Errorf("recompiled %v on an up-to-date cache", got)
	}
	for _, r := range results {
		if !r.Cached || r.Archive == nil {
			t.Errorf("%s: cached = %v, archive = %v", r.Feature, r.Cached, r.Archive)
		}
	}
	if diff := cmp.Diff(first, f.out.String()); diff != "" {
		t.Errorf("directives differ on cache hit (-first +second):\n%s", diff)
	}
}

func TestBuildCacheInvalidation(t *testing.T) {
	tests := []struct {
		name   string
		change func(t *testing.T, f *fixture, watched string) subsys.FeatureSet
	}{
		{"watched file edited", func(t *testing.T, f *fixture, watched string) subsys.FeatureSet {
			if err := os.WriteFile(watched, []byte("features { layout = true }\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			return subsys.FeatureSet{Layout: true}
		}},
		{"feature toggled", func(t *testing.T, f *fixture, watched string) subsys.FeatureSet {
			return subsys.FeatureSet{}
		}},
		{"archive removed", func(t *testing.T, f *fixture, watched string) subsys.FeatureSet {
			if err := os.Remove(filepath.Join(f.compiler.outDir, "librive.a")); err != nil {
				t.Fatal(err)
			}
			return subsys.FeatureSet{Layout: true}
		}},
		{"compiler changed", func(t *testing.T, f *fixture, watched string) subsys.FeatureSet {
			f.opts.Tools = toolchain.Tools{CC: "clang", CXX: "clang++", AR: "llvm-ar"}
			return subsys.FeatureSet{Layout: true}
		}},
		{"forced", func(t *testing.T, f *fixture, watched string) subsys.FeatureSet {
			f.opts.Force = true
			return subsys.FeatureSet{Layout: true}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, watched := cachedFixture(t)
			if _, err := f.build(t, subsys.FeatureSet{Layout: true}); err != nil {
				t.Fatal(err)
			}
			features := tt.change(t, f, watched)
			if _, err := f.build(t, features); err != nil {
				t.Fatal(err)
			}
			if len(f.compiler.archives()) == 0 {
				t.Error("cache was not invalidated")
			}
		})
	}
}

func TestLoadCacheCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, cacheFile), []byte("invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(Options{CacheDir: dir})
	if c := b.loadCache(); len(c.Cache) != 0 {
		t.Errorf("corrupt cache loaded %d entries", len(c.Cache))
	}
}

func TestWatchHashMissingFile(t *testing.T) {
	b := NewBuilder(Options{
		CacheDir: t.TempDir(),
		Watch:    []string{filepath.Join(t.TempDir(), "absent.hcl")},
	})
	if h := b.watchHash(); h == "" {
		t.Error("missing watched file disabled the cache")
	}
}

func TestWatchedFilesDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.cpp"), filepath.Join(dir, "sub", "a.cpp"))
	got, err := watchedFiles([]string{dir, filepath.Join(dir, "b.cpp")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "b.cpp"), filepath.Join(dir, "sub", "a.cpp")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestBuildCacheBindingSourceEdited(t *testing.T) {
	f := newFixture(t)
	f.opts.CacheDir = t.TempDir()

	// The host crate sits next to the vendored submodules.
	host := filepath.Join(filepath.Dir(filepath.Dir(f.paths.Core)), "host")
	ffi := filepath.Join(host, "src", "ffi.cpp")
	manifestPath := filepath.Join(host, manifest.DefaultFile)
	touch(t, ffi)
	if err := os.WriteFile(manifestPath, []byte("binding {\n  sources = [\"src/ffi.cpp\"]\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := manifest.Load(manifestPath, env.Map(nil))
	if err != nil {
		t.Fatal(err)
	}
	f.opts.Watch = cfg.Watch

	build := func() []string {
		t.Helper()
		f.out.Reset()
		f.compiler.reset()
		table := subsys.Table(cfg.Features, cfg.Paths, cfg.Binding)
		if _, err := NewBuilder(f.opts).Build(context.Background(), linux(t), table); err != nil {
			t.Fatal(err)
		}
		return f.compiler.archives()
	}

	if diff := cmp.Diff([]string{"rive-ffi", "rive"}, build()); diff != "" {
		t.Errorf("first build (-want +got):\n%s", diff)
	}
	if got := build(); len(got) != 0 {
		t.Errorf("recompiled %v on an up-to-date cache", got)
	}
	if !strings.Contains(f.out.String(), "cargo:rerun-if-changed="+ffi+"\n") {
		t.Errorf("binding source not watched:\n%s", f.out.String())
	}

	if err := os.WriteFile(ffi, []byte("extern \"C\" void rive_new() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"rive-ffi", "rive"}, build()); diff != "" {
		t.Errorf("build after editing %s (-want +got):\n%s", ffi, diff)
	}
}
