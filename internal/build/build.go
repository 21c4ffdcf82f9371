// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build drives the compilation of the subsystem table and reports
// the produced archives to the enclosing build pipeline.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qiniu/x/log"

	"github.com/goplus/rivebuild/internal/cc"
	"github.com/goplus/rivebuild/internal/directive"
	"github.com/goplus/rivebuild/internal/subsys"
	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// Compiler turns a unit set into a static archive.
type Compiler interface {
	Compile(ctx context.Context, s *unit.Set) (*cc.Archive, error)
}

type Options struct {
	Compiler   Compiler
	Directives *directive.Writer
	// Watch lists the paths the pipeline re-runs the build for. They are
	// also hashed into the build cache.
	Watch []string
	// CacheDir holds the build cache. Empty disables caching.
	CacheDir string
	// Force rebuilds even when the cache is up to date.
	Force bool
	// Tools are the drivers Compiler runs. A cached build made with
	// other tools is stale.
	Tools toolchain.Tools
}

// Result describes one built subsystem.
type Result struct {
	Feature string      `json:"feature"`
	Set     *unit.Set   `json:"set"`
	Archive *cc.Archive `json:"archive"`
	Cached  bool        `json:"cached,omitempty"`
}

type Builder struct {
	opts Options
}

func NewBuilder(opts Options) *Builder {
	if opts.Directives == nil {
		opts.Directives = directive.New(nil)
	}
	return &Builder{opts: opts}
}

// Build configures and compiles every enabled entry of table in order,
// then emits the link directives. The first failure aborts the build.
func (b *Builder) Build(ctx context.Context, p *toolchain.Profile, table []subsys.Entry) ([]Result, error) {
	d := b.opts.Directives
	for _, path := range b.opts.Watch {
		if err := d.RerunIfChanged(path); err != nil {
			return nil, err
		}
	}

	results, err := b.configure(p, table)
	if err != nil {
		return nil, err
	}

	key := toolchain.Combination{Target: p.Triple, Profile: p.BuildProfile}.String()
	watchHash := b.watchHash()
	cache := b.loadCache()
	if !b.opts.Force {
		if entry, ok := cache.get(key); ok && entry.matches(watchHash, b.opts.Tools, results) {
			log.Infof("%s: up to date", key)
			for i := range results {
				results[i].Archive = &entry.Archives[i]
				results[i].Cached = true
			}
			return results, b.link(results)
		}
	}

	for i := range results {
		r := &results[i]
		log.Infof("compiling %s (%d sources)", r.Set.Archive, len(r.Set.Sources))
		start := time.Now()
		a, err := b.opts.Compiler.Compile(ctx, r.Set)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Set.Archive, err)
		}
		log.Debugf("%s: built %s in %v", r.Set.Archive, a.Path, time.Since(start).Round(time.Millisecond))
		r.Archive = a
	}

	if watchHash != "" {
		cache.set(key, newEntry(watchHash, b.opts.Tools, results))
		if err := b.saveCache(cache); err != nil {
			log.Warnf("saving build cache: %v", err)
		}
	}
	return results, b.link(results)
}

// configure runs the enabled configurators. Disabled entries are skipped
// without consulting their configurator.
func (b *Builder) configure(p *toolchain.Profile, table []subsys.Entry) ([]Result, error) {
	var results []Result
	for _, e := range table {
		if !e.Enabled {
			log.Debugf("%s: disabled", e.Feature)
			continue
		}
		s, err := e.Configure(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Feature, err)
		}
		results = append(results, Result{Feature: e.Feature, Set: s})
	}
	return results, nil
}

// link reports the advisory flags each archive was built without, then
// emits one search path per archive directory and the archives in build
// order.
func (b *Builder) link(results []Result) error {
	d := b.opts.Directives
	for _, r := range results {
		for _, f := range r.Archive.Dropped {
			msg := fmt.Sprintf("%s: unsupported flag %s ignored", r.Archive.Name, f)
			log.Warnf("%s", msg)
			if err := d.Warning(msg); err != nil {
				return err
			}
		}
	}
	seen := make(map[string]bool)
	for _, r := range results {
		dir := filepath.Dir(r.Archive.Path)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := d.LinkSearch(dir); err != nil {
			return err
		}
	}
	for _, r := range results {
		if err := d.LinkLib(r.Archive.Name); err != nil {
			return err
		}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
