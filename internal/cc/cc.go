// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cc drives the native C/C++ compiler and archiver to turn a
// compilation unit set into a static archive.
package cc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qiniu/x/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/execabs"

	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// Archive is a static library produced by Compile.
type Archive struct {
	// Name is the link name ("rive" for librive.a / rive.lib).
	Name string `json:"name"`
	// Path is the archive file.
	Path string `json:"path"`
	// Objects is the number of object files archived.
	Objects int `json:"objects"`
	// Dropped lists advisory flags the compiler rejected.
	Dropped []string `json:"dropped,omitempty"`
}

// Compiler compiles unit sets for one toolchain profile.
type Compiler struct {
	Tools   toolchain.Tools
	Profile *toolchain.Profile
	OutDir  string
	// Jobs bounds concurrent object compilation; <= 0 means one.
	Jobs   int
	Stdout io.Writer
	Stderr io.Writer

	mu     sync.Mutex
	probes map[string]bool
}

// New returns a Compiler writing archives to outDir.
func New(p *toolchain.Profile, tools toolchain.Tools, outDir string, jobs int) *Compiler {
	return &Compiler{
		Tools:   tools,
		Profile: p,
		OutDir:  outDir,
		Jobs:    jobs,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// ArchiveFile returns the file name the archiver writes for name.
func (c *Compiler) ArchiveFile(name string) string {
	if c.Profile.Frontend == toolchain.FrontendMSVC {
		return name + ".lib"
	}
	return "lib" + name + ".a"
}

// Compile compiles every source of s and archives the objects. Any
// failure is returned and no archive is left at the final path.
func (c *Compiler) Compile(ctx context.Context, s *unit.Set) (*Archive, error) {
	if len(s.Sources) == 0 {
		return nil, fmt.Errorf("%s: nothing to compile", s.Archive)
	}
	driver := c.Tools.CompilerFor(s.CPP)

	flags, dropped, err := c.selectFlags(ctx, driver, s)
	if err != nil {
		return nil, err
	}
	for _, f := range dropped {
		log.Debugf("%s: %s does not support %s, dropped", s.Archive, driver, f)
	}

	objDir := filepath.Join(c.OutDir, "obj", s.Archive)
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return nil, err
	}

	objects := make([]string, len(s.Sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Jobs, 1))
	for i, src := range s.Sources {
		obj := filepath.Join(objDir, c.objectName(src))
		objects[i] = obj
		args := c.compileArgs(s, flags, src, obj)
		g.Go(func() error {
			log.Debugf("%s %s", driver, strings.Join(args, " "))
			if err := c.run(gctx, driver, args); err != nil {
				return fmt.Errorf("compiling %s: %w", src, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	path := filepath.Join(c.OutDir, c.ArchiveFile(s.Archive))
	if err := c.archive(ctx, path, objects); err != nil {
		return nil, fmt.Errorf("archiving %s: %w", s.Archive, err)
	}
	return &Archive{
		Name:    s.Archive,
		Path:    path,
		Objects: len(objects),
		Dropped: dropped,
	}, nil
}

// selectFlags keeps required flags and the advisory flags driver accepts.
func (c *Compiler) selectFlags(ctx context.Context, driver string, s *unit.Set) (kept, dropped []string, err error) {
	for _, f := range s.Flags {
		if f.Policy == unit.PolicyRequired {
			kept = append(kept, f.Value)
			continue
		}
		ok, err := c.Supports(ctx, driver, s.CPP, f.Value)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			kept = append(kept, f.Value)
		} else {
			dropped = append(dropped, f.Value)
		}
	}
	return kept, dropped, nil
}

// archive writes objects to a temporary archive and renames it into place.
func (c *Compiler) archive(ctx context.Context, path string, objects []string) error {
	tmp := path + ".tmp"
	os.Remove(tmp)
	var args []string
	if c.Profile.Frontend == toolchain.FrontendMSVC {
		args = append([]string{"/nologo", "/OUT:" + tmp}, objects...)
	} else {
		args = append([]string{"crs", tmp}, objects...)
	}
	if err := c.run(ctx, c.Tools.AR, args); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// objectName derives a collision-free object name from a source path.
func (c *Compiler) objectName(src string) string {
	sum := sha256.Sum256([]byte(src))
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	ext := ".o"
	if c.Profile.Frontend == toolchain.FrontendMSVC {
		ext = ".obj"
	}
	return hex.EncodeToString(sum[:4]) + "-" + base + ext
}

func (c *Compiler) run(ctx context.Context, name string, args []string) error {
	cmd := execabs.CommandContext(ctx, name, args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}
