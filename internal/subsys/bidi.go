package subsys

import (
	"path/filepath"

	"github.com/goplus/rivebuild/internal/sources"
	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// Bidi configures SheenBidi, a C library.
type Bidi struct {
	Paths Paths
}

func (b *Bidi) Name() string { return "sheenbidi" }

func (b *Bidi) Configure(p *toolchain.Profile, enabled bool) (*unit.Set, error) {
	if !enabled {
		return nil, nil
	}
	srcDir := filepath.Join(b.Paths.SheenBidi, "Source")
	s := unit.New(b.Name())
	s.File(sources.Collect(srcDir, "c")...).
		Include(filepath.Join(b.Paths.SheenBidi, "Headers")).
		FlagIfSupported(exceptions(p))
	return requireSources(s, srcDir)
}
