package subsys

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// Binding configures the host's own glue sources, compiled against the
// runtime headers into a separate archive.
type Binding struct {
	Paths   Paths
	Archive string
	Sources []string
}

func (b *Binding) Name() string {
	if b.Archive == "" {
		return defaultBindingName
	}
	return b.Archive
}

func (b *Binding) Configure(p *toolchain.Profile, enabled bool) (*unit.Set, error) {
	if !enabled {
		return nil, nil
	}
	s := unit.New(b.Name())
	s.CPP = true
	for _, src := range b.Sources {
		if _, err := os.Stat(src); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		s.File(src)
	}
	s.Include(filepath.Join(b.Paths.Core, "include")).
		Flag(cppStd(p, "c++14")).
		Flag(exceptions(p))
	return requireSources(s, "binding sources")
}
