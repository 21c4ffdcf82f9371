package subsys

import (
	"path/filepath"

	"github.com/goplus/rivebuild/internal/sources"
	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// Layout configures the yoga flexbox engine, which targets C++11.
type Layout struct {
	Paths Paths
}

func (l *Layout) Name() string { return "yoga" }

func (l *Layout) Configure(p *toolchain.Profile, enabled bool) (*unit.Set, error) {
	if !enabled {
		return nil, nil
	}
	srcDir := filepath.Join(l.Paths.Yoga, "yoga")
	s := unit.New(l.Name())
	s.CPP = true
	s.File(sources.Collect(srcDir, "cpp")...).
		Include(l.Paths.Yoga).
		Flag(cppStd(p, "c++11")).
		Flag(exceptions(p)).
		// Static link: no export annotation.
		Define(MacroYogaExport, unit.Value(""))
	return requireSources(s, srcDir)
}
