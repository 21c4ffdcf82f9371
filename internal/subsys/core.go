package subsys

import (
	"path/filepath"

	"github.com/goplus/rivebuild/internal/sources"
	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// Core configures the animation runtime. It is always built, last, and
// mirrors the optional subsystems' headers and macros.
type Core struct {
	Paths    Paths
	Features FeatureSet
}

func (c *Core) Name() string { return "rive" }

func (c *Core) Configure(p *toolchain.Profile, enabled bool) (*unit.Set, error) {
	if !enabled {
		return nil, nil
	}
	s := unit.New(c.Name())
	s.CPP = true
	s.Include(filepath.Join(c.Paths.Core, "include")).
		File(sources.Collect(filepath.Join(c.Paths.Core, "src"), "cpp")...).
		Flag(cppStd(p, "c++14")).
		Flag(exceptions(p)).
		Define(MacroInternal, nil)

	if c.Features.Text {
		s.Include(filepath.Join(c.Paths.HarfBuzz, "src"), filepath.Join(c.Paths.SheenBidi, "Headers")).
			FlagIfSupported(p.Pick(noDeprecatedMSVC, noDeprecatedPOSIX)).
			Define(MacroWithText, nil)
	}
	if c.Features.Layout {
		s.Include(c.Paths.Yoga).
			FlagIfSupported(p.Pick(noDeprecatedMSVC, noDeprecatedPOSIX)).
			Define(MacroWithLayout, nil).
			Define(MacroYogaExport, unit.Value(""))
	}
	return requireSources(s, filepath.Join(c.Paths.Core, "src"))
}
