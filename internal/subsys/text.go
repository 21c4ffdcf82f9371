package subsys

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// TextShaping configures harfbuzz as one amalgamated translation unit.
// Its language flags are advisory.
type TextShaping struct {
	Paths Paths
}

func (t *TextShaping) Name() string { return "harfbuzz" }

func (t *TextShaping) Configure(p *toolchain.Profile, enabled bool) (*unit.Set, error) {
	if !enabled {
		return nil, nil
	}
	amalgam := filepath.Join(t.Paths.HarfBuzz, "src", "harfbuzz.cc")
	fi, err := os.Stat(amalgam)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %s: %w", t.Name(), amalgam, ErrNoSources)
	}

	s := unit.New(t.Name())
	s.CPP = true
	s.File(amalgam).
		FlagIfSupported(cppStd(p, "c++11")).
		FlagIfSupported(exceptions(p))

	target := p.Target
	if !target.IsWindows() {
		s.Define(MacroPthread, unit.Value("1"))
	}
	if target.IsApple() && p.IsRelease() {
		s.Define(MacroCoreText, unit.Value("1"))
	}
	if target.IsWindows() {
		s.Define(MacroDirectWrite, unit.Value("1"))
	}
	if target.IsWindowsGNU() {
		// harfbuzz.cc overflows the COFF section limit.
		s.Flag(flagBigObj)
	}
	return s, nil
}
