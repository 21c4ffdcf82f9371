// Package subsys turns a toolchain profile and feature selection into the
// compilation unit sets of the vendored native subsystems.
//
// Configurators only read the filesystem to enumerate sources; compiling is
// left to the build driver.
package subsys

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

// ErrNoSources is returned when an enabled subsystem has nothing to compile.
var ErrNoSources = errors.New("no source files found")

// Macros understood by the vendored trees.
const (
	MacroInternal    = "_RIVE_INTERNAL_"
	MacroWithText    = "WITH_RIVE_TEXT"
	MacroWithLayout  = "WITH_RIVE_LAYOUT"
	MacroYogaExport  = "YOGA_EXPORT"
	MacroPthread     = "HAVE_PTHREAD"
	MacroCoreText    = "HAVE_CORETEXT"
	MacroDirectWrite = "HAVE_DIRECTWRITE"
)

const (
	flagBigObj         = "-Wa,-mbig-obj"
	flagEH             = "/EHsc"
	noDeprecatedMSVC   = "/Wno-deprecated-declarations"
	noDeprecatedPOSIX  = "-Wno-deprecated-declarations"
	defaultBindingName = "rive-ffi"
)

// Configurator produces the unit set of one subsystem. A disabled
// subsystem yields nil without touching the filesystem.
type Configurator interface {
	Name() string
	Configure(p *toolchain.Profile, enabled bool) (*unit.Set, error)
}

// Paths locates the vendored source trees.
type Paths struct {
	Core      string
	Yoga      string
	HarfBuzz  string
	SheenBidi string
}

// DefaultPaths are relative to the directory holding the manifest.
var DefaultPaths = Paths{
	Core:      "../submodules/rive-cpp",
	Yoga:      "../submodules/yoga",
	HarfBuzz:  "../submodules/harfbuzz",
	SheenBidi: "../submodules/SheenBidi",
}

// Abs resolves relative entries of p against base.
func (p Paths) Abs(base string) Paths {
	abs := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}
	return Paths{
		Core:      abs(p.Core),
		Yoga:      abs(p.Yoga),
		HarfBuzz:  abs(p.HarfBuzz),
		SheenBidi: abs(p.SheenBidi),
	}
}

// FeatureSet is the optional-feature selection of one build.
type FeatureSet struct {
	Layout bool `json:"layout"`
	Text   bool `json:"text"`
}

func cppStd(p *toolchain.Profile, std string) string {
	return p.Pick("/std:"+std, "-std="+std)
}

func exceptions(p *toolchain.Profile) string {
	return p.Pick(flagEH, "")
}

func requireSources(s *unit.Set, where string) (*unit.Set, error) {
	if len(s.Sources) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", s.Archive, where, ErrNoSources)
	}
	return s, nil
}
