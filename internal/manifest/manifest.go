// Package manifest loads the optional rivebuild.hcl build manifest and
// layers the environment over it.
//
// A manifest looks like:
//
//	runtime_path = "../submodules/rive-cpp"
//	watch        = ["src/ffi.cpp"]
//
//	features {
//	  layout = true
//	  text   = env.RIVE_TEXT == "1"
//	}
//
//	paths {
//	  yoga      = "../submodules/yoga"
//	  harfbuzz  = "../submodules/harfbuzz"
//	  sheenbidi = "../submodules/SheenBidi"
//	}
//
//	binding {
//	  archive = "rive-ffi"
//	  sources = ["src/ffi.cpp"]
//	}
//
// Relative paths are resolved against the manifest's directory.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/goplus/rivebuild/internal/env"
	"github.com/goplus/rivebuild/internal/subsys"
)

// DefaultFile is the manifest name looked up in the working directory.
const DefaultFile = "rivebuild.hcl"

// Environment variables layered over the manifest.
const (
	EnvRuntimePath   = "RIVE_CPP_PATH"
	EnvFeatureLayout = "CARGO_FEATURE_LAYOUT"
	EnvFeatureText   = "CARGO_FEATURE_TEXT"
)

// ErrInvalid is returned for a manifest that does not parse or decode.
var ErrInvalid = errors.New("invalid manifest")

// Config is the resolved build configuration.
type Config struct {
	// File is the manifest path. Loaded reports whether it existed.
	File   string
	Loaded bool
	// Dir is the directory relative paths were resolved against.
	Dir      string
	Paths    subsys.Paths
	Features subsys.FeatureSet
	// Binding is nil when the manifest declares no binding block.
	Binding *subsys.Binding
	Watch   []string
}

type manifestFile struct {
	RuntimePath *string        `hcl:"runtime_path,optional"`
	Watch       []string       `hcl:"watch,optional"`
	Features    *featuresBlock `hcl:"features,block"`
	Paths       *pathsBlock    `hcl:"paths,block"`
	Binding     *bindingBlock  `hcl:"binding,block"`
}

type featuresBlock struct {
	Layout *bool `hcl:"layout,optional"`
	Text   *bool `hcl:"text,optional"`
}

type pathsBlock struct {
	Yoga      *string `hcl:"yoga,optional"`
	HarfBuzz  *string `hcl:"harfbuzz,optional"`
	SheenBidi *string `hcl:"sheenbidi,optional"`
}

type bindingBlock struct {
	Archive *string  `hcl:"archive,optional"`
	Sources []string `hcl:"sources,optional"`
}

// Load reads the manifest at path, if any, and applies the environment.
// A missing manifest yields the defaults.
func Load(path string, lookup env.Lookup) (*Config, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		File:  path,
		Dir:   filepath.Dir(path),
		Paths: subsys.DefaultPaths,
		Watch: []string{path},
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		mf, err := decode(path, data, lookup)
		if err != nil {
			return nil, err
		}
		cfg.Loaded = true
		cfg.apply(mf)
	}

	if v, ok := lookup(EnvRuntimePath); ok && v != "" {
		cfg.Paths.Core = v
	}
	if lookup.Has(EnvFeatureLayout) {
		cfg.Features.Layout = true
	}
	if lookup.Has(EnvFeatureText) {
		cfg.Features.Text = true
	}

	cfg.Paths = cfg.Paths.Abs(cfg.Dir)
	if cfg.Binding != nil {
		cfg.Binding.Paths = cfg.Paths
	}
	return cfg, nil
}

func decode(path string, data []byte, lookup env.Lookup) (*manifestFile, error) {
	f, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrInvalid, diags)
	}
	ctx := &hcl.EvalContext{Variables: envVariables(f.Body, lookup)}

	var mf manifestFile
	if diags := gohcl.DecodeBody(f.Body, ctx, &mf); diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrInvalid, diags)
	}
	return &mf, nil
}

func (cfg *Config) apply(mf *manifestFile) {
	if mf.RuntimePath != nil {
		cfg.Paths.Core = *mf.RuntimePath
	}
	if len(mf.Watch) > 0 {
		cfg.Watch = appendNew(cfg.Watch, cfg.resolve(mf.Watch)...)
	}
	if fb := mf.Features; fb != nil {
		if fb.Layout != nil {
			cfg.Features.Layout = *fb.Layout
		}
		if fb.Text != nil {
			cfg.Features.Text = *fb.Text
		}
	}
	if pb := mf.Paths; pb != nil {
		setIf(&cfg.Paths.Yoga, pb.Yoga)
		setIf(&cfg.Paths.HarfBuzz, pb.HarfBuzz)
		setIf(&cfg.Paths.SheenBidi, pb.SheenBidi)
	}
	if bb := mf.Binding; bb != nil {
		cfg.Binding = &subsys.Binding{Sources: cfg.resolve(bb.Sources)}
		setIf(&cfg.Binding.Archive, bb.Archive)
		// Binding sources are not vendored: the build re-runs when they change.
		cfg.Watch = appendNew(cfg.Watch, cfg.Binding.Sources...)
	}
}

func (cfg *Config) resolve(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			out[i] = filepath.Clean(p)
		} else {
			out[i] = filepath.Join(cfg.Dir, p)
		}
	}
	return out
}

// appendNew appends the paths not already in list.
func appendNew(list []string, paths ...string) []string {
	for _, p := range paths {
		if !slices.Contains(list, p) {
			list = append(list, p)
		}
	}
	return list
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
