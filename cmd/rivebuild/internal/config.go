package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/rivebuild/internal/env"
	"github.com/goplus/rivebuild/internal/manifest"
	"github.com/goplus/rivebuild/internal/toolchain"
)

// selection holds the flags choosing what to build, shared by build and
// plan.
type selection struct {
	target  string
	profile string
	layout  bool
	text    bool
}

func (s *selection) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&s.target, "target", "", "Target triple (default $TARGET)")
	flags.StringVar(&s.profile, "profile", "", "Build profile (default $PROFILE)")
	flags.BoolVar(&s.layout, "layout", false, "Build the layout subsystem")
	flags.BoolVar(&s.text, "text", false, "Build the text shaping and bidi subsystems")
}

// lookup layers the target and profile flags over the process environment.
func (s *selection) lookup() env.Lookup {
	return env.OS().Override(map[string]string{
		"TARGET":  s.target,
		"PROFILE": s.profile,
	})
}

// config loads the manifest and applies the feature flags the user set.
func (s *selection) config(cmd *cobra.Command, lookup env.Lookup) (*manifest.Config, error) {
	path := manifestFile
	if path == "" {
		path = manifest.DefaultFile
	}
	cfg, err := manifest.Load(path, lookup)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("layout") {
		cfg.Features.Layout = s.layout
	}
	if cmd.Flags().Changed("text") {
		cfg.Features.Text = s.text
	}
	return cfg, nil
}

// resolve returns the configuration and toolchain for one build.
func (s *selection) resolve(cmd *cobra.Command) (*manifest.Config, *toolchain.Profile, toolchain.Tools, env.Lookup, error) {
	lookup := s.lookup()
	cfg, err := s.config(cmd, lookup)
	if err != nil {
		return nil, nil, toolchain.Tools{}, nil, err
	}
	p, tools, err := toolchain.ResolveEnv(lookup)
	if err != nil {
		return nil, nil, toolchain.Tools{}, nil, err
	}
	return cfg, p, tools, lookup, nil
}
