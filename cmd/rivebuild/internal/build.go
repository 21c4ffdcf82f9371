package internal

import (
	"fmt"
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/goplus/rivebuild/internal/build"
	"github.com/goplus/rivebuild/internal/cc"
	"github.com/goplus/rivebuild/internal/directive"
	"github.com/goplus/rivebuild/internal/env"
	"github.com/goplus/rivebuild/internal/subsys"
)

var (
	buildSel    selection
	buildOutDir string
	buildForce  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the runtime and print link directives",
	Long: `Build compiles every enabled subsystem into a static archive under the
output directory, then prints rerun and link directives on stdout.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildSel.register(buildCmd)
	buildCmd.Flags().StringVar(&buildOutDir, "out-dir", "", "Output directory (default $OUT_DIR)")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Rebuild even when the build cache is up to date")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, p, tools, lookup, err := buildSel.resolve(cmd)
	if err != nil {
		return err
	}
	lookup = lookup.Override(map[string]string{"OUT_DIR": buildOutDir})
	outDir, err := env.OutDir(lookup)
	if err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if !cfg.Loaded {
		log.Debugf("%s not found, using defaults", cfg.File)
	}
	log.Debugf("target %s, profile %s, %s front-end", p.Triple, p.BuildProfile, p.Frontend)

	jobs, err := env.Jobs(lookup)
	if err != nil {
		return err
	}

	compiler := cc.New(p, tools, outDir, jobs)
	// stdout carries the directives.
	compiler.Stdout = os.Stderr

	builder := build.NewBuilder(build.Options{
		Compiler:   compiler,
		Directives: directive.New(cmd.OutOrStdout()),
		Watch:      cfg.Watch,
		CacheDir:   outDir,
		Force:      buildForce,
		Tools:      tools,
	})
	table := subsys.Table(cfg.Features, cfg.Paths, cfg.Binding)
	results, err := builder.Build(cmd.Context(), p, table)
	if err != nil {
		return err
	}
	log.Infof("built %d archives in %s", len(results), outDir)
	return nil
}
