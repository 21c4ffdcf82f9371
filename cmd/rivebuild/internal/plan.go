package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/goplus/rivebuild/internal/env"
	"github.com/goplus/rivebuild/internal/manifest"
	"github.com/goplus/rivebuild/internal/subsys"
	"github.com/goplus/rivebuild/internal/toolchain"
	"github.com/goplus/rivebuild/internal/unit"
)

var (
	planSel    selection
	planMatrix bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the compilation units without compiling",
	Long: `Plan prints, as JSON, the compilation unit sets a build would compile.
With --matrix it prints the plans of every known target and profile.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planSel.register(planCmd)
	planCmd.Flags().BoolVar(&planMatrix, "matrix", false, "Plan every known target and profile")
	rootCmd.AddCommand(planCmd)
}

// buildPlan is the plan of one target and profile.
type buildPlan struct {
	Profile  *toolchain.Profile `json:"profile"`
	Features subsys.FeatureSet  `json:"features"`
	Sets     []*unit.Set        `json:"sets"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planMatrix {
		lookup := planSel.lookup()
		cfg, err := planSel.config(cmd, lookup)
		if err != nil {
			return err
		}
		plans, err := matrixPlans(cfg, toolchain.DefaultMatrix())
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), plans)
	}

	cfg, p, _, _, err := planSel.resolve(cmd)
	if err != nil {
		return err
	}
	plan, err := newPlan(cfg, p)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), plan)
}

func newPlan(cfg *manifest.Config, p *toolchain.Profile) (*buildPlan, error) {
	sets, err := subsys.Plan(p, subsys.Table(cfg.Features, cfg.Paths, cfg.Binding))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Triple, err)
	}
	return &buildPlan{Profile: p, Features: cfg.Features, Sets: sets}, nil
}

// matrixPlans plans every combination of m with the target's default
// front-end.
func matrixPlans(cfg *manifest.Config, m toolchain.Matrix) ([]*buildPlan, error) {
	n := m.CombinationCount()
	log.Debugf("planning %d target and profile combinations", n)
	plans := make([]*buildPlan, 0, n)
	for _, c := range m.Combinations() {
		target, err := toolchain.ParseTarget(c.Target)
		if err != nil {
			return nil, err
		}
		lookup := env.Map(map[string]string{"TARGET": c.Target, "PROFILE": c.Profile})
		p, err := toolchain.Resolve(lookup, toolchain.DetectMSVC(target, ""))
		if err != nil {
			return nil, err
		}
		plan, err := newPlan(cfg, p)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
