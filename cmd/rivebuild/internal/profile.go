package internal

import (
	"github.com/spf13/cobra"

	"github.com/goplus/rivebuild/internal/toolchain"
)

var profileSel selection

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the resolved toolchain profile",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

func init() {
	flags := profileCmd.Flags()
	flags.StringVar(&profileSel.target, "target", "", "Target triple (default $TARGET)")
	flags.StringVar(&profileSel.profile, "profile", "", "Build profile (default $PROFILE)")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	p, tools, err := toolchain.ResolveEnv(profileSel.lookup())
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), struct {
		*toolchain.Profile
		Tools toolchain.Tools `json:"tools"`
	}{p, tools})
}
