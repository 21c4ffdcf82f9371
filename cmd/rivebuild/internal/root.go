package internal

import (
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	rootDir      string
	manifestFile string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "rivebuild",
	Short: "rivebuild compiles the Rive runtime into static archives",
	Long: `rivebuild compiles the Rive animation runtime, and the optional layout and
text subsystems, into static archives and prints the link directives the
enclosing build pipeline consumes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		}
		if rootDir != "" {
			return os.Chdir(rootDir)
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootDir, "dir", "C", "", "Change to dir before doing anything")
	flags.StringVar(&manifestFile, "manifest", "", "Build manifest (default rivebuild.hcl)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
