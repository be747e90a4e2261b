// Package cli wires the llmprep commands: bundle, encode, refsheet, queue,
// and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var quietFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "llmprep",
	Short: "Prepare source trees and documents for LLM consumption",
	Long: `llmprep turns heterogeneous content into large, structured text artifacts
optimized for language models: project bundles with stable file IDs and byte
budgets, knowledge files with deterministic content-hash DocIDs, and global
reference sheets linking DocIDs to their knowledge files.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}
