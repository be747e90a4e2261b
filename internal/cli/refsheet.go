package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"llmprep/internal/events"
	"llmprep/internal/refindex"
)

var refsheetOutput string

// refsheetCmd represents the refsheet command.
var refsheetCmd = &cobra.Command{
	Use:   "refsheet [knowledge files...]",
	Short: "Build a global DocID reference sheet from knowledge files",
	Long: `Refsheet scans previously produced knowledge files for their table of
contents entries and writes a single manifest mapping each DocID to the
knowledge file that contains it. When the same DocID appears in several
files, the first file scanned wins, so rebuilding over overlapping inputs
is idempotent.

Example:
  llmprep refsheet kb/my_library_*.txt --output kb/reference_sheet.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRefsheet,
}

func init() {
	rootCmd.AddCommand(refsheetCmd)
	refsheetCmd.Flags().StringVarP(&refsheetOutput, "output", "o", "reference_sheet.txt", "Reference sheet output path")
}

func runRefsheet(cmd *cobra.Command, args []string) error {
	ch := make(chan events.Event, 64)
	r := startRenderer(ch, quietFlag)

	var total int
	errCh := make(chan error, 1)
	go func() {
		defer close(ch)
		indexer := refindex.NewIndexer(events.NewChannelSink(ch))
		for _, path := range args {
			total += indexer.ScanFile(path)
		}
		errCh <- indexer.WriteSheet(refsheetOutput)
	}()
	r.wait()

	if err := <-errCh; err != nil {
		return err
	}
	if !quietFlag {
		fmt.Printf("✓ Reference sheet written to %s (%d entries scanned)\n", refsheetOutput, total)
	}
	return nil
}
