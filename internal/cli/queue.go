package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"llmprep/internal/queue"
)

// queueCmd groups queue-file maintenance commands.
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Maintain document queue files",
	Long: `Queue files hold one absolute document path per line and feed
'llmprep encode --queue'. These commands validate and clean them.`,
}

// queueCheckCmd reports duplicates and missing entries without modifying
// the file.
var queueCheckCmd = &cobra.Command{
	Use:   "check <queue-file>",
	Short: "Report duplicate and missing queue entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := queue.Load(args[0])
		if err != nil {
			return err
		}
		dups := queue.Duplicates(res.Paths)
		fmt.Printf("%d valid entries, %d missing\n", len(res.Paths), res.Missing)
		if len(dups) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}
		fmt.Printf("%d duplicate filenames:\n", len(dups))
		for _, d := range dups {
			fmt.Printf("  %s\n", filepath.Base(d))
		}
		return nil
	},
}

// queueDedupeCmd rewrites the queue with duplicates and missing entries
// removed, sorted by basename.
var queueDedupeCmd = &cobra.Command{
	Use:   "dedupe <queue-file>",
	Short: "Remove duplicate and missing entries from a queue file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := queue.Load(args[0])
		if err != nil {
			return err
		}
		cleaned := queue.Dedupe(res.Paths)
		removed := len(res.Paths) - len(cleaned)
		if err := queue.Save(args[0], cleaned); err != nil {
			return err
		}
		fmt.Printf("✓ Kept %d entries (removed %d duplicates, dropped %d missing)\n",
			len(cleaned), removed, res.Missing)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.AddCommand(queueCheckCmd)
	queueCmd.AddCommand(queueDedupeCmd)
}
