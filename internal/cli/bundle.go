package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"llmprep/internal/bundle"
	"llmprep/internal/config"
	"llmprep/internal/events"
)

var (
	bundleRoot     string
	bundleOutput   string
	bundleSort     string
	bundlePrefix   string
	bundleMaxFile  int64
	bundleMaxTotal int64
	bundleGuide    string
	bundleSymlinks bool
)

// bundleCmd represents the bundle command.
var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Serialize a project tree into one LLM-ready bundle file",
	Long: `Bundle traverses the project root (pruning ignored directories), assigns
stable sequential file IDs, and writes a single text artifact containing a
usage guide, a project map, a file index, and per-file content sections
bounded by per-file and total byte budgets.

Ignore rules come from a built-in default set supplemented by the project's
.gitignore; the output file and the tool itself are always excluded.

Examples:
  # Bundle the current directory
  llmprep bundle

  # Bundle a specific tree, largest files last
  llmprep bundle --root ./service --sort size --output service_bundle.txt`,
	RunE: runBundle,
}

func init() {
	rootCmd.AddCommand(bundleCmd)
	bundleCmd.Flags().StringVar(&bundleRoot, "root", ".", "Project root to bundle")
	bundleCmd.Flags().StringVarP(&bundleOutput, "output", "o", "", "Bundle output path (default from config)")
	bundleCmd.Flags().StringVar(&bundleSort, "sort", "", "Sort mode: path, size, or ext")
	bundleCmd.Flags().StringVar(&bundlePrefix, "id-prefix", "", "File ID prefix")
	bundleCmd.Flags().Int64Var(&bundleMaxFile, "max-file-bytes", 0, "Per-file content byte cap")
	bundleCmd.Flags().Int64Var(&bundleMaxTotal, "max-total-bytes", 0, "Total content byte cap")
	bundleCmd.Flags().StringVar(&bundleGuide, "guide", "", "Usage guide verbosity: none, short, or verbose")
	bundleCmd.Flags().BoolVar(&bundleSymlinks, "follow-symlinks", false, "Follow symlinked directories")
}

func runBundle(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(bundleRoot).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	bc := cfg.Bundle

	if cmd.Flags().Changed("output") {
		bc.Output = bundleOutput
	}
	if cmd.Flags().Changed("sort") {
		bc.Sort = bundleSort
	}
	if cmd.Flags().Changed("id-prefix") {
		bc.IDPrefix = bundlePrefix
	}
	if cmd.Flags().Changed("max-file-bytes") {
		bc.MaxFileBytes = bundleMaxFile
	}
	if cmd.Flags().Changed("max-total-bytes") {
		bc.MaxTotalBytes = bundleMaxTotal
	}
	if cmd.Flags().Changed("guide") {
		bc.Guide = bundleGuide
	}
	if cmd.Flags().Changed("follow-symlinks") {
		bc.FollowSymlinks = bundleSymlinks
	}
	if err := config.Validate(&config.Config{Bundle: bc, Knowledge: cfg.Knowledge}); err != nil {
		return err
	}

	opts := bundle.Options{
		Root:           bundleRoot,
		Output:         bc.Output,
		FollowSymlinks: bc.FollowSymlinks,
		Sort:           bundle.SortMode(bc.Sort),
		IDPrefix:       bc.IDPrefix,
		MaxFileBytes:   bc.MaxFileBytes,
		MaxTotalBytes:  bc.MaxTotalBytes,
		Guide:          bundle.GuideMode(bc.Guide),
		SelfName:       selfName(),
	}

	ch := make(chan events.Event, 64)
	r := startRenderer(ch, quietFlag)

	// The encoder runs on one background worker; the renderer is the only
	// consumer and the channel the only shared state between them.
	type result struct {
		stats *bundle.Stats
		err   error
	}
	resCh := make(chan result, 1)
	go func() {
		defer close(ch)
		stats, err := bundle.NewEncoder(opts, events.NewChannelSink(ch)).Run()
		resCh <- result{stats, err}
	}()
	r.wait()

	res := <-resCh
	if res.err != nil {
		return res.err
	}
	if !quietFlag {
		fmt.Printf("✓ Bundle written to %s (%d files, %d skipped, ~%d content bytes)\n",
			bc.Output, res.stats.Files, res.stats.Skipped, res.stats.BytesWritten)
	}
	return nil
}

// selfName returns the running binary's base name for self-exclusion from
// traversal.
func selfName() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Base(exe)
}
