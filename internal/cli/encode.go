package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"llmprep/internal/config"
	"llmprep/internal/events"
	"llmprep/internal/knowledge"
	"llmprep/internal/queue"
)

var (
	encodeQueueFile string
	encodeOutputDir string
	encodeBaseName  string
	encodeBatchSize int
	encodePrefix    string
)

// encodeCmd represents the encode command.
var encodeCmd = &cobra.Command{
	Use:   "encode [files...]",
	Short: "Convert documents into batched knowledge files",
	Long: `Encode extracts text from the given documents (txt/md/csv/json/... plain
text, PDF, EPUB, MOBI), normalizes it, assigns deterministic content-hash
DocIDs, and writes batched knowledge files ready for LLM retrieval.

Inputs come from command-line arguments, a queue file (--queue, one absolute
path per line), or both. The queue is sorted alphabetically before batching;
per-document extraction runs on a small worker pool, and output order always
matches queue order.

Examples:
  # Encode three documents, ten per output file
  llmprep encode book1.epub book2.pdf notes.md

  # Encode a saved queue into ./kb as my_library_1.txt, my_library_2.txt, ...
  llmprep encode --queue reading.que.txt --output-dir kb --base-name my_library`,
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVar(&encodeQueueFile, "queue", "", "Queue file with one document path per line")
	encodeCmd.Flags().StringVarP(&encodeOutputDir, "output-dir", "d", "", "Directory for knowledge files")
	encodeCmd.Flags().StringVar(&encodeBaseName, "base-name", "", "Base name for knowledge files")
	encodeCmd.Flags().IntVar(&encodeBatchSize, "batch-size", 0, "Documents per knowledge file")
	encodeCmd.Flags().StringVar(&encodePrefix, "id-prefix", "", "DocID prefix (letters/numbers)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Finishing current batch...")
		cancel()
	}()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.NewLoader(rootDir).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	kc := cfg.Knowledge

	if cmd.Flags().Changed("output-dir") {
		kc.OutputDir = encodeOutputDir
	}
	if cmd.Flags().Changed("base-name") {
		kc.BaseName = encodeBaseName
	}
	if cmd.Flags().Changed("batch-size") {
		kc.BatchSize = encodeBatchSize
	}
	if cmd.Flags().Changed("id-prefix") {
		kc.IDPrefix = config.SanitizeDocIDPrefix(encodePrefix)
	}
	if err := config.Validate(&config.Config{Bundle: cfg.Bundle, Knowledge: kc}); err != nil {
		return err
	}

	paths, err := collectInputs(args, encodeQueueFile)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input documents: pass files as arguments or use --queue")
	}

	if kc.OutputDir != "" && kc.OutputDir != "." {
		if err := os.MkdirAll(kc.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	opts := knowledge.Options{
		OutputDir: kc.OutputDir,
		BaseName:  kc.BaseName,
		BatchSize: kc.BatchSize,
		IDPrefix:  kc.IDPrefix,
	}

	ch := make(chan events.Event, 64)
	r := startRenderer(ch, quietFlag)

	type result struct {
		stats *knowledge.Stats
		err   error
	}
	resCh := make(chan result, 1)
	go func() {
		defer close(ch)
		stats, err := knowledge.NewEncoder(opts, events.NewChannelSink(ch)).Run(ctx, paths)
		resCh <- result{stats, err}
	}()
	r.wait()

	res := <-resCh
	if res.err != nil {
		return res.err
	}
	if !quietFlag {
		fmt.Printf("✓ Encoded %d documents in %d batches (%d failed)\n",
			res.stats.Processed, res.stats.Batches, res.stats.Failed)
	}
	return nil
}

// collectInputs merges explicit arguments with a queue file, dropping
// duplicates while preserving first-seen order. Arguments are resolved to
// absolute paths so dedup against queue entries works.
func collectInputs(args []string, queueFile string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid input path %q: %w", arg, err)
		}
		add(abs)
	}
	if queueFile != "" {
		res, err := queue.Load(queueFile)
		if err != nil {
			return nil, err
		}
		if res.Missing > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d queue entries no longer exist and were dropped\n", res.Missing)
		}
		for _, p := range res.Paths {
			add(p)
		}
	}
	return paths, nil
}
