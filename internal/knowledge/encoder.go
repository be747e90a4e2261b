// Package knowledge converts a queue of documents into batched, structured
// knowledge files with deterministic content-hash DocIDs.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"llmprep/internal/events"
	"llmprep/internal/extract"
)

// Options configures one knowledge-encoding run.
type Options struct {
	OutputDir string
	BaseName  string // knowledge files are written as <BaseName>_<n>.txt
	BatchSize int    // documents per output file
	IDPrefix  string // DocID prefix, e.g. "DOC"
}

// Stats summarizes a completed run.
type Stats struct {
	Processed int
	Failed    int
	Batches   int
}

// ErrOutputUnwritable indicates a knowledge file could not be created.
var ErrOutputUnwritable = errors.New("output not writable")

// maxWorkers bounds the extraction pool. PDF/EPUB parsing is memory-heavy,
// so the pool is clamped to a small ceiling regardless of hardware
// parallelism.
func maxWorkers() int {
	n := runtime.NumCPU()
	if n < 2 {
		n = 2
	}
	if n > 4 {
		n = 4
	}
	return n
}

// Encoder runs the batched extraction pipeline.
type Encoder struct {
	opts      Options
	extractor *extract.Extractor
	sink      events.Sink
}

// NewEncoder creates a knowledge encoder. A nil sink disables reporting.
func NewEncoder(opts Options, sink events.Sink) *Encoder {
	if sink == nil {
		sink = events.NopSink{}
	}
	if opts.BaseName == "" {
		opts.BaseName = "knowledge_base"
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 10
	}
	return &Encoder{
		opts:      opts,
		extractor: extract.NewExtractor(opts.IDPrefix),
		sink:      sink,
	}
}

// Run processes paths in alphabetical basename order, batch by batch. Within
// a batch each document is extracted on a bounded worker pool; outcomes are
// re-sorted by original queue position before serialization so output order
// never depends on completion timing. Per-document failures are logged and
// skipped; only an unwritable output file is fatal.
func (e *Encoder) Run(ctx context.Context, paths []string) (*Stats, error) {
	queue := append([]string(nil), paths...)
	sort.Slice(queue, func(i, j int) bool {
		bi, bj := filepath.Base(queue[i]), filepath.Base(queue[j])
		if bi != bj {
			return bi < bj
		}
		return queue[i] < queue[j]
	})

	stats := &Stats{}
	done := 0
	for start := 0; start < len(queue); start += e.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		end := start + e.opts.BatchSize
		if end > len(queue) {
			end = len(queue)
		}
		batch := queue[start:end]
		stats.Batches++

		name := fmt.Sprintf("%s_%d.txt", e.opts.BaseName, stats.Batches)
		e.sink.Log(events.Info, fmt.Sprintf("Starting batch %d -> %s", stats.Batches, name))

		outcomes := e.extractBatch(ctx, batch, &done, len(queue))

		var docs []*extract.Document
		for _, oc := range outcomes {
			if oc.Err != nil {
				stats.Failed++
				e.sink.Log(events.Error, fmt.Sprintf("Error on %q: %s", filepath.Base(oc.Path), oc.Err.Reason))
				continue
			}
			e.sink.Log(events.Success, fmt.Sprintf("ID %s assigned to %q", oc.Doc.ShortID, filepath.Base(oc.Path)))
			docs = append(docs, oc.Doc)
		}

		if len(docs) == 0 {
			e.sink.Log(events.Warning, fmt.Sprintf("Batch %d had no documents to write", stats.Batches))
			continue
		}
		outPath := filepath.Join(e.opts.OutputDir, name)
		if err := writeKnowledgeFile(outPath, docs); err != nil {
			return stats, fmt.Errorf("%w: %v", ErrOutputUnwritable, err)
		}
		stats.Processed += len(docs)
		e.sink.Log(events.Success, fmt.Sprintf("Batch %d complete: wrote %d documents", stats.Batches, len(docs)))
	}

	e.sink.Log(events.Summary, fmt.Sprintf(
		"Knowledge encoding complete: %d documents processed, %d failed", stats.Processed, stats.Failed))
	return stats, nil
}

// extractBatch fans the batch out over the worker pool and returns outcomes
// indexed by original batch position. Workers are stateless and share no
// mutable data: each writes only its own slice slot.
func (e *Encoder) extractBatch(ctx context.Context, batch []string, done *int, total int) []extract.Outcome {
	outcomes := make([]extract.Outcome, len(batch))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers())
	for i, path := range batch {
		g.Go(func() error {
			oc := e.extractor.Extract(path)
			if oc.Doc != nil {
				oc.Doc.OrderIndex = i
			}
			outcomes[i] = oc
			return nil
		})
	}
	// Workers never return errors; failures travel inside the Outcome.
	_ = g.Wait()

	for range batch {
		*done++
		e.sink.Progress(*done * 100 / total)
	}
	return outcomes
}
