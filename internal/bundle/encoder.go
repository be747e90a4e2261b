// Package bundle serializes a source tree into one self-describing text
// artifact: usage guide, directory tree, tabular file index, and ID-stamped
// per-file content sections under byte budgets.
package bundle

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llmprep/internal/events"
	"llmprep/internal/ignore"
	"llmprep/internal/tree"
)

// SortMode selects the deterministic total order applied to candidate files.
type SortMode string

const (
	SortPath SortMode = "path" // lexicographic relative path
	SortSize SortMode = "size" // (byte size, path)
	SortExt  SortMode = "ext"  // (lowercased extension, path)
)

// Options configures one bundle run.
type Options struct {
	Root           string
	Output         string
	FollowSymlinks bool
	Sort           SortMode
	IDPrefix       string
	MaxFileBytes   int64
	MaxTotalBytes  int64
	Guide          GuideMode
	// SelfName is the tool's own entry-point file name, always excluded
	// from traversal alongside the output file name.
	SelfName string
}

// FileRecord is the per-file metadata row for the bundle index. Records are
// created during the analysis pass and immutable afterwards.
type FileRecord struct {
	ID            string
	RelPath       string
	Language      string
	ByteSize      int64
	LineCount     int
	ContentDigest string // SHA-1 hex over full content; integrity display only
	IsBinary      bool
	Note          string
}

// Stats summarizes a completed bundle run.
type Stats struct {
	Files        int
	Skipped      int
	BytesWritten int64
}

var (
	// ErrInvalidRoot indicates the ignore-root is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid project root")
	// ErrOutputUnwritable indicates the output path could not be opened.
	ErrOutputUnwritable = errors.New("output not writable")
)

const sniffLen = 4096

// Encoder produces project bundles. One encoder serves one run.
type Encoder struct {
	opts Options
	sink events.Sink
}

// NewEncoder creates a bundle encoder. A nil sink disables reporting.
func NewEncoder(opts Options, sink events.Sink) *Encoder {
	if sink == nil {
		sink = events.NopSink{}
	}
	if opts.IDPrefix == "" {
		opts.IDPrefix = "F"
	}
	if opts.Sort == "" {
		opts.Sort = SortPath
	}
	if opts.Guide == "" {
		opts.Guide = GuideShort
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = 2_000_000
	}
	if opts.MaxTotalBytes <= 0 {
		opts.MaxTotalBytes = 50_000_000
	}
	return &Encoder{opts: opts, sink: sink}
}

// Run traverses, analyzes, and writes the bundle. An invalid root or an
// unopenable output path is fatal before any write; every per-file failure
// degrades that file to a skipped section and the run continues.
func (e *Encoder) Run() (*Stats, error) {
	root, err := filepath.Abs(e.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, e.opts.Root)
	}

	e.sink.Log(events.Info, fmt.Sprintf("Project root: %s", root))
	e.sink.Log(events.Info, fmt.Sprintf("Output file: %s", e.opts.Output))

	rules := append([]string(nil), ignore.DefaultRules...)
	rules = append(rules, ignore.LoadProjectRules(root)...)
	if name := filepath.Base(e.opts.Output); name != "" && name != "." {
		rules = append(rules, name)
	}
	if e.opts.SelfName != "" {
		rules = append(rules, e.opts.SelfName)
	}
	matcher := ignore.NewMatcher(rules)

	files := walkFiles(root, matcher, e.opts.FollowSymlinks)
	e.sortFiles(files)
	e.sink.Log(events.Info, fmt.Sprintf("Found %d files to process", len(files)))

	records := e.analyze(root, files)

	out, err := os.Create(e.opts.Output)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputUnwritable, err)
	}
	defer out.Close()

	stats, err := e.write(out, root, records)
	if err != nil {
		return nil, err
	}
	e.sink.Progress(100)
	e.sink.Log(events.Summary, fmt.Sprintf(
		"Bundle complete: %d files (%d skipped), ~%d bytes of content",
		stats.Files, stats.Skipped, stats.BytesWritten))
	return stats, nil
}

// sortFiles applies the configured deterministic total order.
func (e *Encoder) sortFiles(files []string) {
	switch e.opts.Sort {
	case SortSize:
		sizes := make(map[string]int64, len(files))
		for _, f := range files {
			if info, err := os.Stat(f); err == nil {
				sizes[f] = info.Size()
			}
		}
		sort.Slice(files, func(i, j int) bool {
			if sizes[files[i]] != sizes[files[j]] {
				return sizes[files[i]] < sizes[files[j]]
			}
			return files[i] < files[j]
		})
	case SortExt:
		sort.Slice(files, func(i, j int) bool {
			ei := strings.ToLower(filepath.Ext(files[i]))
			ej := strings.ToLower(filepath.Ext(files[j]))
			if ei != ej {
				return ei < ej
			}
			return files[i] < files[j]
		})
	default:
		sort.Strings(files)
	}
}

// fileID formats the sequential id for position i (1-based). The pad width
// grows with the file count but never drops below 4 digits.
func (e *Encoder) fileID(i, total int) string {
	width := len(fmt.Sprint(total))
	if width < 4 {
		width = 4
	}
	return fmt.Sprintf("%s%0*d", e.opts.IDPrefix, width, i)
}

// analyze builds the FileRecord for every candidate path: binary
// classification, streaming SHA-1 over full text content, and line counting
// over the capped preview.
func (e *Encoder) analyze(root string, files []string) []FileRecord {
	records := make([]FileRecord, 0, len(files))
	for i, path := range files {
		rec := FileRecord{
			ID:       e.fileID(i+1, len(files)),
			RelPath:  ignore.Rel(root, path),
			Language: detectLanguage(path),
		}
		if info, err := os.Stat(path); err == nil {
			rec.ByteSize = info.Size()
		}

		if isProbablyBinary(path) {
			rec.IsBinary = true
			rec.Language = "Binary"
			rec.Note = "binary: skipped"
		} else {
			digest, lines, truncated, err := e.digestAndCount(path)
			switch {
			case err != nil:
				rec.Note = "read error: skipped"
			case truncated:
				rec.Note = fmt.Sprintf("truncated to %d bytes", e.opts.MaxFileBytes)
			}
			rec.ContentDigest = digest
			rec.LineCount = lines
		}
		records = append(records, rec)

		if (i+1)%50 == 0 {
			e.sink.Progress((i + 1) * 50 / len(files))
		}
	}
	return records
}

// digestAndCount streams the file once: the capped prefix is buffered for
// line counting while the SHA-1 runs over the full content.
func (e *Encoder) digestAndCount(path string) (digest string, lines int, truncated bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, false, err
	}
	defer f.Close()

	h := sha1.New()
	capped, err := io.ReadAll(io.LimitReader(io.TeeReader(f, h), e.opts.MaxFileBytes))
	if err != nil {
		return "", 0, false, err
	}
	rest, err := io.Copy(h, f)
	if err != nil {
		return "", 0, false, err
	}
	if len(capped) == 0 && rest == 0 {
		return "", 0, false, nil
	}

	text := string(capped)
	lines = strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}
	return hex.EncodeToString(h.Sum(nil)), lines, rest > 0, nil
}

// isProbablyBinary classifies by known binary extension or a NUL byte in the
// first 4096 bytes. Sniff read errors force the binary classification so the
// file is skipped rather than serialized.
func isProbablyBinary(path string) bool {
	if binaryExts[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

// write emits the bundle: header, usage guide, project map, file index, and
// per-file sections under the global byte budget.
func (e *Encoder) write(w io.Writer, root string, records []FileRecord) (*Stats, error) {
	bw := bufio.NewWriter(w)
	stats := &Stats{Files: len(records)}

	fmt.Fprintf(bw, "# PROJECT BUNDLE\n")
	fmt.Fprintf(bw, "# Root: %s\n", root)
	fmt.Fprintf(bw, "# Format: LLM guide + project map + file index + file sections with stable IDs\n\n")

	bw.WriteString(usageGuide(e.opts.Guide))

	var visible []string
	for _, rec := range records {
		if !rec.IsBinary {
			visible = append(visible, rec.RelPath)
		}
	}
	fmt.Fprintf(bw, "## PROJECT MAP\n```\n%s\n```\n\n", tree.Render(filepath.Base(root), visible))

	fmt.Fprintf(bw, "## FILE INDEX (Global TOC)\n")
	fmt.Fprintf(bw, "| ID | Path | Lang | Bytes | Lines | SHA1 | Note |\n")
	fmt.Fprintf(bw, "|---:|------|------:|------:|------:|------|------|\n")
	for _, rec := range records {
		sha := ""
		if rec.ContentDigest != "" {
			sha = rec.ContentDigest[:10] + "…"
		}
		fmt.Fprintf(bw, "| %s | %s | %s | %d | %d | %s | %s |\n",
			rec.ID, rec.RelPath, rec.Language, rec.ByteSize, rec.LineCount, sha, rec.Note)
	}
	bw.WriteString("\n---\n\n")

	budgetExhausted := false
	for i, rec := range records {
		fmt.Fprintf(bw, "===== FILE %s =====\n", rec.ID)
		fmt.Fprintf(bw, "PATH: %s\n", rec.RelPath)
		fmt.Fprintf(bw, "LANG: %s\n", rec.Language)
		fmt.Fprintf(bw, "BYTES: %d\n", rec.ByteSize)
		fmt.Fprintf(bw, "LINES: %d\n", rec.LineCount)
		fmt.Fprintf(bw, "SHA1: %s\n", rec.ContentDigest)
		if rec.Note != "" {
			fmt.Fprintf(bw, "NOTE: %s\n", rec.Note)
		}
		bw.WriteString("\n")

		switch {
		case rec.IsBinary:
			stats.Skipped++
			writeSkippedSection(bw, rec.ID, "Binary content not included.")
		case budgetExhausted:
			stats.Skipped++
			writeSkippedSection(bw, rec.ID, "Total bundle size limit reached.")
		default:
			content, err := readCapped(filepath.Join(root, filepath.FromSlash(rec.RelPath)), e.opts.MaxFileBytes)
			if err != nil {
				stats.Skipped++
				writeSkippedSection(bw, rec.ID, "Could not read file as text.")
				break
			}
			if e.opts.MaxTotalBytes > 0 && stats.BytesWritten+int64(len(content)) > e.opts.MaxTotalBytes {
				// The budget holds for the rest of the run: later files are
				// skipped even if smaller, keeping output order-independent
				// of file sizes.
				budgetExhausted = true
				stats.Skipped++
				writeSkippedSection(bw, rec.ID, "Total bundle size limit reached.")
				break
			}
			text := string(content)
			fmt.Fprintf(bw, "----- BEGIN CONTENT %s -----\n", rec.ID)
			bw.WriteString(text)
			if !strings.HasSuffix(text, "\n") {
				bw.WriteString("\n")
			}
			fmt.Fprintf(bw, "----- END CONTENT %s -----\n\n", rec.ID)
			stats.BytesWritten += int64(len(content))
		}

		e.sink.Progress(50 + (i+1)*50/len(records))
	}

	fmt.Fprintf(bw, "\nProject bundling complete. Files: %d | Wrote ~%d bytes\n", len(records), stats.BytesWritten)

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write bundle: %w", err)
	}
	return stats, nil
}

func writeSkippedSection(w io.Writer, id, reason string) {
	fmt.Fprintf(w, "[SKIPPED] %s\n", reason)
	fmt.Fprintf(w, "----- BEGIN CONTENT %s -----\n", id)
	fmt.Fprintf(w, "[No content]\n")
	fmt.Fprintf(w, "----- END CONTENT %s -----\n\n", id)
}

// readCapped reads at most max bytes of the file.
func readCapped(path string, max int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if max <= 0 {
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(f, max))
}
