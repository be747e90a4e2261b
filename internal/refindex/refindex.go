// Package refindex scans produced knowledge files and builds the global
// DocID -> source-file manifest (the reference sheet).
package refindex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"llmprep/internal/events"
)

// Header is the fixed instructional block opening every reference sheet.
const Header = `
[SYSTEM INSTRUCTION]
This is an AI Reference Sheet, a global manifest for multiple knowledge files.
1.  **Purpose:** This file is an index linking a document's ` + "`DocID`" + ` and ` + "`Title`" + ` to its ` + "`SourceFile`" + `. It does not contain document text.
2.  **Structure:** ` + "`[DocID: ... | Title: ...] | [SourceFile: ...]`" + `
3.  **Usage:** Use this manifest to identify which ` + "`SourceFile`" + ` contains the relevant document for a query before retrieving the content.
4.  **Canonical Identifier:** The ` + "`DocID`" + ` is the unique identifier.
[/SYSTEM INSTRUCTION]
---
`

// Entry maps one DocID to its title and the knowledge file it was first
// seen in.
type Entry struct {
	DocID      string
	Title      string
	SourceFile string
}

// tocLineRe matches a well-formed TOC line. Lines that merely contain the
// DocID marker but fail this pattern are format-mismatch warnings.
var tocLineRe = regexp.MustCompile(`^\[DocID: ([A-Z0-9]+) \((sha256-[a-f0-9]{64})\) \| Title: ([^\]]+)\]\s*$`)

// Indexer accumulates entries across knowledge files. First occurrence wins
// per DocID, so rebuilding over overlapping inputs is idempotent.
type Indexer struct {
	entries map[string]Entry
	sink    events.Sink
}

// NewIndexer creates an empty reference indexer. A nil sink disables
// reporting.
func NewIndexer(sink events.Sink) *Indexer {
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Indexer{entries: make(map[string]Entry), sink: sink}
}

// ScanFile scans one knowledge file line by line, registering every
// well-formed TOC entry not already present. An unopenable file degrades to
// a skipped-file log entry; the indexer continues. Returns the number of
// matched lines.
func (x *Indexer) ScanFile(path string) int {
	source := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		x.sink.Log(events.Error, fmt.Sprintf("Could not open %q, skipping: %v", source, err))
		return 0
	}
	defer f.Close()

	matches := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		m := tocLineRe.FindStringSubmatch(line)
		if m == nil {
			if strings.Contains(line, "[DocID:") {
				x.sink.Log(events.Warning, fmt.Sprintf("Skipped line (format mismatch): %s", strings.TrimSpace(line)))
			}
			continue
		}
		matches++
		id := m[1]
		if _, seen := x.entries[id]; !seen {
			x.entries[id] = Entry{DocID: id, Title: m[3], SourceFile: source}
		}
	}
	if err := sc.Err(); err != nil {
		x.sink.Log(events.Error, fmt.Sprintf("Error while scanning %q: %v", source, err))
	}
	x.sink.Log(events.Info, fmt.Sprintf("Found %d entries in %q", matches, source))
	return matches
}

// Entries returns the accumulated entries sorted case-insensitively by
// title.
func (x *Indexer) Entries() []Entry {
	out := make([]Entry, 0, len(x.entries))
	for _, e := range x.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if ti != tj {
			return ti < tj
		}
		return out[i].DocID < out[j].DocID
	})
	return out
}

// WriteSheet emits the reference sheet manifest to path. An empty index is
// an error: a sheet with no entries means the inputs were not knowledge
// files.
func (x *Indexer) WriteSheet(path string) error {
	entries := x.Entries()
	if len(entries) == 0 {
		return fmt.Errorf("no valid DocID entries found")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create reference sheet: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.WriteString(Header)
	w.WriteString("\n--- GLOBAL DOCUMENT INDEX ---\n")
	for i, e := range entries {
		if i > 0 {
			w.WriteString("\n")
		}
		fmt.Fprintf(w, "[DocID: %s | Title: %s] | [SourceFile: %s]", e.DocID, e.Title, e.SourceFile)
	}
	w.WriteString("\n--- END OF INDEX ---\n")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write reference sheet: %w", err)
	}
	x.sink.Log(events.Success, fmt.Sprintf("Indexed %d unique documents", len(entries)))
	return nil
}
