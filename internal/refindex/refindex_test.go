package refindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmprep/internal/events"
)

// Test Plan for refindex:
// - Well-formed TOC lines register entries; other lines are ignored
// - Lines containing the DocID marker but failing the pattern warn
// - First occurrence of a DocID wins across files
// - Entries sort case-insensitively by title, DocID as tie-break
// - WriteSheet emits the manifest with header and index markers
// - WriteSheet on an empty index is an error
// - An unopenable input is skipped, not fatal

func fakeHash(seed byte) string {
	return "sha256-" + strings.Repeat(fmt.Sprintf("%x", seed)[:1], 64)
}

func tocLine(id, title string, seed byte) string {
	return fmt.Sprintf("[DocID: %s (%s) | Title: %s]", id, fakeHash(seed), title)
}

func writeKnowledge(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestScanFile_RegistersTOCEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeKnowledge(t, dir, "kb_1.txt",
		"[SYSTEM INSTRUCTION]",
		tocLine("DOC0001A", "Alpha Guide", 1),
		tocLine("DOC0002B", "Beta Guide", 2),
		"[START OF DOCUMENT: DOC0001A | Title: Alpha Guide]",
		"body text",
	)

	x := NewIndexer(nil)
	assert.Equal(t, 2, x.ScanFile(path))

	entries := x.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "DOC0001A", entries[0].DocID)
	assert.Equal(t, "Alpha Guide", entries[0].Title)
	assert.Equal(t, "kb_1.txt", entries[0].SourceFile)
}

func TestScanFile_FormatMismatchWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeKnowledge(t, dir, "kb.txt",
		"[DocID: lowercase-bad (not-a-hash) | Title: Broken]",
		tocLine("DOCGOOD1", "Fine", 3),
	)

	ch := make(chan events.Event, 16)
	x := NewIndexer(events.NewChannelSink(ch))
	matches := x.ScanFile(path)
	close(ch)

	assert.Equal(t, 1, matches)

	warned := false
	for ev := range ch {
		if ev.Severity == events.Warning && strings.Contains(ev.Message, "format mismatch") {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestScanFile_FirstSourceWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeKnowledge(t, dir, "kb_a.txt", tocLine("DOCSAME1", "Shared Doc", 4))
	b := writeKnowledge(t, dir, "kb_b.txt", tocLine("DOCSAME1", "Shared Doc", 4))

	x := NewIndexer(nil)
	x.ScanFile(a)
	x.ScanFile(b)

	entries := x.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "kb_a.txt", entries[0].SourceFile)
}

func TestEntries_SortedCaseInsensitivelyByTitle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeKnowledge(t, dir, "kb.txt",
		tocLine("DOC00003", "zebra notes", 5),
		tocLine("DOC00001", "Apple Notes", 6),
		tocLine("DOC00002", "mango notes", 7),
	)

	x := NewIndexer(nil)
	x.ScanFile(path)

	var titles []string
	for _, e := range x.Entries() {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Apple Notes", "mango notes", "zebra notes"}, titles)
}

func TestWriteSheet_EmitsManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kb := writeKnowledge(t, dir, "kb_1.txt", tocLine("DOC00001", "Only Doc", 8))

	x := NewIndexer(nil)
	x.ScanFile(kb)

	sheet := filepath.Join(dir, "reference_sheet.txt")
	require.NoError(t, x.WriteSheet(sheet))

	raw, err := os.ReadFile(sheet)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "AI Reference Sheet")
	assert.Contains(t, body, "--- GLOBAL DOCUMENT INDEX ---")
	assert.Contains(t, body, "[DocID: DOC00001 | Title: Only Doc] | [SourceFile: kb_1.txt]")
	assert.Contains(t, body, "--- END OF INDEX ---")
}

func TestWriteSheet_EmptyIndexFails(t *testing.T) {
	t.Parallel()

	x := NewIndexer(nil)
	err := x.WriteSheet(filepath.Join(t.TempDir(), "sheet.txt"))
	assert.Error(t, err)
}

func TestScanFile_UnopenableInputSkipped(t *testing.T) {
	t.Parallel()

	x := NewIndexer(nil)
	assert.Equal(t, 0, x.ScanFile(filepath.Join(t.TempDir(), "absent.txt")))
	assert.Empty(t, x.Entries())
}
