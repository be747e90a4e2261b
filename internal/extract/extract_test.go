package extract

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmprep/internal/textnorm"
)

// Test Plan for extract:
// - KindOf resolves strategies by extension, case-insensitively
// - TitleFromPath strips disallowed characters and title-cases
// - Plain text decodes UTF-8 directly and latin-1 as fallback
// - Whitespace-only input is a typed failure, not an empty document
// - Identical content at different paths with the same name yields the
//   same DocID
// - Unsupported extensions and unreadable paths fail with a reason
// - HTMLToText drops script/style and shields code elements with sentinels
// - palmdocDecode handles literals, literal runs, pairs, and space-chars
// - A synthetic PalmDoc container round-trips through Extract

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindPDF, KindOf("a/b.PDF"))
	assert.Equal(t, KindEPUB, KindOf("book.epub"))
	assert.Equal(t, KindMOBI, KindOf("book.mobi"))
	assert.Equal(t, KindPlainText, KindOf("notes.md"))
	assert.Equal(t, KindPlainText, KindOf("data.JSON"))
	assert.Equal(t, KindUnsupported, KindOf("img.png"))
	assert.Equal(t, KindUnsupported, KindOf("no_extension"))
}

func TestTitleFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Annual Report", TitleFromPath("/docs/annual report.txt"))
	assert.Equal(t, "Report 2024", TitleFromPath("report#2024!.md"))
}

func TestExtract_PlainTextUTF8(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello    world\n"), 0644))

	out := NewExtractor("DOC").Extract(path)
	require.Nil(t, out.Err)
	require.NotNil(t, out.Doc)
	assert.Equal(t, "hello world", out.Doc.Text)
	assert.Equal(t, "Note", out.Doc.Title)
	assert.True(t, strings.HasPrefix(out.Doc.FullHash, "sha256-"))
	assert.True(t, strings.HasPrefix(out.Doc.ShortID, "DOC"))
}

func TestExtract_Latin1Fallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cafe.txt")
	require.NoError(t, os.WriteFile(path, []byte("caf\xe9"), 0644))

	out := NewExtractor("").Extract(path)
	require.Nil(t, out.Err)
	assert.Equal(t, "café", out.Doc.Text)
}

func TestExtract_WhitespaceOnlyFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n\n\t  \n"), 0644))

	out := NewExtractor("").Extract(path)
	require.NotNil(t, out.Err)
	assert.Nil(t, out.Doc)
}

func TestExtract_SameContentSameID(t *testing.T) {
	t.Parallel()

	dirA := t.TempDir()
	dirB := t.TempDir()
	for _, dir := range []string{dirA, dirB} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.txt"), []byte("shared body"), 0644))
	}

	e := NewExtractor("DOC")
	a := e.Extract(filepath.Join(dirA, "guide.txt"))
	b := e.Extract(filepath.Join(dirB, "guide.txt"))

	require.Nil(t, a.Err)
	require.Nil(t, b.Err)
	assert.Equal(t, a.Doc.ShortID, b.Doc.ShortID)
	assert.Equal(t, a.Doc.FullHash, b.Doc.FullHash)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	out := NewExtractor("").Extract("image.png")
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Reason, "unsupported")
}

func TestExtract_MissingFile(t *testing.T) {
	t.Parallel()

	out := NewExtractor("").Extract(filepath.Join(t.TempDir(), "absent.txt"))
	require.NotNil(t, out.Err)
	assert.Contains(t, out.Err.Reason, "read failed")
}

func TestHTMLToText_DropsScriptShieldsCode(t *testing.T) {
	t.Parallel()

	raw := []byte(`<html><head><style>p{color:red}</style></head><body>
<p>Some   prose here</p>
<pre>x   :=   1</pre>
<script>alert("no")</script>
</body></html>`)

	got := HTMLToText(raw)

	assert.Contains(t, got, "Some prose here")
	assert.Contains(t, got, textnorm.CodeStart+"x   :=   1"+textnorm.CodeEnd)
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "color:red")
}

func TestPalmdocDecode(t *testing.T) {
	t.Parallel()

	// Plain ASCII literals pass through.
	assert.Equal(t, []byte("abc"), palmdocDecode([]byte{'a', 'b', 'c'}))

	// 0x01..0x08 introduce a literal run.
	assert.Equal(t, []byte("xy"), palmdocDecode([]byte{0x02, 'x', 'y'}))

	// 0x80..0xBF carry a distance/length pair: distance 3, length 3
	// copies the previous "abc".
	assert.Equal(t, []byte("abcabc"), palmdocDecode([]byte{'a', 'b', 'c', 0x80, 0x18}))

	// 0xC0..0xFF expand to a space plus the low ASCII character.
	assert.Equal(t, []byte("hi Alice"), palmdocDecode([]byte{'h', 'i', 0xC1, 'l', 'i', 'c', 'e'}))
}

// buildPalmDoc assembles a minimal uncompressed TEXtREAd container holding a
// single text record.
func buildPalmDoc(t *testing.T, body []byte) []byte {
	t.Helper()

	const (
		headerLen = 78
		entryLen  = 8
		rec0Len   = 16
	)
	rec0Off := headerLen + 2*entryLen
	rec1Off := rec0Off + rec0Len

	raw := make([]byte, rec1Off+len(body))
	copy(raw[0:], "testbook")
	copy(raw[60:68], "TEXtREAd")
	binary.BigEndian.PutUint16(raw[76:78], 2)

	binary.BigEndian.PutUint32(raw[78:82], uint32(rec0Off))
	binary.BigEndian.PutUint32(raw[86:90], uint32(rec1Off))

	rec0 := raw[rec0Off : rec0Off+rec0Len]
	binary.BigEndian.PutUint16(rec0[0:2], palmCompressionNone)
	binary.BigEndian.PutUint32(rec0[4:8], uint32(len(body)))
	binary.BigEndian.PutUint16(rec0[8:10], 1)
	binary.BigEndian.PutUint16(rec0[10:12], 4096)

	copy(raw[rec1Off:], body)
	return raw
}

func TestExtract_SyntheticMOBI(t *testing.T) {
	t.Parallel()

	body := []byte("<html><body><p>Hello Mobi World</p></body></html>")
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.mobi")
	require.NoError(t, os.WriteFile(path, buildPalmDoc(t, body), 0644))

	out := NewExtractor("DOC").Extract(path)
	require.Nil(t, out.Err)
	require.NotNil(t, out.Doc)
	assert.Contains(t, out.Doc.Text, "Hello Mobi World")
	assert.Equal(t, "Sample", out.Doc.Title)
}

func TestUnpackMOBI_RejectsForeignContainers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bogus.mobi")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a palm database, far too short header..."), 0644))

	err := unpackMOBI(path, dir)
	assert.Error(t, err)
}
