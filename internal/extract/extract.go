// Package extract converts documents (plain-text family, PDF, EPUB, MOBI)
// into normalized text with deterministic content-hash identifiers.
package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"llmprep/internal/docid"
	"llmprep/internal/textnorm"
)

// Kind is the extraction strategy for a path, resolved once from the file
// extension and then matched exhaustively.
type Kind int

const (
	KindPlainText Kind = iota
	KindPDF
	KindEPUB
	KindMOBI
	KindUnsupported
)

// plainTextExts is the plain-text family handled by the UTF-8/latin-1 reader.
var plainTextExts = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".rst": true,
	".csv": true, ".tsv": true, ".log": true, ".json": true,
	".xml": true, ".yaml": true, ".yml": true, ".toml": true,
	".ini": true, ".cfg": true, ".conf": true, ".sql": true,
	".tex": true, ".rtf": true,
}

// KindOf resolves the extraction strategy for path by extension.
func KindOf(path string) Kind {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".pdf":
		return KindPDF
	case ext == ".epub":
		return KindEPUB
	case ext == ".mobi":
		return KindMOBI
	case plainTextExts[ext]:
		return KindPlainText
	default:
		return KindUnsupported
	}
}

// Document is the extracted, normalized form of one input file. OrderIndex
// is attached by the caller before serialization; everything else is fixed
// at extraction time.
type Document struct {
	ShortID    string
	FullHash   string
	Title      string
	Text       string
	OrderIndex int
}

// Error is a typed extraction failure carrying a human-readable reason. It
// is always caught at the per-document boundary and converted to a skip; it
// never aborts a sibling document.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func failf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Outcome is the result of extracting one input path: exactly one of Doc or
// Err is set.
type Outcome struct {
	Path string
	Doc  *Document
	Err  *Error
}

// Extractor turns input paths into Outcomes. It is stateless and safe for
// concurrent use by extraction workers.
type Extractor struct {
	idPrefix string
	idLength int
}

// NewExtractor creates an extractor assigning DocIDs with the given prefix.
func NewExtractor(idPrefix string) *Extractor {
	if idPrefix == "" {
		idPrefix = "DOC"
	}
	return &Extractor{idPrefix: idPrefix, idLength: 6}
}

// Extract maps one input path to exactly one Outcome. Failures, including
// panics from format parsers, are converted into typed reasons; Extract
// itself never returns an error or panics.
func (e *Extractor) Extract(path string) (out Outcome) {
	out.Path = path
	defer func() {
		if r := recover(); r != nil {
			out.Doc = nil
			out.Err = failf("extractor panic: %v", r)
		}
	}()

	title := TitleFromPath(path)

	var (
		text string
		xerr *Error
	)
	switch KindOf(path) {
	case KindPlainText:
		text, xerr = extractPlainText(path)
	case KindPDF:
		text, xerr = extractPDF(path)
	case KindEPUB:
		text, xerr = extractEPUB(path)
	case KindMOBI:
		text, xerr = extractMOBI(path)
	case KindUnsupported:
		xerr = failf("unsupported file type %q", filepath.Ext(path))
	}
	if xerr != nil {
		out.Err = xerr
		return out
	}
	if strings.TrimSpace(text) == "" {
		out.Err = failf("extracted text is empty")
		return out
	}

	fullHash := docid.FullHash(title, text)
	out.Doc = &Document{
		ShortID:  docid.ShortID(fullHash, e.idPrefix, e.idLength),
		FullHash: fullHash,
		Title:    title,
		Text:     text,
	}
	return out
}

// titleStripRe removes characters outside a conservative allow-list.
var titleStripRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,'()&]+`)

var titleCaser = cases.Title(language.Und)

// TitleFromPath derives the document title: basename without extension,
// disallowed characters replaced by spaces, title-cased, then
// prose-normalized. The result feeds the content hash, so this derivation
// must stay deterministic.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	safe := strings.TrimSpace(titleStripRe.ReplaceAllString(base, " "))
	return textnorm.NormalizeKeepingCode(titleCaser.String(safe))
}
