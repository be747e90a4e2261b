package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"llmprep/internal/textnorm"
)

// extractPDF concatenates per-page text. A PDF that opens but yields no text
// (image-only or scanned) is a typed NoSelectableText failure, not a crash;
// parser panics are recovered by the Extract boundary.
func extractPDF(path string) (string, *Error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", failf("failed to open PDF: %v", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		sb.WriteString(text)
	}

	out := textnorm.NormalizeKeepingCode(sb.String())
	if out == "" {
		return "", failf("no selectable text found (likely scanned PDF)")
	}
	return out, nil
}
