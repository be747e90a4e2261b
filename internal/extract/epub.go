package extract

import (
	"io"
	"strings"

	"github.com/kapmahc/epub"
)

// extractEPUB iterates the package manifest's document items (skipping
// stylesheets), converting each to text with code regions protected.
func extractEPUB(path string) (string, *Error) {
	book, err := epub.Open(path)
	if err != nil {
		return "", failf("failed to open EPUB: %v", err)
	}
	defer book.Close()

	var parts []string
	for _, item := range book.Opf.Manifest {
		media := strings.ToLower(item.MediaType)
		if media != "application/xhtml+xml" && media != "text/html" {
			continue
		}
		if strings.HasSuffix(strings.ToLower(item.Href), ".css") {
			continue
		}
		rc, oerr := book.Open(item.Href)
		if oerr != nil {
			continue
		}
		raw, rerr := io.ReadAll(rc)
		rc.Close()
		if rerr != nil {
			continue
		}
		if text := HTMLToText(raw); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", failf("no text documents found in EPUB")
	}
	return strings.Join(parts, "\n\n"), nil
}
