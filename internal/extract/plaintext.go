package extract

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"llmprep/internal/textnorm"
)

// extractPlainText reads the file as UTF-8, falling back to ISO-8859-1 when
// the bytes are not valid UTF-8. The permissive single-byte fallback means a
// readable file always decodes to something; the only content failure is
// text that is empty after normalization.
func extractPlainText(path string) (string, *Error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", failf("read failed: %v", err)
	}

	var text string
	if utf8.Valid(raw) {
		text = string(raw)
	} else {
		decoded, derr := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if derr != nil {
			return "", failf("decode failed: %v", derr)
		}
		text = string(decoded)
	}

	text = textnorm.NormalizeKeepingCode(text)
	if text == "" {
		return "", failf("empty text after normalization")
	}
	return text, nil
}
