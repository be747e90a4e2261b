package knowledge

import (
	"bufio"
	"fmt"
	"os"

	"llmprep/internal/extract"
	"llmprep/internal/textnorm"
)

// Header is the fixed instructional block opening every knowledge file.
const Header = `
[SYSTEM INSTRUCTION]
This is a structured knowledge file. Interpret it according to these rules:
1.  **File Structure:** Begins with a Table of Contents (TOC).
2.  **Document ID (DocID):** Each document has a short, unique ` + "`DocID`" + ` for citation.
3.  **Content Hash:** A full SHA256 hash is provided for data integrity.
4.  **Markers:** Content is encapsulated by ` + "`[START/END OF DOCUMENT]`" + ` markers.
5.  **Usage:** Use the content to answer queries, citing the ` + "`DocID`" + ` and Title.
[/SYSTEM INSTRUCTION]
---
`

// wrapWidth is the hard-wrap boundary for pathological single-line bodies.
const wrapWidth = 10000

// writeKnowledgeFile serializes one batch: header, TOC, then per-document
// sections in OrderIndex order. Documents are expected pre-sorted by the
// encoder.
func writeKnowledgeFile(path string, docs []*extract.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.WriteString(Header)

	w.WriteString("\n--- TABLE OF CONTENTS ---\n")
	for _, doc := range docs {
		fmt.Fprintf(w, "[DocID: %s (%s) | Title: %s]\n", doc.ShortID, doc.FullHash, doc.Title)
	}
	w.WriteString("--- END OF TOC ---\n\n")

	for _, doc := range docs {
		fmt.Fprintf(w, "[START OF DOCUMENT: %s | Title: %s]\n\n", doc.ShortID, doc.Title)
		body := textnorm.WrapLongLines(textnorm.Sanitize(doc.Text), wrapWidth)
		w.WriteString(body)
		fmt.Fprintf(w, "\n\n[END OF DOCUMENT: %s]\n---\n\n", doc.ShortID)
	}

	return w.Flush()
}
