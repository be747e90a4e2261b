package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"llmprep/internal/textnorm"
)

// codeAtoms are the elements whose content must survive prose normalization
// byte-for-byte.
var codeAtoms = map[atom.Atom]bool{
	atom.Pre:  true,
	atom.Code: true,
	atom.Samp: true,
	atom.Kbd:  true,
}

// HTMLToText converts an HTML document to plain text, wrapping code-bearing
// elements (<pre>, <code>, <samp>, <kbd>) with the code-preservation
// sentinels before normalization so their content is never altered. Text
// nodes are joined with newlines; script and style content is dropped.
func HTMLToText(raw []byte) string {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		// html.Parse recovers from almost anything; treat a hard failure
		// as an empty document and let the caller fail on emptiness.
		return ""
	}

	var sb strings.Builder
	emitText(doc, &sb)
	return textnorm.NormalizeKeepingCode(sb.String())
}

func emitText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
		if codeAtoms[n.DataAtom] {
			sb.WriteString(textnorm.CodeStart)
			emitRawText(n, sb)
			sb.WriteString(textnorm.CodeEnd)
			sb.WriteString("\n")
			return
		}
	case html.TextNode:
		if n.Data != "" {
			sb.WriteString(n.Data)
			sb.WriteString("\n")
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		emitText(c, sb)
	}
}

// emitRawText writes the text content of a protected element verbatim.
func emitRawText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		emitRawText(c, sb)
	}
}
