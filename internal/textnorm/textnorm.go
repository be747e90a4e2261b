// Package textnorm provides unicode sanitization and prose whitespace
// normalization with code-block preservation.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sentinel markers used to protect code regions from prose normalization.
// HTML converters wrap <pre>/<code>/<samp>/<kbd> content with these before
// handing text to NormalizeKeepingCode.
const (
	CodeStart = "@@@CODEBLOCK_START@@@"
	CodeEnd   = "@@@CODEBLOCK_END@@@"
)

var (
	// Control characters other than tab (0x09) and newline (0x0A).
	controlRe = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")

	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	multiSpaceRe    = regexp.MustCompile(`[ ]{2,}`)
	multiBlankRe    = regexp.MustCompile(`\n{3,}`)

	// A protected span: a fenced code block or a sentinel-delimited region.
	// (?s) so fences may span lines.
	codeSpanRe = regexp.MustCompile("(?s)(```.*?```|" + CodeStart + ".*?" + CodeEnd + ")")
)

// Sanitize normalizes unicode to NFKC, standardizes line endings to LF, and
// strips control characters other than tab and newline.
func Sanitize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return controlRe.ReplaceAllString(s, "")
}

// normalizeProse collapses excessive whitespace while preserving line
// structure: trailing spaces before newlines are removed, runs of 2+ spaces
// collapse to one, and 3+ consecutive newlines collapse to two.
func normalizeProse(s string) string {
	s = trailingSpaceRe.ReplaceAllString(s, "\n")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = multiBlankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// NormalizeKeepingCode sanitizes s and normalizes prose whitespace, leaving
// byte-for-byte untouched any span delimited by ``` fences or by the
// CodeStart/CodeEnd sentinels. Only the prose strictly between such spans is
// rewritten; span order is preserved.
func NormalizeKeepingCode(s string) string {
	s = Sanitize(s)

	var out strings.Builder
	last := 0
	for _, loc := range codeSpanRe.FindAllStringIndex(s, -1) {
		if pre := s[last:loc[0]]; pre != "" {
			out.WriteString(normalizeProse(pre))
		}
		out.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	if tail := s[last:]; tail != "" {
		out.WriteString(normalizeProse(tail))
	}
	return out.String()
}

// WrapLongLines hard-wraps any line of width or more characters at
// width-character boundaries. Width is measured in runes so multi-byte
// text is never split mid-character.
func WrapLongLines(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	changed := false
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) < width {
			continue
		}
		changed = true
		var parts []string
		for len(runes) > width {
			parts = append(parts, string(runes[:width]))
			runes = runes[width:]
		}
		parts = append(parts, string(runes))
		lines[i] = strings.Join(parts, "\n")
	}
	if !changed {
		return s
	}
	return strings.Join(lines, "\n")
}
