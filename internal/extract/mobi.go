package extract

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// extractMOBI unpacks the book's text records into a scratch directory,
// walks the extracted HTML/TXT parts through the shared HTML-to-text path,
// and always releases the scratch directory regardless of outcome.
func extractMOBI(path string) (string, *Error) {
	scratch, err := os.MkdirTemp("", "llmprep-mobi-")
	if err != nil {
		return "", failf("failed to create scratch directory: %v", err)
	}
	defer os.RemoveAll(scratch)

	if err := unpackMOBI(path, scratch); err != nil {
		return "", failf("failed to unpack MOBI: %v", err)
	}

	var parts []string
	walkErr := filepath.WalkDir(scratch, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".html", ".htm", ".txt":
			raw, rerr := os.ReadFile(p)
			if rerr != nil {
				return nil
			}
			if text := HTMLToText(raw); strings.TrimSpace(text) != "" {
				parts = append(parts, text)
			}
		}
		return nil
	})
	if walkErr != nil {
		return "", failf("failed to walk unpacked MOBI: %v", walkErr)
	}
	if len(parts) == 0 {
		return "", failf("no text content found after MOBI unpack")
	}
	return strings.Join(parts, "\n\n"), nil
}

// PalmDoc text compression modes.
const (
	palmCompressionNone    = 1
	palmCompressionPalmDoc = 2
)

// unpackMOBI decodes the PalmDB container at path and writes the
// concatenated text records as book.html under dir. MOBI and bare PalmDoc
// (TEXtREAd) containers are supported; HUFF/CDIC compression is not.
func unpackMOBI(path, dir string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(raw) < 78 {
		return errors.New("file too short for a PalmDB header")
	}
	kind := string(raw[60:68])
	if kind != "BOOKMOBI" && kind != "TEXtREAd" {
		return errors.New("not a MOBI/PalmDoc database")
	}

	numRecords := int(binary.BigEndian.Uint16(raw[76:78]))
	if numRecords == 0 || len(raw) < 78+numRecords*8 {
		return errors.New("truncated record list")
	}
	offsets := make([]int, numRecords+1)
	for i := 0; i < numRecords; i++ {
		offsets[i] = int(binary.BigEndian.Uint32(raw[78+i*8 : 82+i*8]))
	}
	offsets[numRecords] = len(raw)

	record := func(i int) []byte {
		lo, hi := offsets[i], offsets[i+1]
		if lo < 0 || hi > len(raw) || lo > hi {
			return nil
		}
		return raw[lo:hi]
	}

	rec0 := record(0)
	if len(rec0) < 16 {
		return errors.New("record 0 too short for a PalmDoc header")
	}
	compression := int(binary.BigEndian.Uint16(rec0[0:2]))
	textLength := int(binary.BigEndian.Uint32(rec0[4:8]))
	textRecords := int(binary.BigEndian.Uint16(rec0[8:10]))
	if compression != palmCompressionNone && compression != palmCompressionPalmDoc {
		return errors.New("unsupported text compression")
	}
	if textRecords >= numRecords {
		textRecords = numRecords - 1
	}

	// MOBI headers declare trailing per-record entries that must be trimmed
	// before decompression.
	var extraFlags uint16
	if len(rec0) >= 244 && string(rec0[16:20]) == "MOBI" {
		extraFlags = binary.BigEndian.Uint16(rec0[242:244])
	}

	var text []byte
	for i := 1; i <= textRecords; i++ {
		rec := trimTrailingEntries(record(i), extraFlags)
		if rec == nil {
			continue
		}
		if compression == palmCompressionPalmDoc {
			text = append(text, palmdocDecode(rec)...)
		} else {
			text = append(text, rec...)
		}
	}
	if textLength > 0 && textLength < len(text) {
		text = text[:textLength]
	}
	if len(text) == 0 {
		return errors.New("no text records")
	}

	return os.WriteFile(filepath.Join(dir, "book.html"), text, 0644)
}

// trimTrailingEntries removes the MOBI extra-data entries appended to a text
// record, one per set flag bit, plus the multibyte-overlap bytes when bit 0
// is set.
func trimTrailingEntries(rec []byte, flags uint16) []byte {
	if rec == nil {
		return nil
	}
	for bit := 15; bit > 0; bit-- {
		if flags&(1<<uint(bit)) == 0 {
			continue
		}
		size := trailingEntrySize(rec)
		if size <= 0 || size > len(rec) {
			return rec
		}
		rec = rec[:len(rec)-size]
	}
	if flags&1 != 0 && len(rec) > 0 {
		n := int(rec[len(rec)-1]&0x03) + 1
		if n > len(rec) {
			n = len(rec)
		}
		rec = rec[:len(rec)-n]
	}
	return rec
}

// trailingEntrySize reads the backward variable-width integer that ends a
// trailing entry. The size includes its own encoding bytes.
func trailingEntrySize(rec []byte) int {
	v := 0
	start := len(rec) - 4
	if start < 0 {
		start = 0
	}
	for i := start; i < len(rec); i++ {
		if rec[i]&0x80 != 0 {
			v = 0
		}
		v = (v << 7) | int(rec[i]&0x7F)
	}
	return v
}

// palmdocDecode performs PalmDoc LZ77 decompression of one text record.
func palmdocDecode(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); {
		c := data[i]
		i++
		switch {
		case c >= 0x01 && c <= 0x08:
			// Literal run of c bytes.
			n := int(c)
			if i+n > len(data) {
				n = len(data) - i
			}
			out = append(out, data[i:i+n]...)
			i += n
		case c <= 0x7F:
			out = append(out, c)
		case c <= 0xBF:
			// Length-distance pair packed into 14 bits.
			if i >= len(data) {
				return out
			}
			v := int(c&0x3F)<<8 | int(data[i])
			i++
			dist := v >> 3
			length := v&0x07 + 3
			for j := 0; j < length; j++ {
				pos := len(out) - dist
				if pos < 0 {
					break
				}
				out = append(out, out[pos])
			}
		default:
			// 0xC0..0xFF encode a space plus an ASCII character.
			out = append(out, ' ', c^0x80)
		}
	}
	return out
}
