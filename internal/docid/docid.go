// Package docid derives short, stable, collision-resistant document
// identifiers from content hashes.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// sampleSize bounds how much text feeds the content hash.
const sampleSize = 2000

// StableSample returns text whole when it has at most k runes; otherwise it
// concatenates a k-rune head, a k-rune window centered on the middle, and a
// k-rune tail. Hashing cost stays bounded on huge documents while the digest
// remains sensitive to edits near the head, middle, and tail.
func StableSample(text string, k int) string {
	runes := []rune(text)
	n := len(runes)
	if n <= k {
		return text
	}
	mid := n / 2
	lo := mid - k/2
	if lo < 0 {
		lo = 0
	}
	hi := mid + k/2
	if hi > n {
		hi = n
	}
	return string(runes[:k]) + string(runes[lo:hi]) + string(runes[n-k:])
}

// FullHash computes the canonical content hash for a document:
// "sha256-" + hex(sha256(normalizedTitle + stableSample(text))).
func FullHash(normalizedTitle, text string) string {
	sum := sha256.Sum256([]byte(normalizedTitle + StableSample(text, sampleSize)))
	return "sha256-" + hex.EncodeToString(sum[:])
}

// ShortID converts a full content hash into a compact citation key: the
// first 12 hex digits of the digest are re-encoded in base 36 (digits then
// uppercase letters), left-padded with '0' to length, and prefixed.
// Identical input always yields the identical id; there is no randomness or
// counter state. A malformed fullHash falls back to hashing the string
// itself, so the result is still deterministic.
func ShortID(fullHash, prefix string, length int) string {
	hexDigits := ""
	if _, rest, ok := strings.Cut(fullHash, "-"); ok && len(rest) >= 12 {
		hexDigits = rest[:12]
	}
	v, err := strconv.ParseUint(hexDigits, 16, 64)
	if hexDigits == "" || err != nil {
		sum := sha256.Sum256([]byte(fullHash))
		v, _ = strconv.ParseUint(hex.EncodeToString(sum[:])[:12], 16, 64)
	}
	encoded := strings.ToUpper(strconv.FormatUint(v, 36))
	if pad := length - len(encoded); pad > 0 {
		encoded = strings.Repeat("0", pad) + encoded
	}
	return fmt.Sprintf("%s%s", prefix, encoded)
}
