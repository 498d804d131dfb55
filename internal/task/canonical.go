package task

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// NormalizeText reduces a candidate fragment to its comparison form:
// lowercased, whitespace collapsed, trailing sentence punctuation stripped.
// Two phrasings that differ only in case, spacing, or a trailing period are
// the same logical answer.
func NormalizeText(s string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimRight(norm, ".!; ")
}

// KeyFrom hashes normalized parts into a stable equivalence key. The same
// logical candidate always yields the same key.
func KeyFrom(parts ...string) string {
	h := fnv.New64a()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0x1f}) // unit separator between parts
		}
		h.Write([]byte(NormalizeText(p)))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
