package otp

import "unicode/utf8"

// Chunk splits flat into consecutive pieces of cellLength runes, keeping at
// most cellCount of them. Only the last piece may be shorter than cellLength.
// Pieces beyond cellCount are dropped. The result is never padded; use Pad
// when exactly cellCount slots are needed.
//
// Chunk is total: an empty string or a non-positive length or count yields an
// empty slice.
func Chunk(flat string, cellLength, cellCount int) []string {
	if flat == "" || cellLength <= 0 || cellCount <= 0 {
		return []string{}
	}

	chunks := make([]string, 0, cellCount)
	start, runes := 0, 0
	for i := range flat {
		if runes == cellLength {
			chunks = append(chunks, flat[start:i])
			if len(chunks) == cellCount {
				return chunks
			}
			start, runes = i, 0
		}
		runes++
	}
	return append(chunks, flat[start:])
}

// Pad returns a copy of chunks with exactly n entries, appending empty strings
// or dropping trailing entries as needed.
func Pad(chunks []string, n int) []string {
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	copy(out, chunks)
	return out
}

// runeLen is the length the field uses for every cell and value measurement.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// clip returns the first n runes of s.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// dropLast removes the final rune of s.
func dropLast(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
