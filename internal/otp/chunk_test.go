package otp

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name       string
		flat       string
		cellLength int
		cellCount  int
		want       []string
	}{
		{name: "empty", flat: "", cellLength: 1, cellCount: 4, want: []string{}},
		{name: "one per cell", flat: "1234", cellLength: 1, cellCount: 4, want: []string{"1", "2", "3", "4"}},
		{name: "short value", flat: "12", cellLength: 1, cellCount: 4, want: []string{"1", "2"}},
		{name: "truncated to count", flat: "123456", cellLength: 1, cellCount: 4, want: []string{"1", "2", "3", "4"}},
		{name: "multi rune cells", flat: "abcdef", cellLength: 2, cellCount: 3, want: []string{"ab", "cd", "ef"}},
		{name: "remainder in last chunk", flat: "abcde", cellLength: 2, cellCount: 3, want: []string{"ab", "cd", "e"}},
		{name: "remainder dropped past count", flat: "abcde", cellLength: 2, cellCount: 2, want: []string{"ab", "cd"}},
		{name: "single cell holds everything", flat: "abc", cellLength: 5, cellCount: 1, want: []string{"abc"}},
		{name: "runes not bytes", flat: "äöü", cellLength: 1, cellCount: 4, want: []string{"ä", "ö", "ü"}},
		{name: "zero length", flat: "abc", cellLength: 0, cellCount: 4, want: []string{}},
		{name: "zero count", flat: "abc", cellLength: 1, cellCount: 0, want: []string{}},
		{name: "negative length", flat: "abc", cellLength: -1, cellCount: 4, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.flat, tt.cellLength, tt.cellCount)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chunk(%q, %d, %d) = %q, want %q", tt.flat, tt.cellLength, tt.cellCount, got, tt.want)
			}
		})
	}
}

// Joining the chunks gives back the prefix of the input that fits in the field.
func TestChunkJoinIsPrefix(t *testing.T) {
	inputs := []string{"", "1", "12", "1234", "123456789", "abcdefghij", "a1b2c3d4e5f6"}

	for _, s := range inputs {
		for n := 1; n <= 5; n++ {
			for l := 1; l <= 4; l++ {
				chunks := Chunk(s, l, n)
				joined := strings.Join(chunks, "")

				limit := n * l
				if limit > len(s) {
					limit = len(s)
				}
				if joined != s[:limit] {
					t.Errorf("join(Chunk(%q, %d, %d)) = %q, want %q", s, l, n, joined, s[:limit])
				}
				if len(chunks) > n {
					t.Errorf("Chunk(%q, %d, %d) returned %d chunks", s, l, n, len(chunks))
				}
				for i, c := range chunks {
					if len(c) > l {
						t.Errorf("Chunk(%q, %d, %d)[%d] = %q is longer than %d", s, l, n, i, c, l)
					}
					if i < len(chunks)-1 && len(c) != l {
						t.Errorf("Chunk(%q, %d, %d)[%d] = %q, only the last chunk may be short", s, l, n, i, c)
					}
				}
			}
		}
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		n      int
		want   []string
	}{
		{name: "pads trailing slots", chunks: []string{"1"}, n: 3, want: []string{"1", "", ""}},
		{name: "exact", chunks: []string{"1", "2"}, n: 2, want: []string{"1", "2"}},
		{name: "drops extra", chunks: []string{"1", "2", "3"}, n: 2, want: []string{"1", "2"}},
		{name: "nil input", chunks: nil, n: 2, want: []string{"", ""}},
		{name: "negative size", chunks: []string{"1"}, n: -1, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pad(tt.chunks, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pad(%q, %d) = %q, want %q", tt.chunks, tt.n, got, tt.want)
			}
		})
	}
}

func TestDropLast(t *testing.T) {
	tests := map[string]string{
		"":    "",
		"a":   "",
		"ab":  "a",
		"aé":  "a",
		"12é": "12",
	}
	for in, want := range tests {
		if got := dropLast(in); got != want {
			t.Errorf("dropLast(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 2, "ab"},
		{"abc", 3, "abc"},
		{"abc", 5, "abc"},
		{"äbc", 1, "ä"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := clip(tt.in, tt.n); got != tt.want {
			t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
