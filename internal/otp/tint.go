package otp

import "strings"

// Color is a color value understood by the renderer (hex like "#3CB371",
// or an ANSI color number).
type Color string

// Default colors
const (
	DefaultTintColor    Color = "#3CB371"
	DefaultOffTintColor Color = "#DCDCDC"
)

// Tint is either one color for every cell or one color per cell.
// The zero value is an unset tint; Config.WithDefaults replaces it.
type Tint struct {
	colors  []Color
	perCell bool
}

// Uniform returns a tint that uses c for every cell.
func Uniform(c Color) Tint {
	return Tint{colors: []Color{c}}
}

// PerCell returns a tint with one color per cell. The number of colors must
// match the field's InputCount; this is checked by Config.Validate.
func PerCell(colors ...Color) Tint {
	cp := make([]Color, len(colors))
	copy(cp, colors)
	return Tint{colors: cp, perCell: true}
}

// ParseTint parses a flag value: a single color, or a comma separated list
// which is taken as a per-cell tint.
func ParseTint(s string) Tint {
	s = strings.TrimSpace(s)
	if s == "" {
		return Tint{}
	}
	if !strings.Contains(s, ",") {
		return Uniform(Color(s))
	}
	var colors []Color
	for _, part := range strings.Split(s, ",") {
		colors = append(colors, Color(strings.TrimSpace(part)))
	}
	return PerCell(colors...)
}

// IsZero reports whether the tint was never set.
func (t Tint) IsZero() bool {
	return len(t.colors) == 0 && !t.perCell
}

// IsPerCell reports whether the tint holds one color per cell.
func (t Tint) IsPerCell() bool {
	return t.perCell
}

// Colors returns a copy of the tint's colors.
func (t Tint) Colors() []Color {
	cp := make([]Color, len(t.colors))
	copy(cp, t.colors)
	return cp
}

// Len returns the number of colors held.
func (t Tint) Len() int {
	return len(t.colors)
}

// String renders the tint the way ParseTint reads it.
func (t Tint) String() string {
	parts := make([]string, len(t.colors))
	for i, c := range t.colors {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

// resolve expands the tint into exactly n per-cell colors.
func (t Tint) resolve(n int) []Color {
	out := make([]Color, n)
	for i := range out {
		switch {
		case t.perCell && i < len(t.colors):
			out[i] = t.colors[i]
		case len(t.colors) > 0:
			out[i] = t.colors[0]
		}
	}
	return out
}

// Palette is the per-cell color lookup resolved once from a Config.
type Palette struct {
	tint    []Color
	offTint []Color
}

// NewPalette resolves tint and offTint for n cells.
func NewPalette(tint, offTint Tint, n int) Palette {
	return Palette{
		tint:    tint.resolve(n),
		offTint: offTint.resolve(n),
	}
}

// Tint returns the highlight color of cell i.
func (p Palette) Tint(i int) Color {
	if i < 0 || i >= len(p.tint) {
		return ""
	}
	return p.tint[i]
}

// OffTint returns the resting color of cell i.
func (p Palette) OffTint(i int) Color {
	if i < 0 || i >= len(p.offTint) {
		return ""
	}
	return p.offTint[i]
}

// At returns the border color of cell i given whether it has focus.
func (p Palette) At(i int, focused bool) Color {
	if focused {
		return p.Tint(i)
	}
	return p.OffTint(i)
}
