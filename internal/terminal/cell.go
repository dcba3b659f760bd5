package terminal

// ColorKind discriminates the three ways a cell color can be specified.
type ColorKind uint8

const (
	// ColorDefault is the terminal's default foreground or background.
	ColorDefault ColorKind = iota
	// ColorIndexed is a 256-palette index (0-15 are the classic ANSI set).
	ColorIndexed
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is a terminal color. The zero value is the default color.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// IndexedColor returns a palette color.
func IndexedColor(index uint8) Color {
	return Color{Kind: ColorIndexed, Index: index}
}

// RGBColor returns a truecolor value.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsDefault reports whether the color is the terminal default.
func (c Color) IsDefault() bool { return c.Kind == ColorDefault }

// Cell is a single displayed glyph with its style.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Bold bool
}

// blank returns an empty cell carrying the given background so erased
// regions keep the active background color.
func blank(bg Color) Cell {
	return Cell{Rune: ' ', BG: bg}
}

// brush is the style applied to newly written cells, accumulated from SGR
// sequences.
type brush struct {
	fg   Color
	bg   Color
	bold bool
}

func (b brush) cell(r rune) Cell {
	return Cell{Rune: r, FG: b.fg, BG: b.bg, Bold: b.bold}
}
