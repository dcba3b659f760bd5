package terminal

import (
	"unicode/utf8"
)

// parseState enumerates the escape-decoding states carried across feeds.
type parseState uint8

const (
	stateGround parseState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape // saw ESC inside an OSC, deciding on ST
	stateCharset   // ESC ( ) * + designators consume one byte
)

const maxCSIParams = 16

// Emulator turns a raw byte stream, escape sequences included, into a
// grid of styled cells plus a cursor position. It keeps decoder state
// between feeds so sequences and UTF-8 runes may split across reads.
//
// Emulator is not safe for concurrent use; Session guards it with a lock.
type Emulator struct {
	screen *screen

	state   parseState
	params  []int
	private bool // CSI sequence carried a '?', '>' or '<' marker

	// partial holds an incomplete UTF-8 rune left over from the
	// previous feed.
	partial  [utf8.UTFMax]byte
	npartial int
}

// NewEmulator creates an emulator with the given grid dimensions.
func NewEmulator(cols, rows int) *Emulator {
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	return &Emulator{
		screen: newScreen(cols, rows),
		params: make([]int, 0, maxCSIParams),
	}
}

// Feed advances the emulator by one chunk of output.
func (e *Emulator) Feed(p []byte) {
	for i := 0; i < len(p); {
		b := p[i]

		switch e.state {
		case stateGround:
			if b < 0x20 || b == 0x7f {
				e.control(b)
				i++
				continue
			}
			// Printable: decode a rune, buffering partials across
			// chunk boundaries.
			n := e.printable(p[i:])
			i += n

		case stateEscape:
			e.escape(b)
			i++

		case stateCSI:
			e.csi(b)
			i++

		case stateOSC:
			if b == 0x07 { // BEL terminates
				e.state = stateGround
			} else if b == 0x1b {
				e.state = stateOSCEscape
			}
			i++

		case stateOSCEscape:
			// ESC \ is ST; anything else restarts escape handling.
			if b == '\\' {
				e.state = stateGround
			} else {
				e.state = stateEscape
				continue
			}
			i++

		case stateCharset:
			// Designator byte consumed, charset switching ignored.
			e.state = stateGround
			i++
		}
	}
}

// Resize reallocates the grid; content is clipped or padded.
func (e *Emulator) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	e.screen.resize(cols, rows)
}

// Snapshot returns an immutable copy of the current grid and cursor.
func (e *Emulator) Snapshot() *Snapshot {
	return e.screen.snapshot()
}

// Size returns the current grid dimensions.
func (e *Emulator) Size() (cols, rows int) {
	return e.screen.cols, e.screen.rows
}

func (e *Emulator) control(b byte) {
	switch b {
	case 0x08: // BS
		e.screen.backspace()
	case 0x09: // HT
		e.screen.tab()
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		e.screen.lineFeed()
	case 0x0d: // CR
		e.screen.carriageReturn()
	case 0x1b: // ESC
		e.state = stateEscape
	}
	// BEL, NUL, DEL and the rest are dropped.
}

func (e *Emulator) printable(p []byte) int {
	if e.npartial > 0 {
		// Continue an incomplete rune stashed by the previous feed.
		// Only continuation bytes may extend it; anything else proves
		// the stashed prefix invalid, so emit the replacement and let
		// the feed loop reprocess the current byte as its own unit.
		taken := 0
		for e.npartial < utf8.UTFMax && taken < len(p) && !utf8.FullRune(e.partial[:e.npartial]) {
			if p[taken]&0xc0 != 0x80 {
				e.npartial = 0
				e.screen.put(utf8.RuneError)
				return taken
			}
			e.partial[e.npartial] = p[taken]
			e.npartial++
			taken++
		}
		if !utf8.FullRune(e.partial[:e.npartial]) && e.npartial < utf8.UTFMax {
			// Chunk exhausted, rune still incomplete.
			return taken
		}
		r, _ := utf8.DecodeRune(e.partial[:e.npartial])
		e.npartial = 0
		e.screen.put(r)
		return taken
	}

	r, size := utf8.DecodeRune(p)
	if r == utf8.RuneError && size == 1 && !utf8.FullRune(p) {
		// Truncated rune at the end of the chunk; stash it.
		e.npartial = copy(e.partial[:], p)
		return len(p)
	}
	e.screen.put(r)
	return size
}

func (e *Emulator) escape(b byte) {
	switch b {
	case '[':
		e.state = stateCSI
		e.params = e.params[:0]
		e.private = false
	case ']':
		e.state = stateOSC
	case '(', ')', '*', '+':
		e.state = stateCharset
	case '7':
		e.screen.saved = e.screen.cursor
		e.state = stateGround
	case '8':
		e.screen.moveTo(e.screen.saved.Row, e.screen.saved.Col)
		e.state = stateGround
	case 'D': // IND
		e.screen.lineFeed()
		e.state = stateGround
	case 'M': // RI
		e.screen.reverseLineFeed()
		e.state = stateGround
	case 'c': // RIS
		e.screen.brush = brush{}
		e.screen.clearAll()
		e.screen.moveTo(0, 0)
		e.state = stateGround
	default:
		e.state = stateGround
	}
}

func (e *Emulator) csi(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if len(e.params) == 0 {
			e.params = append(e.params, 0)
		}
		if len(e.params) <= maxCSIParams {
			e.params[len(e.params)-1] = e.params[len(e.params)-1]*10 + int(b-'0')
		}
	case b == ';':
		if len(e.params) == 0 {
			e.params = append(e.params, 0)
		}
		if len(e.params) < maxCSIParams {
			e.params = append(e.params, 0)
		}
	case b == '?' || b == '>' || b == '<' || b == '=':
		e.private = true
	case b >= 0x20 && b <= 0x2f:
		// Intermediate bytes, ignored.
	case b >= 0x40 && b <= 0x7e:
		e.dispatchCSI(b)
		e.state = stateGround
	default:
		// Malformed sequence; bail back to ground.
		e.state = stateGround
	}
}

// param returns the i-th CSI parameter, or def when absent or zero.
func (e *Emulator) param(i, def int) int {
	if i >= len(e.params) || e.params[i] == 0 {
		return def
	}
	return e.params[i]
}

// paramOrZero returns the i-th parameter with zero kept as zero.
func (e *Emulator) paramOrZero(i int) int {
	if i >= len(e.params) {
		return 0
	}
	return e.params[i]
}

func (e *Emulator) dispatchCSI(final byte) {
	if e.private {
		// DEC private modes (cursor visibility, alternate screen,
		// bracketed paste) do not affect the primary grid.
		return
	}

	s := e.screen
	switch final {
	case 'A': // CUU
		s.moveRelative(-e.param(0, 1), 0)
	case 'B', 'e': // CUD, VPR
		s.moveRelative(e.param(0, 1), 0)
	case 'C', 'a': // CUF, HPR
		s.moveRelative(0, e.param(0, 1))
	case 'D': // CUB
		s.moveRelative(0, -e.param(0, 1))
	case 'E': // CNL
		s.moveTo(s.cursor.Row+e.param(0, 1), 0)
	case 'F': // CPL
		s.moveTo(s.cursor.Row-e.param(0, 1), 0)
	case 'G', '`': // CHA, HPA
		s.moveTo(s.cursor.Row, e.param(0, 1)-1)
	case 'd': // VPA
		s.moveTo(e.param(0, 1)-1, s.cursor.Col)
	case 'H', 'f': // CUP, HVP
		s.moveTo(e.param(0, 1)-1, e.param(1, 1)-1)
	case 'J':
		s.eraseDisplay(e.paramOrZero(0))
	case 'K':
		s.eraseLine(e.paramOrZero(0))
	case 'm':
		e.sgr()
	case 's':
		s.saved = s.cursor
	case 'u':
		s.moveTo(s.saved.Row, s.saved.Col)
	}
	// Scroll-region, insert/delete line, device reports and the rest are
	// intentionally dropped: the grid view tolerates them as no-ops.
}

func (e *Emulator) sgr() {
	if len(e.params) == 0 {
		e.screen.brush = brush{}
		return
	}

	b := &e.screen.brush
	for i := 0; i < len(e.params); i++ {
		p := e.params[i]
		switch {
		case p == 0:
			*b = brush{}
		case p == 1:
			b.bold = true
		case p == 22:
			b.bold = false
		case p >= 30 && p <= 37:
			b.fg = IndexedColor(uint8(p - 30))
		case p == 39:
			b.fg = Color{}
		case p >= 40 && p <= 47:
			b.bg = IndexedColor(uint8(p - 40))
		case p == 49:
			b.bg = Color{}
		case p >= 90 && p <= 97:
			b.fg = IndexedColor(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			b.bg = IndexedColor(uint8(p - 100 + 8))
		case p == 38 || p == 48:
			color, consumed := e.extendedColor(i)
			if consumed == 0 {
				return // malformed, drop the rest
			}
			if p == 38 {
				b.fg = color
			} else {
				b.bg = color
			}
			i += consumed
		}
		// Italic, underline and the other attributes are not part of
		// the cell model and fall through silently.
	}
}

// extendedColor decodes 38;5;n / 48;5;n and 38;2;r;g;b / 48;2;r;g;b from
// position i, returning the color and how many params were consumed.
func (e *Emulator) extendedColor(i int) (Color, int) {
	if i+1 >= len(e.params) {
		return Color{}, 0
	}
	switch e.params[i+1] {
	case 5:
		if i+2 >= len(e.params) {
			return Color{}, 0
		}
		return IndexedColor(uint8(e.params[i+2])), 2
	case 2:
		if i+4 >= len(e.params) {
			return Color{}, 0
		}
		return RGBColor(uint8(e.params[i+2]), uint8(e.params[i+3]), uint8(e.params[i+4])), 4
	}
	return Color{}, 0
}
