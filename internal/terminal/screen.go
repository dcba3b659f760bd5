package terminal

// Cursor is a zero-based grid position.
type Cursor struct {
	Row int
	Col int
}

// Snapshot is an immutable copy of the emulated screen, consumed by the
// rendering layer. Cells are row-major: Cells[row*Cols+col].
type Snapshot struct {
	Cols   int
	Rows   int
	Cells  []Cell
	Cursor Cursor
}

// CellAt returns the cell at the given position.
func (s *Snapshot) CellAt(row, col int) Cell {
	return s.Cells[row*s.Cols+col]
}

// Row returns the plain text of one row, styles stripped.
func (s *Snapshot) Row(row int) string {
	runes := make([]rune, s.Cols)
	for col := 0; col < s.Cols; col++ {
		runes[col] = s.Cells[row*s.Cols+col].Rune
	}
	return string(runes)
}

// screen is the mutable cell grid behind the emulator. It is not safe for
// concurrent use; the Emulator's owner serializes access.
type screen struct {
	cols  int
	rows  int
	cells []Cell // row-major

	cursor Cursor
	saved  Cursor

	// wrapPending defers the wrap caused by writing in the last column
	// until the next printable glyph, matching hardware terminals.
	wrapPending bool

	brush brush
}

func newScreen(cols, rows int) *screen {
	s := &screen{cols: cols, rows: rows}
	s.cells = make([]Cell, cols*rows)
	s.clearAll()
	return s
}

func (s *screen) clearAll() {
	for i := range s.cells {
		s.cells[i] = blank(s.brush.bg)
	}
}

func (s *screen) at(row, col int) *Cell {
	return &s.cells[row*s.cols+col]
}

// put writes one glyph at the cursor, handling deferred wrap and scroll.
func (s *screen) put(r rune) {
	if s.wrapPending {
		s.wrapPending = false
		s.cursor.Col = 0
		s.lineFeed()
	}

	*s.at(s.cursor.Row, s.cursor.Col) = s.brush.cell(r)

	if s.cursor.Col == s.cols-1 {
		s.wrapPending = true
	} else {
		s.cursor.Col++
	}
}

func (s *screen) lineFeed() {
	if s.cursor.Row == s.rows-1 {
		s.scrollUp()
	} else {
		s.cursor.Row++
	}
}

func (s *screen) reverseLineFeed() {
	if s.cursor.Row == 0 {
		s.scrollDown()
	} else {
		s.cursor.Row--
	}
}

func (s *screen) scrollUp() {
	copy(s.cells, s.cells[s.cols:])
	last := (s.rows - 1) * s.cols
	for i := last; i < len(s.cells); i++ {
		s.cells[i] = blank(s.brush.bg)
	}
}

func (s *screen) scrollDown() {
	copy(s.cells[s.cols:], s.cells[:len(s.cells)-s.cols])
	for i := 0; i < s.cols; i++ {
		s.cells[i] = blank(s.brush.bg)
	}
}

func (s *screen) carriageReturn() {
	s.cursor.Col = 0
	s.wrapPending = false
}

func (s *screen) backspace() {
	s.wrapPending = false
	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

func (s *screen) tab() {
	s.wrapPending = false
	next := (s.cursor.Col/8 + 1) * 8
	if next > s.cols-1 {
		next = s.cols - 1
	}
	s.cursor.Col = next
}

// moveTo clamps the target position into the grid.
func (s *screen) moveTo(row, col int) {
	s.wrapPending = false
	s.cursor.Row = clamp(row, 0, s.rows-1)
	s.cursor.Col = clamp(col, 0, s.cols-1)
}

func (s *screen) moveRelative(dRow, dCol int) {
	s.moveTo(s.cursor.Row+dRow, s.cursor.Col+dCol)
}

// eraseDisplay implements ED. Mode 0 erases cursor to end, 1 start to
// cursor, 2 and 3 the whole grid.
func (s *screen) eraseDisplay(mode int) {
	cur := s.cursor.Row*s.cols + s.cursor.Col
	switch mode {
	case 0:
		for i := cur; i < len(s.cells); i++ {
			s.cells[i] = blank(s.brush.bg)
		}
	case 1:
		for i := 0; i <= cur; i++ {
			s.cells[i] = blank(s.brush.bg)
		}
	case 2, 3:
		s.clearAll()
	}
}

// eraseLine implements EL with the same mode split as ED.
func (s *screen) eraseLine(mode int) {
	start := s.cursor.Row * s.cols
	switch mode {
	case 0:
		for col := s.cursor.Col; col < s.cols; col++ {
			s.cells[start+col] = blank(s.brush.bg)
		}
	case 1:
		for col := 0; col <= s.cursor.Col; col++ {
			s.cells[start+col] = blank(s.brush.bg)
		}
	case 2:
		for col := 0; col < s.cols; col++ {
			s.cells[start+col] = blank(s.brush.bg)
		}
	}
}

// resize reallocates the grid to the new dimensions. Existing content is
// clipped or padded; nothing is reflowed.
func (s *screen) resize(cols, rows int) {
	if cols == s.cols && rows == s.rows {
		return
	}

	next := make([]Cell, cols*rows)
	for i := range next {
		next[i] = blank(s.brush.bg)
	}

	copyRows := min(rows, s.rows)
	copyCols := min(cols, s.cols)
	for row := 0; row < copyRows; row++ {
		copy(next[row*cols:row*cols+copyCols], s.cells[row*s.cols:row*s.cols+copyCols])
	}

	s.cells = next
	s.cols = cols
	s.rows = rows
	s.cursor.Row = clamp(s.cursor.Row, 0, rows-1)
	s.cursor.Col = clamp(s.cursor.Col, 0, cols-1)
	s.wrapPending = false
}

func (s *screen) snapshot() *Snapshot {
	cells := make([]Cell, len(s.cells))
	copy(cells, s.cells)
	return &Snapshot{
		Cols:   s.cols,
		Rows:   s.rows,
		Cells:  cells,
		Cursor: s.cursor,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
