package terminal

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedString(e *Emulator, s string) {
	e.Feed([]byte(s))
}

func TestEmulatorPlainText(t *testing.T) {
	e := NewEmulator(10, 3)
	feedString(e, "hello")

	snap := e.Snapshot()
	assert.Equal(t, "hello     ", snap.Row(0))
	assert.Equal(t, Cursor{Row: 0, Col: 5}, snap.Cursor)
}

func TestEmulatorCRLF(t *testing.T) {
	e := NewEmulator(10, 3)
	feedString(e, "one\r\ntwo")

	snap := e.Snapshot()
	assert.Equal(t, "one", strings.TrimRight(snap.Row(0), " "))
	assert.Equal(t, "two", strings.TrimRight(snap.Row(1), " "))
	assert.Equal(t, Cursor{Row: 1, Col: 3}, snap.Cursor)
}

func TestEmulatorWrapsAtLastColumn(t *testing.T) {
	e := NewEmulator(4, 3)
	feedString(e, "abcdef")

	snap := e.Snapshot()
	assert.Equal(t, "abcd", snap.Row(0))
	assert.Equal(t, "ef  ", snap.Row(1))
}

func TestEmulatorDeferredWrap(t *testing.T) {
	e := NewEmulator(4, 3)
	// Writing exactly to the last column must not wrap until the next
	// glyph arrives.
	feedString(e, "abcd")
	snap := e.Snapshot()
	assert.Equal(t, Cursor{Row: 0, Col: 3}, snap.Cursor)

	feedString(e, "\r\nnext")
	snap = e.Snapshot()
	assert.Equal(t, "next", snap.Row(1))
}

func TestEmulatorScrollsAtBottom(t *testing.T) {
	e := NewEmulator(5, 2)
	feedString(e, "one\r\ntwo\r\nthree")

	snap := e.Snapshot()
	assert.Equal(t, "two  ", snap.Row(0))
	assert.Equal(t, "three", snap.Row(1))
}

func TestEmulatorBackspaceAndTab(t *testing.T) {
	e := NewEmulator(20, 2)
	feedString(e, "ab\bc")
	snap := e.Snapshot()
	assert.Equal(t, "ac", strings.TrimRight(snap.Row(0), " "))

	e = NewEmulator(20, 2)
	feedString(e, "a\tb")
	snap = e.Snapshot()
	assert.Equal(t, 'b', snap.CellAt(0, 8).Rune)
}

func TestEmulatorCursorMovement(t *testing.T) {
	e := NewEmulator(10, 5)
	feedString(e, "\x1b[3;4Hx")

	snap := e.Snapshot()
	assert.Equal(t, 'x', snap.CellAt(2, 3).Rune)

	// Relative moves clamp at the edges.
	feedString(e, "\x1b[99Ay")
	snap = e.Snapshot()
	assert.Equal(t, 'y', snap.CellAt(0, 4).Rune)
}

func TestEmulatorEraseLine(t *testing.T) {
	e := NewEmulator(6, 2)
	feedString(e, "abcdef\x1b[1;3H\x1b[K")

	snap := e.Snapshot()
	assert.Equal(t, "ab    ", snap.Row(0))
}

func TestEmulatorEraseDisplay(t *testing.T) {
	e := NewEmulator(4, 2)
	feedString(e, "aaaa\r\nbbbb\x1b[H\x1b[2J")

	snap := e.Snapshot()
	assert.Equal(t, "    ", snap.Row(0))
	assert.Equal(t, "    ", snap.Row(1))
}

func TestEmulatorSGRColorsAndBold(t *testing.T) {
	e := NewEmulator(10, 2)
	feedString(e, "\x1b[1;31;44mX\x1b[0mY")

	snap := e.Snapshot()
	x := snap.CellAt(0, 0)
	assert.True(t, x.Bold)
	assert.Equal(t, IndexedColor(1), x.FG)
	assert.Equal(t, IndexedColor(4), x.BG)

	y := snap.CellAt(0, 1)
	assert.False(t, y.Bold)
	assert.True(t, y.FG.IsDefault())
	assert.True(t, y.BG.IsDefault())
}

func TestEmulatorBrightAndIndexedColors(t *testing.T) {
	e := NewEmulator(10, 2)
	feedString(e, "\x1b[91mA\x1b[38;5;202mB\x1b[38;2;1;2;3mC")

	snap := e.Snapshot()
	assert.Equal(t, IndexedColor(9), snap.CellAt(0, 0).FG)
	assert.Equal(t, IndexedColor(202), snap.CellAt(0, 1).FG)
	assert.Equal(t, RGBColor(1, 2, 3), snap.CellAt(0, 2).FG)
}

func TestEmulatorSplitEscapeAcrossFeeds(t *testing.T) {
	e := NewEmulator(10, 3)
	e.Feed([]byte("\x1b["))
	e.Feed([]byte("2;"))
	e.Feed([]byte("3Hz"))

	snap := e.Snapshot()
	assert.Equal(t, 'z', snap.CellAt(1, 2).Rune)
}

func TestEmulatorSplitUTF8AcrossFeeds(t *testing.T) {
	e := NewEmulator(10, 2)
	encoded := []byte("héllo")
	e.Feed(encoded[:2]) // split inside the two-byte é
	e.Feed(encoded[2:])

	snap := e.Snapshot()
	assert.Equal(t, 'h', snap.CellAt(0, 0).Rune)
	assert.Equal(t, 'é', snap.CellAt(0, 1).Rune)
	assert.Equal(t, 'l', snap.CellAt(0, 2).Rune)
}

func TestEmulatorInvalidSplitRuneKeepsNextGlyph(t *testing.T) {
	e := NewEmulator(10, 2)
	e.Feed([]byte{0xe2}) // truncated three-byte lead
	e.Feed([]byte("A"))

	snap := e.Snapshot()
	assert.Equal(t, utf8.RuneError, snap.CellAt(0, 0).Rune)
	assert.Equal(t, 'A', snap.CellAt(0, 1).Rune)
}

func TestEmulatorInvalidSplitRuneKeepsEscape(t *testing.T) {
	e := NewEmulator(10, 3)
	e.Feed([]byte{0xe2})
	e.Feed([]byte("\x1b[2;2HZ"))

	snap := e.Snapshot()
	assert.Equal(t, utf8.RuneError, snap.CellAt(0, 0).Rune)
	assert.Equal(t, 'Z', snap.CellAt(1, 1).Rune)
}

func TestEmulatorIgnoresOSCAndPrivateModes(t *testing.T) {
	e := NewEmulator(10, 2)
	feedString(e, "\x1b]0;window title\x07a\x1b[?25lb\x1b]2;x\x1b\\c")

	snap := e.Snapshot()
	assert.Equal(t, "abc", strings.TrimRight(snap.Row(0), " "))
}

func TestEmulatorResizeClipsAndPads(t *testing.T) {
	e := NewEmulator(6, 3)
	feedString(e, "abcdef\r\nghijkl")

	e.Resize(4, 2)
	snap := e.Snapshot()
	require.Equal(t, 4, snap.Cols)
	require.Equal(t, 2, snap.Rows)
	assert.Equal(t, "abcd", snap.Row(0))
	assert.Equal(t, "ghij", snap.Row(1))

	e.Resize(8, 3)
	snap = e.Snapshot()
	assert.Equal(t, "abcd    ", snap.Row(0))
	assert.Equal(t, "        ", snap.Row(2))
}

func TestEmulatorResizeClampsCursor(t *testing.T) {
	e := NewEmulator(10, 5)
	feedString(e, "\x1b[5;10H")
	e.Resize(4, 2)

	snap := e.Snapshot()
	assert.Equal(t, Cursor{Row: 1, Col: 3}, snap.Cursor)
}

func TestEmulatorSnapshotIsACopy(t *testing.T) {
	e := NewEmulator(5, 2)
	feedString(e, "abc")

	snap := e.Snapshot()
	feedString(e, "\rxyz")

	// The earlier snapshot must not observe later updates.
	assert.Equal(t, "abc  ", snap.Row(0))
	assert.Equal(t, "xyz  ", e.Snapshot().Row(0))
}

func TestEmulatorResetSequence(t *testing.T) {
	e := NewEmulator(5, 2)
	feedString(e, "\x1b[31mred\x1bc")

	snap := e.Snapshot()
	assert.Equal(t, "     ", snap.Row(0))
	assert.Equal(t, Cursor{}, snap.Cursor)

	feedString(e, "a")
	assert.True(t, e.Snapshot().CellAt(0, 0).FG.IsDefault())
}

func TestEmulatorEraseUsesActiveBackground(t *testing.T) {
	e := NewEmulator(4, 1)
	feedString(e, "\x1b[44m\x1b[2J")

	snap := e.Snapshot()
	assert.Equal(t, IndexedColor(4), snap.CellAt(0, 0).BG)
}
