// Package grid implements the VT100/ANSI cell-grid terminal emulator: a
// streaming parser/state machine that turns a child process's byte stream
// into a renderable matrix of Cells.
package grid

import "github.com/gdamore/tcell/v2"

// StyleBits are the SGR attribute flags tracked independently of color,
// since tcell.Style folds bold/underline/reverse into its own attribute
// mask but SGR 22/23/24/27 need to clear them individually.
type StyleBits uint8

const (
	Bold StyleBits = 1 << iota
	Italic
	Underline
	Inverse
)

// Cell is a single screen position: one grapheme plus its colors and style.
type Cell struct {
	Ch    rune
	FG    tcell.Color
	BG    tcell.Color
	Style StyleBits
}

// DefaultCell returns a blank cell using the grid's theme-default colors.
func DefaultCell(fg, bg tcell.Color) Cell {
	return Cell{Ch: ' ', FG: fg, BG: bg}
}

// TcellStyle renders the cell's colors/attributes as a tcell.Style, honoring
// SGR reverse video by swapping fg/bg rather than relying on tcell's own
// reverse attribute (matches the CSI `m` semantics in the spec).
func (c Cell) TcellStyle() tcell.Style {
	fg, bg := c.FG, c.BG
	if c.Style&Inverse != 0 {
		fg, bg = bg, fg
	}
	st := tcell.StyleDefault.Foreground(fg).Background(bg)
	if c.Style&Bold != 0 {
		st = st.Bold(true)
	}
	if c.Style&Italic != 0 {
		st = st.Italic(true)
	}
	if c.Style&Underline != 0 {
		st = st.Underline(true)
	}
	return st
}
