package grid

import "github.com/gdamore/tcell/v2"

// parserState is the byte-level state machine driving Feed, per spec: every
// input byte advances it deterministically through Normal/Escape/Csi.
type parserState int

const (
	stateNormal parserState = iota
	stateEscape
	stateCsi
	stateCharset
)

// maxCSIBuffer bounds the CSI parameter buffer; exceeding it resets to
// Normal without dispatching (overflow guard).
const maxCSIBuffer = 64

// Grid is a rectangular matrix of Cells with cursor, SGR attributes, and a
// scroll region, fed by an unbounded, possibly-fragmented byte stream.
type Grid struct {
	rows, cols int
	cells      [][]Cell

	cursorRow, cursorCol int
	cursorVisible        bool
	wrapPending          bool // deferred wrap: last column written, cursorCol held at cols-1

	curFG, curBG tcell.Color
	curStyle     StyleBits

	scrollTop, scrollBottom int

	defaultFG, defaultBG tcell.Color

	state      parserState
	csiBuf     []byte
	csiPrivate bool
	utf8Buf    []byte // 0-3 pending bytes of a split UTF-8 sequence
	utf8Want   int    // total bytes expected for the rune in progress
}

// New creates a grid of the given size with theme-default colors.
func New(rows, cols int, defaultFG, defaultBG tcell.Color) *Grid {
	g := &Grid{
		rows: rows, cols: cols,
		cursorVisible: true,
		defaultFG:     defaultFG,
		defaultBG:     defaultBG,
		curFG:         defaultFG,
		curBG:         defaultBG,
		scrollTop:     0,
		scrollBottom:  rows - 1,
	}
	g.cells = make([][]Cell, rows)
	for r := range g.cells {
		g.cells[r] = g.newRow()
	}
	return g
}

func (g *Grid) newRow() []Cell {
	row := make([]Cell, g.cols)
	for i := range row {
		row[i] = DefaultCell(g.defaultFG, g.defaultBG)
	}
	return row
}

// Resize preserves cell contents, truncating or padding right/bottom, and
// clamps cursor and scroll region to the new bounds.
func (g *Grid) Resize(rows, cols int) {
	if rows == g.rows && cols == g.cols {
		return
	}
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	newCells := make([][]Cell, rows)
	for r := range newCells {
		newCells[r] = make([]Cell, cols)
		for c := range newCells[r] {
			newCells[r][c] = DefaultCell(g.defaultFG, g.defaultBG)
		}
	}
	copyRows := min(rows, g.rows)
	copyCols := min(cols, g.cols)
	for r := 0; r < copyRows; r++ {
		copy(newCells[r][:copyCols], g.cells[r][:copyCols])
	}
	g.cells = newCells
	g.rows, g.cols = rows, cols

	if g.cursorRow >= rows {
		g.cursorRow = rows - 1
	}
	if g.cursorCol > cols {
		g.cursorCol = cols
	}
	g.wrapPending = false

	if g.scrollTop < 0 || g.scrollBottom >= rows || g.scrollTop > g.scrollBottom {
		g.scrollTop = 0
		g.scrollBottom = rows - 1
	}
}

// SetSizeForPTY reports the grid's current dimensions for C2 to apply to
// the pseudo-terminal.
func (g *Grid) SetSizeForPTY() (rows, cols int) {
	return g.rows, g.cols
}

// Render returns a read-only snapshot of visible rows.
func (g *Grid) Render() [][]Cell {
	out := make([][]Cell, g.rows)
	for r := range g.cells {
		row := make([]Cell, g.cols)
		copy(row, g.cells[r])
		out[r] = row
	}
	return out
}

// Cursor returns the cursor position and visibility.
func (g *Grid) Cursor() (row, col int, visible bool) {
	return g.cursorRow, g.cursorCol, g.cursorVisible
}

// Feed accepts any byte slice, including mid-sequence fragments: partial
// UTF-8 runes and partial escape/CSI sequences split across reads.
func (g *Grid) Feed(data []byte) {
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch g.state {
		case stateNormal:
			g.feedNormal(b)
		case stateEscape:
			g.feedEscape(b)
		case stateCsi:
			g.feedCsi(b)
		case stateCharset:
			// One designator byte follows '(' / ')'; consume and return.
			g.state = stateNormal
		}
	}
}

func (g *Grid) feedNormal(b byte) {
	switch {
	case b == 0x1B:
		g.state = stateEscape
	case b == 0x08:
		if g.cursorCol > 0 {
			g.cursorCol--
		}
		g.wrapPending = false
	case b == 0x0D:
		g.cursorCol = 0
		g.wrapPending = false
	case b == 0x0A:
		g.lineFeed()
	case b == 0x09:
		next := ((g.cursorCol / 8) + 1) * 8
		if next > g.cols {
			next = g.cols
		}
		g.cursorCol = next
	case b == 0x07:
		// bell ignored
	case b >= 0x20:
		g.feedUTF8Byte(b)
	default:
		// other control characters ignored
	}
}

// feedUTF8Byte accumulates bytes of a (possibly multi-byte) UTF-8 rune,
// which may be split arbitrarily across Feed calls; the continuation
// buffer lives on the Grid, not the PTY reader.
func (g *Grid) feedUTF8Byte(b byte) {
	if len(g.utf8Buf) == 0 {
		switch {
		case b&0x80 == 0x00:
			g.putChar(rune(b))
			return
		case b&0xE0 == 0xC0:
			g.utf8Want = 2
		case b&0xF0 == 0xE0:
			g.utf8Want = 3
		case b&0xF8 == 0xF0:
			g.utf8Want = 4
		default:
			g.putChar(0xFFFD)
			return
		}
		g.utf8Buf = append(g.utf8Buf, b)
		return
	}

	if b&0xC0 != 0x80 {
		// Invalid continuation byte: emit replacement for the broken
		// sequence and reprocess b as a fresh byte.
		g.utf8Buf = g.utf8Buf[:0]
		g.utf8Want = 0
		g.putChar(0xFFFD)
		g.feedUTF8Byte(b)
		return
	}

	g.utf8Buf = append(g.utf8Buf, b)
	if len(g.utf8Buf) < g.utf8Want {
		return
	}

	r := decodeUTF8(g.utf8Buf)
	g.utf8Buf = g.utf8Buf[:0]
	g.utf8Want = 0
	g.putChar(r)
}

func decodeUTF8(b []byte) rune {
	switch len(b) {
	case 2:
		r := rune(b[0]&0x1F)<<6 | rune(b[1]&0x3F)
		if r < 0x80 {
			return 0xFFFD
		}
		return r
	case 3:
		r := rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
		if r < 0x800 {
			return 0xFFFD
		}
		return r
	case 4:
		r := rune(b[0]&0x07)<<18 | rune(b[1]&0x3F)<<12 | rune(b[2]&0x3F)<<6 | rune(b[3]&0x3F)
		if r < 0x10000 || r > 0x10FFFF {
			return 0xFFFD
		}
		return r
	}
	return 0xFFFD
}

func (g *Grid) feedEscape(b byte) {
	switch b {
	case '[':
		g.state = stateCsi
		g.csiBuf = g.csiBuf[:0]
		g.csiPrivate = false
	case '(', ')':
		g.state = stateCharset
	default:
		g.state = stateNormal
	}
}

func (g *Grid) feedCsi(b byte) {
	switch {
	case b == '?' && len(g.csiBuf) == 0:
		g.csiPrivate = true
	case b >= 0x20 && b <= 0x3F:
		if len(g.csiBuf) >= maxCSIBuffer {
			g.state = stateNormal
			g.csiBuf = g.csiBuf[:0]
			return
		}
		g.csiBuf = append(g.csiBuf, b)
	case b >= 0x40 && b <= 0x7E:
		g.dispatchCSI(b, g.csiBuf, g.csiPrivate)
		g.state = stateNormal
		g.csiBuf = g.csiBuf[:0]
	default:
		// stray byte inside CSI; ignore and keep collecting
	}
}

// putChar writes a character honoring deferred wrap, then advances the
// column. Width is always treated as one column (no wide-character
// handling, an explicit non-goal).
func (g *Grid) putChar(r rune) {
	if g.wrapPending {
		g.lineFeed()
		g.cursorCol = 0
		g.wrapPending = false
	}
	if g.cursorCol >= g.cols {
		g.lineFeed()
		g.cursorCol = 0
	}
	g.cells[g.cursorRow][g.cursorCol] = Cell{Ch: r, FG: g.curFG, BG: g.curBG, Style: g.curStyle}
	if g.cursorCol == g.cols-1 {
		g.wrapPending = true
	} else {
		g.cursorCol++
	}
}

// lineFeed advances the cursor row, scrolling the active region when the
// cursor sits on the scroll region's bottom line.
func (g *Grid) lineFeed() {
	g.wrapPending = false
	if g.cursorRow == g.scrollBottom {
		g.scrollUp()
	} else if g.cursorRow < g.rows-1 {
		g.cursorRow++
	}
}

func (g *Grid) scrollUp() {
	copy(g.cells[g.scrollTop:g.scrollBottom], g.cells[g.scrollTop+1:g.scrollBottom+1])
	g.cells[g.scrollBottom] = g.newRow()
}

func (g *Grid) scrollDown(n int) {
	for i := 0; i < n; i++ {
		copy(g.cells[g.scrollTop+1:g.scrollBottom+1], g.cells[g.scrollTop:g.scrollBottom])
		g.cells[g.scrollTop] = g.newRow()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
