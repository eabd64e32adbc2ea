package grid

// dispatchCSI interprets a completed CSI sequence: buf holds the parameter/
// intermediate bytes (';'-separated decimal numbers), final is the
// terminating byte, and private indicates a leading '?' (DEC private mode).
// Unknown finals and unknown SGR codes are silently ignored, per spec:
// no input to the grid ever panics or wedges the parser.
func (g *Grid) dispatchCSI(final byte, buf []byte, private bool) {
	params := parseParams(buf)

	if private {
		g.dispatchPrivateCSI(final, params)
		return
	}

	p := func(i, def int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return def
	}

	switch final {
	case 'A':
		g.cursorRow = max(g.cursorRow-p(0, 1), g.scrollTop)
		g.wrapPending = false
	case 'B':
		g.cursorRow = min(g.cursorRow+p(0, 1), g.scrollBottom)
		g.wrapPending = false
	case 'C':
		g.cursorCol = min(g.cursorCol+p(0, 1), g.cols-1)
		g.wrapPending = false
	case 'D':
		g.cursorCol = max(g.cursorCol-p(0, 1), 0)
		g.wrapPending = false
	case 'H', 'f':
		row := p(0, 1) - 1
		col := p(1, 1) - 1
		g.cursorRow = clamp(row, 0, g.rows-1)
		g.cursorCol = clamp(col, 0, g.cols-1)
		g.wrapPending = false
	case 'J':
		g.eraseInDisplay(p(0, 0))
	case 'K':
		g.eraseInLine(p(0, 0))
	case 'm':
		g.processSGR(params)
	case 'r':
		top := p(0, 1) - 1
		bottom := p(1, g.rows) - 1
		if top < 0 {
			top = 0
		}
		if bottom >= g.rows {
			bottom = g.rows - 1
		}
		if top < bottom {
			g.scrollTop, g.scrollBottom = top, bottom
		}
		g.cursorRow, g.cursorCol = 0, 0
		g.wrapPending = false
	case 'S':
		g.scrollUpN(p(0, 1))
	case 'T':
		g.scrollDown(p(0, 1))
	}
}

func (g *Grid) dispatchPrivateCSI(final byte, params []int) {
	if len(params) == 0 {
		return
	}
	mode := params[0]
	if mode != 25 {
		return
	}
	switch final {
	case 'h':
		g.cursorVisible = true
	case 'l':
		g.cursorVisible = false
	}
}

func (g *Grid) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		g.eraseInLine(0)
		for r := g.cursorRow + 1; r < g.rows; r++ {
			g.cells[r] = g.newRow()
		}
	case 1:
		g.eraseInLine(1)
		for r := 0; r < g.cursorRow; r++ {
			g.cells[r] = g.newRow()
		}
	case 2:
		for r := range g.cells {
			g.cells[r] = g.newRow()
		}
	}
}

func (g *Grid) eraseInLine(mode int) {
	start, end := 0, g.cols-1
	switch mode {
	case 0:
		start = g.cursorCol
	case 1:
		end = g.cursorCol
	case 2:
		// full line, defaults stand
	}
	row := g.cells[g.cursorRow]
	for c := start; c <= end && c < g.cols; c++ {
		row[c] = DefaultCell(g.defaultFG, g.defaultBG)
	}
}

func (g *Grid) scrollUpN(n int) {
	for i := 0; i < n; i++ {
		g.scrollUp()
	}
}

// parseParams splits the raw CSI parameter bytes on ';' into decimal ints,
// tolerating a leading/empty '?' already stripped by the caller.
func parseParams(buf []byte) []int {
	if len(buf) == 0 {
		return nil
	}
	var params []int
	cur := 0
	has := false
	for _, b := range buf {
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
			has = true
		case b == ';':
			params = append(params, cur)
			cur = 0
			has = false
		default:
			// intermediate byte (e.g. space); ignored for dispatch purposes
		}
	}
	if has || len(params) > 0 {
		params = append(params, cur)
	}
	return params
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
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
