package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"shellgrid/internal/grid"
	"shellgrid/internal/pane"
)

// render draws the pane's grid to out using 24-bit ANSI SGR sequences,
// grounded on texel/desktop.go's direct-escape-sequence approach to
// talking to a real terminal without a tcell.Screen driver in the loop
// (the screen/driver half of tcell is the out-of-scope GUI toolkit).
func render(out *bufio.Writer, p *pane.Pane) {
	g := p.Grid()
	rows := g.Render()

	out.WriteString("\x1b[H")
	var lastSGR string
	for _, row := range rows {
		var line strings.Builder
		for _, c := range row {
			sgr := sgrFor(c)
			if sgr != lastSGR {
				line.WriteString(sgr)
				lastSGR = sgr
			}
			if c.Ch == 0 {
				line.WriteByte(' ')
			} else {
				line.WriteRune(c.Ch)
			}
		}
		line.WriteString("\x1b[0m\r\n")
		lastSGR = ""
		out.WriteString(line.String())
	}

	if row, col, visible := g.Cursor(); visible {
		fmt.Fprintf(out, "\x1b[%d;%dH", row+1, col+1)
	}
	out.Flush()
}

func sgrFor(c grid.Cell) string {
	fg, bg := c.FG, c.BG
	if c.Style&grid.Inverse != 0 {
		fg, bg = bg, fg
	}

	parts := []string{"0"}
	if c.Style&grid.Bold != 0 {
		parts = append(parts, "1")
	}
	if c.Style&grid.Italic != 0 {
		parts = append(parts, "3")
	}
	if c.Style&grid.Underline != 0 {
		parts = append(parts, "4")
	}
	if fg != tcell.ColorDefault {
		r, gr, b := fg.TrueColor().RGB()
		parts = append(parts, fmt.Sprintf("38;2;%d;%d;%d", r, gr, b))
	}
	if bg != tcell.ColorDefault {
		r, gr, b := bg.TrueColor().RGB()
		parts = append(parts, fmt.Sprintf("48;2;%d;%d;%d", r, gr, b))
	}
	return "\x1b[" + strings.Join(parts, ";") + "m"
}
