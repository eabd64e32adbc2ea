package grid

import "github.com/gdamore/tcell/v2"

// processSGR applies a Select Graphic Rendition parameter list. An empty
// list resets, matching `ESC[m` behaving like `ESC[0m`.
func (g *Grid) processSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			g.curFG, g.curBG = g.defaultFG, g.defaultBG
			g.curStyle = 0
		case p == 1:
			g.curStyle |= Bold
		case p == 3:
			g.curStyle |= Italic
		case p == 4:
			g.curStyle |= Underline
		case p == 7:
			g.curStyle |= Inverse
		case p == 22:
			g.curStyle &^= Bold
		case p == 23:
			g.curStyle &^= Italic
		case p == 24:
			g.curStyle &^= Underline
		case p == 27:
			g.curStyle &^= Inverse
		case p == 39:
			g.curFG = g.defaultFG
		case p == 49:
			g.curBG = g.defaultBG
		case p >= 30 && p <= 37:
			g.curFG = palette[p-30]
		case p >= 90 && p <= 97:
			g.curFG = palette[p-90+8]
		case p >= 40 && p <= 47:
			g.curBG = palette[p-40]
		case p >= 100 && p <= 107:
			g.curBG = palette[p-100+8]
		case p == 38:
			if c, consumed, ok := parseExtendedColor(params[i+1:]); ok {
				g.curFG = c
				i += consumed
			}
		case p == 48:
			if c, consumed, ok := parseExtendedColor(params[i+1:]); ok {
				g.curBG = c
				i += consumed
			}
		}
	}
}

// palette is the 16-color ANSI base palette (8 normal + 8 bright).
var palette = [16]tcell.Color{
	tcell.ColorBlack, tcell.ColorMaroon, tcell.ColorGreen, tcell.ColorOlive,
	tcell.ColorNavy, tcell.ColorPurple, tcell.ColorTeal, tcell.ColorSilver,
	tcell.ColorGray, tcell.ColorRed, tcell.ColorLime, tcell.ColorYellow,
	tcell.ColorBlue, tcell.ColorFuchsia, tcell.ColorAqua, tcell.ColorWhite,
}

// parseExtendedColor handles the `5;n` (256-color) and `2;r;g;b` (24-bit)
// forms following a 38/48 SGR code. Returns how many extra params it
// consumed beyond the mode selector.
func parseExtendedColor(rest []int) (tcell.Color, int, bool) {
	if len(rest) == 0 {
		return 0, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return 0, 0, false
		}
		return color256(rest[1]), 2, true
	case 2:
		if len(rest) < 4 {
			return 0, 0, false
		}
		r, gg, b := rest[1], rest[2], rest[3]
		return tcell.NewRGBColor(int32(r), int32(gg), int32(b)), 4, true
	}
	return 0, 0, false
}

// color256 maps an xterm 256-color index to an RGB color: 0-15 the base
// palette, 16-231 the 6x6x6 cube, 232-255 the 24-step grayscale ramp.
func color256(n int) tcell.Color {
	switch {
	case n < 16:
		return palette[n]
	case n < 232:
		n -= 16
		r := (n / 36) % 6
		gi := (n / 6) % 6
		b := n % 6
		scale := func(v int) int32 {
			if v == 0 {
				return 0
			}
			return int32(55 + v*40)
		}
		return tcell.NewRGBColor(scale(r), scale(gi), scale(b))
	default:
		level := int32(8 + (n-232)*10)
		return tcell.NewRGBColor(level, level, level)
	}
}
