package outputbuffer

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/gdamore/tcell/v2"

	"shellgrid/internal/grid"
)

const defaultStyleName = "monokai"

// HighlightBlock tokenizes a command's output lines together (as one
// block, for lexer context) and returns one Cell row per line, colored
// per the named Chroma style. lexerHint names a language explicitly
// (e.g. a detected file extension); an empty hint falls back to content
// analysis. Grounded on the teacher's txfmt/chroma.go: multi-line
// tokenization for context, a style lookup with a safe default, and a
// rune-position walk that maps tokens back to per-line cell ranges — here
// building fresh Cells rather than mutating a pre-rendered grid, since
// output-buffer blocks have no existing cell backing.
func HighlightBlock(lines []string, lexerHint, styleName string) [][]grid.Cell {
	if len(lines) == 0 {
		return nil
	}

	style := resolveStyle(styleName)
	fullText := strings.Join(lines, "\n")
	lexer := resolveLexer(lexerHint, fullText)
	lexer = chroma.Coalesce(lexer)

	tokens, err := chroma.Tokenise(lexer, nil, fullText)
	rows := make([][]grid.Cell, len(lines))
	for i, line := range lines {
		rows[i] = plainRow(line)
	}
	if err != nil {
		return rows
	}

	baseColour := style.Get(chroma.Text).Colour
	lineStarts := runeLineStarts(lines)

	runePos := 0
	lineIdx := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		entry := style.Get(tok.Type)
		fg, attr, distinct := resolveTokenStyle(entry, baseColour)

		for _, r := range tok.Value {
			for lineIdx+1 < len(lineStarts) && runePos >= lineStarts[lineIdx+1] {
				lineIdx++
			}
			if r == '\n' {
				runePos++
				continue
			}
			if lineIdx < len(rows) {
				col := runePos - lineStarts[lineIdx]
				if col >= 0 && col < len(rows[lineIdx]) {
					cell := &rows[lineIdx][col]
					if distinct {
						cell.FG = fg
					}
					cell.Style |= attr
				}
			}
			runePos++
		}
	}
	return rows
}

// plainRow builds an uncolored cell row for a line, used as the base that
// highlighting overlays and as the fallback on lex failure.
func plainRow(line string) []grid.Cell {
	runes := []rune(line)
	cells := make([]grid.Cell, len(runes))
	for i, r := range runes {
		cells[i] = grid.Cell{Ch: r, FG: tcell.ColorDefault, BG: tcell.ColorDefault}
	}
	return cells
}

// runeLineStarts returns, for each line, the rune offset at which it
// begins within strings.Join(lines, "\n").
func runeLineStarts(lines []string) []int {
	starts := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		starts[i] = pos
		pos += len([]rune(line)) + 1 // +1 for the joining '\n'
	}
	return starts
}

func resolveStyle(name string) *chroma.Style {
	if name == "" {
		name = defaultStyleName
	}
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

func resolveLexer(name, text string) chroma.Lexer {
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

// resolveTokenStyle extracts a cell-ready color and style bits from a
// Chroma style entry, reporting distinct=false when the token's color
// matches the style's base text color (so plain text keeps the grid's
// default FG rather than being stamped with the style's foreground).
func resolveTokenStyle(entry chroma.StyleEntry, baseColour chroma.Colour) (tcell.Color, grid.StyleBits, bool) {
	var bits grid.StyleBits
	if entry.Bold == chroma.Yes {
		bits |= grid.Bold
	}
	if entry.Italic == chroma.Yes {
		bits |= grid.Italic
	}
	if entry.Underline == chroma.Yes {
		bits |= grid.Underline
	}

	if !entry.Colour.IsSet() || entry.Colour == baseColour {
		return 0, bits, false
	}
	fg := tcell.NewRGBColor(int32(entry.Colour.Red()), int32(entry.Colour.Green()), int32(entry.Colour.Blue()))
	return fg, bits, true
}
