package pane

import "github.com/gdamore/tcell/v2"

// translateKey converts a keypress into the byte sequence a PTY-attached
// child expects, grounded on texel/term.go's HandleKey switch (same
// special-key table), narrowed to spec.md §4.8's named mapping: printables
// verbatim, Enter -> \r, Backspace -> \x7f (spec.md's choice; the teacher
// sends \b for the same key), arrows -> CSI A/B/C/D, Ctrl+C -> \x03. No
// DECCKM application-cursor-keys mode is tracked (internal/grid doesn't
// model it), so arrow sequences are always the CSI form.
func translateKey(ev *tcell.EventKey) []byte {
	switch ev.Key() {
	case tcell.KeyUp:
		return []byte("\x1b[A")
	case tcell.KeyDown:
		return []byte("\x1b[B")
	case tcell.KeyRight:
		return []byte("\x1b[C")
	case tcell.KeyLeft:
		return []byte("\x1b[D")
	case tcell.KeyHome:
		return []byte("\x1b[H")
	case tcell.KeyEnd:
		return []byte("\x1b[F")
	case tcell.KeyInsert:
		return []byte("\x1b[2~")
	case tcell.KeyDelete:
		return []byte("\x1b[3~")
	case tcell.KeyPgUp:
		return []byte("\x1b[5~")
	case tcell.KeyPgDn:
		return []byte("\x1b[6~")
	case tcell.KeyEnter:
		return []byte("\r")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyTab:
		return []byte("\t")
	case tcell.KeyEsc:
		return []byte{0x1b}
	case tcell.KeyCtrlC:
		return []byte{0x03}
	case tcell.KeyCtrlD:
		return []byte{0x04}
	case tcell.KeyCtrlZ:
		return []byte{0x1a}
	case tcell.KeyRune:
		return []byte(string(ev.Rune()))
	default:
		return nil
	}
}
