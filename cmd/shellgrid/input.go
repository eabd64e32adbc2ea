package main

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// readKeys decodes raw terminal bytes into tcell.EventKeys and sends them
// to out until r returns an error, then closes out. This is a best-effort
// decoder for the common escape sequences keys.go's translateKey produces
// in the other direction (arrows, Home/End, Insert/Delete, PgUp/PgDn), not
// a full terminfo-driven key database.
func readKeys(r io.Reader, out chan<- *tcell.EventKey) {
	defer close(out)
	br := bufio.NewReader(r)
	for {
		ev, err := decodeKey(br)
		if err != nil {
			return
		}
		out <- ev
	}
}

func decodeKey(br *bufio.Reader) (*tcell.EventKey, error) {
	b, err := br.ReadByte()
	if err != nil {
		return nil, err
	}

	switch b {
	case 0x1b:
		return decodeEscape(br), nil
	case 0x03:
		return tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), nil
	case 0x04:
		return tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModNone), nil
	case 0x1a:
		return tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModNone), nil
	case 0x15:
		return tcell.NewEventKey(tcell.KeyCtrlU, 0, tcell.ModNone), nil
	case '\r', '\n':
		return tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), nil
	case 0x7f, 0x08:
		return tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), nil
	case '\t':
		return tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), nil
	default:
		r := decodeRune(b, br)
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone), nil
	}
}

// decodeEscape handles a leading ESC byte: a bare press (nothing buffered
// yet) or a CSI sequence. Only the sequences translateKey emits are
// recognized; anything else collapses to a plain Esc key.
func decodeEscape(br *bufio.Reader) *tcell.EventKey {
	if br.Buffered() == 0 {
		return tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone)
	}
	b2, err := br.ReadByte()
	if err != nil || b2 != '[' {
		return tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone)
	}

	var buf []byte
	for {
		b3, err := br.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b3)
		if (b3 >= 'A' && b3 <= 'Z') || b3 == '~' {
			break
		}
	}

	switch string(buf) {
	case "A":
		return tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
	case "B":
		return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	case "C":
		return tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)
	case "D":
		return tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)
	case "H":
		return tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone)
	case "F":
		return tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone)
	case "2~":
		return tcell.NewEventKey(tcell.KeyInsert, 0, tcell.ModNone)
	case "3~":
		return tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone)
	case "5~":
		return tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone)
	case "6~":
		return tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone)
	default:
		return tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone)
	}
}

// decodeRune reassembles a UTF-8 rune starting at its first byte, reading
// any continuation bytes it implies.
func decodeRune(first byte, br *bufio.Reader) rune {
	var want int
	switch {
	case first&0x80 == 0x00:
		return rune(first)
	case first&0xE0 == 0xC0:
		want = 1
	case first&0xF0 == 0xE0:
		want = 2
	case first&0xF8 == 0xF0:
		want = 3
	default:
		return rune(first)
	}

	buf := []byte{first}
	for i := 0; i < want; i++ {
		b, err := br.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	return r
}
