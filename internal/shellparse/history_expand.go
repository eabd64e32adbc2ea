package shellparse

import (
	"strconv"
	"strings"
)

// HistorySource resolves history references; the pane wires this to the
// smart history store. Nth is 1-based; NthFromEnd(1) is the last command.
type HistorySource interface {
	Last() (string, bool)
	Nth(n int) (string, bool)
	NthFromEnd(n int) (string, bool)
}

// ExpandHistory rewrites !! , !n, !-n references before lexing, per
// spec.md: history expansion happens first so its output is itself
// re-lexed normally. A reference is recognized wherever a '!' is followed
// by '!', a digit, or '-' and a digit, including mid-word and inside
// quotes; any other '!' is copied through unchanged.
func ExpandHistory(line string, h HistorySource) (string, error) {
	if !strings.Contains(line, "!") {
		return line, nil
	}

	var b strings.Builder
	i, n := 0, len(line)
	for i < n {
		if line[i] != '!' {
			b.WriteByte(line[i])
			i++
			continue
		}

		ref, consumed, ok := scanHistoryRef(line[i:])
		if !ok {
			b.WriteByte(line[i])
			i++
			continue
		}

		expanded, err := resolveHistoryRef(ref, h)
		if err != nil {
			return "", err
		}
		b.WriteString(expanded)
		i += consumed
	}
	return b.String(), nil
}

// scanHistoryRef recognizes "!!", "!-N", "!N" at the start of s.
func scanHistoryRef(s string) (ref string, consumed int, ok bool) {
	if strings.HasPrefix(s, "!!") {
		return "!!", 2, true
	}
	i := 1
	neg := false
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return "", 0, false
	}
	if neg {
		return "!-" + s[start:i], i, true
	}
	return "!" + s[start:i], i, true
}

func resolveHistoryRef(ref string, h HistorySource) (string, error) {
	if ref == "!!" {
		cmd, ok := h.Last()
		if !ok {
			return "", newError(BadHistoryRef, "no previous command for !!")
		}
		return cmd, nil
	}
	if strings.HasPrefix(ref, "!-") {
		n, err := strconv.Atoi(ref[2:])
		if err != nil {
			return "", newError(BadHistoryRef, "bad history reference "+ref)
		}
		cmd, ok := h.NthFromEnd(n)
		if !ok {
			return "", newError(BadHistoryRef, "no history entry at "+ref)
		}
		return cmd, nil
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil {
		return "", newError(BadHistoryRef, "bad history reference "+ref)
	}
	cmd, ok := h.Nth(n)
	if !ok {
		return "", newError(BadHistoryRef, "no history entry at "+ref)
	}
	return cmd, nil
}
