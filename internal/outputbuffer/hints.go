package outputbuffer

import "regexp"

// HintKind distinguishes the categories of clickable/jumpable targets a
// renderer can extract from a line, per spec.md §4.7.
type HintKind int

const (
	HintURL HintKind = iota
	HintPath
	HintGitHash
	HintEmail
	HintFileLine
)

// Hint is one recognised target within a line's text.
type Hint struct {
	Kind  HintKind
	Range Range
	Text  string
}

var (
	pathPattern     = regexp.MustCompile(`(?:^|[\s:=])(\.{1,2}/[^\s:]+|/[^\s:]+)`)
	gitHashPattern  = regexp.MustCompile(`\b[0-9a-fA-F]{7,40}\b`)
	emailPattern    = regexp.MustCompile(`[[:alnum:]._%+-]+@[[:alnum:].-]+\.[[:alpha:]]{2,}`)
	fileLinePattern = regexp.MustCompile(`[\w./\-]+:[0-9]+(?::[0-9]+)?`)
)

// ExtractHints re-scans line for every hint kind other than URLs (which
// are precomputed and stored on Line at append time). Ranges may overlap
// across kinds — file:line patterns, for instance, subsume a path and a
// line number — and the renderer is expected to prefer the most specific
// kind when that happens.
func ExtractHints(line string) []Hint {
	var hints []Hint

	for _, m := range fileLinePattern.FindAllStringIndex(line, -1) {
		hints = append(hints, Hint{Kind: HintFileLine, Range: Range{Start: m[0], End: m[1]}, Text: line[m[0]:m[1]]})
	}
	for _, m := range emailPattern.FindAllStringIndex(line, -1) {
		hints = append(hints, Hint{Kind: HintEmail, Range: Range{Start: m[0], End: m[1]}, Text: line[m[0]:m[1]]})
	}
	for _, m := range gitHashPattern.FindAllStringIndex(line, -1) {
		hints = append(hints, Hint{Kind: HintGitHash, Range: Range{Start: m[0], End: m[1]}, Text: line[m[0]:m[1]]})
	}
	for _, m := range pathPattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[2], m[3]
		hints = append(hints, Hint{Kind: HintPath, Range: Range{Start: start, End: end}, Text: line[start:end]})
	}
	return hints
}

// ExtractURLs re-derives URL ranges for a line of text, for callers that
// don't have the stored Line available (e.g. re-highlighting a pasted
// command before it's appended).
func ExtractURLs(line string) []Range {
	return findURLs(line)
}
