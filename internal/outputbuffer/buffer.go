// Package outputbuffer implements the append-only scrollback log: a list
// of lines paired with block markers for each executed command, URL
// scanning at append time, and on-demand hint extraction (paths, git
// hashes, emails, file:line references) for the renderer.
package outputbuffer

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

const defaultMaxLines = 10000

// urlPattern is the strict URL regex spec.md §4.7 names.
var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// Range is a byte offset span within a line's text.
type Range struct {
	Start int
	End   int
}

// Line is one line of buffered output, with its URL ranges precomputed at
// append time (other hint kinds are re-extracted on demand; see hints.go).
type Line struct {
	Text string
	URLs []Range
}

// Buffer is the append-only scrollback log for one pane.
type Buffer struct {
	mu sync.Mutex

	lines    []Line
	base     int // logical index of lines[0]
	maxLines int

	blocks    []*Block
	openBlock *Block

	index *Index
}

// New creates an empty buffer capped at maxLines (0 uses the spec default
// of 10000).
func New(maxLines int) *Buffer {
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	return &Buffer{maxLines: maxLines}
}

// AttachIndex wires a derived substring-search index to the buffer; every
// subsequent Append also indexes its lines. A buffer with no attached index
// behaves exactly as before (search is simply unavailable).
func (b *Buffer) AttachIndex(idx *Index) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.index = idx
}

// Append splits text on newlines and appends each resulting line, scanning
// each for URLs as it is stored and, if an index is attached, indexing it
// for substring search.
func (b *Buffer) Append(text string) {
	if text == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, raw := range strings.Split(text, "\n") {
		lineNo := b.base + len(b.lines)
		b.lines = append(b.lines, Line{Text: raw, URLs: findURLs(raw)})
		if b.index != nil {
			b.index.IndexLine(lineNo, raw)
		}
	}
	b.evictLocked()
}

// Search runs a substring query over the attached index, or returns
// (nil, false) if no index is attached.
func (b *Buffer) Search(query string, limit int) ([]SearchMatch, bool, error) {
	b.mu.Lock()
	idx := b.index
	b.mu.Unlock()
	if idx == nil {
		return nil, false, nil
	}
	matches, err := idx.Search(query, limit)
	return matches, true, err
}

// findURLs returns the byte ranges of every URL match in line.
func findURLs(line string) []Range {
	matches := urlPattern.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return nil
	}
	ranges := make([]Range, len(matches))
	for i, m := range matches {
		ranges[i] = Range{Start: m[0], End: m[1]}
	}
	return ranges
}

// BeginBlock records the start line of a new command's output, per
// spec.md §4.7. A previously open block is implicitly closed first (with
// exit code 0 and zero duration) since the router always pairs
// BeginBlock/EndBlock and a leftover open block only happens if a caller
// forgot to close one.
func (b *Buffer) BeginBlock(command string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openBlock != nil {
		b.closeOpenBlockLocked(0, 0)
	}
	start := b.base + len(b.lines)
	blk := &Block{Command: command, Start: start}
	b.blocks = append(b.blocks, blk)
	b.openBlock = blk
}

// EndBlock closes the currently open block with its exit code and
// duration.
func (b *Buffer) EndBlock(exitCode int, dur time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeOpenBlockLocked(exitCode, dur)
}

func (b *Buffer) closeOpenBlockLocked(exitCode int, dur time.Duration) {
	if b.openBlock == nil {
		return
	}
	end := b.base + len(b.lines) - 1
	if end < b.openBlock.Start {
		end = b.openBlock.Start
	}
	b.openBlock.End = end
	b.openBlock.ExitCode = exitCode
	b.openBlock.Duration = dur
	b.openBlock.Closed = true
	b.openBlock = nil
}

// evictLocked drops whole blocks (and their lines) from the front of the
// buffer until it fits within maxLines, per spec.md §4.7's "oldest blocks
// and their lines evict together". Lines that precede the first block (a
// prompt banner, say) evict one at a time since they belong to no block.
func (b *Buffer) evictLocked() {
	for len(b.lines) > b.maxLines {
		if len(b.blocks) == 0 || b.blocks[0].Start > b.base {
			b.dropLine()
			continue
		}
		oldest := b.blocks[0]
		if !oldest.Closed || oldest == b.openBlock {
			// Never truncate a still-open block out from under its writer.
			b.dropLine()
			continue
		}
		count := oldest.End - oldest.Start + 1
		if count > len(b.lines) {
			count = len(b.lines)
		}
		b.lines = b.lines[count:]
		b.base += count
		b.blocks = b.blocks[1:]
	}
}

func (b *Buffer) dropLine() {
	if len(b.lines) == 0 {
		return
	}
	b.lines = b.lines[1:]
	b.base++
	for len(b.blocks) > 0 && b.blocks[0].End < b.base && b.blocks[0].Closed {
		b.blocks = b.blocks[1:]
	}
}

// Lines returns a snapshot of every currently buffered line.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Blocks returns a snapshot of every currently buffered block.
func (b *Buffer) Blocks() []Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Block, len(b.blocks))
	for i, blk := range b.blocks {
		out[i] = *blk
	}
	return out
}

// Len returns the number of currently buffered lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}
