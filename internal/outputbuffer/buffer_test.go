package outputbuffer

import "testing"

func TestAppendSplitsLines(t *testing.T) {
	b := New(100)
	b.Append("one\ntwo\nthree")
	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
}

func TestAppendRecordsURLRanges(t *testing.T) {
	b := New(100)
	b.Append("see https://example.com/path for details")
	lines := b.Lines()
	if len(lines) != 1 || len(lines[0].URLs) != 1 {
		t.Fatalf("lines = %+v, want one URL range", lines)
	}
	r := lines[0].URLs[0]
	if lines[0].Text[r.Start:r.End] != "https://example.com/path" {
		t.Fatalf("url text = %q", lines[0].Text[r.Start:r.End])
	}
}

func TestBeginEndBlockRecordsSpan(t *testing.T) {
	b := New(100)
	b.Append("prompt line")
	b.BeginBlock("ls -la")
	b.Append("file1\nfile2")
	b.EndBlock(0, 0)

	blocks := b.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("Blocks = %+v, want 1", blocks)
	}
	blk := blocks[0]
	if !blk.Closed || blk.Command != "ls -la" {
		t.Fatalf("block = %+v", blk)
	}
	if blk.Lines() != 2 {
		t.Fatalf("Lines() = %d, want 2", blk.Lines())
	}
}

func TestEvictionDropsOldestBlockWhole(t *testing.T) {
	b := New(4)
	b.BeginBlock("cmd1")
	b.Append("a\nb")
	b.EndBlock(0, 0)

	b.BeginBlock("cmd2")
	b.Append("c\nd")
	b.EndBlock(0, 0)

	if b.Len() != 4 {
		t.Fatalf("Len = %d, want 4", b.Len())
	}

	b.BeginBlock("cmd3")
	b.Append("e\nf")
	b.EndBlock(0, 0)

	if b.Len() > 4 {
		t.Fatalf("Len = %d, want <= 4 after eviction", b.Len())
	}
	blocks := b.Blocks()
	if len(blocks) == 0 || blocks[0].Command == "cmd1" {
		t.Fatalf("oldest block should have evicted, blocks = %+v", blocks)
	}
}

func TestExtractHintsFindsGitHashAndEmail(t *testing.T) {
	hints := ExtractHints("commit a1b2c3d by jane@example.com")
	var sawHash, sawEmail bool
	for _, h := range hints {
		if h.Kind == HintGitHash && h.Text == "a1b2c3d" {
			sawHash = true
		}
		if h.Kind == HintEmail && h.Text == "jane@example.com" {
			sawEmail = true
		}
	}
	if !sawHash || !sawEmail {
		t.Fatalf("hints = %+v, missing hash or email", hints)
	}
}

func TestExtractHintsFindsFileLine(t *testing.T) {
	hints := ExtractHints("error at main.go:42:5")
	found := false
	for _, h := range hints {
		if h.Kind == HintFileLine && h.Text == "main.go:42:5" {
			found = true
		}
	}
	if !found {
		t.Fatalf("hints = %+v, missing file:line", hints)
	}
}

func TestHighlightBlockProducesCellRows(t *testing.T) {
	rows := HighlightBlock([]string{"package main", "", "func main() {}"}, "go", "")
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if len(rows[0]) != len("package main") {
		t.Fatalf("row 0 width = %d, want %d", len(rows[0]), len("package main"))
	}
}

func TestAttachIndexSearchFindsAppendedLine(t *testing.T) {
	dir := t.TempDir()
	idx, err := OpenIndex(dir + "/scrollback.db")
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer idx.Close()

	b := New(100)
	b.AttachIndex(idx)
	b.Append("building target release/shellgrid\ndone")

	matches, attached, err := b.Search("release", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !attached {
		t.Fatalf("expected index to report attached")
	}
	if len(matches) != 1 || matches[0].LineNo != 0 {
		t.Fatalf("matches = %+v, want one match at line 0", matches)
	}
}

func TestSearchWithNoIndexReportsUnattached(t *testing.T) {
	b := New(100)
	b.Append("hello")
	_, attached, err := b.Search("hello", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if attached {
		t.Fatalf("expected unattached buffer to report attached=false")
	}
}
