package splittree

import "testing"

func TestSplitAndClose(t *testing.T) {
	tr := New("a")
	if err := tr.Split("a", Vertical, "b"); err != nil {
		t.Fatalf("Split: %v", err)
	}
	if tr.Focus() != "b" {
		t.Fatalf("focus = %q, want b", tr.Focus())
	}
	ids := tr.PaneIDs()
	if len(ids) != 2 {
		t.Fatalf("PaneIDs = %v, want 2 entries", ids)
	}

	if err := tr.Close("b"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if tr.Focus() != "a" {
		t.Fatalf("focus after close = %q, want a", tr.Focus())
	}
	if len(tr.PaneIDs()) != 1 {
		t.Fatalf("PaneIDs after close = %v, want 1 entry", tr.PaneIDs())
	}
}

func TestCloseLastPaneFails(t *testing.T) {
	tr := New("only")
	if err := tr.Close("only"); err != ErrLastPane {
		t.Fatalf("Close(only) = %v, want ErrLastPane", err)
	}
}

func TestCloseSiblingPromotion(t *testing.T) {
	tr := New("a")
	_ = tr.Split("a", Vertical, "b")
	_ = tr.Split("b", Horizontal, "c")
	// tree: split(V){ a, split(H){b, c} }, focus=c

	if err := tr.Close("c"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if tr.Focus() != "b" {
		t.Fatalf("focus after promotion = %q, want b", tr.Focus())
	}
	ids := tr.PaneIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("PaneIDs = %v, want [a b]", ids)
	}
}

func TestLayoutVerticalSplit(t *testing.T) {
	tr := New("a")
	_ = tr.Split("a", Vertical, "b")
	rects := tr.Layout(Rect{0, 0, 100, 50})

	ra, rb := rects["a"], rects["b"]
	if ra.Y != 0 || ra.H != 25 || rb.Y != 25 || rb.H != 25 {
		t.Fatalf("rects = a:%+v b:%+v, want 25/25 top/bottom vertical split", ra, rb)
	}
	if ra.W != 100 || rb.W != 100 {
		t.Fatalf("widths = a:%d b:%d, want both 100", ra.W, rb.W)
	}
}

func TestLayoutRatioClamped(t *testing.T) {
	tr := New("a")
	_ = tr.Split("a", Vertical, "b")
	tr.SetRatio(tr.root, 0.99)
	if tr.root.Ratio != maxRatio {
		t.Fatalf("ratio = %v, want clamped to %v", tr.root.Ratio, maxRatio)
	}
	tr.SetRatio(tr.root, 0.0)
	if tr.root.Ratio != minRatio {
		t.Fatalf("ratio = %v, want clamped to %v", tr.root.Ratio, minRatio)
	}
}

func TestNavigateRight(t *testing.T) {
	tr := New("a")
	_ = tr.Split("a", Horizontal, "b") // a | b, focus=b
	_ = tr.SetFocus("a")

	got := tr.Navigate(Rect{0, 0, 100, 50}, Right)
	if got != "b" {
		t.Fatalf("Navigate(Right) = %q, want b", got)
	}
}

func TestNavigateNoNeighborKeepsFocus(t *testing.T) {
	tr := New("a")
	_ = tr.Split("a", Vertical, "b")
	_ = tr.SetFocus("a")

	got := tr.Navigate(Rect{0, 0, 100, 50}, Left)
	if got != "a" {
		t.Fatalf("Navigate(Left) = %q, want unchanged a", got)
	}
}

func TestReplaceLeaf(t *testing.T) {
	tr := New("a")
	if err := tr.ReplaceLeaf("a", "fresh"); err != nil {
		t.Fatalf("ReplaceLeaf: %v", err)
	}
	if tr.Focus() != "fresh" {
		t.Fatalf("focus after replace = %q, want fresh", tr.Focus())
	}
}
