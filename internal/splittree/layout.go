package splittree

// Rect is a viewport rectangle in cell coordinates, [X,X+W) x [Y,Y+H).
type Rect struct {
	X, Y, W, H int
}

func (r Rect) centerX() float64 { return float64(r.X) + float64(r.W)/2 }
func (r Rect) centerY() float64 { return float64(r.Y) + float64(r.H)/2 }

// Layout computes the rectangle of every live pane within viewport,
// recursively dividing by each split's direction and ratio: Horizontal
// divides left/right, Vertical divides top/bottom.
func (t *Tree) Layout(viewport Rect) map[PaneID]Rect {
	out := make(map[PaneID]Rect)
	t.layoutNode(t.root, viewport, out)
	return out
}

func (t *Tree) layoutNode(n *Node, r Rect, out map[PaneID]Rect) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		out[n.PaneID] = r
		return
	}

	ratio := n.Ratio
	if ratio < minRatio {
		ratio = minRatio
	}
	if ratio > maxRatio {
		ratio = maxRatio
	}

	if n.Dir == Horizontal {
		firstW := int(float64(r.W) * ratio)
		t.layoutNode(n.First, Rect{r.X, r.Y, firstW, r.H}, out)
		t.layoutNode(n.Second, Rect{r.X + firstW, r.Y, r.W - firstW, r.H}, out)
	} else {
		firstH := int(float64(r.H) * ratio)
		t.layoutNode(n.First, Rect{r.X, r.Y, r.W, firstH}, out)
		t.layoutNode(n.Second, Rect{r.X, r.Y + firstH, r.W, r.H - firstH}, out)
	}
}

// Navigate performs geometric navigation: among leaves whose centre lies
// in the half-plane indicated by dir relative to the focused pane, it
// picks the one with the largest perpendicular overlap, breaking ties by
// proximity. Returns the new focus id, or the current focus unchanged if
// no candidate qualifies.
func (t *Tree) Navigate(viewport Rect, dir Direction) PaneID {
	rects := t.Layout(viewport)
	from, ok := rects[t.focus.PaneID]
	if !ok {
		return t.focus.PaneID
	}

	var best PaneID
	bestOverlap := -1.0
	bestDist := 0.0
	haveBest := false

	for id, r := range rects {
		if id == t.focus.PaneID {
			continue
		}
		if !inHalfPlane(from, r, dir) {
			continue
		}
		overlap := perpendicularOverlap(from, r, dir)
		dist := centerDistance(from, r, dir)

		if !haveBest || overlap > bestOverlap || (overlap == bestOverlap && dist < bestDist) {
			best = id
			bestOverlap = overlap
			bestDist = dist
			haveBest = true
		}
	}

	if !haveBest {
		return t.focus.PaneID
	}
	t.focus = t.findLeaf(t.root, best)
	return best
}

func inHalfPlane(from, to Rect, dir Direction) bool {
	switch dir {
	case Right:
		return to.centerX() > from.centerX()
	case Left:
		return to.centerX() < from.centerX()
	case Down:
		return to.centerY() > from.centerY()
	case Up:
		return to.centerY() < from.centerY()
	}
	return false
}

// perpendicularOverlap measures how much the two rects overlap along the
// axis perpendicular to travel: for Left/Right that's the Y span, for
// Up/Down the X span.
func perpendicularOverlap(from, to Rect, dir Direction) float64 {
	switch dir {
	case Left, Right:
		lo := maxInt(from.Y, to.Y)
		hi := minInt(from.Y+from.H, to.Y+to.H)
		if hi <= lo {
			return 0
		}
		return float64(hi - lo)
	default:
		lo := maxInt(from.X, to.X)
		hi := minInt(from.X+from.W, to.X+to.W)
		if hi <= lo {
			return 0
		}
		return float64(hi - lo)
	}
}

func centerDistance(from, to Rect, dir Direction) float64 {
	switch dir {
	case Left, Right:
		d := to.centerX() - from.centerX()
		if d < 0 {
			d = -d
		}
		return d
	default:
		d := to.centerY() - from.centerY()
		if d < 0 {
			d = -d
		}
		return d
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
