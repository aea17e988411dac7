package lazygrid

import (
	"log/slog"

	"lazygrid/pkg/posindex"
)

// algorithm runs one pass. It borrows the index from its Grid and must not
// outlive the call that created it.
type algorithm struct {
	idx    *posindex.Index
	host   Host
	geom   Geometry
	log    *slog.Logger
	n      int
	win    window
	active posindex.Range
}

// measure updates the index for p and realizes the items the pass needs.
func (a *algorithm) measure(p Props) {
	x := a.idx
	x.SetLanes(a.geom.Lanes())
	x.SetSpace(a.geom.Spacing)
	x.SetTotalItemCount(p.ItemCount)
	a.n = x.TotalItemCount()

	switch {
	case a.n == 0:
		x.SetCacheBounds(0, 0)
		a.active = posindex.EmptyRange(0)
	case p.Reference == nil || p.Reference.Axis != p.Axis || a.n <= p.FullMeasureLimit:
		a.measureAll()
	default:
		if p.Reference.Edge == EdgeEnd && x.Len() == 0 {
			seed := resolveWindow(*p.Reference, 0, p.RealMainSize, p.CacheMultiplier)
			a.seedFromEnd(seed.start)
		}
		a.win = resolveWindow(*p.Reference, x.TotalMainSize(), p.RealMainSize, p.CacheMultiplier)
		x.SetCacheBounds(a.win.cacheStart, a.win.cacheEnd)
		if p.Reference.Edge == EdgeEnd && x.Len() > 0 {
			a.measureBackward()
		} else {
			a.measureForward()
		}
	}
	a.host.SetActiveChildRange(a.active.Start, a.active.End, 0, 0)
}

// measureAll measures every item stride by stride from scratch.
func (a *algorithm) measureAll() {
	x := a.idx
	x.Clear()
	pos := 0.0
	for i := 0; i < a.n; {
		last := x.LineLastIndex(x.LineOf(i))
		size := a.measureLine(i, last)
		a.record(i, last, pos, pos+size)
		pos += size + x.Spacing()
		i = last + 1
	}
	x.UpdatePosMap()
	x.EstimateItemSize()

	all := posindex.Range{Start: 0, End: a.n - 1}
	x.SetRealized(all)
	x.SetMeasured(all)
	x.SetCacheBounds(0, x.TotalMainSize())
	a.active = all
}

func (a *algorithm) measureForward() {
	x := a.idx
	w := a.win
	if w.end < 0 {
		a.settle(posindex.EmptyRange(0))
		return
	}
	anchor, anchorStart := a.findStartIndex(w.start)
	if anchor >= a.n {
		a.settle(posindex.EmptyRange(a.n))
		return
	}
	last := a.fillForward(anchor, anchorStart, w.end)
	first := anchor
	if anchor > 0 && anchorStart-x.Spacing() > w.start {
		first = a.fillBackward(anchor-1, anchorStart-x.Spacing(), w.start)
	}
	a.settle(posindex.Range{Start: first, End: last})
}

func (a *algorithm) measureBackward() {
	x := a.idx
	w := a.win
	if w.start > x.TotalMainSize() {
		a.settle(posindex.EmptyRange(a.n))
		return
	}
	if w.end < 0 {
		a.settle(posindex.EmptyRange(0))
		return
	}
	anchor, anchorEnd := a.findEndIndex(w.end)
	if anchor < 0 {
		a.settle(posindex.EmptyRange(0))
		return
	}
	first := a.fillBackward(anchor, anchorEnd, w.start)
	last := anchor
	if anchor < a.n-1 && anchorEnd+x.Spacing() < w.end {
		last = a.fillForward(anchor+1, anchorEnd+x.Spacing(), w.end)
	}
	a.settle(posindex.Range{Start: first, End: last})
}

// seedFromEnd measures the closing lines of the content backwards from a
// provisional end of 0 down to limit, then repairs them onto their
// extrapolated positions. An end-anchored pass on an empty index needs
// them to know where the end is.
func (a *algorithm) seedFromEnd(limit float64) {
	first := a.fillBackward(a.n-1, 0, min(limit, 0))
	if first > a.n-1 {
		return
	}
	a.idx.RepairRange(first, a.n-1)
	a.log.Debug("lazygrid: seeded from end", "op", "measure", "first", first, "total", a.idx.TotalMainSize())
}

// fillForward measures whole lines from index from, whose line starts at
// start, until a line would start past limit. The first line is always
// measured. It returns the last index recorded.
func (a *algorithm) fillForward(from int, start, limit float64) int {
	x := a.idx
	if !x.IsLineFirst(from) {
		a.log.Warn("lazygrid: forward fill not aligned to a line", "op", "fill", "index", from)
		from = x.LineFirstIndex(x.LineOf(from))
	}
	pos := start
	last := from - 1
	for i := from; i < a.n; {
		if i > from && pos > limit {
			break
		}
		end := x.LineLastIndex(x.LineOf(i))
		size := a.measureLine(i, end)
		a.record(i, end, pos, pos+size)
		last = end
		pos += size + x.Spacing()
		i = end + 1
	}
	return last
}

// fillBackward measures whole lines downward from index from, whose line
// ends at end, until a line would end before limit. from must close its
// line. It returns the first index recorded.
func (a *algorithm) fillBackward(from int, end, limit float64) int {
	x := a.idx
	if !x.IsLineLast(from) {
		a.log.Warn("lazygrid: backward fill not aligned to a line", "op", "fill", "index", from)
		from = x.LineLastIndex(x.LineOf(from))
	}
	pos := end
	first := from + 1
	for i := from; i >= 0; {
		if i < from && pos < limit {
			break
		}
		start := x.LineFirstIndex(x.LineOf(i))
		size := a.measureLine(start, i)
		a.record(start, i, pos-size, pos)
		first = start
		pos -= size + x.Spacing()
		i = start - 1
	}
	return first
}

// measureLine measures items first..last and returns the tallest main size.
// Children the host cannot provide are skipped.
func (a *algorithm) measureLine(first, last int) float64 {
	size := 0.0
	for i := first; i <= last; i++ {
		child := a.host.GetOrCreateChildByIndex(i)
		if child == nil {
			a.log.Debug("lazygrid: child unavailable", "op", "measure", "index", i)
			continue
		}
		if s := a.measureChild(child, i%a.idx.Lanes()); s > size {
			size = s
		}
	}
	return size
}

// measureChild measures child for lane unless its last measurement is
// still valid, and returns its main size.
func (a *algorithm) measureChild(child Child, lane int) float64 {
	c := Constraint{CrossSize: a.geom.LaneSize(lane)}
	last, ok := child.LastConstraint()
	if !ok || child.NeedsForceRemeasure() || !posindex.NearEqual(last.CrossSize, c.CrossSize) {
		child.Measure(c)
	}
	size := child.MainSize()
	if size < 0 {
		return 0
	}
	return size
}

func (a *algorithm) record(first, last int, start, end float64) {
	lanes := a.idx.Lanes()
	for k := first; k <= last; k++ {
		a.idx.SetPosMap(k, posindex.ItemPosition{Lane: k % lanes, Start: start, End: end})
	}
}

// settle repairs the index after a lazy fill of r, trims r to the
// viewport and derives the active range from the cache window.
func (a *algorithm) settle(r posindex.Range) {
	x := a.idx
	x.UpdatePosMap()
	if !r.Empty() {
		r = a.reconcile(r)
	}
	x.SetRealized(r)
	x.SetMeasured(r)
	a.active = a.activeRange(r)
}

// reconcile drops lines scrolled out of the viewport from either end of r.
// At least one item stays realized.
func (a *algorithm) reconcile(r posindex.Range) posindex.Range {
	x := a.idx
	for r.Start < r.End {
		p, ok := x.Get(r.Start)
		if !ok {
			a.log.Warn("lazygrid: realized entry missing", "op", "reconcile", "index", r.Start)
			return r
		}
		if p.End >= a.win.start {
			break
		}
		r.Start++
	}
	for r.End > r.Start {
		p, ok := x.Get(r.End)
		if !ok {
			a.log.Warn("lazygrid: realized entry missing", "op", "reconcile", "index", r.End)
			return r
		}
		if p.Start <= a.win.end {
			break
		}
		r.End--
	}
	return r
}

// activeRange grows r over the recorded entries next to it that still
// intersect the cache window.
func (a *algorithm) activeRange(r posindex.Range) posindex.Range {
	if r.Empty() {
		return r
	}
	x := a.idx
	for r.Start > 0 {
		p, ok := x.Get(r.Start - 1)
		if !ok || p.End < x.CacheStartPos() {
			break
		}
		r.Start--
	}
	for r.End < a.n-1 {
		p, ok := x.Get(r.End + 1)
		if !ok || p.Start > x.CacheEndPos() {
			break
		}
		r.End++
	}
	return r
}

// layout applies offsets to every realized child in the active range.
func (a *algorithm) layout() {
	x := a.idx
	total := x.TotalMainSize()
	for i := a.active.Start; i <= a.active.End; i++ {
		child := a.host.GetChildByIndex(i, true)
		if child == nil {
			continue
		}
		p, ok := x.Get(i)
		if !ok {
			a.log.Warn("lazygrid: active entry missing", "op", "layout", "index", i)
			continue
		}
		child.SetOffset(a.geom.OffsetOf(p, total))
		child.Layout()
	}
}

// relayout reapplies offsets in r after the index moved entries.
func (a *algorithm) relayout(r posindex.Range) {
	x := a.idx
	total := x.TotalMainSize()
	for i := r.Start; i <= r.End; i++ {
		child := a.host.GetChildByIndex(i, true)
		if child == nil {
			continue
		}
		if p, ok := x.Get(i); ok {
			child.SetOffset(a.geom.OffsetOf(p, total))
		}
	}
}
