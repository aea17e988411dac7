package lazygrid

import "lazygrid/pkg/posindex"

// predict extends the measured range towards both cache bounds one item at
// a time. It returns false when the budget or a child's render gate cut it
// short; progress made until then is kept.
func (a *algorithm) predict(b Budget) bool {
	x := a.idx
	done := a.predictForward(b) && a.predictBackward(b)
	if x.UpdatePosMap() {
		a.relayout(x.Realized())
	}
	x.SetMeasured(x.Measured())
	a.active = union(a.active, x.Realized())
	a.host.SetActiveChildRange(a.active.Start, a.active.End, 0, 0)
	return done
}

func (a *algorithm) predictForward(b Budget) bool {
	x := a.idx
	lanes := x.Lanes()
	for {
		m := x.Measured()
		i := m.End + 1
		if i >= a.n {
			return true
		}
		var start, lineSize float64
		if x.IsLineFirst(i) {
			start = x.MeasuredEndPos() + x.Spacing()
			if start > x.CacheEndPos() {
				return true
			}
		} else {
			prev, ok := x.Get(i - 1)
			if !ok {
				a.log.Warn("lazygrid: predicted entry missing", "op", "predict", "index", i-1)
				return true
			}
			start, lineSize = prev.Start, prev.Size()
		}
		if b.Exceeded() {
			a.log.Debug("lazygrid: prediction out of time", "op", "predict", "index", i)
			return false
		}

		child := a.host.GetOrCreateChildByIndex(i)
		if child != nil {
			if !child.RenderCustomChild(b.Deadline()) {
				a.log.Debug("lazygrid: render gate refused", "op", "predict", "index", i)
				return false
			}
			lineSize = max(lineSize, a.measureChild(child, i%lanes))
		} else {
			a.log.Debug("lazygrid: child unavailable", "op", "predict", "index", i)
		}
		p := posindex.ItemPosition{Lane: i % lanes, Start: start, End: start + lineSize}
		x.SetPosMap(i, p)
		if child != nil {
			child.SetOffset(a.geom.OffsetOf(p, x.TotalMainSize()))
			child.Layout()
		}
		if x.IsLineLast(i) {
			a.fixPosMapForward(i)
		}

		if m.Empty() {
			m.Start = i
		}
		m.End = i
		x.SetMeasured(m)
		x.ExtendRealized(posindex.Range{Start: i, End: i})
	}
}

func (a *algorithm) predictBackward(b Budget) bool {
	x := a.idx
	lanes := x.Lanes()
	for {
		m := x.Measured()
		i := m.Start - 1
		if i < 0 {
			return true
		}
		var end, lineSize float64
		if x.IsLineLast(i) {
			end = x.MeasuredStartPos() - x.Spacing()
			if end < x.CacheStartPos() {
				return true
			}
		} else {
			next, ok := x.Get(i + 1)
			if !ok {
				a.log.Warn("lazygrid: predicted entry missing", "op", "predict", "index", i+1)
				return true
			}
			end, lineSize = next.End, next.Size()
		}
		if b.Exceeded() {
			a.log.Debug("lazygrid: prediction out of time", "op", "predict", "index", i)
			return false
		}

		child := a.host.GetOrCreateChildByIndex(i)
		if child != nil {
			if !child.RenderCustomChild(b.Deadline()) {
				a.log.Debug("lazygrid: render gate refused", "op", "predict", "index", i)
				return false
			}
			lineSize = max(lineSize, a.measureChild(child, i%lanes))
		} else {
			a.log.Debug("lazygrid: child unavailable", "op", "predict", "index", i)
		}
		p := posindex.ItemPosition{Lane: i % lanes, Start: end - lineSize, End: end}
		x.SetPosMap(i, p)
		if child != nil {
			child.SetOffset(a.geom.OffsetOf(p, x.TotalMainSize()))
			child.Layout()
		}
		if x.IsLineFirst(i) {
			a.fixPosMapBackward(i)
		}

		if m.Empty() {
			m.End = i
		}
		m.Start = i
		x.SetMeasured(m)
		x.ExtendRealized(posindex.Range{Start: i, End: i})
	}
}

// fixPosMapForward gives every item of the line closed by last the end of
// the line's tallest item. Items placed before a taller lane was measured
// are the ones that move.
func (a *algorithm) fixPosMapForward(last int) {
	x := a.idx
	closing, ok := x.Get(last)
	if !ok {
		return
	}
	for k := x.LineFirstIndex(x.LineOf(last)); k < last; k++ {
		p, ok := x.Get(k)
		if !ok || posindex.NearEqual(p.End, closing.End) {
			continue
		}
		moved := p
		moved.End = closing.End
		a.move(k, p, moved)
	}
}

// fixPosMapBackward is fixPosMapForward for a line completed downwards:
// every item gets the start of the line's tallest item.
func (a *algorithm) fixPosMapBackward(first int) {
	x := a.idx
	opening, ok := x.Get(first)
	if !ok {
		return
	}
	for k := first + 1; k <= x.LineLastIndex(x.LineOf(first)); k++ {
		p, ok := x.Get(k)
		if !ok || posindex.NearEqual(p.Start, opening.Start) {
			continue
		}
		moved := p
		moved.Start = opening.Start
		a.move(k, p, moved)
	}
}

// move records to for item k and reapplies its offset if it changed.
func (a *algorithm) move(k int, from, to posindex.ItemPosition) {
	x := a.idx
	x.SetPosMap(k, to)
	total := x.TotalMainSize()
	before, after := a.geom.OffsetOf(from, total), a.geom.OffsetOf(to, total)
	if before == after {
		return
	}
	if child := a.host.GetChildByIndex(k, true); child != nil {
		child.SetOffset(after)
	}
}

func union(r, s posindex.Range) posindex.Range {
	switch {
	case r.Empty():
		return s
	case s.Empty():
		return r
	}
	return posindex.Range{Start: min(r.Start, s.Start), End: max(r.End, s.End)}
}
