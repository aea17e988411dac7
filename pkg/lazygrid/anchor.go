package lazygrid

import "lazygrid/pkg/posindex"

// findStartIndex returns the first index of the line covering startPos and
// the position that line starts at. Lines that were never measured are
// extrapolated one LineStep at a time from the closest recorded line.
// Past the end it returns the item count.
func (a *algorithm) findStartIndex(startPos float64) (int, float64) {
	x := a.idx
	if startPos <= 0 {
		return 0, 0
	}
	step := x.LineStep()
	lastLine := x.LineOf(a.n - 1)
	if x.Len() == 0 {
		if !x.HasEstimate() || step <= 0 {
			return 0, 0
		}
		line := min(int(startPos/step), lastLine)
		return x.LineFirstIndex(line), float64(line) * step
	}
	if startPos > x.TotalMainSize() {
		return a.n, x.TotalMainSize()
	}

	k, p := a.seekStart(startPos)
	line := x.LineOf(k)
	lineStart, _ := x.LineStart(line)
	if p.Start > startPos {
		// Before the first recorded line.
		if line == 0 || lineStart-x.Spacing() <= startPos || step <= 0 {
			return x.LineFirstIndex(line), lineStart
		}
		target := min(int(startPos/step), line-1)
		return x.LineFirstIndex(target), float64(target) * step
	}

	lineEnd, _ := x.LineEnd(line)
	if lineEnd >= startPos {
		return x.LineFirstIndex(line), lineStart
	}
	next := line + 1
	if next > lastLine {
		return a.n, x.TotalMainSize()
	}
	limit := lastLine
	if nk, _, ok := x.Ceiling(k + 1); ok {
		if x.LineOf(nk) == next {
			nextStart, _ := x.LineStart(next)
			return x.LineFirstIndex(next), nextStart
		}
		limit = min(limit, x.LineOf(nk)-1)
	}
	base := lineEnd + x.Spacing()
	skip := 0
	if step > 0 && startPos > base {
		skip = int((startPos - base) / step)
	}
	skip = min(skip, limit-next)
	return x.LineFirstIndex(next + skip), base + float64(skip)*step
}

// seekStart walks the recorded entries from the realized start to the last
// one starting at or before startPos, or to the first entry if none does.
func (a *algorithm) seekStart(startPos float64) (int, posindex.ItemPosition) {
	x := a.idx
	k, p, ok := x.Floor(x.Realized().Start)
	if !ok {
		k, p, _ = x.First()
	}
	for p.Start > startPos {
		pk, pp, ok := x.Floor(k - 1)
		if !ok {
			break
		}
		k, p = pk, pp
	}
	for {
		nk, np, ok := x.Ceiling(k + 1)
		if !ok || np.Start > startPos {
			break
		}
		k, p = nk, np
	}
	return k, p
}

// findEndIndex returns the last index of the line covering endPos and the
// position that line ends at, or -1 before the first item.
func (a *algorithm) findEndIndex(endPos float64) (int, float64) {
	x := a.idx
	total := x.TotalMainSize()
	if endPos >= total {
		return a.n - 1, total
	}
	if endPos < 0 {
		return -1, 0
	}
	step := x.LineStep()
	lastLine := x.LineOf(a.n - 1)

	k, p := a.seekEnd(endPos)
	line := x.LineOf(k)
	lineEnd, _ := x.LineEnd(line)
	if p.End < endPos {
		// After the last recorded line.
		base := lineEnd + x.Spacing()
		if lineEnd >= endPos || endPos <= base || line >= lastLine {
			return x.LineLastIndex(line), lineEnd
		}
		skip := 0
		if step > 0 {
			skip = int((endPos - base) / step)
		}
		target := min(line+1+skip, lastLine)
		end := base + float64(target-line-1)*step + x.EstimatedItemSize()
		return x.LineLastIndex(target), end
	}

	lineStart, _ := x.LineStart(line)
	if lineStart <= endPos {
		return x.LineLastIndex(line), lineEnd
	}
	lower := 0
	pk, _, ok := x.Floor(x.LineFirstIndex(line) - 1)
	if ok {
		if x.LineOf(pk) == line-1 {
			prevEnd, _ := x.LineEnd(line - 1)
			return x.LineLastIndex(line - 1), prevEnd
		}
		lower = x.LineOf(pk) + 1
	}
	if line == 0 {
		return -1, 0
	}
	back := 0
	if step > 0 {
		back = int((lineStart - endPos) / step)
	}
	target := max(line-1-back, lower)
	return x.LineLastIndex(target), lineStart - x.Spacing() - float64(line-1-target)*step
}

// seekEnd walks the recorded entries from the realized end to the first
// one ending at or after endPos, or to the last entry if none does.
func (a *algorithm) seekEnd(endPos float64) (int, posindex.ItemPosition) {
	x := a.idx
	k, p, ok := x.Floor(x.Realized().End)
	if !ok {
		k, p, _ = x.First()
	}
	for p.End < endPos {
		nk, np, ok := x.Ceiling(k + 1)
		if !ok {
			break
		}
		k, p = nk, np
	}
	for {
		pk, pp, ok := x.Floor(k - 1)
		if !ok || pp.End < endPos {
			break
		}
		k, p = pk, pp
	}
	return k, p
}
