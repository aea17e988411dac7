// Package posindex keeps the main-axis geometry of a lazily laid out grid.
//
// The Index maps item indices to the interval they occupy along the scroll
// axis. Only items that were actually measured are present; positions of the
// gaps between them are extrapolated from an estimated line size. Every
// mutation is recorded as pending and UpdatePosMap chains all entries after
// the mutated range back onto their predecessors, so the map stays
// internally consistent without re-measuring anything.
package posindex

import (
	"io"
	"log/slog"
	"math"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// Epsilon is the tolerance for position comparisons, in logical pixels.
const Epsilon = 1e-3

// NearEqual reports whether a and b are within Epsilon.
func NearEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

const noPending = -1

// ItemPosition is the main-axis interval of one item and the lane it sits in.
type ItemPosition struct {
	Lane  int
	Start float64
	End   float64
}

// Size returns the main-axis extent of the item.
func (p ItemPosition) Size() float64 {
	return p.End - p.Start
}

// Range is an inclusive index interval. End < Start means empty; an empty
// range still remembers where it sits through Start.
type Range struct {
	Start int
	End   int
}

// EmptyRange returns an empty range positioned at index at.
func EmptyRange(at int) Range {
	return Range{Start: at, End: at - 1}
}

// Empty reports whether the range holds no index.
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Contains reports whether i lies in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Index is the position index of one grid view. It is owned by the view
// and lent to one layout pass at a time; it is not safe for concurrent use.
type Index struct {
	entries *redblacktree.Tree // int -> ItemPosition
	log     *slog.Logger

	totalItemCount int
	totalMainSize  float64
	lanes          int
	spacing        float64

	realized         Range
	measured         Range
	measuredStartPos float64
	measuredEndPos   float64
	cacheStartPos    float64
	cacheEndPos      float64

	estimate    float64
	hasEstimate bool

	pendingLow  int
	pendingHigh int
}

// New returns an empty index with one lane.
func New() *Index {
	return &Index{
		entries:     redblacktree.NewWithIntComparator(),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		lanes:       1,
		realized:    EmptyRange(0),
		measured:    EmptyRange(0),
		pendingLow:  noPending,
		pendingHigh: noPending,
	}
}

// SetLogger routes diagnostics to l. A nil logger is ignored.
func (x *Index) SetLogger(l *slog.Logger) {
	if l != nil {
		x.log = l
	}
}

// Len returns the number of recorded entries.
func (x *Index) Len() int {
	return x.entries.Size()
}

// Get returns the recorded position of item i.
func (x *Index) Get(i int) (ItemPosition, bool) {
	v, ok := x.entries.Get(i)
	if !ok {
		return ItemPosition{}, false
	}
	return v.(ItemPosition), true
}

// SetPosMap records the position of item i and marks it for repair.
func (x *Index) SetPosMap(i int, p ItemPosition) {
	if p.End < p.Start {
		p.End = p.Start
	}
	x.entries.Put(i, p)
	if x.pendingLow == noPending || i < x.pendingLow {
		x.pendingLow = i
	}
	if x.pendingHigh == noPending || i > x.pendingHigh {
		x.pendingHigh = i
	}
}

// First returns the lowest recorded entry.
func (x *Index) First() (int, ItemPosition, bool) {
	n := x.entries.Left()
	if n == nil {
		return 0, ItemPosition{}, false
	}
	return n.Key.(int), n.Value.(ItemPosition), true
}

// Last returns the highest recorded entry.
func (x *Index) Last() (int, ItemPosition, bool) {
	n := x.entries.Right()
	if n == nil {
		return 0, ItemPosition{}, false
	}
	return n.Key.(int), n.Value.(ItemPosition), true
}

// Floor returns the highest entry with index <= i.
func (x *Index) Floor(i int) (int, ItemPosition, bool) {
	n, ok := x.entries.Floor(i)
	if !ok {
		return 0, ItemPosition{}, false
	}
	return n.Key.(int), n.Value.(ItemPosition), true
}

// Ceiling returns the lowest entry with index >= i.
func (x *Index) Ceiling(i int) (int, ItemPosition, bool) {
	n, ok := x.entries.Ceiling(i)
	if !ok {
		return 0, ItemPosition{}, false
	}
	return n.Key.(int), n.Value.(ItemPosition), true
}

// Ascend calls fn for every entry with index >= from in increasing order
// until fn returns false. fn may overwrite the entry it is handed.
func (x *Index) Ascend(from int, fn func(i int, p ItemPosition) bool) {
	for {
		k, p, ok := x.Ceiling(from)
		if !ok || !fn(k, p) {
			return
		}
		from = k + 1
	}
}

// Descend calls fn for every entry with index <= from in decreasing order
// until fn returns false.
func (x *Index) Descend(from int, fn func(i int, p ItemPosition) bool) {
	for {
		k, p, ok := x.Floor(from)
		if !ok || !fn(k, p) {
			return
		}
		from = k - 1
	}
}

// Clear drops every entry and the realized/measured bookkeeping. The item
// size estimate survives so a cleared view can still jump close to where
// it was.
func (x *Index) Clear() {
	x.entries.Clear()
	x.realized = EmptyRange(0)
	x.measured = EmptyRange(0)
	x.measuredStartPos = 0
	x.measuredEndPos = -x.spacing
	x.pendingLow, x.pendingHigh = noPending, noPending
	x.updateTotalMainSize()
}

// Lanes returns the lane count.
func (x *Index) Lanes() int {
	return x.lanes
}

// SetLanes changes the lane count. Entries are laid out per stride, so any
// change invalidates the whole map. It reports whether the map was cleared.
func (x *Index) SetLanes(n int) bool {
	if n < 1 {
		n = 1
	}
	if n == x.lanes {
		return false
	}
	x.lanes = n
	x.Clear()
	return true
}

// Spacing returns the main-axis gap between lines.
func (x *Index) Spacing() float64 {
	return x.spacing
}

// SetSpace changes the main-axis gap and re-chains every entry with it.
func (x *Index) SetSpace(s float64) {
	if s < 0 {
		s = 0
	}
	if s == x.spacing {
		return
	}
	if x.entries.Size() > 0 {
		x.EstimateItemSize()
	}
	x.spacing = s
	if first, _, ok := x.First(); ok {
		x.RepairRange(first, x.LineLastIndex(x.LineOf(first)))
	}
	x.SetMeasured(x.measured)
}

// TotalItemCount returns the item count of the data source.
func (x *Index) TotalItemCount() int {
	return x.totalItemCount
}

// SetTotalItemCount updates the item count. Entries past the new end are
// dropped; a count of zero clears the index completely.
func (x *Index) SetTotalItemCount(n int) {
	if n < 0 {
		n = 0
	}
	if n == 0 {
		x.totalItemCount = 0
		x.estimate, x.hasEstimate = 0, false
		x.Clear()
		return
	}
	if n < x.totalItemCount {
		for {
			k, _, ok := x.Last()
			if !ok || k < n {
				break
			}
			x.entries.Remove(k)
		}
		if x.pendingHigh >= n {
			x.pendingHigh = n - 1
			if x.pendingLow > x.pendingHigh {
				x.pendingLow, x.pendingHigh = noPending, noPending
			}
		}
	}
	x.totalItemCount = n
	x.realized = clampRange(x.realized, n)
	x.updateTotalMainSize()
	x.SetMeasured(clampRange(x.measured, n))
}

func clampRange(r Range, n int) Range {
	if r.Start > n {
		r.Start = n
	}
	if r.End > n-1 {
		r.End = n - 1
	}
	if r.End < r.Start-1 {
		r.End = r.Start - 1
	}
	return r
}

// TotalMainSize returns the main-axis extent of all items. It is exact once
// the last item has been measured and extrapolated otherwise.
func (x *Index) TotalMainSize() float64 {
	return x.totalMainSize
}

// LineOf returns the stride (line) item i belongs to.
func (x *Index) LineOf(i int) int {
	if i < 0 {
		return -1
	}
	return i / x.lanes
}

// LineFirstIndex returns the first item index of line.
func (x *Index) LineFirstIndex(line int) int {
	return line * x.lanes
}

// LineLastIndex returns the last item index of line, capped at the last item.
func (x *Index) LineLastIndex(line int) int {
	last := line*x.lanes + x.lanes - 1
	if x.totalItemCount > 0 && last > x.totalItemCount-1 {
		last = x.totalItemCount - 1
	}
	return last
}

// IsLineFirst reports whether i opens a stride. Indices at or past the end
// count as opening one.
func (x *Index) IsLineFirst(i int) bool {
	return i >= x.totalItemCount || i%x.lanes == 0
}

// IsLineLast reports whether i closes a stride. Negative indices and the
// last item count as closing one.
func (x *Index) IsLineLast(i int) bool {
	return i < 0 || i%x.lanes == x.lanes-1 || i >= x.totalItemCount-1
}

// LineEnd returns the largest recorded end of the entries in line.
func (x *Index) LineEnd(line int) (float64, bool) {
	return x.spanEnd(x.LineFirstIndex(line), x.LineLastIndex(line))
}

// LineStart returns the smallest recorded start of the entries in line.
func (x *Index) LineStart(line int) (float64, bool) {
	return x.spanStart(x.LineFirstIndex(line), x.LineLastIndex(line))
}

func (x *Index) spanEnd(lo, hi int) (float64, bool) {
	end, found := 0.0, false
	for k := lo; k <= hi; k++ {
		if p, ok := x.Get(k); ok && (!found || p.End > end) {
			end, found = p.End, true
		}
	}
	return end, found
}

func (x *Index) spanStart(lo, hi int) (float64, bool) {
	start, found := 0.0, false
	for k := lo; k <= hi; k++ {
		if p, ok := x.Get(k); ok && (!found || p.Start < start) {
			start, found = p.Start, true
		}
	}
	return start, found
}

// EstimatedItemSize returns the last computed line size estimate.
func (x *Index) EstimatedItemSize() float64 {
	return x.estimate
}

// EstimateItemSize recomputes the typical line size from the span of the
// recorded entries:
//
//	(lastLineEnd + spacing - firstStart) / lineCount - spacing
//
// where lineCount counts the strides between the first and last entry.
func (x *Index) EstimateItemSize() float64 {
	fk, fp, ok := x.First()
	if !ok {
		return x.estimate
	}
	lk, _, _ := x.Last()
	lastEnd, _ := x.LineEnd(x.LineOf(lk))
	lines := x.LineOf(lk) - x.LineOf(fk) + 1
	est := (lastEnd+x.spacing-fp.Start)/float64(lines) - x.spacing
	if est < 0 {
		est = 0
	}
	x.estimate, x.hasEstimate = est, true
	return est
}

// HasEstimate reports whether an item size estimate has been computed.
func (x *Index) HasEstimate() bool {
	return x.hasEstimate
}

func (x *Index) ensureEstimate() {
	if !x.hasEstimate {
		x.EstimateItemSize()
	}
}

// LineStep is the extrapolated distance between the starts of two
// consecutive unmeasured lines.
func (x *Index) LineStep() float64 {
	x.ensureEstimate()
	step := x.estimate + x.spacing
	if step < 0 {
		return 0
	}
	return step
}

// ExpectedStart returns where item i should start given the closest
// recorded entry before it: the same start inside one stride, the end of
// the previous line plus spacing for the next stride, and one LineStep per
// unmeasured line in between.
func (x *Index) ExpectedStart(i int) float64 {
	line := x.LineOf(i)
	pk, pp, ok := x.Floor(i - 1)
	if !ok {
		return float64(line) * x.LineStep()
	}
	pline := x.LineOf(pk)
	if pline == line {
		return pp.Start
	}
	end, _ := x.LineEnd(pline)
	return end + x.spacing + float64(line-pline-1)*x.LineStep()
}

// UpdatePosMap repairs the index range mutated since the previous call and
// refreshes TotalMainSize. It reports whether any recorded position moved.
func (x *Index) UpdatePosMap() bool {
	if x.pendingLow == noPending {
		x.updateTotalMainSize()
		return false
	}
	lo, hi := x.pendingLow, x.pendingHigh
	x.pendingLow, x.pendingHigh = noPending, noPending
	return x.RepairRange(lo, hi)
}

// RepairRange treats [lo, hi] as freshly measured. The range is first
// shifted as a block so that lo sits where its predecessor says it should,
// then every later line is chained onto the line before it. Entries inside
// one line keep their relative placement.
func (x *Index) RepairRange(lo, hi int) bool {
	if x.entries.Size() == 0 {
		x.updateTotalMainSize()
		return false
	}
	x.ensureEstimate()
	moved := x.repairHead(lo, hi)
	if _, ok := x.Get(hi); !ok {
		x.log.Warn("posindex: repair tail entry missing", "op", "repair", "index", hi)
		x.updateTotalMainSize()
		return moved
	}
	if x.repairTail(x.LineFirstIndex(x.LineOf(lo) + 1)) {
		moved = true
	}
	x.updateTotalMainSize()
	return moved
}

func (x *Index) repairHead(lo, hi int) bool {
	head, ok := x.Get(lo)
	if !ok {
		x.log.Warn("posindex: repair head entry missing", "op", "repair", "index", lo)
		return false
	}
	delta := x.ExpectedStart(lo) - head.Start
	if NearEqual(delta, 0) {
		return false
	}
	x.Ascend(lo, func(k int, p ItemPosition) bool {
		if k > hi {
			return false
		}
		p.Start += delta
		p.End += delta
		x.entries.Put(k, p)
		return true
	})
	return true
}

// repairTail walks every entry from index from to the end of the map. The
// first entry of each line is moved to its expected start; the rest of the
// line inherits that delta.
func (x *Index) repairTail(from int) bool {
	var (
		moved   bool
		delta   float64
		prevKey = -1
	)
	x.Ascend(from, func(k int, p ItemPosition) bool {
		if prevKey < 0 || x.LineOf(k) != x.LineOf(prevKey) {
			delta = x.ExpectedStart(k) - p.Start
		}
		prevKey = k
		if !NearEqual(delta, 0) {
			p.Start += delta
			p.End += delta
			x.entries.Put(k, p)
			moved = true
		}
		return true
	})
	return moved
}

func (x *Index) updateTotalMainSize() {
	lk, _, ok := x.Last()
	if !ok || x.totalItemCount == 0 {
		x.totalMainSize = 0
		return
	}
	line := x.LineOf(lk)
	end, _ := x.LineEnd(line)
	lastLine := x.LineOf(x.totalItemCount - 1)
	if line >= lastLine {
		x.totalMainSize = end
		return
	}
	x.totalMainSize = end + float64(lastLine-line)*x.LineStep()
}

// Realized returns the index range whose geometry is believed applied.
func (x *Index) Realized() Range {
	return x.realized
}

// SetRealized replaces the realized range.
func (x *Index) SetRealized(r Range) {
	x.realized = r
}

// ExtendRealized grows the realized range to include r. It never shrinks.
func (x *Index) ExtendRealized(r Range) {
	if r.Empty() {
		return
	}
	if x.realized.Empty() {
		x.realized = r
		return
	}
	if r.Start < x.realized.Start {
		x.realized.Start = r.Start
	}
	if r.End > x.realized.End {
		x.realized.End = r.End
	}
}

// Measured returns the contiguous range known to be measured and placed.
func (x *Index) Measured() Range {
	return x.measured
}

// MeasuredStartPos is the start of the measured range along the main axis.
func (x *Index) MeasuredStartPos() float64 {
	return x.measuredStartPos
}

// MeasuredEndPos is the end of the measured range along the main axis.
func (x *Index) MeasuredEndPos() float64 {
	return x.measuredEndPos
}

// SetMeasured replaces the measured range and derives its boundary
// positions from the recorded entries. An empty range at index s is given
// the positions a line starting at s would have: 0 for the first item and
// TotalMainSize past the last.
func (x *Index) SetMeasured(r Range) {
	x.measured = r
	if r.Empty() {
		switch {
		case r.Start >= x.totalItemCount:
			x.measuredStartPos = x.totalMainSize + x.spacing
		case r.Start <= 0:
			x.measuredStartPos = 0
		default:
			x.measuredStartPos = x.ExpectedStart(r.Start)
		}
		x.measuredEndPos = x.measuredStartPos - x.spacing
		return
	}
	if start, ok := x.spanStart(r.Start, x.LineLastIndex(x.LineOf(r.Start))); ok {
		x.measuredStartPos = start
	} else {
		x.log.Warn("posindex: measured start entry missing", "op", "measured", "index", r.Start)
	}
	if end, ok := x.spanEnd(x.LineFirstIndex(x.LineOf(r.End)), r.End); ok {
		x.measuredEndPos = end
	} else {
		x.log.Warn("posindex: measured end entry missing", "op", "measured", "index", r.End)
	}
}

// CacheStartPos is how far before the viewport items should stay realized.
func (x *Index) CacheStartPos() float64 {
	return x.cacheStartPos
}

// CacheEndPos is how far after the viewport items should stay realized.
func (x *Index) CacheEndPos() float64 {
	return x.cacheEndPos
}

// SetCacheBounds records the main-axis cache window.
func (x *Index) SetCacheBounds(start, end float64) {
	x.cacheStartPos, x.cacheEndPos = start, end
}

// NeedPredict reports whether the measured range has not yet reached the
// cache window (or the ends of the data) on either side. A range ending in
// the middle of a stride always needs the stride completed.
func (x *Index) NeedPredict() bool {
	if x.totalItemCount == 0 {
		return false
	}
	m := x.measured
	forward := m.End < x.totalItemCount-1 &&
		(!x.IsLineLast(m.End) || x.measuredEndPos+x.spacing <= x.cacheEndPos)
	backward := m.Start > 0 &&
		(!x.IsLineFirst(m.Start) || x.measuredStartPos-x.spacing >= x.cacheStartPos)
	return forward || backward
}
