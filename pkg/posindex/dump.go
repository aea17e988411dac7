package posindex

import (
	"fmt"
	"strings"
)

// Diagnostics is a snapshot of the index bookkeeping.
type Diagnostics struct {
	Realized          Range
	Measured          Range
	MeasuredStartPos  float64
	MeasuredEndPos    float64
	CacheStartPos     float64
	CacheEndPos       float64
	TotalItemCount    int
	TotalMainSize     float64
	Lanes             int
	Spacing           float64
	EstimatedItemSize float64
	Entries           int
}

// Dump returns the current bookkeeping of the index.
func (x *Index) Dump() Diagnostics {
	return Diagnostics{
		Realized:          x.realized,
		Measured:          x.measured,
		MeasuredStartPos:  x.measuredStartPos,
		MeasuredEndPos:    x.measuredEndPos,
		CacheStartPos:     x.cacheStartPos,
		CacheEndPos:       x.cacheEndPos,
		TotalItemCount:    x.totalItemCount,
		TotalMainSize:     x.totalMainSize,
		Lanes:             x.lanes,
		Spacing:           x.spacing,
		EstimatedItemSize: x.estimate,
		Entries:           x.entries.Size(),
	}
}

func (d Diagnostics) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "items=%d lanes=%d entries=%d\n", d.TotalItemCount, d.Lanes, d.Entries)
	fmt.Fprintf(&sb, "realized=[%d,%d] measured=[%d,%d] measuredPos=[%.2f,%.2f]\n",
		d.Realized.Start, d.Realized.End, d.Measured.Start, d.Measured.End,
		d.MeasuredStartPos, d.MeasuredEndPos)
	fmt.Fprintf(&sb, "cache=[%.2f,%.2f] total=%.2f spacing=%.2f estimate=%.2f",
		d.CacheStartPos, d.CacheEndPos, d.TotalMainSize, d.Spacing, d.EstimatedItemSize)
	return sb.String()
}

// Entries returns a copy of the recorded positions.
func (x *Index) Entries() map[int]ItemPosition {
	out := make(map[int]ItemPosition, x.entries.Size())
	x.Ascend(0, func(i int, p ItemPosition) bool {
		out[i] = p
		return true
	})
	return out
}
