package lazygrid

import (
	"lazygrid/pkg/posindex"
	"lazygrid/pkg/tracks"
)

// Geometry is the lane layout resolved once per pass.
type Geometry struct {
	Axis          Axis
	Direction     Direction
	CrossSize     float64
	LaneSizes     []float64
	LanePositions []float64 // cross start of each lane
	Gutter        float64   // cross gap between lanes
	Spacing       float64   // main gap between lines
	Padding       Offset
}

// ResolveGeometry derives lane sizes, gutter and spacing from p. Rows gap
// is the main spacing of a vertical grid and the gutter of a horizontal
// one. A template that yields no lanes falls back to one lane spanning the
// whole cross size.
func ResolveGeometry(p Props) Geometry {
	cross := p.CrossSize
	if cross < 0 {
		cross = 0
	}
	mainGap, crossGap := p.RowsGap, p.ColumnsGap
	if p.Axis == Horizontal {
		mainGap, crossGap = p.ColumnsGap, p.RowsGap
	}
	g := Geometry{
		Axis:      p.Axis,
		Direction: p.Direction,
		CrossSize: cross,
		Spacing:   mainGap.ToPx(p.Density, p.RealMainSize),
		Padding:   p.Padding,
	}
	res := tracks.Parse(tracks.Input{
		Template:  p.Template,
		Size:      cross,
		Gutter:    crossGap.ToPx(p.Density, cross),
		ItemCount: p.ItemCount,
		Density:   p.Density,
	})
	if len(res.Sizes) == 0 {
		g.LaneSizes = []float64{cross}
		g.LanePositions = []float64{0}
		return g
	}
	g.LaneSizes = res.Sizes
	g.Gutter = res.Gutter
	g.LanePositions = make([]float64, len(res.Sizes))
	pos := 0.0
	for i, size := range res.Sizes {
		g.LanePositions[i] = pos
		pos += size + res.Gutter
	}
	return g
}

// Lanes returns the lane count.
func (g Geometry) Lanes() int {
	return len(g.LaneSizes)
}

// LaneSize returns the cross size of lane, 0 if out of range.
func (g Geometry) LaneSize(lane int) float64 {
	if lane < 0 || lane >= len(g.LaneSizes) {
		return 0
	}
	return g.LaneSizes[lane]
}

func (g Geometry) lanePos(lane int) float64 {
	if lane < 0 || lane >= len(g.LanePositions) {
		return 0
	}
	return g.LanePositions[lane]
}

// OffsetOf maps an item position to host coordinates. Right-to-left
// mirrors whichever axis is horizontal: the lanes of a vertical grid, the
// main axis of a horizontal one (measured back from total).
func (g Geometry) OffsetOf(p posindex.ItemPosition, total float64) Offset {
	main := p.Start
	cross := g.lanePos(p.Lane)
	if g.Direction == RTL {
		if g.Axis == Horizontal {
			main = total - p.End
		} else {
			cross = g.CrossSize - cross - g.LaneSize(p.Lane)
		}
	}
	if g.Axis == Horizontal {
		return Offset{X: main + g.Padding.X, Y: cross + g.Padding.Y}
	}
	return Offset{X: cross + g.Padding.X, Y: main + g.Padding.Y}
}

// window is the viewport and cache range of one pass in index space.
type window struct {
	start      float64
	end        float64
	cacheStart float64
	cacheEnd   float64
}

const defaultCacheMultiplier = 0.5

// resolveWindow translates a reference into index coordinates. End-anchored
// references are offset by (total - realMainSize) so that Pos = 0 means the
// content end rests at the viewport end.
func resolveWindow(ref Reference, total, realMainSize, multiplier float64) window {
	w := window{
		start: ref.ViewStart - ref.Pos,
		end:   ref.ViewEnd - ref.Pos,
	}
	if ref.Edge == EdgeEnd {
		shift := total - realMainSize
		w.start += shift
		w.end += shift
	}
	if w.end < w.start {
		w.start, w.end = w.end, w.start
	}
	if multiplier <= 0 {
		multiplier = defaultCacheMultiplier
	}
	extra := (w.end - w.start) * multiplier
	w.cacheStart = w.start - extra
	w.cacheEnd = w.end + extra
	return w
}
