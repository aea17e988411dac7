// Package lazygrid lays out a virtualized grid lazily: only the items in
// the viewport and a cache window around it are measured and positioned.
//
// A Grid belongs to one grid view. Every frame the host calls Pass with the
// current Props; between frames it may call Predict with a deadline to
// measure ahead into the cache window. Geometry of items that were never
// measured is extrapolated from an estimated line size and repaired as soon
// as they are.
package lazygrid

import (
	"io"
	"log/slog"
	"time"

	"lazygrid/pkg/posindex"
)

// Grid owns the position index of one grid view across passes.
type Grid struct {
	index  *posindex.Index
	log    *slog.Logger
	clock  Clock
	geom   Geometry
	active posindex.Range
	passes int
}

// Option configures a Grid.
type Option func(*Grid)

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(g *Grid) {
		if l != nil {
			g.log = l
		}
	}
}

// WithClock sets the time source Predict checks deadlines against.
func WithClock(c Clock) Option {
	return func(g *Grid) {
		if c != nil {
			g.clock = c
		}
	}
}

// NewGrid returns a grid with an empty index.
func NewGrid(opts ...Option) *Grid {
	g := &Grid{
		index:  posindex.New(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  SystemClock{},
		active: posindex.EmptyRange(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.index.SetLogger(g.log)
	return g
}

func (g *Grid) algorithm(host Host) *algorithm {
	return &algorithm{
		idx:    g.index,
		host:   host,
		geom:   g.geom,
		log:    g.log,
		n:      g.index.TotalItemCount(),
		active: g.active,
	}
}

// Measure resolves the geometry for p and measures the items the viewport
// needs, or every item when p asks for a full measure.
func (g *Grid) Measure(host Host, p Props) {
	g.geom = ResolveGeometry(p)
	a := g.algorithm(host)
	a.measure(p)
	g.active = a.active
	g.passes++
	g.log.Debug("lazygrid: measured",
		"pass", g.passes,
		"items", g.index.TotalItemCount(),
		"lanes", g.geom.Lanes(),
		"realized_start", g.index.Realized().Start,
		"realized_end", g.index.Realized().End,
		"total", g.index.TotalMainSize())
}

// Layout positions every child in the active range.
func (g *Grid) Layout(host Host) {
	g.algorithm(host).layout()
}

// Pass runs Measure then Layout.
func (g *Grid) Pass(host Host, p Props) {
	g.Measure(host, p)
	g.Layout(host)
}

// Predict measures and lays out items beyond the realized range until the
// cache window is covered or deadline passes. It reports false if it was
// cut short by the deadline or a child's render gate. Without a previous
// pass there is nothing to extend.
func (g *Grid) Predict(host Host, deadline time.Time) bool {
	if g.passes == 0 || g.index.TotalItemCount() == 0 {
		return true
	}
	a := g.algorithm(host)
	done := a.predict(NewBudget(deadline, g.clock))
	g.active = a.active
	return done
}

// NeedPredict reports whether Predict has work left.
func (g *Grid) NeedPredict() bool {
	return g.index.NeedPredict()
}

// Reset drops every recorded position. The next pass starts over from the
// estimated item size.
func (g *Grid) Reset() {
	g.index.Clear()
	g.active = posindex.EmptyRange(0)
}

// Index exposes the position index.
func (g *Grid) Index() *posindex.Index {
	return g.index
}

// Geometry returns the geometry of the last pass.
func (g *Grid) Geometry() Geometry {
	return g.geom
}

// TotalMainSize is the main-axis size of the whole content.
func (g *Grid) TotalMainSize() float64 {
	return g.index.TotalMainSize()
}

// ActiveRange is the index range the host was last told to keep.
func (g *Grid) ActiveRange() posindex.Range {
	return g.active
}

// Placement is the rectangle of one active item in host coordinates.
type Placement struct {
	Index  int
	Lane   int
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Placements returns the rectangles of the active items with recorded
// positions, in index order.
func (g *Grid) Placements() []Placement {
	var out []Placement
	total := g.index.TotalMainSize()
	for i := g.active.Start; i <= g.active.End; i++ {
		p, ok := g.index.Get(i)
		if !ok {
			continue
		}
		off := g.geom.OffsetOf(p, total)
		pl := Placement{Index: i, Lane: p.Lane, X: off.X, Y: off.Y}
		if g.geom.Axis == Horizontal {
			pl.Width, pl.Height = p.Size(), g.geom.LaneSize(p.Lane)
		} else {
			pl.Width, pl.Height = g.geom.LaneSize(p.Lane), p.Size()
		}
		out = append(out, pl)
	}
	return out
}

// Diagnostics is the state of a Grid for debugging tools.
type Diagnostics struct {
	posindex.Diagnostics
	Active    posindex.Range
	LaneSizes []float64
	Gutter    float64
	Passes    int
}

// Dump returns the current diagnostics.
func (g *Grid) Dump() Diagnostics {
	return Diagnostics{
		Diagnostics: g.index.Dump(),
		Active:      g.active,
		LaneSizes:   append([]float64(nil), g.geom.LaneSizes...),
		Gutter:      g.geom.Gutter,
		Passes:      g.passes,
	}
}
