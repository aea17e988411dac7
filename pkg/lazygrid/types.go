package lazygrid

import (
	"time"

	"lazygrid/pkg/units"
)

// Axis is the scroll direction of the grid.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Direction is the text direction the grid is laid out in.
type Direction int

const (
	LTR Direction = iota
	RTL
)

// Edge selects which end of the viewport a Reference anchors.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

// Reference is the view position the host hands to a lazy pass.
//
// For EdgeStart, Pos is where the start of the content sits relative to the
// viewport origin, so scrolling 200px down is Pos = -200. For EdgeEnd, Pos
// is where the end of the content sits relative to its bottom-aligned
// resting place. ViewStart and ViewEnd are the viewport bounds in the same
// space.
type Reference struct {
	Axis      Axis
	Edge      Edge
	Pos       float64
	ViewStart float64
	ViewEnd   float64
}

// Props is everything one layout pass reads from the host and style layer.
type Props struct {
	Axis         Axis
	Direction    Direction
	CrossSize    float64 // available size across the lanes
	RealMainSize float64 // viewport size along the main axis
	Padding      Offset

	RowsGap    units.Dimension
	ColumnsGap units.Dimension
	Template   string // track template for the cross axis
	ItemCount  int
	Density    float64 // vp to px, 0 means 1

	CacheMultiplier  float64 // cache size per side in viewports, 0 means 0.5
	FullMeasureLimit int     // item counts up to this always measure everything

	// Reference enables the lazy path. Nil, or an axis different from Axis,
	// forces a full measure.
	Reference *Reference
}

// Constraint is what a child is measured against.
type Constraint struct {
	CrossSize float64
}

// Offset is a position in host coordinates.
type Offset struct {
	X float64
	Y float64
}

// Child is one realized item of the host layout tree.
type Child interface {
	Measure(c Constraint)
	Layout()
	MainSize() float64
	NeedsForceRemeasure() bool
	// LastConstraint returns the constraint of the latest Measure call and
	// false if the child was never measured.
	LastConstraint() (Constraint, bool)
	SetOffset(o Offset)
	// RenderCustomChild is asked before a child is prepared during idle
	// prediction. Returning false ends the prediction.
	RenderCustomChild(deadline time.Time) bool
}

// Host creates and keeps children for the grid. Both lookups return a nil
// Child when the index cannot be served.
type Host interface {
	GetOrCreateChildByIndex(index int) Child
	GetChildByIndex(index int, cachedOnly bool) Child
	// SetActiveChildRange tells the host which children must stay realized.
	// end < start means none.
	SetActiveChildRange(start, end, startExtra, endExtra int)
}

// Clock is the time source for prediction deadlines.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
