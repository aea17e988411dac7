package units

import (
	"strconv"
	"strings"
)

// Unit is the unit a Dimension was written in.
type Unit string

const (
	UnitNone    Unit = ""
	UnitPx      Unit = "px"
	UnitVp      Unit = "vp"
	UnitPercent Unit = "%"
)

// Dimension is a length as the style layer hands it over: a number and the
// unit it was written in. The zero value is an unset dimension and resolves
// to 0.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Px returns a pixel dimension.
func Px(v float64) Dimension {
	return Dimension{Value: v, Unit: UnitPx}
}

// Vp returns a virtual-pixel dimension.
func Vp(v float64) Dimension {
	return Dimension{Value: v, Unit: UnitVp}
}

// Percent returns a percentage dimension (50 means 50%).
func Percent(v float64) Dimension {
	return Dimension{Value: v, Unit: UnitPercent}
}

// IsSet reports whether the dimension carries a unit.
func (d Dimension) IsSet() bool {
	return d.Unit != UnitNone
}

// ToPx resolves the dimension to pixels. Virtual pixels are scaled by
// density (0 means 1) and percentages are taken of percentBase. Negative
// results are clamped to 0.
func (d Dimension) ToPx(density, percentBase float64) float64 {
	if density <= 0 {
		density = 1
	}
	var px float64
	switch d.Unit {
	case UnitPx:
		px = d.Value
	case UnitVp:
		px = d.Value * density
	case UnitPercent:
		px = percentBase * d.Value / 100
	default:
		return 0
	}
	if px < 0 {
		return 0
	}
	return px
}

// String formats the dimension the way Parse reads it.
func (d Dimension) String() string {
	if !d.IsSet() {
		return ""
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + string(d.Unit)
}

// Parse reads a length such as "10px", "2.5vp", "50%" or "12".
// A bare number is a virtual-pixel value.
func Parse(val string) (Dimension, bool) {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "" {
		return Dimension{}, false
	}
	unit := UnitVp
	switch {
	case strings.HasSuffix(val, "px"):
		unit = UnitPx
		val = strings.TrimSuffix(val, "px")
	case strings.HasSuffix(val, "vp"):
		val = strings.TrimSuffix(val, "vp")
	case strings.HasSuffix(val, "%"):
		unit = UnitPercent
		val = strings.TrimSuffix(val, "%")
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return Dimension{}, false
	}
	return Dimension{Value: num, Unit: unit}, true
}

// ParseOrZero is Parse with unparsable input mapped to an unset dimension.
func ParseOrZero(val string) Dimension {
	d, ok := Parse(val)
	if !ok {
		return Dimension{}
	}
	return d
}
