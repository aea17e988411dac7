// Package render rasterizes grid placements into images with gg.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"

	"lazygrid/pkg/lazygrid"
)

// Palette colours items by lane, cycling when there are more lanes.
var Palette = []color.RGBA{
	{R: 0x8e, G: 0xc5, B: 0xfc, A: 0xff},
	{R: 0xf9, G: 0xc7, B: 0x8a, A: 0xff},
	{R: 0xa8, G: 0xe6, B: 0xa1, A: 0xff},
	{R: 0xf2, G: 0xa6, B: 0xc8, A: 0xff},
	{R: 0xd4, G: 0xc2, B: 0xf7, A: 0xff},
	{R: 0xf7, G: 0xee, B: 0x8f, A: 0xff},
}

// LaneColor returns the fill colour of a lane.
func LaneColor(lane int) color.RGBA {
	if lane < 0 {
		lane = -lane
	}
	return Palette[lane%len(Palette)]
}

const scrollbarWidth = 4.0

// View places the viewport over the content.
type View struct {
	Axis lazygrid.Axis
	// Offset is the scroll position along the main axis.
	Offset float64
	// Total is the content size along the main axis. Zero hides the scrollbar.
	Total float64
}

type Renderer struct {
	context  *gg.Context
	width    float64
	height   float64
	labels   bool
	fontPath string
	fontSize float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLabels draws the item index in the top-left corner of each item.
func WithLabels(on bool) Option {
	return func(r *Renderer) {
		r.labels = on
	}
}

// WithFont draws labels in the font at path. Without it, or if it fails to
// load, gg's built-in face is used.
func WithFont(path string, size float64) Option {
	return func(r *Renderer) {
		r.fontPath = path
		r.fontSize = size
	}
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	r := &Renderer{
		context:  gg.NewContext(width, height),
		width:    float64(width),
		height:   float64(height),
		labels:   true,
		fontSize: 12,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fontPath != "" {
		if err := r.context.LoadFontFace(r.fontPath, r.fontSize); err != nil {
			r.fontPath = ""
		}
	}
	return r
}

// Render clears the canvas and draws every placement intersecting view.
func (r *Renderer) Render(placements []lazygrid.Placement, view View) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	dx, dy := 0.0, -view.Offset
	if view.Axis == lazygrid.Horizontal {
		dx, dy = -view.Offset, 0
	}
	for _, p := range placements {
		x, y := p.X+dx, p.Y+dy
		if x+p.Width < 0 || y+p.Height < 0 || x > r.width || y > r.height {
			continue
		}
		r.drawItem(p, x, y)
	}
	r.drawScrollbar(view)
}

func (r *Renderer) drawItem(p lazygrid.Placement, x, y float64) {
	if p.Width <= 0 || p.Height <= 0 {
		return
	}
	c := LaneColor(p.Lane)
	r.context.SetColor(c)
	r.context.DrawRectangle(x, y, p.Width, p.Height)
	r.context.Fill()

	r.context.SetRGB(0.35, 0.35, 0.35)
	r.context.SetLineWidth(1)
	r.context.DrawRectangle(x+0.5, y+0.5, p.Width-1, p.Height-1)
	r.context.Stroke()

	if !r.labels {
		return
	}
	label := strconv.Itoa(p.Index)
	w, h := r.context.MeasureString(label)
	if w+4 > p.Width || h+2 > p.Height {
		return
	}
	r.context.SetRGB(0, 0, 0)
	r.context.DrawString(label, x+3, y+h)
}

// drawScrollbar draws the scroll thumb along the far edge of the canvas.
func (r *Renderer) drawScrollbar(view View) {
	viewSize := r.height
	if view.Axis == lazygrid.Horizontal {
		viewSize = r.width
	}
	if view.Total <= viewSize || viewSize <= 0 {
		return
	}
	thumb := max(viewSize*viewSize/view.Total, scrollbarWidth)
	pos := view.Offset / (view.Total - viewSize) * (viewSize - thumb)
	pos = min(max(pos, 0), viewSize-thumb)

	r.context.SetRGBA(0, 0, 0, 0.1)
	if view.Axis == lazygrid.Horizontal {
		r.context.DrawRectangle(0, r.height-scrollbarWidth, r.width, scrollbarWidth)
	} else {
		r.context.DrawRectangle(r.width-scrollbarWidth, 0, scrollbarWidth, r.height)
	}
	r.context.Fill()

	r.context.SetRGBA(0, 0, 0, 0.5)
	if view.Axis == lazygrid.Horizontal {
		r.context.DrawRectangle(pos, r.height-scrollbarWidth, thumb, scrollbarWidth)
	} else {
		r.context.DrawRectangle(r.width-scrollbarWidth, pos, scrollbarWidth, thumb)
	}
	r.context.Fill()
}

// Fallback reports whether labels are drawn in gg's built-in face.
func (r *Renderer) Fallback() bool {
	return r.fontPath == ""
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	if err := r.context.SavePNG(filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}
