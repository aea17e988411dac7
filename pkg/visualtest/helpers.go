package visualtest

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/render"
)

// Snapshot renders the active placements of g as seen through a viewport
// of width x height scrolled to offset.
func Snapshot(g *lazygrid.Grid, offset float64, width, height int) image.Image {
	r := render.NewRenderer(width, height, render.WithLabels(false))
	r.Render(g.Placements(), render.View{
		Axis:   g.Geometry().Axis,
		Offset: offset,
		Total:  g.TotalMainSize(),
	})
	return r.Image()
}

// UpdateReferenceImage writes img as the reference at path, creating its
// directory. gridsnap -update calls it for every frame.
func UpdateReferenceImage(img image.Image, path string) error {
	fmt.Printf("Updating reference image: %s\n", path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return savePNG(img, path)
}
