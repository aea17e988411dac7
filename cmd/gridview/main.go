// Command gridview scrolls a grid scenario in a desktop window.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/render"
	"lazygrid/pkg/scenario"
	"lazygrid/pkg/text"
)

const (
	idleBudget = 4 * time.Millisecond
	lineStep   = 40.0
)

// viewer keeps the scenario session behind the window.
type viewer struct {
	session *scenario.Session
	props   lazygrid.Props
	width   int
	height  int
	offset  float64
	last    scenario.Frame
}

func (v *viewer) scrollTo(offset float64, edge lazygrid.Edge) image.Image {
	v.last = v.session.Apply(scenario.Step{Offset: offset, Edge: edge, Budget: idleBudget})
	v.offset = v.last.Offset
	r := render.NewRenderer(v.width, v.height, render.WithFont(text.DefaultFontConfig().FontPath(true), 11))
	r.Render(v.last.Placements, render.View{Axis: v.props.Axis, Offset: v.offset, Total: v.last.Diagnostics.TotalMainSize})
	return r.Image()
}

func (v *viewer) status() string {
	d := v.last.Diagnostics
	return fmt.Sprintf("offset %.0f / %.0f   realized [%d,%d]   active [%d,%d]   lanes %d   est %.1f   settled %v",
		v.offset, d.TotalMainSize, d.Realized.Start, d.Realized.End, d.Active.Start, d.Active.End,
		d.Lanes, d.EstimatedItemSize, v.last.Settled)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gridview <scenario.toml>\n")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	sc, err := scenario.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}
	session, err := scenario.NewSession(sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting scenario: %v\n", err)
		os.Exit(1)
	}

	v := &viewer{session: session, props: sc.Props}
	v.width, v.height = int(sc.Props.CrossSize+2*sc.Props.Padding.X), int(sc.Props.RealMainSize+2*sc.Props.Padding.Y)
	if sc.Props.Axis == lazygrid.Horizontal {
		v.width, v.height = int(sc.Props.RealMainSize+2*sc.Props.Padding.X), int(sc.Props.CrossSize+2*sc.Props.Padding.Y)
	}

	a := app.New()
	w := a.NewWindow("gridview - " + sc.Name)

	canvasImg := canvas.NewImageFromImage(v.scrollTo(0, lazygrid.EdgeStart))
	canvasImg.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel(v.status())

	slider := widget.NewSlider(0, max(session.MaxOffset(), 1))
	show := func(img image.Image) {
		canvasImg.Image = img
		canvasImg.Refresh()
		status.SetText(v.status())
		slider.Max = max(session.MaxOffset(), 1)
		slider.Refresh()
	}
	slider.OnChanged = func(value float64) {
		if value == v.offset {
			return
		}
		show(v.scrollTo(value, lazygrid.EdgeStart))
	}
	setOffset := func(img image.Image) {
		show(img)
		slider.SetValue(v.offset)
	}

	top := widget.NewButton("Top", func() { setOffset(v.scrollTo(0, lazygrid.EdgeStart)) })
	bottom := widget.NewButton("Bottom", func() { setOffset(v.scrollTo(0, lazygrid.EdgeEnd)) })
	relayout := widget.NewButton("Relayout", func() {
		session.Grid().Reset()
		setOffset(v.scrollTo(v.offset, lazygrid.EdgeStart))
	})

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDown:
			setOffset(v.scrollTo(v.offset+lineStep, lazygrid.EdgeStart))
		case fyne.KeyUp:
			setOffset(v.scrollTo(v.offset-lineStep, lazygrid.EdgeStart))
		case fyne.KeyPageDown:
			setOffset(v.scrollTo(v.offset+v.props.RealMainSize, lazygrid.EdgeStart))
		case fyne.KeyPageUp:
			setOffset(v.scrollTo(v.offset-v.props.RealMainSize, lazygrid.EdgeStart))
		case fyne.KeyHome:
			setOffset(v.scrollTo(0, lazygrid.EdgeStart))
		case fyne.KeyEnd:
			setOffset(v.scrollTo(0, lazygrid.EdgeEnd))
		}
	})

	controls := container.NewBorder(nil, nil, container.NewHBox(top, bottom, relayout), nil, slider)
	w.SetContent(container.NewBorder(controls, status, nil, nil, canvasImg))
	w.Resize(fyne.NewSize(float32(v.width)+40, float32(v.height)+120))
	w.ShowAndRun()
}
