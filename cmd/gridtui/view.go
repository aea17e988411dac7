package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/render"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Background(lipgloss.Color("#24283b"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	cellStyles  = paletteStyles()
)

func paletteStyles() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(render.Palette))
	for i, c := range render.Palette {
		hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		styles[i] = lipgloss.NewStyle().Background(lipgloss.Color(hex)).Foreground(lipgloss.Color("#1a1b26"))
	}
	return styles
}

// cell is one terminal character of the grid area. style is -1 when empty.
type cell struct {
	style int
	ch    rune
}

// View implements tea.Model.
func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}
	rows := max(m.height-2, 1)
	cells := rasterize(m.frame.Placements, m.props, m.offset, m.width, rows, max(m.frame.Diagnostics.Lanes, 1))

	var b strings.Builder
	for _, row := range cells {
		b.WriteString(renderRow(row))
		b.WriteByte('\n')
	}
	b.WriteString(statusStyle.MaxWidth(m.width).Render(m.status()))
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m model) status() string {
	d := m.frame.Diagnostics
	state := "predicting"
	if m.frame.Settled {
		state = "settled"
	}
	return fmt.Sprintf(" %.0f/%.0f  realized [%d,%d]  active [%d,%d]  est %.1f  %s",
		m.offset, d.TotalMainSize, d.Realized.Start, d.Realized.End,
		d.Active.Start, d.Active.End, d.EstimatedItemSize, state)
}

func (m model) help() string {
	parts := make([]string, 0, len(m.keys.shortHelp()))
	for _, k := range m.keys.shortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// rasterize maps placements onto a cols x rows character grid showing the
// viewport. Neighbouring items get different palette entries.
func rasterize(placements []lazygrid.Placement, p lazygrid.Props, offset float64, cols, rows, lanes int) [][]cell {
	cells := make([][]cell, rows)
	for r := range cells {
		cells[r] = make([]cell, cols)
		for c := range cells[r] {
			cells[r][c] = cell{style: -1, ch: ' '}
		}
	}
	if cols <= 0 || rows <= 0 {
		return cells
	}

	colPx := (p.CrossSize + 2*p.Padding.X) / float64(cols)
	rowPx := (p.RealMainSize + 2*p.Padding.Y) / float64(rows)
	dx, dy := 0.0, offset
	if p.Axis == lazygrid.Horizontal {
		colPx = (p.RealMainSize + 2*p.Padding.X) / float64(cols)
		rowPx = (p.CrossSize + 2*p.Padding.Y) / float64(rows)
		dx, dy = offset, 0
	}
	if colPx <= 0 || rowPx <= 0 {
		return cells
	}

	for _, pl := range placements {
		c0 := int(math.Floor((pl.X - dx) / colPx))
		c1 := int(math.Ceil((pl.X-dx+pl.Width)/colPx)) - 1
		r0 := int(math.Floor((pl.Y - dy) / rowPx))
		r1 := int(math.Ceil((pl.Y-dy+pl.Height)/rowPx)) - 1
		if c1 < 0 || r1 < 0 || c0 >= cols || r0 >= rows {
			continue
		}
		style := (pl.Lane + pl.Index/lanes) % len(cellStyles)
		for r := max(r0, 0); r <= min(r1, rows-1); r++ {
			for c := max(c0, 0); c <= min(c1, cols-1); c++ {
				cells[r][c] = cell{style: style, ch: ' '}
			}
		}
		if r0 >= 0 && c0 >= 0 {
			for i, ch := range strconv.Itoa(pl.Index) {
				if c0+i > min(c1, cols-1) {
					break
				}
				cells[r0][c0+i].ch = ch
			}
		}
	}
	return cells
}

// renderRow styles runs of cells sharing a palette entry.
func renderRow(row []cell) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i
		var run strings.Builder
		for j < len(row) && row[j].style == row[i].style {
			run.WriteRune(row[j].ch)
			j++
		}
		if row[i].style < 0 {
			b.WriteString(run.String())
		} else {
			b.WriteString(cellStyles[row[i].style].Render(run.String()))
		}
		i = j
	}
	return b.String()
}
