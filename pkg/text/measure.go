package text

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fogleman/gg"

	"lazygrid/pkg/simhost"
)

// FontConfig holds paths to font files used for label measurement and rendering.
type FontConfig struct {
	Regular string
	Bold    string
}

// defaultFontsDir returns the directory named by LAZYGRID_FONTS, the fonts
// directory next to the executable, or the one at the module root.
func defaultFontsDir() string {
	if dir := os.Getenv("LAZYGRID_FONTS"); dir != "" {
		return dir
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "..", "fonts")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "fonts")
}

// DefaultFontConfig points at Atkinson Hyperlegible in the fonts directory.
// No font files are distributed with the module; unless LAZYGRID_FONTS or
// a fonts directory provides them, measurers and renderers use gg's
// built-in face.
func DefaultFontConfig() FontConfig {
	dir := defaultFontsDir()
	return FontConfig{
		Regular: filepath.Join(dir, "AtkinsonHyperlegible-Regular.ttf"),
		Bold:    filepath.Join(dir, "AtkinsonHyperlegible-Bold.ttf"),
	}
}

// FontPath returns the bold face if asked for and configured, the regular
// one otherwise.
func (fc FontConfig) FontPath(bold bool) string {
	if bold && fc.Bold != "" {
		return fc.Bold
	}
	return fc.Regular
}

// Measurer measures and wraps labels in one font face.
type Measurer struct {
	dc          *gg.Context
	lineSpacing float64
	fallback    bool
}

// NewMeasurer loads fontPath at fontSize. If the font cannot be loaded the
// measurer keeps gg's built-in 7x13 face and Fallback reports true.
func NewMeasurer(fontPath string, fontSize float64) *Measurer {
	m := &Measurer{dc: gg.NewContext(1, 1), lineSpacing: 1}
	if fontPath == "" {
		m.fallback = true
		return m
	}
	if err := m.dc.LoadFontFace(fontPath, fontSize); err != nil {
		m.fallback = true
	}
	return m
}

// SetLineSpacing sets the line height as a multiple of the font height.
func (m *Measurer) SetLineSpacing(s float64) {
	if s > 0 {
		m.lineSpacing = s
	}
}

// Fallback reports whether the built-in face is in use.
func (m *Measurer) Fallback() bool {
	return m.fallback
}

// LineHeight is the advance between two wrapped lines.
func (m *Measurer) LineHeight() float64 {
	return m.dc.FontHeight() * m.lineSpacing
}

// MeasureText measures the width and height of a single line of text.
func (m *Measurer) MeasureText(text string) (width, height float64) {
	return m.dc.MeasureString(text)
}

// Lines breaks text into lines that fit within maxWidth. Words wider than
// maxWidth get a line of their own.
func (m *Measurer) Lines(text string, maxWidth float64) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return m.dc.WordWrap(text, maxWidth)
}

// WrapHeight returns the height text takes when wrapped to maxWidth.
func (m *Measurer) WrapHeight(text string, maxWidth float64) float64 {
	return float64(len(m.Lines(text, maxWidth))) * m.LineHeight()
}

// SizeFunc sizes item i by the wrapped height of label(i) inside a cell of
// the lane's cross size less padding on every side.
func (m *Measurer) SizeFunc(label func(int) string, padding float64) simhost.SizeFunc {
	return func(index int, cross float64) float64 {
		width := max(cross-2*padding, 0)
		return m.WrapHeight(label(index), width) + 2*padding
	}
}
