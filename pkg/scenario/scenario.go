package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/units"
)

var (
	ErrNoSteps       = errors.New("scenario has no steps")
	ErrInvalidAxis   = errors.New("invalid axis")
	ErrInvalidEdge   = errors.New("invalid edge")
	ErrUnknownSizes  = errors.New("unknown sizes kind")
	ErrInvalidBudget = errors.New("invalid budget")
)

const (
	defaultCrossSize = 400.0
	defaultViewport  = 600.0
	defaultItems     = 100
	defaultItemSize  = 100.0
	defaultBudget    = 8 * time.Millisecond
	defaultFontSize  = 12.0
)

// SizesKind selects where item sizes come from.
type SizesKind string

const (
	SizesFixed  SizesKind = "fixed"
	SizesCycle  SizesKind = "cycle"
	SizesScript SizesKind = "script"
	SizesText   SizesKind = "text"
)

// Sizes describes the item size source.
type Sizes struct {
	Kind   SizesKind
	Value  float64
	Cycle  []float64
	Script string
	// Labels are cycled over the items, each prefixed by the item index.
	Labels      []string
	Font        string
	FontSize    float64
	LineSpacing float64
	Padding     float64
}

// Step is one scroll position to lay out.
type Step struct {
	// Offset is the scroll distance from the anchored edge: from the start
	// of the content for EdgeStart, back from its end for EdgeEnd.
	Offset float64
	Edge   lazygrid.Edge
	// Budget is the idle time granted to prediction after the pass.
	Budget time.Duration
	// Items changes the item count before the pass when positive.
	Items int
	// Invalidate flags items for remeasurement before the pass.
	Invalidate []int
	Reset      bool
	// Full lays the grid out without a view reference.
	Full bool
}

// Scenario is a resolved scenario file.
type Scenario struct {
	Name  string
	Props lazygrid.Props
	Sizes Sizes
	Steps []Step
}

type rawScenario struct {
	Name             string    `toml:"name"`
	Axis             string    `toml:"axis"`
	Direction        string    `toml:"direction"`
	CrossSize        float64   `toml:"cross_size"`
	Viewport         float64   `toml:"viewport"`
	Template         string    `toml:"template"`
	RowsGap          string    `toml:"rows_gap"`
	ColumnsGap       string    `toml:"columns_gap"`
	PaddingX         float64   `toml:"padding_x"`
	PaddingY         float64   `toml:"padding_y"`
	Density          float64   `toml:"density"`
	Items            int       `toml:"items"`
	CacheMultiplier  float64   `toml:"cache_multiplier"`
	FullMeasureLimit int       `toml:"full_measure_limit"`
	Sizes            rawSizes  `toml:"sizes"`
	Steps            []rawStep `toml:"steps"`
}

type rawSizes struct {
	Kind        string    `toml:"kind"`
	Value       float64   `toml:"value"`
	Cycle       []float64 `toml:"cycle"`
	Script      string    `toml:"script"`
	ScriptFile  string    `toml:"script_file"`
	Labels      []string  `toml:"labels"`
	Font        string    `toml:"font"`
	FontSize    float64   `toml:"font_size"`
	LineSpacing float64   `toml:"line_spacing"`
	Padding     float64   `toml:"padding"`
}

type rawStep struct {
	Offset     float64 `toml:"offset"`
	Edge       string  `toml:"edge"`
	Budget     string  `toml:"budget"`
	Items      int     `toml:"items"`
	Invalidate []int   `toml:"invalidate"`
	Reset      bool    `toml:"reset"`
	Full       bool    `toml:"full"`
}

// Load reads and resolves the scenario at path. Relative script and font
// paths are resolved against the scenario's directory.
func Load(path string) (*Scenario, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data, filepath.Dir(resolved))
}

// Parse resolves a scenario from TOML. baseDir anchors relative paths.
func Parse(data []byte, baseDir string) (*Scenario, error) {
	var raw rawScenario
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	sc := &Scenario{Name: strings.TrimSpace(raw.Name)}
	if sc.Name == "" {
		sc.Name = "scenario"
	}

	p := lazygrid.Props{
		CrossSize:        orDefault(raw.CrossSize, defaultCrossSize),
		RealMainSize:     orDefault(raw.Viewport, defaultViewport),
		Template:         strings.TrimSpace(raw.Template),
		RowsGap:          units.ParseOrZero(raw.RowsGap),
		ColumnsGap:       units.ParseOrZero(raw.ColumnsGap),
		Padding:          lazygrid.Offset{X: raw.PaddingX, Y: raw.PaddingY},
		Density:          raw.Density,
		ItemCount:        raw.Items,
		CacheMultiplier:  raw.CacheMultiplier,
		FullMeasureLimit: raw.FullMeasureLimit,
	}
	if p.ItemCount <= 0 {
		p.ItemCount = defaultItems
	}
	switch strings.ToLower(strings.TrimSpace(raw.Axis)) {
	case "", "vertical":
		p.Axis = lazygrid.Vertical
	case "horizontal":
		p.Axis = lazygrid.Horizontal
	default:
		return nil, fmt.Errorf("axis %q: %w", raw.Axis, ErrInvalidAxis)
	}
	if strings.EqualFold(strings.TrimSpace(raw.Direction), "rtl") {
		p.Direction = lazygrid.RTL
	}
	sc.Props = p

	sizes, err := resolveSizes(raw.Sizes, baseDir)
	if err != nil {
		return nil, err
	}
	sc.Sizes = sizes

	if len(raw.Steps) == 0 {
		return nil, ErrNoSteps
	}
	for i, rs := range raw.Steps {
		step, err := resolveStep(rs)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		sc.Steps = append(sc.Steps, step)
	}
	return sc, nil
}

func resolveSizes(raw rawSizes, baseDir string) (Sizes, error) {
	s := Sizes{
		Kind:     SizesKind(strings.ToLower(strings.TrimSpace(raw.Kind))),
		Value:    orDefault(raw.Value, defaultItemSize),
		Cycle:    raw.Cycle,
		Script:   raw.Script,
		Labels:   raw.Labels,
		FontSize:    orDefault(raw.FontSize, defaultFontSize),
		LineSpacing: orDefault(raw.LineSpacing, 1),
		Padding:     raw.Padding,
	}
	switch s.Kind {
	case "":
		s.Kind = SizesFixed
	case SizesFixed:
	case SizesCycle:
		if len(s.Cycle) == 0 {
			return Sizes{}, fmt.Errorf("sizes: cycle is empty")
		}
	case SizesScript:
		if raw.ScriptFile != "" {
			data, err := os.ReadFile(resolveRelative(raw.ScriptFile, baseDir))
			if err != nil {
				return Sizes{}, fmt.Errorf("read script: %w", err)
			}
			s.Script = string(data)
		}
		if strings.TrimSpace(s.Script) == "" {
			return Sizes{}, fmt.Errorf("sizes: script is empty")
		}
	case SizesText:
		if len(s.Labels) == 0 {
			return Sizes{}, fmt.Errorf("sizes: no labels")
		}
		if raw.Font != "" {
			s.Font = resolveRelative(raw.Font, baseDir)
		}
	default:
		return Sizes{}, fmt.Errorf("sizes %q: %w", raw.Kind, ErrUnknownSizes)
	}
	return s, nil
}

func resolveStep(raw rawStep) (Step, error) {
	s := Step{
		Offset:     raw.Offset,
		Budget:     defaultBudget,
		Items:      raw.Items,
		Invalidate: raw.Invalidate,
		Reset:      raw.Reset,
		Full:       raw.Full,
	}
	switch strings.ToLower(strings.TrimSpace(raw.Edge)) {
	case "", "start":
		s.Edge = lazygrid.EdgeStart
	case "end":
		s.Edge = lazygrid.EdgeEnd
	default:
		return Step{}, fmt.Errorf("edge %q: %w", raw.Edge, ErrInvalidEdge)
	}
	if b := strings.TrimSpace(raw.Budget); b != "" {
		d, err := time.ParseDuration(b)
		if err != nil || d < 0 {
			return Step{}, fmt.Errorf("budget %q: %w", raw.Budget, ErrInvalidBudget)
		}
		s.Budget = d
	}
	return s, nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func resolveRelative(path, baseDir string) string {
	expanded, err := expandPath(path)
	if err == nil && (filepath.IsAbs(strings.TrimSpace(path)) || strings.HasPrefix(strings.TrimSpace(path), "~")) {
		return expanded
	}
	return filepath.Join(baseDir, strings.TrimSpace(path))
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
