package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/script"
	"lazygrid/pkg/simhost"
	"lazygrid/pkg/text"
)

// maxPredictRounds bounds the prediction loop of one step.
const maxPredictRounds = 10000

// Frame is the outcome of one step.
type Frame struct {
	Step int
	// Offset is the resulting scroll position from the content start.
	Offset      float64
	Placements  []lazygrid.Placement
	Diagnostics lazygrid.Diagnostics
	Predictions int
	// Settled reports that nothing was left to predict.
	Settled bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes grid and script diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the clock prediction budgets are measured with.
func WithClock(c lazygrid.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// Session drives one grid through the steps of a scenario.
type Session struct {
	sc    *Scenario
	props lazygrid.Props
	tree  *simhost.Tree
	grid  *lazygrid.Grid
	log   *slog.Logger
	clock lazygrid.Clock
	steps int
}

// NewSession builds the host tree and grid for sc.
func NewSession(sc *Scenario, opts ...Option) (*Session, error) {
	s := &Session{
		sc:    sc,
		props: sc.Props,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock: lazygrid.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	size, err := s.sizeFunc()
	if err != nil {
		return nil, err
	}
	s.tree = simhost.NewTree(sc.Props.ItemCount, size)
	s.grid = lazygrid.NewGrid(lazygrid.WithLogger(s.log), lazygrid.WithClock(s.clock))
	return s, nil
}

func (s *Session) sizeFunc() (simhost.SizeFunc, error) {
	sz := s.sc.Sizes
	switch sz.Kind {
	case SizesCycle:
		return simhost.Cycle(sz.Cycle...), nil
	case SizesScript:
		src, err := script.Compile(sz.Script, script.WithLogger(s.log))
		if err != nil {
			return nil, fmt.Errorf("sizes: %w", err)
		}
		return src.SizeFunc(), nil
	case SizesText:
		m := text.NewMeasurer(sz.Font, sz.FontSize)
		m.SetLineSpacing(sz.LineSpacing)
		if m.Fallback() && sz.Font != "" {
			s.log.Warn("scenario: font unavailable, using built-in face", "font", sz.Font)
		}
		labels := sz.Labels
		return m.SizeFunc(func(i int) string {
			return strconv.Itoa(i) + " " + labels[i%len(labels)]
		}, sz.Padding), nil
	default:
		return simhost.Fixed(sz.Value), nil
	}
}

// Grid returns the grid under test.
func (s *Session) Grid() *lazygrid.Grid {
	return s.grid
}

// Tree returns the simulated host.
func (s *Session) Tree() *simhost.Tree {
	return s.tree
}

// Props returns the grid props of the next pass, without a reference.
func (s *Session) Props() lazygrid.Props {
	return s.props
}

// MaxOffset is the largest scroll offset from the content start.
func (s *Session) MaxOffset() float64 {
	return max(s.grid.TotalMainSize()-s.props.RealMainSize, 0)
}

// Apply runs one step: a synchronous pass at the step's scroll position
// followed by predictions until the budget is spent.
func (s *Session) Apply(step Step) Frame {
	if step.Items > 0 && step.Items != s.props.ItemCount {
		s.props.ItemCount = step.Items
		s.tree.SetCount(step.Items)
	}
	if step.Reset {
		s.grid.Reset()
	}
	for _, i := range step.Invalidate {
		s.tree.Invalidate(i)
	}

	p := s.props
	if !step.Full {
		ref := &lazygrid.Reference{
			Axis:      p.Axis,
			Edge:      step.Edge,
			Pos:       -step.Offset,
			ViewStart: 0,
			ViewEnd:   p.RealMainSize,
		}
		if step.Edge == lazygrid.EdgeEnd {
			ref.Pos = step.Offset
		}
		p.Reference = ref
	}
	s.grid.Pass(s.tree, p)

	f := Frame{Step: s.steps}
	s.steps++
	if step.Budget > 0 {
		deadline := s.clock.Now().Add(step.Budget)
		for f.Predictions < maxPredictRounds && s.grid.NeedPredict() {
			f.Predictions++
			if !s.grid.Predict(s.tree, deadline) {
				break
			}
		}
	}

	f.Offset = step.Offset
	if step.Edge == lazygrid.EdgeEnd {
		f.Offset = s.grid.TotalMainSize() - p.RealMainSize - step.Offset
	}
	f.Offset = min(max(f.Offset, 0), s.MaxOffset())
	f.Placements = s.grid.Placements()
	f.Diagnostics = s.grid.Dump()
	f.Settled = !s.grid.NeedPredict()
	s.log.Debug("scenario: step done",
		"step", f.Step,
		"offset", f.Offset,
		"predictions", f.Predictions,
		"settled", f.Settled)
	return f
}

// Run replays every step of sc and returns one frame per step. It stops
// early when ctx is cancelled.
func Run(ctx context.Context, sc *Scenario, opts ...Option) ([]Frame, error) {
	s, err := NewSession(sc, opts...)
	if err != nil {
		return nil, err
	}
	frames := make([]Frame, 0, len(sc.Steps))
	for _, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		frames = append(frames, s.Apply(step))
	}
	return frames, nil
}
