// Package script computes item sizes with small JavaScript programs.
//
// A source is either an expression over index and cross, such as
// "40 + (index % 3) * 20", or a program defining a global function
// size(index, cross).
package script

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dop251/goja"

	"lazygrid/pkg/simhost"
)

// ErrNotANumber is returned when a script yields something other than a
// finite number.
var ErrNotANumber = errors.New("script: size is not a number")

// DefaultTimeout bounds a single size call.
const DefaultTimeout = 100 * time.Millisecond

// Source is a compiled size script. It is not safe for concurrent use.
type Source struct {
	vm      *goja.Runtime
	fn      goja.Callable
	log     *slog.Logger
	timeout time.Duration
}

// Option configures a Source.
type Option func(*Source)

// WithLogger routes console output and evaluation failures to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTimeout bounds each size call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// Compile prepares src for evaluation.
func Compile(src string, opts ...Option) (*Source, error) {
	s := &Source{
		vm:      goja.New(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	c := &consoleAPI{log: s.log}
	c.register(s.vm)

	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("compile script: empty source")
	}

	var fn goja.Value
	if strings.Contains(src, "function") {
		if _, err := s.vm.RunString(src); err != nil {
			return nil, fmt.Errorf("compile script: %w", err)
		}
		fn = s.vm.Get("size")
		if fn == nil {
			return nil, fmt.Errorf("compile script: no size function defined")
		}
	} else {
		v, err := s.vm.RunString("(function(index, cross) { return (" + src + "); })")
		if err != nil {
			return nil, fmt.Errorf("compile script: %w", err)
		}
		fn = v
	}

	call, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, fmt.Errorf("compile script: size is not a function")
	}
	s.fn = call
	return s, nil
}

// Size evaluates the script for one item.
func (s *Source) Size(index int, cross float64) (float64, error) {
	if s.timeout > 0 {
		timer := time.AfterFunc(s.timeout, func() {
			s.vm.Interrupt("timeout")
		})
		defer func() {
			timer.Stop()
			s.vm.ClearInterrupt()
		}()
	}

	v, err := s.fn(goja.Undefined(), s.vm.ToValue(index), s.vm.ToValue(cross))
	if err != nil {
		return 0, fmt.Errorf("size(%d): %w", index, err)
	}
	f := v.ToFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("size(%d) = %s: %w", index, v.String(), ErrNotANumber)
	}
	return f, nil
}

// SizeFunc adapts s for a simhost tree. Failed evaluations log a warning
// and size the item 0.
func (s *Source) SizeFunc() simhost.SizeFunc {
	return func(index int, cross float64) float64 {
		size, err := s.Size(index, cross)
		if err != nil {
			s.log.Warn("script: size failed", "op", "size", "index", index, "err", err)
			return 0
		}
		return size
	}
}
