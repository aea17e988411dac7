package script

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestCompile_Expression(t *testing.T) {
	s, err := Compile("40 + (index % 3) * 20")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{40, 60, 80, 40} {
		got, err := s.Size(i, 100)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Item %d: expected %f, got %f", i, want, got)
		}
	}
}

func TestCompile_ExpressionUsesCross(t *testing.T) {
	s, err := Compile("cross / 2")
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Size(0, 96)
	if err != nil {
		t.Fatal(err)
	}
	if got != 48 {
		t.Errorf("Expected 48, got %f", got)
	}
}

func TestCompile_Program(t *testing.T) {
	s, err := Compile(`
		var sizes = [10, 20, 30];
		function size(index, cross) {
			return sizes[index % sizes.length] + cross;
		}
	`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Size(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 21 {
		t.Errorf("Expected 21, got %f", got)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "  "},
		{"syntax", "1 +"},
		{"no size function", "function other() { return 1; }"},
		{"size not callable", "var size = 3; function unused() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.src); err == nil {
				t.Errorf("Expected an error for %q", tt.src)
			}
		})
	}
}

func TestSize_NotANumber(t *testing.T) {
	for _, src := range []string{`"tall"`, "undefined", "1 / 0"} {
		s, err := Compile(src)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.Size(0, 10); !errors.Is(err, ErrNotANumber) {
			t.Errorf("%s: expected ErrNotANumber, got %v", src, err)
		}
	}
}

func TestSize_ThrownError(t *testing.T) {
	s, err := Compile(`function size(i) { if (i > 2) throw new Error("boom"); return 5; }`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Size(1, 0); err != nil {
		t.Errorf("Expected no error for item 1, got %v", err)
	}
	if _, err := s.Size(3, 0); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected the thrown error, got %v", err)
	}
}

func TestSize_Timeout(t *testing.T) {
	s, err := Compile(`function size(i) { if (i == 0) { for (;;) {} } return 7; }`, WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Size(0, 0); err == nil {
		t.Fatal("Expected the runaway script to be interrupted")
	}
	got, err := s.Size(1, 0)
	if err != nil || got != 7 {
		t.Errorf("Expected 7 after an interrupt, got %f (%v)", got, err)
	}
}

func TestSizeFunc_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := Compile(`index == 1 ? "x" : 12`, WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	f := s.SizeFunc()
	if got := f(0, 0); got != 12 {
		t.Errorf("Expected 12, got %f", got)
	}
	if got := f(1, 0); got != 0 {
		t.Errorf("Expected failed item to size 0, got %f", got)
	}
	if !strings.Contains(buf.String(), "size failed") || !strings.Contains(buf.String(), "index=1") {
		t.Errorf("Expected a warning for item 1, got %q", buf.String())
	}
}

func TestConsole_RoutesToLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := Compile(`function size(i) { console.warn("measuring", i); return 1; }`, WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Size(3, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "measuring 3") {
		t.Errorf("Expected console.warn in the log, got %q", out)
	}
}
