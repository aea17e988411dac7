package tracks

import (
	"math"
	"testing"
)

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func sameSizes(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !nearly(got[i], want[i]) {
			return false
		}
	}
	return true
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantSizes  []float64
		wantGutter float64
	}{
		{
			name:      "equal fractions",
			in:        Input{Template: "1fr 1fr", Size: 480},
			wantSizes: []float64{240, 240},
		},
		{
			name:       "fractions share space left by gutters",
			in:         Input{Template: "1fr 1fr", Size: 480, Gutter: 10},
			wantSizes:  []float64{235, 235},
			wantGutter: 10,
		},
		{
			name:      "fixed then fraction",
			in:        Input{Template: "100px 1fr", Size: 480},
			wantSizes: []float64{100, 380},
		},
		{
			name:      "percentages",
			in:        Input{Template: "25% 75%", Size: 400},
			wantSizes: []float64{100, 300},
		},
		{
			name:      "fixed track clamped to space left",
			in:        Input{Template: "300px 300px", Size: 400},
			wantSizes: []float64{300, 100},
		},
		{
			name:      "vp scaled by density",
			in:        Input{Template: "50vp 50", Size: 400, Density: 2},
			wantSizes: []float64{100, 100},
		},
		{
			name:      "numeric repeat expands",
			in:        Input{Template: "repeat(2, 100px 20%)", Size: 500},
			wantSizes: []float64{100, 100, 100, 100},
		},
		{
			name:      "auto-fill stretches tracks",
			in:        Input{Template: "repeat(auto-fill, 90px)", Size: 480},
			wantSizes: []float64{96, 96, 96, 96, 96},
		},
		{
			name:       "auto-fill with gutter",
			in:         Input{Template: "repeat(auto-fill, 90px)", Size: 480, Gutter: 10},
			wantSizes:  []float64{112.5, 112.5, 112.5, 112.5},
			wantGutter: 10,
		},
		{
			name:       "auto-stretch adjusts gutter",
			in:         Input{Template: "repeat(auto-stretch, 90px)", Size: 480, Gutter: 10},
			wantSizes:  []float64{90, 90, 90, 90},
			wantGutter: 40,
		},
		{
			name:      "auto-fit capped by item count",
			in:        Input{Template: "repeat(auto-fit, 90px)", Size: 480, ItemCount: 3},
			wantSizes: []float64{160, 160, 160},
		},
		{
			name:      "auto-fill between fixed tracks",
			in:        Input{Template: "100px repeat(auto-fill, 50px) 100px", Size: 400},
			wantSizes: []float64{100, 50, 50, 50, 50, 100},
		},
		{
			name:      "auto-fill never yields zero tracks",
			in:        Input{Template: "repeat(auto-fill, 900px)", Size: 480},
			wantSizes: []float64{900},
		},
		{
			name:      "gutters larger than size are dropped",
			in:        Input{Template: "1fr 1fr", Size: 480, Gutter: 1000},
			wantSizes: []float64{240, 240},
		},
		{
			name:      "negative gutter clamps",
			in:        Input{Template: "1fr 1fr", Size: 480, Gutter: -10},
			wantSizes: []float64{240, 240},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if !sameSizes(got.Sizes, tt.wantSizes) {
				t.Errorf("sizes = %v, want %v", got.Sizes, tt.wantSizes)
			}
			if !nearly(got.Gutter, tt.wantGutter) {
				t.Errorf("gutter = %v, want %v", got.Gutter, tt.wantGutter)
			}
		})
	}
}

func TestParseGarbageYieldsNoTracks(t *testing.T) {
	garbage := []string{
		"",
		"abc",
		"1fr foo",
		"repeat(auto-fill)",
		"repeat(x, 1fr)",
		"repeat(0, 10px)",
		"repeat(auto-fill, 1fr)",
		"repeat(auto-fill, 10px) repeat(auto-fit, 10px)",
		"repeat(2, 10px",
		"10px)",
		"-5px",
	}
	for _, tmpl := range garbage {
		got := Parse(Input{Template: tmpl, Size: 480, Gutter: 8})
		if len(got.Sizes) != 0 {
			t.Errorf("Parse(%q) = %v, want no tracks", tmpl, got.Sizes)
		}
		if got.Gutter != 8 {
			t.Errorf("Parse(%q) gutter = %v, want untouched 8", tmpl, got.Gutter)
		}
	}
}

func TestParseTrackCountBounded(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int
	}{
		{"huge repeat is unreadable", Input{Template: "repeat(100000000, 1px)", Size: 400}, 0},
		{"repeat list past the bound", Input{Template: "repeat(600, 1px 1px)", Size: 400}, 0},
		{"repeats adding up past the bound", Input{Template: "repeat(1000, 1px) repeat(1000, 1px)", Size: 400}, 0},
		{"repeat at the bound", Input{Template: "repeat(1024, 1px)", Size: 2000}, MaxTracks},
		{"auto-fill of tiny tracks stops at the bound", Input{Template: "repeat(auto-fill, 0.001px)", Size: 1e6}, MaxTracks},
		{"auto-fill bound counts fixed tracks", Input{Template: "10px repeat(auto-fill, 0.001px) 10px", Size: 1e6}, MaxTracks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Parse(tt.in).Sizes); got != tt.want {
				t.Errorf("Expected %d tracks, got %d", tt.want, got)
			}
		})
	}
}
