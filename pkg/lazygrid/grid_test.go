package lazygrid_test

import (
	"math"
	"testing"
	"time"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/posindex"
	"lazygrid/pkg/simhost"
	"lazygrid/pkg/units"
)

// stepClock advances by step every time it is read.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func farFuture() time.Time {
	return time.Now().Add(time.Hour)
}

// scrolled returns props for a vertical grid scrolled to offset with the
// viewport anchored at its start.
func scrolled(count int, viewport, offset float64) lazygrid.Props {
	return lazygrid.Props{
		Axis:         lazygrid.Vertical,
		CrossSize:    300,
		RealMainSize: viewport,
		ItemCount:    count,
		Reference: &lazygrid.Reference{
			Axis:      lazygrid.Vertical,
			Edge:      lazygrid.EdgeStart,
			Pos:       -offset,
			ViewStart: 0,
			ViewEnd:   viewport,
		},
	}
}

func predictAll(t *testing.T, g *lazygrid.Grid, host lazygrid.Host) {
	t.Helper()
	for i := 0; g.NeedPredict(); i++ {
		if i > 10000 {
			t.Fatal("Prediction did not settle")
		}
		if !g.Predict(host, farFuture()) {
			t.Fatal("Expected prediction with a generous deadline to complete")
		}
	}
}

func TestPass_ViewportThenPrediction(t *testing.T) {
	tree := simhost.NewTree(10, simhost.Fixed(100))
	g := lazygrid.NewGrid()
	p := scrolled(10, 350, 0)
	p.RowsGap = units.Px(10)

	g.Pass(tree, p)

	r := g.Index().Realized()
	if r.Start != 0 || r.End != 3 {
		t.Errorf("Expected realized [0,3], got %+v", r)
	}
	for i, want := range []float64{0, 110, 220, 330} {
		pos, ok := g.Index().Get(i)
		if !ok || pos.Start != want {
			t.Errorf("Item %d: expected start %f, got %+v", i, want, pos)
		}
	}
	if !posindex.NearEqual(g.TotalMainSize(), 1090) {
		t.Errorf("Expected total main size 1090, got %f", g.TotalMainSize())
	}
	if !g.NeedPredict() {
		t.Fatal("Expected the cache window to need prediction")
	}

	if !g.Predict(tree, farFuture()) {
		t.Error("Expected prediction to complete")
	}
	r = g.Index().Realized()
	if r.Start != 0 || r.End != 4 {
		t.Errorf("Expected prediction to realize [0,4], got %+v", r)
	}
	if g.NeedPredict() {
		t.Error("Expected no prediction left once the cache window is covered")
	}
	if start, end := tree.ActiveRange(); start != 0 || end != 4 {
		t.Errorf("Expected host active range [0,4], got [%d,%d]", start, end)
	}
	n, ok := tree.Node(4)
	if !ok {
		t.Fatal("Expected predicted item 4 to be realized")
	}
	if n.Offset().Y != 440 || n.Layouts() == 0 {
		t.Errorf("Expected item 4 laid out at y=440, got %+v after %d layouts", n.Offset(), n.Layouts())
	}
}

func TestPass_FullMeasure(t *testing.T) {
	tree := simhost.NewTree(10, simhost.Fixed(100))
	g := lazygrid.NewGrid()
	p := lazygrid.Props{CrossSize: 300, ItemCount: 10, RowsGap: units.Px(10)}

	g.Pass(tree, p)

	if !posindex.NearEqual(g.TotalMainSize(), 1090) {
		t.Errorf("Expected total main size 1090, got %f", g.TotalMainSize())
	}
	r := g.Index().Realized()
	if r.Start != 0 || r.End != 9 {
		t.Errorf("Expected realized [0,9], got %+v", r)
	}
	if g.NeedPredict() {
		t.Error("Expected nothing to predict after a full measure")
	}
	if len(g.Placements()) != 10 {
		t.Errorf("Expected 10 placements, got %d", len(g.Placements()))
	}
}

func TestPass_FullMeasureIsIdempotent(t *testing.T) {
	tree := simhost.NewTree(25, simhost.Cycle(30, 70, 45, 10))
	g := lazygrid.NewGrid()
	p := lazygrid.Props{CrossSize: 300, Template: "1fr 1fr 1fr", ItemCount: 25, RowsGap: units.Px(6)}

	g.Pass(tree, p)
	first := g.Index().Entries()
	firstTotal := g.TotalMainSize()

	g.Pass(tree, p)
	second := g.Index().Entries()

	if len(first) != 25 || len(second) != 25 {
		t.Fatalf("Expected 25 entries twice, got %d and %d", len(first), len(second))
	}
	for i, pos := range first {
		if second[i] != pos {
			t.Errorf("Item %d: %+v changed to %+v", i, pos, second[i])
		}
	}
	if g.TotalMainSize() != firstTotal {
		t.Errorf("Total changed from %f to %f", firstTotal, g.TotalMainSize())
	}
}

func TestPass_FullMeasureThreshold(t *testing.T) {
	tree := simhost.NewTree(8, simhost.Fixed(50))
	g := lazygrid.NewGrid()
	p := scrolled(8, 100, 0)
	p.FullMeasureLimit = 8

	g.Pass(tree, p)

	if r := g.Index().Realized(); r.Start != 0 || r.End != 7 {
		t.Errorf("Expected small grid to be fully realized, got %+v", r)
	}
}

func TestPass_AxisMismatchForcesFullMeasure(t *testing.T) {
	tree := simhost.NewTree(12, simhost.Fixed(50))
	g := lazygrid.NewGrid()
	p := scrolled(12, 100, 0)
	p.Axis = lazygrid.Horizontal

	g.Pass(tree, p)

	if r := g.Index().Realized(); r.Start != 0 || r.End != 11 {
		t.Errorf("Expected full realization on axis mismatch, got %+v", r)
	}
}

func TestPass_WindowedMatchesFull(t *testing.T) {
	configs := []struct {
		name     string
		template string
		count    int
	}{
		{"one lane", "", 30},
		{"three lanes", "1fr 1fr 1fr", 20},
		{"auto-fill", "repeat(auto-fill, 90px)", 23},
	}
	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			full := lazygrid.NewGrid()
			fullProps := lazygrid.Props{
				CrossSize: 300,
				Template:  cfg.template,
				ItemCount: cfg.count,
				RowsGap:   units.Px(10),
			}
			full.Pass(simhost.NewTree(cfg.count, simhost.Fixed(40)), fullProps)
			want := full.Index().Entries()

			tree := simhost.NewTree(cfg.count, simhost.Fixed(40))
			lazy := lazygrid.NewGrid()
			p := scrolled(cfg.count, 100, 0)
			p.Template = cfg.template
			p.RowsGap = units.Px(10)
			p.CacheMultiplier = 100
			lazy.Pass(tree, p)
			predictAll(t, lazy, tree)

			r := lazy.Index().Realized()
			if r.Start != 0 || r.End != cfg.count-1 {
				t.Fatalf("Expected prediction to realize everything, got %+v", r)
			}
			for i := 0; i < cfg.count; i++ {
				got, ok := lazy.Index().Get(i)
				if !ok {
					t.Fatalf("Item %d missing", i)
				}
				w := want[i]
				if got.Lane != w.Lane || !posindex.NearEqual(got.Start, w.Start) || !posindex.NearEqual(got.End, w.End) {
					t.Errorf("Item %d: windowed %+v, full %+v", i, got, w)
				}
			}
			if !posindex.NearEqual(lazy.TotalMainSize(), full.TotalMainSize()) {
				t.Errorf("Expected total %f, got %f", full.TotalMainSize(), lazy.TotalMainSize())
			}
		})
	}
}

func TestPass_AnchorSymmetry(t *testing.T) {
	tree := simhost.NewTree(60, simhost.Cycle(30, 50, 70))
	g := lazygrid.NewGrid()
	base := scrolled(60, 200, 0)
	base.Template = "1fr 1fr"
	base.RowsGap = units.Px(5)

	g.Pass(tree, base)
	forward := base
	forward.Reference = &lazygrid.Reference{Axis: lazygrid.Vertical, Pos: -300, ViewEnd: 200}
	g.Pass(tree, forward)

	fwdRange := g.Index().Realized()
	fwd := g.Index().Entries()

	backward := base
	backward.Reference = &lazygrid.Reference{
		Axis:    lazygrid.Vertical,
		Edge:    lazygrid.EdgeEnd,
		Pos:     g.TotalMainSize() - 500,
		ViewEnd: 200,
	}
	g.Pass(tree, backward)

	bwdRange := g.Index().Realized()
	lo, hi := max(fwdRange.Start, bwdRange.Start), min(fwdRange.End, bwdRange.End)
	if lo > hi {
		t.Fatalf("Expected overlapping ranges, got %+v and %+v", fwdRange, bwdRange)
	}
	for i := lo; i <= hi; i++ {
		got, _ := g.Index().Get(i)
		want := fwd[i]
		if !posindex.NearEqual(got.Start, want.Start) || !posindex.NearEqual(got.End, want.End) {
			t.Errorf("Item %d: end-anchored %+v, start-anchored %+v", i, got, want)
		}
	}
}

func TestPass_BackwardJumpOverUnmeasuredItems(t *testing.T) {
	const count = 200
	sizes := simhost.Cycle(40, 60)

	reference := lazygrid.NewGrid()
	reference.Pass(simhost.NewTree(count, sizes), lazygrid.Props{CrossSize: 300, ItemCount: count})

	tree := simhost.NewTree(count, sizes)
	g := lazygrid.NewGrid()
	g.Pass(tree, scrolled(count, 500, 0))
	g.Pass(tree, scrolled(count, 500, 5000))
	far := g.Index().Realized()
	if far.Start < 90 {
		t.Fatalf("Expected the forward jump to land near item 100, got %+v", far)
	}

	g.Pass(tree, scrolled(count, 500, 2000))
	r := g.Index().Realized()
	if r.Empty() || r.Start < 11 || r.End >= far.Start {
		t.Fatalf("Expected the backward jump to land in the unmeasured gap, got %+v", r)
	}
	for i := r.Start; i <= r.End; i++ {
		got, _ := g.Index().Get(i)
		want, _ := reference.Index().Get(i)
		if math.Abs(got.Start-want.Start) > 60 {
			t.Errorf("Item %d placed at %f, true position %f", i, got.Start, want.Start)
		}
	}
}

func TestPass_EndAnchorWithEmptyIndexCoversViewport(t *testing.T) {
	tree := simhost.NewTree(50, simhost.Fixed(20))
	g := lazygrid.NewGrid()
	p := scrolled(50, 100, 0)
	p.Reference.Edge = lazygrid.EdgeEnd

	g.Pass(tree, p)

	if r := g.Index().Realized(); r.Start != 44 || r.End != 49 {
		t.Fatalf("Expected realized [44,49] on the first pass, got %+v", r)
	}
	if !posindex.NearEqual(g.TotalMainSize(), 1000) {
		t.Errorf("Expected total 1000, got %f", g.TotalMainSize())
	}
	first, _ := g.Index().Get(44)
	last, _ := g.Index().Get(49)
	if first.Start > 900 || last.End < 1000 {
		t.Errorf("Expected [900,1000] covered, got %+v to %+v", first, last)
	}
	if n, ok := tree.Node(49); !ok || n.Offset().Y != 980 {
		t.Errorf("Expected item 49 laid out at y=980, got %+v (live %v)", n, ok)
	}

	// A second identical pass must not move anything.
	before := g.Index().Entries()
	g.Pass(tree, p)
	for i, want := range before {
		if got, _ := g.Index().Get(i); got != want {
			t.Errorf("Item %d: moved from %+v to %+v", i, want, got)
		}
	}
}

func TestPass_EndAnchorWithEmptyIndexMultiLane(t *testing.T) {
	const count = 31
	tree := simhost.NewTree(count, simhost.Cycle(40, 60, 50))
	g := lazygrid.NewGrid()
	p := scrolled(count, 200, 0)
	p.Template = "1fr 1fr 1fr"
	p.Reference.Edge = lazygrid.EdgeEnd

	g.Pass(tree, p)

	r := g.Index().Realized()
	if r.Empty() || r.End != count-1 {
		t.Fatalf("Expected the realized range to reach the last item, got %+v", r)
	}
	total := g.TotalMainSize()
	first, _ := g.Index().Get(r.Start)
	if first.Start > total-200 {
		t.Errorf("Expected the viewport [%f,%f] covered, realized from %f", total-200, total, first.Start)
	}
	for i := r.Start; i <= r.End; i++ {
		if _, ok := tree.Node(i); !ok {
			t.Errorf("Expected item %d to be live", i)
		}
	}
}

func TestPass_ViewportBeforeStartRealizesNothing(t *testing.T) {
	tree := simhost.NewTree(50, simhost.Fixed(20))
	g := lazygrid.NewGrid()

	g.Pass(tree, scrolled(50, 100, -500))

	if r := g.Index().Realized(); !r.Empty() {
		t.Errorf("Expected nothing realized, got %+v", r)
	}
}

func TestPass_ItemCountChanges(t *testing.T) {
	tree := simhost.NewTree(100, simhost.Fixed(20))
	g := lazygrid.NewGrid()
	g.Pass(tree, scrolled(100, 200, 1000))

	tree.SetCount(5)
	g.Pass(tree, scrolled(5, 200, 0))
	if r := g.Index().Realized(); r.Start != 0 || r.End != 4 {
		t.Errorf("Expected realized [0,4] after shrinking, got %+v", r)
	}
	if g.Index().Len() > 5 {
		t.Errorf("Expected entries past the end to be dropped, got %d", g.Index().Len())
	}

	tree.SetCount(0)
	g.Pass(tree, scrolled(0, 200, 0))
	if g.Index().Len() != 0 || g.TotalMainSize() != 0 {
		t.Errorf("Expected an empty index, got %s", g.Dump())
	}
	if g.NeedPredict() {
		t.Error("Expected nothing to predict without items")
	}
}

func TestPass_LaneChangeRebuildsIndex(t *testing.T) {
	tree := simhost.NewTree(40, simhost.Fixed(30))
	g := lazygrid.NewGrid()
	p := scrolled(40, 200, 0)
	p.Template = "1fr 1fr"
	g.Pass(tree, p)

	p.Template = "1fr 1fr 1fr 1fr"
	g.Pass(tree, p)

	for i := 0; i <= g.Index().Realized().End; i++ {
		pos, ok := g.Index().Get(i)
		if !ok {
			t.Fatalf("Item %d missing", i)
		}
		if pos.Lane != i%4 {
			t.Errorf("Item %d: expected lane %d, got %d", i, i%4, pos.Lane)
		}
	}
	n, _ := tree.Node(1)
	if n.Constraint().CrossSize != 75 {
		t.Errorf("Expected item 1 remeasured against 75px, got %f", n.Constraint().CrossSize)
	}
}

func TestPass_MissingChildrenAreSkipped(t *testing.T) {
	tree := simhost.NewTree(3, simhost.Fixed(100), simhost.WithMissing(1))
	g := lazygrid.NewGrid()
	g.Pass(tree, lazygrid.Props{CrossSize: 100, ItemCount: 3, RowsGap: units.Px(10)})

	p1, _ := g.Index().Get(1)
	if p1.Size() != 0 || p1.Start != 110 {
		t.Errorf("Expected missing item to take no space at 110, got %+v", p1)
	}
	p2, _ := g.Index().Get(2)
	if p2.Start != 120 {
		t.Errorf("Expected item 2 at 120, got %f", p2.Start)
	}

	lanes := simhost.NewTree(4, simhost.Cycle(10, 80, 30, 20), simhost.WithMissing(1))
	h := lazygrid.NewGrid()
	h.Pass(lanes, lazygrid.Props{CrossSize: 100, Template: "1fr 1fr", ItemCount: 4})
	if p, _ := h.Index().Get(0); p.Size() != 10 {
		t.Errorf("Expected first line sized by the remaining lane (10), got %f", p.Size())
	}
}

func TestPass_ForceRemeasure(t *testing.T) {
	tree := simhost.NewTree(10, simhost.Fixed(50), simhost.WithoutRecycling())
	g := lazygrid.NewGrid()
	p := lazygrid.Props{CrossSize: 100, ItemCount: 10}
	g.Pass(tree, p)
	calls := tree.MeasureCalls()

	g.Pass(tree, p)
	if tree.MeasureCalls() != calls {
		t.Errorf("Expected no remeasurement of valid children, got %d extra calls", tree.MeasureCalls()-calls)
	}

	tree.SetSizeFunc(simhost.Fixed(80))
	g.Pass(tree, p)
	if !posindex.NearEqual(g.TotalMainSize(), 800) {
		t.Errorf("Expected total 800 after remeasure, got %f", g.TotalMainSize())
	}
}

func TestPredict_StopsAtDeadline(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), step: time.Millisecond}
	tree := simhost.NewTree(100, simhost.Fixed(10))
	g := lazygrid.NewGrid(lazygrid.WithClock(clock))
	p := scrolled(100, 100, 0)
	p.CacheMultiplier = 5
	g.Pass(tree, p)

	before := g.Index().Realized()
	if before.Start != 0 || before.End != 10 {
		t.Fatalf("Expected realized [0,10], got %+v", before)
	}

	deadline := clock.now.Add(3 * time.Millisecond)
	if g.Predict(tree, deadline) {
		t.Error("Expected prediction to report the deadline")
	}
	after := g.Index().Realized()
	if after.End != 13 {
		t.Errorf("Expected three predicted items, realized end %d", after.End)
	}
	if !g.NeedPredict() {
		t.Error("Expected prediction work left")
	}
}

func TestPredict_StopsAtRenderGate(t *testing.T) {
	gate := func(index int, _ time.Time) bool { return index < 12 }
	tree := simhost.NewTree(100, simhost.Fixed(10), simhost.WithRenderGate(gate))
	g := lazygrid.NewGrid()
	p := scrolled(100, 100, 0)
	p.CacheMultiplier = 5
	g.Pass(tree, p)

	if g.Predict(tree, farFuture()) {
		t.Error("Expected prediction to report the refusal")
	}
	if r := g.Index().Realized(); r.End != 11 {
		t.Errorf("Expected prediction to stop before item 12, realized %+v", r)
	}
	if g.Predict(tree, farFuture()) {
		t.Error("Expected the gate to keep refusing")
	}
	if r := g.Index().Realized(); r.End != 11 {
		t.Errorf("Expected no progress past the gate, realized %+v", r)
	}
}

func TestPredict_RealizedRangeNeverShrinks(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), step: time.Millisecond}
	tree := simhost.NewTree(400, simhost.Cycle(25, 35, 60))
	g := lazygrid.NewGrid(lazygrid.WithClock(clock))
	p := scrolled(400, 300, 3000)
	p.Template = "1fr 1fr"
	p.RowsGap = units.Px(4)
	g.Pass(tree, p)

	prev := g.Index().Realized()
	for i := 0; g.NeedPredict(); i++ {
		if i > 1000 {
			t.Fatal("Prediction did not settle")
		}
		g.Predict(tree, clock.now.Add(2*time.Millisecond))
		r := g.Index().Realized()
		if r.Start > prev.Start || r.End < prev.End {
			t.Fatalf("Realized range shrank from %+v to %+v", prev, r)
		}
		prev = r
	}

	x := g.Index()
	if prev.Start > 0 {
		first, _ := x.Get(prev.Start)
		if first.Start-x.Spacing() >= x.CacheStartPos() {
			t.Errorf("Expected the cache start %f to be covered, first item at %f", x.CacheStartPos(), first.Start)
		}
	}
	if prev.End < 399 {
		last, _ := x.Get(prev.End)
		if last.End+x.Spacing() <= x.CacheEndPos() {
			t.Errorf("Expected the cache end %f to be covered, last item ends at %f", x.CacheEndPos(), last.End)
		}
	}
}

func TestPredict_FixesLinesForward(t *testing.T) {
	tree := simhost.NewTree(30, simhost.Cycle(20, 20, 80))
	g := lazygrid.NewGrid()
	p := scrolled(30, 100, 0)
	p.Template = "1fr 1fr 1fr"
	p.CacheMultiplier = 2
	g.Pass(tree, p)
	before := g.Index().Realized()

	predictAll(t, g, tree)

	after := g.Index().Realized()
	if after.End <= before.End {
		t.Fatalf("Expected prediction past %d, got %+v", before.End, after)
	}
	for i := before.End + 1; i <= after.End; i++ {
		pos, _ := g.Index().Get(i)
		if pos.Size() != 80 {
			t.Errorf("Item %d: expected the line size 80, got %+v", i, pos)
		}
	}
}

func TestPredict_FixesLinesBackward(t *testing.T) {
	sizes := simhost.Cycle(80, 20, 20)
	tree := simhost.NewTree(60, sizes)
	g := lazygrid.NewGrid()
	p := scrolled(60, 100, 600)
	p.Template = "1fr 1fr 1fr"
	g.Pass(tree, p)
	before := g.Index().Realized()
	if before.Start == 0 {
		t.Fatalf("Expected the viewport to start past item 0, got %+v", before)
	}

	predictAll(t, g, tree)

	reference := lazygrid.NewGrid()
	reference.Pass(simhost.NewTree(60, sizes), lazygrid.Props{CrossSize: 300, Template: "1fr 1fr 1fr", ItemCount: 60})

	after := g.Index().Realized()
	if after.Start >= before.Start {
		t.Fatalf("Expected prediction before %d, got %+v", before.Start, after)
	}
	for i := after.Start; i < before.Start; i++ {
		got, _ := g.Index().Get(i)
		want, _ := reference.Index().Get(i)
		if !posindex.NearEqual(got.Start, want.Start) || !posindex.NearEqual(got.End, want.End) {
			t.Errorf("Item %d: predicted %+v, want %+v", i, got, want)
		}
		if n, ok := tree.Node(i); ok && n.Offset().Y != got.Start {
			t.Errorf("Item %d: offset %f does not follow start %f", i, n.Offset().Y, got.Start)
		}
	}
}

func TestPass_RecyclesOutsideActiveRange(t *testing.T) {
	tree := simhost.NewTree(500, simhost.Fixed(20))
	g := lazygrid.NewGrid()
	g.Pass(tree, scrolled(500, 200, 0))
	g.Pass(tree, scrolled(500, 200, 4000))

	start, end := tree.ActiveRange()
	if tree.Len() > end-start+1 {
		t.Errorf("Expected at most %d live nodes, got %d", end-start+1, tree.Len())
	}
	if _, ok := tree.Node(0); ok {
		t.Error("Expected item 0 to be recycled after scrolling away")
	}
}

func TestPlacements_Horizontal(t *testing.T) {
	tree := simhost.NewTree(4, simhost.Fixed(50))
	g := lazygrid.NewGrid()
	g.Pass(tree, lazygrid.Props{
		Axis:      lazygrid.Horizontal,
		CrossSize: 200,
		Template:  "1fr 1fr",
		ItemCount: 4,
	})

	got := g.Placements()
	if len(got) != 4 {
		t.Fatalf("Expected 4 placements, got %d", len(got))
	}
	want := lazygrid.Placement{Index: 3, Lane: 1, X: 50, Y: 100, Width: 50, Height: 100}
	if got[3] != want {
		t.Errorf("Expected %+v, got %+v", want, got[3])
	}
}

func TestReset(t *testing.T) {
	tree := simhost.NewTree(100, simhost.Fixed(20))
	g := lazygrid.NewGrid()
	g.Pass(tree, scrolled(100, 200, 0))
	g.Reset()

	if g.Index().Len() != 0 {
		t.Errorf("Expected empty index after reset, got %d entries", g.Index().Len())
	}
	if !posindex.NearEqual(g.Index().EstimatedItemSize(), 20) {
		t.Errorf("Expected the estimate to survive a reset, got %f", g.Index().EstimatedItemSize())
	}

	g.Pass(tree, scrolled(100, 200, 1000))
	pos, ok := g.Index().Get(g.Index().Realized().Start)
	if !ok || math.Abs(pos.Start-1000) > 20 {
		t.Errorf("Expected the pass after reset to land near 1000, got %+v", pos)
	}
}

func TestNewBudget_DefaultsToSystemClock(t *testing.T) {
	var clock lazygrid.Clock = lazygrid.SystemClock{}
	if now := clock.Now(); time.Since(now) < 0 || time.Since(now) > time.Minute {
		t.Errorf("Expected the wall clock, got %v", now)
	}
	if !lazygrid.NewBudget(time.Now().Add(-time.Second), nil).Exceeded() {
		t.Error("Expected a past deadline to be exceeded")
	}
	if lazygrid.NewBudget(time.Now().Add(time.Hour), nil).Exceeded() {
		t.Error("Expected a deadline an hour away to have time left")
	}
}
