// Package tracks turns a track template ("1fr 1fr", "repeat(auto-fill, 90px)")
// into concrete lane sizes for a given cross size.
//
// Supported forms:
//
//	50px 100px 60px           fixed tracks (px, vp or bare numbers)
//	30% 20% 50%               percentages of the available size
//	1fr 1fr 2fr               shares of the space left by fixed tracks and gutters
//	repeat(2, 100px 20%)      expanded in place
//	repeat(auto-fill, 90px)   as many tracks as fit, stretched to fill the size
//	repeat(auto-fit, 90px)    auto-fill capped by the item count, then stretched
//	repeat(auto-stretch, 90px) as many tracks as fit, the gutter absorbs the rest
//
// Auto repeats may be mixed with fixed tracks but not with fr tracks.
// A template with any token that cannot be read, or one expanding to more
// than MaxTracks tracks, yields no tracks at all and callers fall back to a
// single lane. Auto repeats stop at MaxTracks.
package tracks

import (
	"math"
	"strconv"
	"strings"

	"lazygrid/pkg/units"
)

const fullPercent = 100.0

// MaxTracks bounds the number of tracks one template resolves to.
const MaxTracks = 1024

// Input is everything the parser needs for one resolution.
type Input struct {
	Template  string
	Size      float64 // available cross size
	Gutter    float64 // gap between tracks, already in px
	ItemCount int     // used by auto-fit
	Density   float64 // vp to px, 0 means 1
}

// Result holds the resolved track sizes and the gutter to lay them out with.
// Gutter differs from the input for auto-stretch templates and when the
// gutters alone would not fit.
type Result struct {
	Sizes  []float64
	Gutter float64
}

type trackKind int

const (
	kindFixed trackKind = iota
	kindPercent
	kindFraction
)

type track struct {
	kind  trackKind
	value float64 // px for fixed, percent or fr count otherwise
}

type autoMode string

const (
	autoNone    autoMode = ""
	autoFill    autoMode = "auto-fill"
	autoFit     autoMode = "auto-fit"
	autoStretch autoMode = "auto-stretch"
)

type template struct {
	prefix []track
	repeat []track
	suffix []track
	mode   autoMode
}

// Parse resolves in.Template. An empty or unreadable template returns a
// Result with no sizes.
func Parse(in Input) Result {
	res := Result{Gutter: in.Gutter}
	if res.Gutter < 0 {
		res.Gutter = 0
	}
	tmpl, ok := parseTemplate(in.Template, in.Density)
	if !ok {
		return res
	}
	if tmpl.mode != autoNone {
		return resolveAuto(tmpl, in, res.Gutter)
	}
	return resolveFixed(tmpl.prefix, in.Size, res.Gutter)
}

// resolveFixed follows the classic priority order: fixed sizes first,
// then percentages, then fr shares of whatever is left.
func resolveFixed(list []track, size, gutter float64) Result {
	if len(list) == 0 {
		return Result{Gutter: gutter}
	}
	gaps := float64(len(list) - 1)
	if gaps*gutter > size {
		gutter = 0
	}
	var pxSum, peSum, frSum float64
	for _, t := range list {
		switch t.kind {
		case kindFixed:
			pxSum += t.value
		case kindPercent:
			peSum += t.value
		case kindFraction:
			frSum += t.value
		}
	}
	if peSum > fullPercent {
		peSum = fullPercent
	}

	sizeLeft := size - gaps*gutter
	percentLeft := fullPercent
	frSpace := size*(fullPercent-peSum)/fullPercent - gaps*gutter - pxSum
	if frSpace < 0 {
		frSpace = 0
	}
	sizes := make([]float64, 0, len(list))
	for _, t := range list {
		switch t.kind {
		case kindFixed:
			if sizeLeft < 0 {
				sizes = append(sizes, 0)
			} else {
				sizes = append(sizes, math.Min(t.value, sizeLeft))
			}
			sizeLeft -= t.value
		case kindPercent:
			num := math.Min(t.value, percentLeft)
			px := size * num / fullPercent
			sizes = append(sizes, px)
			percentLeft -= num
			sizeLeft -= px
		case kindFraction:
			if frSum == 0 {
				sizes = append(sizes, 0)
			} else {
				sizes = append(sizes, frSpace/frSum*t.value)
			}
		}
	}
	return Result{Sizes: sizes, Gutter: gutter}
}

func resolveAuto(tmpl template, in Input, gutter float64) Result {
	size := in.Size
	if gutter > size {
		gutter = 0
	}
	resolve := func(list []track) ([]float64, float64) {
		out := make([]float64, len(list))
		sum := 0.0
		for i, t := range list {
			v := t.value
			if t.kind == kindPercent {
				v = size * t.value / fullPercent
			}
			out[i] = v
			sum += v
		}
		return out, sum
	}
	prefix, prefixSum := resolve(tmpl.prefix)
	suffix, suffixSum := resolve(tmpl.suffix)
	repeat, repeatSum := resolve(tmpl.repeat)

	fixedCount := float64(len(prefix) + len(suffix))
	fixedSum := prefixSum + suffixSum
	per := repeatSum + float64(len(repeat))*gutter

	count := 1
	if per > 0 {
		fit := math.Floor((size - fixedSum - fixedCount*gutter + gutter) / per)
		if fit > 1 {
			count = int(fit)
		}
	}
	if room := (MaxTracks - len(prefix) - len(suffix)) / len(repeat); count > room {
		count = max(room, 1)
	}
	if tmpl.mode == autoFit {
		needed := in.ItemCount - len(prefix) - len(suffix)
		lanes := 1
		if needed > 0 {
			lanes = int(math.Ceil(float64(needed) / float64(len(repeat))))
		}
		if lanes < count {
			count = lanes
		}
	}

	total := len(prefix) + len(suffix) + count*len(repeat)
	repeatTotal := float64(count) * repeatSum
	leftover := size - fixedSum - repeatTotal - float64(total-1)*gutter

	sizes := make([]float64, 0, total)
	sizes = append(sizes, prefix...)
	for i := 0; i < count; i++ {
		for _, r := range repeat {
			switch {
			case tmpl.mode == autoStretch || leftover <= 0:
				sizes = append(sizes, r)
			case repeatTotal > 0:
				sizes = append(sizes, r*(repeatTotal+leftover)/repeatTotal)
			default:
				sizes = append(sizes, leftover/float64(count*len(repeat)))
			}
		}
	}
	sizes = append(sizes, suffix...)

	if tmpl.mode == autoStretch && total > 1 {
		gutter = (size - fixedSum - repeatTotal) / float64(total-1)
		if gutter < 0 {
			gutter = 0
		}
	}
	return Result{Sizes: sizes, Gutter: gutter}
}

func parseTemplate(s string, density float64) (template, bool) {
	var tmpl template
	tokens, ok := splitTopLevel(s)
	if !ok || len(tokens) == 0 {
		return tmpl, false
	}
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "repeat(") {
			t, ok := parseTrack(tok, density)
			if !ok {
				return tmpl, false
			}
			if tmpl.mode == autoNone {
				tmpl.prefix = append(tmpl.prefix, t)
			} else {
				tmpl.suffix = append(tmpl.suffix, t)
			}
			continue
		}
		if !strings.HasSuffix(tok, ")") {
			return tmpl, false
		}
		inner := tok[len("repeat(") : len(tok)-1]
		countPart, listPart, found := strings.Cut(inner, ",")
		if !found {
			return tmpl, false
		}
		list, ok := parseTrackList(listPart, density)
		if !ok {
			return tmpl, false
		}
		switch mode := autoMode(strings.TrimSpace(countPart)); mode {
		case autoFill, autoFit, autoStretch:
			if tmpl.mode != autoNone {
				return tmpl, false
			}
			tmpl.mode = mode
			tmpl.repeat = list
		default:
			n, err := strconv.Atoi(string(mode))
			if err != nil || n < 1 || n > MaxTracks/len(list) {
				return tmpl, false
			}
			for i := 0; i < n; i++ {
				if tmpl.mode == autoNone {
					tmpl.prefix = append(tmpl.prefix, list...)
				} else {
					tmpl.suffix = append(tmpl.suffix, list...)
				}
			}
		}
	}
	if len(tmpl.prefix)+len(tmpl.repeat)+len(tmpl.suffix) > MaxTracks {
		return tmpl, false
	}
	if tmpl.mode != autoNone {
		for _, group := range [][]track{tmpl.prefix, tmpl.repeat, tmpl.suffix} {
			for _, t := range group {
				if t.kind == kindFraction {
					return tmpl, false
				}
			}
		}
	}
	return tmpl, true
}

func parseTrackList(s string, density float64) ([]track, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, false
	}
	list := make([]track, 0, len(fields))
	for _, f := range fields {
		t, ok := parseTrack(f, density)
		if !ok {
			return nil, false
		}
		list = append(list, t)
	}
	return list, true
}

func parseTrack(tok string, density float64) (track, bool) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if strings.HasSuffix(tok, "fr") {
		num, err := strconv.ParseFloat(strings.TrimSuffix(tok, "fr"), 64)
		if err != nil || num < 0 {
			return track{}, false
		}
		return track{kind: kindFraction, value: num}, true
	}
	d, ok := units.Parse(tok)
	if !ok || d.Value < 0 {
		return track{}, false
	}
	if d.Unit == units.UnitPercent {
		return track{kind: kindPercent, value: d.Value}, true
	}
	return track{kind: kindFixed, value: d.ToPx(density, 0)}, true
}

// splitTopLevel splits on whitespace outside parentheses.
func splitTopLevel(s string) ([]string, bool) {
	var (
		tokens []string
		cur    strings.Builder
		depth  int
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			if depth < 0 {
				return nil, false
			}
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, false
	}
	flush()
	return tokens, true
}
