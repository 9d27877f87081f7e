package analysis

import (
	"iter"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/util"
	"go.uber.org/zap"
)

// durationClass is one representable note value. rel is a fraction of a
// whole note.
type durationClass struct {
	rel     float64
	onBeat  bool
	hollow  bool
	triplet bool
	dotted  bool
	flags   int
}

var durationTable = []durationClass{
	{rel: 1, hollow: true},
	{rel: 1.0 / 2, hollow: true},
	{rel: 1.0 / 3, hollow: true, triplet: true},
	{rel: 1.0 / 4},
	{rel: 1.0 / 6, triplet: true},
	{rel: 1.0 / 8, flags: 1},
	{rel: 1.0 / 12, triplet: true, flags: 1},
	{rel: 1.0 / 16, flags: 2},
	{rel: 1.0 / 24, triplet: true, flags: 2},
	{rel: 1.0 / 32, flags: 3},
	{rel: 3.0 / 4, onBeat: true, hollow: true, dotted: true},
	{rel: 3.0 / 8, onBeat: true, dotted: true},
	{rel: 3.0 / 2, onBeat: true, hollow: true, dotted: true},
}

type span struct {
	tick   int
	length int
}

func newRenderNote(tl render.Timeline, raw model.RawNote, s span) model.RenderNote {
	begin := tl.MeasureAtTick(s.tick)
	end := begin
	if s.length > 0 {
		end = tl.MeasureAtTick(s.tick + s.length - 1)
	}
	return model.RenderNote{
		Tick:         s.tick,
		TickLength:   s.length,
		Level:        raw.Level,
		Sign:         raw.Sign,
		Selected:     raw.Selected,
		PitchID:      raw.PitchID,
		MeasureBegin: begin,
		MeasureEnd:   end,
		DrawStem:     true,
		TiedWithTick: -1,
	}
}

// Classify expands raw into the render notes needed to draw it, in time
// order. Parts split off the same note are tied to the part before them.
// Notes with a non-positive duration yield nothing.
func Classify(ctx *render.Context, raw model.RawNote) iter.Seq[model.RenderNote] {
	return func(yield func(model.RenderNote) bool) {
		if raw.Duration() <= 0 {
			return
		}
		tl := ctx.Timeline
		measures := tl.MeasureAtTick(raw.EndTick-1) - tl.MeasureAtTick(raw.StartTick) + 1
		limit := constants.MaxSplitIterations * measures

		stack := []span{{tick: raw.StartTick, length: raw.Duration()}}
		var prev model.RenderNote
		produced := 0
		for steps := 0; len(stack) > 0; steps++ {
			if !ctx.Assert(steps < limit, "note splitting did not terminate",
				zap.Int("tick", raw.StartTick), zap.Int("length", raw.Duration())) {
				return
			}
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			note := newRenderNote(tl, raw, s)
			parts, drop := shape(ctx, &note)
			if drop {
				continue
			}
			if parts != nil {
				stack = append(stack, parts[1], parts[0])
				continue
			}

			if produced > 0 {
				note.TieWith(&prev)
			}
			prev = note
			produced++
			if !yield(note) {
				return
			}
		}
	}
}

// shape annotates n in place when it is drawable as a single symbol.
// Otherwise it returns the two parts n must be split into.
func shape(ctx *render.Context, n *model.RenderNote) (parts []span, drop bool) {
	tl := ctx.Timeline

	if n.MeasureEnd > n.MeasureBegin {
		firstEnd := tl.LastTickInMeasure(n.MeasureBegin)
		firstLength := firstEnd - n.Tick
		secondLength := n.TickLength - firstLength
		if firstLength <= 0 || secondLength <= 0 {
			return nil, true
		}
		return []span{
			{tick: n.Tick, length: firstLength},
			{tick: firstEnd, length: secondLength},
		}, false
	}

	rel := ctx.RelativeLength(n.TickLength)
	beat := ctx.BeatLength()
	inMeasure := n.Tick - tl.FirstTickInMeasure(n.MeasureBegin)
	remaining := beat - inMeasure%beat
	onBeat := remaining == beat

	n.Stem = model.StemDown
	if n.Level >= ctx.Options.StemPivot {
		n.Stem = model.StemUp
	}

	// neighbouring values like 1/24 and 1/32 overlap; the nearest wins
	var match *durationClass
	best := constants.DurationTolerance
	for i, class := range durationTable {
		if class.onBeat && !onBeat {
			continue
		}
		if d := util.Abs(rel - class.rel); d < best {
			match, best = &durationTable[i], d
		}
	}
	if match != nil {
		n.HollowHead = match.hollow
		n.Dotted = match.dotted
		n.FlagAmount = match.flags
		if match.triplet {
			n.SetTriplet()
		}
	}

	if match == nil {
		if rel >= constants.ShortestDuration {
			first := irregularFirstLength(ctx, n, rel, remaining, onBeat)
			if first > 0 && first < n.TickLength {
				return []span{
					{tick: n.Tick, length: first},
					{tick: n.Tick + first, length: n.TickLength - first},
				}, false
			}
			ctx.Log.Debug("cannot split note, drawing as instant hit",
				zap.Int("tick", n.Tick), zap.Int("length", n.TickLength))
		}
		n.InstantHit = true
	}

	if rel >= 1-constants.DurationTolerance || n.InstantHit {
		n.Stem = model.StemNone
	}
	return nil, false
}

// irregularFirstLength picks the first part of a duration with no symbol:
// up to the next beat, or else the longest power-of-two value that fits.
func irregularFirstLength(ctx *render.Context, n *model.RenderNote, rel float64, remaining int, onBeat bool) int {
	if !onBeat && remaining < n.TickLength {
		return remaining
	}
	closest := 1.0
	for closest >= rel {
		closest /= 2
	}
	return int(closest * float64(ctx.BeatLength()*4))
}
