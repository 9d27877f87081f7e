package analysis

import (
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/util"
	"go.uber.org/zap"
)

type silenceClass struct {
	rel     float64
	onBeat  bool
	typ     int
	dotted  bool
	triplet bool
}

var silenceTable = []silenceClass{
	{rel: 1, typ: 1},
	{rel: 3.0 / 2, onBeat: true, typ: 1, dotted: true},
	{rel: 1.0 / 2, typ: 2},
	{rel: 3.0 / 4, onBeat: true, typ: 2, dotted: true},
	{rel: 1.0 / 4, typ: 4},
	{rel: 1.0 / 3, typ: 2, triplet: true},
	{rel: 3.0 / 8, onBeat: true, typ: 4, dotted: true},
	{rel: 1.0 / 6, typ: 4, triplet: true},
	{rel: 1.0 / 8, typ: 8},
	{rel: 1.0 / 12, typ: 8, triplet: true},
	{rel: 1.0 / 16, typ: 16},
	{rel: 1.0 / 24, typ: 16, triplet: true},
	{rel: 1.0 / 32, typ: 32},
	{rel: 3.0 / 16, onBeat: true, typ: 8, dotted: true},
}

// FindSilences returns the rests needed to fill every tick of measures
// [firstMeasure, lastMeasure] not covered by notes. notes must be in time
// order.
func FindSilences(ctx *render.Context, notes []model.RenderNote, firstMeasure, lastMeasure int) []model.Silence {
	tl := ctx.Timeline
	from := tl.FirstTickInMeasure(firstMeasure)
	to := tl.LastTickInMeasure(lastMeasure)

	var res []model.Silence
	cursor := from
	for i := range notes {
		n := &notes[i]
		if n.Tick >= to {
			break
		}
		if n.Tick > cursor {
			res = appendSilences(ctx, res, cursor, n.Tick-cursor)
		}
		if n.EndTick() > cursor {
			cursor = n.EndTick()
		}
	}
	if cursor < to {
		res = appendSilences(ctx, res, cursor, to-cursor)
	}
	return res
}

// appendSilences splits [tick, tick+length) into drawable rests.
func appendSilences(ctx *render.Context, res []model.Silence, tick, length int) []model.Silence {
	tl := ctx.Timeline
	stack := []span{{tick: tick, length: length}}
	measures := tl.MeasureAtTick(tick+length-1) - tl.MeasureAtTick(tick) + 1
	limit := constants.MaxSplitIterations * measures

	for steps := 0; len(stack) > 0; steps++ {
		if !ctx.Assert(steps < limit, "silence splitting did not terminate", zap.Int("tick", tick)) {
			return res
		}
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.length < 2 {
			continue
		}

		measure := tl.MeasureAtTick(s.tick)
		endMeasure := tl.MeasureAtTick(s.tick + s.length - 1)
		if endMeasure != measure {
			cut := tl.FirstTickInMeasure(measure + 1)
			stack = append(stack, span{tick: cut, length: s.tick + s.length - cut}, span{tick: s.tick, length: cut - s.tick})
			continue
		}

		silence, parts := shapeSilence(ctx, s, measure)
		if parts != nil {
			stack = append(stack, parts[1], parts[0])
			continue
		}
		if silence != nil {
			res = append(res, *silence)
		}
	}
	return res
}

func shapeSilence(ctx *render.Context, s span, measure int) (*model.Silence, []span) {
	tl := ctx.Timeline
	beat := ctx.BeatLength()
	rel := ctx.RelativeLength(s.length)
	inMeasure := s.tick - tl.FirstTickInMeasure(measure)
	remaining := beat - inMeasure%beat
	onBeat := remaining == beat
	// half rests only sit on a half-measure boundary in x/4
	halfAligned := tl.TimeSigDenominator(measure) != 4 || inMeasure%(beat*2) < beat/10

	var match *silenceClass
	best := constants.DurationTolerance
	for i, class := range silenceTable {
		if class.onBeat && !onBeat {
			continue
		}
		if class.typ == 2 && !class.dotted && !class.triplet && !halfAligned {
			continue
		}
		if d := util.Abs(rel - class.rel); d < best {
			match, best = &silenceTable[i], d
		}
	}
	if match != nil {
		return &model.Silence{
			Tick:    s.tick,
			Length:  s.length,
			Type:    match.typ,
			Dotted:  match.dotted,
			Triplet: match.triplet,
			Measure: measure,
		}, nil
	}

	if rel < constants.ShortestSilence {
		return nil, nil
	}

	first := 0
	if !onBeat && remaining < s.length {
		first = remaining
	} else {
		closest := 1.0
		for closest >= rel {
			closest /= 2
		}
		first = int(closest * float64(beat*4))
	}
	if first <= 0 || first >= s.length {
		return nil, nil
	}
	return nil, []span{
		{tick: s.tick, length: first},
		{tick: s.tick + first, length: s.length - first},
	}
}
