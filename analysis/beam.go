package analysis

import (
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/util"
	"go.uber.org/zap"
)

const stemEpsilon = 1e-6

type beamRange struct {
	first int
	last  int
}

// GroupBeams joins runs of adjacent notes with the same flag count into
// beams. All beam data is stored on the first note of each beam; the other
// members lose their flags.
func GroupBeams(ctx *render.Context, notes []model.RenderNote) {
	for i := 0; i < len(notes); {
		flags := notes[i].FlagAmount
		j := i
		for flags > 0 && j+1 < len(notes) &&
			notes[j+1].FlagAmount == flags &&
			notes[j+1].Triplet == notes[j].Triplet &&
			adjacent(ctx, &notes[j], &notes[j+1]) {
			j++
		}
		if j > i {
			beamRun(ctx, notes, beamRange{first: i, last: j})
		}
		i = j + 1
	}
}

// MaxBeamGroup is the largest number of notes with the given flag count
// that can share a beam in the given time signature.
func MaxBeamGroup(num, denom, flags int, triplet bool) int {
	if triplet {
		return 3
	}
	unit := 1
	if flags > 1 {
		unit = 1 << (flags - 1)
	}
	switch {
	case num == 3 && denom == 4:
		return 2 * unit
	case num == 6 && (denom == 4 || denom == 8):
		return 3 * unit
	}
	return num * unit
}

func beamRun(ctx *render.Context, notes []model.RenderNote, run beamRange) {
	stack := []beamRange{run}
	limit := constants.MaxBeamIterations
	for steps := 0; len(stack) > 0; steps++ {
		if !ctx.Assert(steps < limit, "beam splitting did not terminate", zap.Int("first", run.first)) {
			return
		}
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if r.last <= r.first {
			continue
		}

		left, right, split := splitBeam(ctx, notes, r)
		if split {
			stack = append(stack, right, left)
			continue
		}
		applyBeam(ctx, notes, r)
	}
}

// splitBeam decides whether r holds too many notes for one beam and where to
// cut it.
func splitBeam(ctx *render.Context, notes []model.RenderNote, r beamRange) (beamRange, beamRange, bool) {
	tl := ctx.Timeline
	first := &notes[r.first]
	measure := first.MeasureBegin
	maxGroup := MaxBeamGroup(tl.TimeSigNumerator(measure), tl.TimeSigDenominator(measure), first.FlagAmount, first.Triplet)

	count := r.last - r.first + 1
	baseUnit := 1
	if maxGroup%2 == 0 {
		baseUnit = 2
	}
	if count <= maxGroup && count%baseUnit != 0 {
		maxGroup = baseUnit
	}
	if count <= maxGroup {
		return beamRange{}, beamRange{}, false
	}

	groupLength := first.TickLength * maxGroup
	measureStart := tl.FirstTickInMeasure(measure)
	at := r.first + maxGroup
	if groupLength > 0 {
		for n := r.first + 1; n <= r.last; n++ {
			if (notes[n].Tick-measureStart)%groupLength == 0 {
				at = n
				break
			}
		}
	}
	return beamRange{first: r.first, last: at - 1}, beamRange{first: at, last: r.last}, true
}

func applyBeam(ctx *render.Context, notes []model.RenderNote, r beamRange) {
	first := &notes[r.first]
	last := &notes[r.last]
	minLevel, maxLevel := levelBounds(notes[r.first : r.last+1])
	above := midLevel(minLevel, maxLevel) >= ctx.Options.StemPivot

	first.Beam = true
	first.BeamShowAbove = above
	for k := r.first; k <= r.last; k++ {
		if above {
			notes[k].Stem = model.StemUp
		} else {
			notes[k].Stem = model.StemDown
		}
		notes[k].ResetStemY()
	}

	first.BeamToTick = last.Tick
	first.BeamToLevel = last.StemTo()
	first.SetStemY(first.StemTo())

	slope := first.BeamToLevel - first.StemY
	if util.Abs(slope) > constants.MaxBeamSlope {
		shift := util.Abs(slope) - constants.MaxBeamSlope
		endLower := slope > 0
		switch {
		case above && endLower:
			first.BeamToLevel -= shift
		case above:
			first.StemY -= shift
		case endLower:
			first.StemY += shift
		default:
			first.BeamToLevel += shift
		}
	}

	for steps := 0; ; steps++ {
		if !ctx.Assert(steps < constants.MaxBeamIterations, "beam stem repair did not terminate", zap.Int("tick", first.Tick)) {
			return
		}
		if !repairStems(notes, r) {
			return
		}
	}
}

// repairStems lines every stem up with the beam. When a stem is too short or
// on the wrong side of the beam, the beam is moved and true is returned so
// the pass can start over.
func repairStems(notes []model.RenderNote, r beamRange) bool {
	first := &notes[r.first]
	fromTick := first.Tick
	fromLevel := first.StemTo()
	toTick := first.BeamToTick
	toLevel := first.BeamToLevel

	for k := r.first; k <= r.last; k++ {
		n := &notes[k]
		if k != r.first {
			pos := float64(n.Tick-fromTick) / float64(toTick-fromTick)
			n.SetStemY(fromLevel + (toLevel-fromLevel)*pos)
		}

		base := float64(n.BaseLevel())
		diff := n.StemY - base
		height := util.Abs(diff)
		tooShort := height < constants.MinStemHeight-stemEpsilon
		wrongSide := (first.BeamShowAbove && diff > 0) || (!first.BeamShowAbove && diff < 0)

		if tooShort || wrongSide {
			var shift float64
			if wrongSide {
				shift = constants.MinStemHeight + util.Abs(diff)
			} else {
				shift = constants.MinStemHeight - height
			}
			if first.BeamShowAbove {
				first.BeamToLevel -= shift
				first.StemY -= shift
			} else {
				first.BeamToLevel += shift
				first.StemY += shift
			}
			return true
		}

		if k != r.first {
			n.FlagAmount = 0
		}
	}
	return false
}
