package analysis

import (
	"math"

	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
)

func levelBounds(notes []model.RenderNote) (int, int) {
	minLevel, maxLevel := notes[0].Level, notes[0].Level
	for _, n := range notes {
		lo, hi := n.Level, n.Level
		if n.Chord {
			lo, hi = n.MinChordLevel, n.MaxChordLevel
		}
		if lo < minLevel {
			minLevel = lo
		}
		if hi > maxLevel {
			maxLevel = hi
		}
	}
	return minLevel, maxLevel
}

func midLevel(minLevel, maxLevel int) int {
	return int(math.Round(float64(minLevel+maxLevel) / 2))
}

// adjacent reports whether next starts where cur ends, in the same measure.
func adjacent(ctx *render.Context, cur, next *model.RenderNote) bool {
	return ctx.AboutEqualTick(next.Tick, cur.EndTick()) && next.MeasureBegin == cur.MeasureBegin
}

// GroupTriplets marks the first note of every run of up to three adjacent
// triplet notes as the carrier of the run's triplet arc.
func GroupTriplets(ctx *render.Context, notes []model.RenderNote) {
	for i := 0; i < len(notes); {
		if !notes[i].Triplet {
			i++
			continue
		}
		j := i
		for j+1 < len(notes) && j-i < 2 && notes[j+1].Triplet && adjacent(ctx, &notes[j], &notes[j+1]) {
			j++
		}
		closeTriplet(ctx, notes[i:j+1])
		i = j + 1
	}
}

func closeTriplet(ctx *render.Context, run []model.RenderNote) {
	first := &run[0]
	minLevel, maxLevel := levelBounds(run)

	if len(run) > 1 {
		first.TripletShowAbove = midLevel(minLevel, maxLevel) < ctx.Options.StemPivot
		// stems point away from the arc
		stem := model.StemUp
		if first.TripletShowAbove {
			stem = model.StemDown
		}
		for k := range run {
			run[k].Stem = stem
			run[k].DrawTripletSign = false
		}
	} else {
		first.TripletShowAbove = first.Stem == model.StemDown
	}

	if first.TripletShowAbove {
		first.TripletArcLevel = minLevel
	} else {
		first.TripletArcLevel = maxLevel
	}
	first.DrawTripletSign = true
	first.TripletArcTickStart = first.Tick
	first.TripletArcTickEnd = run[len(run)-1].Tick
}
