package analysis

import (
	"math"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
)

// MergeChords collapses runs of stemmed notes starting together into one
// summary note per run. notes must be in time order; the merged slice reuses
// its backing array.
func MergeChords(ctx *render.Context, notes []model.RenderNote) []model.RenderNote {
	out := notes[:0]
	for i := 0; i < len(notes); {
		if notes[i].Stem == model.StemNone {
			out = append(out, notes[i])
			i++
			continue
		}

		j := i + 1
		for j < len(notes) && notes[j].Stem != model.StemNone && ctx.AboutEqualTick(notes[j].Tick, notes[i].Tick) {
			j++
		}
		if j-i == 1 {
			out = append(out, notes[i])
			i++
			continue
		}

		summary := summarizeChord(ctx, notes[i:j])
		out = append(out, summary)
		i = j
	}
	return out
}

func summarizeChord(ctx *render.Context, chord []model.RenderNote) model.RenderNote {
	minID, maxID := 0, 0
	shortest := chord[0].TickLength
	flags := 0
	triplet := false
	for k, n := range chord {
		if n.Level < chord[minID].Level {
			minID = k
		}
		if n.Level > chord[maxID].Level {
			maxID = k
		}
		if n.TickLength < shortest {
			shortest = n.TickLength
		}
		if n.FlagAmount > flags {
			flags = n.FlagAmount
		}
		triplet = triplet || n.Triplet
	}

	minLevel := chord[minID].Level
	maxLevel := chord[maxID].Level
	mid := int(math.Round(float64(minLevel+maxLevel) / 2))
	up := mid >= ctx.Options.StemPivot+constants.ChordStemBias

	var summary, other model.RenderNote
	if up {
		summary, other = chord[minID], chord[maxID]
	} else {
		summary, other = chord[maxID], chord[minID]
	}

	summary.Chord = true
	summary.MinChordLevel = minLevel
	summary.MaxChordLevel = maxLevel
	if up {
		summary.Stem = model.StemUp
		summary.SetStemY(float64(chord[minID].StemOriginLevel()) - constants.StemHeight)
	} else {
		summary.Stem = model.StemDown
		summary.SetStemY(float64(chord[maxID].StemOriginLevel()) + constants.StemHeight)
	}
	summary.FlagAmount = flags
	if triplet && !summary.Triplet {
		summary.SetTriplet()
	}
	summary.DrawStem = true
	summary.TickLength = shortest
	summary.TiedWithTick = other.TiedWithTick
	summary.TieUp = other.IsTieUp()
	return summary
}
