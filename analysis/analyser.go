package analysis

import (
	"sort"

	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"go.uber.org/zap"
)

// Analyser collects the render notes of one track and runs the symbol
// passes over them.
type Analyser struct {
	ctx   *render.Context
	notes []model.RenderNote
}

func NewAnalyser(ctx *render.Context) *Analyser {
	return &Analyser{ctx: ctx}
}

// Add classifies raw and appends the resulting symbols.
func (a *Analyser) Add(raw model.RawNote) {
	for n := range Classify(a.ctx, raw) {
		a.notes = append(a.notes, n)
	}
}

func (a *Analyser) AddTrack(track render.Track) {
	for i := 0; i < track.NoteCount(); i++ {
		a.Add(track.Note(i))
	}
}

// Analyse puts the notes in time order, then merges chords, groups triplets
// and beams.
func (a *Analyser) Analyse() {
	PutInTimeOrder(a.notes)
	before := len(a.notes)
	a.notes = MergeChords(a.ctx, a.notes)
	GroupTriplets(a.ctx, a.notes)
	GroupBeams(a.ctx, a.notes)
	a.ctx.Log.Debug("analysed track",
		zap.Int("symbols", before),
		zap.Int("after_chords", len(a.notes)))
}

func (a *Analyser) Notes() []model.RenderNote {
	return a.notes
}

// Subset returns the notes starting in [fromTick, toTick).
func (a *Analyser) Subset(fromTick, toTick int) []model.RenderNote {
	lo := sort.Search(len(a.notes), func(i int) bool {
		return a.notes[i].Tick >= fromTick
	})
	hi := sort.Search(len(a.notes), func(i int) bool {
		return a.notes[i].Tick >= toTick
	})
	if hi < lo {
		hi = lo
	}
	return a.notes[lo:hi]
}

// PutInTimeOrder sorts notes by tick. At equal ticks, notes without a stem
// come first.
func PutInTimeOrder(notes []model.RenderNote) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Tick != notes[j].Tick {
			return notes[i].Tick < notes[j].Tick
		}
		return notes[i].Stem == model.StemNone && notes[j].Stem != model.StemNone
	})
}
