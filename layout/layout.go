package layout

import (
	"github.com/jsphweid/engrave/render"
	"go.uber.org/zap"
)

// Layout owns the measures of one pass and everything derived from them.
type Layout struct {
	ctx    *render.Context
	tracks []render.Track

	Measures []Measure
	Elements []Element
	Lines    []Line
}

// New segments every track into the measures of the context's timeline.
func New(ctx *render.Context, tracks []render.Track) *Layout {
	l := &Layout{ctx: ctx, tracks: tracks}
	count := ctx.Timeline.MeasureCount()
	l.Measures = make([]Measure, count)
	for id := range l.Measures {
		l.Measures[id] = NewMeasure(ctx, id, tracks)
	}
	for t := range tracks {
		note := 0
		for id := range l.Measures {
			note = l.Measures[id].AddTrackReference(note, t)
		}
	}
	ctx.Log.Debug("generated measures", zap.Int("measures", count), zap.Int("tracks", len(tracks)))
	return l
}

// Run creates elements, sizes them from sources and breaks them into lines.
func (l *Layout) Run(sources []SymbolSource) {
	opts := l.ctx.Options
	if opts.CheckRepetitions {
		l.FindSimilarMeasures()
	}
	l.CreateElements(opts.CheckRepetitions)
	l.CalculateRelativeLengths(sources)
	l.LayInLines(int(opts.LineWidth))
}
