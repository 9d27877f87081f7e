package engine

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jsphweid/engrave/analysis"
	"github.com/jsphweid/engrave/layout"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/placement"
	"github.com/jsphweid/engrave/render"
	"go.uber.org/zap"
)

var (
	ErrNoTracks   = errors.New("score has no tracks")
	ErrNoMeasures = errors.New("timeline has no measures")
)

type TrackResult struct {
	Notes    []model.RenderNote `json:"notes"`
	Silences []model.Silence    `json:"silences"`
}

// Result is everything a renderer needs to draw a score.
type Result struct {
	ID       uuid.UUID        `json:"id"`
	Tracks   []TrackResult    `json:"tracks"`
	Measures []layout.Measure `json:"measures"`
	Elements []layout.Element `json:"elements"`
	Lines    []layout.Line    `json:"lines"`
}

type trackSymbols struct {
	analyser *analysis.Analyser
	silences []model.Silence
}

func (s *trackSymbols) AddUsedTicks(m *layout.Measure, track int, pm *placement.Manager) {
	pm.AddNoteSymbols(s.analyser.Subset(m.FirstTick, m.LastTick), track, m.FirstTick, m.LastTick)
	pm.AddSilenceSymbols(s.silences, track, m.FirstTick, m.LastTick)
}

// Render runs one full layout pass over tracks.
func Render(ctx *render.Context, tracks []render.Track) (*Result, error) {
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	measureCount := ctx.Timeline.MeasureCount()
	if measureCount == 0 {
		return nil, ErrNoMeasures
	}

	res := &Result{ID: ctx.ID}
	sources := make([]layout.SymbolSource, 0, len(tracks))
	for _, track := range tracks {
		a := analysis.NewAnalyser(ctx)
		a.AddTrack(track)
		a.Analyse()
		silences := analysis.FindSilences(ctx, a.Notes(), 0, measureCount-1)

		sources = append(sources, &trackSymbols{analyser: a, silences: silences})
		res.Tracks = append(res.Tracks, TrackResult{Notes: a.Notes(), Silences: silences})
	}

	l := layout.New(ctx, tracks)
	l.Run(sources)
	res.Measures = l.Measures
	res.Elements = l.Elements
	res.Lines = l.Lines

	ctx.Log.Info("rendered score",
		zap.Int("tracks", len(tracks)),
		zap.Int("measures", measureCount),
		zap.Int("elements", len(res.Elements)),
		zap.Int("lines", len(res.Lines)))
	return res, nil
}
