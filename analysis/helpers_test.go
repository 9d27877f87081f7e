package analysis

import (
	"testing"

	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/timeline"
)

// 96 ticks per beat, 4/4 unless sigs say otherwise, pivot at level 34
func newTestContext(t *testing.T, sigs ...timeline.TimeSig) *render.Context {
	tl, err := timeline.New(96, 8, sigs...)
	if err != nil {
		t.Fatal(err)
	}
	return render.NewContext(tl, render.DefaultOptions(), nil)
}

func rawNote(start, end, level int) model.RawNote {
	return model.RawNote{StartTick: start, EndTick: end, Level: level, PitchID: 60}
}

func classifyAll(ctx *render.Context, raw model.RawNote) []model.RenderNote {
	var res []model.RenderNote
	for n := range Classify(ctx, raw) {
		res = append(res, n)
	}
	return res
}

func analyse(ctx *render.Context, raws ...model.RawNote) []model.RenderNote {
	a := NewAnalyser(ctx)
	for _, raw := range raws {
		a.Add(raw)
	}
	a.Analyse()
	return a.Notes()
}
