package analysis

import (
	"testing"

	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/timeline"
	"github.com/stretchr/testify/assert"
)

func TestSilencesFillMeasures(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, rawNote(0, 96, 40))

	silences := FindSilences(ctx, notes, 0, 1)

	assert := assert.New(t)
	assert.Equal([]model.Silence{
		{Tick: 96, Length: 288, Type: 2, Dotted: true, Measure: 0},
		{Tick: 384, Length: 384, Type: 1, Measure: 1},
	}, silences)
}

func TestHalfRestOffTheHalfBecomesQuarters(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, rawNote(0, 96, 40), rawNote(288, 384, 40))

	silences := FindSilences(ctx, notes, 0, 0)

	assert := assert.New(t)
	assert.Equal([]model.Silence{
		{Tick: 96, Length: 96, Type: 4, Measure: 0},
		{Tick: 192, Length: 96, Type: 4, Measure: 0},
	}, silences)
}

func TestNoteSoundingIntoMeasureLeavesNoSilence(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, rawNote(192, 576, 40), rawNote(576, 768, 40))

	assert := assert.New(t)
	assert.Empty(FindSilences(ctx, notes, 1, 1))
}

func TestSilenceSplitsAtMeasureBoundary(t *testing.T) {
	ctx := newTestContext(t, timeline.TimeSig{Measure: 0, Numerator: 3, Denominator: 4})
	notes := analyse(ctx, rawNote(0, 96, 40), rawNote(480, 576, 40))

	silences := FindSilences(ctx, notes, 0, 1)

	assert := assert.New(t)
	assert.Equal([]model.Silence{
		{Tick: 96, Length: 96, Type: 4, Measure: 0},
		{Tick: 192, Length: 96, Type: 4, Measure: 0},
		{Tick: 288, Length: 192, Type: 2, Measure: 1},
	}, silences)
}

func TestEmptyRangeIsAllRests(t *testing.T) {
	ctx := newTestContext(t)

	silences := FindSilences(ctx, nil, 2, 3)

	assert := assert.New(t)
	assert.Len(silences, 2)
	for _, s := range silences {
		assert.Equal(1, s.Type)
	}
}
