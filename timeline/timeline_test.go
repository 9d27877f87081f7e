package timeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonTime(t *testing.T) {
	tl, err := New(96, 4)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(0, tl.FirstTickInMeasure(0))
	assert.Equal(384, tl.LastTickInMeasure(0))
	assert.Equal(384, tl.FirstTickInMeasure(1))
	assert.Equal(0, tl.MeasureAtTick(383))
	assert.Equal(1, tl.MeasureAtTick(384))
	assert.Equal(4, tl.TimeSigNumerator(2))
	assert.Equal(96, tl.BeatLengthInTicks())
	assert.Equal(1536, tl.TotalTicks())
}

func TestTimeSigChanges(t *testing.T) {
	tl, err := New(96, 4, TimeSig{Measure: 2, Numerator: 6, Denominator: 8}, TimeSig{Measure: 0, Numerator: 3, Denominator: 4})

	assert := assert.New(t)
	assert.Nil(err)
	// 3/4, 3/4, 6/8, 6/8
	assert.Equal(288, tl.FirstTickInMeasure(1))
	assert.Equal(576, tl.FirstTickInMeasure(2))
	assert.Equal(864, tl.FirstTickInMeasure(3))
	assert.Equal(1, tl.MeasureAtTick(575))
	assert.Equal(2, tl.MeasureAtTick(576))
	assert.Equal(6, tl.TimeSigNumerator(3))
	assert.Equal(8, tl.TimeSigDenominator(3))
	assert.Equal(3, tl.TimeSigNumerator(1))
}

func TestExtrapolatesPastEnd(t *testing.T) {
	tl, err := New(100, 2)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(5, tl.MeasureAtTick(2000))
	assert.Equal(2000, tl.FirstTickInMeasure(5))
	assert.Equal(2400, tl.LastTickInMeasure(5))
}

func TestForEndTick(t *testing.T) {
	tl, err := ForEndTick(96, 385)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(2, tl.MeasureCount())

	tl, err = ForEndTick(96, 384)
	assert.Nil(err)
	assert.Equal(1, tl.MeasureCount())
}

func TestRejectsBadTimeSig(t *testing.T) {
	_, err := New(96, 1, TimeSig{Measure: 0, Numerator: 4, Denominator: 3})

	assert := assert.New(t)
	assert.True(errors.Is(err, ErrBadTimeSig))
}
