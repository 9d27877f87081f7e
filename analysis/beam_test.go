package analysis

import (
	"testing"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/timeline"
	"github.com/stretchr/testify/assert"
)

func eighths(start, count int, levels ...int) []model.RawNote {
	var res []model.RawNote
	for i := 0; i < count; i++ {
		level := 38
		if len(levels) > 0 {
			level = levels[i%len(levels)]
		}
		res = append(res, rawNote(start+i*48, start+(i+1)*48, level))
	}
	return res
}

// beamGroups returns the size of every beam, in order.
func beamGroups(notes []model.RenderNote) []int {
	var res []int
	for i, n := range notes {
		if !n.Beam {
			continue
		}
		size := 0
		for j := i; j < len(notes) && notes[j].Tick <= n.BeamToTick; j++ {
			size++
		}
		res = append(res, size)
	}
	return res
}

func TestFourEighthsFormOneBeam(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, eighths(0, 4)...)

	assert := assert.New(t)
	assert.Len(notes, 4)
	assert.Equal([]int{4}, beamGroups(notes))
	assert.True(notes[0].BeamShowAbove)
	assert.Equal(144, notes[0].BeamToTick)
	assert.Equal(1, notes[0].FlagAmount)
	for _, n := range notes[1:] {
		assert.Equal(0, n.FlagAmount)
		assert.Equal(model.StemUp, n.Stem)
	}
}

func TestFifthEighthForcesSplit(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, eighths(0, 5)...)

	assert := assert.New(t)
	assert.Equal([]int{4}, beamGroups(notes))
	assert.False(notes[4].Beam)
	assert.Equal(1, notes[4].FlagAmount)
}

func TestEightEighthsSplitOnHalfMeasure(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, eighths(0, 8)...)

	assert := assert.New(t)
	assert.Equal([]int{4, 4}, beamGroups(notes))
	assert.True(notes[4].Beam)
	assert.Equal(192, notes[4].Tick)
}

func TestOddRunsAreBeamedInPairs(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, eighths(0, 3)...)

	assert := assert.New(t)
	assert.Equal([]int{2}, beamGroups(notes))
	assert.False(notes[2].Beam)
}

func TestBeamsStopAtMeasureBoundary(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, eighths(288, 4)...)

	assert := assert.New(t)
	assert.Equal([]int{2, 2}, beamGroups(notes))
	assert.Equal(0, notes[0].MeasureBegin)
	assert.Equal(1, notes[2].MeasureBegin)
}

func TestBeamGroupsInThreeFour(t *testing.T) {
	ctx := newTestContext(t, timeline.TimeSig{Measure: 0, Numerator: 3, Denominator: 4})
	notes := analyse(ctx, eighths(0, 6)...)

	assert := assert.New(t)
	assert.Equal([]int{2, 2, 2}, beamGroups(notes))
}

func TestMaxBeamGroup(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(4, MaxBeamGroup(4, 4, 1, false))
	assert.Equal(8, MaxBeamGroup(4, 4, 2, false))
	assert.Equal(2, MaxBeamGroup(3, 4, 1, false))
	assert.Equal(3, MaxBeamGroup(6, 8, 1, false))
	assert.Equal(6, MaxBeamGroup(6, 8, 2, false))
	assert.Equal(3, MaxBeamGroup(4, 4, 1, true))
}

func TestBeamedStemsAreLongEnoughAndOnBeamSide(t *testing.T) {
	ctx := newTestContext(t)
	for _, levels := range [][]int{
		{30, 40, 32, 38},
		{20, 21, 22, 23},
		{45, 30, 45, 30},
		{36, 36, 36, 36},
	} {
		notes := analyse(ctx, eighths(0, 4, levels...)...)

		assert := assert.New(t)
		assert.Equal([]int{4}, beamGroups(notes))
		above := notes[0].BeamShowAbove
		for _, n := range notes {
			diff := n.StemTo() - float64(n.BaseLevel())
			if above {
				assert.LessOrEqual(diff, -constants.MinStemHeight+1e-5)
			} else {
				assert.GreaterOrEqual(diff, constants.MinStemHeight-1e-5)
			}
		}
		assert.InDelta(notes[0].BeamToLevel, notes[3].StemTo(), 1e-9)
	}
}

func TestSteepBeamIsFlattened(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx, eighths(0, 2, 20, 30)...)

	assert := assert.New(t)
	assert.Equal([]int{2}, beamGroups(notes))
	slope := notes[0].BeamToLevel - notes[0].StemTo()
	assert.LessOrEqual(slope, float64(constants.MaxBeamSlope)+1e-9)
}
