package analysis

import (
	"testing"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/stretchr/testify/assert"
)

func TestChordCollapsesToOneStem(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx,
		rawNote(0, 96, 30),
		rawNote(0, 96, 34),
		rawNote(0, 96, 38),
	)

	assert := assert.New(t)
	assert.Len(notes, 1)
	n := notes[0]
	assert.True(n.Chord)
	assert.True(n.DrawStem)
	assert.Equal(30, n.MinChordLevel)
	assert.Equal(38, n.MaxChordLevel)
	// mid level 34 is below pivot+2
	assert.Equal(model.StemDown, n.Stem)
	assert.Equal(38, n.Level)
	assert.InDelta(38+constants.StemHeight, n.StemTo(), 1e-9)
}

func TestLowChordGetsStemUp(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx,
		rawNote(0, 48, 40),
		rawNote(0, 96, 44),
	)

	assert := assert.New(t)
	assert.Len(notes, 1)
	n := notes[0]
	assert.Equal(model.StemUp, n.Stem)
	assert.Equal(40, n.Level)
	assert.Equal(48, n.TickLength)
	assert.Equal(1, n.FlagAmount)
	assert.InDelta(40-constants.StemHeight, n.StemTo(), 1e-9)
}

func TestChordMembersMustShareStart(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx,
		rawNote(0, 96, 30),
		rawNote(96, 192, 34),
	)

	assert := assert.New(t)
	assert.Len(notes, 2)
	assert.False(notes[0].Chord)
	assert.False(notes[1].Chord)
}

func TestWholeNotesStayOutOfChords(t *testing.T) {
	ctx := newTestContext(t)
	notes := analyse(ctx,
		rawNote(0, 384, 30),
		rawNote(0, 96, 36),
		rawNote(0, 96, 40),
	)

	assert := assert.New(t)
	assert.Len(notes, 2)
	assert.Equal(model.StemNone, notes[0].Stem)
	assert.False(notes[0].Chord)
	assert.True(notes[1].Chord)
}

func TestChordTakesTieOfOtherExtreme(t *testing.T) {
	ctx := newTestContext(t)
	notes := []model.RenderNote{
		{Tick: 96, TickLength: 96, Level: 30, Stem: model.StemDown, DrawStem: true, TiedWithTick: -1},
		{Tick: 96, TickLength: 96, Level: 36, Stem: model.StemUp, DrawStem: true, TiedWithTick: 0},
	}
	merged := MergeChords(ctx, notes)

	assert := assert.New(t)
	assert.Len(merged, 1)
	// mid level 33 puts the stem down, the summary is the lowest head
	assert.Equal(36, merged[0].Level)
	assert.Equal(-1, merged[0].TiedWithTick)
}
