package placement

import (
	"testing"

	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/timeline"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T) *render.Context {
	tl, err := timeline.New(96, 4)
	if err != nil {
		t.Fatal(err)
	}
	return render.NewContext(tl, render.DefaultOptions(), nil)
}

func slotTicks(m *Manager) []int {
	var ticks []int
	for _, s := range m.Slots() {
		ticks = append(ticks, s.Tick)
	}
	return ticks
}

func TestInterestingTickKeepsSlotsSorted(t *testing.T) {
	m := New(newTestContext(t), 20)

	assert := assert.New(t)
	assert.Empty(m.Slots())

	assert.Equal(0, m.InterestingTick(15))
	assert.Equal(0, m.InterestingTick(15))
	assert.Len(m.Slots(), 1)

	assert.Equal(1, m.InterestingTick(17))
	assert.Equal(0, m.InterestingTick(15))
	assert.Equal(1, m.InterestingTick(17))
	assert.Len(m.Slots(), 2)

	assert.Equal(0, m.InterestingTick(13))
	assert.Equal(1, m.InterestingTick(14))
	assert.Equal([]int{13, 14, 15, 17}, slotTicks(m))

	assert.Equal(3, m.InterestingTick(16))
	assert.Equal([]int{13, 14, 15, 16, 17}, slotTicks(m))
}

func TestNextTickInTrack(t *testing.T) {
	const measureEnd = 11
	m := New(newTestContext(t), measureEnd)
	m.AddSymbol(1, 3, 1, 0)
	m.AddSymbol(1, 5, 1, 1)
	m.AddSymbol(3, 5, 1, 0)
	m.AddSymbol(3, 5, 1, 0)
	m.AddSymbol(5, 7, 1, 0)
	m.AddSymbol(5, 9, 1, 1)
	m.AddSymbol(7, 9, 1, 0)
	m.InterestingTick(9)

	assert := assert.New(t)
	assert.Equal(3, m.NextTickInTrack(1, 0))
	assert.Equal(5, m.NextTickInTrack(3, 0))
	assert.Equal(7, m.NextTickInTrack(5, 0))
	assert.Equal(measureEnd, m.NextTickInTrack(7, 0))
	assert.Equal(5, m.NextTickInTrack(1, 1))
	assert.Equal(measureEnd, m.NextTickInTrack(5, 1))

	assert.Equal(3, m.NextTick(1))
	assert.Equal(9, m.NextTick(7))
	assert.Equal(measureEnd, m.NextTick(9))
	assert.Equal(2, m.ShortestSymbolLength())
}

func TestPlacementIsNormalized(t *testing.T) {
	m := New(newTestContext(t), 384)
	for tick := 0; tick < 384; tick += 48 {
		m.AddSymbol(tick, tick+48, 116, 0)
	}
	m.AddSymbol(0, 192, 196, 1)
	m.AddSymbol(192, 384, 120, 1)
	m.CalculateRelativePlacement()

	assert := assert.New(t)
	slots := m.Slots()
	assert.Len(slots, 8)
	prev := 0.0
	for _, s := range slots {
		assert.GreaterOrEqual(s.Position, prev)
		assert.GreaterOrEqual(s.EndPosition, s.Position)
		assert.LessOrEqual(s.EndPosition, 1.0)
		prev = s.EndPosition
	}
	assert.Equal(0.0, slots[0].Position)
	assert.Less(slots[len(slots)-1].EndPosition, 1.0)

	// the halves reach past the next slot, so the eighths set the pace
	assert.Equal(196, slots[0].Size)
	assert.Equal(120, slots[4].Size)
	assert.Equal(196+116*3+120+116*3+60, m.Width())
}

func TestLongerSymbolsGetExtraRoom(t *testing.T) {
	m := New(newTestContext(t), 384)
	m.AddSymbol(0, 96, 100, 0)
	m.AddSymbol(96, 192, 100, 0)
	m.AddSymbol(192, 384, 100, 0)
	m.CalculateRelativePlacement()

	assert := assert.New(t)
	slots := m.Slots()
	assert.Equal(100, slots[0].Size)
	assert.Equal(100, slots[1].Size)
	// log2(2) * 0.6
	assert.Equal(160, slots[2].Size)
	assert.Equal(420, m.Width())

	area, ok := m.SymbolRelativeArea(96)
	assert.True(ok)
	assert.InDelta(100.0/420.0, area.From, 1e-9)
	assert.InDelta(200.0/420.0, area.To, 1e-9)

	_, ok = m.SymbolRelativeArea(50)
	assert.False(ok)
	assert.Len(m.Slots(), 3)
}

func TestEmptyMeasureIsNoop(t *testing.T) {
	m := New(newTestContext(t), 384)
	m.CalculateRelativePlacement()

	assert := assert.New(t)
	assert.Equal(0, m.Width())
	assert.Equal(-1, m.ShortestSymbolLength())
}

func TestSymbolWidths(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(116, NoteWidth(&model.RenderNote{}))
	assert.Equal(196, NoteWidth(&model.RenderNote{Sign: model.Sharp}))
	assert.Equal(120, SilenceWidth(&model.Silence{Type: 1}))
	assert.Equal(160, SilenceWidth(&model.Silence{Type: 2, Dotted: true}))
	assert.Equal(90, SilenceWidth(&model.Silence{Type: 8}))
}

func TestAddSilenceSymbolsFiltersByMeasure(t *testing.T) {
	m := New(newTestContext(t), 384)
	m.AddSilenceSymbols([]model.Silence{
		{Tick: 0, Length: 96, Type: 4},
		{Tick: 384, Length: 384, Type: 1},
	}, 0, 0, 384)

	assert := assert.New(t)
	assert.Equal([]int{0}, slotTicks(m))
}
