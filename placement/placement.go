package placement

import (
	"math"
	"sort"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/render"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// Range is a normalized horizontal span within a measure.
type Range struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

type symbol struct {
	endTick int
	width   int
	track   int
	extra   float64
}

// Slot is the horizontal unit given to one distinct start tick across all
// tracks of a measure.
type Slot struct {
	Tick        int     `json:"tick"`
	Size        int     `json:"size"`
	Position    float64 `json:"position"`
	EndPosition float64 `json:"end_position"`

	symbols []symbol
}

func (s *Slot) hasSymbolInTrack(track int) bool {
	for _, sym := range s.symbols {
		if sym.track == track {
			return true
		}
	}
	return false
}

// Manager computes proportional spacing for a single measure. Slots are
// kept sorted by tick at all times.
type Manager struct {
	ctx          *render.Context
	endOfMeasure int
	slots        []Slot
	width        int
}

func New(ctx *render.Context, endOfMeasureTick int) *Manager {
	return &Manager{ctx: ctx, endOfMeasure: endOfMeasureTick}
}

// InterestingTick returns the index of the slot for tick, creating it if
// needed.
func (m *Manager) InterestingTick(tick int) int {
	return m.interestingTick(tick, 0, len(m.slots)-1)
}

func (m *Manager) interestingTick(tick, from, to int) int {
	if to < from {
		m.slots = slices.Insert(m.slots, from, Slot{Tick: tick})
		return from
	}
	pivot := (from + to) / 2
	switch {
	case tick == m.slots[pivot].Tick:
		return pivot
	case tick < m.slots[pivot].Tick:
		return m.interestingTick(tick, from, pivot-1)
	default:
		return m.interestingTick(tick, pivot+1, to)
	}
}

func (m *Manager) find(tick int) (int, bool) {
	i := sort.Search(len(m.slots), func(i int) bool {
		return m.slots[i].Tick >= tick
	})
	if i < len(m.slots) && m.slots[i].Tick == tick {
		return i, true
	}
	return -1, false
}

// AddSymbol registers a request for width print units starting at from.
func (m *Manager) AddSymbol(from, to, width, track int) {
	if !m.ctx.Assert(from < m.endOfMeasure, "symbol starts after the end of its measure",
		zap.Int("tick", from), zap.Int("end", m.endOfMeasure)) {
		return
	}
	id := m.InterestingTick(from)
	m.slots[id].symbols = append(m.slots[id].symbols, symbol{endTick: to, width: width, track: track})
}

// NoteWidth is the room a note head needs, accidental included.
func NoteWidth(n *model.RenderNote) int {
	width := constants.HeadRadius*2 + constants.NoteHeadMargin
	if n.Sign != model.PitchSignNone {
		width += constants.MaxAccidentalSize
	}
	return width
}

// SilenceWidth is the room a rest of the given type needs.
func SilenceWidth(s *model.Silence) int {
	var width int
	switch s.Type {
	case 1, 2:
		width = constants.RectangularSilenceSize + constants.SilenceLeftMargin
	default:
		width = constants.SilenceSize
	}
	if s.Dotted {
		width += constants.DotWidth
	}
	return width
}

// AddNoteSymbols registers every note of track that starts in [first, last).
func (m *Manager) AddNoteSymbols(notes []model.RenderNote, track, first, last int) {
	for i := range notes {
		n := &notes[i]
		if n.Tick < first || n.Tick >= last {
			continue
		}
		m.AddSymbol(n.Tick, n.EndTick(), NoteWidth(n), track)
	}
}

// AddSilenceSymbols registers every silence of track that starts in [first, last).
func (m *Manager) AddSilenceSymbols(silences []model.Silence, track, first, last int) {
	for i := range silences {
		s := &silences[i]
		if s.Tick < first || s.Tick >= last {
			continue
		}
		m.AddSymbol(s.Tick, s.Tick+s.Length, SilenceWidth(s), track)
	}
}

// NextTick returns the first slot tick after tick, or the end of the measure.
func (m *Manager) NextTick(tick int) int {
	for _, s := range m.slots {
		if s.Tick > tick {
			return s.Tick
		}
	}
	return m.endOfMeasure
}

// NextTickInTrack is NextTick restricted to slots holding a symbol of track.
func (m *Manager) NextTickInTrack(tick, track int) int {
	for i := range m.slots {
		if m.slots[i].Tick > tick && m.slots[i].hasSymbolInTrack(track) {
			return m.slots[i].Tick
		}
	}
	return m.endOfMeasure
}

// ShortestSymbolLength returns -1 when no symbol is registered.
func (m *Manager) ShortestSymbolLength() int {
	shortest := -1
	for _, s := range m.slots {
		for _, sym := range s.symbols {
			length := sym.endTick - s.Tick
			if shortest == -1 || length < shortest {
				shortest = length
			}
		}
	}
	return shortest
}

func (m *Manager) extraProportion(s *Slot, sym *symbol, shortest int) float64 {
	// symbols reaching past the next slot get their room from that slot
	if sym.endTick > m.NextTick(s.Tick) {
		return 0
	}
	length := sym.endTick - s.Tick
	if !m.ctx.Assert(shortest > 0 && length > 0, "symbol length is not positive",
		zap.Int("tick", s.Tick), zap.Int("length", length), zap.Int("shortest", shortest)) {
		return 0
	}
	ratio := float64(length) / float64(shortest)
	if !m.ctx.Assert(ratio >= 1, "symbol is shorter than the shortest symbol", zap.Float64("ratio", ratio)) {
		return 0
	}
	return math.Log2(ratio) * constants.ExtraWidthFactor
}

// CalculateRelativePlacement sizes every slot and normalizes positions to
// [0, 1]. It is a no-op for a measure without slots.
func (m *Manager) CalculateRelativePlacement() {
	if len(m.slots) == 0 {
		return
	}
	shortest := m.ShortestSymbolLength()

	total := 0
	starts := make([]int, len(m.slots))
	for i := range m.slots {
		s := &m.slots[i]
		size := 0
		for j := range s.symbols {
			sym := &s.symbols[j]
			sym.extra = m.extraProportion(s, sym, shortest)
			width := int(math.Round(float64(sym.width) * (1 + sym.extra)))
			size = max(size, width)
		}
		m.ctx.Assert(size > 0, "slot has no width", zap.Int("tick", s.Tick))
		s.Size = size
		starts[i] = total
		total += size
	}
	end := total
	total += constants.SideMarginWidth
	m.width = total

	for i := range m.slots {
		s := &m.slots[i]
		s.Position = float64(starts[i]) / float64(total)
		if i+1 < len(m.slots) {
			s.EndPosition = float64(starts[i+1]) / float64(total)
		} else {
			s.EndPosition = float64(end) / float64(total)
		}
	}

	m.ctx.Log.Debug("placed measure",
		zap.Int("slots", len(m.slots)),
		zap.Int("shortest", shortest),
		zap.Int("width", m.width))
}

// SymbolRelativeArea looks up the normalized span of the slot at tick.
func (m *Manager) SymbolRelativeArea(tick int) (Range, bool) {
	id, ok := m.find(tick)
	if !ok {
		return Range{}, false
	}
	return Range{From: m.slots[id].Position, To: m.slots[id].EndPosition}, true
}

// Width is the print width the measure asks for, trailing margin included.
// It is 0 before CalculateRelativePlacement.
func (m *Manager) Width() int {
	return m.width
}

func (m *Manager) Slots() []Slot {
	return m.slots
}
