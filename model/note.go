package model

import "github.com/jsphweid/engrave/constants"

type PitchSign int

const (
	PitchSignNone PitchSign = iota
	Sharp
	Flat
	Natural
)

func (s PitchSign) String() string {
	switch s {
	case Sharp:
		return "sharp"
	case Flat:
		return "flat"
	case Natural:
		return "natural"
	}
	return "none"
}

type Stem int

const (
	StemNone Stem = iota
	StemUp
	StemDown
)

func (s Stem) String() string {
	switch s {
	case StemUp:
		return "up"
	case StemDown:
		return "down"
	}
	return "none"
}

// RawNote is a note as stored in a track. EndTick is exclusive.
type RawNote struct {
	StartTick int       `json:"start_tick"`
	EndTick   int       `json:"end_tick"`
	Level     int       `json:"level"`
	Sign      PitchSign `json:"sign"`
	PitchID   int       `json:"pitch_id"`
	Selected  bool      `json:"selected,omitempty"`
}

func (n RawNote) Duration() int {
	return n.EndTick - n.StartTick
}

// RenderNote is one drawable note symbol, rebuilt every layout pass.
type RenderNote struct {
	Tick         int       `json:"tick"`
	TickLength   int       `json:"tick_length"`
	Level        int       `json:"level"`
	Sign         PitchSign `json:"sign"`
	Selected     bool      `json:"selected,omitempty"`
	PitchID      int       `json:"pitch_id"`
	MeasureBegin int       `json:"measure_begin"`
	MeasureEnd   int       `json:"measure_end"`

	FlagAmount int  `json:"flags"`
	Dotted     bool `json:"dotted,omitempty"`
	Triplet    bool `json:"triplet,omitempty"`
	InstantHit bool `json:"instant_hit,omitempty"`
	HollowHead bool `json:"hollow_head,omitempty"`

	Chord         bool `json:"chord,omitempty"`
	MinChordLevel int  `json:"min_chord_level,omitempty"`
	MaxChordLevel int  `json:"max_chord_level,omitempty"`

	Stem     Stem    `json:"stem"`
	DrawStem bool    `json:"draw_stem"`
	StemY    float64 `json:"stem_y,omitempty"`
	HasStemY bool    `json:"-"`

	Beam          bool    `json:"beam,omitempty"`
	BeamShowAbove bool    `json:"beam_show_above,omitempty"`
	BeamToTick    int     `json:"beam_to_tick,omitempty"`
	BeamToLevel   float64 `json:"beam_to_level,omitempty"`

	DrawTripletSign     bool `json:"draw_triplet_sign,omitempty"`
	TripletShowAbove    bool `json:"triplet_show_above,omitempty"`
	TripletArcTickStart int  `json:"triplet_arc_start,omitempty"`
	TripletArcTickEnd   int  `json:"triplet_arc_end,omitempty"`
	TripletArcLevel     int  `json:"triplet_arc_level,omitempty"`

	// -1 when not tied
	TiedWithTick int  `json:"tied_with_tick"`
	TieUp        bool `json:"tie_up,omitempty"`
}

func (n *RenderNote) EndTick() int {
	return n.Tick + n.TickLength
}

func (n *RenderNote) IsTied() bool {
	return n.TiedWithTick != -1
}

// TieWith ties this note to prev, which must end where this note starts.
func (n *RenderNote) TieWith(prev *RenderNote) {
	n.TiedWithTick = prev.Tick
	if n.Stem == StemNone {
		n.TieUp = prev.Stem == StemDown
	} else {
		n.TieUp = n.Stem == StemDown
	}
}

func (n *RenderNote) IsTieUp() bool {
	if n.Stem == StemNone {
		return n.TieUp
	}
	return n.Stem == StemDown
}

func (n *RenderNote) SetTriplet() {
	n.Triplet = true
	n.DrawTripletSign = true
	n.TripletArcTickStart = n.Tick
	n.TripletArcLevel = n.Level
}

// BaseLevel is the level of the head nearest to the stem end.
func (n *RenderNote) BaseLevel() int {
	if !n.Chord {
		return n.Level
	}
	if n.Stem == StemUp {
		return n.MinChordLevel
	}
	return n.MaxChordLevel
}

// StemOriginLevel is the level of the head the stem is drawn from.
func (n *RenderNote) StemOriginLevel() int {
	if !n.Chord {
		return n.Level
	}
	if n.Stem == StemUp {
		return n.MaxChordLevel
	}
	return n.MinChordLevel
}

// StemTo returns the level the stem ends at.
func (n *RenderNote) StemTo() float64 {
	if n.HasStemY {
		return n.StemY
	}
	origin := float64(n.StemOriginLevel())
	switch n.Stem {
	case StemUp:
		return origin - constants.StemHeight
	case StemDown:
		return origin + constants.StemHeight
	}
	return origin
}

func (n *RenderNote) SetStemY(y float64) {
	n.StemY = y
	n.HasStemY = true
}

func (n *RenderNote) ResetStemY() {
	n.StemY = 0
	n.HasStemY = false
}

// Silence is a rest. Type is the note value denominator (1 = whole).
type Silence struct {
	Tick    int  `json:"tick"`
	Length  int  `json:"length"`
	Type    int  `json:"type"`
	Dotted  bool `json:"dotted,omitempty"`
	Triplet bool `json:"triplet,omitempty"`
	Measure int  `json:"measure"`
}
