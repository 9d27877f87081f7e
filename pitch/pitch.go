package pitch

import (
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/model"
)

// diatonic step of each semitone, -1 for black keys
var steps = [12]int{0, -1, 1, -1, 2, 3, -1, 4, -1, 5, -1, 6}

// Converter maps MIDI keys to staff levels. Levels grow downwards; middle C
// sits on MiddleC.
type Converter struct {
	MiddleC     int
	PreferFlats bool
}

func NewConverter(preferFlats bool) Converter {
	return Converter{MiddleC: constants.DefaultMiddleC, PreferFlats: preferFlats}
}

func (c Converter) whiteLevel(key int) int {
	octave := key/12 - 5
	return c.MiddleC - (octave*7 + steps[key%12])
}

// Level returns the staff level of key and the sign drawn next to it.
func (c Converter) Level(key int) (int, model.PitchSign) {
	if key < 0 {
		key = 0
	}
	if key > 127 {
		key = 127
	}
	if steps[key%12] != -1 {
		return c.whiteLevel(key), model.PitchSignNone
	}
	if c.PreferFlats {
		return c.whiteLevel(key + 1), model.Flat
	}
	return c.whiteLevel(key - 1), model.Sharp
}

// Key is the inverse of Level.
func (c Converter) Key(level int, sign model.PitchSign) int {
	diatonic := c.MiddleC - level
	octave := diatonic / 7
	step := diatonic % 7
	if step < 0 {
		step += 7
		octave--
	}
	var key int
	for semi, s := range steps {
		if s == step {
			key = (octave+5)*12 + semi
			break
		}
	}
	switch sign {
	case model.Sharp:
		key++
	case model.Flat:
		key--
	}
	return key
}

// GClefPivot is the stem pivot for a treble staff.
func (c Converter) GClefPivot() int {
	return c.MiddleC + constants.GClefPivotOffset
}

// FClefPivot is the stem pivot for a bass staff.
func (c Converter) FClefPivot() int {
	return c.MiddleC + constants.FClefPivotOffset
}
