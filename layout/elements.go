package layout

import (
	"fmt"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/placement"
	"go.uber.org/zap"
)

type ElementType int

const (
	SingleMeasure ElementType = iota
	SingleRepeatedMeasure
	EmptyMeasure
	RepeatedRiff
	PlayManyTimes
	TimeSignature
	LineHeader
)

var elementTypeNames = map[ElementType]string{
	SingleMeasure:         "single_measure",
	SingleRepeatedMeasure: "single_repeated_measure",
	EmptyMeasure:          "empty_measure",
	RepeatedRiff:          "repeated_riff",
	PlayManyTimes:         "play_many_times",
	TimeSignature:         "time_signature",
	LineHeader:            "line_header",
}

func (t ElementType) String() string {
	if name, ok := elementTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("element(%d)", int(t))
}

func (t ElementType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ElementType) UnmarshalText(text []byte) error {
	for k, v := range elementTypeNames {
		if v == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown element type %q", text)
}

// Element is one horizontal unit of a line. Measure is -1 for elements
// that do not stand for a measure.
type Element struct {
	Type    ElementType `json:"type"`
	Measure int         `json:"measure"`
	Width   int         `json:"width"`

	Num   int `json:"num,omitempty"`
	Denom int `json:"denom,omitempty"`

	AmountOfTimes int         `json:"amount_of_times,omitempty"`
	Repetition    *Repetition `json:"repetition,omitempty"`

	Slots []placement.Slot `json:"slots,omitempty"`
}

func newElement(t ElementType, measure int) Element {
	return Element{Type: t, Measure: measure}
}

// CreateElements turns measures into layout elements, folding repetitions
// when checkRepetitions is set.
func (l *Layout) CreateElements(checkRepetitions bool) {
	tl := l.ctx.Timeline
	minLength := l.ctx.Options.RepetitionMinimalLength
	count := len(l.Measures)
	prevNum, prevDenom := -1, -1
	l.Elements = l.Elements[:0]

	for measure := 0; measure < count; measure++ {
		num, denom := tl.TimeSigNumerator(measure), tl.TimeSigDenominator(measure)
		if num != prevNum || denom != prevDenom {
			el := newElement(TimeSignature, -1)
			el.Width = constants.TimeSignatureWidth
			el.Num, el.Denom = num, denom
			l.Elements = append(l.Elements, el)
			prevNum, prevDenom = num, denom
		}

		m := &l.Measures[measure]
		switch {
		case m.Empty():
			el := newElement(EmptyMeasure, measure)
			el.Width = constants.EmptyMeasureWidth
			l.Elements = append(l.Elements, el)

		case !checkRepetitions || m.FirstSimilar == -1:
			l.Elements = append(l.Elements, newElement(SingleMeasure, measure))

		case minLength < 2:
			l.Elements = append(l.Elements, newElement(SingleRepeatedMeasure, measure))

		case l.similar(measure+1) == m.FirstSimilar:
			measure = l.playManyTimes(measure, minLength)

		default:
			if rep, ok := l.FindConsecutiveRepetition(measure); ok {
				if rep.Amount()+1 >= minLength {
					el := newElement(RepeatedRiff, measure)
					el.Repetition = &rep
					l.Elements = append(l.Elements, el)
					measure = rep.LastThatRepeats
					continue
				}
				for i := 0; i < minLength && measure+i < count; i++ {
					l.Elements = append(l.Elements, newElement(SingleMeasure, measure+i))
				}
				measure += minLength - 1
				continue
			}
			l.Elements = append(l.Elements, newElement(SingleMeasure, measure))
		}
	}

	l.ctx.Log.Debug("created layout elements", zap.Int("elements", len(l.Elements)))
}

// playManyTimes handles a measure that the following measures repeat
// verbatim. It returns the last measure it consumed.
func (l *Layout) playManyTimes(measure, minLength int) int {
	m := &l.Measures[measure]
	times := 1
	for l.similar(measure+times) == m.FirstSimilar {
		times++
	}

	if times < minLength {
		for i := 0; i < times; i++ {
			l.Elements = append(l.Elements, newElement(SingleMeasure, measure+i))
		}
		return measure + times - 1
	}

	// the measure right before already shows what is repeated
	followsOriginal := m.FirstSimilar == measure-1
	if followsOriginal {
		times++
	} else {
		l.Elements = append(l.Elements, newElement(SingleRepeatedMeasure, measure))
	}

	el := newElement(PlayManyTimes, measure)
	el.AmountOfTimes = times
	l.Elements = append(l.Elements, el)
	m.CutApart = true

	if followsOriginal {
		return measure + times - 2
	}
	return measure + times - 1
}
