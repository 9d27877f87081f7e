package layout

import (
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/placement"
	"go.uber.org/zap"
)

// SymbolSource registers the symbols one track draws in a measure.
type SymbolSource interface {
	AddUsedTicks(m *Measure, track int, pm *placement.Manager)
}

type Line struct {
	Elements []Element `json:"elements"`
	Width    int       `json:"width"`
}

// CalculateRelativeLengths sizes every element. Measure elements get their
// width and slots from a placement pass over sources, one per track.
func (l *Layout) CalculateRelativeLengths(sources []SymbolSource) {
	for i := range l.Elements {
		el := &l.Elements[i]
		switch el.Type {
		case SingleMeasure, EmptyMeasure:
			m := &l.Measures[el.Measure]
			pm := placement.New(l.ctx, m.LastTick)
			for track, src := range sources {
				src.AddUsedTicks(m, track, pm)
			}
			pm.CalculateRelativePlacement()
			el.Width = max(pm.Width(), constants.MinMeasureWidth)
			el.Slots = pm.Slots()
		case SingleRepeatedMeasure, RepeatedRiff, PlayManyTimes:
			el.Width = constants.RepeatedMeasureWidth
		}
	}
}

// LayInLines breaks the elements into lines no wider than maxWidth. The
// first line opens with a header.
func (l *Layout) LayInLines(maxWidth int) {
	header := newElement(LineHeader, -1)
	header.Width = constants.LineHeaderWidth

	line := Line{Elements: []Element{header}, Width: header.Width}
	l.Lines = l.Lines[:0]
	for _, el := range l.Elements {
		if line.Width+el.Width+constants.MeasureMargin > maxWidth && len(line.Elements) > 0 {
			l.Lines = append(l.Lines, line)
			line = Line{}
		}
		line.Elements = append(line.Elements, el)
		line.Width += el.Width + constants.MeasureMargin
	}
	l.Lines = append(l.Lines, line)

	l.ctx.Log.Debug("laid out lines", zap.Int("lines", len(l.Lines)), zap.Int("max_width", maxWidth))
}
