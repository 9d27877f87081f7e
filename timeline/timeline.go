package timeline

import (
	"errors"
	"fmt"
	"sort"
)

var ErrBadTimeSig = errors.New("invalid time signature")

// TimeSig takes effect at the first tick of Measure.
type TimeSig struct {
	Measure     int `json:"measure" yaml:"measure"`
	Numerator   int `json:"num" yaml:"num"`
	Denominator int `json:"denom" yaml:"denom"`
}

// Timeline is a fixed tempo map of measures. Ticks past the last measure
// extrapolate with the last time signature.
type Timeline struct {
	ticksPerBeat int
	measureCount int
	sigs         []TimeSig
	// first tick of every measure, one past measureCount
	starts []int
}

func New(ticksPerBeat int, measureCount int, sigs ...TimeSig) (*Timeline, error) {
	if ticksPerBeat <= 0 {
		return nil, fmt.Errorf("ticks per beat must be positive, got %d", ticksPerBeat)
	}
	if measureCount < 0 {
		measureCount = 0
	}

	sorted := append([]TimeSig(nil), sigs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Measure < sorted[j].Measure
	})
	if len(sorted) == 0 || sorted[0].Measure > 0 {
		sorted = append([]TimeSig{{Measure: 0, Numerator: 4, Denominator: 4}}, sorted...)
	}
	for _, sig := range sorted {
		if sig.Numerator <= 0 || !isPowerOfTwo(sig.Denominator) {
			return nil, fmt.Errorf("%w: %d/%d at measure %d", ErrBadTimeSig, sig.Numerator, sig.Denominator, sig.Measure)
		}
	}

	t := &Timeline{ticksPerBeat: ticksPerBeat, measureCount: measureCount, sigs: sorted}
	last := sorted[len(sorted)-1].Measure
	if measureCount > last {
		last = measureCount
	}
	t.starts = make([]int, last+1)
	for id := 1; id <= last; id++ {
		t.starts[id] = t.starts[id-1] + t.measureLength(id-1)
	}
	return t, nil
}

// ForEndTick builds a timeline just long enough to hold endTick.
func ForEndTick(ticksPerBeat int, endTick int, sigs ...TimeSig) (*Timeline, error) {
	t, err := New(ticksPerBeat, 1, sigs...)
	if err != nil {
		return nil, err
	}
	count := 1
	if endTick > 0 {
		count = t.MeasureAtTick(endTick-1) + 1
	}
	return New(ticksPerBeat, count, sigs...)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (t *Timeline) sigAt(id int) TimeSig {
	i := sort.Search(len(t.sigs), func(i int) bool {
		return t.sigs[i].Measure > id
	})
	if i == 0 {
		return t.sigs[0]
	}
	return t.sigs[i-1]
}

func (t *Timeline) measureLength(id int) int {
	sig := t.sigAt(id)
	return t.ticksPerBeat * sig.Numerator * 4 / sig.Denominator
}

func (t *Timeline) MeasureAtTick(tick int) int {
	if tick <= 0 {
		return 0
	}
	last := len(t.starts) - 1
	if tick >= t.starts[last] {
		return last + (tick-t.starts[last])/t.measureLength(last)
	}
	i := sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > tick
	})
	return i - 1
}

func (t *Timeline) FirstTickInMeasure(id int) int {
	if id <= 0 {
		return 0
	}
	last := len(t.starts) - 1
	if id <= last {
		return t.starts[id]
	}
	return t.starts[last] + (id-last)*t.measureLength(last)
}

func (t *Timeline) LastTickInMeasure(id int) int {
	return t.FirstTickInMeasure(id + 1)
}

func (t *Timeline) BeatLengthInTicks() int {
	return t.ticksPerBeat
}

func (t *Timeline) TimeSigNumerator(id int) int {
	return t.sigAt(id).Numerator
}

func (t *Timeline) TimeSigDenominator(id int) int {
	return t.sigAt(id).Denominator
}

func (t *Timeline) MeasureCount() int {
	return t.measureCount
}

func (t *Timeline) TimeSigs() []TimeSig {
	return append([]TimeSig(nil), t.sigs...)
}

// TotalTicks is the first tick after the last measure.
func (t *Timeline) TotalTicks() int {
	return t.FirstTickInMeasure(t.measureCount)
}
