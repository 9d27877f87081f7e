package midi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jsphweid/engrave/score"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultVelocity = 100

var ErrBadRange = errors.New("bad measure range")

type timedMessage struct {
	tick int
	off  bool
	msg  smf.Message
}

func toTrack(events []timedMessage, length int) smf.Track {
	// note offs first so a repeated key is not cut short
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})
	var track smf.Track
	tick := 0
	for _, e := range events {
		track = append(track, smf.Event{Delta: uint32(e.tick - tick), Message: e.msg})
		tick = e.tick
	}
	return append(track, smf.Event{Delta: uint32(max(0, length-tick)), Message: smf.EOT})
}

// Excerpt cuts measures [first, last] out of s as a format 1 SMF. The
// first track carries the time signatures; notes crossing the bounds are
// cut at them.
func Excerpt(s *score.Score, first, last int) (*smf.SMF, error) {
	tl, err := s.Timeline()
	if err != nil {
		return nil, err
	}
	if first < 0 || last < first || last >= tl.MeasureCount() {
		return nil, fmt.Errorf("%w: %d-%d of %d measures", ErrBadRange, first+1, last+1, tl.MeasureCount())
	}
	from, to := tl.FirstTickInMeasure(first), tl.LastTickInMeasure(last)

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(s.TicksPerBeat)

	var conductor []timedMessage
	prevNum, prevDenom := -1, -1
	for m := first; m <= last; m++ {
		num, denom := tl.TimeSigNumerator(m), tl.TimeSigDenominator(m)
		if num == prevNum && denom == prevDenom {
			continue
		}
		conductor = append(conductor, timedMessage{
			tick: tl.FirstTickInMeasure(m) - from,
			msg:  smf.MetaTimeSig(uint8(num), uint8(denom), 24, 8),
		})
		prevNum, prevDenom = num, denom
	}
	if err := res.Add(toTrack(conductor, to-from)); err != nil {
		return nil, fmt.Errorf("could not add conductor track: %w", err)
	}

	for i, track := range s.Tracks {
		ch := uint8(i % 16)
		var events []timedMessage
		for _, n := range track.Notes {
			start, end := max(n.Start, from), min(n.End, to)
			if start >= end {
				continue
			}
			key := uint8(n.Pitch)
			events = append(events,
				timedMessage{tick: start - from, msg: smf.Message(midi.NoteOn(ch, key, defaultVelocity))},
				timedMessage{tick: end - from, off: true, msg: smf.Message(midi.NoteOff(ch, key))},
			)
		}
		if len(events) == 0 {
			continue
		}
		if err := res.Add(toTrack(events, to-from)); err != nil {
			return nil, fmt.Errorf("could not add track %d: %w", i+1, err)
		}
	}
	return res, nil
}

// WriteExcerpt writes measures [first, last] of s to path.
func WriteExcerpt(s *score.Score, first, last int, path string) error {
	res, err := Excerpt(s, first, last)
	if err != nil {
		return err
	}
	if err := res.WriteFile(path); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
