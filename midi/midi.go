package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/engrave/score"
	"github.com/jsphweid/engrave/timeline"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNotMetric = errors.New("only metric time formats are supported")

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("error parsing midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file %s: %w", filepath, err)
	}
	return res, nil
}

// Load reads a Standard MIDI File as a score.
func Load(filepath string) (*score.Score, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	return ToScore(s)
}

type sigEvent struct {
	tick       int
	num, denom int
}

// ToScore converts note on/off pairs into score notes, one score track per
// MIDI track that plays anything. Time signature events from every track
// apply to the whole score.
func ToScore(s *smf.SMF) (*score.Score, error) {
	format, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, ErrNotMetric
	}
	tpb := int(format.Resolution())
	res := &score.Score{TicksPerBeat: tpb}

	var sigs []sigEvent
	for i, events := range s.Tracks {
		track := score.Track{Name: fmt.Sprintf("track %d", i+1)}
		// note starts waiting for their end, by channel and key
		pending := make(map[[2]uint8][]int)
		tick := 0
		for _, event := range events {
			tick += int(event.Delta)
			var channel, key, velocity uint8
			var num, denom, clocks, dsq uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				id := [2]uint8{channel, key}
				pending[id] = append(pending[id], tick)
			case event.Message.GetNoteOn(&channel, &key, &velocity),
				event.Message.GetNoteOff(&channel, &key, &velocity):
				id := [2]uint8{channel, key}
				starts := pending[id]
				if len(starts) == 0 {
					continue
				}
				track.Notes = append(track.Notes, score.Note{Start: starts[0], End: tick, Pitch: int(key)})
				pending[id] = starts[1:]
			case event.Message.GetMetaTimeSig(&num, &denom, &clocks, &dsq):
				sigs = append(sigs, sigEvent{tick: tick, num: int(num), denom: int(denom)})
			}
		}
		// close what never ended
		for id, starts := range pending {
			for _, start := range starts {
				track.Notes = append(track.Notes, score.Note{Start: start, End: tick, Pitch: int(id[1])})
			}
		}
		if len(track.Notes) == 0 {
			continue
		}
		sort.SliceStable(track.Notes, func(i, j int) bool {
			if track.Notes[i].Start != track.Notes[j].Start {
				return track.Notes[i].Start < track.Notes[j].Start
			}
			return track.Notes[i].Pitch < track.Notes[j].Pitch
		})
		res.Tracks = append(res.Tracks, track)
	}

	res.TimeSigs = sigsToMeasures(tpb, sigs)
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// sigsToMeasures places tick based time signature changes on measures. A
// change in the middle of a measure takes effect at the next one.
func sigsToMeasures(tpb int, events []sigEvent) []timeline.TimeSig {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	var res []timeline.TimeSig
	measure, measureTick := 0, 0
	length := tpb * 4
	for _, ev := range events {
		if ev.num <= 0 || ev.denom <= 0 {
			continue
		}
		elapsed := ev.tick - measureTick
		measure += (elapsed + length - 1) / length
		measureTick += (elapsed + length - 1) / length * length

		sig := timeline.TimeSig{Measure: measure, Numerator: ev.num, Denominator: ev.denom}
		if len(res) > 0 && res[len(res)-1].Measure == measure {
			res[len(res)-1] = sig
		} else {
			res = append(res, sig)
		}
		length = max(1, tpb*4*ev.num/ev.denom)
	}
	return res
}
