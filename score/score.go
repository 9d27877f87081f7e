package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/pitch"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/timeline"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultTicksPerBeat = 96

var ErrBadNote = errors.New("invalid note")

// Note is one note of a score file. Pitch is a MIDI key. Level and Sign
// are derived from the key unless given.
type Note struct {
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
	Pitch    int    `json:"pitch" yaml:"pitch"`
	Level    *int   `json:"level,omitempty" yaml:"level,omitempty"`
	Sign     string `json:"sign,omitempty" yaml:"sign,omitempty"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

type Track struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Notes []Note `json:"notes" yaml:"notes,flow"`
}

type Score struct {
	Title        string             `json:"title,omitempty" yaml:"title,omitempty"`
	TicksPerBeat int                `json:"ticks_per_beat,omitempty" yaml:"ticks_per_beat,omitempty"`
	Measures     int                `json:"measures,omitempty" yaml:"measures,omitempty"`
	PreferFlats  bool               `json:"flats,omitempty" yaml:"flats,omitempty"`
	TimeSigs     []timeline.TimeSig `json:"time_sigs,omitempty" yaml:"time_sigs,omitempty"`
	Tracks       []Track            `json:"tracks" yaml:"tracks"`
}

// RawTrack is a track of raw notes sorted by start tick.
type RawTrack []model.RawNote

func (t RawTrack) NoteCount() int {
	return len(t)
}

func (t RawTrack) Note(i int) model.RawNote {
	return t[i]
}

// Parse reads a score from JSON, falling back to YAML.
func Parse(data []byte) (*Score, error) {
	var s Score
	if errJSON := json.Unmarshal(data, &s); errJSON != nil {
		s = Score{}
		if errYaml := yaml.Unmarshal(data, &s); errYaml != nil {
			return nil, fmt.Errorf("score is neither JSON (%v) nor YAML: %w", errJSON, errYaml)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read score %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse score %s: %w", path, err)
	}
	return s, nil
}

func parseSign(sign string) (model.PitchSign, error) {
	switch sign {
	case "":
		return model.PitchSignNone, nil
	case "sharp", "#":
		return model.Sharp, nil
	case "flat", "b":
		return model.Flat, nil
	case "natural":
		return model.Natural, nil
	}
	return model.PitchSignNone, fmt.Errorf("%w: unknown sign %q", ErrBadNote, sign)
}

// Validate checks the score and fills in defaults. Notes that do not last
// are kept; layout skips them.
func (s *Score) Validate() error {
	if s.TicksPerBeat == 0 {
		s.TicksPerBeat = DefaultTicksPerBeat
	}
	if s.TicksPerBeat < 0 {
		return fmt.Errorf("ticks per beat must be positive, got %d", s.TicksPerBeat)
	}
	for t, track := range s.Tracks {
		for i, n := range track.Notes {
			if n.Pitch < 0 || n.Pitch > 127 {
				return fmt.Errorf("%w: track %d note %d has pitch %d", ErrBadNote, t, i, n.Pitch)
			}
			if n.Start < 0 {
				return fmt.Errorf("%w: track %d note %d starts at %d", ErrBadNote, t, i, n.Start)
			}
			if _, err := parseSign(n.Sign); err != nil {
				return fmt.Errorf("track %d note %d: %w", t, i, err)
			}
		}
	}
	return nil
}

// Timeline covers every note of the score, or exactly Measures measures
// when set.
func (s *Score) Timeline() (*timeline.Timeline, error) {
	if s.Measures > 0 {
		return timeline.New(s.TicksPerBeat, s.Measures, s.TimeSigs...)
	}
	end := 0
	for _, track := range s.Tracks {
		for _, n := range track.Notes {
			end = max(end, n.End, n.Start+1)
		}
	}
	return timeline.ForEndTick(s.TicksPerBeat, end, s.TimeSigs...)
}

func (s *Score) rawNote(conv pitch.Converter, n Note) model.RawNote {
	sign, _ := parseSign(n.Sign)
	raw := model.RawNote{
		StartTick: n.Start,
		EndTick:   n.End,
		PitchID:   n.Pitch,
		Sign:      sign,
		Selected:  n.Selected,
	}
	if n.Level != nil {
		raw.Level = *n.Level
		return raw
	}
	switch sign {
	case model.Flat:
		conv.PreferFlats = true
	case model.Sharp:
		conv.PreferFlats = false
	}
	raw.Level, raw.Sign = conv.Level(n.Pitch)
	if sign == model.Natural && raw.Sign == model.PitchSignNone {
		raw.Sign = model.Natural
	}
	return raw
}

// RenderTracks converts every track to raw notes in start order.
func (s *Score) RenderTracks() []render.Track {
	conv := pitch.NewConverter(s.PreferFlats)
	res := make([]render.Track, 0, len(s.Tracks))
	for _, track := range s.Tracks {
		raw := make(RawTrack, 0, len(track.Notes))
		for _, n := range track.Notes {
			raw = append(raw, s.rawNote(conv, n))
		}
		sort.SliceStable(raw, func(i, j int) bool {
			return raw[i].StartTick < raw[j].StartTick
		})
		res = append(res, raw)
	}
	return res
}

// Context builds a fresh render context for the score.
func (s *Score) Context(opts render.Options, log *zap.Logger) (*render.Context, error) {
	tl, err := s.Timeline()
	if err != nil {
		return nil, fmt.Errorf("could not build timeline: %w", err)
	}
	return render.NewContext(tl, opts, log), nil
}
