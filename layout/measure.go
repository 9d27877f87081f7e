package layout

import (
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/render"
	"go.uber.org/zap"
)

// TrackReference is the range of notes of one track that start in a
// measure. Both indices are -1 when no note starts there.
type TrackReference struct {
	Track     int `json:"track"`
	FirstNote int `json:"first_note"`
	LastNote  int `json:"last_note"`
}

func (r TrackReference) Empty() bool {
	return r.FirstNote == -1
}

func (r TrackReference) Count() int {
	if r.Empty() {
		return 0
	}
	return r.LastNote - r.FirstNote + 1
}

type Measure struct {
	ID        int `json:"id"`
	FirstTick int `json:"first_tick"`
	// exclusive
	LastTick int `json:"last_tick"`

	// in ticks, -1 when nothing was counted
	ShortestDuration  int  `json:"shortest_duration"`
	ContainsSomething bool `json:"contains_something"`

	// -1 when this measure repeats nothing earlier
	FirstSimilar      int   `json:"first_similar"`
	SimilarFoundLater []int `json:"similar_found_later,omitempty"`
	CutApart          bool  `json:"cut_apart,omitempty"`

	TrackRefs []TrackReference `json:"track_refs"`

	ctx    *render.Context
	tracks []render.Track
}

func NewMeasure(ctx *render.Context, id int, tracks []render.Track) Measure {
	return Measure{
		ID:               id,
		FirstTick:        ctx.Timeline.FirstTickInMeasure(id),
		LastTick:         ctx.Timeline.LastTickInMeasure(id),
		ShortestDuration: -1,
		FirstSimilar:     -1,
		ctx:              ctx,
		tracks:           tracks,
	}
}

func (m *Measure) Empty() bool {
	return !m.ContainsSomething
}

func (m *Measure) soundsInto(track render.Track, upTo int) bool {
	for n := upTo - 1; n >= 0; n-- {
		note := track.Note(n)
		if note.StartTick < m.FirstTick && note.EndTick > m.FirstTick {
			return true
		}
	}
	return false
}

// AddTrackReference records which notes of track start in this measure,
// scanning from firstNote. It returns the note to scan from for the next
// measure, or -1 once the track is exhausted.
func (m *Measure) AddTrackReference(firstNote int, trackID int) int {
	track := m.tracks[trackID]
	count := track.NoteCount()
	ref := TrackReference{Track: trackID, FirstNote: -1, LastNote: -1}

	if firstNote == -1 || firstNote >= count {
		if m.soundsInto(track, count) {
			m.ContainsSomething = true
		}
		m.TrackRefs = append(m.TrackRefs, ref)
		return -1
	}

	if m.soundsInto(track, firstNote) {
		m.ContainsSomething = true
	}

	next := firstNote
	for n := firstNote; n < count; n++ {
		note := track.Note(n)
		if note.StartTick >= m.LastTick {
			break
		}
		next = n + 1
		duration := note.Duration()
		if duration <= 0 {
			continue
		}
		if note.StartTick < m.FirstTick {
			// still sounding from an earlier measure
			if note.EndTick > m.FirstTick {
				m.ContainsSomething = true
			}
			continue
		}
		if ref.FirstNote == -1 {
			ref.FirstNote = n
		}
		ref.LastNote = n
		if m.ctx.RelativeLength(duration) < constants.ShortestDuration {
			continue
		}
		if m.ShortestDuration == -1 || duration < m.ShortestDuration {
			m.ShortestDuration = duration
		}
	}

	if !ref.Empty() {
		m.ContainsSomething = true
	}
	m.TrackRefs = append(m.TrackRefs, ref)

	m.ctx.Log.Debug("segmented measure",
		zap.Int("measure", m.ID),
		zap.Int("track", trackID),
		zap.Int("first", ref.FirstNote),
		zap.Int("last", ref.LastNote))

	if next >= count {
		return -1
	}
	return next
}

// SameAs reports whether both measures hold the same notes, compared by
// offset from the measure start, length and pitch. Measures without notes
// are never the same as anything.
func (m *Measure) SameAs(other *Measure) bool {
	if len(m.TrackRefs) != len(other.TrackRefs) {
		return false
	}

	total := 0
	for i := range m.TrackRefs {
		mine, theirs := m.TrackRefs[i], other.TrackRefs[i]
		count := mine.Count()
		if count != theirs.Count() {
			return false
		}
		if count == 0 {
			continue
		}
		if !m.sameNotes(other, mine, theirs) {
			return false
		}
		total += count
	}
	return total > 0
}

func (m *Measure) sameNotes(other *Measure, mine, theirs TrackReference) bool {
	track := m.tracks[mine.Track]
	otherTrack := other.tracks[theirs.Track]
	used := make([]bool, theirs.Count())

	for a := mine.FirstNote; a <= mine.LastNote; a++ {
		note := track.Note(a)
		found := false
		for b := theirs.FirstNote; b <= theirs.LastNote; b++ {
			if used[b-theirs.FirstNote] {
				continue
			}
			candidate := otherTrack.Note(b)
			if candidate.StartTick-other.FirstTick != note.StartTick-m.FirstTick ||
				candidate.EndTick-other.FirstTick != note.EndTick-m.FirstTick ||
				candidate.PitchID != note.PitchID {
				continue
			}
			used[b-theirs.FirstNote] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}
