package layout

import "go.uber.org/zap"

// Repetition says that measures [FirstThatRepeats, LastThatRepeats] play
// again what measures [FirstRepeated, LastRepeated] played.
type Repetition struct {
	FirstThatRepeats int `json:"first_that_repeats"`
	LastThatRepeats  int `json:"last_that_repeats"`
	FirstRepeated    int `json:"first_repeated"`
	LastRepeated     int `json:"last_repeated"`
}

// Amount is the number of measures after the first one in the run.
func (r Repetition) Amount() int {
	return r.LastThatRepeats - r.FirstThatRepeats
}

// FindSimilarMeasures links every measure to the earliest measure it is
// the same as.
func (l *Layout) FindSimilarMeasures() {
	for id := range l.Measures {
		for earlier := 0; earlier < id; earlier++ {
			if !l.Measures[id].SameAs(&l.Measures[earlier]) {
				continue
			}
			l.Measures[id].FirstSimilar = earlier
			l.Measures[earlier].SimilarFoundLater = append(l.Measures[earlier].SimilarFoundLater, id)
			l.ctx.Log.Debug("found similar measure", zap.Int("measure", id), zap.Int("similar", earlier))
			break
		}
	}
}

func (l *Layout) similar(id int) int {
	if id < 0 || id >= len(l.Measures) {
		return -1
	}
	return l.Measures[id].FirstSimilar
}

// FindConsecutiveRepetition looks for a run of measures starting at id that
// repeats an earlier run.
func (l *Layout) FindConsecutiveRepetition(id int) (Repetition, bool) {
	first := l.similar(id)
	if first == -1 {
		return Repetition{}, false
	}

	// the following measures repeat the ones following the original
	if l.similar(id+1) == first+1 {
		amount := 1
		for l.similar(id+amount+1) == first+amount+1 {
			amount++
		}
		return Repetition{
			FirstThatRepeats: id,
			LastThatRepeats:  id + amount,
			FirstRepeated:    first,
			LastRepeated:     first + amount,
		}, true
	}

	// otherwise try each later occurrence of the original
	count := len(l.Measures)
	minLength := l.ctx.Options.RepetitionMinimalLength
	for _, from := range l.Measures[first].SimilarFoundLater {
		amount := 0
		for from+amount < id && id+amount < count {
			candidate := l.Measures[from+amount].FirstSimilar
			current := l.Measures[id+amount].FirstSimilar
			if (candidate == current && candidate != -1) || from+amount == current {
				amount++
				continue
			}
			break
		}
		if amount < minLength || amount == 0 {
			continue
		}
		return Repetition{
			FirstThatRepeats: id,
			LastThatRepeats:  id + amount - 1,
			FirstRepeated:    from,
			LastRepeated:     from + amount - 1,
		}, true
	}
	return Repetition{}, false
}
