package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/engine"
	"github.com/jsphweid/engrave/midi"
	"github.com/jsphweid/engrave/render"
	"github.com/jsphweid/engrave/score"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var flags struct {
	json        bool
	repetitions bool
	minRepeat   int
	lineWidth   float64
	flats       bool
}

func addLayoutFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&flags.repetitions, "repetitions", true, "fold repeated measures")
	fs.IntVar(&flags.minRepeat, "min-repeat", constants.DefaultRepetition, "shortest run of measures worth folding")
	fs.Float64Var(&flags.lineWidth, "line-width", constants.MaxLineWidth, "line width in print units")
	fs.BoolVar(&flags.flats, "flats", false, "spell black keys as flats")
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&flags.json, "json", false, "print JSON instead of a summary")
}

func renderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.CheckRepetitions = flags.repetitions
	opts.RepetitionMinimalLength = flags.minRepeat
	opts.LineWidth = flags.lineWidth
	return opts
}

func loadScore(path string) (*score.Score, error) {
	var s *score.Score
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		s, err = midi.Load(path)
	default:
		s, err = score.Load(path)
	}
	if err != nil {
		return nil, err
	}
	if flags.flats {
		s.PreferFlats = true
	}
	return s, nil
}

func renderScore(s *score.Score, opts render.Options, log *zap.Logger) (*engine.Result, error) {
	ctx, err := s.Context(opts, log)
	if err != nil {
		return nil, err
	}
	res, err := engine.Render(ctx, s.RenderTracks())
	if err != nil {
		return nil, fmt.Errorf("could not lay out score: %w", err)
	}
	return res, nil
}

func renderFile(path string, log *zap.Logger) (*score.Score, *engine.Result, error) {
	s, err := loadScore(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := renderScore(s, renderOptions(), log.With(zap.String("path", path)))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, res, nil
}
