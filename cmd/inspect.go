package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/util"
	"github.com/spf13/cobra"
)

func init() {
	addLayoutFlags(inspectCmd.Flags())
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file> [measure]",
	Short: "Dumps the analysed notes of a score",
	Long:  `Dumps the analysed notes of a score, track by track. Measures are numbered from 1.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		measure := -1
		if len(args) == 2 {
			m, err := strconv.Atoi(args[1])
			if err != nil || m < 1 {
				return fmt.Errorf("invalid measure %q", args[1])
			}
			measure = m - 1
		}
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		_, res, err := renderFile(args[0], log)
		if err != nil {
			return err
		}
		for t, track := range res.Tracks {
			fmt.Fprintf(cmd.OutOrStdout(), "track %d\n", t+1)
			inspect(cmd.OutOrStdout(), track.Notes, measure)
		}
		return nil
	},
}

func describeNote(n model.RenderNote) string {
	s := fmt.Sprintf("tick %d len %d level %d", n.Tick, n.TickLength, n.Level)
	if n.Sign != model.PitchSignNone {
		s += " " + n.Sign.String()
	}
	if n.Chord {
		s += fmt.Sprintf(" chord %d-%d", n.MinChordLevel, n.MaxChordLevel)
	}
	s += fmt.Sprintf(" stem %v flags %d", n.Stem, n.FlagAmount)
	if n.Dotted {
		s += " dotted"
	}
	if n.Triplet {
		s += " triplet"
	}
	if n.InstantHit {
		s += " instant"
	}
	if n.Beam {
		s += fmt.Sprintf(" beam to %d at %.1f", n.BeamToTick, n.BeamToLevel)
	}
	if n.IsTied() {
		s += fmt.Sprintf(" tied with %d", n.TiedWithTick)
	}
	return s
}

func inspect(out io.Writer, notes []model.RenderNote, measure int) {
	byMeasure := make(map[int][]model.RenderNote)
	for _, n := range notes {
		if measure != -1 && n.MeasureBegin != measure {
			continue
		}
		byMeasure[n.MeasureBegin] = append(byMeasure[n.MeasureBegin], n)
	}
	for _, key := range util.GetKeys(byMeasure) {
		fmt.Fprintf(out, "  measure %d\n", key+1)
		for _, n := range byMeasure[key] {
			fmt.Fprintf(out, "    %s\n", describeNote(n))
		}
	}
}
