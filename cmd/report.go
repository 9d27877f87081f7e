package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/engrave/engine"
	"github.com/jsphweid/engrave/layout"
	"github.com/jsphweid/engrave/util"
	"github.com/spf13/cobra"
)

func init() {
	addLayoutFlags(reportCmd.Flags())
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Reports repetition and layout statistics",
	Long:  `Reports repetition and layout statistics`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		_, res, err := renderFile(args[0], log)
		if err != nil {
			return err
		}
		report(cmd.OutOrStdout(), analyzeLayout(res))
		return nil
	},
}

type layoutReport struct {
	numMeasures      int
	numEmpty         int
	numRepeating     int
	numSymbols       int
	numSilences      int
	elementsByType   map[layout.ElementType]int
	lineWidths       []int
	foldedMeasures   int
	shortestDuration int
}

func analyzeLayout(res *engine.Result) layoutReport {
	r := layoutReport{
		numMeasures:      len(res.Measures),
		elementsByType:   make(map[layout.ElementType]int),
		shortestDuration: -1,
	}
	for _, m := range res.Measures {
		if m.Empty() {
			r.numEmpty++
		}
		if m.FirstSimilar != -1 {
			r.numRepeating++
		}
		if m.ShortestDuration != -1 && (r.shortestDuration == -1 || m.ShortestDuration < r.shortestDuration) {
			r.shortestDuration = m.ShortestDuration
		}
	}
	for _, t := range res.Tracks {
		r.numSymbols += len(t.Notes)
		r.numSilences += len(t.Silences)
	}
	for _, el := range res.Elements {
		r.elementsByType[el.Type]++
		switch el.Type {
		case layout.RepeatedRiff:
			r.foldedMeasures += el.Repetition.Amount() + 1
		case layout.PlayManyTimes:
			r.foldedMeasures += el.AmountOfTimes - 1
		}
	}
	for _, line := range res.Lines {
		r.lineWidths = append(r.lineWidths, line.Width)
	}
	return r
}

func report(out io.Writer, r layoutReport) {
	fmt.Fprintf(out, "measures: %v\n", r.numMeasures)
	fmt.Fprintf(out, "empty measures: %v\n", r.numEmpty)
	fmt.Fprintf(out, "measures repeating an earlier one: %v\n", r.numRepeating)
	fmt.Fprintf(out, "measures folded into repetitions: %v\n", r.foldedMeasures)
	fmt.Fprintf(out, "note symbols: %s\n", humanize.Comma(int64(r.numSymbols)))
	fmt.Fprintf(out, "silences: %v\n", r.numSilences)
	fmt.Fprintf(out, "shortest duration (ticks): %v\n", r.shortestDuration)
	for _, t := range util.GetKeys(r.elementsByType) {
		fmt.Fprintf(out, "elements %v: %v\n", t, r.elementsByType[t])
	}
	fmt.Fprintf(out, "lines: %v\n", len(r.lineWidths))
	fmt.Fprintf(out, "total width: %s\n", humanize.Comma(int64(util.Sum(r.lineWidths))))
}
