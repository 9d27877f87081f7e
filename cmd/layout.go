package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jsphweid/engrave/db"
	"github.com/jsphweid/engrave/engine"
	"github.com/jsphweid/engrave/layout"
	"github.com/jsphweid/engrave/model"
	"github.com/jsphweid/engrave/util"
	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	addLayoutFlags(layoutCmd.Flags())
	addOutputFlags(layoutCmd.Flags())
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   "layout <file|dir>...",
	Short: "Lays out scores",
	Long: `Lays out every score given. Directories are walked for .yml, .yaml,
.json, .mid and .midi files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()
		return runLayout(cmd.OutOrStdout(), args, log)
	},
}

type layoutOutput struct {
	Path     string               `json:"path"`
	Metadata *model.ScoreMetadata `json:"metadata,omitempty"`
	*engine.Result
}

func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("could not open %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := util.GatherScorePaths(arg, 0)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func lookupMetadata(store *db.Store, path string, log *zap.Logger) *model.ScoreMetadata {
	m, ok, err := store.Lookup(filepath.Base(path))
	if err != nil {
		log.Warn("could not look up metadata", zap.String("path", path), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	return &m
}

// renderAll lays out every path concurrently. Results keep the order of
// paths; the first error wins.
func renderAll(paths []string, store *db.Store, log *zap.Logger) ([]layoutOutput, error) {
	outputs := make([]layoutOutput, len(paths))
	errs := make([]error, len(paths))
	wg := sizedwaitgroup.New(runtime.NumCPU())
	for i, path := range paths {
		wg.Add()
		go func(i int, path string) {
			defer wg.Done()
			_, res, err := renderFile(path, log)
			if err != nil {
				errs[i] = err
				return
			}
			outputs[i] = layoutOutput{Path: path, Metadata: lookupMetadata(store, path, log), Result: res}
		}(i, path)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

func runLayout(out io.Writer, args []string, log *zap.Logger) error {
	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	store, err := db.NewFromEnv()
	if err != nil {
		log.Warn("metadata store disabled", zap.Error(err))
	}

	outputs, err := renderAll(paths, store, log)
	if err != nil {
		return err
	}
	for _, o := range outputs {
		if flags.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(o); err != nil {
				return fmt.Errorf("could not encode layout: %w", err)
			}
			continue
		}
		printSummary(out, o)
	}
	return nil
}

func describeElement(el layout.Element) string {
	switch el.Type {
	case layout.SingleMeasure:
		return fmt.Sprintf("%d", el.Measure+1)
	case layout.EmptyMeasure:
		return fmt.Sprintf("%d(rest)", el.Measure+1)
	case layout.SingleRepeatedMeasure:
		return fmt.Sprintf("%d(%%)", el.Measure+1)
	case layout.PlayManyTimes:
		return fmt.Sprintf("x%d", el.AmountOfTimes)
	case layout.RepeatedRiff:
		r := el.Repetition
		return fmt.Sprintf("%d-%d(=%d-%d)", r.FirstThatRepeats+1, r.LastThatRepeats+1, r.FirstRepeated+1, r.LastRepeated+1)
	case layout.TimeSignature:
		return fmt.Sprintf("[%d/%d]", el.Num, el.Denom)
	case layout.LineHeader:
		return "|"
	}
	return el.Type.String()
}

func printSummary(out io.Writer, o layoutOutput) {
	title := o.Path
	if o.Metadata != nil && o.Metadata.Title != "" {
		title = fmt.Sprintf("%s (%s)", o.Metadata.Title, o.Path)
	}
	fmt.Fprintf(out, "%s: %d measures, %d lines\n", title, len(o.Measures), len(o.Lines))
	for i, line := range o.Lines {
		parts := make([]string, 0, len(line.Elements))
		for _, el := range line.Elements {
			parts = append(parts, describeElement(el))
		}
		fmt.Fprintf(out, "  line %d (%d): %s\n", i+1, line.Width, strings.Join(parts, " "))
	}
}
