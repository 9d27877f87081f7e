package cmd

import (
	"fmt"
	"strconv"

	"github.com/jsphweid/engrave/midi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(excerptCmd)
}

var excerptCmd = &cobra.Command{
	Use:   "excerpt <file> <first> <last> <out.mid>",
	Short: "Writes a range of measures as a MIDI file",
	Long:  `Writes measures first to last (numbered from 1, inclusive) of a score as a MIDI file.`,
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		first, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid measure %q", args[1])
		}
		last, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid measure %q", args[2])
		}
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := loadScore(args[0])
		if err != nil {
			return err
		}
		if err := midi.WriteExcerpt(s, first-1, last-1, args[3]); err != nil {
			return err
		}
		log.Info("wrote excerpt", zap.String("path", args[3]), zap.Int("first", first), zap.Int("last", last))
		return nil
	},
}
