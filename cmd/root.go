package cmd

import (
	"github.com/jsphweid/engrave/constants"
	"github.com/jsphweid/engrave/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "engrave",
	Short: "Lays out music notation",
	Long: `engrave turns scores (YAML, JSON or MIDI files) into drawable notation:
note symbols with stems, beams, triplets and ties, proportional spacing
inside measures, repetition folding and line breaking.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "log level (debug, info, warn, error)")
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logLevel, false)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
