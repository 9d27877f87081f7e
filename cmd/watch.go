package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	pollInterval  = 250 * time.Millisecond
	debounceDelay = 300 * time.Millisecond
)

func init() {
	addLayoutFlags(watchCmd.Flags())
	addOutputFlags(watchCmd.Flags())
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Lays out a score again every time it changes",
	Long:  `Lays out a score again every time it changes, until interrupted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, cmd.OutOrStdout(), args[0], pollInterval, log)
	},
}

func modTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}

// watch lays out path once, then again after each burst of modifications.
// Layout errors are logged so an edit in progress does not stop the watcher.
func watch(ctx context.Context, out io.Writer, path string, interval time.Duration, log *zap.Logger) error {
	last, err := modTime(path)
	if err != nil {
		return err
	}

	// mu keeps a queued layout from writing to out once watch has returned
	var mu sync.Mutex
	stopped := false
	relayout := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if err := runLayout(out, []string{path}, log); err != nil {
			log.Error("layout failed", zap.String("path", path), zap.Error(err))
		}
	}
	relayout()

	debounced := debounce.New(debounceDelay)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			debounced(func() {})
			mu.Lock()
			stopped = true
			mu.Unlock()
			return nil
		case <-ticker.C:
			t, err := modTime(path)
			if err != nil {
				log.Warn("could not check score", zap.Error(err))
				continue
			}
			if t.Equal(last) {
				continue
			}
			last = t
			log.Debug("score changed", zap.String("path", path))
			debounced(relayout)
		}
	}
}
