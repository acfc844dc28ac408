// internal/watcher/watcher.go
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hpcloud/tail"
	"go.uber.org/zap"
)

// Target receives each value read from the watched file.
type Target interface {
	Update(value string) error
}

// Options tune how the file is followed.
type Options struct {
	// FromStart replays lines already in the file instead of only new ones.
	FromStart bool
	// Poll checks the file on a timer instead of using inotify.
	Poll bool
}

// Watcher tails a file and feeds every non-empty line to a Target. A line
// that fails to apply is logged and reported, and the watcher keeps going.
type Watcher struct {
	logger *zap.Logger
	path   string
	target Target
	errs   chan<- error
	opts   Options
}

// New builds a Watcher. errs may be nil when the caller only wants the logs.
func New(path string, target Target, errs chan<- error, logger *zap.Logger, opts Options) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watcher: a file path is required")
	}
	if target == nil {
		return nil, errors.New("watcher: a target is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		logger: logger.Named("watcher").With(zap.String("path", path)),
		path:   path,
		target: target,
		errs:   errs,
		opts:   opts,
	}, nil
}

// Run follows the file until ctx is done. It returns nil on cancellation
// and an error only when the file cannot be tailed at all.
func (w *Watcher) Run(ctx context.Context) error {
	whence := io.SeekEnd
	if w.opts.FromStart {
		whence = io.SeekStart
	}
	t, err := tail.TailFile(w.path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      w.opts.Poll,
		Location:  &tail.SeekInfo{Offset: 0, Whence: whence},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail %s: %w", w.path, err)
	}
	defer func() {
		_ = t.Stop()
		t.Cleanup()
	}()

	w.logger.Info("Watching for shape values.")
	lineNo := 0
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher.")
			return nil

		case line, ok := <-t.Lines:
			if !ok {
				w.logger.Info("Tailer channel closed.")
				return t.Err()
			}
			lineNo++
			if line.Err != nil {
				w.logger.Warn("Error reading from watched file.", zap.Error(line.Err))
				w.report(ctx, fmt.Errorf("line %d: %w", lineNo, line.Err))
				continue
			}

			value := strings.TrimSpace(line.Text)
			if value == "" {
				continue
			}
			if err := w.target.Update(value); err != nil {
				w.logger.Warn("Rejected shape value.", zap.Int("line", lineNo), zap.String("value", value), zap.Error(err))
				w.report(ctx, fmt.Errorf("line %d: %w", lineNo, err))
				continue
			}
			w.logger.Debug("Applied shape value.", zap.Int("line", lineNo))
		}
	}
}

func (w *Watcher) report(ctx context.Context, err error) {
	if w.errs == nil {
		return
	}
	select {
	case w.errs <- err:
	case <-ctx.Done():
	}
}
