// Package stylesync forwards editor shape changes to a style sink, the way
// a page would write the edited value back into the element's style.
package stylesync

import (
	"context"
	"sync"
	"time"

	"github.com/xkilldash9x/shapes-cli/api/schemas"
	"github.com/xkilldash9x/shapes-cli/internal/editor"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sink receives shape events.
type Sink interface {
	Write(ev schemas.ShapeEvent) error
}

// Source is the part of an editor the syncer observes.
type Source interface {
	ID() string
	Property() string
	CSSValue() string
	On(t editor.EventType, fn editor.Handler) (cancel func())
}

// Syncer throttles shape changes on their way to a Sink. A change that
// arrives while the limiter is exhausted is held, and only the newest held
// change is written by the next Flush.
type Syncer struct {
	sink     Sink
	logger   *zap.Logger
	limiter  *rate.Limiter
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	pending *schemas.ShapeEvent
	written int
	dropped int
}

// New builds a Syncer that writes at most one event per throttle interval.
// A zero interval disables throttling.
func New(sink Sink, throttle time.Duration, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if throttle > 0 {
		limit = rate.Every(throttle)
	}
	return &Syncer{
		sink:     sink,
		logger:   logger.Named("stylesync"),
		limiter:  rate.NewLimiter(limit, 1),
		interval: throttle,
		now:      time.Now,
	}
}

// Attach subscribes to src. The returned function detaches it again.
func (s *Syncer) Attach(src Source) (detach func()) {
	offChange := src.On(editor.EventShapeChange, func(ev editor.Event) {
		s.offer(schemas.ShapeEvent{
			EditorID:  src.ID(),
			Type:      string(ev.Type),
			Kind:      string(ev.Kind),
			Property:  src.Property(),
			Value:     src.CSSValue(),
			Timestamp: s.now().UTC(),
		})
	})
	offRemoved := src.On(editor.EventRemoved, func(ev editor.Event) {
		// Removal is never throttled and supersedes any held change.
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
		s.write(schemas.ShapeEvent{
			EditorID:  src.ID(),
			Type:      string(ev.Type),
			Kind:      string(ev.Kind),
			Property:  src.Property(),
			Value:     "none",
			Timestamp: s.now().UTC(),
		})
	})
	return func() {
		offChange()
		offRemoved()
	}
}

// Announce writes src's current value as a ready event. It is the way to
// publish an editor that was built before the syncer was attached.
func (s *Syncer) Announce(src Source) error {
	return s.write(schemas.ShapeEvent{
		EditorID:  src.ID(),
		Type:      string(editor.EventReady),
		Kind:      kindOf(src.CSSValue()),
		Property:  src.Property(),
		Value:     src.CSSValue(),
		Timestamp: s.now().UTC(),
	})
}

func kindOf(value string) string {
	k, err := shapes.KindOf(value)
	if err != nil {
		return ""
	}
	return string(k)
}

func (s *Syncer) offer(ev schemas.ShapeEvent) {
	s.mu.Lock()
	if !s.limiter.AllowN(s.now(), 1) {
		if s.pending != nil {
			s.dropped++
		}
		s.pending = &ev
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()
	s.write(ev)
}

func (s *Syncer) write(ev schemas.ShapeEvent) error {
	if err := s.sink.Write(ev); err != nil {
		s.logger.Warn("Failed to write shape event.", zap.String("editor_id", ev.EditorID), zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.written++
	s.mu.Unlock()
	return nil
}

// Flush writes the held change, if any.
func (s *Syncer) Flush() error {
	s.mu.Lock()
	ev := s.pending
	s.pending = nil
	s.mu.Unlock()
	if ev == nil {
		return nil
	}
	return s.write(*ev)
}

// Run flushes once per throttle interval until ctx is done, then flushes a
// final time.
func (s *Syncer) Run(ctx context.Context) error {
	if s.interval <= 0 {
		<-ctx.Done()
		return s.Flush()
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return s.Flush()
		case <-ticker.C:
			if err := s.Flush(); err != nil {
				s.logger.Debug("Periodic flush failed.", zap.Error(err))
			}
		}
	}
}

// Stats reports how many events were written and how many held changes
// were replaced by newer ones before they could be flushed.
func (s *Syncer) Stats() (written, dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written, s.dropped
}
