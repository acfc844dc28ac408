package stylesync

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/shapes-cli/api/schemas"
	"github.com/xkilldash9x/shapes-cli/internal/browser/dom"
	"github.com/xkilldash9x/shapes-cli/internal/editor"
)

type memorySink struct {
	mu     sync.Mutex
	events []schemas.ShapeEvent
	err    error
}

func (m *memorySink) Write(ev schemas.ShapeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memorySink) values() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Value
	}
	return out
}

// fakeClock drives the limiter by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newSynced(t *testing.T, throttle time.Duration) (*editor.Editor, *Syncer, *memorySink, *fakeClock) {
	t.Helper()
	ed, err := editor.New(dom.NewBoxSnapshot(400, 200), "circle(10px at 0px 0px)", editor.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	sink := &memorySink{}
	s := New(sink, throttle, zaptest.NewLogger(t))
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = clock.now
	return ed, s, sink, clock
}

func TestSyncerThrottles(t *testing.T) {
	ed, s, sink, clock := newSynced(t, 50*time.Millisecond)
	s.Attach(ed)

	require.NoError(t, ed.Update("circle(1px at 0px 0px)"))
	require.NoError(t, ed.Update("circle(2px at 0px 0px)"))
	require.NoError(t, ed.Update("circle(3px at 0px 0px)"))

	// The first change goes out at once. The rest are held and only the
	// newest survives.
	assert.Equal(t, []string{"circle(1px at 0px 0px)"}, sink.values())
	require.NoError(t, s.Flush())
	assert.Equal(t, []string{"circle(1px at 0px 0px)", "circle(3px at 0px 0px)"}, sink.values())

	written, dropped := s.Stats()
	assert.Equal(t, 2, written)
	assert.Equal(t, 1, dropped)

	// Nothing held, nothing to flush.
	require.NoError(t, s.Flush())
	assert.Len(t, sink.values(), 2)

	clock.advance(60 * time.Millisecond)
	require.NoError(t, ed.Update("circle(4px at 0px 0px)"))
	assert.Len(t, sink.values(), 3)

	ev := sink.events[2]
	assert.Equal(t, ed.ID(), ev.EditorID)
	assert.Equal(t, string(editor.EventShapeChange), ev.Type)
	assert.Equal(t, "circle", ev.Kind)
	assert.Equal(t, editor.DefaultProperty, ev.Property)
	assert.Equal(t, clock.t, ev.Timestamp)
}

func TestSyncerRemoval(t *testing.T) {
	ed, s, sink, _ := newSynced(t, time.Hour)
	detach := s.Attach(ed)

	require.NoError(t, ed.Update("circle(1px at 0px 0px)"))
	require.NoError(t, ed.Update("circle(2px at 0px 0px)")) // held
	require.NoError(t, ed.Update("none"))

	assert.Equal(t, []string{"circle(1px at 0px 0px)", "none"}, sink.values())
	assert.Equal(t, string(editor.EventRemoved), sink.events[1].Type)

	// The held change was superseded by the removal.
	require.NoError(t, s.Flush())
	assert.Len(t, sink.values(), 2)

	detach()
	other, err := editor.New(dom.NewBoxSnapshot(10, 10), "circle(1px at 0px 0px)")
	require.NoError(t, err)
	require.NoError(t, other.Update("circle(2px at 0px 0px)"))
	assert.Len(t, sink.values(), 2)
}

func TestSyncerUnthrottled(t *testing.T) {
	ed, s, sink, _ := newSynced(t, 0)
	s.Attach(ed)
	for _, v := range []string{"circle(1px at 0px 0px)", "circle(2px at 0px 0px)", "circle(3px at 0px 0px)"} {
		require.NoError(t, ed.Update(v))
	}
	assert.Len(t, sink.values(), 3)
}

func TestSyncerSinkFailure(t *testing.T) {
	ed, s, sink, _ := newSynced(t, time.Hour)
	s.Attach(ed)
	require.NoError(t, ed.Update("circle(1px at 0px 0px)"))
	require.NoError(t, ed.Update("circle(2px at 0px 0px)"))

	boom := errors.New("sink closed")
	sink.err = boom
	assert.ErrorIs(t, s.Flush(), boom)

	written, _ := s.Stats()
	assert.Equal(t, 1, written)
}

func TestRunFlushesOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ed, s, sink, _ := newSynced(t, time.Hour)
	s.Attach(ed)
	require.NoError(t, ed.Update("circle(1px at 0px 0px)"))
	require.NoError(t, ed.Update("circle(2px at 0px 0px)"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"circle(1px at 0px 0px)", "circle(2px at 0px 0px)"}, sink.values())
}

func TestJSONLinesSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONLinesSink(&buf)
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, sink.Write(schemas.ShapeEvent{EditorID: "a", Type: "shapechange", Kind: "circle", Property: "shape-outside", Value: "circle(1px at 0px 0px)", Timestamp: ts}))
	require.NoError(t, sink.Write(schemas.ShapeEvent{EditorID: "a", Type: "removed", Value: "none", Timestamp: ts}))

	sc := bufio.NewScanner(&buf)
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, jsoniter.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "circle(1px at 0px 0px)", lines[0]["value"])
	assert.Equal(t, "shape-outside", lines[0]["property"])
	assert.Equal(t, "2026-03-04T05:06:07Z", lines[0]["timestamp"])
	assert.Equal(t, "none", lines[1]["value"])
}

func TestAnnounceBypassesThrottle(t *testing.T) {
	ed, s, sink, _ := newSynced(t, time.Hour)
	s.Attach(ed)
	require.NoError(t, ed.Update("circle(1px at 0px 0px)"))

	require.NoError(t, s.Announce(ed))
	require.Len(t, sink.values(), 2)
	ev := sink.events[1]
	assert.Equal(t, string(editor.EventReady), ev.Type)
	assert.Equal(t, "circle", ev.Kind)
	assert.Equal(t, "circle(1px at 0px 0px)", ev.Value)
}
