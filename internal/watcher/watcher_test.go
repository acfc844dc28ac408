// internal/watcher/watcher_test.go
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/shapes-cli/internal/browser/dom"
	"github.com/xkilldash9x/shapes-cli/internal/editor"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
)

type recordingTarget struct {
	mu     sync.Mutex
	values []string
}

func (r *recordingTarget) Update(value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
	return nil
}

func (r *recordingTarget) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func start(t *testing.T, w *Watcher) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestNewValidates(t *testing.T) {
	_, err := New("", &recordingTarget{}, nil, nil, Options{})
	assert.Error(t, err)
	_, err = New("values.txt", nil, nil, nil, Options{})
	assert.Error(t, err)
}

func TestRunMissingFile(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "absent.txt"), &recordingTarget{}, nil, zaptest.NewLogger(t), Options{Poll: true})
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}

func TestWatcherFeedsLines(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeFile(t, "circle(1px)\n\n  \ncircle(2px)\n")
	target := &recordingTarget{}
	w, err := New(path, target, nil, zaptest.NewLogger(t), Options{FromStart: true, Poll: true})
	require.NoError(t, err)
	stop := start(t, w)

	assert.Eventually(t, func() bool { return len(target.seen()) == 2 }, 5*time.Second, 20*time.Millisecond)
	appendLine(t, path, "  circle(3px)  ")
	assert.Eventually(t, func() bool { return len(target.seen()) == 3 }, 5*time.Second, 20*time.Millisecond)

	stop()
	assert.Equal(t, []string{"circle(1px)", "circle(2px)", "circle(3px)"}, target.seen())
}

func TestWatcherReportsRejectedValues(t *testing.T) {
	defer goleak.VerifyNone(t)

	ed, err := editor.New(dom.NewBoxSnapshot(100, 100), "circle(10px at 0px 0px)", editor.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	path := writeFile(t, "star(5)\ncircle(20px at 0px 0px)\n")
	errs := make(chan error, 4)
	w, err := New(path, ed, errs, zaptest.NewLogger(t), Options{FromStart: true, Poll: true})
	require.NoError(t, err)
	stop := start(t, w)
	defer stop()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, shapes.ErrNotAShapeFunction)
		assert.Contains(t, err.Error(), "line 1")
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported for the bad line")
	}
	assert.Eventually(t, func() bool { return ed.CSSValue() == "circle(20px at 0px 0px)" }, 5*time.Second, 20*time.Millisecond)
}
