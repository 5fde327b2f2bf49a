package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewRejectsEmptyInput(t *testing.T) {
	_, err := New(nil, time.Millisecond, func(context.Context, string) {})
	assert.EqualError(t, err, "no files to watch")

	_, err = New([]string{"a.yaml"}, time.Millisecond, nil)
	assert.EqualError(t, err, "nil handler")
}

func TestWatcherRunsHandlerOnChange(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.yaml")
	other := filepath.Join(dir, "other.yaml")
	writeFile(t, model, "blocks: []\n")

	changed := make(chan string, 8)
	w, err := New([]string{model}, 20*time.Millisecond, func(_ context.Context, path string) {
		changed <- path
	})
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, w.Dirs())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.True(t, w.IsWatching())

	writeFile(t, other, "ignored\n")
	writeFile(t, model, "blocks: [] # edited\n")

	select {
	case path := <-changed:
		assert.Equal(t, model, path)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	stats := w.Stats()
	assert.Positive(t, stats.Events)
	assert.Equal(t, model, stats.LastEventPath)
	assert.Eventually(t, func() bool { return w.Stats().Runs >= 1 }, time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.yaml")
	writeFile(t, model, "blocks: []\n")

	w, err := New([]string{model}, time.Millisecond, func(context.Context, string) {})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()
	assert.False(t, w.IsWatching())
	<-w.Done()
}

func TestContextCancelEndsLoop(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.yaml")
	writeFile(t, model, "blocks: []\n")

	w, err := New([]string{model}, time.Millisecond, func(context.Context, string) {})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit")
	}
	w.Stop()
}
