package journal

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/cortex/pkg/memory"
)

func TestWatcher_ReportsDirtyDay(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	dirty := make(chan string, 10)
	w, err := NewWatcher(logger, func(date string) { dirty <- date })
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Watch(dir))

	day := time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, Append(dir, day, memory.CategoryNote, "first write"))

	// The month directory was just created, give the watcher a moment to
	// pick it up before the file write lands.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, Append(dir, day, memory.CategoryNote, "second write"))

	select {
	case date := <-dirty:
		assert.Equal(t, "2026-02-05", date)
	case <-time.After(3 * time.Second):
		t.Fatal("expected dirty callback")
	}
}

func TestWatcher_IgnoresNonJournalFiles(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.New(os.Stdout).Level(zerolog.Disabled)

	dirty := make(chan string, 10)
	w, err := NewWatcher(logger, func(date string) { dirty <- date })
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Watch(dir))

	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("x"), 0644))
	require.NoError(t, os.WriteFile(dir+"/not-a-date.md", []byte("x"), 0644))

	select {
	case date := <-dirty:
		t.Fatalf("unexpected dirty callback for %s", date)
	case <-time.After(time.Second):
	}
}
