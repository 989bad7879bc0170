package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

type stubService struct {
	calls atomic.Int32
	err   error
}

func (s *stubService) Track(_ context.Context, _ string) (domain.IntentResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return domain.IntentResult{}, s.err
	}
	return domain.IntentResult{Intent: "feat: add retry logic"}, nil
}

func newTranscript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	return path
}

func TestNewRequiresTranscriptPath(t *testing.T) {
	_, err := New(&stubService{}, Config{})
	require.Error(t, err)
}

func TestNewAppliesDefaults(t *testing.T) {
	w, err := New(&stubService{}, Config{TranscriptPath: "/tmp/t.jsonl"})

	require.NoError(t, err)
	assert.Equal(t, DefaultQuietGap, w.cfg.QuietGap)
	assert.Equal(t, DefaultMinInterval, w.cfg.MinInterval)
}

func TestRunTracksAfterQuietGap(t *testing.T) {
	path := newTranscript(t)
	svc := &stubService{}
	w, err := New(svc, Config{
		TranscriptPath: path,
		QuietGap:       50 * time.Millisecond,
		MinInterval:    time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register, then append to the transcript.
	time.Sleep(100 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{\"type\":\"user\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	path := newTranscript(t)
	svc := &stubService{}
	w, err := New(svc, Config{
		TranscriptPath: path,
		QuietGap:       30 * time.Millisecond,
		MinInterval:    time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	other := filepath.Join(filepath.Dir(path), "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("noise"), 0644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), svc.calls.Load())

	cancel()
	<-done
}

func TestRunCoalescesBursts(t *testing.T) {
	path := newTranscript(t)
	svc := &stubService{}
	w, err := New(svc, Config{
		TranscriptPath: path,
		QuietGap:       80 * time.Millisecond,
		MinInterval:    time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
		require.NoError(t, err)
		_, err = f.WriteString("{}\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)
	// The burst collapses into a single pass.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), svc.calls.Load())

	cancel()
	<-done
}

func TestRefreshRateLimited(t *testing.T) {
	svc := &stubService{}
	w, err := New(svc, Config{
		TranscriptPath: "/tmp/t.jsonl",
		QuietGap:       time.Millisecond,
		MinInterval:    time.Hour,
	})
	require.NoError(t, err)

	w.refresh(context.Background())
	w.refresh(context.Background())

	assert.Equal(t, int32(1), svc.calls.Load())
}

type slowService struct {
	calls      atomic.Int32
	active     atomic.Int32
	overlapped atomic.Bool
}

func (s *slowService) Track(_ context.Context, _ string) (domain.IntentResult, error) {
	if s.active.Add(1) > 1 {
		s.overlapped.Store(true)
	}
	defer s.active.Add(-1)
	s.calls.Add(1)
	time.Sleep(50 * time.Millisecond)
	return domain.IntentResult{Intent: "chore: tidy"}, nil
}

func TestRefreshSerializesConcurrentCallers(t *testing.T) {
	// Cron fires refresh on its own goroutine; two passes must never
	// write the cache and intent files at the same time.
	svc := &slowService{}
	w, err := New(svc, Config{
		TranscriptPath: "/tmp/t.jsonl",
		MinInterval:    time.Millisecond,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.refresh(context.Background())
		}()
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, int32(2), svc.calls.Load())
	assert.False(t, svc.overlapped.Load())
}

func TestRefreshToleratesServiceErrors(t *testing.T) {
	svc := &stubService{err: domain.ErrNothingToReport}
	w, err := New(svc, Config{
		TranscriptPath: "/tmp/t.jsonl",
		MinInterval:    time.Millisecond,
	})
	require.NoError(t, err)

	w.refresh(context.Background())

	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestRunRejectsBadSchedule(t *testing.T) {
	path := newTranscript(t)
	w, err := New(&stubService{}, Config{
		TranscriptPath: path,
		Schedule:       "not a cron spec",
	})
	require.NoError(t, err)

	err = w.Run(context.Background())

	require.Error(t, err)
}
