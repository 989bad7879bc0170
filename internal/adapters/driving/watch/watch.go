// Package watch keeps the intent file fresh by observing a transcript
// for changes instead of waiting for hook invocations.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driving"
	"github.com/rajivsinclair/intentd/internal/logger"
)

// Default configuration values.
const (
	DefaultQuietGap    = 5 * time.Second
	DefaultMinInterval = 30 * time.Second
)

// Config holds configuration for the watcher.
type Config struct {
	// TranscriptPath is the transcript file to observe (required).
	TranscriptPath string

	// QuietGap is how long the transcript must stay unchanged before a
	// tracking pass runs. Transcripts are appended in bursts; running on
	// every write would thrash the generator.
	QuietGap time.Duration

	// MinInterval is the minimum spacing between tracking passes.
	MinInterval time.Duration

	// Schedule is an optional cron expression for periodic refreshes
	// even without transcript activity.
	Schedule string
}

// Watcher drives the intent service from filesystem events.
type Watcher struct {
	svc     driving.IntentService
	cfg     Config
	limiter *rate.Limiter

	// mu serializes refreshes: cron fires on its own goroutine, and the
	// cache and intent files assume a single writer.
	mu sync.Mutex
}

// New creates a watcher for the configured transcript.
func New(svc driving.IntentService, cfg Config) (*Watcher, error) {
	if cfg.TranscriptPath == "" {
		return nil, errors.New("watch: transcript path is required")
	}
	if cfg.QuietGap == 0 {
		cfg.QuietGap = DefaultQuietGap
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	return &Watcher{
		svc:     svc,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
	}, nil
}

// Run blocks observing the transcript until ctx is cancelled. The
// parent directory is watched rather than the file itself so rotations
// and re-creations are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(w.cfg.TranscriptPath)
	if err := fw.Add(dir); err != nil {
		return err
	}
	logger.Info("watching %s", w.cfg.TranscriptPath)

	if w.cfg.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(w.cfg.Schedule, func() { w.refresh(ctx) }); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
	}

	// The timer fires once the transcript has been quiet long enough.
	quiet := time.NewTimer(w.cfg.QuietGap)
	if !quiet.Stop() {
		<-quiet.C
	}
	defer quiet.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			if !quiet.Stop() {
				select {
				case <-quiet.C:
				default:
				}
			}
			quiet.Reset(w.cfg.QuietGap)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-quiet.C:
			w.refresh(ctx)
		}
	}
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	if event.Name != w.cfg.TranscriptPath {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)
}

// refresh runs one tracking pass, subject to the rate limit.
func (w *Watcher) refresh(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.limiter.Allow() {
		logger.Debug("watch: refresh suppressed by rate limit")
		return
	}

	result, err := w.svc.Track(ctx, w.cfg.TranscriptPath)
	switch {
	case err == nil:
		logger.Info("intent updated: %s", result.Intent)
	case errors.Is(err, domain.ErrNothingToReport),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrTranscriptTooShort):
		logger.Debug("watch: refresh skipped: %v", err)
	default:
		logger.Warn("watch: refresh failed: %v", err)
	}
}
