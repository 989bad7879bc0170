package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
	"github.com/rajivsinclair/intentd/internal/core/ports/driving"
	"github.com/rajivsinclair/intentd/internal/logger"
)

// Ensure IntentService implements the interface.
var _ driving.IntentService = (*IntentService)(nil)

// IntentService orchestrates one tracking run: read the transcript, locate
// the boundary, distill, summarise the diff, compose, rate-limit, generate,
// persist. It holds no state between runs; everything persisted goes
// through the cache and store ports.
type IntentService struct {
	transcripts driven.TranscriptReader
	diff        driven.DiffProvider
	generators  []driven.IntentGenerator
	cache       driven.IntentCache
	store       driven.IntentStore

	locator   *BoundaryLocator
	distiller *Distiller
	limits    domain.Limits

	// now is injectable for tests.
	now func() time.Time
}

// NewIntentService creates the service. The generator chain is tried in
// order; the last element should be one that cannot fail.
func NewIntentService(
	transcripts driven.TranscriptReader,
	diff driven.DiffProvider,
	generators []driven.IntentGenerator,
	cache driven.IntentCache,
	store driven.IntentStore,
	limits domain.Limits,
) *IntentService {
	return &IntentService{
		transcripts: transcripts,
		diff:        diff,
		generators:  generators,
		cache:       cache,
		store:       store,
		locator:     NewBoundaryLocator(limits),
		distiller:   NewDistiller(limits),
		limits:      limits,
		now:         time.Now,
	}
}

// Track runs the pipeline once over the transcript at the given path.
func (s *IntentService) Track(ctx context.Context, transcriptPath string) (domain.IntentResult, error) {
	entries, err := s.transcripts.Read(transcriptPath)
	if err != nil {
		return domain.IntentResult{}, fmt.Errorf("read transcript: %w", err)
	}
	if len(entries) < s.limits.MinEntries {
		return domain.IntentResult{}, domain.ErrTranscriptTooShort
	}

	boundary := s.locator.Locate(entries)
	items := s.distiller.Distill(entries, boundary.Index)
	logger.Debug("boundary %s at %d/%d, %d context items",
		boundary.Reason, boundary.Index, len(entries), len(items))

	diff := s.diffSummary(ctx)
	if diff.TotalFiles() == 0 && len(items) < 2 {
		return domain.IntentResult{}, domain.ErrNothingToReport
	}

	prompt := BuildPrompt(ComposeContext(items, diff))
	hash := contextHash(prompt)
	if !s.cache.ShouldUpdate(hash) {
		return domain.IntentResult{}, domain.ErrRateLimited
	}

	intent, generator, err := s.generate(ctx, prompt)
	if err != nil {
		return domain.IntentResult{}, err
	}

	if err := s.store.WriteIntent(intent); err != nil {
		return domain.IntentResult{}, fmt.Errorf("write intent: %w", err)
	}
	if err := s.cache.Record(hash); err != nil {
		logger.Warn("record cache: %v", err)
	}

	now := s.now()
	if err := s.store.AppendDebug(domain.DebugRecord{
		At:        now,
		Boundary:  boundary,
		ItemCount: len(items),
		DiffFiles: diff.TotalFiles(),
		Intent:    intent,
	}); err != nil {
		logger.Warn("append debug log: %v", err)
	}

	return domain.IntentResult{
		Intent:      intent,
		Generator:   generator,
		Boundary:    boundary,
		Items:       items,
		ContextHash: hash,
		Marker:      domain.MarkerLine(now, intent),
	}, nil
}

// diffSummary is best effort: a diff failure degrades the run to
// transcript-only context instead of aborting it.
func (s *IntentService) diffSummary(ctx context.Context) domain.DiffSummary {
	if s.diff == nil {
		return domain.DiffSummary{}
	}
	diff, err := s.diff.Summary(ctx)
	if err != nil {
		logger.Warn("diff summary: %v", err)
		return domain.DiffSummary{}
	}
	return diff
}

// generate tries the generator chain in order, returning the first
// non-empty result.
func (s *IntentService) generate(ctx context.Context, prompt string) (string, string, error) {
	for _, g := range s.generators {
		intent, err := g.Generate(ctx, prompt)
		if err != nil {
			logger.Debug("generator %s: %v", g.Name(), err)
			continue
		}
		if intent == "" {
			continue
		}
		return intent, g.Name(), nil
	}
	return "", "", domain.ErrGeneratorUnavailable
}

// contextHash is the opaque identity of a composed prompt, used only for
// cross-run rate limiting.
func contextHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
