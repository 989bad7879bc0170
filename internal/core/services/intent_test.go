package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
)

type stubReader struct {
	entries []domain.Entry
	err     error
}

func (r *stubReader) Read(path string) ([]domain.Entry, error) {
	return r.entries, r.err
}

type stubDiff struct {
	summary domain.DiffSummary
	err     error
}

func (d *stubDiff) Summary(ctx context.Context) (domain.DiffSummary, error) {
	return d.summary, d.err
}

type stubGenerator struct {
	name    string
	intent  string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.intent, g.err
}

func (g *stubGenerator) Name() string { return g.name }

type stubCache struct {
	allow    bool
	recorded []string
}

func (c *stubCache) ShouldUpdate(hash string) bool { return c.allow }

func (c *stubCache) Record(hash string) error {
	c.recorded = append(c.recorded, hash)
	return nil
}

type stubStore struct {
	intents []string
	debug   []domain.DebugRecord
	err     error
}

func (s *stubStore) WriteIntent(intent string) error {
	if s.err != nil {
		return s.err
	}
	s.intents = append(s.intents, intent)
	return nil
}

func (s *stubStore) AppendDebug(rec domain.DebugRecord) error {
	s.debug = append(s.debug, rec)
	return nil
}

func sessionEntries() []domain.Entry {
	return []domain.Entry{
		humanEntry("add retry logic to fetch"),
		assistantText("Sure, let me do that."),
		fileEdit("internal/fetch.go"),
		toolResult("ok"),
		assistantText("Implemented retry logic with backoff."),
	}
}

func newTestService(reader *stubReader, diff *stubDiff, gens []*stubGenerator, cache *stubCache, store *stubStore) *IntentService {
	var generators []driven.IntentGenerator
	for _, g := range gens {
		generators = append(generators, g)
	}
	svc := NewIntentService(reader, diff, generators, cache, store, domain.DefaultLimits())
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestTrack_Success(t *testing.T) {
	reader := &stubReader{entries: sessionEntries()}
	diff := &stubDiff{summary: domain.DiffSummary{Modified: []string{"internal/fetch.go"}}}
	gen := &stubGenerator{name: "cli", intent: "feat: add retry logic to fetch"}
	cache := &stubCache{allow: true}
	store := &stubStore{}

	result, err := newTestService(reader, diff, []*stubGenerator{gen}, cache, store).Track(context.Background(), "t.jsonl")

	require.NoError(t, err)
	assert.Equal(t, "feat: add retry logic to fetch", result.Intent)
	assert.Equal(t, "cli", result.Generator)
	assert.Equal(t, []string{"feat: add retry logic to fetch"}, store.intents)
	assert.Len(t, cache.recorded, 1)
	assert.Equal(t, cache.recorded[0], result.ContextHash)
	assert.Equal(t, "===INTENT_BOUNDARY=== 2026-08-30T12:00:00Z | feat: add retry logic to fetch", result.Marker)

	require.Len(t, store.debug, 1)
	assert.Equal(t, result.Boundary, store.debug[0].Boundary)
	assert.Equal(t, 1, store.debug[0].DiffFiles)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "add retry logic to fetch")
}

func TestTrack_TranscriptTooShort(t *testing.T) {
	reader := &stubReader{entries: []domain.Entry{humanEntry("hi")}}

	_, err := newTestService(reader, &stubDiff{}, nil, &stubCache{allow: true}, &stubStore{}).Track(context.Background(), "t.jsonl")

	assert.ErrorIs(t, err, domain.ErrTranscriptTooShort)
}

func TestTrack_ReadFailure(t *testing.T) {
	reader := &stubReader{err: errors.New("no such file")}

	_, err := newTestService(reader, &stubDiff{}, nil, &stubCache{allow: true}, &stubStore{}).Track(context.Background(), "missing.jsonl")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read transcript")
}

func TestTrack_NothingToReport(t *testing.T) {
	// Five entries of pure noise, a clean diff: nothing worth generating.
	reader := &stubReader{entries: []domain.Entry{
		assistantTool("Read", nil),
		assistantTool("Grep", nil),
		assistantTool("Read", nil),
		toolResult("ok"),
		assistantTool("WebSearch", nil),
	}}

	_, err := newTestService(reader, &stubDiff{}, nil, &stubCache{allow: true}, &stubStore{}).Track(context.Background(), "t.jsonl")

	assert.ErrorIs(t, err, domain.ErrNothingToReport)
}

func TestTrack_RateLimited(t *testing.T) {
	reader := &stubReader{entries: sessionEntries()}
	gen := &stubGenerator{name: "cli", intent: "feat: x"}
	store := &stubStore{}

	_, err := newTestService(reader, &stubDiff{}, []*stubGenerator{gen}, &stubCache{allow: false}, store).Track(context.Background(), "t.jsonl")

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Empty(t, gen.prompts, "rate limiting must happen before generation")
	assert.Empty(t, store.intents)
}

func TestTrack_GeneratorChainFallsBack(t *testing.T) {
	reader := &stubReader{entries: sessionEntries()}
	primary := &stubGenerator{name: "cli", err: domain.ErrGeneratorUnavailable}
	fallback := &stubGenerator{name: "static", intent: "chore: update project files"}
	store := &stubStore{}

	result, err := newTestService(reader, &stubDiff{}, []*stubGenerator{primary, fallback}, &stubCache{allow: true}, store).Track(context.Background(), "t.jsonl")

	require.NoError(t, err)
	assert.Equal(t, "chore: update project files", result.Intent)
	assert.Equal(t, "static", result.Generator)
	assert.Len(t, primary.prompts, 1)
}

func TestTrack_AllGeneratorsFail(t *testing.T) {
	reader := &stubReader{entries: sessionEntries()}
	gen := &stubGenerator{name: "cli", err: errors.New("binary not found")}

	_, err := newTestService(reader, &stubDiff{}, []*stubGenerator{gen}, &stubCache{allow: true}, &stubStore{}).Track(context.Background(), "t.jsonl")

	assert.ErrorIs(t, err, domain.ErrGeneratorUnavailable)
}

func TestTrack_DiffFailureDegrades(t *testing.T) {
	reader := &stubReader{entries: sessionEntries()}
	diff := &stubDiff{err: errors.New("not a git repository")}
	gen := &stubGenerator{name: "cli", intent: "feat: add retry"}

	result, err := newTestService(reader, diff, []*stubGenerator{gen}, &stubCache{allow: true}, &stubStore{}).Track(context.Background(), "t.jsonl")

	require.NoError(t, err)
	assert.Equal(t, "feat: add retry", result.Intent)
	require.Len(t, gen.prompts, 1)
	assert.NotContains(t, gen.prompts[0], "Git changes:")
}

func TestTrack_SameContextSameHash(t *testing.T) {
	reader := &stubReader{entries: sessionEntries()}
	gen := &stubGenerator{name: "cli", intent: "feat: x"}
	cache := &stubCache{allow: true}

	svc := newTestService(reader, &stubDiff{}, []*stubGenerator{gen}, cache, &stubStore{})
	first, err := svc.Track(context.Background(), "t.jsonl")
	require.NoError(t, err)
	second, err := svc.Track(context.Background(), "t.jsonl")
	require.NoError(t, err)

	assert.Equal(t, first.ContextHash, second.ContextHash)
}
