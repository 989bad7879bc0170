package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. The hook entry point maps
// every one of them to a silent no-op: intent tracking is a best-effort side
// channel and must never break the interactive session that triggered it.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotRepository indicates no git repository was found above the
	// working directory. Without one there is nowhere to record intent.
	ErrNotRepository = errors.New("not inside a git repository")

	// ErrTranscriptTooShort indicates the transcript has too few entries
	// to say anything meaningful about the session.
	ErrTranscriptTooShort = errors.New("transcript too short to analyse")

	// ErrNothingToReport indicates the run produced neither file changes
	// nor enough context items to justify generating an intent.
	ErrNothingToReport = errors.New("nothing to report")

	// ErrRateLimited indicates the cache suppressed this run, either
	// because the context is unchanged or a run happened too recently.
	ErrRateLimited = errors.New("rate limited")

	// ErrGeneratorUnavailable indicates an intent generator is not
	// reachable (missing binary, timeout, API failure). The caller moves
	// on to the next generator in the chain.
	ErrGeneratorUnavailable = errors.New("intent generator unavailable")
)
