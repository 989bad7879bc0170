package domain

import "time"

// Limits holds the hand-tuned constants steering the distillation
// pipeline. The values are deliberate approximations; they are kept
// configurable rather than derived, and tests pin the defaults.
type Limits struct {
	// MaxLookback caps how many entries a boundary detector scans
	// backwards. Very old entries rarely affect a current summary.
	MaxLookback int

	// TailWindow is the fallback boundary size when no detector matches.
	TailWindow int

	// TargetTokens is the soft context budget. Ordinary items stop being
	// admitted once the running estimate passes it.
	TargetTokens int

	// MaxTokens is the hard cap. Nothing is admitted beyond it.
	MaxTokens int

	// CharsPerToken divides serialised field bytes into a token estimate.
	// JSON is punctuation-heavy, so it sits below the usual 4.
	CharsPerToken float64

	// MinRelevance is the inclusion threshold for context items.
	MinRelevance int

	// TopTierRelevance marks items that may still be admitted between the
	// soft target and the hard cap.
	TopTierRelevance int

	// MinEntries is the minimum transcript length worth analysing.
	MinEntries int

	// CacheTTL is the minimum gap between generator invocations.
	CacheTTL time.Duration
}

// DefaultLimits returns the tuned defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxLookback:      500,
		TailWindow:       150,
		TargetTokens:     2000,
		MaxTokens:        3000,
		CharsPerToken:    3.5,
		MinRelevance:     2,
		TopTierRelevance: 8,
		MinEntries:       5,
		CacheTTL:         30 * time.Second,
	}
}
