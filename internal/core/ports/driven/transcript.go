package driven

import "github.com/rajivsinclair/intentd/internal/core/domain"

// TranscriptReader loads session transcript entries from a path.
//
// Readers must be tolerant: unparsable lines are returned as zero-value
// entries rather than dropped, so transcript indexes stay stable for
// boundary detection. Only a missing or unreadable file is an error.
type TranscriptReader interface {
	Read(path string) ([]domain.Entry, error)
}
