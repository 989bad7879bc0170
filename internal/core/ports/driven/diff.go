package driven

import (
	"context"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

// DiffProvider summarises uncommitted version-control changes in the
// repository the session is working in.
type DiffProvider interface {
	Summary(ctx context.Context) (domain.DiffSummary, error)
}
