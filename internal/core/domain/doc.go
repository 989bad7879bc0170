// Package domain defines the core business entities for intentd.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entry: A canonicalised transcript record
//   - ClassifiedItem: A categorised entry with a relevance score
//   - ContextItem: A classified item that survived dedup and budgeting
//   - BoundaryResult: Where unsummarised work begins in the transcript
//   - DiffSummary: Aggregated version-control changes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
