package driven

// IntentCache suppresses redundant generator invocations between runs.
//
// Implementations persist a single record (last run time plus the previous
// context hash) with whole-file overwrite semantics. No locking: only one
// caller process runs at a time, and staleness is bounded by the TTL.
type IntentCache interface {
	// ShouldUpdate reports whether a run with this context hash should
	// proceed. False when the hash matches the previous run or the last
	// run was too recent.
	ShouldUpdate(contextHash string) bool

	// Record stores the hash and current time after a successful run.
	Record(contextHash string) error
}
