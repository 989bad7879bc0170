// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TranscriptReader: Reads session transcript entries
//   - IntentGenerator: Produces the one-line intent message
//   - IntentCache: Rate-limit / dedup cache between runs
//   - IntentStore: Persists the intent file and debug log
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - DiffProvider: Version-control change summary. When it fails, the run
//     proceeds on transcript context alone.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
