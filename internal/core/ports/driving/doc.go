// Package driving defines the interfaces through which the outside world
// drives the core (primary ports). The CLI hook command and the transcript
// watcher both call in through IntentService.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
