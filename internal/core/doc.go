// Package core owns the state of a benchmark run.
//
// # Overview
//
// A run is modeled as a tiny state machine plus a tally of attempts and
// successes. It provides a single concurrency boundary: methods on *State.
//
// # Concurrency & Safety
//
// State is safe for concurrent use. Read access is via GetSnapshot() and
// Summary(), which return copies. Mutation goes through RecordAttempt() and
// SetRunState(), each holding the internal lock briefly.
//
// # Lifecycle
//
// RunState reflects the coarse lifecycle:
//
//	idle     -> running
//	running  -> finished
//	finished -> idle
//
// Attempts may only be recorded while running, and never more than the
// limit given to NewState. The success counter therefore always stays in
// [0, limit]. Returning to idle clears the tally for another run.
package core
