package core

import (
	"errors"
	"sync"
	"time"
)

// RunState represents the lifecycle of one benchmark run.
// The intended transitions:
//
// idle     -> running
// running  -> finished
// finished -> idle
//
// Transitions outside this set are rejected by SetRunState.
type RunState string

const (
	StateIdle     RunState = "idle"
	StateRunning  RunState = "running"
	StateFinished RunState = "finished"
)

// DefaultAttemptLimit is the number of attempts in a standard run.
const DefaultAttemptLimit = 100

var (
	// ErrInvalidTransition is returned when SetRunState receives an illegal transition.
	ErrInvalidTransition = errors.New("invalid run state transition")
	// ErrNotRunning is returned when an attempt is recorded outside a running run.
	ErrNotRunning = errors.New("run is not in progress")
	// ErrAttemptLimit is returned when more attempts are recorded than the run allows.
	ErrAttemptLimit = errors.New("attempt limit reached")
)

// RunSummary is the final tally of a run.
type RunSummary struct {
	Attempts  int           // attempts performed
	Successes int           // attempts whose response matched
	Elapsed   time.Duration // wall time between start and finish
}

// Snapshot is a copy of the run state, safe to retain without locking.
type Snapshot struct {
	RunState   RunState
	Limit      int
	Attempts   int
	Successes  int
	StartedAt  time.Time
	FinishedAt time.Time
}

// State holds the mutable run tally with synchronization.
// Use the provided methods to mutate; callers should never take the lock directly.
type State struct {
	mu         sync.RWMutex
	run        RunState
	limit      int
	attempts   int
	successes  int
	startedAt  time.Time
	finishedAt time.Time
}

// NewState constructs an idle state allowing limit attempts.
// A non-positive limit falls back to DefaultAttemptLimit.
func NewState(limit int) *State {
	if limit <= 0 {
		limit = DefaultAttemptLimit
	}
	return &State{
		run:   StateIdle,
		limit: limit,
	}
}

// GetSnapshot returns a copy safe for concurrent reads.
func (s *State) GetSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		RunState:   s.run,
		Limit:      s.limit,
		Attempts:   s.attempts,
		Successes:  s.successes,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

// Summary returns the tally. Elapsed is measured up to now while the run is
// still in progress and is zero before it starts.
func (s *State) Summary() RunSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var elapsed time.Duration
	switch {
	case s.startedAt.IsZero():
	case s.finishedAt.IsZero():
		elapsed = time.Since(s.startedAt)
	default:
		elapsed = s.finishedAt.Sub(s.startedAt)
	}
	return RunSummary{
		Attempts:  s.attempts,
		Successes: s.successes,
		Elapsed:   elapsed,
	}
}

// RecordAttempt counts one finished attempt. The success counter moves at
// most once per call and never decreases.
func (s *State) RecordAttempt(success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run != StateRunning {
		return ErrNotRunning
	}
	if s.attempts >= s.limit {
		return ErrAttemptLimit
	}
	s.attempts++
	if success {
		s.successes++
	}
	return nil
}

// SetRunState moves the run to the next state. Entering running stamps the
// start time and entering finished stamps the finish time. Entering idle
// clears the tally.
//
// Returns ErrInvalidTransition if the (current -> next) edge is not allowed.
func (s *State) SetRunState(next RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.run
	if cur == next {
		return nil
	}
	if !allowedTransition(cur, next) {
		return ErrInvalidTransition
	}

	switch next {
	case StateRunning:
		s.startedAt = time.Now()
		s.finishedAt = time.Time{}
	case StateFinished:
		s.finishedAt = time.Now()
	case StateIdle:
		s.clear()
	}
	s.run = next
	return nil
}

func allowedTransition(cur, next RunState) bool {
	switch cur {
	case StateIdle:
		return next == StateRunning
	case StateRunning:
		return next == StateFinished
	case StateFinished:
		return next == StateIdle
	default:
		return false
	}
}

func (s *State) clear() {
	s.attempts = 0
	s.successes = 0
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
}
