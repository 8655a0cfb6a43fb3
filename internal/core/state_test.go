package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState(0)
	snap := s.GetSnapshot()
	assert.Equal(t, StateIdle, snap.RunState)
	assert.Equal(t, DefaultAttemptLimit, snap.Limit)
	assert.Zero(t, snap.Attempts)
	assert.Zero(t, snap.Successes)
	assert.True(t, snap.StartedAt.IsZero())
}

func TestSetRunState_Transitions(t *testing.T) {
	s := NewState(3)

	assert.ErrorIs(t, s.SetRunState(StateFinished), ErrInvalidTransition)
	require.NoError(t, s.SetRunState(StateRunning))
	require.NoError(t, s.SetRunState(StateRunning), "same state is a no-op")
	assert.ErrorIs(t, s.SetRunState(StateIdle), ErrInvalidTransition)
	require.NoError(t, s.SetRunState(StateFinished))
	assert.ErrorIs(t, s.SetRunState(StateRunning), ErrInvalidTransition)

	snap := s.GetSnapshot()
	assert.False(t, snap.StartedAt.IsZero())
	assert.False(t, snap.FinishedAt.Before(snap.StartedAt))

	require.NoError(t, s.SetRunState(StateIdle))
	assert.True(t, s.GetSnapshot().StartedAt.IsZero())
}

func TestRecordAttempt(t *testing.T) {
	s := NewState(3)
	assert.ErrorIs(t, s.RecordAttempt(true), ErrNotRunning)

	require.NoError(t, s.SetRunState(StateRunning))
	require.NoError(t, s.RecordAttempt(true))
	require.NoError(t, s.RecordAttempt(false))
	require.NoError(t, s.RecordAttempt(true))
	assert.ErrorIs(t, s.RecordAttempt(true), ErrAttemptLimit)

	sum := s.Summary()
	assert.Equal(t, 3, sum.Attempts)
	assert.Equal(t, 2, sum.Successes)

	require.NoError(t, s.SetRunState(StateFinished))
	assert.ErrorIs(t, s.RecordAttempt(true), ErrNotRunning)
	assert.Equal(t, 2, s.Summary().Successes)
}

func TestSummary_Elapsed(t *testing.T) {
	s := NewState(1)
	assert.Zero(t, s.Summary().Elapsed)

	require.NoError(t, s.SetRunState(StateRunning))
	require.NoError(t, s.SetRunState(StateFinished))
	snap := s.GetSnapshot()
	assert.Equal(t, snap.FinishedAt.Sub(snap.StartedAt), s.Summary().Elapsed)
}

func TestSetRunState_IdleClearsTally(t *testing.T) {
	s := NewState(5)
	require.NoError(t, s.SetRunState(StateRunning))
	require.NoError(t, s.RecordAttempt(true))
	require.NoError(t, s.SetRunState(StateFinished))

	require.NoError(t, s.SetRunState(StateIdle))
	snap := s.GetSnapshot()
	assert.Equal(t, StateIdle, snap.RunState)
	assert.Equal(t, 5, snap.Limit)
	assert.Zero(t, snap.Attempts)
	assert.Zero(t, snap.Successes)
	assert.True(t, snap.FinishedAt.IsZero())
}
