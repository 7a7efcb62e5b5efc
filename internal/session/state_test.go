package session

import (
	"testing"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// INITIAL STATE TESTS
// =============================================================================

func TestNew_StartsUninitialized(t *testing.T) {
	s := New()
	assert.Equal(t, StateUninitialized, s.State())
	assert.Zero(t, s.CurrentTargetID())
	assert.Zero(t, s.CurrentProcessID())
}

// =============================================================================
// PRECONDITION TESTS
// =============================================================================

func TestRequirePreconditions_NoTarget(t *testing.T) {
	s := New()
	err := s.RequirePreconditions(true, false, false)
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrorKindNoTarget, err.Kind)
}

func TestRequirePreconditions_NoProcess(t *testing.T) {
	s := New()
	s.CreateTarget(1)

	err := s.RequirePreconditions(true, true, false)
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrorKindNoProcess, err.Kind)
}

func TestRequirePreconditions_NotStopped(t *testing.T) {
	s := New()
	s.CreateTarget(1)
	require.Nil(t, s.BeginLaunch())
	s.SetProcess(10)
	s.TransitionToRunning()

	err := s.RequirePreconditions(true, true, true)
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrorKindNotStopped, err.Kind)
}

func TestRequirePreconditions_AllSatisfied(t *testing.T) {
	s := New()
	s.CreateTarget(1)
	require.Nil(t, s.BeginLaunch())
	s.SetProcess(10)
	s.TransitionToStopped()

	err := s.RequirePreconditions(true, true, true)
	assert.Nil(t, err)
}

// =============================================================================
// TRANSITION TESTS
// =============================================================================

func TestCreateTarget_TransitionsAndReportsPrior(t *testing.T) {
	s := New()
	hadPrior := s.CreateTarget(1)
	assert.False(t, hadPrior)
	assert.Equal(t, StateTargetCreated, s.State())
	assert.Equal(t, uint64(1), s.CurrentTargetID())

	hadPrior = s.CreateTarget(2)
	assert.True(t, hadPrior)
	assert.Equal(t, uint64(2), s.CurrentTargetID())
	assert.Zero(t, s.CurrentProcessID())
}

func TestBeginLaunch_RejectsWithoutTarget(t *testing.T) {
	s := New()
	err := s.BeginLaunch()
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrorKindNoTarget, err.Kind)
}

func TestBeginLaunch_RejectsAlreadyLaunched(t *testing.T) {
	s := New()
	s.CreateTarget(1)
	require.Nil(t, s.BeginLaunch())
	s.SetProcess(5)
	s.TransitionToStopped()

	err := s.BeginLaunch()
	require.NotNil(t, err)
	assert.Equal(t, protocol.ErrorKindAlreadyLaunched, err.Kind)
}

func TestLaunchLifecycle_StoppedAtEntry(t *testing.T) {
	s := New()
	s.CreateTarget(1)
	require.Nil(t, s.BeginLaunch())
	assert.Equal(t, StateLaunching, s.State())

	s.SetProcess(7)
	s.TransitionToStopped()

	assert.Equal(t, StateStopped, s.State())
	assert.Equal(t, uint64(7), s.CurrentProcessID())
}

func TestContinueThenStop_BumpsGenerationOnceEachRun(t *testing.T) {
	s := New()
	s.CreateTarget(1)
	require.Nil(t, s.BeginLaunch())
	s.SetProcess(1)
	s.TransitionToStopped()

	g0 := s.StopGeneration()
	g1 := s.TransitionToRunning()
	assert.Equal(t, g0+1, g1)

	s.TransitionToStopped()
	g2 := s.TransitionToRunning()
	assert.Equal(t, g1+1, g2)
}

func TestTransitionToExited_KeepsProcessAndTarget(t *testing.T) {
	s := New()
	s.CreateTarget(1)
	require.Nil(t, s.BeginLaunch())
	s.SetProcess(9)
	s.TransitionToStopped()

	s.TransitionToExited()

	assert.Equal(t, StateExited, s.State())
	assert.Equal(t, uint64(9), s.CurrentProcessID())
	assert.Equal(t, uint64(1), s.CurrentTargetID())
}

func TestExitedThenLaunch_ReusesCurrentTargetAndClearsOldProcess(t *testing.T) {
	s := New()
	s.CreateTarget(1)
	require.Nil(t, s.BeginLaunch())
	s.SetProcess(9)
	s.TransitionToStopped()
	s.TransitionToExited()

	require.Nil(t, s.BeginLaunch())
	assert.Equal(t, StateLaunching, s.State())
	assert.Equal(t, uint64(1), s.CurrentTargetID())
	assert.Zero(t, s.CurrentProcessID())
}

// =============================================================================
// INITIALIZED-ONCE TESTS
// =============================================================================

func TestMarkInitialized_OnlyFirstCallReturnsTrue(t *testing.T) {
	s := New()
	assert.True(t, s.MarkInitialized())
	assert.False(t, s.MarkInitialized())
	assert.False(t, s.MarkInitialized())
}

// =============================================================================
// STATE STRING TESTS
// =============================================================================

func TestState_String(t *testing.T) {
	assert.Equal(t, "STOPPED", StateStopped.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
}
