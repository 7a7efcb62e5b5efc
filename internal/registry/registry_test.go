package registry

import (
	"testing"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// INTERN / LOOKUP TESTS
// =============================================================================

func TestIntern_NeverZero(t *testing.T) {
	r := New()
	id := r.Intern(KindBreakpoint, "handle-a")
	assert.NotZero(t, id)
}

func TestLookup_ReturnsInternedHandle(t *testing.T) {
	r := New()
	id := r.Intern(KindBreakpoint, "bp-handle")

	got, pErr := r.Lookup(KindBreakpoint, id)
	require.Nil(t, pErr)
	assert.Equal(t, Handle("bp-handle"), got)
}

func TestIntern_DistinctIDsNeverCollide(t *testing.T) {
	r := New()
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		id := r.Intern(KindThread, i)
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}
}

func TestLookup_UnknownID_NotFound(t *testing.T) {
	r := New()
	_, pErr := r.Lookup(KindBreakpoint, 999)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindNotFound, pErr.Kind)
}

// =============================================================================
// FORGET TESTS
// =============================================================================

func TestForget_RemovesEntry(t *testing.T) {
	r := New()
	id := r.Intern(KindWatchpoint, "wp")
	r.Forget(KindWatchpoint, id)

	_, pErr := r.Lookup(KindWatchpoint, id)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindNotFound, pErr.Kind)
}

func TestForget_UnknownID_NoPanic(t *testing.T) {
	r := New()
	assert.NotPanics(t, func() { r.Forget(KindBreakpoint, 12345) })
}

// =============================================================================
// STOP-GENERATION TESTS
// =============================================================================

func TestBumpStopGeneration_StrandsEphemeralIDs(t *testing.T) {
	r := New()
	threadID := r.Intern(KindThread, "t1")
	frameID := r.Intern(KindFrame, "f1")

	r.BumpStopGeneration()

	_, pErr := r.Lookup(KindThread, threadID)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindStaleHandle, pErr.Kind)

	_, pErr = r.Lookup(KindFrame, frameID)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindStaleHandle, pErr.Kind)
}

func TestBumpStopGeneration_DoesNotAffectLongLivedKinds(t *testing.T) {
	r := New()
	bpID := r.Intern(KindBreakpoint, "bp1")
	moduleID := r.Intern(KindModule, "mod1")

	r.BumpStopGeneration()

	_, pErr := r.Lookup(KindBreakpoint, bpID)
	assert.Nil(t, pErr)

	_, pErr = r.Lookup(KindModule, moduleID)
	assert.Nil(t, pErr)
}

func TestBumpStopGeneration_IsMonotonic(t *testing.T) {
	r := New()
	g1 := r.CurrentGeneration()
	g2 := r.BumpStopGeneration()
	g3 := r.BumpStopGeneration()

	assert.Greater(t, g2, g1)
	assert.Greater(t, g3, g2)
}

func TestEphemeralID_ValidWithinSameGeneration(t *testing.T) {
	r := New()
	valueID := r.Intern(KindValue, "v1")

	got, pErr := r.Lookup(KindValue, valueID)
	require.Nil(t, pErr)
	assert.Equal(t, Handle("v1"), got)
}

// NewIDsAfterBump_BelongToNewGeneration verifies that an ID minted
// after a bump survives a subsequent lookup without itself being
// treated as stale.
func TestNewIDsAfterBump_BelongToNewGeneration(t *testing.T) {
	r := New()
	r.BumpStopGeneration()
	id := r.Intern(KindThread, "t-new")

	got, pErr := r.Lookup(KindThread, id)
	require.Nil(t, pErr)
	assert.Equal(t, Handle("t-new"), got)
}

// =============================================================================
// SIZE / RESET TESTS
// =============================================================================

func TestSize_TracksLiveEntries(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Size(KindBreakpoint))

	r.Intern(KindBreakpoint, "a")
	r.Intern(KindBreakpoint, "b")
	assert.Equal(t, 2, r.Size(KindBreakpoint))

	id := r.Intern(KindBreakpoint, "c")
	r.Forget(KindBreakpoint, id)
	assert.Equal(t, 2, r.Size(KindBreakpoint))
}

func TestReset_ClearsAllKinds(t *testing.T) {
	r := New()
	r.Intern(KindBreakpoint, "a")
	r.Intern(KindThread, "b")

	r.Reset()

	assert.Equal(t, 0, r.Size(KindBreakpoint))
	assert.Equal(t, 0, r.Size(KindThread))
}

// =============================================================================
// KIND TESTS
// =============================================================================

func TestKind_Ephemeral(t *testing.T) {
	ephemeral := []Kind{KindThread, KindFrame, KindValue}
	longLived := []Kind{KindBreakpoint, KindWatchpoint, KindModule, KindLocation}

	for _, k := range ephemeral {
		assert.Truef(t, k.Ephemeral(), "%s should be ephemeral", k)
	}
	for _, k := range longLived {
		assert.Falsef(t, k.Ephemeral(), "%s should be long-lived", k)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "breakpoint", KindBreakpoint.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
