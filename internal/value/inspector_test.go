package value

import (
	"context"
	"testing"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/enginehost"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/cangjie-tools/lldb-adapter/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInspector(t *testing.T) (*Inspector, *enginehost.FakeEngine, engine.ProcessHandle, engine.FrameHandle) {
	t.Helper()
	eng := enginehost.NewFakeEngine()
	reg := registry.New()
	in := New(eng, reg)

	ctx := context.Background()
	target, err := eng.CreateFromFile(ctx, "/bin/hello", "arm64")
	require.NoError(t, err)
	proc, err := eng.Launch(ctx, target, engine.LaunchParams{StopAtEntry: true})
	require.NoError(t, err)
	return in, eng, proc, 0
}

// =============================================================================
// VARIABLES / EVALUATE TESTS
// =============================================================================

func TestVariables_InternsFreshIDs(t *testing.T) {
	in, _, proc, frame := newTestInspector(t)
	vals, pErr := in.Variables(context.Background(), proc, frame, protocol.ValueKindAll)
	require.Nil(t, pErr)
	require.Len(t, vals, 1)
	assert.NotZero(t, vals[0].ID)
}

func TestEvaluate_MintsValueID(t *testing.T) {
	in, _, proc, frame := newTestInspector(t)
	v, pErr := in.Evaluate(context.Background(), proc, frame, "1+1")
	require.Nil(t, pErr)
	assert.NotZero(t, v.ID)

	desc, pErr := in.Description(context.Background(), v.ID)
	require.Nil(t, pErr)
	assert.Equal(t, v.Summary, desc)
}

// =============================================================================
// FILTERING POLICY TESTS
// =============================================================================

func TestFilteringPolicy_RoundTrips(t *testing.T) {
	in, _, _, _ := newTestInspector(t)
	assert.Equal(t, protocol.FilteringPolicy{}, in.FilteringPolicy())

	policy := protocol.FilteringPolicy{RecognizedArguments: true, ArtificialValues: true}
	in.SetFilteringPolicy(policy)
	assert.Equal(t, policy, in.FilteringPolicy())
}

// =============================================================================
// CHILD / DATA / DESCRIPTION / ADDRESS / SLICE TESTS
// =============================================================================

func TestChildren_UnknownValue_NotFound(t *testing.T) {
	in, _, _, _ := newTestInspector(t)
	_, _, pErr := in.Children(context.Background(), 9999, 0, 0, 1, 0)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindNotFound, pErr.Kind)
}

func TestChildren_KnownValue_NoChildren(t *testing.T) {
	in, _, proc, frame := newTestInspector(t)
	v, _ := in.Evaluate(context.Background(), proc, frame, "x")

	children, hasMore, pErr := in.Children(context.Background(), v.ID, 0, 0, 1, 0)
	require.Nil(t, pErr)
	assert.False(t, hasMore)
	assert.Empty(t, children)
}

func TestChildren_MaxChildrenCapsRequestedCount(t *testing.T) {
	in, eng, proc, frame := newTestInspector(t)
	v, _ := in.Evaluate(context.Background(), proc, frame, "x")

	_, _, pErr := in.Children(context.Background(), v.ID, 0, 4096, 1, 10)
	require.Nil(t, pErr)
	assert.Equal(t, uint32(10), eng.LastChildrenCount)
}

func TestChildren_ZeroMaxChildrenLeavesDefaultCapInPlace(t *testing.T) {
	in, eng, proc, frame := newTestInspector(t)
	v, _ := in.Evaluate(context.Background(), proc, frame, "x")

	_, _, pErr := in.Children(context.Background(), v.ID, 0, 0, 1, 0)
	require.Nil(t, pErr)
	assert.Equal(t, uint32(maxChildrenPerPage), eng.LastChildrenCount)
}

func TestChildrenCount_UnknownValue_NotFound(t *testing.T) {
	in, _, _, _ := newTestInspector(t)
	_, pErr := in.ChildrenCount(context.Background(), 9999)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindNotFound, pErr.Kind)
}

func TestData_ReturnsRawBytes(t *testing.T) {
	in, _, proc, frame := newTestInspector(t)
	v, _ := in.Evaluate(context.Background(), proc, frame, "x")

	data, pErr := in.Data(context.Background(), v.ID)
	require.Nil(t, pErr)
	assert.Equal(t, []byte(v.RawValue), data)
}

func TestAddress_UnknownValue_NotFound(t *testing.T) {
	in, _, _, _ := newTestInspector(t)
	_, _, pErr := in.Address(context.Background(), 9999)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindNotFound, pErr.Kind)
}

func TestArraySlice_UnknownValue_NotFound(t *testing.T) {
	in, _, _, _ := newTestInspector(t)
	_, pErr := in.ArraySlice(context.Background(), 9999, 0, 10)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindNotFound, pErr.Kind)
}
