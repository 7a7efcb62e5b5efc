package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SOURCE LOCATION / BREAKPOINT SPEC TESTS
// =============================================================================

func TestBreakpointSpec_LineRoundTrip(t *testing.T) {
	col := int32(12)
	spec := BreakpointSpec{
		Kind: BPKindLine,
		Line: SourceLocation{FilePath: "main.go", Line: 10, Column: &col},
	}

	w := NewWriter()
	spec.Encode(w)

	got, err := DecodeBreakpointSpec(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, spec, got)
}

func TestBreakpointSpec_WatchpointRoundTrip(t *testing.T) {
	spec := BreakpointSpec{
		Kind:         BPKindWatchpoint,
		WatchAddress: 0x1000,
		WatchSize:    8,
		WatchWrite:   true,
	}

	w := NewWriter()
	spec.Encode(w)

	got, err := DecodeBreakpointSpec(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, spec, got)
}

func TestBreakpointSpec_FunctionRoundTrip(t *testing.T) {
	spec := BreakpointSpec{Kind: BPKindFunction, FunctionName: "main.run", Mangled: false}

	w := NewWriter()
	spec.Encode(w)

	got, err := DecodeBreakpointSpec(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, spec, got)
}

// =============================================================================
// BREAKPOINT TESTS
// =============================================================================

func TestBreakpoint_RoundTrip(t *testing.T) {
	cond := "i > 3"
	thread := uint64(2)
	bp := Breakpoint{
		ID:                1,
		Spec:              BreakpointSpec{Kind: BPKindLine, Line: SourceLocation{FilePath: "a.go", Line: 5}},
		Condition:         &cond,
		IgnoreCount:       2,
		ThreadRestriction: &thread,
		Enabled:           true,
		Locations: []Location{
			{LocationID: 1, Address: 0x4000, Resolved: true},
		},
		HitCount: 3,
	}

	w := NewWriter()
	bp.Encode(w)

	got, err := DecodeBreakpoint(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, bp, got)
}

func TestBreakpoint_NoOptionalFields(t *testing.T) {
	bp := Breakpoint{
		ID:      2,
		Spec:    BreakpointSpec{Kind: BPKindAddress, Address: 0x8000},
		Enabled: false,
	}

	w := NewWriter()
	bp.Encode(w)

	got, err := DecodeBreakpoint(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Nil(t, got.Condition)
	assert.Nil(t, got.ThreadRestriction)
	assert.Empty(t, got.Locations)
}

// =============================================================================
// STOP INFO / THREAD / FRAME TESTS
// =============================================================================

func TestStopInfo_RoundTrip(t *testing.T) {
	si := StopInfo{Reason: StopReasonSignal, Signo: 11, SignalName: "SIGSEGV", Description: "segfault"}

	w := NewWriter()
	si.Encode(w)

	got, err := DecodeStopInfo(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, si, got)
}

func TestThread_RoundTrip_WithAndWithoutStopInfo(t *testing.T) {
	stopped := Thread{ID: 1, NativeTID: 9001, Name: "main", State: "stopped", StopInfo: &StopInfo{Reason: StopReasonStep}}
	running := Thread{ID: 2, NativeTID: 9002, Name: "worker", State: "running"}

	for _, th := range []Thread{stopped, running} {
		w := NewWriter()
		th.Encode(w)
		got, err := DecodeThread(NewReader(w.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, th, got)
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	f := Frame{ID: 1, FunctionName: "main.main", SourceLocation: &SourceLocation{FilePath: "main.go", Line: 20}, PC: 0x401000}

	w := NewWriter()
	f.Encode(w)

	got, err := DecodeFrame(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

// =============================================================================
// VALUE / FILTERING POLICY TESTS
// =============================================================================

func TestValue_RoundTrip(t *testing.T) {
	addr := uint64(0x2000)
	v := Value{
		ID:              5,
		Name:            "x",
		TypeName:        "int",
		Summary:         "42",
		RawValue:        "42",
		ChildrenCount:   -1,
		HasMoreChildren: false,
		Address:         &addr,
	}

	w := NewWriter()
	v.Encode(w)

	got, err := DecodeValue(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestValues_SliceRoundTrip(t *testing.T) {
	vals := []Value{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}

	w := NewWriter()
	encodeValues(w, vals)

	got, err := decodeValues(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, vals, got)
}

func TestFilteringPolicy_RoundTrip(t *testing.T) {
	p := FilteringPolicy{RecognizedArguments: true, RuntimeSupportValues: false, ArtificialValues: true}

	w := NewWriter()
	p.Encode(w)

	got, err := DecodeFilteringPolicy(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
