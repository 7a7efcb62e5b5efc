package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TARGET/PROCESS PAYLOAD ROUND-TRIPS
// =============================================================================

func TestLaunchRequest_RoundTrip(t *testing.T) {
	req := LaunchRequest{
		Args:        []string{"--verbose"},
		Env:         []string{"FOO=bar"},
		WorkingDir:  "/tmp",
		StopAtEntry: true,
	}
	got, err := DecodeLaunchRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestAttachByNameRequest_RoundTrip(t *testing.T) {
	req := AttachByNameRequest{ProcessName: "worker", WaitFor: true}
	got, err := DecodeAttachByNameRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestDetachRequest_RoundTrip(t *testing.T) {
	req := DetachRequest{LeaveSuspended: true}
	got, err := DecodeDetachRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

// =============================================================================
// EXECUTION PAYLOAD ROUND-TRIPS
// =============================================================================

func TestJumpToLineRequest_RoundTrip(t *testing.T) {
	req := JumpToLineRequest{
		ThreadScopedRequest: ThreadScopedRequest{ThreadID: 4},
		Location:            SourceLocation{FilePath: "main.go", Line: 17},
	}
	got, err := DecodeJumpToLineRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestStepScriptedRequest_RoundTrip(t *testing.T) {
	req := StepScriptedRequest{
		ThreadScopedRequest: ThreadScopedRequest{ThreadID: 1},
		PlanName:            "generator-resume",
		Args:                []string{"a", "b"},
	}
	got, err := DecodeStepScriptedRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

// =============================================================================
// BREAKPOINT PAYLOAD ROUND-TRIPS
// =============================================================================

func TestAddBreakpointRequest_RoundTrip(t *testing.T) {
	cond := "x == 1"
	req := AddBreakpointRequest{
		Spec:        BreakpointSpec{Kind: BPKindLine, Line: SourceLocation{FilePath: "a.go", Line: 9}},
		Condition:   &cond,
		IgnoreCount: 1,
		Enabled:     true,
	}
	got, err := DecodeAddBreakpointRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestSetThreadRestrictionRequest_RoundTrip_NilAndSet(t *testing.T) {
	nilReq := SetThreadRestrictionRequest{BreakpointID: 1}
	got, err := DecodeSetThreadRestrictionRequest(nilReq.Encode())
	require.NoError(t, err)
	assert.Nil(t, got.ThreadID)

	tid := uint64(7)
	setReq := SetThreadRestrictionRequest{BreakpointID: 1, ThreadID: &tid}
	got2, err := DecodeSetThreadRestrictionRequest(setReq.Encode())
	require.NoError(t, err)
	require.NotNil(t, got2.ThreadID)
	assert.Equal(t, tid, *got2.ThreadID)
}

// =============================================================================
// VALUE PAYLOAD ROUND-TRIPS
// =============================================================================

func TestVariablesRequest_RoundTrip(t *testing.T) {
	req := VariablesRequest{FrameID: 3, KindMask: ValueKindArguments | ValueKindLocals}
	got, err := DecodeVariablesRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
	assert.True(t, got.KindMask&ValueKindArguments != 0)
	assert.True(t, got.KindMask&ValueKindStatics == 0)
}

func TestValueChildrenRequest_RoundTrip(t *testing.T) {
	req := ValueChildrenRequest{ValueID: 1, Offset: 10, Count: 20, MaxDepth: 2, MaxChildren: 100}
	got, err := DecodeValueChildrenRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestValueChildrenResponse_RoundTrip(t *testing.T) {
	resp := ValueChildrenResponse{
		Children: []Value{{ID: 1, Name: "x", TypeName: "int"}},
		HasMore:  true,
	}
	got, err := DecodeValueChildrenResponse(resp.Encode())
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestEvaluateRequest_RoundTrip(t *testing.T) {
	req := EvaluateRequest{FrameID: 1, Expression: "x + y"}
	got, err := DecodeEvaluateRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

// =============================================================================
// MEMORY/DISASSEMBLY PAYLOAD ROUND-TRIPS
// =============================================================================

func TestDisassembleResponse_RoundTrip(t *testing.T) {
	resp := DisassembleResponse{
		Instructions: []Instruction{
			{Address: 0x1000, RawBytes: []byte{0x90}, Mnemonic: "nop", Operands: ""},
			{Address: 0x1001, RawBytes: []byte{0xc3}, Mnemonic: "ret", Operands: "", Source: &SourceLocation{FilePath: "a.go", Line: 1}},
		},
	}
	got, err := DecodeDisassembleResponse(resp.Encode())
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestDumpSectionsResponse_RoundTrip(t *testing.T) {
	resp := DumpSectionsResponse{
		Sections: []Section{
			{Name: ".text", LoadAddress: 0x400000, Size: 4096, Permissions: "r-x", ModulePath: "/bin/app"},
		},
	}
	got, err := DecodeDumpSectionsResponse(resp.Encode())
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

// =============================================================================
// REGISTER PAYLOAD ROUND-TRIPS
// =============================================================================

func TestGetRegistersResponse_RoundTrip(t *testing.T) {
	resp := GetRegistersResponse{
		Registers: []Register{
			{Name: "rax", Value: []byte{1, 0, 0, 0, 0, 0, 0, 0}},
			{Name: "rip", Value: []byte{0, 0x10, 0x40, 0, 0, 0, 0, 0}},
		},
	}
	got, err := DecodeGetRegistersResponse(resp.Encode())
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestGetArchitectureResponse_RoundTrip(t *testing.T) {
	resp := GetArchitectureResponse{Architecture: "arm64", AddressSize: 8}
	got, err := DecodeGetArchitectureResponse(resp.Encode())
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

// =============================================================================
// CONSOLE PAYLOAD ROUND-TRIPS
// =============================================================================

func TestHandleCompletionRequest_RoundTrip(t *testing.T) {
	req := HandleCompletionRequest{Line: "pr", CursorPos: 2}
	got, err := DecodeHandleCompletionRequest(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestExecuteShellCommandResponse_RoundTrip(t *testing.T) {
	resp := ExecuteShellCommandResponse{ExitCode: 1, Stdout: "out", Stderr: "err"}
	got, err := DecodeExecuteShellCommandResponse(resp.Encode())
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

// =============================================================================
// EVENT PAYLOAD ROUND-TRIPS
// =============================================================================

func TestBreakpointLocationsResolvedEvent_RoundTrip(t *testing.T) {
	evt := BreakpointLocationsResolvedEvent{
		BreakpointID: 1,
		Locations: []Location{
			{LocationID: 1, Address: 0x1000, Resolved: true, SourceLocation: &SourceLocation{FilePath: "a.go", Line: 4}},
		},
	}
	got, err := DecodeBreakpointLocationsResolvedEvent(evt.Encode())
	require.NoError(t, err)
	assert.Equal(t, evt, got)
}

func TestProcessExitedEvent_RoundTrip(t *testing.T) {
	evt := ProcessExitedEvent{ProcessID: 9, ExitCode: 1, Signaled: false}
	got, err := DecodeProcessExitedEvent(evt.Encode())
	require.NoError(t, err)
	assert.Equal(t, evt, got)
}

func TestStdoutEvent_RoundTrip(t *testing.T) {
	evt := StdoutEvent{Data: []byte("line of output\n")}
	got, err := DecodeStdoutEvent(evt.Encode())
	require.NoError(t, err)
	assert.Equal(t, evt, got)
}
