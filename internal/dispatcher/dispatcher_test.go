package dispatcher

import (
	"context"
	"testing"

	"github.com/cangjie-tools/lldb-adapter/internal/enginehost"
	"github.com/cangjie-tools/lldb-adapter/internal/logging"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnection builds a Connection over a discard codec (nil
// reader/writer are fine: these tests drive handle()/route() directly
// rather than Run's read loop, so the codec is only ever used to build
// the event pump, never actually read from or written to here).
func newTestConnection(t *testing.T) (*Connection, *enginehost.FakeEngine) {
	t.Helper()
	eng := enginehost.NewFakeEngine()
	codec := protocol.NewFrameCodec(nil, discardWriter{}, 0)
	return New(codec, eng, logging.NewRecorder()), eng
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func createTarget(t *testing.T, c *Connection) uint64 {
	t.Helper()
	env := protocol.RequestEnvelope{
		Hash:    []byte("h1"),
		Variant: protocol.ReqCreateTarget,
		Payload: protocol.CreateTargetRequest{ExecutablePath: "/bin/demo"}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.True(t, resp.Success)
	out, err := protocol.DecodeCreateTargetResponse(resp.Payload)
	require.NoError(t, err)
	require.NotZero(t, out.TargetID)
	return out.TargetID
}

func launch(t *testing.T, c *Connection) uint64 {
	t.Helper()
	env := protocol.RequestEnvelope{
		Hash:    []byte("h2"),
		Variant: protocol.ReqLaunch,
		Payload: protocol.LaunchRequest{StopAtEntry: true}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.True(t, resp.Success)
	out, err := protocol.DecodeLaunchResponse(resp.Payload)
	require.NoError(t, err)
	require.NotZero(t, out.ProcessID)
	return out.ProcessID
}

func TestCreateTarget_MintsIncreasingIDs(t *testing.T) {
	c, _ := newTestConnection(t)
	first := createTarget(t, c)
	second := createTarget(t, c)
	assert.NotEqual(t, first, second)
}

func TestCreateTarget_DropsPriorTargetAndResetsBreakpoints(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)

	env := protocol.RequestEnvelope{
		Hash:    []byte("bp"),
		Variant: protocol.ReqAddBreakpoint,
		Payload: protocol.AddBreakpointRequest{Spec: protocol.BreakpointSpec{Kind: protocol.BPKindLine, Line: protocol.SourceLocation{FilePath: "main.cj", Line: 3}}}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.True(t, resp.Success)
	assert.Equal(t, 1, c.breakpoints.Count())

	createTarget(t, c)
	assert.Equal(t, 0, c.breakpoints.Count(), "a new target drops the previous target's breakpoints")
}

func TestLaunch_WithoutTarget_ReturnsNoTarget(t *testing.T) {
	c, _ := newTestConnection(t)
	env := protocol.RequestEnvelope{
		Hash:    []byte("h"),
		Variant: protocol.ReqLaunch,
		Payload: protocol.LaunchRequest{}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.False(t, resp.Success)
	assert.Equal(t, protocol.ErrorKindNoTarget, resp.ErrorKind)
}

func TestLaunchThenGetThreads_InternsThreadID(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	env := protocol.RequestEnvelope{Hash: []byte("t"), Variant: protocol.ReqGetThreads}
	resp := c.handle(context.Background(), env)
	require.True(t, resp.Success)

	out, err := protocol.DecodeGetThreadsResponse(resp.Payload)
	require.NoError(t, err)
	require.Len(t, out.Threads, 1)
	assert.NotZero(t, out.Threads[0].ID)
}

func TestGetFrames_InternsFrameIDsForLaterEvaluate(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	threadsResp := c.handle(context.Background(), protocol.RequestEnvelope{Hash: []byte("t"), Variant: protocol.ReqGetThreads})
	threads, err := protocol.DecodeGetThreadsResponse(threadsResp.Payload)
	require.NoError(t, err)
	threadID := threads.Threads[0].ID

	framesEnv := protocol.RequestEnvelope{
		Hash:    []byte("f"),
		Variant: protocol.ReqGetFrames,
		Payload: protocol.GetFramesRequest{ThreadID: threadID, StartIndex: 0, Count: 10}.Encode(),
	}
	framesResp := c.handle(context.Background(), framesEnv)
	require.True(t, framesResp.Success)
	frames, err := protocol.DecodeGetFramesResponse(framesResp.Payload)
	require.NoError(t, err)
	require.Len(t, frames.Frames, 1)
	assert.NotZero(t, frames.Frames[0].ID)

	evalEnv := protocol.RequestEnvelope{
		Hash:    []byte("e"),
		Variant: protocol.ReqEvaluate,
		Payload: protocol.EvaluateRequest{FrameID: frames.Frames[0].ID, Expression: "1+1"}.Encode(),
	}
	evalResp := c.handle(context.Background(), evalEnv)
	assert.True(t, evalResp.Success)
}

func TestEvaluate_FrameZeroMeansGlobalScope(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	env := protocol.RequestEnvelope{
		Hash:    []byte("e"),
		Variant: protocol.ReqEvaluate,
		Payload: protocol.EvaluateRequest{FrameID: 0, Expression: "someGlobal"}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	assert.True(t, resp.Success)
}

func TestEvaluate_UnknownFrameID_NotFound(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	env := protocol.RequestEnvelope{
		Hash:    []byte("e"),
		Variant: protocol.ReqEvaluate,
		Payload: protocol.EvaluateRequest{FrameID: 99999, Expression: "x"}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.False(t, resp.Success)
	assert.Equal(t, protocol.ErrorKindNotFound, resp.ErrorKind)
}

func TestDisassemble_CachesWithinGeneration(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	env := protocol.RequestEnvelope{
		Hash:    []byte("d"),
		Variant: protocol.ReqDisassemble,
		Payload: protocol.DisassembleRequest{Address: 0x1000, InstrCount: 4}.Encode(),
	}
	first := c.handle(context.Background(), env)
	require.True(t, first.Success)

	key := disasmKey{address: 0x1000, instrCount: 4}
	_, cached := c.disasmLookup(key)
	assert.True(t, cached, "first Disassemble call should populate the cache")

	second := c.handle(context.Background(), env)
	require.True(t, second.Success)
	assert.Equal(t, first.Payload, second.Payload)
}

func TestDisassemble_InvalidatedAcrossStopGeneration(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	env := protocol.RequestEnvelope{
		Hash:    []byte("d"),
		Variant: protocol.ReqDisassemble,
		Payload: protocol.DisassembleRequest{Address: 0x1000, InstrCount: 4}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.True(t, resp.Success)

	key := disasmKey{address: 0x1000, instrCount: 4}
	_, cached := c.disasmLookup(key)
	require.True(t, cached)

	c.registry.BumpStopGeneration()

	_, cached = c.disasmLookup(key)
	assert.False(t, cached, "a new stop-generation must invalidate the whole cache")
}

func TestConsoleCommand_RecordsHistoryForCompletion(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	cmdEnv := protocol.RequestEnvelope{
		Hash:    []byte("c"),
		Variant: protocol.ReqHandleConsoleCommand,
		Payload: protocol.HandleConsoleCommandRequest{CommandLine: "print foo"}.Encode(),
	}
	resp := c.handle(context.Background(), cmdEnv)
	require.True(t, resp.Success)

	completionEnv := protocol.RequestEnvelope{
		Hash:    []byte("comp"),
		Variant: protocol.ReqHandleCompletion,
		Payload: protocol.HandleCompletionRequest{Line: "print f", CursorPos: 7}.Encode(),
	}
	compResp := c.handle(context.Background(), completionEnv)
	require.True(t, compResp.Success)

	out, err := protocol.DecodeHandleCompletionResponse(compResp.Payload)
	require.NoError(t, err)
	assert.Contains(t, out.Candidates, "print foo")
}

func TestConsoleHistory_TrimsToLimit(t *testing.T) {
	c, _ := newTestConnection(t)
	for i := 0; i < consoleHistoryLimit+10; i++ {
		c.recordHistory("cmd")
	}
	assert.Len(t, c.history, consoleHistoryLimit)
}

func TestRoute_UnknownVariant_ReturnsUnknownRequest(t *testing.T) {
	c, _ := newTestConnection(t)
	_, pErr := c.route(context.Background(), protocol.RequestVariant(9999), nil)
	require.NotNil(t, pErr)
	assert.Equal(t, protocol.ErrorKindUnknownRequest, pErr.Kind)
}

func TestDetachThenRelaunch_IsAllowed(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	detachEnv := protocol.RequestEnvelope{
		Hash:    []byte("det"),
		Variant: protocol.ReqDetach,
		Payload: protocol.DetachRequest{LeaveSuspended: false}.Encode(),
	}
	resp := c.handle(context.Background(), detachEnv)
	require.True(t, resp.Success)

	launchEnv := protocol.RequestEnvelope{
		Hash:    []byte("again"),
		Variant: protocol.ReqLaunch,
		Payload: protocol.LaunchRequest{}.Encode(),
	}
	launchResp := c.handle(context.Background(), launchEnv)
	require.True(t, launchResp.Success, "re-launching after detach must be allowed")
}

func TestKill_ClearsCurrentProcessAndBlocksFurtherProcessOps(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	killEnv := protocol.RequestEnvelope{
		Hash:    []byte("kill"),
		Variant: protocol.ReqKill,
	}
	resp := c.handle(context.Background(), killEnv)
	require.True(t, resp.Success)

	threadsEnv := protocol.RequestEnvelope{
		Hash:    []byte("threads"),
		Variant: protocol.ReqGetThreads,
	}
	threadsResp := c.handle(context.Background(), threadsEnv)
	require.False(t, threadsResp.Success, "no live process after Kill")
	require.Equal(t, protocol.ErrorKindNoProcess, threadsResp.ErrorKind)
}

func TestExecuteShellCommand_ReportsExitCodeAndOutput(t *testing.T) {
	c, _ := newTestConnection(t)
	env := protocol.RequestEnvelope{
		Hash:    []byte("sh"),
		Variant: protocol.ReqExecuteShellCommand,
		Payload: protocol.ExecuteShellCommandRequest{CommandLine: "echo hi"}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.True(t, resp.Success)

	out, err := protocol.DecodeExecuteShellCommandResponse(resp.Payload)
	require.NoError(t, err)
	assert.Equal(t, int32(0), out.ExitCode)
	assert.Contains(t, out.Stdout, "hi")
}

func TestExecuteShellCommand_NonZeroExit(t *testing.T) {
	c, _ := newTestConnection(t)
	env := protocol.RequestEnvelope{
		Hash:    []byte("sh"),
		Variant: protocol.ReqExecuteShellCommand,
		Payload: protocol.ExecuteShellCommandRequest{CommandLine: "exit 7"}.Encode(),
	}
	resp := c.handle(context.Background(), env)
	require.True(t, resp.Success)

	out, err := protocol.DecodeExecuteShellCommandResponse(resp.Payload)
	require.NoError(t, err)
	assert.Equal(t, int32(7), out.ExitCode)
}

func TestCancelSymbolsDownload_AlwaysAcks(t *testing.T) {
	c, _ := newTestConnection(t)
	env := protocol.RequestEnvelope{Hash: []byte("cancel"), Variant: protocol.ReqCancelSymbolsDownload}
	resp := c.handle(context.Background(), env)
	assert.True(t, resp.Success)
}

func TestSnapshot_ReflectsLiveState(t *testing.T) {
	c, _ := newTestConnection(t)
	createTarget(t, c)
	launch(t, c)

	snap := c.Snapshot()
	assert.Equal(t, "STOPPED", snap.SessionState)
	assert.NotZero(t, snap.CurrentTargetID)
	assert.NotZero(t, snap.CurrentProcessID)
}
