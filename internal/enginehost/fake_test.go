package enginehost

import (
	"context"
	"testing"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TARGET / PROCESS LIFECYCLE TESTS
// =============================================================================

func TestFakeEngine_LaunchStopsAtEntry(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	events, err := e.Subscribe(ctx)
	require.NoError(t, err)

	target, err := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	require.NoError(t, err)

	_, err = e.Launch(ctx, target, engine.LaunchParams{StopAtEntry: true})
	require.NoError(t, err)

	first := <-events
	assert.Equal(t, engine.NotifyProcessRunning, first.Kind)
	second := <-events
	assert.Equal(t, engine.NotifyModuleLoad, second.Kind)
	third := <-events
	assert.Equal(t, engine.NotifyStopped, third.Kind)
	assert.True(t, third.Stopped.AllThreadsStopped)
}

func TestFakeEngine_LaunchWithoutStopAtEntry_NoStoppedEvent(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	events, _ := e.Subscribe(ctx)

	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	_, err := e.Launch(ctx, target, engine.LaunchParams{StopAtEntry: false})
	require.NoError(t, err)

	assert.Equal(t, engine.NotifyProcessRunning, (<-events).Kind)
	assert.Equal(t, engine.NotifyModuleLoad, (<-events).Kind)
	select {
	case n := <-events:
		t.Fatalf("unexpected extra notification %v", n.Kind)
	default:
	}
}

func TestFakeEngine_KillUnknownProcess_Errors(t *testing.T) {
	e := NewFakeEngine()
	err := e.Kill(context.Background(), 999)
	assert.Error(t, err)
}

func TestFakeEngine_SuspendThenResume_EmitsStoppedThenRunning(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	events, _ := e.Subscribe(ctx)
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	proc, _ := e.Launch(ctx, target, engine.LaunchParams{StopAtEntry: false})
	<-events // running
	<-events // module load

	require.NoError(t, e.Suspend(ctx, proc))
	assert.Equal(t, engine.NotifyStopped, (<-events).Kind)

	require.NoError(t, e.Resume(ctx, proc, 0))
	assert.Equal(t, engine.NotifyProcessRunning, (<-events).Kind)
}

// =============================================================================
// BREAKPOINT TESTS
// =============================================================================

func TestFakeEngine_CreateBreakpoint_ResolvesImmediately(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")

	h, locs, err := e.Create(ctx, target, protocol.BreakpointSpec{Kind: protocol.BPKindLine, Line: protocol.SourceLocation{FilePath: "main.cj", Line: 5}})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.True(t, locs[0].Resolved)

	gotLocs, err := e.Locations(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, locs, gotLocs)
}

func TestFakeEngine_MutateBreakpoint_ConditionAndIgnoreCount(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	h, _, _ := e.Create(ctx, target, protocol.BreakpointSpec{Kind: protocol.BPKindFunction, FunctionName: "main"})

	cond := "x > 1"
	require.NoError(t, e.SetCondition(ctx, h, &cond))
	require.NoError(t, e.SetIgnoreCount(ctx, h, 3))
	require.NoError(t, e.SetEnabled(ctx, h, false))

	b := e.breaks[h.(int)]
	assert.Equal(t, &cond, b.condition)
	assert.Equal(t, uint32(3), b.ignore)
	assert.False(t, b.enabled)
}

func TestFakeEngine_DeleteBreakpoint_RemovesEntry(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	h, _, _ := e.Create(ctx, target, protocol.BreakpointSpec{Kind: protocol.BPKindFunction, FunctionName: "main"})

	require.NoError(t, e.DeleteBreakpoint(ctx, h))
	_, err := e.Locations(ctx, h)
	assert.Error(t, err)
}

func TestFakeEngine_ResolveBreakpoint_EmitsLocationsResolvedEvent(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	events, _ := e.Subscribe(ctx)
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	h, _, _ := e.Create(ctx, target, protocol.BreakpointSpec{Kind: protocol.BPKindFunction, FunctionName: "deferred"})

	newLocs := []protocol.Location{{LocationID: 77, Address: 0x5000, Resolved: true}}
	require.NoError(t, e.ResolveBreakpoint(h, newLocs))

	n := <-events
	assert.Equal(t, engine.NotifyBreakpointLocationsResolved, n.Kind)
	assert.Equal(t, newLocs, n.BreakpointHit.Locations)
}

// =============================================================================
// THREADS / FRAMES / VALUES TESTS
// =============================================================================

func TestFakeEngine_ListThreads_ReportsMainThreadState(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	proc, _ := e.Launch(ctx, target, engine.LaunchParams{StopAtEntry: true})

	threads, err := e.ListThreads(ctx, proc)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "stopped", threads[0].Thread.State)
}

func TestFakeEngine_GetFrames_PagesWithinBounds(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	proc, _ := e.Launch(ctx, target, engine.LaunchParams{StopAtEntry: true})

	frames, total, err := e.GetFrames(ctx, proc, 0, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), total)
	require.Len(t, frames, 1)
	assert.Equal(t, "main.main", frames[0].FunctionName)

	frames, total, err = e.GetFrames(ctx, proc, 0, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), total)
	assert.Empty(t, frames)
}

func TestFakeEngine_Evaluate_ReturnsFreshValueHandle(t *testing.T) {
	ctx := context.Background()
	e := NewFakeEngine()
	target, _ := e.CreateFromFile(ctx, "/bin/hello", "arm64")
	proc, _ := e.Launch(ctx, target, engine.LaunchParams{StopAtEntry: true})

	v, vh, err := e.Evaluate(ctx, proc, 0, "1+1")
	require.NoError(t, err)
	assert.Equal(t, "1+1", v.Name)
	assert.NotNil(t, vh)

	desc, err := e.Description(ctx, vh)
	require.NoError(t, err)
	assert.Equal(t, v.Summary, desc)
}

// =============================================================================
// LOADER TESTS
// =============================================================================

func TestFakeLoader_ReturnsConfiguredEngine(t *testing.T) {
	e := NewFakeEngine()
	l := NewFakeLoader(e)

	got, err := l.Load(context.Background(), "/ignored/path")
	require.NoError(t, err)
	assert.Same(t, e, got)
}

func TestFakeLoader_NilEngine_CreatesOne(t *testing.T) {
	l := NewFakeLoader(nil)
	got, err := l.Load(context.Background(), "/ignored/path")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestDefaultLibraryPath_NonEmpty(t *testing.T) {
	assert.NotEmpty(t, DefaultLibraryPath())
}
