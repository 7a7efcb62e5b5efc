package enginehost

import (
	"context"
	"fmt"
	"sync"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

// FakeEngine is an in-process test double implementing the full
// engine.Engine facade, standing in for the out-of-scope concrete
// LLDB-compatible library (spec §6.3). It models exactly one target,
// one process, one thread, and a single in-memory module whose load
// address is fixed — enough to drive the dispatcher/registry/
// breakpoint-manager/event-pump tests end to end without a real
// debuggee.
type FakeEngine struct {
	mu sync.Mutex

	events chan engine.Notification

	nextHandle int

	targets map[int]*fakeTarget
	procs   map[int]*fakeProcess
	breaks  map[int]*fakeBreak
	values  map[int]*fakeValue

	// ModuleLoadAddress is the address FakeEngine resolves breakpoints
	// and frames to. Tests may set this before calling Launch.
	ModuleLoadAddress uint64
	ModulePath        string

	// LastChildrenCount records the count Children was most recently
	// called with, letting tests observe how a caller's paging caps
	// (e.g. max_children) propagate without the fake needing to model
	// an actual child set.
	LastChildrenCount uint32
}

type fakeTarget struct{}

type fakeProcess struct {
	target     int
	running    bool
	mainThread int
}

type fakeBreak struct {
	target    int
	spec      protocol.BreakpointSpec
	condition *string
	ignore    uint32
	thread    *engine.ThreadHandle
	enabled   bool
	locations []protocol.Location
}

type fakeValue struct {
	value protocol.Value
}

// NewFakeEngine returns a ready-to-use FakeEngine. Notifications are
// queued on a 64-slot buffered channel that exists from construction,
// so ones emitted before Subscribe is called wait there for the reader.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		events:            make(chan engine.Notification, 64),
		targets:           make(map[int]*fakeTarget),
		procs:             make(map[int]*fakeProcess),
		breaks:            make(map[int]*fakeBreak),
		values:            make(map[int]*fakeValue),
		ModuleLoadAddress: 0x401020,
		ModulePath:        "/fake/module",
	}
}

func (f *FakeEngine) alloc() int {
	f.nextHandle++
	return f.nextHandle
}

func handleInt(h any) (int, error) {
	i, ok := h.(int)
	if !ok {
		return 0, fmt.Errorf("enginehost: invalid handle %v", h)
	}
	return i, nil
}

// --- Target ---

func (f *FakeEngine) CreateFromFile(_ context.Context, executablePath, architecture string) (engine.TargetHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.alloc()
	f.targets[h] = &fakeTarget{}
	return h, nil
}

func (f *FakeEngine) DeleteTarget(_ context.Context, h engine.TargetHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := handleInt(h)
	if err != nil {
		return err
	}
	delete(f.targets, i)
	return nil
}

func (f *FakeEngine) ListModules(_ context.Context, h engine.TargetHandle) ([]engine.ModuleInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := handleInt(h); err != nil {
		return nil, err
	}
	return []engine.ModuleInfo{{Path: f.ModulePath, LoadAddress: f.ModuleLoadAddress, HasSymbols: true}}, nil
}

func (f *FakeEngine) FindFunctionByName(_ context.Context, h engine.TargetHandle, name string) (engine.FunctionInfo, bool, error) {
	if _, err := handleInt(h); err != nil {
		return engine.FunctionInfo{}, false, err
	}
	return engine.FunctionInfo{Name: name, Address: f.ModuleLoadAddress}, true, nil
}

func (f *FakeEngine) ConnectPlatform(_ context.Context, h engine.TargetHandle, _ string) error {
	_, err := handleInt(h)
	return err
}

// --- Process ---

func (f *FakeEngine) Launch(_ context.Context, target engine.TargetHandle, params engine.LaunchParams) (engine.ProcessHandle, error) {
	f.mu.Lock()
	tID, err := handleInt(target)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	h := f.alloc()
	threadH := f.alloc()
	f.procs[h] = &fakeProcess{target: tID, running: !params.StopAtEntry, mainThread: threadH}
	f.mu.Unlock()

	f.notify(engine.Notification{Kind: engine.NotifyProcessRunning, ProcessRunning: &engine.ProcessRunningNotif{Process: h}})
	f.notify(engine.Notification{Kind: engine.NotifyModuleLoad, ModuleLoad: &engine.ModuleLoadNotif{Module: engine.ModuleInfo{
		Path: f.ModulePath, LoadAddress: f.ModuleLoadAddress, HasSymbols: true,
	}}})
	if params.StopAtEntry {
		f.notify(engine.Notification{Kind: engine.NotifyStopped, Stopped: &engine.StoppedNotif{
			Thread: threadH, AllThreadsStopped: true,
			Info: protocol.StopInfo{Reason: protocol.StopReasonStep, Description: "stop at entry"},
		}})
	}
	return h, nil
}

func (f *FakeEngine) AttachByPID(_ context.Context, target engine.TargetHandle, pid uint64) (engine.ProcessHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tID, err := handleInt(target)
	if err != nil {
		return nil, err
	}
	h := f.alloc()
	threadH := f.alloc()
	f.procs[h] = &fakeProcess{target: tID, running: false, mainThread: threadH}
	return h, nil
}

func (f *FakeEngine) AttachByName(ctx context.Context, target engine.TargetHandle, name string, waitFor bool) (engine.ProcessHandle, error) {
	return f.AttachByPID(ctx, target, 0)
}

func (f *FakeEngine) ConnectProcess(ctx context.Context, target engine.TargetHandle, connectURL string) (engine.ProcessHandle, error) {
	return f.AttachByPID(ctx, target, 0)
}

func (f *FakeEngine) LoadCore(_ context.Context, target engine.TargetHandle, corePath string) (engine.ProcessHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tID, err := handleInt(target)
	if err != nil {
		return nil, err
	}
	h := f.alloc()
	threadH := f.alloc()
	f.procs[h] = &fakeProcess{target: tID, running: false, mainThread: threadH}
	return h, nil
}

func (f *FakeEngine) proc(h engine.ProcessHandle) (*fakeProcess, int, error) {
	i, err := handleInt(h)
	if err != nil {
		return nil, 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.procs[i]
	if !ok {
		return nil, 0, fmt.Errorf("enginehost: unknown process handle %d", i)
	}
	return p, i, nil
}

func (f *FakeEngine) Detach(_ context.Context, h engine.ProcessHandle, leaveSuspended bool) error {
	_, i, err := f.proc(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.procs, i)
	f.mu.Unlock()
	return nil
}

func (f *FakeEngine) Kill(_ context.Context, h engine.ProcessHandle) error {
	_, i, err := f.proc(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.procs, i)
	f.mu.Unlock()
	f.notify(engine.Notification{Kind: engine.NotifyProcessExited, ProcessExited: &engine.ProcessExitedNotif{ExitCode: -1, Signaled: true}})
	return nil
}

func (f *FakeEngine) Suspend(_ context.Context, h engine.ProcessHandle) error {
	p, _, err := f.proc(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	p.running = false
	thread := p.mainThread
	f.mu.Unlock()
	f.notify(engine.Notification{Kind: engine.NotifyStopped, Stopped: &engine.StoppedNotif{
		Thread: thread, AllThreadsStopped: true,
		Info: protocol.StopInfo{Reason: protocol.StopReasonSignal, Description: "suspended"},
	}})
	return nil
}

func (f *FakeEngine) resume(h engine.ProcessHandle) error {
	p, i, err := f.proc(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	p.running = true
	f.mu.Unlock()
	f.notify(engine.Notification{Kind: engine.NotifyProcessRunning, ProcessRunning: &engine.ProcessRunningNotif{Process: i}})
	return nil
}

func (f *FakeEngine) step(h engine.ProcessHandle, thread engine.ThreadHandle) error {
	if _, _, err := f.proc(h); err != nil {
		return err
	}
	f.notify(engine.Notification{Kind: engine.NotifyStopped, Stopped: &engine.StoppedNotif{
		Thread: thread, AllThreadsStopped: true,
		Info: protocol.StopInfo{Reason: protocol.StopReasonStep, Description: "step complete"},
	}})
	return nil
}

func (f *FakeEngine) Resume(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle) error {
	return f.resume(h)
}

func (f *FakeEngine) StepIn(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, byInstruction bool) error {
	return f.step(h, thread)
}

func (f *FakeEngine) StepOver(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, byInstruction bool) error {
	return f.step(h, thread)
}

func (f *FakeEngine) StepOut(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle) error {
	return f.step(h, thread)
}

func (f *FakeEngine) StepScripted(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, planName string, args []string) error {
	return f.step(h, thread)
}

func (f *FakeEngine) JumpToLine(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, loc protocol.SourceLocation) error {
	_, _, err := f.proc(h)
	return err
}

func (f *FakeEngine) JumpToAddress(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, address uint64) error {
	_, _, err := f.proc(h)
	return err
}

func (f *FakeEngine) ReadMemory(_ context.Context, h engine.ProcessHandle, address uint64, length uint32) ([]byte, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, err
	}
	return make([]byte, length), nil
}

func (f *FakeEngine) WriteMemory(_ context.Context, h engine.ProcessHandle, address uint64, data []byte) (int, error) {
	if _, _, err := f.proc(h); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (f *FakeEngine) ReadRegisters(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, frame engine.FrameHandle, set string) ([]protocol.Register, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, err
	}
	return []protocol.Register{
		{Name: "pc", Value: []byte{0, 0, 0, 0, 0, 0x40, 0x10, 0x20}},
		{Name: "sp", Value: []byte{0, 0, 0, 0, 0x7f, 0xff, 0, 0}},
	}, nil
}

func (f *FakeEngine) WriteRegister(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, name string, value []byte) error {
	_, _, err := f.proc(h)
	return err
}

func (f *FakeEngine) RegisterSets(_ context.Context, h engine.ProcessHandle) ([]string, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, err
	}
	return []string{"general"}, nil
}

func (f *FakeEngine) Disassemble(_ context.Context, h engine.ProcessHandle, params engine.DisassembleParams) ([]protocol.Instruction, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, err
	}
	n := params.InstrCount
	if n == 0 {
		n = 1
	}
	out := make([]protocol.Instruction, 0, n)
	for i := uint32(0); i < n; i++ {
		out = append(out, protocol.Instruction{
			Address:  params.Address + uint64(i),
			RawBytes: []byte{0x90},
			Mnemonic: "nop",
		})
	}
	return out, nil
}

func (f *FakeEngine) Sections(_ context.Context, h engine.ProcessHandle) ([]protocol.Section, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, err
	}
	return []protocol.Section{
		{Name: ".text", LoadAddress: f.ModuleLoadAddress, Size: 4096, Permissions: "r-x", ModulePath: f.ModulePath},
	}, nil
}

func (f *FakeEngine) Architecture(_ context.Context, h engine.ProcessHandle) (string, uint8, error) {
	if _, _, err := f.proc(h); err != nil {
		return "", 0, err
	}
	return "arm64", 8, nil
}

func (f *FakeEngine) HandleSignal(_ context.Context, h engine.ProcessHandle, signo int32, pass, stop, notify bool) error {
	_, _, err := f.proc(h)
	return err
}

func (f *FakeEngine) DispatchInput(_ context.Context, h engine.ProcessHandle, data []byte) error {
	_, _, err := f.proc(h)
	return err
}

func (f *FakeEngine) ConsoleCommand(_ context.Context, h engine.ProcessHandle, line string) (string, error) {
	if _, _, err := f.proc(h); err != nil {
		return "", err
	}
	return "ok: " + line, nil
}

func (f *FakeEngine) CompleteCommand(_ context.Context, h engine.ProcessHandle, line string, cursor uint32) ([]string, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, err
	}
	return []string{line + "ue"}, nil
}

func (f *FakeEngine) ResizeConsole(_ context.Context, h engine.ProcessHandle, columns, rows uint32) error {
	_, _, err := f.proc(h)
	return err
}

func (f *FakeEngine) SetThreadFrozen(_ context.Context, h engine.ProcessHandle, _ engine.ThreadHandle, _ bool) error {
	_, _, err := f.proc(h)
	return err
}

// --- Breakpoints ---

func (f *FakeEngine) Create(_ context.Context, target engine.TargetHandle, spec protocol.BreakpointSpec) (engine.BreakHandle, []protocol.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tID, err := handleInt(target)
	if err != nil {
		return nil, nil, err
	}
	h := f.alloc()
	// Breakpoints resolve immediately against the single fake module;
	// ResolveBreakpoint lets a test model a pending/unresolved one.
	locs := []protocol.Location{{LocationID: uint64(f.alloc()), Address: f.ModuleLoadAddress, Resolved: true}}
	f.breaks[h] = &fakeBreak{target: tID, spec: spec, enabled: true, locations: locs}
	return h, locs, nil
}

func (f *FakeEngine) breakEntry(h engine.BreakHandle) (*fakeBreak, int, error) {
	i, err := handleInt(h)
	if err != nil {
		return nil, 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.breaks[i]
	if !ok {
		return nil, 0, fmt.Errorf("enginehost: unknown breakpoint handle %d", i)
	}
	return b, i, nil
}

func (f *FakeEngine) SetCondition(_ context.Context, h engine.BreakHandle, condition *string) error {
	b, _, err := f.breakEntry(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	b.condition = condition
	f.mu.Unlock()
	return nil
}

func (f *FakeEngine) SetIgnoreCount(_ context.Context, h engine.BreakHandle, count uint32) error {
	b, _, err := f.breakEntry(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	b.ignore = count
	f.mu.Unlock()
	return nil
}

func (f *FakeEngine) SetThreadRestriction(_ context.Context, h engine.BreakHandle, thread *engine.ThreadHandle) error {
	b, _, err := f.breakEntry(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	b.thread = thread
	f.mu.Unlock()
	return nil
}

func (f *FakeEngine) SetEnabled(_ context.Context, h engine.BreakHandle, enabled bool) error {
	b, _, err := f.breakEntry(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	b.enabled = enabled
	f.mu.Unlock()
	return nil
}

func (f *FakeEngine) DeleteBreakpoint(_ context.Context, h engine.BreakHandle) error {
	_, i, err := f.breakEntry(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.breaks, i)
	f.mu.Unlock()
	return nil
}

func (f *FakeEngine) Locations(_ context.Context, h engine.BreakHandle) ([]protocol.Location, error) {
	b, _, err := f.breakEntry(h)
	if err != nil {
		return nil, err
	}
	return b.locations, nil
}

// ResolveBreakpoint is a test helper: simulates a module-load event
// resolving a previously pending breakpoint, emitting the
// corresponding notification.
func (f *FakeEngine) ResolveBreakpoint(h engine.BreakHandle, locs []protocol.Location) error {
	b, _, err := f.breakEntry(h)
	if err != nil {
		return err
	}
	f.mu.Lock()
	b.locations = locs
	f.mu.Unlock()
	f.notify(engine.Notification{Kind: engine.NotifyBreakpointLocationsResolved, BreakpointHit: &engine.BreakpointHitNotif{Break: h, Locations: locs}})
	return nil
}

// --- Threads/Frames ---

func (f *FakeEngine) ListThreads(_ context.Context, h engine.ProcessHandle) ([]engine.ThreadInfo, error) {
	p, _, err := f.proc(h)
	if err != nil {
		return nil, err
	}
	return []engine.ThreadInfo{{
		Thread: protocol.Thread{ID: 0, NativeTID: 1, Name: "main", State: stateName(p.running)},
		Handle: p.mainThread,
	}}, nil
}

func stateName(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}

func (f *FakeEngine) GetFrames(_ context.Context, h engine.ProcessHandle, thread engine.ThreadHandle, start, count uint32) ([]protocol.Frame, uint32, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, 0, err
	}
	all := []protocol.Frame{
		{FunctionName: "main.main", SourceLocation: &protocol.SourceLocation{FilePath: "main.cj", Line: 10}, PC: f.ModuleLoadAddress},
	}
	if start >= uint32(len(all)) {
		return nil, uint32(len(all)), nil
	}
	end := start + count
	if count == 0 || end > uint32(len(all)) {
		end = uint32(len(all))
	}
	return all[start:end], uint32(len(all)), nil
}

func (f *FakeEngine) Evaluate(_ context.Context, h engine.ProcessHandle, frame engine.FrameHandle, expression string) (protocol.Value, engine.ValueHandle, error) {
	if _, _, err := f.proc(h); err != nil {
		return protocol.Value{}, nil, err
	}
	f.mu.Lock()
	vh := f.alloc()
	v := protocol.Value{Name: expression, TypeName: "int", Summary: "0", RawValue: "0", ChildrenCount: 0}
	f.values[vh] = &fakeValue{value: v}
	f.mu.Unlock()
	return v, vh, nil
}

func (f *FakeEngine) ListVariables(_ context.Context, h engine.ProcessHandle, frame engine.FrameHandle, kindMask protocol.ValueKindMask, policy protocol.FilteringPolicy) ([]protocol.Value, []engine.ValueHandle, error) {
	if _, _, err := f.proc(h); err != nil {
		return nil, nil, err
	}
	f.mu.Lock()
	vh := f.alloc()
	v := protocol.Value{Name: "argc", TypeName: "int", Summary: "1", RawValue: "1", ChildrenCount: 0}
	f.values[vh] = &fakeValue{value: v}
	f.mu.Unlock()
	return []protocol.Value{v}, []engine.ValueHandle{vh}, nil
}

// --- Values ---

func (f *FakeEngine) valueEntry(h engine.ValueHandle) (*fakeValue, error) {
	i, err := handleInt(h)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[i]
	if !ok {
		return nil, fmt.Errorf("enginehost: unknown value handle %d", i)
	}
	return v, nil
}

func (f *FakeEngine) Children(_ context.Context, h engine.ValueHandle, offset, count, maxDepth uint32) ([]protocol.Value, []engine.ValueHandle, bool, error) {
	if _, err := f.valueEntry(h); err != nil {
		return nil, nil, false, err
	}
	f.mu.Lock()
	f.LastChildrenCount = count
	f.mu.Unlock()
	return nil, nil, false, nil
}

func (f *FakeEngine) ChildrenCount(_ context.Context, h engine.ValueHandle) (int32, error) {
	if _, err := f.valueEntry(h); err != nil {
		return 0, err
	}
	return 0, nil
}

func (f *FakeEngine) Data(_ context.Context, h engine.ValueHandle) ([]byte, error) {
	v, err := f.valueEntry(h)
	if err != nil {
		return nil, err
	}
	return []byte(v.value.RawValue), nil
}

func (f *FakeEngine) Description(_ context.Context, h engine.ValueHandle) (string, error) {
	v, err := f.valueEntry(h)
	if err != nil {
		return "", err
	}
	return v.value.Summary, nil
}

func (f *FakeEngine) Address(_ context.Context, h engine.ValueHandle) (uint64, bool, error) {
	if _, err := f.valueEntry(h); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

func (f *FakeEngine) ArraySlice(_ context.Context, h engine.ValueHandle, start, length uint32) ([]protocol.Value, []engine.ValueHandle, error) {
	if _, err := f.valueEntry(h); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

// --- Events ---

func (f *FakeEngine) Subscribe(_ context.Context) (<-chan engine.Notification, error) {
	return f.events, nil
}

func (f *FakeEngine) notify(n engine.Notification) {
	select {
	case f.events <- n:
	default:
		// Tests are expected to keep pace; dropping here would hide a
		// logic bug rather than model a real backpressure scenario.
		panic("enginehost: fake event channel overflow")
	}
}

var _ engine.Engine = (*FakeEngine)(nil)
