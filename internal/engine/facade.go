// Package engine defines the Engine Facade capability interface the
// rest of the adapter is built against (spec §4.4): the core never
// imports a concrete debugging engine, only this interface — any
// LLDB-compatible implementation loaded via enginehost satisfies it.
// Shaped after gidebug.GiDebug's capability surface, generalized from
// Delve-client-specific naming to the protocol's own vocabulary.
package engine

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

// TargetHandle and ProcessHandle are opaque engine-side references;
// the dispatcher's Connection holds the current ones in its own fields,
// and the core never interprets them.
type (
	TargetHandle  any
	ProcessHandle any
	ThreadHandle  any
	FrameHandle   any
	ValueHandle   any
	BreakHandle   any
	ModuleHandle  any
)

// LaunchParams mirrors protocol.LaunchRequest, decoupled from the wire
// type so the engine package has no protocol import cycle concerns.
type LaunchParams struct {
	Args        []string
	Env         []string
	WorkingDir  string
	StopAtEntry bool
}

// DisassembleParams selects a disassembly window either by instruction
// count or by byte count (spec §4.4 — "disassemble(address, byte_count|instruction_count)").
type DisassembleParams struct {
	Address      uint64
	InstrCount   uint32
	ByteCount    uint32
}

// Target is the capability set over a created-but-not-yet-running
// target image (spec §4.4 "Target").
type Target interface {
	CreateFromFile(ctx context.Context, executablePath, architecture string) (TargetHandle, error)
	DeleteTarget(ctx context.Context, h TargetHandle) error
	ListModules(ctx context.Context, h TargetHandle) ([]ModuleInfo, error)
	FindFunctionByName(ctx context.Context, h TargetHandle, name string) (FunctionInfo, bool, error)

	// ConnectPlatform establishes the remote-stub connection a later
	// ConnectProcess or Attach resolves against (gdbserver-style remote
	// debugging setup, ahead of any process existing).
	ConnectPlatform(ctx context.Context, h TargetHandle, url string) error
}

// ModuleInfo and FunctionInfo are plain data the facade extracts from
// the engine; they carry no handle of their own kind in the registry
// except ModuleHandle, interned by the caller on discovery.
type ModuleInfo struct {
	Path        string
	LoadAddress uint64
	HasSymbols  bool
	Handle      ModuleHandle
}

type FunctionInfo struct {
	Name    string
	Address uint64
}

// Process is the capability set over a launched/attached process
// (spec §4.4 "Process").
type Process interface {
	Launch(ctx context.Context, target TargetHandle, params LaunchParams) (ProcessHandle, error)
	AttachByPID(ctx context.Context, target TargetHandle, pid uint64) (ProcessHandle, error)
	AttachByName(ctx context.Context, target TargetHandle, name string, waitFor bool) (ProcessHandle, error)
	LoadCore(ctx context.Context, target TargetHandle, corePath string) (ProcessHandle, error)
	// ConnectProcess attaches to a process already running under a
	// platform previously named by ConnectPlatform.
	ConnectProcess(ctx context.Context, target TargetHandle, connectURL string) (ProcessHandle, error)
	Detach(ctx context.Context, h ProcessHandle, leaveSuspended bool) error
	Kill(ctx context.Context, h ProcessHandle) error

	Suspend(ctx context.Context, h ProcessHandle) error
	Resume(ctx context.Context, h ProcessHandle, thread ThreadHandle) error
	StepIn(ctx context.Context, h ProcessHandle, thread ThreadHandle, byInstruction bool) error
	StepOver(ctx context.Context, h ProcessHandle, thread ThreadHandle, byInstruction bool) error
	StepOut(ctx context.Context, h ProcessHandle, thread ThreadHandle) error
	StepScripted(ctx context.Context, h ProcessHandle, thread ThreadHandle, planName string, args []string) error
	JumpToLine(ctx context.Context, h ProcessHandle, thread ThreadHandle, loc protocol.SourceLocation) error
	JumpToAddress(ctx context.Context, h ProcessHandle, thread ThreadHandle, address uint64) error

	ReadMemory(ctx context.Context, h ProcessHandle, address uint64, length uint32) ([]byte, error)
	WriteMemory(ctx context.Context, h ProcessHandle, address uint64, data []byte) (int, error)
	ReadRegisters(ctx context.Context, h ProcessHandle, thread ThreadHandle, frame FrameHandle, set string) ([]protocol.Register, error)
	WriteRegister(ctx context.Context, h ProcessHandle, thread ThreadHandle, name string, value []byte) error
	// RegisterSets names the register sets ReadRegisters accepts (e.g.
	// "general", "floating-point", "vector"), architecture-dependent.
	RegisterSets(ctx context.Context, h ProcessHandle) ([]string, error)
	Disassemble(ctx context.Context, h ProcessHandle, params DisassembleParams) ([]protocol.Instruction, error)
	Sections(ctx context.Context, h ProcessHandle) ([]protocol.Section, error)
	Architecture(ctx context.Context, h ProcessHandle) (name string, addressSize uint8, err error)

	HandleSignal(ctx context.Context, h ProcessHandle, signo int32, pass, stop, notify bool) error
	DispatchInput(ctx context.Context, h ProcessHandle, data []byte) error
	ConsoleCommand(ctx context.Context, h ProcessHandle, line string) (string, error)
	CompleteCommand(ctx context.Context, h ProcessHandle, line string, cursor uint32) ([]string, error)
	ResizeConsole(ctx context.Context, h ProcessHandle, columns, rows uint32) error

	// SetThreadFrozen excludes or re-includes a thread from Continue/Step
	// resumption without altering any breakpoint state.
	SetThreadFrozen(ctx context.Context, h ProcessHandle, thread ThreadHandle, frozen bool) error
}

// Breakpoints covers both breakpoint and watchpoint creation/mutation
// (spec §4.4 "Breakpoint"/"Watchpoint").
type Breakpoints interface {
	Create(ctx context.Context, target TargetHandle, spec protocol.BreakpointSpec) (BreakHandle, []protocol.Location, error)
	SetCondition(ctx context.Context, h BreakHandle, condition *string) error
	SetIgnoreCount(ctx context.Context, h BreakHandle, count uint32) error
	SetThreadRestriction(ctx context.Context, h BreakHandle, thread *ThreadHandle) error
	SetEnabled(ctx context.Context, h BreakHandle, enabled bool) error
	DeleteBreakpoint(ctx context.Context, h BreakHandle) error
	Locations(ctx context.Context, h BreakHandle) ([]protocol.Location, error)
}

// ThreadsFrames covers thread/frame enumeration and expression
// evaluation (spec §4.4 "Thread/Frame").
type ThreadsFrames interface {
	ListThreads(ctx context.Context, h ProcessHandle) ([]ThreadInfo, error)
	GetFrames(ctx context.Context, h ProcessHandle, thread ThreadHandle, start, count uint32) ([]protocol.Frame, uint32, error)
	Evaluate(ctx context.Context, h ProcessHandle, frame FrameHandle, expression string) (protocol.Value, ValueHandle, error)
	ListVariables(ctx context.Context, h ProcessHandle, frame FrameHandle, kindMask protocol.ValueKindMask, policy protocol.FilteringPolicy) ([]protocol.Value, []ValueHandle, error)
}

// ThreadInfo pairs a protocol.Thread with the engine handle the caller
// should intern for it.
type ThreadInfo struct {
	Thread protocol.Thread
	Handle ThreadHandle
}

// Values covers lazy value expansion (spec §4.4/§4.6).
type Values interface {
	Children(ctx context.Context, h ValueHandle, offset, count, maxDepth uint32) ([]protocol.Value, []ValueHandle, bool, error)
	ChildrenCount(ctx context.Context, h ValueHandle) (int32, error)
	Data(ctx context.Context, h ValueHandle) ([]byte, error)
	Description(ctx context.Context, h ValueHandle) (string, error)
	Address(ctx context.Context, h ValueHandle) (uint64, bool, error)
	ArraySlice(ctx context.Context, h ValueHandle, start, length uint32) ([]protocol.Value, []ValueHandle, error)
}

// Notification is one translated engine event, handed to the event
// pump for forwarding to the protocol layer (spec §4.4 "Event
// subscription", §4.7).
type Notification struct {
	Kind NotificationKind

	ProcessRunning *ProcessRunningNotif
	Stopped        *StoppedNotif
	ProcessExited  *ProcessExitedNotif
	BreakpointHit  *BreakpointHitNotif
	ModuleLoad     *ModuleLoadNotif
	ModuleUnload   *ModuleUnloadNotif
	Output         *OutputNotif
}

type NotificationKind uint8

const (
	NotifyProcessRunning NotificationKind = iota
	NotifyStopped
	NotifyProcessExited
	NotifyBreakpointLocationsResolved
	NotifyModuleLoad
	NotifyModuleUnload
	NotifyStdout
	NotifyStderr
)

type ProcessRunningNotif struct{ Process ProcessHandle }

type StoppedNotif struct {
	Thread            ThreadHandle
	AllThreadsStopped bool
	Info              protocol.StopInfo
}

type ProcessExitedNotif struct {
	ExitCode int32
	Signaled bool
}

type BreakpointHitNotif struct {
	Break     BreakHandle
	Locations []protocol.Location
}

type ModuleLoadNotif struct {
	Module ModuleInfo
}

type ModuleUnloadNotif struct {
	Path string
}

type OutputNotif struct{ Data []byte }

// Events exposes the engine's asynchronous notification channel (spec
// §4.4 "Event subscription" — "Notifications block on the Event Pump
// thread until consumed").
type Events interface {
	Subscribe(ctx context.Context) (<-chan Notification, error)
}

// Engine is the full capability set the core requires, composed from
// the narrower interfaces above so handler code can depend on just the
// slice it needs (e.g. the breakpoint manager only needs Breakpoints).
type Engine interface {
	Target
	Process
	Breakpoints
	ThreadsFrames
	Values
	Events
}
