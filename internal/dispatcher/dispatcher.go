// Package dispatcher implements the per-connection request/response
// loop of spec §4.8: it decodes a RequestEnvelope off the wire, routes
// it by variant to the owning subsystem (session, breakpoint manager,
// value inspector, engine facade), and writes back a ResponseEnvelope
// echoing the request's correlation hash. Unsolicited events are the
// Event Pump's responsibility, not this package's — Connection only
// owns the request/response half of the protocol.
package dispatcher

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cangjie-tools/lldb-adapter/internal/breakpoint"
	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/eventpump"
	"github.com/cangjie-tools/lldb-adapter/internal/logging"
	"github.com/cangjie-tools/lldb-adapter/internal/observability"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/cangjie-tools/lldb-adapter/internal/registry"
	"github.com/cangjie-tools/lldb-adapter/internal/session"
	"github.com/cangjie-tools/lldb-adapter/internal/value"
)

// consoleHistoryLimit bounds the console-command ring buffer that backs
// HandleCompletion's history-aware suggestions; the oldest entry is
// dropped once the limit is reached.
const consoleHistoryLimit = 256

// frameRef is the dispatcher's own synthesis of a frame handle: the
// engine facade's GetFrames returns plain protocol.Frame values with no
// parallel handle slice (unlike ListVariables/Evaluate, which do),
// so nothing else in the stack can mint one. The dispatcher pairs a
// frame's owning thread with its stack index and interns that pair
// under registry.KindFrame, giving every later frame-scoped call
// (Variables, Evaluate, ReadRegisters) something to resolve a client's
// FrameID back into.
type frameRef struct {
	thread engine.ThreadHandle
	index  uint32
}

// disasmKey is the cache key for a disassembly window: entries are
// invalidated wholesale on the next stop since code can only change
// across a resume/reload, never while the process is stopped.
type disasmKey struct {
	address    uint64
	instrCount uint32
}

// Connection owns one client connection's full request/response
// lifecycle. It is not itself safe for concurrent Run calls, but its
// fields are safe to touch from the Event Pump goroutine running
// alongside it (registry, session and breakpoint manager all guard
// themselves; the mutex below only protects the target/process
// bookkeeping the registry has no room for).
type Connection struct {
	codec       *protocol.FrameCodec
	sess        *session.Session
	registry    *registry.Registry
	engine      engine.Engine
	breakpoints *breakpoint.Manager
	values      *value.Inspector
	pump        *eventpump.Pump
	log         logging.Logger

	mu            sync.Mutex
	target        engine.TargetHandle
	process       engine.ProcessHandle
	nextTargetID  uint64
	nextProcessID uint64
	platformURL   string

	history []string

	disasmMu    sync.Mutex
	disasmGen   uint64
	disasmCache map[disasmKey][]protocol.Instruction
}

// New builds a Connection over codec, driving eng as the debugging
// engine. log may be nil, in which case all logging is discarded.
func New(codec *protocol.FrameCodec, eng engine.Engine, log logging.Logger) *Connection {
	if log == nil {
		log = logging.Noop()
	}
	reg := registry.New()
	sess := session.New()
	pump := eventpump.New(codec, sess, reg, eng, log.Bind("component", "event_pump"))

	return &Connection{
		codec:       codec,
		sess:        sess,
		registry:    reg,
		engine:      eng,
		breakpoints: breakpoint.New(eng, reg, pump),
		values:      value.New(eng, reg),
		pump:        pump,
		log:         log.Bind("component", "dispatcher"),
		disasmCache: make(map[disasmKey][]protocol.Instruction),
		disasmGen:   reg.CurrentGeneration(),
	}
}

// Run drains the connection until a fatal transport error, a clean
// EOF, or an Exit request. The event pump runs on its own goroutine
// for the same lifetime; its context is canceled when Run returns so
// it doesn't leak past connection teardown.
func (c *Connection) Run(ctx context.Context) error {
	pumpCtx, cancelPump := context.WithCancel(ctx)
	defer cancelPump()

	pumpErrCh := make(chan error, 1)
	go func() { pumpErrCh <- c.pump.Run(pumpCtx) }()

	if err := c.pump.SendInitialized(); err != nil {
		return err
	}

	for {
		payload, err := c.codec.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		env, err := protocol.DecodeRequestEnvelope(payload)
		if err != nil {
			c.log.Error("failed to decode request envelope", "error", err)
			continue
		}

		respEnv := c.handle(ctx, env)
		if err := c.codec.WriteFrame(protocol.EncodeResponseEnvelope(respEnv)); err != nil {
			return err
		}

		if env.Variant == protocol.ReqExit {
			return nil
		}
	}
}

// ConnectionState is the subset of a Connection's bookkeeping the
// admin/introspection surface reports; it has nothing to do with the
// wire protocol, only with letting an operator see what's live.
type ConnectionState struct {
	SessionState     string
	CurrentTargetID  uint64
	CurrentProcessID uint64
	RegistrySizes    map[string]int
	Breakpoints      int
}

// Snapshot reports the connection's current state for the admin
// surface (SPEC_FULL §2/§6.5). Safe to call from any goroutine.
func (c *Connection) Snapshot() ConnectionState {
	return ConnectionState{
		SessionState:     c.sess.State().String(),
		CurrentTargetID:  c.sess.CurrentTargetID(),
		CurrentProcessID: c.sess.CurrentProcessID(),
		RegistrySizes: map[string]int{
			registry.KindBreakpoint.String(): c.registry.Size(registry.KindBreakpoint),
			registry.KindWatchpoint.String(): c.registry.Size(registry.KindWatchpoint),
			registry.KindThread.String():     c.registry.Size(registry.KindThread),
			registry.KindFrame.String():      c.registry.Size(registry.KindFrame),
			registry.KindValue.String():      c.registry.Size(registry.KindValue),
			registry.KindModule.String():     c.registry.Size(registry.KindModule),
			registry.KindLocation.String():   c.registry.Size(registry.KindLocation),
		},
		Breakpoints: c.breakpoints.Count(),
	}
}

// handle routes one decoded request to its handler and converts the
// result into a ResponseEnvelope, always echoing the request's hash.
func (c *Connection) handle(ctx context.Context, env protocol.RequestEnvelope) protocol.ResponseEnvelope {
	start := time.Now()
	variant := env.Variant.Name()

	ctx, span := observability.Tracer().Start(ctx, observability.DispatchSpanName(variant),
		trace.WithAttributes(attribute.String("lldb_adapter.request.variant", variant)),
	)
	defer span.End()

	payload, pErr := c.route(ctx, env.Variant, env.Payload)
	if pErr != nil {
		observability.RecordDispatch(variant, "error", time.Since(start))
		span.SetAttributes(attribute.String("lldb_adapter.error.kind", string(pErr.Kind)))
		span.SetStatus(codes.Error, pErr.Message)
		c.log.Debug("request_failed", "variant", variant, "error_kind", pErr.Kind)
		return protocol.ErrorResponseEnvelope(env.Hash, pErr)
	}
	observability.RecordDispatch(variant, "ok", time.Since(start))
	return protocol.SuccessResponse(env.Hash, payload)
}

func (c *Connection) route(ctx context.Context, variant protocol.RequestVariant, payload []byte) ([]byte, *protocol.Error) {
	switch variant {
	// Target & process
	case protocol.ReqCreateTarget:
		return c.handleCreateTarget(ctx, payload)
	case protocol.ReqAttach:
		return c.handleAttach(ctx, payload)
	case protocol.ReqAttachByName:
		return c.handleAttachByName(ctx, payload)
	case protocol.ReqLoadCore:
		return c.handleLoadCore(ctx, payload)
	case protocol.ReqLaunch:
		return c.handleLaunch(ctx, payload)
	case protocol.ReqDetach:
		return c.handleDetach(ctx, payload)
	case protocol.ReqKill:
		return c.handleKill(ctx, payload)
	case protocol.ReqExit:
		return c.handleExit(ctx, payload)
	case protocol.ReqConnectPlatform:
		return c.handleConnectPlatform(ctx, payload)
	case protocol.ReqConnectProcess:
		return c.handleConnectProcess(ctx, payload)

	// Execution
	case protocol.ReqContinue:
		return c.handleContinue(ctx, payload)
	case protocol.ReqSuspend:
		return c.handleSuspend(ctx, payload)
	case protocol.ReqStepIn:
		return c.handleStepIn(ctx, payload)
	case protocol.ReqStepOver:
		return c.handleStepOver(ctx, payload)
	case protocol.ReqStepOut:
		return c.handleStepOut(ctx, payload)
	case protocol.ReqStepScripted:
		return c.handleStepScripted(ctx, payload)
	case protocol.ReqJumpToLine:
		return c.handleJumpToLine(ctx, payload)
	case protocol.ReqJumpToAddress:
		return c.handleJumpToAddress(ctx, payload)

	// Breakpoints
	case protocol.ReqAddBreakpoint:
		return c.handleAddBreakpoint(ctx, payload)
	case protocol.ReqRemoveBreakpoint:
		return c.handleRemoveBreakpoint(ctx, payload)
	case protocol.ReqAddWatchpoint:
		return c.handleAddWatchpoint(ctx, payload)
	case protocol.ReqRemoveWatchpoint:
		return c.handleRemoveWatchpoint(ctx, payload)
	case protocol.ReqSetCondition:
		return c.handleSetCondition(ctx, payload)
	case protocol.ReqSetIgnoreCount:
		return c.handleSetIgnoreCount(ctx, payload)
	case protocol.ReqSetEnabled:
		return c.handleSetEnabled(ctx, payload)
	case protocol.ReqSetThreadRestriction:
		return c.handleSetThreadRestriction(ctx, payload)

	// Threads/frames
	case protocol.ReqGetThreads:
		return c.handleGetThreads(ctx, payload)
	case protocol.ReqGetFrames:
		return c.handleGetFrames(ctx, payload)
	case protocol.ReqFreezeThread:
		return c.handleFreezeThread(ctx, payload)
	case protocol.ReqUnfreezeThread:
		return c.handleUnfreezeThread(ctx, payload)

	// Values
	case protocol.ReqVariables:
		return c.handleVariables(ctx, payload)
	case protocol.ReqValueChildren:
		return c.handleValueChildren(ctx, payload)
	case protocol.ReqValueData:
		return c.handleValueData(ctx, payload)
	case protocol.ReqValueDescription:
		return c.handleValueDescription(ctx, payload)
	case protocol.ReqValueAddress:
		return c.handleValueAddress(ctx, payload)
	case protocol.ReqChildrenCount:
		return c.handleChildrenCount(ctx, payload)
	case protocol.ReqArraySlice:
		return c.handleArraySlice(ctx, payload)
	case protocol.ReqSetValueFilteringPolicy:
		return c.handleSetValueFilteringPolicy(ctx, payload)
	case protocol.ReqEvaluate:
		return c.handleEvaluate(ctx, payload)

	// Memory/disassembly
	case protocol.ReqDumpMemory:
		return c.handleDumpMemory(ctx, payload)
	case protocol.ReqWriteMemory:
		return c.handleWriteMemory(ctx, payload)
	case protocol.ReqDisassemble:
		return c.handleDisassemble(ctx, payload)
	case protocol.ReqDumpSections:
		return c.handleDumpSections(ctx, payload)
	case protocol.ReqGetContextInfo:
		return c.handleGetContextInfo(ctx, payload)

	// Registers
	case protocol.ReqGetRegisters:
		return c.handleGetRegisters(ctx, payload)
	case protocol.ReqGetRegisterSets:
		return c.handleGetRegisterSets(ctx, payload)
	case protocol.ReqGetArchitecture:
		return c.handleGetArchitecture(ctx, payload)

	// Console/commands
	case protocol.ReqHandleConsoleCommand:
		return c.handleHandleConsoleCommand(ctx, payload)
	case protocol.ReqHandleCompletion:
		return c.handleHandleCompletion(ctx, payload)
	case protocol.ReqDispatchInput:
		return c.handleDispatchInput(ctx, payload)
	case protocol.ReqResizeConsole:
		return c.handleResizeConsole(ctx, payload)

	// Signals/symbols/shell
	case protocol.ReqHandleSignal:
		return c.handleHandleSignal(ctx, payload)
	case protocol.ReqExecuteShellCommand:
		return c.handleExecuteShellCommand(ctx, payload)
	case protocol.ReqCancelSymbolsDownload:
		return c.handleCancelSymbolsDownload(ctx, payload)

	default:
		return nil, protocol.Unknown("unrecognized request variant: " + variant.Name())
	}
}

// --- shared handle-resolution helpers ---

func (c *Connection) currentTarget() (engine.TargetHandle, *protocol.Error) {
	c.mu.Lock()
	t := c.target
	c.mu.Unlock()
	if t == nil {
		return nil, protocol.NoTarget()
	}
	return t, nil
}

func (c *Connection) currentProcess() (engine.ProcessHandle, *protocol.Error) {
	c.mu.Lock()
	p := c.process
	c.mu.Unlock()
	if p == nil {
		return nil, protocol.NoProcess()
	}
	return p, nil
}

func (c *Connection) threadHandle(id uint64) (engine.ThreadHandle, *protocol.Error) {
	h, pErr := c.registry.Lookup(registry.KindThread, id)
	if pErr != nil {
		return nil, pErr
	}
	return engine.ThreadHandle(h), nil
}

// frameHandle resolves a client-supplied FrameID. Zero means "no
// specific frame" — Evaluate's own doc comment treats FrameID 0 as the
// process's global scope, so a nil FrameHandle is passed straight
// through rather than rejected.
func (c *Connection) frameHandle(id uint64) (engine.FrameHandle, *protocol.Error) {
	if id == 0 {
		return nil, nil
	}
	h, pErr := c.registry.Lookup(registry.KindFrame, id)
	if pErr != nil {
		return nil, pErr
	}
	return engine.FrameHandle(h), nil
}

// internFrame mints a registry ID for frame at the given index of
// thread's call stack and stamps it onto the returned Frame, so a
// later Variables/Evaluate/GetRegisters call can resolve it back into
// the frameHandle the engine actually needs.
func (c *Connection) internFrame(thread engine.ThreadHandle, index uint32, f protocol.Frame) protocol.Frame {
	f.ID = c.registry.Intern(registry.KindFrame, frameRef{thread: thread, index: index})
	return f
}
