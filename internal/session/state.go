// Package session implements the top-level debugger session state
// machine of spec §3.2/§4.9: the singleton that owns the current
// target/process and the precondition checks every dispatcher handler
// validates against before touching the engine.
package session

import (
	"sync"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

// State is one node of the session state machine (spec §3.2).
type State uint8

const (
	StateUninitialized State = iota
	StateTargetCreated
	StateLaunching
	StateAttaching
	StateStopped
	StateRunning
	StateExited
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateTargetCreated:
		return "TARGET_CREATED"
	case StateLaunching:
		return "LAUNCHING"
	case StateAttaching:
		return "ATTACHING"
	case StateStopped:
		return "STOPPED"
	case StateRunning:
		return "RUNNING"
	case StateExited:
		return "EXITED"
	default:
		return "UNKNOWN"
	}
}

// hasProcess reports whether current_process is meaningful in this
// state (spec §3.2: "present only in states {STOPPED, RUNNING, EXITED}").
func (s State) hasProcess() bool {
	return s == StateStopped || s == StateRunning || s == StateExited
}

// Session is the process-wide singleton (spec §3.2). It is safe for
// concurrent access by the dispatcher thread (precondition checks,
// request-driven transitions) and the event pump thread (engine-driven
// transitions), guarded by a single mutex per spec §5's
// "session-state mutex" (short critical sections, never held across
// engine calls or frame writes).
type Session struct {
	mu sync.Mutex

	state State

	currentTargetID  uint64 // 0 means none
	currentProcessID uint64 // 0 means none

	stopGeneration uint64
	initialized    bool
}

// New returns a Session in the initial UNINITIALIZED state.
func New() *Session {
	return &Session{state: StateUninitialized, stopGeneration: 1}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StopGeneration returns the counter bumped on every RUNNING
// transition (spec §3.2/§4.7).
func (s *Session) StopGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopGeneration
}

// CurrentTargetID returns the live target's id, or 0 if none.
func (s *Session) CurrentTargetID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTargetID
}

// CurrentProcessID returns the live process's id, or 0 if none.
func (s *Session) CurrentProcessID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentProcessID
}

// MarkInitialized records that the Initialized event has been sent,
// returning true the first time it's called for this session and
// false thereafter — callers use this to emit the event exactly once
// per connection even across re-launches (spec §4.9).
func (s *Session) MarkInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return false
	}
	s.initialized = true
	return true
}

// RequirePreconditions validates state against the three precondition
// classes every handler checks (spec §4.8): target-required,
// process-required, stop-required. Pass false for any check a
// particular handler doesn't need.
func (s *Session) RequirePreconditions(requireTarget, requireProcess, requireStopped bool) *protocol.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requireTarget && s.currentTargetID == 0 {
		return protocol.NoTarget()
	}
	if requireProcess && s.currentProcessID == 0 {
		return protocol.NoProcess()
	}
	if requireStopped && s.state != StateStopped {
		return protocol.NotStopped()
	}
	return nil
}

// CreateTarget transitions UNINITIALIZED|any → TARGET_CREATED,
// dropping whatever target/process preceded it (spec §4.9: "drops old
// target + all breakpoints" — breakpoint cleanup is the breakpoint
// manager's responsibility, triggered by the caller observing this
// return value).
func (s *Session) CreateTarget(targetID uint64) (hadPriorTarget bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hadPriorTarget = s.currentTargetID != 0
	s.state = StateTargetCreated
	s.currentTargetID = targetID
	s.currentProcessID = 0
	return hadPriorTarget
}

// BeginLaunch transitions TARGET_CREATED|EXITED → LAUNCHING. Returns
// ALREADY_LAUNCHED if a process is already live. Clears whatever
// process id survived from a prior EXITED process — LAUNCHING isn't
// one of the states current_process is present in (spec §3.2).
func (s *Session) BeginLaunch() *protocol.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentTargetID == 0 {
		return protocol.NoTarget()
	}
	if s.state == StateRunning || s.state == StateStopped || s.state == StateLaunching || s.state == StateAttaching {
		return protocol.AlreadyLaunched()
	}
	s.state = StateLaunching
	s.currentProcessID = 0
	return nil
}

// BeginAttach transitions TARGET_CREATED → ATTACHING, with the same
// process-id reset as BeginLaunch.
func (s *Session) BeginAttach() *protocol.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentTargetID == 0 {
		return protocol.NoTarget()
	}
	if s.state == StateRunning || s.state == StateStopped || s.state == StateLaunching || s.state == StateAttaching {
		return protocol.AlreadyLaunched()
	}
	s.state = StateAttaching
	s.currentProcessID = 0
	return nil
}

// SetProcess records the process id once the engine confirms
// launch/attach succeeded, without yet deciding STOPPED vs RUNNING —
// that follows from the engine's own first notification (spec §4.9:
// "engine: stopped-at-entry OR running").
func (s *Session) SetProcess(processID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentProcessID = processID
}

// TransitionToStopped moves LAUNCHING|ATTACHING|RUNNING → STOPPED. It
// does not itself bump stop_generation — that only happens on the
// RUNNING transition (spec §3.2).
func (s *Session) TransitionToStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateStopped
}

// TransitionToRunning moves STOPPED|LAUNCHING|ATTACHING → RUNNING and
// bumps stop_generation exactly once, returning the new value. Callers
// purge registry ephemeral state using this same value (spec §4.7
// step 2: "bumps stop_generation, purging ephemeral IDs before the
// event is sent").
func (s *Session) TransitionToRunning() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateRunning
	s.stopGeneration++
	return s.stopGeneration
}

// TransitionToExited moves any state → EXITED. current_process stays
// populated with the exited process's id — spec §3.2 lists EXITED
// among the states current_process is present in, so a client can
// still ask about the process that just exited (e.g. its last known
// threads/frames) until the next CreateTarget or BeginLaunch/Attach
// clears it.
func (s *Session) TransitionToExited() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateExited
}
