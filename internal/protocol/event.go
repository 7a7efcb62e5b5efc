package protocol

// This file implements the unsolicited event payloads of spec §4.7:
// Initialized, ProcessRunning, Stopped, ProcessExited, BreakpointAdded,
// BreakpointChanged, BreakpointRemoved, BreakpointLocationsResolved,
// ModuleLoaded, ModuleUnloaded, Stdout, Stderr.

// InitializedEvent fires exactly once per connection, before any
// other event, once the dispatcher's read loop is ready to accept
// requests (spec §4.9).
type InitializedEvent struct{}

func (InitializedEvent) Encode() []byte { return nil }

func DecodeInitializedEvent(payload []byte) (InitializedEvent, error) {
	return InitializedEvent{}, nil
}

// ProcessRunningEvent announces the transition into the RUNNING state,
// e.g. immediately after Launch/Continue accept (spec §3.2).
type ProcessRunningEvent struct {
	ProcessID uint64
}

func (evt ProcessRunningEvent) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(evt.ProcessID)
	return w.Bytes()
}

func DecodeProcessRunningEvent(payload []byte) (ProcessRunningEvent, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return ProcessRunningEvent{ProcessID: id}, err
}

// StoppedEvent is emitted once per stop, after the stop-generation
// counter has already been bumped by the preceding resume and the
// reporting thread (ThreadID) has been assigned a fresh,
// generation-scoped ID. No other thread is interned before the event
// is sent; GetThreads mints IDs for the rest. By the time a client
// observes this event, GetThreads/GetFrames are safe to call.
type StoppedEvent struct {
	ThreadID       uint64
	StopGeneration uint64
	Info           StopInfo
	AllThreadsStopped bool
}

func (evt StoppedEvent) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(evt.ThreadID)
	w.WriteUint64(evt.StopGeneration)
	evt.Info.Encode(w)
	w.WriteBool(evt.AllThreadsStopped)
	return w.Bytes()
}

func DecodeStoppedEvent(payload []byte) (StoppedEvent, error) {
	r := NewReader(payload)
	var evt StoppedEvent
	var err error
	if evt.ThreadID, err = r.ReadUint64(); err != nil {
		return evt, err
	}
	if evt.StopGeneration, err = r.ReadUint64(); err != nil {
		return evt, err
	}
	if evt.Info, err = DecodeStopInfo(r); err != nil {
		return evt, err
	}
	if evt.AllThreadsStopped, err = r.ReadBool(); err != nil {
		return evt, err
	}
	return evt, nil
}

// ProcessExitedEvent is terminal: no further Stopped/ProcessRunning
// events follow it for the same process (spec §3.2 EXITED state).
type ProcessExitedEvent struct {
	ProcessID uint64
	ExitCode  int32
	Signaled  bool
}

func (evt ProcessExitedEvent) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(evt.ProcessID)
	w.WriteInt32(evt.ExitCode)
	w.WriteBool(evt.Signaled)
	return w.Bytes()
}

func DecodeProcessExitedEvent(payload []byte) (ProcessExitedEvent, error) {
	r := NewReader(payload)
	var evt ProcessExitedEvent
	var err error
	if evt.ProcessID, err = r.ReadUint64(); err != nil {
		return evt, err
	}
	if evt.ExitCode, err = r.ReadInt32(); err != nil {
		return evt, err
	}
	if evt.Signaled, err = r.ReadBool(); err != nil {
		return evt, err
	}
	return evt, nil
}

// BreakpointAddedEvent/BreakpointChangedEvent/BreakpointRemovedEvent
// report a breakpoint-table mutation on the event stream of the
// connection that owns the table; each connection has its own session
// and breakpoint table, so no other connection receives them.
type BreakpointAddedEvent struct {
	Breakpoint Breakpoint
}

func (evt BreakpointAddedEvent) Encode() []byte {
	w := NewWriter()
	evt.Breakpoint.Encode(w)
	return w.Bytes()
}

func DecodeBreakpointAddedEvent(payload []byte) (BreakpointAddedEvent, error) {
	r := NewReader(payload)
	bp, err := DecodeBreakpoint(r)
	return BreakpointAddedEvent{Breakpoint: bp}, err
}

type BreakpointChangedEvent struct {
	Breakpoint Breakpoint
}

func (evt BreakpointChangedEvent) Encode() []byte {
	w := NewWriter()
	evt.Breakpoint.Encode(w)
	return w.Bytes()
}

func DecodeBreakpointChangedEvent(payload []byte) (BreakpointChangedEvent, error) {
	r := NewReader(payload)
	bp, err := DecodeBreakpoint(r)
	return BreakpointChangedEvent{Breakpoint: bp}, err
}

type BreakpointRemovedEvent struct {
	BreakpointID uint64
}

func (evt BreakpointRemovedEvent) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(evt.BreakpointID)
	return w.Bytes()
}

func DecodeBreakpointRemovedEvent(payload []byte) (BreakpointRemovedEvent, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return BreakpointRemovedEvent{BreakpointID: id}, err
}

// BreakpointLocationsResolvedEvent reports that a (possibly deferred,
// e.g. set-before-module-load) breakpoint spec has now resolved to
// concrete addresses (spec §4.5).
type BreakpointLocationsResolvedEvent struct {
	BreakpointID uint64
	Locations    []Location
}

func (evt BreakpointLocationsResolvedEvent) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(evt.BreakpointID)
	encodeLocations(w, evt.Locations)
	return w.Bytes()
}

func DecodeBreakpointLocationsResolvedEvent(payload []byte) (BreakpointLocationsResolvedEvent, error) {
	r := NewReader(payload)
	var evt BreakpointLocationsResolvedEvent
	var err error
	if evt.BreakpointID, err = r.ReadUint64(); err != nil {
		return evt, err
	}
	if evt.Locations, err = decodeLocations(r); err != nil {
		return evt, err
	}
	return evt, nil
}

// ModuleLoadedEvent/ModuleUnloadedEvent track shared-library lifecycle
// in the debuggee's address space, relevant to breakpoint resolution
// and symbol lookups.
type ModuleLoadedEvent struct {
	Path        string
	LoadAddress uint64
	HasSymbols  bool
}

func (evt ModuleLoadedEvent) Encode() []byte {
	w := NewWriter()
	w.WriteString(evt.Path)
	w.WriteUint64(evt.LoadAddress)
	w.WriteBool(evt.HasSymbols)
	return w.Bytes()
}

func DecodeModuleLoadedEvent(payload []byte) (ModuleLoadedEvent, error) {
	r := NewReader(payload)
	var evt ModuleLoadedEvent
	var err error
	if evt.Path, err = r.ReadString(); err != nil {
		return evt, err
	}
	if evt.LoadAddress, err = r.ReadUint64(); err != nil {
		return evt, err
	}
	if evt.HasSymbols, err = r.ReadBool(); err != nil {
		return evt, err
	}
	return evt, nil
}

type ModuleUnloadedEvent struct {
	Path string
}

func (evt ModuleUnloadedEvent) Encode() []byte {
	w := NewWriter()
	w.WriteString(evt.Path)
	return w.Bytes()
}

func DecodeModuleUnloadedEvent(payload []byte) (ModuleUnloadedEvent, error) {
	r := NewReader(payload)
	path, err := r.ReadString()
	return ModuleUnloadedEvent{Path: path}, err
}

// StdoutEvent/StderrEvent relay the debuggee's inherited output
// streams when the adapter owns its pty/pipes (spec §4.7).
type StdoutEvent struct {
	Data []byte
}

func (evt StdoutEvent) Encode() []byte {
	w := NewWriter()
	w.WriteBytes(evt.Data)
	return w.Bytes()
}

func DecodeStdoutEvent(payload []byte) (StdoutEvent, error) {
	r := NewReader(payload)
	data, err := r.ReadBytes()
	return StdoutEvent{Data: data}, err
}

type StderrEvent struct {
	Data []byte
}

func (evt StderrEvent) Encode() []byte {
	w := NewWriter()
	w.WriteBytes(evt.Data)
	return w.Bytes()
}

func DecodeStderrEvent(payload []byte) (StderrEvent, error) {
	r := NewReader(payload)
	data, err := r.ReadBytes()
	return StderrEvent{Data: data}, err
}
