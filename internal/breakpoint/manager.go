// Package breakpoint implements the Breakpoint Manager of spec §4.5:
// creation (classifying the request by kind and invoking the engine),
// mutation (condition/ignore-count/enabled/thread-restriction, each
// independently settable), and deletion, with every change mirrored as
// a session-global event.
package breakpoint

import (
	"context"
	"sync"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/cangjie-tools/lldb-adapter/internal/registry"
)

// EventSink is the narrow surface the Manager needs from whatever
// writes events to the client (normally the connection's event pump).
// Breakpoint mutations are announced as events on that connection's
// stream, so the Manager never replies with the event itself — it only
// hands it to the sink.
type EventSink interface {
	BreakpointAdded(protocol.Breakpoint)
	BreakpointChanged(protocol.Breakpoint)
	BreakpointRemoved(id uint64)
	BreakpointLocationsResolved(id uint64, locations []protocol.Location)
}

// state is the Manager's own bookkeeping for one breakpoint, kept
// alongside (not instead of) the registry's ID↔handle mapping: the
// registry only knows the engine handle, the Manager layers the
// protocol-visible mutable fields on top of it.
type state struct {
	kind              registry.Kind // KindBreakpoint or KindWatchpoint
	spec              protocol.BreakpointSpec
	condition         *string
	ignoreCount       uint32
	threadRestriction *uint64
	enabled           bool
	locations         []protocol.Location
	hitCount          uint32
}

// Manager owns the breakpoint/watchpoint table for one session. It is
// safe for concurrent use by dispatcher handlers and the event pump.
type Manager struct {
	mu       sync.Mutex
	engine   engine.Breakpoints
	registry *registry.Registry
	sink     EventSink

	byID map[uint64]*state
}

// New returns a Manager bound to an engine facade, the session's
// registry, and wherever events should be broadcast.
func New(eng engine.Breakpoints, reg *registry.Registry, sink EventSink) *Manager {
	return &Manager{
		engine:   eng,
		registry: reg,
		sink:     sink,
		byID:     make(map[uint64]*state),
	}
}

// Create adds a line/address/function/symbol breakpoint against a
// target (spec §4.5 "creation"). The returned Breakpoint carries
// registry-minted IDs for both itself and every resolved location;
// unresolved (pending) specs come back with an empty Locations slice,
// resolved later via BreakpointLocationsResolved.
func (m *Manager) Create(ctx context.Context, target engine.TargetHandle, spec protocol.BreakpointSpec) (protocol.Breakpoint, *protocol.Error) {
	return m.create(ctx, target, spec, registry.KindBreakpoint)
}

// CreateWatchpoint adds a watchpoint (spec §4.5 "watchpoint
// semantics"): size is passed to the engine verbatim and read/write
// flags are distinct, independently-settable bits of the spec.
func (m *Manager) CreateWatchpoint(ctx context.Context, target engine.TargetHandle, spec protocol.BreakpointSpec) (protocol.Breakpoint, *protocol.Error) {
	return m.create(ctx, target, spec, registry.KindWatchpoint)
}

func (m *Manager) create(ctx context.Context, target engine.TargetHandle, spec protocol.BreakpointSpec, kind registry.Kind) (protocol.Breakpoint, *protocol.Error) {
	handle, rawLocs, err := m.engine.Create(ctx, target, spec)
	if err != nil {
		return protocol.Breakpoint{}, protocol.EngineFailure(err.Error())
	}

	locs := make([]protocol.Location, len(rawLocs))
	for i, loc := range rawLocs {
		loc.LocationID = m.registry.Intern(registry.KindLocation, loc)
		locs[i] = loc
	}

	id := m.registry.Intern(kind, handle)

	m.mu.Lock()
	m.byID[id] = &state{kind: kind, spec: spec, enabled: true, locations: locs}
	m.mu.Unlock()

	bp := protocol.Breakpoint{ID: id, Spec: spec, Enabled: true, Locations: locs}
	m.sink.BreakpointAdded(bp)
	return bp, nil
}

func (m *Manager) lookup(id uint64, kind registry.Kind) (engine.BreakHandle, *state, *protocol.Error) {
	handle, pErr := m.registry.Lookup(kind, id)
	if pErr != nil {
		return nil, nil, pErr
	}
	m.mu.Lock()
	st, ok := m.byID[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil, protocol.NotFound("breakpoint", idDecimal(id))
	}
	return handle, st, nil
}

// SetCondition updates or clears (nil) a breakpoint's condition
// expression, independently of every other mutable field (spec §4.5).
func (m *Manager) SetCondition(ctx context.Context, id uint64, condition *string) (protocol.Breakpoint, *protocol.Error) {
	handle, st, pErr := m.lookup(id, registry.KindBreakpoint)
	if pErr != nil {
		return protocol.Breakpoint{}, pErr
	}
	if err := m.engine.SetCondition(ctx, handle, condition); err != nil {
		return protocol.Breakpoint{}, protocol.EngineFailure(err.Error())
	}
	m.mu.Lock()
	st.condition = condition
	bp := m.snapshot(id, st)
	m.mu.Unlock()
	m.sink.BreakpointChanged(bp)
	return bp, nil
}

// SetIgnoreCount updates how many hits are skipped before the
// breakpoint actually stops the process (spec §4.5).
func (m *Manager) SetIgnoreCount(ctx context.Context, id uint64, count uint32) (protocol.Breakpoint, *protocol.Error) {
	handle, st, pErr := m.lookup(id, registry.KindBreakpoint)
	if pErr != nil {
		return protocol.Breakpoint{}, pErr
	}
	if err := m.engine.SetIgnoreCount(ctx, handle, count); err != nil {
		return protocol.Breakpoint{}, protocol.EngineFailure(err.Error())
	}
	m.mu.Lock()
	st.ignoreCount = count
	bp := m.snapshot(id, st)
	m.mu.Unlock()
	m.sink.BreakpointChanged(bp)
	return bp, nil
}

// SetEnabled toggles whether the breakpoint can stop the process at
// all without removing it from the table (spec §4.5).
func (m *Manager) SetEnabled(ctx context.Context, id uint64, enabled bool) (protocol.Breakpoint, *protocol.Error) {
	handle, st, pErr := m.lookup(id, registry.KindBreakpoint)
	if pErr != nil {
		return protocol.Breakpoint{}, pErr
	}
	if err := m.engine.SetEnabled(ctx, handle, enabled); err != nil {
		return protocol.Breakpoint{}, protocol.EngineFailure(err.Error())
	}
	m.mu.Lock()
	st.enabled = enabled
	bp := m.snapshot(id, st)
	m.mu.Unlock()
	m.sink.BreakpointChanged(bp)
	return bp, nil
}

// SetThreadRestriction pins a breakpoint to only stop a specific
// thread, or clears the restriction when threadID is nil (spec §4.5).
// The threadID is an ephemeral registry ID; it is resolved once, at
// call time, and the engine is given the raw handle — the Manager does
// not itself re-validate it against later stop-generations.
func (m *Manager) SetThreadRestriction(ctx context.Context, id uint64, threadID *uint64) (protocol.Breakpoint, *protocol.Error) {
	handle, st, pErr := m.lookup(id, registry.KindBreakpoint)
	if pErr != nil {
		return protocol.Breakpoint{}, pErr
	}

	var threadHandle *engine.ThreadHandle
	if threadID != nil {
		h, pErr := m.registry.Lookup(registry.KindThread, *threadID)
		if pErr != nil {
			return protocol.Breakpoint{}, pErr
		}
		th := engine.ThreadHandle(h)
		threadHandle = &th
	}

	if err := m.engine.SetThreadRestriction(ctx, handle, threadHandle); err != nil {
		return protocol.Breakpoint{}, protocol.EngineFailure(err.Error())
	}
	m.mu.Lock()
	st.threadRestriction = threadID
	bp := m.snapshot(id, st)
	m.mu.Unlock()
	m.sink.BreakpointChanged(bp)
	return bp, nil
}

// Remove deletes a breakpoint or watchpoint from both the engine and
// the registry (spec §4.5 "deletion" — NOT_FOUND for an unknown id).
func (m *Manager) Remove(ctx context.Context, id uint64) *protocol.Error {
	return m.remove(ctx, id, registry.KindBreakpoint)
}

// RemoveWatchpoint is Remove's watchpoint-kind counterpart (spec §4.5:
// AddBreakpoint/AddWatchpoint and RemoveBreakpoint/RemoveWatchpoint
// route through distinct request variants, not a shared one).
func (m *Manager) RemoveWatchpoint(ctx context.Context, id uint64) *protocol.Error {
	return m.remove(ctx, id, registry.KindWatchpoint)
}

func (m *Manager) remove(ctx context.Context, id uint64, kind registry.Kind) *protocol.Error {
	handle, st, pErr := m.lookup(id, kind)
	if pErr != nil {
		return pErr
	}
	if err := m.engine.DeleteBreakpoint(ctx, handle); err != nil {
		return protocol.EngineFailure(err.Error())
	}

	m.mu.Lock()
	for _, loc := range st.locations {
		m.registry.Forget(registry.KindLocation, loc.LocationID)
	}
	delete(m.byID, id)
	m.mu.Unlock()
	m.registry.Forget(kind, id)

	m.sink.BreakpointRemoved(id)
	return nil
}

// ResolveLocations records that the engine has resolved a previously
// pending breakpoint's locations, minting registry IDs for each one
// and broadcasting BreakpointLocationsResolved (spec §4.5 "pending
// breakpoints").
func (m *Manager) ResolveLocations(id uint64, rawLocs []protocol.Location) *protocol.Error {
	m.mu.Lock()
	st, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return protocol.NotFound("breakpoint", idDecimal(id))
	}
	locs := make([]protocol.Location, len(rawLocs))
	for i, loc := range rawLocs {
		loc.LocationID = m.registry.Intern(registry.KindLocation, loc)
		locs[i] = loc
	}
	st.locations = locs
	m.mu.Unlock()

	m.sink.BreakpointLocationsResolved(id, locs)
	return nil
}

// Get returns the current snapshot of one breakpoint.
func (m *Manager) Get(id uint64) (protocol.Breakpoint, *protocol.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.byID[id]
	if !ok {
		return protocol.Breakpoint{}, protocol.NotFound("breakpoint", idDecimal(id))
	}
	return m.snapshot(id, st), nil
}

// Count returns the number of live breakpoints plus watchpoints,
// exposed through the admin surface's introspection (spec §6.5).
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// Reset clears every breakpoint and watchpoint, announcing a
// BreakpointRemoved for each. Used when CreateTarget drops the
// previous target (spec §3.3: "deleting the target deletes all its
// breakpoints and emits REMOVED for each"); the engine-side state is
// already gone with the target, this just drops our own bookkeeping
// and tells clients about it to match.
func (m *Manager) Reset() {
	m.mu.Lock()
	ids := make([]uint64, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	m.byID = make(map[uint64]*state)
	m.mu.Unlock()

	for _, id := range ids {
		m.sink.BreakpointRemoved(id)
	}
}

// snapshot assembles the protocol-level Breakpoint from internal
// state. Caller must hold m.mu.
func (m *Manager) snapshot(id uint64, st *state) protocol.Breakpoint {
	return protocol.Breakpoint{
		ID:                id,
		Spec:              st.spec,
		Condition:         st.condition,
		IgnoreCount:       st.ignoreCount,
		ThreadRestriction: st.threadRestriction,
		Enabled:           st.enabled,
		Locations:         st.locations,
		HitCount:          st.hitCount,
	}
}

func idDecimal(id uint64) string {
	if id == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = byte('0' + id%10)
		id /= 10
	}
	return string(buf[i:])
}
