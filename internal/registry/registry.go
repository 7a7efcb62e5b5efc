// Package registry implements the stable-ID ↔ engine-handle mapping
// described in spec §3.1/§4.3: per-kind bidirectional tables, with
// long-lived kinds persisting for an object's protocol lifetime and
// ephemeral kinds scoped to a single stop-generation.
package registry

import (
	"sync"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

// Kind partitions the ID space (spec §3.1 — "per object kind").
type Kind uint8

const (
	KindBreakpoint Kind = iota
	KindWatchpoint
	KindThread
	KindFrame
	KindValue
	KindModule
	KindLocation
)

// Ephemeral reports whether ids of this kind are scoped to a single
// stop-generation and purged on every resume.
func (k Kind) Ephemeral() bool {
	switch k {
	case KindThread, KindFrame, KindValue:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindBreakpoint:
		return "breakpoint"
	case KindWatchpoint:
		return "watchpoint"
	case KindThread:
		return "thread"
	case KindFrame:
		return "frame"
	case KindValue:
		return "value"
	case KindModule:
		return "module"
	case KindLocation:
		return "location"
	default:
		return "unknown"
	}
}

// Handle is an opaque reference into the engine. The registry never
// inspects it — it only ever stores and returns it by identity, per
// spec §9's "cyclic engine/registry ownership" note: the registry owns
// identity tokens, not handles with shared ownership.
type Handle any

type entry struct {
	handle     Handle
	generation uint64
}

// Registry is safe for concurrent use by the dispatcher and event pump
// threads (spec §5 — "both threads may touch the registry under its
// lock").
type Registry struct {
	mu sync.Mutex

	nextID     uint64
	generation uint64

	byID map[Kind]map[uint64]entry
}

// New returns an empty Registry with the first generation active.
func New() *Registry {
	r := &Registry{
		nextID:     1, // 0 is never a real ID (spec §3.1)
		generation: 1,
		byID:       make(map[Kind]map[uint64]entry),
	}
	for _, k := range allKinds {
		r.byID[k] = make(map[uint64]entry)
	}
	return r
}

var allKinds = []Kind{
	KindBreakpoint, KindWatchpoint, KindThread, KindFrame, KindValue, KindModule, KindLocation,
}

// Intern assigns a fresh, never-reused stable ID to handle and records
// it under kind. Calling Intern twice with "the same" handle value
// produces two distinct IDs — identity de-duplication across calls is
// the caller's responsibility (the engine facade is expected to intern
// once per logical object, not once per query), matching the registry
// contract of spec §4.3: `intern` is a pure allocator, not a cache.
func (r *Registry) Intern(kind Kind, handle Handle) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++

	gen := uint64(0)
	if kind.Ephemeral() {
		gen = r.generation
	}
	r.byID[kind][id] = entry{handle: handle, generation: gen}
	return id
}

// Lookup resolves a stable ID back to its engine handle. Ephemeral
// kinds whose entry belongs to a prior stop-generation return
// protocol.StaleHandle rather than the handle (spec §3.1/§8).
func (r *Registry) Lookup(kind Kind, id uint64) (Handle, *protocol.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[kind][id]
	if !ok {
		return nil, protocol.NotFound(kind.String(), idString(id))
	}
	if kind.Ephemeral() && e.generation != r.generation {
		return nil, protocol.StaleHandle(kind.String())
	}
	return e.handle, nil
}

// Forget removes id from kind's table. Forgetting an unknown id is a
// no-op: callers that already validated existence via Lookup need not
// re-check here, and a double-forget during concurrent teardown paths
// is harmless.
func (r *Registry) Forget(kind Kind, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID[kind], id)
}

// BumpStopGeneration increments the active generation, immediately
// stranding every previously interned ephemeral-kind entry: their
// stored generation no longer equals the new current one, so Lookup
// starts returning STALE_HANDLE for them without a separate sweep
// (spec §4.3 — "ephemeral kinds use a generation-tagged hash map so
// stale lookups are O(1) rejected").
func (r *Registry) BumpStopGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	return r.generation
}

// CurrentGeneration reports the active stop-generation.
func (r *Registry) CurrentGeneration() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Size reports the number of live entries for kind, used by the admin
// introspection surface (SPEC_FULL §2) and metrics.
func (r *Registry) Size(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID[kind])
}

// Reset clears every kind's table. The ID allocator keeps counting, so
// an ID handed out before the reset is never handed out again. Used
// when a new CreateTarget drops the previous target and everything it
// owned (spec §4.9 — "drops old target + all breakpoints").
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range allKinds {
		r.byID[k] = make(map[uint64]entry)
	}
}

func idString(id uint64) string {
	// Small, allocation-light uint64->string without pulling in
	// strconv at every call site; kept local since it's only used to
	// build NOT_FOUND messages.
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
