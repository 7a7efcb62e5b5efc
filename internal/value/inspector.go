// Package value implements the Value Inspector of spec §4.6: root
// variable enumeration filtered by kind mask and filtering policy,
// lazy child paging with has-more semantics, and synthetic values
// minted by expression evaluation.
package value

import (
	"context"
	"sync"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/cangjie-tools/lldb-adapter/internal/registry"
)

// engineValues narrows the engine facade to exactly what the
// Inspector calls, so it can be driven by any ThreadsFrames+Values
// pair rather than the full engine.Engine.
type engineValues interface {
	engine.ThreadsFrames
	engine.Values
}

// Inspector owns the value-inspection surface for one session: it
// mints registry IDs for every value it exposes, so a later child-page
// or Evaluate call can hand back just an ID instead of a full tree.
type Inspector struct {
	engine   engineValues
	registry *registry.Registry

	mu     sync.Mutex
	policy protocol.FilteringPolicy
}

// New returns an Inspector with the zero filtering policy, which
// includes none of the optional value categories — callers wanting a
// different default should call SetFilteringPolicy immediately after
// construction.
func New(eng engineValues, reg *registry.Registry) *Inspector {
	return &Inspector{engine: eng, registry: reg}
}

// SetFilteringPolicy replaces which categories of engine-internal
// values (compiler-recognized arguments, runtime-support values,
// artificial values) are surfaced by Variables (spec §4.6).
func (in *Inspector) SetFilteringPolicy(policy protocol.FilteringPolicy) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.policy = policy
}

// FilteringPolicy returns the currently active policy.
func (in *Inspector) FilteringPolicy() protocol.FilteringPolicy {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.policy
}

func (in *Inspector) internValues(vals []protocol.Value, handles []engine.ValueHandle) []protocol.Value {
	out := make([]protocol.Value, len(vals))
	for i, v := range vals {
		v.ID = in.registry.Intern(registry.KindValue, handles[i])
		out[i] = v
	}
	return out
}

// Variables enumerates the root values visible in a frame, restricted
// to kindMask's categories and the active filtering policy (spec
// §4.6). Each returned Value carries a fresh, generation-scoped ID.
func (in *Inspector) Variables(ctx context.Context, proc engine.ProcessHandle, frame engine.FrameHandle, kindMask protocol.ValueKindMask) ([]protocol.Value, *protocol.Error) {
	policy := in.FilteringPolicy()
	vals, handles, err := in.engine.ListVariables(ctx, proc, frame, kindMask, policy)
	if err != nil {
		return nil, protocol.EngineFailure(err.Error())
	}
	return in.internValues(vals, handles), nil
}

// Evaluate runs an expression in a frame's context and mints a
// registry ID for the resulting value, whether or not it corresponds
// to a named variable (spec §4.6).
func (in *Inspector) Evaluate(ctx context.Context, proc engine.ProcessHandle, frame engine.FrameHandle, expression string) (protocol.Value, *protocol.Error) {
	v, handle, err := in.engine.Evaluate(ctx, proc, frame, expression)
	if err != nil {
		return protocol.Value{}, protocol.EngineFailure(err.Error())
	}
	v.ID = in.registry.Intern(registry.KindValue, handle)
	return v, nil
}

func (in *Inspector) handle(valueID uint64) (engine.ValueHandle, *protocol.Error) {
	h, pErr := in.registry.Lookup(registry.KindValue, valueID)
	if pErr != nil {
		return nil, pErr
	}
	return engine.ValueHandle(h), nil
}

// maxChildrenPerPage bounds a single Children response regardless of
// the caller's requested count, so one malformed request can't force
// an unbounded reply (spec §4.6 "max_children").
const maxChildrenPerPage = 4096

// Children returns a page of a value's children starting at offset,
// honoring maxDepth for recursively-expandable containers and
// maxChildren as the caller's own page-size cap (0 means "no
// additional cap beyond maxChildrenPerPage"), and reports whether more
// children remain beyond this page (spec §4.6).
func (in *Inspector) Children(ctx context.Context, valueID uint64, offset, count, maxDepth, maxChildren uint32) ([]protocol.Value, bool, *protocol.Error) {
	h, pErr := in.handle(valueID)
	if pErr != nil {
		return nil, false, pErr
	}
	if count == 0 || count > maxChildrenPerPage {
		count = maxChildrenPerPage
	}
	if maxChildren != 0 && count > maxChildren {
		count = maxChildren
	}
	vals, handles, hasMore, err := in.engine.Children(ctx, h, offset, count, maxDepth)
	if err != nil {
		return nil, false, protocol.EngineFailure(err.Error())
	}
	return in.internValues(vals, handles), hasMore, nil
}

// ChildrenCount reports how many direct children a value has, or -1
// when the engine can't determine this without enumerating them (spec
// §3.4 "ChildrenCount of -1 means unknown, fetch children to discover").
func (in *Inspector) ChildrenCount(ctx context.Context, valueID uint64) (int32, *protocol.Error) {
	h, pErr := in.handle(valueID)
	if pErr != nil {
		return 0, pErr
	}
	n, err := in.engine.ChildrenCount(ctx, h)
	if err != nil {
		return 0, protocol.EngineFailure(err.Error())
	}
	return n, nil
}

// Data returns a value's raw backing bytes, e.g. for a UI's hex view.
func (in *Inspector) Data(ctx context.Context, valueID uint64) ([]byte, *protocol.Error) {
	h, pErr := in.handle(valueID)
	if pErr != nil {
		return nil, pErr
	}
	data, err := in.engine.Data(ctx, h)
	if err != nil {
		return nil, protocol.EngineFailure(err.Error())
	}
	return data, nil
}

// Description returns a value's human-readable summary string,
// independent of its raw Data (spec §3.4 "Summary").
func (in *Inspector) Description(ctx context.Context, valueID uint64) (string, *protocol.Error) {
	h, pErr := in.handle(valueID)
	if pErr != nil {
		return "", pErr
	}
	desc, err := in.engine.Description(ctx, h)
	if err != nil {
		return "", protocol.EngineFailure(err.Error())
	}
	return desc, nil
}

// Address returns a value's backing memory address, when it has one
// (not every value is addressable — e.g. a register-only or
// computed/synthetic value).
func (in *Inspector) Address(ctx context.Context, valueID uint64) (uint64, bool, *protocol.Error) {
	h, pErr := in.handle(valueID)
	if pErr != nil {
		return 0, false, pErr
	}
	addr, has, err := in.engine.Address(ctx, h)
	if err != nil {
		return 0, false, protocol.EngineFailure(err.Error())
	}
	return addr, has, nil
}

// ArraySlice returns a contiguous window of an array/slice-typed
// value's elements without walking every preceding child (spec §4.6 —
// the dedicated fast path for indexable containers).
func (in *Inspector) ArraySlice(ctx context.Context, valueID uint64, start, length uint32) ([]protocol.Value, *protocol.Error) {
	h, pErr := in.handle(valueID)
	if pErr != nil {
		return nil, pErr
	}
	vals, handles, err := in.engine.ArraySlice(ctx, h, start, length)
	if err != nil {
		return nil, protocol.EngineFailure(err.Error())
	}
	return in.internValues(vals, handles), nil
}
