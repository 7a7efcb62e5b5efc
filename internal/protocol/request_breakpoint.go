package protocol

// This file implements the breakpoint/watchpoint management requests
// of spec §4.5/§4.8.

// AddBreakpointRequest submits a kind-specific spec for resolution;
// AddWatchpointRequest is folded into the same spec shape (kind
// BPKindWatchpoint) since both produce a Breakpoint (spec §3.3 treats
// watchpoints as a breakpoint subtype, not a separate ID space).
type AddBreakpointRequest struct {
	Spec        BreakpointSpec
	Condition   *string
	IgnoreCount uint32
	Enabled     bool
}

func (req AddBreakpointRequest) Encode() []byte {
	w := NewWriter()
	req.Spec.Encode(w)
	w.WriteOptString(req.Condition)
	w.WriteUint32(req.IgnoreCount)
	w.WriteBool(req.Enabled)
	return w.Bytes()
}

func DecodeAddBreakpointRequest(payload []byte) (AddBreakpointRequest, error) {
	r := NewReader(payload)
	var req AddBreakpointRequest
	var err error
	if req.Spec, err = DecodeBreakpointSpec(r); err != nil {
		return req, err
	}
	if req.Condition, err = r.ReadOptString(); err != nil {
		return req, err
	}
	if req.IgnoreCount, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.Enabled, err = r.ReadBool(); err != nil {
		return req, err
	}
	return req, nil
}

// AddBreakpointResponse returns the breakpoint as created; resolution
// of its locations may still be pending and follows via a
// BreakpointLocationsResolved event (spec §4.5/§4.7).
type AddBreakpointResponse struct {
	Breakpoint Breakpoint
}

func (resp AddBreakpointResponse) Encode() []byte {
	w := NewWriter()
	resp.Breakpoint.Encode(w)
	return w.Bytes()
}

func DecodeAddBreakpointResponse(payload []byte) (AddBreakpointResponse, error) {
	r := NewReader(payload)
	bp, err := DecodeBreakpoint(r)
	return AddBreakpointResponse{Breakpoint: bp}, err
}

// AddWatchpointRequest is the dedicated watchpoint-creation variant;
// kept distinct from AddBreakpoint at the protocol level (spec lists
// them as separate request variants) even though both resolve to a
// Breakpoint with Spec.Kind == BPKindWatchpoint.
type AddWatchpointRequest struct {
	Address     uint64
	Size        uint32
	Read        bool
	Write       bool
	Condition   *string
	IgnoreCount uint32
}

func (req AddWatchpointRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.Address)
	w.WriteUint32(req.Size)
	w.WriteBool(req.Read)
	w.WriteBool(req.Write)
	w.WriteOptString(req.Condition)
	w.WriteUint32(req.IgnoreCount)
	return w.Bytes()
}

func DecodeAddWatchpointRequest(payload []byte) (AddWatchpointRequest, error) {
	r := NewReader(payload)
	var req AddWatchpointRequest
	var err error
	if req.Address, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Size, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.Read, err = r.ReadBool(); err != nil {
		return req, err
	}
	if req.Write, err = r.ReadBool(); err != nil {
		return req, err
	}
	if req.Condition, err = r.ReadOptString(); err != nil {
		return req, err
	}
	if req.IgnoreCount, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

type AddWatchpointResponse struct {
	Breakpoint Breakpoint
}

func (resp AddWatchpointResponse) Encode() []byte {
	w := NewWriter()
	resp.Breakpoint.Encode(w)
	return w.Bytes()
}

func DecodeAddWatchpointResponse(payload []byte) (AddWatchpointResponse, error) {
	r := NewReader(payload)
	bp, err := DecodeBreakpoint(r)
	return AddWatchpointResponse{Breakpoint: bp}, err
}

// RemoveBreakpointRequest and RemoveWatchpointRequest share a shape:
// both just name a breakpoint ID to delete.
type RemoveBreakpointRequest struct {
	BreakpointID uint64
}

func (req RemoveBreakpointRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.BreakpointID)
	return w.Bytes()
}

func DecodeRemoveBreakpointRequest(payload []byte) (RemoveBreakpointRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return RemoveBreakpointRequest{BreakpointID: id}, err
}

type RemoveWatchpointRequest struct {
	BreakpointID uint64
}

func (req RemoveWatchpointRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.BreakpointID)
	return w.Bytes()
}

func DecodeRemoveWatchpointRequest(payload []byte) (RemoveWatchpointRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return RemoveWatchpointRequest{BreakpointID: id}, err
}

// SetConditionRequest updates a breakpoint's conditional-expression
// string; nil clears it.
type SetConditionRequest struct {
	BreakpointID uint64
	Condition    *string
}

func (req SetConditionRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.BreakpointID)
	w.WriteOptString(req.Condition)
	return w.Bytes()
}

func DecodeSetConditionRequest(payload []byte) (SetConditionRequest, error) {
	r := NewReader(payload)
	var req SetConditionRequest
	var err error
	if req.BreakpointID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Condition, err = r.ReadOptString(); err != nil {
		return req, err
	}
	return req, nil
}

type SetIgnoreCountRequest struct {
	BreakpointID uint64
	IgnoreCount  uint32
}

func (req SetIgnoreCountRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.BreakpointID)
	w.WriteUint32(req.IgnoreCount)
	return w.Bytes()
}

func DecodeSetIgnoreCountRequest(payload []byte) (SetIgnoreCountRequest, error) {
	r := NewReader(payload)
	var req SetIgnoreCountRequest
	var err error
	if req.BreakpointID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.IgnoreCount, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

type SetEnabledRequest struct {
	BreakpointID uint64
	Enabled      bool
}

func (req SetEnabledRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.BreakpointID)
	w.WriteBool(req.Enabled)
	return w.Bytes()
}

func DecodeSetEnabledRequest(payload []byte) (SetEnabledRequest, error) {
	r := NewReader(payload)
	var req SetEnabledRequest
	var err error
	if req.BreakpointID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Enabled, err = r.ReadBool(); err != nil {
		return req, err
	}
	return req, nil
}

// SetThreadRestrictionRequest confines a breakpoint to firing only on
// the named thread; nil lifts any restriction.
type SetThreadRestrictionRequest struct {
	BreakpointID uint64
	ThreadID     *uint64
}

func (req SetThreadRestrictionRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.BreakpointID)
	if req.ThreadID != nil {
		w.WriteBool(true)
		w.WriteUint64(*req.ThreadID)
	} else {
		w.WriteBool(false)
	}
	return w.Bytes()
}

func DecodeSetThreadRestrictionRequest(payload []byte) (SetThreadRestrictionRequest, error) {
	r := NewReader(payload)
	var req SetThreadRestrictionRequest
	var err error
	if req.BreakpointID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	has, err := r.ReadBool()
	if err != nil {
		return req, err
	}
	if has {
		tid, err := r.ReadUint64()
		if err != nil {
			return req, err
		}
		req.ThreadID = &tid
	}
	return req, nil
}

// BreakpointMutationResponse is the shared acknowledgement shape for
// SetCondition/SetIgnoreCount/SetEnabled/SetThreadRestriction: the
// resulting Breakpoint snapshot is returned so the caller never has to
// issue a follow-up read, and a BreakpointChanged event is also written
// to the same connection's event stream. RemoveBreakpoint and
// RemoveWatchpoint answer with RemoveResponse instead.
type BreakpointMutationResponse struct {
	Breakpoint Breakpoint
}

func (resp BreakpointMutationResponse) Encode() []byte {
	w := NewWriter()
	resp.Breakpoint.Encode(w)
	return w.Bytes()
}

func DecodeBreakpointMutationResponse(payload []byte) (BreakpointMutationResponse, error) {
	r := NewReader(payload)
	bp, err := DecodeBreakpoint(r)
	return BreakpointMutationResponse{Breakpoint: bp}, err
}

// RemoveResponse acknowledges a deletion with no further payload.
type RemoveResponse struct{}

func (RemoveResponse) Encode() []byte { return nil }

func DecodeRemoveResponse(payload []byte) (RemoveResponse, error) { return RemoveResponse{}, nil }
