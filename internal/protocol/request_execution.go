package protocol

// This file implements the execution-control requests of spec §4.8:
// Continue, Suspend, StepIn/Over/Out, StepScripted, JumpToLine,
// JumpToAddress. None of these produce a meaningful response payload
// beyond acknowledgement — the resulting state transition is always
// reported via a subsequent Stopped or ProcessExited event (spec §4.7),
// never synchronously in the response.

// ThreadScopedRequest is embedded by every execution request that
// targets a specific thread (all of them: spec's debuggers step one
// thread at a time even under all-stop semantics).
type ThreadScopedRequest struct {
	ThreadID uint64
}

func (req ThreadScopedRequest) Encode(w *Writer) { w.WriteUint64(req.ThreadID) }

func decodeThreadScoped(r *Reader) (ThreadScopedRequest, error) {
	id, err := r.ReadUint64()
	return ThreadScopedRequest{ThreadID: id}, err
}

type ContinueRequest struct{ ThreadScopedRequest }

func (req ContinueRequest) Encode() []byte {
	w := NewWriter()
	req.ThreadScopedRequest.Encode(w)
	return w.Bytes()
}

func DecodeContinueRequest(payload []byte) (ContinueRequest, error) {
	t, err := decodeThreadScoped(NewReader(payload))
	return ContinueRequest{t}, err
}

type SuspendRequest struct{}

func (SuspendRequest) Encode() []byte { return nil }

func DecodeSuspendRequest(payload []byte) (SuspendRequest, error) { return SuspendRequest{}, nil }

type StepInRequest struct{ ThreadScopedRequest }

func (req StepInRequest) Encode() []byte {
	w := NewWriter()
	req.ThreadScopedRequest.Encode(w)
	return w.Bytes()
}

func DecodeStepInRequest(payload []byte) (StepInRequest, error) {
	t, err := decodeThreadScoped(NewReader(payload))
	return StepInRequest{t}, err
}

type StepOverRequest struct{ ThreadScopedRequest }

func (req StepOverRequest) Encode() []byte {
	w := NewWriter()
	req.ThreadScopedRequest.Encode(w)
	return w.Bytes()
}

func DecodeStepOverRequest(payload []byte) (StepOverRequest, error) {
	t, err := decodeThreadScoped(NewReader(payload))
	return StepOverRequest{t}, err
}

type StepOutRequest struct{ ThreadScopedRequest }

func (req StepOutRequest) Encode() []byte {
	w := NewWriter()
	req.ThreadScopedRequest.Encode(w)
	return w.Bytes()
}

func DecodeStepOutRequest(payload []byte) (StepOutRequest, error) {
	t, err := decodeThreadScoped(NewReader(payload))
	return StepOutRequest{t}, err
}

// StepScriptedRequest hands stepping off to a named scripted thread
// plan (spec's escape hatch for language-specific step logic, e.g.
// stepping across a generator resume point).
type StepScriptedRequest struct {
	ThreadScopedRequest
	PlanName string
	Args     []string
}

func (req StepScriptedRequest) Encode() []byte {
	w := NewWriter()
	req.ThreadScopedRequest.Encode(w)
	w.WriteString(req.PlanName)
	w.WriteStringSlice(req.Args)
	return w.Bytes()
}

func DecodeStepScriptedRequest(payload []byte) (StepScriptedRequest, error) {
	r := NewReader(payload)
	t, err := decodeThreadScoped(r)
	if err != nil {
		return StepScriptedRequest{}, err
	}
	req := StepScriptedRequest{ThreadScopedRequest: t}
	if req.PlanName, err = r.ReadString(); err != nil {
		return req, err
	}
	if req.Args, err = r.ReadStringSlice(); err != nil {
		return req, err
	}
	return req, nil
}

// JumpToLineRequest moves a thread's PC to a source line without
// executing the intervening instructions (spec §4.8).
type JumpToLineRequest struct {
	ThreadScopedRequest
	Location SourceLocation
}

func (req JumpToLineRequest) Encode() []byte {
	w := NewWriter()
	req.ThreadScopedRequest.Encode(w)
	req.Location.encode(w)
	return w.Bytes()
}

func DecodeJumpToLineRequest(payload []byte) (JumpToLineRequest, error) {
	r := NewReader(payload)
	t, err := decodeThreadScoped(r)
	if err != nil {
		return JumpToLineRequest{}, err
	}
	loc, err := decodeSourceLocation(r)
	if err != nil {
		return JumpToLineRequest{}, err
	}
	return JumpToLineRequest{ThreadScopedRequest: t, Location: loc}, nil
}

// JumpToAddressRequest is the raw-address counterpart of JumpToLine.
type JumpToAddressRequest struct {
	ThreadScopedRequest
	Address uint64
}

func (req JumpToAddressRequest) Encode() []byte {
	w := NewWriter()
	req.ThreadScopedRequest.Encode(w)
	w.WriteUint64(req.Address)
	return w.Bytes()
}

func DecodeJumpToAddressRequest(payload []byte) (JumpToAddressRequest, error) {
	r := NewReader(payload)
	t, err := decodeThreadScoped(r)
	if err != nil {
		return JumpToAddressRequest{}, err
	}
	addr, err := r.ReadUint64()
	if err != nil {
		return JumpToAddressRequest{}, err
	}
	return JumpToAddressRequest{ThreadScopedRequest: t, Address: addr}, nil
}
