package protocol

// This file implements value-inspection requests (spec §3.4/§4.6/§4.8):
// Variables, ValueChildren, ValueData, ValueDescription, ValueAddress,
// ChildrenCount, ArraySlice, SetValueFilteringPolicy, Evaluate.

// ValueKindMask selects which root categories Variables enumerates
// (spec §4.6): arguments, locals, statics, registers — bitwise OR'd.
type ValueKindMask uint32

const (
	ValueKindArguments ValueKindMask = 1 << iota
	ValueKindLocals
	ValueKindStatics
	ValueKindRegisters

	ValueKindAll = ValueKindArguments | ValueKindLocals | ValueKindStatics | ValueKindRegisters
)

// VariablesRequest enumerates the root values visible in a frame.
type VariablesRequest struct {
	FrameID  uint64
	KindMask ValueKindMask
}

func (req VariablesRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.FrameID)
	w.WriteUint32(uint32(req.KindMask))
	return w.Bytes()
}

func DecodeVariablesRequest(payload []byte) (VariablesRequest, error) {
	r := NewReader(payload)
	var req VariablesRequest
	var err error
	if req.FrameID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	mask, err := r.ReadUint32()
	if err != nil {
		return req, err
	}
	req.KindMask = ValueKindMask(mask)
	return req, nil
}

type VariablesResponse struct {
	Values []Value
}

func (resp VariablesResponse) Encode() []byte {
	w := NewWriter()
	encodeValues(w, resp.Values)
	return w.Bytes()
}

func DecodeVariablesResponse(payload []byte) (VariablesResponse, error) {
	r := NewReader(payload)
	vals, err := decodeValues(r)
	return VariablesResponse{Values: vals}, err
}

// ValueChildrenRequest pages a value's children, bounded by MaxDepth
// and MaxChildren per spec §4.6's lazy-expansion contract — a client
// never receives an unbounded subtree in one response.
type ValueChildrenRequest struct {
	ValueID     uint64
	Offset      uint32
	Count       uint32
	MaxDepth    uint32
	MaxChildren uint32
}

func (req ValueChildrenRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ValueID)
	w.WriteUint32(req.Offset)
	w.WriteUint32(req.Count)
	w.WriteUint32(req.MaxDepth)
	w.WriteUint32(req.MaxChildren)
	return w.Bytes()
}

func DecodeValueChildrenRequest(payload []byte) (ValueChildrenRequest, error) {
	r := NewReader(payload)
	var req ValueChildrenRequest
	var err error
	if req.ValueID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Offset, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.Count, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.MaxDepth, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.MaxChildren, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

// ValueChildrenResponse's HasMore reports whether children remain
// beyond this page (offset+len(Children)), independent of any given
// child's own HasMoreChildren — that field describes a child's
// un-materialized grandchildren, this describes the next page of
// Children itself (spec §4.6/§8 scenario 3).
type ValueChildrenResponse struct {
	Children []Value
	HasMore  bool
}

func (resp ValueChildrenResponse) Encode() []byte {
	w := NewWriter()
	encodeValues(w, resp.Children)
	w.WriteBool(resp.HasMore)
	return w.Bytes()
}

func DecodeValueChildrenResponse(payload []byte) (ValueChildrenResponse, error) {
	r := NewReader(payload)
	vals, err := decodeValues(r)
	if err != nil {
		return ValueChildrenResponse{}, err
	}
	hasMore, err := r.ReadBool()
	if err != nil {
		return ValueChildrenResponse{}, err
	}
	return ValueChildrenResponse{Children: vals, HasMore: hasMore}, nil
}

type ValueDataRequest struct {
	ValueID uint64
}

func (req ValueDataRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ValueID)
	return w.Bytes()
}

func DecodeValueDataRequest(payload []byte) (ValueDataRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return ValueDataRequest{ValueID: id}, err
}

type ValueDataResponse struct {
	Data []byte
}

func (resp ValueDataResponse) Encode() []byte {
	w := NewWriter()
	w.WriteBytes(resp.Data)
	return w.Bytes()
}

func DecodeValueDataResponse(payload []byte) (ValueDataResponse, error) {
	r := NewReader(payload)
	data, err := r.ReadBytes()
	return ValueDataResponse{Data: data}, err
}

type ValueDescriptionRequest struct {
	ValueID uint64
}

func (req ValueDescriptionRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ValueID)
	return w.Bytes()
}

func DecodeValueDescriptionRequest(payload []byte) (ValueDescriptionRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return ValueDescriptionRequest{ValueID: id}, err
}

type ValueDescriptionResponse struct {
	Description string
}

func (resp ValueDescriptionResponse) Encode() []byte {
	w := NewWriter()
	w.WriteString(resp.Description)
	return w.Bytes()
}

func DecodeValueDescriptionResponse(payload []byte) (ValueDescriptionResponse, error) {
	r := NewReader(payload)
	s, err := r.ReadString()
	return ValueDescriptionResponse{Description: s}, err
}

type ValueAddressRequest struct {
	ValueID uint64
}

func (req ValueAddressRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ValueID)
	return w.Bytes()
}

func DecodeValueAddressRequest(payload []byte) (ValueAddressRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return ValueAddressRequest{ValueID: id}, err
}

// ValueAddressResponse's HasAddress is false for values with no
// backing memory location (e.g. a register or a computed expression
// result), per spec §3.4.
type ValueAddressResponse struct {
	HasAddress bool
	Address    uint64
}

func (resp ValueAddressResponse) Encode() []byte {
	w := NewWriter()
	w.WriteBool(resp.HasAddress)
	w.WriteUint64(resp.Address)
	return w.Bytes()
}

func DecodeValueAddressResponse(payload []byte) (ValueAddressResponse, error) {
	r := NewReader(payload)
	var resp ValueAddressResponse
	var err error
	if resp.HasAddress, err = r.ReadBool(); err != nil {
		return resp, err
	}
	if resp.Address, err = r.ReadUint64(); err != nil {
		return resp, err
	}
	return resp, nil
}

type ChildrenCountRequest struct {
	ValueID uint64
}

func (req ChildrenCountRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ValueID)
	return w.Bytes()
}

func DecodeChildrenCountRequest(payload []byte) (ChildrenCountRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return ChildrenCountRequest{ValueID: id}, err
}

type ChildrenCountResponse struct {
	Count int32 // -1 if the engine cannot determine this cheaply
}

func (resp ChildrenCountResponse) Encode() []byte {
	w := NewWriter()
	w.WriteInt32(resp.Count)
	return w.Bytes()
}

func DecodeChildrenCountResponse(payload []byte) (ChildrenCountResponse, error) {
	r := NewReader(payload)
	n, err := r.ReadInt32()
	return ChildrenCountResponse{Count: n}, err
}

// ArraySliceRequest re-slices an array/pointer value over a caller
// supplied bounds window, independent of the lazy-paging offset/count
// used by ValueChildren (spec §4.6 treats these as distinct access
// patterns: sequential paging vs. random-access windowing).
type ArraySliceRequest struct {
	ValueID uint64
	Start   uint32
	Length  uint32
}

func (req ArraySliceRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ValueID)
	w.WriteUint32(req.Start)
	w.WriteUint32(req.Length)
	return w.Bytes()
}

func DecodeArraySliceRequest(payload []byte) (ArraySliceRequest, error) {
	r := NewReader(payload)
	var req ArraySliceRequest
	var err error
	if req.ValueID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Start, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.Length, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

type ArraySliceResponse struct {
	Elements []Value
}

func (resp ArraySliceResponse) Encode() []byte {
	w := NewWriter()
	encodeValues(w, resp.Elements)
	return w.Bytes()
}

func DecodeArraySliceResponse(payload []byte) (ArraySliceResponse, error) {
	r := NewReader(payload)
	vals, err := decodeValues(r)
	return ArraySliceResponse{Elements: vals}, err
}

// SetValueFilteringPolicyRequest changes which engine-internal values
// Variables surfaces for the remainder of the session (spec §4.6).
type SetValueFilteringPolicyRequest struct {
	Policy FilteringPolicy
}

func (req SetValueFilteringPolicyRequest) Encode() []byte {
	w := NewWriter()
	req.Policy.Encode(w)
	return w.Bytes()
}

func DecodeSetValueFilteringPolicyRequest(payload []byte) (SetValueFilteringPolicyRequest, error) {
	r := NewReader(payload)
	p, err := DecodeFilteringPolicy(r)
	return SetValueFilteringPolicyRequest{Policy: p}, err
}

type SetValueFilteringPolicyResponse struct{}

func (SetValueFilteringPolicyResponse) Encode() []byte { return nil }

func DecodeSetValueFilteringPolicyResponse(payload []byte) (SetValueFilteringPolicyResponse, error) {
	return SetValueFilteringPolicyResponse{}, nil
}

// EvaluateRequest compiles and runs an expression in the context of a
// frame (or, if FrameID is 0, the process's global scope — spec §4.6).
type EvaluateRequest struct {
	FrameID    uint64
	Expression string
}

func (req EvaluateRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.FrameID)
	w.WriteString(req.Expression)
	return w.Bytes()
}

func DecodeEvaluateRequest(payload []byte) (EvaluateRequest, error) {
	r := NewReader(payload)
	var req EvaluateRequest
	var err error
	if req.FrameID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Expression, err = r.ReadString(); err != nil {
		return req, err
	}
	return req, nil
}

type EvaluateResponse struct {
	Result Value
}

func (resp EvaluateResponse) Encode() []byte {
	w := NewWriter()
	resp.Result.Encode(w)
	return w.Bytes()
}

func DecodeEvaluateResponse(payload []byte) (EvaluateResponse, error) {
	r := NewReader(payload)
	v, err := DecodeValue(r)
	return EvaluateResponse{Result: v}, err
}
