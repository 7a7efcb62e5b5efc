package protocol

// This file implements register-inspection requests (spec §4.8).

type GetRegistersRequest struct {
	ThreadID    uint64
	FrameID     uint64
	RegisterSet string
}

func (req GetRegistersRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ThreadID)
	w.WriteUint64(req.FrameID)
	w.WriteString(req.RegisterSet)
	return w.Bytes()
}

func DecodeGetRegistersRequest(payload []byte) (GetRegistersRequest, error) {
	r := NewReader(payload)
	var req GetRegistersRequest
	var err error
	if req.ThreadID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.FrameID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.RegisterSet, err = r.ReadString(); err != nil {
		return req, err
	}
	return req, nil
}

// Register is a single named register value, kept as raw bytes since
// register width varies by architecture (spec's ARCHITECTURE field).
type Register struct {
	Name  string
	Value []byte
}

func (reg Register) encode(w *Writer) {
	w.WriteString(reg.Name)
	w.WriteBytes(reg.Value)
}

func decodeRegister(r *Reader) (Register, error) {
	var reg Register
	var err error
	if reg.Name, err = r.ReadString(); err != nil {
		return reg, err
	}
	if reg.Value, err = r.ReadBytes(); err != nil {
		return reg, err
	}
	return reg, nil
}

type GetRegistersResponse struct {
	Registers []Register
}

func (resp GetRegistersResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint32(uint32(len(resp.Registers)))
	for _, reg := range resp.Registers {
		reg.encode(w)
	}
	return w.Bytes()
}

func DecodeGetRegistersResponse(payload []byte) (GetRegistersResponse, error) {
	r := NewReader(payload)
	n, err := r.ReadUint32()
	if err != nil {
		return GetRegistersResponse{}, err
	}
	out := make([]Register, 0, n)
	for i := uint32(0); i < n; i++ {
		reg, err := decodeRegister(r)
		if err != nil {
			return GetRegistersResponse{}, err
		}
		out = append(out, reg)
	}
	return GetRegistersResponse{Registers: out}, nil
}

type GetRegisterSetsRequest struct{}

func (GetRegisterSetsRequest) Encode() []byte { return nil }

func DecodeGetRegisterSetsRequest(payload []byte) (GetRegisterSetsRequest, error) {
	return GetRegisterSetsRequest{}, nil
}

type GetRegisterSetsResponse struct {
	Names []string
}

func (resp GetRegisterSetsResponse) Encode() []byte {
	w := NewWriter()
	w.WriteStringSlice(resp.Names)
	return w.Bytes()
}

func DecodeGetRegisterSetsResponse(payload []byte) (GetRegisterSetsResponse, error) {
	r := NewReader(payload)
	names, err := r.ReadStringSlice()
	return GetRegisterSetsResponse{Names: names}, err
}

type GetArchitectureRequest struct{}

func (GetArchitectureRequest) Encode() []byte { return nil }

func DecodeGetArchitectureRequest(payload []byte) (GetArchitectureRequest, error) {
	return GetArchitectureRequest{}, nil
}

type GetArchitectureResponse struct {
	Architecture string
	AddressSize  uint8
}

func (resp GetArchitectureResponse) Encode() []byte {
	w := NewWriter()
	w.WriteString(resp.Architecture)
	w.WriteUint8(resp.AddressSize)
	return w.Bytes()
}

func DecodeGetArchitectureResponse(payload []byte) (GetArchitectureResponse, error) {
	r := NewReader(payload)
	var resp GetArchitectureResponse
	var err error
	if resp.Architecture, err = r.ReadString(); err != nil {
		return resp, err
	}
	if resp.AddressSize, err = r.ReadUint8(); err != nil {
		return resp, err
	}
	return resp, nil
}
