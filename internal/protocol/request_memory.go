package protocol

// This file implements memory, disassembly and section-map requests
// (spec §4.8).

type DumpMemoryRequest struct {
	Address uint64
	Length  uint32
}

func (req DumpMemoryRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.Address)
	w.WriteUint32(req.Length)
	return w.Bytes()
}

func DecodeDumpMemoryRequest(payload []byte) (DumpMemoryRequest, error) {
	r := NewReader(payload)
	var req DumpMemoryRequest
	var err error
	if req.Address, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Length, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

// DumpMemoryResponse's Data may be shorter than requested if the
// region is partially unmapped; Bytes[i] validity beyond Length isn't
// guaranteed (spec §4.8 edge case: short reads at segment boundaries
// are reported, not rejected).
type DumpMemoryResponse struct {
	Data []byte
}

func (resp DumpMemoryResponse) Encode() []byte {
	w := NewWriter()
	w.WriteBytes(resp.Data)
	return w.Bytes()
}

func DecodeDumpMemoryResponse(payload []byte) (DumpMemoryResponse, error) {
	r := NewReader(payload)
	data, err := r.ReadBytes()
	return DumpMemoryResponse{Data: data}, err
}

type WriteMemoryRequest struct {
	Address uint64
	Data    []byte
}

func (req WriteMemoryRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.Address)
	w.WriteBytes(req.Data)
	return w.Bytes()
}

func DecodeWriteMemoryRequest(payload []byte) (WriteMemoryRequest, error) {
	r := NewReader(payload)
	var req WriteMemoryRequest
	var err error
	if req.Address, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.Data, err = r.ReadBytes(); err != nil {
		return req, err
	}
	return req, nil
}

type WriteMemoryResponse struct {
	BytesWritten uint32
}

func (resp WriteMemoryResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint32(resp.BytesWritten)
	return w.Bytes()
}

func DecodeWriteMemoryResponse(payload []byte) (WriteMemoryResponse, error) {
	r := NewReader(payload)
	n, err := r.ReadUint32()
	return WriteMemoryResponse{BytesWritten: n}, err
}

// DisassembleRequest covers a count of instructions starting at
// Address, grounded on the same cursor-window idea as DumpMemory but
// counted in instructions rather than bytes since instruction length
// is architecture-variable.
type DisassembleRequest struct {
	Address      uint64
	InstrCount   uint32
	MixedSource  bool
}

func (req DisassembleRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.Address)
	w.WriteUint32(req.InstrCount)
	w.WriteBool(req.MixedSource)
	return w.Bytes()
}

func DecodeDisassembleRequest(payload []byte) (DisassembleRequest, error) {
	r := NewReader(payload)
	var req DisassembleRequest
	var err error
	if req.Address, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.InstrCount, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.MixedSource, err = r.ReadBool(); err != nil {
		return req, err
	}
	return req, nil
}

// Instruction is a single disassembled machine instruction.
type Instruction struct {
	Address  uint64
	RawBytes []byte
	Mnemonic string
	Operands string
	Source   *SourceLocation
}

func (i Instruction) encode(w *Writer) {
	w.WriteUint64(i.Address)
	w.WriteBytes(i.RawBytes)
	w.WriteString(i.Mnemonic)
	w.WriteString(i.Operands)
	if i.Source != nil {
		w.WriteBool(true)
		i.Source.encode(w)
	} else {
		w.WriteBool(false)
	}
}

func decodeInstruction(r *Reader) (Instruction, error) {
	var i Instruction
	var err error
	if i.Address, err = r.ReadUint64(); err != nil {
		return i, err
	}
	if i.RawBytes, err = r.ReadBytes(); err != nil {
		return i, err
	}
	if i.Mnemonic, err = r.ReadString(); err != nil {
		return i, err
	}
	if i.Operands, err = r.ReadString(); err != nil {
		return i, err
	}
	has, err := r.ReadBool()
	if err != nil {
		return i, err
	}
	if has {
		loc, err := decodeSourceLocation(r)
		if err != nil {
			return i, err
		}
		i.Source = &loc
	}
	return i, nil
}

type DisassembleResponse struct {
	Instructions []Instruction
}

func (resp DisassembleResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint32(uint32(len(resp.Instructions)))
	for _, instr := range resp.Instructions {
		instr.encode(w)
	}
	return w.Bytes()
}

func DecodeDisassembleResponse(payload []byte) (DisassembleResponse, error) {
	r := NewReader(payload)
	n, err := r.ReadUint32()
	if err != nil {
		return DisassembleResponse{}, err
	}
	out := make([]Instruction, 0, n)
	for i := uint32(0); i < n; i++ {
		instr, err := decodeInstruction(r)
		if err != nil {
			return DisassembleResponse{}, err
		}
		out = append(out, instr)
	}
	return DisassembleResponse{Instructions: out}, nil
}

type DumpSectionsRequest struct{}

func (DumpSectionsRequest) Encode() []byte { return nil }

func DecodeDumpSectionsRequest(payload []byte) (DumpSectionsRequest, error) {
	return DumpSectionsRequest{}, nil
}

// Section describes one loaded image section/segment.
type Section struct {
	Name          string
	LoadAddress   uint64
	Size          uint64
	Permissions   string
	ModulePath    string
}

func (s Section) encode(w *Writer) {
	w.WriteString(s.Name)
	w.WriteUint64(s.LoadAddress)
	w.WriteUint64(s.Size)
	w.WriteString(s.Permissions)
	w.WriteString(s.ModulePath)
}

func decodeSection(r *Reader) (Section, error) {
	var s Section
	var err error
	if s.Name, err = r.ReadString(); err != nil {
		return s, err
	}
	if s.LoadAddress, err = r.ReadUint64(); err != nil {
		return s, err
	}
	if s.Size, err = r.ReadUint64(); err != nil {
		return s, err
	}
	if s.Permissions, err = r.ReadString(); err != nil {
		return s, err
	}
	if s.ModulePath, err = r.ReadString(); err != nil {
		return s, err
	}
	return s, nil
}

type DumpSectionsResponse struct {
	Sections []Section
}

func (resp DumpSectionsResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint32(uint32(len(resp.Sections)))
	for _, s := range resp.Sections {
		s.encode(w)
	}
	return w.Bytes()
}

func DecodeDumpSectionsResponse(payload []byte) (DumpSectionsResponse, error) {
	r := NewReader(payload)
	n, err := r.ReadUint32()
	if err != nil {
		return DumpSectionsResponse{}, err
	}
	out := make([]Section, 0, n)
	for i := uint32(0); i < n; i++ {
		s, err := decodeSection(r)
		if err != nil {
			return DumpSectionsResponse{}, err
		}
		out = append(out, s)
	}
	return DumpSectionsResponse{Sections: out}, nil
}

// GetContextInfoRequest asks for a human-oriented summary of the
// current stop location (source line context, surrounding disassembly
// availability) — the bundled convenience call UIs issue right after
// a Stopped event instead of three separate round trips.
type GetContextInfoRequest struct {
	ThreadID uint64
}

func (req GetContextInfoRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ThreadID)
	return w.Bytes()
}

func DecodeGetContextInfoRequest(payload []byte) (GetContextInfoRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return GetContextInfoRequest{ThreadID: id}, err
}

type GetContextInfoResponse struct {
	Location    *SourceLocation
	FrameID     uint64
	FunctionName string
}

func (resp GetContextInfoResponse) Encode() []byte {
	w := NewWriter()
	if resp.Location != nil {
		w.WriteBool(true)
		resp.Location.encode(w)
	} else {
		w.WriteBool(false)
	}
	w.WriteUint64(resp.FrameID)
	w.WriteString(resp.FunctionName)
	return w.Bytes()
}

func DecodeGetContextInfoResponse(payload []byte) (GetContextInfoResponse, error) {
	r := NewReader(payload)
	var resp GetContextInfoResponse
	has, err := r.ReadBool()
	if err != nil {
		return resp, err
	}
	if has {
		loc, err := decodeSourceLocation(r)
		if err != nil {
			return resp, err
		}
		resp.Location = &loc
	}
	var err2 error
	if resp.FrameID, err2 = r.ReadUint64(); err2 != nil {
		return resp, err2
	}
	if resp.FunctionName, err2 = r.ReadString(); err2 != nil {
		return resp, err2
	}
	return resp, nil
}
