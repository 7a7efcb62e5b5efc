package protocol

// This file implements thread/frame enumeration requests (spec §4.8).

type GetThreadsRequest struct{}

func (GetThreadsRequest) Encode() []byte { return nil }

func DecodeGetThreadsRequest(payload []byte) (GetThreadsRequest, error) {
	return GetThreadsRequest{}, nil
}

type GetThreadsResponse struct {
	Threads []Thread
}

func (resp GetThreadsResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint32(uint32(len(resp.Threads)))
	for _, t := range resp.Threads {
		t.Encode(w)
	}
	return w.Bytes()
}

func DecodeGetThreadsResponse(payload []byte) (GetThreadsResponse, error) {
	r := NewReader(payload)
	n, err := r.ReadUint32()
	if err != nil {
		return GetThreadsResponse{}, err
	}
	out := make([]Thread, 0, n)
	for i := uint32(0); i < n; i++ {
		t, err := DecodeThread(r)
		if err != nil {
			return GetThreadsResponse{}, err
		}
		out = append(out, t)
	}
	return GetThreadsResponse{Threads: out}, nil
}

// GetFramesRequest pages a thread's call stack; frames are assigned
// stable IDs only for the lifetime of the current stop (spec §4.9 —
// stop-generation-scoped handles).
type GetFramesRequest struct {
	ThreadID    uint64
	StartIndex  uint32
	Count       uint32 // 0 means "all remaining"
}

func (req GetFramesRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ThreadID)
	w.WriteUint32(req.StartIndex)
	w.WriteUint32(req.Count)
	return w.Bytes()
}

func DecodeGetFramesRequest(payload []byte) (GetFramesRequest, error) {
	r := NewReader(payload)
	var req GetFramesRequest
	var err error
	if req.ThreadID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.StartIndex, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.Count, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

type GetFramesResponse struct {
	Frames    []Frame
	TotalSize uint32
}

func (resp GetFramesResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint32(uint32(len(resp.Frames)))
	for _, f := range resp.Frames {
		f.Encode(w)
	}
	w.WriteUint32(resp.TotalSize)
	return w.Bytes()
}

func DecodeGetFramesResponse(payload []byte) (GetFramesResponse, error) {
	r := NewReader(payload)
	n, err := r.ReadUint32()
	if err != nil {
		return GetFramesResponse{}, err
	}
	out := make([]Frame, 0, n)
	for i := uint32(0); i < n; i++ {
		f, err := DecodeFrame(r)
		if err != nil {
			return GetFramesResponse{}, err
		}
		out = append(out, f)
	}
	total, err := r.ReadUint32()
	if err != nil {
		return GetFramesResponse{}, err
	}
	return GetFramesResponse{Frames: out, TotalSize: total}, nil
}

// FreezeThreadRequest/UnfreezeThreadRequest exclude or re-include a
// thread from Continue/Step resumption (spec §4.8) without altering
// any breakpoint state.
type FreezeThreadRequest struct {
	ThreadID uint64
}

func (req FreezeThreadRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ThreadID)
	return w.Bytes()
}

func DecodeFreezeThreadRequest(payload []byte) (FreezeThreadRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return FreezeThreadRequest{ThreadID: id}, err
}

type UnfreezeThreadRequest struct {
	ThreadID uint64
}

func (req UnfreezeThreadRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.ThreadID)
	return w.Bytes()
}

func DecodeUnfreezeThreadRequest(payload []byte) (UnfreezeThreadRequest, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return UnfreezeThreadRequest{ThreadID: id}, err
}
