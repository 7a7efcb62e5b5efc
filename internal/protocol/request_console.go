package protocol

// This file implements the console/input/signal/shell/symbol requests
// of spec §4.8 — the grab-bag of interactive-session affordances that
// don't fit the target/execution/breakpoint/value/memory groupings.

// HandleConsoleCommandRequest forwards a raw command line to the
// engine's built-in command interpreter (spec's escape hatch for
// engine-specific commands with no dedicated request variant).
type HandleConsoleCommandRequest struct {
	CommandLine string
}

func (req HandleConsoleCommandRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.CommandLine)
	return w.Bytes()
}

func DecodeHandleConsoleCommandRequest(payload []byte) (HandleConsoleCommandRequest, error) {
	r := NewReader(payload)
	s, err := r.ReadString()
	return HandleConsoleCommandRequest{CommandLine: s}, err
}

type HandleConsoleCommandResponse struct {
	Output string
}

func (resp HandleConsoleCommandResponse) Encode() []byte {
	w := NewWriter()
	w.WriteString(resp.Output)
	return w.Bytes()
}

func DecodeHandleConsoleCommandResponse(payload []byte) (HandleConsoleCommandResponse, error) {
	r := NewReader(payload)
	s, err := r.ReadString()
	return HandleConsoleCommandResponse{Output: s}, err
}

// HandleCompletionRequest asks for tab-completion candidates for a
// partially typed console command line.
type HandleCompletionRequest struct {
	Line      string
	CursorPos uint32
}

func (req HandleCompletionRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.Line)
	w.WriteUint32(req.CursorPos)
	return w.Bytes()
}

func DecodeHandleCompletionRequest(payload []byte) (HandleCompletionRequest, error) {
	r := NewReader(payload)
	var req HandleCompletionRequest
	var err error
	if req.Line, err = r.ReadString(); err != nil {
		return req, err
	}
	if req.CursorPos, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

type HandleCompletionResponse struct {
	Candidates []string
}

func (resp HandleCompletionResponse) Encode() []byte {
	w := NewWriter()
	w.WriteStringSlice(resp.Candidates)
	return w.Bytes()
}

func DecodeHandleCompletionResponse(payload []byte) (HandleCompletionResponse, error) {
	r := NewReader(payload)
	cands, err := r.ReadStringSlice()
	return HandleCompletionResponse{Candidates: cands}, err
}

// DispatchInputRequest feeds raw bytes to the debuggee's stdin, for
// sessions where the adapter owns the inferior's terminal.
type DispatchInputRequest struct {
	Data []byte
}

func (req DispatchInputRequest) Encode() []byte {
	w := NewWriter()
	w.WriteBytes(req.Data)
	return w.Bytes()
}

func DecodeDispatchInputRequest(payload []byte) (DispatchInputRequest, error) {
	r := NewReader(payload)
	data, err := r.ReadBytes()
	return DispatchInputRequest{Data: data}, err
}

type DispatchInputResponse struct{}

func (DispatchInputResponse) Encode() []byte { return nil }

func DecodeDispatchInputResponse(payload []byte) (DispatchInputResponse, error) {
	return DispatchInputResponse{}, nil
}

// ResizeConsoleRequest reports a terminal size change so the debuggee's
// pty can be kept in sync.
type ResizeConsoleRequest struct {
	Columns uint32
	Rows    uint32
}

func (req ResizeConsoleRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint32(req.Columns)
	w.WriteUint32(req.Rows)
	return w.Bytes()
}

func DecodeResizeConsoleRequest(payload []byte) (ResizeConsoleRequest, error) {
	r := NewReader(payload)
	var req ResizeConsoleRequest
	var err error
	if req.Columns, err = r.ReadUint32(); err != nil {
		return req, err
	}
	if req.Rows, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

type ResizeConsoleResponse struct{}

func (ResizeConsoleResponse) Encode() []byte { return nil }

func DecodeResizeConsoleResponse(payload []byte) (ResizeConsoleResponse, error) {
	return ResizeConsoleResponse{}, nil
}

// HandleSignalRequest tells the engine how to dispose of a delivered
// signal: pass it to the debuggee, stop on it, or both (spec's
// signal-disposition table, grounded on gdbserver's QPassSignals).
type HandleSignalRequest struct {
	Signo      int32
	PassToProc bool
	StopOnIt   bool
	Notify     bool
}

func (req HandleSignalRequest) Encode() []byte {
	w := NewWriter()
	w.WriteInt32(req.Signo)
	w.WriteBool(req.PassToProc)
	w.WriteBool(req.StopOnIt)
	w.WriteBool(req.Notify)
	return w.Bytes()
}

func DecodeHandleSignalRequest(payload []byte) (HandleSignalRequest, error) {
	r := NewReader(payload)
	var req HandleSignalRequest
	var err error
	if req.Signo, err = r.ReadInt32(); err != nil {
		return req, err
	}
	if req.PassToProc, err = r.ReadBool(); err != nil {
		return req, err
	}
	if req.StopOnIt, err = r.ReadBool(); err != nil {
		return req, err
	}
	if req.Notify, err = r.ReadBool(); err != nil {
		return req, err
	}
	return req, nil
}

type HandleSignalResponse struct{}

func (HandleSignalResponse) Encode() []byte { return nil }

func DecodeHandleSignalResponse(payload []byte) (HandleSignalResponse, error) {
	return HandleSignalResponse{}, nil
}

// ExecuteShellCommandRequest runs a command on the host the adapter
// process is running on (not the debuggee) — used by IDE "run build
// script before debugging" style workflows.
type ExecuteShellCommandRequest struct {
	CommandLine string
	WorkingDir  string
	TimeoutMS   uint32
}

func (req ExecuteShellCommandRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.CommandLine)
	w.WriteString(req.WorkingDir)
	w.WriteUint32(req.TimeoutMS)
	return w.Bytes()
}

func DecodeExecuteShellCommandRequest(payload []byte) (ExecuteShellCommandRequest, error) {
	r := NewReader(payload)
	var req ExecuteShellCommandRequest
	var err error
	if req.CommandLine, err = r.ReadString(); err != nil {
		return req, err
	}
	if req.WorkingDir, err = r.ReadString(); err != nil {
		return req, err
	}
	if req.TimeoutMS, err = r.ReadUint32(); err != nil {
		return req, err
	}
	return req, nil
}

type ExecuteShellCommandResponse struct {
	ExitCode int32
	Stdout   string
	Stderr   string
}

func (resp ExecuteShellCommandResponse) Encode() []byte {
	w := NewWriter()
	w.WriteInt32(resp.ExitCode)
	w.WriteString(resp.Stdout)
	w.WriteString(resp.Stderr)
	return w.Bytes()
}

func DecodeExecuteShellCommandResponse(payload []byte) (ExecuteShellCommandResponse, error) {
	r := NewReader(payload)
	var resp ExecuteShellCommandResponse
	var err error
	if resp.ExitCode, err = r.ReadInt32(); err != nil {
		return resp, err
	}
	if resp.Stdout, err = r.ReadString(); err != nil {
		return resp, err
	}
	if resp.Stderr, err = r.ReadString(); err != nil {
		return resp, err
	}
	return resp, nil
}

// CancelSymbolsDownloadRequest aborts an in-flight background symbol
// fetch (spec's long-running-operation cancellation hook); it carries
// no fields because the adapter has at most one such download active.
type CancelSymbolsDownloadRequest struct{}

func (CancelSymbolsDownloadRequest) Encode() []byte { return nil }

func DecodeCancelSymbolsDownloadRequest(payload []byte) (CancelSymbolsDownloadRequest, error) {
	return CancelSymbolsDownloadRequest{}, nil
}

type CancelSymbolsDownloadResponse struct{}

func (CancelSymbolsDownloadResponse) Encode() []byte { return nil }

func DecodeCancelSymbolsDownloadResponse(payload []byte) (CancelSymbolsDownloadResponse, error) {
	return CancelSymbolsDownloadResponse{}, nil
}
