package protocol

// This file and its Response counterpart implement the target/process
// lifecycle requests of spec §4.8 (CreateTarget, Attach, AttachByName,
// LoadCore, Launch, Detach, Kill, Exit, ConnectPlatform, ConnectProcess).

// CreateTargetRequest names the executable image to prepare for
// launch or attach.
type CreateTargetRequest struct {
	ExecutablePath string
	Architecture   string // empty means "infer from the binary"
}

func (req CreateTargetRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.ExecutablePath)
	w.WriteString(req.Architecture)
	return w.Bytes()
}

func DecodeCreateTargetRequest(payload []byte) (CreateTargetRequest, error) {
	r := NewReader(payload)
	var req CreateTargetRequest
	var err error
	if req.ExecutablePath, err = r.ReadString(); err != nil {
		return req, err
	}
	if req.Architecture, err = r.ReadString(); err != nil {
		return req, err
	}
	return req, nil
}

// CreateTargetResponse echoes back the target's stable ID (spec §4.4).
type CreateTargetResponse struct {
	TargetID uint64
}

func (resp CreateTargetResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(resp.TargetID)
	return w.Bytes()
}

func DecodeCreateTargetResponse(payload []byte) (CreateTargetResponse, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return CreateTargetResponse{TargetID: id}, err
}

// LaunchRequest starts the current target's executable under the
// debugger (spec §4.4, §4.8).
type LaunchRequest struct {
	Args       []string
	Env        []string
	WorkingDir string
	StopAtEntry bool
}

func (req LaunchRequest) Encode() []byte {
	w := NewWriter()
	w.WriteStringSlice(req.Args)
	w.WriteStringSlice(req.Env)
	w.WriteString(req.WorkingDir)
	w.WriteBool(req.StopAtEntry)
	return w.Bytes()
}

func DecodeLaunchRequest(payload []byte) (LaunchRequest, error) {
	r := NewReader(payload)
	var req LaunchRequest
	var err error
	if req.Args, err = r.ReadStringSlice(); err != nil {
		return req, err
	}
	if req.Env, err = r.ReadStringSlice(); err != nil {
		return req, err
	}
	if req.WorkingDir, err = r.ReadString(); err != nil {
		return req, err
	}
	if req.StopAtEntry, err = r.ReadBool(); err != nil {
		return req, err
	}
	return req, nil
}

// LaunchResponse reports the process's stable ID. The actual
// running/stopped transition is reported separately via events
// (ProcessRunning, then Stopped if StopAtEntry was set), not in this
// response (spec §4.7).
type LaunchResponse struct {
	ProcessID uint64
}

func (resp LaunchResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(resp.ProcessID)
	return w.Bytes()
}

func DecodeLaunchResponse(payload []byte) (LaunchResponse, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return LaunchResponse{ProcessID: id}, err
}

// AttachRequest attaches to a running process by native PID.
type AttachRequest struct {
	PID            uint64
	WaitForStop    bool
}

func (req AttachRequest) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(req.PID)
	w.WriteBool(req.WaitForStop)
	return w.Bytes()
}

func DecodeAttachRequest(payload []byte) (AttachRequest, error) {
	r := NewReader(payload)
	var req AttachRequest
	var err error
	if req.PID, err = r.ReadUint64(); err != nil {
		return req, err
	}
	if req.WaitForStop, err = r.ReadBool(); err != nil {
		return req, err
	}
	return req, nil
}

// AttachByNameRequest attaches by process name, optionally waiting for
// a not-yet-running process to appear.
type AttachByNameRequest struct {
	ProcessName string
	WaitFor     bool
}

func (req AttachByNameRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.ProcessName)
	w.WriteBool(req.WaitFor)
	return w.Bytes()
}

func DecodeAttachByNameRequest(payload []byte) (AttachByNameRequest, error) {
	r := NewReader(payload)
	var req AttachByNameRequest
	var err error
	if req.ProcessName, err = r.ReadString(); err != nil {
		return req, err
	}
	if req.WaitFor, err = r.ReadBool(); err != nil {
		return req, err
	}
	return req, nil
}

// AttachResponse reports the attached process's stable ID, shared by
// Attach and AttachByName.
type AttachResponse struct {
	ProcessID uint64
}

func (resp AttachResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(resp.ProcessID)
	return w.Bytes()
}

func DecodeAttachResponse(payload []byte) (AttachResponse, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return AttachResponse{ProcessID: id}, err
}

// LoadCoreRequest loads a post-mortem core dump against an executable.
type LoadCoreRequest struct {
	CorePath string
}

func (req LoadCoreRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.CorePath)
	return w.Bytes()
}

func DecodeLoadCoreRequest(payload []byte) (LoadCoreRequest, error) {
	r := NewReader(payload)
	path, err := r.ReadString()
	return LoadCoreRequest{CorePath: path}, err
}

// LoadCoreResponse reports the core's process ID, which is always
// already in the STOPPED, unresumable state (spec §4.4).
type LoadCoreResponse struct {
	ProcessID uint64
}

func (resp LoadCoreResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(resp.ProcessID)
	return w.Bytes()
}

func DecodeLoadCoreResponse(payload []byte) (LoadCoreResponse, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return LoadCoreResponse{ProcessID: id}, err
}

// ConnectPlatformRequest connects to a remote platform/stub (grounded
// in the gdbserver remote-debugging model) before a process exists.
type ConnectPlatformRequest struct {
	URL string
}

func (req ConnectPlatformRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.URL)
	return w.Bytes()
}

func DecodeConnectPlatformRequest(payload []byte) (ConnectPlatformRequest, error) {
	r := NewReader(payload)
	url, err := r.ReadString()
	return ConnectPlatformRequest{URL: url}, err
}

// ConnectProcessRequest attaches to a process already running under a
// previously connected remote platform.
type ConnectProcessRequest struct {
	ConnectURL string
}

func (req ConnectProcessRequest) Encode() []byte {
	w := NewWriter()
	w.WriteString(req.ConnectURL)
	return w.Bytes()
}

func DecodeConnectProcessRequest(payload []byte) (ConnectProcessRequest, error) {
	r := NewReader(payload)
	url, err := r.ReadString()
	return ConnectProcessRequest{ConnectURL: url}, err
}

// ConnectProcessResponse reports the connected process's stable ID.
type ConnectProcessResponse struct {
	ProcessID uint64
}

func (resp ConnectProcessResponse) Encode() []byte {
	w := NewWriter()
	w.WriteUint64(resp.ProcessID)
	return w.Bytes()
}

func DecodeConnectProcessResponse(payload []byte) (ConnectProcessResponse, error) {
	r := NewReader(payload)
	id, err := r.ReadUint64()
	return ConnectProcessResponse{ProcessID: id}, err
}

// DetachRequest detaches from the current process, optionally leaving
// it suspended rather than resuming it.
type DetachRequest struct {
	LeaveSuspended bool
}

func (req DetachRequest) Encode() []byte {
	w := NewWriter()
	w.WriteBool(req.LeaveSuspended)
	return w.Bytes()
}

func DecodeDetachRequest(payload []byte) (DetachRequest, error) {
	r := NewReader(payload)
	v, err := r.ReadBool()
	return DetachRequest{LeaveSuspended: v}, err
}

// KillRequest and ExitRequest carry no fields: Kill terminates the
// debuggee, Exit tears down the adapter connection itself (spec §4.8).
type KillRequest struct{}

func (KillRequest) Encode() []byte { return nil }

func DecodeKillRequest(payload []byte) (KillRequest, error) { return KillRequest{}, nil }

type ExitRequest struct{}

func (ExitRequest) Encode() []byte { return nil }

func DecodeExitRequest(payload []byte) (ExitRequest, error) { return ExitRequest{}, nil }
