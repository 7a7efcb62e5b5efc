package dispatcher

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func (c *Connection) handleCreateTarget(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeCreateTargetRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	handle, engErr := c.engine.CreateFromFile(ctx, req.ExecutablePath, req.Architecture)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	c.mu.Lock()
	oldTarget := c.target
	c.nextTargetID++
	id := c.nextTargetID
	c.target = handle
	c.process = nil
	c.mu.Unlock()

	hadPriorTarget := c.sess.CreateTarget(id)
	if hadPriorTarget {
		if oldTarget != nil {
			_ = c.engine.DeleteTarget(ctx, oldTarget)
		}
		c.breakpoints.Reset()
		c.registry.Reset()
	}

	return protocol.CreateTargetResponse{TargetID: id}.Encode(), nil
}

func (c *Connection) handleLaunch(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeLaunchRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}
	if pErr := c.sess.BeginLaunch(); pErr != nil {
		return nil, pErr
	}

	handle, engErr := c.engine.Launch(ctx, target, engine.LaunchParams{
		Args:        req.Args,
		Env:         req.Env,
		WorkingDir:  req.WorkingDir,
		StopAtEntry: req.StopAtEntry,
	})
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	id := c.setProcess(handle)
	return protocol.LaunchResponse{ProcessID: id}.Encode(), nil
}

func (c *Connection) handleAttach(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeAttachRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}
	if pErr := c.sess.BeginAttach(); pErr != nil {
		return nil, pErr
	}

	handle, engErr := c.engine.AttachByPID(ctx, target, req.PID)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	id := c.setProcess(handle)
	return protocol.AttachResponse{ProcessID: id}.Encode(), nil
}

func (c *Connection) handleAttachByName(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeAttachByNameRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}
	if pErr := c.sess.BeginAttach(); pErr != nil {
		return nil, pErr
	}

	handle, engErr := c.engine.AttachByName(ctx, target, req.ProcessName, req.WaitFor)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	id := c.setProcess(handle)
	return protocol.AttachResponse{ProcessID: id}.Encode(), nil
}

func (c *Connection) handleLoadCore(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeLoadCoreRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}
	if pErr := c.sess.BeginAttach(); pErr != nil {
		return nil, pErr
	}

	handle, engErr := c.engine.LoadCore(ctx, target, req.CorePath)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	id := c.setProcess(handle)
	c.sess.TransitionToStopped()
	return protocol.LoadCoreResponse{ProcessID: id}.Encode(), nil
}

func (c *Connection) handleConnectPlatform(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeConnectPlatformRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}

	if engErr := c.engine.ConnectPlatform(ctx, target, req.URL); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	c.mu.Lock()
	c.platformURL = req.URL
	c.mu.Unlock()

	return nil, nil
}

func (c *Connection) handleConnectProcess(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeConnectProcessRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}
	if pErr := c.sess.BeginAttach(); pErr != nil {
		return nil, pErr
	}

	handle, engErr := c.engine.ConnectProcess(ctx, target, req.ConnectURL)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	id := c.setProcess(handle)
	return protocol.ConnectProcessResponse{ProcessID: id}.Encode(), nil
}

// handleDetach and handleKill both leave the session with no live
// process. Session has no distinct "detached" state of its own, so
// both route through TransitionToExited; current_process stays
// populated for EXITED (spec §3.2) for display/introspection, but
// live-process gating goes through Connection's own process handle
// (currentProcess), which this clears below — that's what actually
// makes further process-scoped calls fail with NO_PROCESS.
func (c *Connection) handleDetach(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeDetachRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}

	if engErr := c.engine.Detach(ctx, process, req.LeaveSuspended); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	c.mu.Lock()
	c.process = nil
	c.mu.Unlock()
	c.sess.TransitionToExited()
	return nil, nil
}

func (c *Connection) handleKill(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}

	if engErr := c.engine.Kill(ctx, process); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	c.mu.Lock()
	c.process = nil
	c.mu.Unlock()
	c.sess.TransitionToExited()
	return nil, nil
}

func (c *Connection) handleExit(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	return nil, nil
}

// setProcess mints a connection-local process ID, stores the engine
// handle, transitions the session, and returns the new ID.
func (c *Connection) setProcess(handle engine.ProcessHandle) uint64 {
	c.mu.Lock()
	c.nextProcessID++
	id := c.nextProcessID
	c.process = handle
	c.mu.Unlock()

	c.sess.SetProcess(id)
	return id
}
