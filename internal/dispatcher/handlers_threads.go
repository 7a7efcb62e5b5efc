package dispatcher

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/cangjie-tools/lldb-adapter/internal/registry"
)

func (c *Connection) handleGetThreads(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}

	infos, engErr := c.engine.ListThreads(ctx, process)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	threads := make([]protocol.Thread, len(infos))
	for i, info := range infos {
		t := info.Thread
		t.ID = c.registry.Intern(registry.KindThread, info.Handle)
		threads[i] = t
	}

	return protocol.GetThreadsResponse{Threads: threads}.Encode(), nil
}

func (c *Connection) handleGetFrames(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeGetFramesRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	thread, pErr := c.threadHandle(req.ThreadID)
	if pErr != nil {
		return nil, pErr
	}

	rawFrames, total, engErr := c.engine.GetFrames(ctx, process, thread, req.StartIndex, req.Count)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	frames := make([]protocol.Frame, len(rawFrames))
	for i, f := range rawFrames {
		frames[i] = c.internFrame(thread, req.StartIndex+uint32(i), f)
	}

	return protocol.GetFramesResponse{Frames: frames, TotalSize: total}.Encode(), nil
}

func (c *Connection) handleFreezeThread(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeFreezeThreadRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	thread, pErr := c.threadHandle(req.ThreadID)
	if pErr != nil {
		return nil, pErr
	}
	if engErr := c.engine.SetThreadFrozen(ctx, process, thread, true); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleUnfreezeThread(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeUnfreezeThreadRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	thread, pErr := c.threadHandle(req.ThreadID)
	if pErr != nil {
		return nil, pErr
	}
	if engErr := c.engine.SetThreadFrozen(ctx, process, thread, false); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}
