package dispatcher

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func (c *Connection) handleContinue(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeContinueRequest(payload)
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
	if engErr := c.engine.Resume(ctx, process, thread); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleSuspend(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	if engErr := c.engine.Suspend(ctx, process); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleStepIn(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeStepInRequest(payload)
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
	if engErr := c.engine.StepIn(ctx, process, thread, false); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleStepOver(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeStepOverRequest(payload)
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
	if engErr := c.engine.StepOver(ctx, process, thread, false); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleStepOut(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeStepOutRequest(payload)
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
	if engErr := c.engine.StepOut(ctx, process, thread); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleStepScripted(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeStepScriptedRequest(payload)
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
	if engErr := c.engine.StepScripted(ctx, process, thread, req.PlanName, req.Args); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleJumpToLine(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeJumpToLineRequest(payload)
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
	if engErr := c.engine.JumpToLine(ctx, process, thread, req.Location); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}

func (c *Connection) handleJumpToAddress(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeJumpToAddressRequest(payload)
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
	if engErr := c.engine.JumpToAddress(ctx, process, thread, req.Address); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return nil, nil
}
