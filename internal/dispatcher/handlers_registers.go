package dispatcher

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func (c *Connection) handleGetRegisters(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeGetRegistersRequest(payload)
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
	frame, pErr := c.frameHandle(req.FrameID)
	if pErr != nil {
		return nil, pErr
	}

	regs, engErr := c.engine.ReadRegisters(ctx, process, thread, frame, req.RegisterSet)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.GetRegistersResponse{Registers: regs}.Encode(), nil
}

func (c *Connection) handleGetRegisterSets(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	names, engErr := c.engine.RegisterSets(ctx, process)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.GetRegisterSetsResponse{Names: names}.Encode(), nil
}

func (c *Connection) handleGetArchitecture(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	arch, size, engErr := c.engine.Architecture(ctx, process)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.GetArchitectureResponse{Architecture: arch, AddressSize: size}.Encode(), nil
}
