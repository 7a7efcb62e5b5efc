package dispatcher

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func (c *Connection) handleAddBreakpoint(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeAddBreakpointRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	if pErr := validateBreakpointSpec(req.Spec); pErr != nil {
		return nil, pErr
	}
	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}

	bp, pErr := c.breakpoints.Create(ctx, target, req.Spec)
	if pErr != nil {
		return nil, pErr
	}
	if req.Condition != nil {
		if bp, pErr = c.breakpoints.SetCondition(ctx, bp.ID, req.Condition); pErr != nil {
			return nil, pErr
		}
	}
	if req.IgnoreCount != 0 {
		if bp, pErr = c.breakpoints.SetIgnoreCount(ctx, bp.ID, req.IgnoreCount); pErr != nil {
			return nil, pErr
		}
	}
	if !req.Enabled {
		if bp, pErr = c.breakpoints.SetEnabled(ctx, bp.ID, req.Enabled); pErr != nil {
			return nil, pErr
		}
	}

	return protocol.AddBreakpointResponse{Breakpoint: bp}.Encode(), nil
}

func (c *Connection) handleAddWatchpoint(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeAddWatchpointRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	if pErr := validateWatchpointSize(req.Size); pErr != nil {
		return nil, pErr
	}
	target, pErr := c.currentTarget()
	if pErr != nil {
		return nil, pErr
	}

	spec := protocol.BreakpointSpec{
		Kind:         protocol.BPKindWatchpoint,
		WatchAddress: req.Address,
		WatchSize:    req.Size,
		WatchRead:    req.Read,
		WatchWrite:   req.Write,
	}

	bp, pErr := c.breakpoints.CreateWatchpoint(ctx, target, spec)
	if pErr != nil {
		return nil, pErr
	}
	if req.Condition != nil {
		if bp, pErr = c.breakpoints.SetCondition(ctx, bp.ID, req.Condition); pErr != nil {
			return nil, pErr
		}
	}
	if req.IgnoreCount != 0 {
		if bp, pErr = c.breakpoints.SetIgnoreCount(ctx, bp.ID, req.IgnoreCount); pErr != nil {
			return nil, pErr
		}
	}

	return protocol.AddWatchpointResponse{Breakpoint: bp}.Encode(), nil
}

func (c *Connection) handleRemoveBreakpoint(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeRemoveBreakpointRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	if pErr := c.breakpoints.Remove(ctx, req.BreakpointID); pErr != nil {
		return nil, pErr
	}
	return protocol.RemoveResponse{}.Encode(), nil
}

func (c *Connection) handleRemoveWatchpoint(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeRemoveWatchpointRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	if pErr := c.breakpoints.RemoveWatchpoint(ctx, req.BreakpointID); pErr != nil {
		return nil, pErr
	}
	return protocol.RemoveResponse{}.Encode(), nil
}

func (c *Connection) handleSetCondition(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeSetConditionRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	bp, pErr := c.breakpoints.SetCondition(ctx, req.BreakpointID, req.Condition)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.BreakpointMutationResponse{Breakpoint: bp}.Encode(), nil
}

func (c *Connection) handleSetIgnoreCount(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeSetIgnoreCountRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	bp, pErr := c.breakpoints.SetIgnoreCount(ctx, req.BreakpointID, req.IgnoreCount)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.BreakpointMutationResponse{Breakpoint: bp}.Encode(), nil
}

func (c *Connection) handleSetEnabled(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeSetEnabledRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	bp, pErr := c.breakpoints.SetEnabled(ctx, req.BreakpointID, req.Enabled)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.BreakpointMutationResponse{Breakpoint: bp}.Encode(), nil
}

func (c *Connection) handleSetThreadRestriction(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeSetThreadRestrictionRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	bp, pErr := c.breakpoints.SetThreadRestriction(ctx, req.BreakpointID, req.ThreadID)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.BreakpointMutationResponse{Breakpoint: bp}.Encode(), nil
}
