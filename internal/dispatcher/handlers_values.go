package dispatcher

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func (c *Connection) handleVariables(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeVariablesRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	frame, pErr := c.frameHandle(req.FrameID)
	if pErr != nil {
		return nil, pErr
	}

	vals, pErr := c.values.Variables(ctx, process, frame, req.KindMask)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.VariablesResponse{Values: vals}.Encode(), nil
}

func (c *Connection) handleValueChildren(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeValueChildrenRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	children, hasMore, pErr := c.values.Children(ctx, req.ValueID, req.Offset, req.Count, req.MaxDepth, req.MaxChildren)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.ValueChildrenResponse{Children: children, HasMore: hasMore}.Encode(), nil
}

func (c *Connection) handleValueData(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeValueDataRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	data, pErr := c.values.Data(ctx, req.ValueID)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.ValueDataResponse{Data: data}.Encode(), nil
}

func (c *Connection) handleValueDescription(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeValueDescriptionRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	desc, pErr := c.values.Description(ctx, req.ValueID)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.ValueDescriptionResponse{Description: desc}.Encode(), nil
}

func (c *Connection) handleValueAddress(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeValueAddressRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	addr, has, pErr := c.values.Address(ctx, req.ValueID)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.ValueAddressResponse{HasAddress: has, Address: addr}.Encode(), nil
}

func (c *Connection) handleChildrenCount(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeChildrenCountRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	count, pErr := c.values.ChildrenCount(ctx, req.ValueID)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.ChildrenCountResponse{Count: count}.Encode(), nil
}

func (c *Connection) handleArraySlice(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeArraySliceRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	elems, pErr := c.values.ArraySlice(ctx, req.ValueID, req.Start, req.Length)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.ArraySliceResponse{Elements: elems}.Encode(), nil
}

func (c *Connection) handleSetValueFilteringPolicy(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeSetValueFilteringPolicyRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	c.values.SetFilteringPolicy(req.Policy)
	return protocol.SetValueFilteringPolicyResponse{}.Encode(), nil
}

func (c *Connection) handleEvaluate(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeEvaluateRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	frame, pErr := c.frameHandle(req.FrameID)
	if pErr != nil {
		return nil, pErr
	}

	result, pErr := c.values.Evaluate(ctx, process, frame, req.Expression)
	if pErr != nil {
		return nil, pErr
	}
	return protocol.EvaluateResponse{Result: result}.Encode(), nil
}
