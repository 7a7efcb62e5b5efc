package dispatcher

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func (c *Connection) handleDumpMemory(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeDumpMemoryRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	data, engErr := c.engine.ReadMemory(ctx, process, req.Address, req.Length)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.DumpMemoryResponse{Data: data}.Encode(), nil
}

func (c *Connection) handleWriteMemory(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeWriteMemoryRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	n, engErr := c.engine.WriteMemory(ctx, process, req.Address, req.Data)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.WriteMemoryResponse{BytesWritten: uint32(n)}.Encode(), nil
}

// handleDisassemble serves a disassembly window out of the
// stop-generation-scoped cache when available: code at a given address
// can only change across a resume, never while the process sits
// stopped, so repeated disassembly of the same window (a UI re-opening
// the same function) doesn't need to reach the engine every time.
func (c *Connection) handleDisassemble(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeDisassembleRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}

	key := disasmKey{address: req.Address, instrCount: req.InstrCount}
	if instrs, ok := c.disasmLookup(key); ok {
		return protocol.DisassembleResponse{Instructions: instrs}.Encode(), nil
	}

	instrs, engErr := c.engine.Disassemble(ctx, process, engine.DisassembleParams{
		Address:    req.Address,
		InstrCount: req.InstrCount,
	})
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}

	c.disasmStore(key, instrs)
	return protocol.DisassembleResponse{Instructions: instrs}.Encode(), nil
}

func (c *Connection) disasmLookup(key disasmKey) ([]protocol.Instruction, bool) {
	c.disasmMu.Lock()
	defer c.disasmMu.Unlock()
	if c.disasmGen != c.registry.CurrentGeneration() {
		c.disasmCache = make(map[disasmKey][]protocol.Instruction)
		c.disasmGen = c.registry.CurrentGeneration()
		return nil, false
	}
	instrs, ok := c.disasmCache[key]
	return instrs, ok
}

func (c *Connection) disasmStore(key disasmKey, instrs []protocol.Instruction) {
	c.disasmMu.Lock()
	defer c.disasmMu.Unlock()
	if c.disasmGen != c.registry.CurrentGeneration() {
		c.disasmCache = make(map[disasmKey][]protocol.Instruction)
		c.disasmGen = c.registry.CurrentGeneration()
	}
	c.disasmCache[key] = instrs
}

func (c *Connection) handleDumpSections(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	sections, engErr := c.engine.Sections(ctx, process)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.DumpSectionsResponse{Sections: sections}.Encode(), nil
}

// handleGetContextInfo bundles the top-frame lookup UIs otherwise issue
// as a separate GetFrames call right after every Stopped event.
func (c *Connection) handleGetContextInfo(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeGetContextInfoRequest(payload)
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

	rawFrames, _, engErr := c.engine.GetFrames(ctx, process, thread, 0, 1)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	if len(rawFrames) == 0 {
		return protocol.GetContextInfoResponse{}.Encode(), nil
	}

	top := c.internFrame(thread, 0, rawFrames[0])
	return protocol.GetContextInfoResponse{
		Location:     top.SourceLocation,
		FrameID:      top.ID,
		FunctionName: top.FunctionName,
	}.Encode(), nil
}
