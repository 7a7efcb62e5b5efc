package dispatcher

import "github.com/cangjie-tools/lldb-adapter/internal/protocol"

// This file validates request arguments at the dispatcher boundary —
// analogous to the engine-facing handlers never having to special-case
// a malformed spec themselves (spec §7's INVALID_ARGUMENT scenarios).

// validateBreakpointSpec rejects a decoded spec whose kind-specific
// fields can never resolve to a breakpoint, before it reaches the
// breakpoint manager or the engine.
func validateBreakpointSpec(spec protocol.BreakpointSpec) *protocol.Error {
	switch spec.Kind {
	case protocol.BPKindLine:
		if spec.Line.FilePath == "" {
			return protocol.InvalidArgument("line breakpoint requires a non-empty file path")
		}
		if spec.Line.Line < 0 {
			return protocol.InvalidArgument("line breakpoint requires a non-negative line number")
		}
	case protocol.BPKindFunction:
		if spec.FunctionName == "" {
			return protocol.InvalidArgument("function breakpoint requires a non-empty function name")
		}
	case protocol.BPKindSymbol, protocol.BPKindSymbolRegex:
		if spec.Pattern == "" {
			return protocol.InvalidArgument("symbol breakpoint requires a non-empty pattern")
		}
	case protocol.BPKindWatchpoint:
		return validateWatchpointSize(spec.WatchSize)
	}
	return nil
}

// validateWatchpointSize rejects a zero-byte watchpoint (spec §8
// scenario 4: "size=0 MUST fail with INVALID_ARGUMENT").
func validateWatchpointSize(size uint32) *protocol.Error {
	if size == 0 {
		return protocol.InvalidArgument("watchpoint size must be greater than zero")
	}
	return nil
}
