package dispatcher

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func (c *Connection) handleHandleConsoleCommand(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeHandleConsoleCommandRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}

	output, engErr := c.engine.ConsoleCommand(ctx, process, req.CommandLine)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	c.recordHistory(req.CommandLine)
	return protocol.HandleConsoleCommandResponse{Output: output}.Encode(), nil
}

// recordHistory appends to the console's command ring buffer, dropping
// the oldest entry once consoleHistoryLimit is reached. Consecutive
// repeats of the last command aren't deduplicated: a command re-run
// deliberately is a command the user may want to step back to again.
func (c *Connection) recordHistory(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, line)
	if len(c.history) > consoleHistoryLimit {
		c.history = c.history[len(c.history)-consoleHistoryLimit:]
	}
}

func (c *Connection) handleHandleCompletion(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeHandleCompletionRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}

	candidates, engErr := c.engine.CompleteCommand(ctx, process, req.Line, req.CursorPos)
	if engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	candidates = append(candidates, c.historyCandidates(req.Line)...)
	return protocol.HandleCompletionResponse{Candidates: candidates}.Encode(), nil
}

// historyCandidates offers prior command lines sharing the typed
// prefix, most recent first, so a half-typed command matches something
// the user actually ran before even if the engine's own completer
// doesn't know about it (e.g. an alias defined earlier in the session).
func (c *Connection) historyCandidates(prefix string) []string {
	if prefix == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	seen := make(map[string]bool)
	for i := len(c.history) - 1; i >= 0; i-- {
		entry := c.history[i]
		if entry == prefix || seen[entry] || !strings.HasPrefix(entry, prefix) {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	return out
}

func (c *Connection) handleDispatchInput(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeDispatchInputRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	if engErr := c.engine.DispatchInput(ctx, process, req.Data); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.DispatchInputResponse{}.Encode(), nil
}

func (c *Connection) handleResizeConsole(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeResizeConsoleRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	if engErr := c.engine.ResizeConsole(ctx, process, req.Columns, req.Rows); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.ResizeConsoleResponse{}.Encode(), nil
}

func (c *Connection) handleHandleSignal(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeHandleSignalRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}
	process, pErr := c.currentProcess()
	if pErr != nil {
		return nil, pErr
	}
	if engErr := c.engine.HandleSignal(ctx, process, req.Signo, req.PassToProc, req.StopOnIt, req.Notify); engErr != nil {
		return nil, protocol.EngineFailure(engErr.Error())
	}
	return protocol.HandleSignalResponse{}.Encode(), nil
}

// handleExecuteShellCommand runs a command on the adapter's own host,
// not through the engine facade at all: building the program under
// debug before attaching is a host-side concern with nothing to do
// with the debuggee's process.
func (c *Connection) handleExecuteShellCommand(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	req, err := protocol.DecodeExecuteShellCommandRequest(payload)
	if err != nil {
		return nil, protocol.InvalidArgument(err.Error())
	}

	runCtx := ctx
	if req.TimeoutMS > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", req.CommandLine)
	if req.WorkingDir != "" {
		cmd.Dir = req.WorkingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := int32(0)
	if runErr := cmd.Run(); runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = int32(exitErr.ExitCode())
		} else {
			return nil, protocol.EngineFailure(runErr.Error())
		}
	}

	return protocol.ExecuteShellCommandResponse{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}.Encode(), nil
}

// handleCancelSymbolsDownload acknowledges unconditionally: this
// adapter has no background symbol-fetch pipeline of its own to cancel,
// so the request degrades to a no-op ack rather than an error, matching
// how a debugger with symbols already resolved locally would respond.
func (c *Connection) handleCancelSymbolsDownload(ctx context.Context, payload []byte) ([]byte, *protocol.Error) {
	return protocol.CancelSymbolsDownloadResponse{}.Encode(), nil
}
