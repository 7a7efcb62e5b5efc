// Package eventpump implements the Event Pump of spec §4.7: the
// dedicated goroutine that drains the engine's notification channel,
// translates each notification into the matching protocol event, and
// serializes it onto the connection's frame codec. It also implements
// breakpoint.EventSink, since breakpoint-table mutations (which
// originate on the dispatcher goroutine) are broadcast through the same
// write path and must interleave cleanly with engine-driven events.
package eventpump

import (
	"context"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/logging"
	"github.com/cangjie-tools/lldb-adapter/internal/observability"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
	"github.com/cangjie-tools/lldb-adapter/internal/registry"
	"github.com/cangjie-tools/lldb-adapter/internal/session"
)

// Pump owns the outbound event stream for one connection. The
// FrameCodec's own write mutex (spec §5) is what makes it safe for
// Run's goroutine and the dispatcher's EventSink calls to write
// concurrently — Pump itself holds no additional lock.
type Pump struct {
	codec    *protocol.FrameCodec
	sess     *session.Session
	registry *registry.Registry
	events   engine.Events
	log      logging.Logger
}

// New returns a Pump bound to one connection's codec and the session's
// shared state. events is typically the same concrete engine the
// dispatcher drives.
func New(codec *protocol.FrameCodec, sess *session.Session, reg *registry.Registry, events engine.Events, log logging.Logger) *Pump {
	if log == nil {
		log = logging.Noop()
	}
	return &Pump{codec: codec, sess: sess, registry: reg, events: events, log: log}
}

// SendInitialized emits the connection's one-time Initialized event
// (spec §4.9). The dispatcher calls this once its read loop is ready
// to accept requests, before handing control to Run.
func (p *Pump) SendInitialized() error {
	if !p.sess.MarkInitialized() {
		return nil
	}
	return p.writeEvent(protocol.EvtInitialized, protocol.InitializedEvent{}.Encode())
}

// Run drains the engine's notification channel until ctx is canceled or
// the channel is closed, normally by the connection's teardown path.
func (p *Pump) Run(ctx context.Context) error {
	ch, err := p.events.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-ch:
			if !ok {
				return nil
			}
			if err := p.handle(n); err != nil {
				p.log.Error("event pump: failed to forward notification", "kind", n.Kind, "error", err)
			}
		}
	}
}

func (p *Pump) handle(n engine.Notification) error {
	switch n.Kind {
	case engine.NotifyProcessRunning:
		return p.onProcessRunning(n.ProcessRunning)
	case engine.NotifyStopped:
		return p.onStopped(n.Stopped)
	case engine.NotifyProcessExited:
		return p.onProcessExited(n.ProcessExited)
	case engine.NotifyModuleLoad:
		return p.onModuleLoad(n.ModuleLoad)
	case engine.NotifyModuleUnload:
		return p.onModuleUnload(n.ModuleUnload)
	case engine.NotifyStdout:
		if n.Output == nil {
			return nil
		}
		return p.writeEvent(protocol.EvtStdout, protocol.StdoutEvent{Data: n.Output.Data}.Encode())
	case engine.NotifyStderr:
		if n.Output == nil {
			return nil
		}
		return p.writeEvent(protocol.EvtStderr, protocol.StderrEvent{Data: n.Output.Data}.Encode())
	default:
		// Unhandled kinds, NotifyBreakpointLocationsResolved among
		// them, are dropped here. Nothing outside tests calls
		// breakpoint.Manager.ResolveLocations either, so no
		// BreakpointLocationsResolved event is sent when a pending
		// breakpoint resolves after its creation.
		observability.RecordEventDropped("unrecognized_notification_kind")
		return nil
	}
}

// onProcessRunning bumps the session and registry into the next
// stop-generation before the event goes out, so a client that reacts to
// RUNNING by immediately issuing GetThreads observes the purge rather
// than racing it (spec §4.7 step 2).
func (p *Pump) onProcessRunning(notif *engine.ProcessRunningNotif) error {
	if notif == nil {
		return nil
	}
	p.sess.TransitionToRunning()
	p.registry.BumpStopGeneration()
	return p.writeEvent(protocol.EvtProcessRunning, protocol.ProcessRunningEvent{ProcessID: p.sess.CurrentProcessID()}.Encode())
}

// onStopped assigns a fresh, generation-scoped thread id before
// announcing the stop, so GetThreads/GetFrames issued in reaction to
// this event can resolve it (spec §4.7/§4.9).
func (p *Pump) onStopped(notif *engine.StoppedNotif) error {
	if notif == nil {
		return nil
	}
	p.sess.TransitionToStopped()
	switch notif.Info.Reason {
	case protocol.StopReasonBreakpoint:
		observability.RecordBreakpointHit("breakpoint")
	case protocol.StopReasonWatchpoint:
		observability.RecordBreakpointHit("watchpoint")
	}
	threadID := p.registry.Intern(registry.KindThread, notif.Thread)
	evt := protocol.StoppedEvent{
		ThreadID:          threadID,
		StopGeneration:    p.registry.CurrentGeneration(),
		Info:              notif.Info,
		AllThreadsStopped: notif.AllThreadsStopped,
	}
	return p.writeEvent(protocol.EvtStopped, evt.Encode())
}

func (p *Pump) onProcessExited(notif *engine.ProcessExitedNotif) error {
	if notif == nil {
		return nil
	}
	pid := p.sess.CurrentProcessID()
	p.sess.TransitionToExited()
	evt := protocol.ProcessExitedEvent{ProcessID: pid, ExitCode: notif.ExitCode, Signaled: notif.Signaled}
	return p.writeEvent(protocol.EvtProcessExited, evt.Encode())
}

func (p *Pump) onModuleLoad(notif *engine.ModuleLoadNotif) error {
	if notif == nil {
		return nil
	}
	evt := protocol.ModuleLoadedEvent{
		Path:        notif.Module.Path,
		LoadAddress: notif.Module.LoadAddress,
		HasSymbols:  notif.Module.HasSymbols,
	}
	return p.writeEvent(protocol.EvtModuleLoaded, evt.Encode())
}

func (p *Pump) onModuleUnload(notif *engine.ModuleUnloadNotif) error {
	if notif == nil {
		return nil
	}
	return p.writeEvent(protocol.EvtModuleUnloaded, protocol.ModuleUnloadedEvent{Path: notif.Path}.Encode())
}

func (p *Pump) writeEvent(variant protocol.EventVariant, payload []byte) error {
	err := p.codec.WriteFrame(protocol.EncodeEventEnvelope(protocol.EventEnvelope{Variant: variant, Payload: payload}))
	if err != nil {
		observability.RecordEventDropped("write_failed")
		return err
	}
	observability.RecordEventEmitted(variant.Name())
	return nil
}

// --- breakpoint.EventSink ---
//
// These are called from the dispatcher goroutine (handlers that mutate
// the breakpoint table), not from Run's loop. Each connection has its
// own breakpoint Manager and Pump, so these events are written to this
// connection's stream only.

func (p *Pump) BreakpointAdded(bp protocol.Breakpoint) {
	p.broadcast(protocol.EvtBreakpointAdded, protocol.BreakpointAddedEvent{Breakpoint: bp}.Encode())
}

func (p *Pump) BreakpointChanged(bp protocol.Breakpoint) {
	p.broadcast(protocol.EvtBreakpointChanged, protocol.BreakpointChangedEvent{Breakpoint: bp}.Encode())
}

func (p *Pump) BreakpointRemoved(id uint64) {
	p.broadcast(protocol.EvtBreakpointRemoved, protocol.BreakpointRemovedEvent{BreakpointID: id}.Encode())
}

func (p *Pump) BreakpointLocationsResolved(id uint64, locations []protocol.Location) {
	p.broadcast(protocol.EvtBreakpointLocationsResolved, protocol.BreakpointLocationsResolvedEvent{
		BreakpointID: id, Locations: locations,
	}.Encode())
}

func (p *Pump) broadcast(variant protocol.EventVariant, payload []byte) {
	if err := p.writeEvent(variant, payload); err != nil {
		p.log.Error("event pump: failed to broadcast event", "variant", variant.Name(), "error", err)
	}
}
