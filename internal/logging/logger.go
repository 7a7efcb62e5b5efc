// Package logging provides the canonical structured logger for the adapter.
//
// Every component depends on the Logger capability below rather than a
// concrete backend; production wires a zap.Logger, tests wire a Recorder.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the canonical protocol for structured, leveled logging.
// Mirrors the shape used throughout the bus and gRPC layers: plain
// key/value pairs, no format strings.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// Bind returns a logger that prepends the given fields to every
	// subsequent call. Used to attach connection/session identity once.
	Bind(keysAndValues ...any) Logger
}

// zapLogger adapts *zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a production Logger at the given level ("debug", "info",
// "warn", "error"). Writes structured JSON to stderr.
func New(level string) Logger {
	lvl := zapcore.InfoLevel
	_ = lvl.UnmarshalText([]byte(level))

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	base, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op encoder rather than crash startup over
		// a logging misconfiguration.
		base = zap.NewNop()
	}
	return &zapLogger{sugar: base.Sugar()}
}

func (l *zapLogger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, kv...) }

func (l *zapLogger) Bind(kv ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(kv...)}
}

// Entry is one recorded log line, captured by Recorder for assertions.
type Entry struct {
	Level string
	Msg   string
	Kv    []any
}

// Recorder is an in-memory Logger used by tests. Safe for concurrent use
// since the event pump and dispatcher log from different goroutines.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	bound   []any
}

// NewRecorder returns a fresh, empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(level, msg string, kv []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := append(append([]any{}, r.bound...), kv...)
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Kv: all})
}

func (r *Recorder) Debug(msg string, kv ...any) { r.record("debug", msg, kv) }
func (r *Recorder) Info(msg string, kv ...any)  { r.record("info", msg, kv) }
func (r *Recorder) Warn(msg string, kv ...any)  { r.record("warn", msg, kv) }
func (r *Recorder) Error(msg string, kv ...any) { r.record("error", msg, kv) }

func (r *Recorder) Bind(kv ...any) Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Recorder{bound: append(append([]any{}, r.bound...), kv...)}
}

// Entries returns a snapshot of everything logged so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Noop returns a Logger that discards everything, for call sites that
// don't want to thread a test logger through.
func Noop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

var _ Logger = (*zapLogger)(nil)
var _ Logger = (*Recorder)(nil)

// Stderr is a process-wide fallback used only before the real logger
// (which needs the CLI-parsed level) is constructed.
var Stderr Logger = &zapLogger{sugar: zap.Must(zap.NewDevelopment()).Sugar()}

func init() {
	// ADAPTER_QUIET_BOOTSTRAP swaps the bootstrap logger for a no-op,
	// silencing anything logged through Stderr before New() has run.
	if os.Getenv("ADAPTER_QUIET_BOOTSTRAP") != "" {
		Stderr = Noop()
	}
}
