package enginehost

import (
	"context"
	"fmt"
	"plugin"
	"runtime"

	"github.com/cangjie-tools/lldb-adapter/internal/engine"
)

// EntryPointSymbol is the fixed C-exported symbol every engine shared
// library must provide (spec §6.3): a zero-argument constructor
// returning a value satisfying engine.Engine.
const EntryPointSymbol = "NewCangJieLLDBEngine"

// Loader resolves and loads the concrete LLDB-compatible engine
// library. The dispatcher depends only on this interface so tests can
// substitute FakeLoader and drive the whole stack without the real
// library (spec §6.3).
type Loader interface {
	Load(ctx context.Context, libraryPath string) (engine.Engine, error)
}

// DefaultLibraryPath returns the platform-conventional shared library
// name for the engine, searched on the standard dynamic linker path.
// Callers typically override this with an explicit path from
// configuration; this is only the fallback when none is given.
func DefaultLibraryPath() string {
	switch runtime.GOOS {
	case "darwin":
		return "libcangjie_lldb_engine.dylib"
	case "windows":
		return "cangjie_lldb_engine.dll"
	default:
		return "libcangjie_lldb_engine.so"
	}
}

// PluginLoader loads the engine through Go's plugin package, which
// dlopen(3)s the shared object and resolves EntryPointSymbol. This is
// the real loader sketched by spec §6.3 — it is never exercised in
// tests (plugin.Open requires an actual shared object built with
// -buildmode=plugin) and is excluded from the FakeEngine-driven test
// suite entirely.
type PluginLoader struct{}

func NewPluginLoader() *PluginLoader { return &PluginLoader{} }

func (l *PluginLoader) Load(_ context.Context, libraryPath string) (engine.Engine, error) {
	p, err := plugin.Open(libraryPath)
	if err != nil {
		return nil, fmt.Errorf("enginehost: opening %s: %w", libraryPath, err)
	}
	sym, err := p.Lookup(EntryPointSymbol)
	if err != nil {
		return nil, fmt.Errorf("enginehost: resolving %s in %s: %w", EntryPointSymbol, libraryPath, err)
	}
	ctor, ok := sym.(func() engine.Engine)
	if !ok {
		return nil, fmt.Errorf("enginehost: %s in %s has unexpected signature %T", EntryPointSymbol, libraryPath, sym)
	}
	return ctor(), nil
}

// FakeLoader returns a single pre-built FakeEngine regardless of the
// requested path, for dispatcher/session wiring tests that need a
// Loader but not library resolution semantics.
type FakeLoader struct {
	Engine *FakeEngine
}

func NewFakeLoader(e *FakeEngine) *FakeLoader {
	if e == nil {
		e = NewFakeEngine()
	}
	return &FakeLoader{Engine: e}
}

func (l *FakeLoader) Load(_ context.Context, _ string) (engine.Engine, error) {
	return l.Engine, nil
}

var (
	_ Loader = (*PluginLoader)(nil)
	_ Loader = (*FakeLoader)(nil)
)
