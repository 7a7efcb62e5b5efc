// Package config holds the adapter's own runtime configuration: listen
// addresses, frame limits, the default value-filtering policy, and the
// observability toggles. It carries no debuggee-session state — that
// lives in internal/session — only the knobs the adapter is started
// with.
package config

import "sync"

// Config holds the adapter process's runtime configuration.
type Config struct {
	// Transport
	ListenAddress string `json:"listen_address"`
	MaxFrameBytes uint32 `json:"max_frame_bytes"`

	// Engine loading
	EngineLibraryPath string `json:"engine_library_path"`

	// Shutdown
	ShutdownTimeoutMS int `json:"shutdown_timeout_ms"`

	// Value-filtering flags (spec §3.4/§4.6), loaded by FromMap. Nothing
	// passes them to a session: a fresh session's value inspector starts
	// with the zero protocol.FilteringPolicy until a
	// SetValueFilteringPolicy request.
	FilterRecognizedArguments  bool `json:"filter_recognized_arguments"`
	FilterRuntimeSupportValues bool `json:"filter_runtime_support_values"`
	FilterArtificialValues     bool `json:"filter_artificial_values"`

	// Logging
	LogLevel string `json:"log_level"`

	// Observability
	MetricsEnabled  bool   `json:"metrics_enabled"`
	MetricsAddress  string `json:"metrics_address"`
	TracingEnabled  bool   `json:"tracing_enabled"`
	JaegerEndpoint  string `json:"jaeger_endpoint"`
	ServiceVersion  string `json:"service_version"`
	AdminAddress    string `json:"admin_address"`
}

// DefaultConfig returns a Config with the adapter's out-of-the-box
// defaults: a loopback listener, protocol.DefaultMaxFrameBytes (64 MiB)
// as the frame-size ceiling, and every value-filtering flag off.
func DefaultConfig() *Config {
	return &Config{
		ListenAddress:     "127.0.0.1:4711",
		MaxFrameBytes:     64 * 1024 * 1024,
		EngineLibraryPath: "",
		ShutdownTimeoutMS: 5000,

		FilterRecognizedArguments:  false,
		FilterRuntimeSupportValues: false,
		FilterArtificialValues:     false,

		LogLevel: "info",

		MetricsEnabled: true,
		MetricsAddress: "127.0.0.1:9090",
		TracingEnabled: false,
		JaegerEndpoint: "127.0.0.1:4317",
		ServiceVersion: "dev",
		AdminAddress:   "127.0.0.1:9191",
	}
}

// FromMap overlays config onto a copy of the defaults; unknown keys are
// ignored and numeric fields tolerate both int and float64 (the shapes
// a JSON-decoded map and a hand-built map both produce).
func FromMap(m map[string]any) *Config {
	c := DefaultConfig()

	if v, ok := m["listen_address"].(string); ok {
		c.ListenAddress = v
	}
	if v, ok := intOrFloat(m["max_frame_bytes"]); ok {
		c.MaxFrameBytes = uint32(v)
	}
	if v, ok := m["engine_library_path"].(string); ok {
		c.EngineLibraryPath = v
	}
	if v, ok := intOrFloat(m["shutdown_timeout_ms"]); ok {
		c.ShutdownTimeoutMS = v
	}
	if v, ok := m["filter_recognized_arguments"].(bool); ok {
		c.FilterRecognizedArguments = v
	}
	if v, ok := m["filter_runtime_support_values"].(bool); ok {
		c.FilterRuntimeSupportValues = v
	}
	if v, ok := m["filter_artificial_values"].(bool); ok {
		c.FilterArtificialValues = v
	}
	if v, ok := m["log_level"].(string); ok {
		c.LogLevel = v
	}
	if v, ok := m["metrics_enabled"].(bool); ok {
		c.MetricsEnabled = v
	}
	if v, ok := m["metrics_address"].(string); ok {
		c.MetricsAddress = v
	}
	if v, ok := m["tracing_enabled"].(bool); ok {
		c.TracingEnabled = v
	}
	if v, ok := m["jaeger_endpoint"].(string); ok {
		c.JaegerEndpoint = v
	}
	if v, ok := m["service_version"].(string); ok {
		c.ServiceVersion = v
	}
	if v, ok := m["admin_address"].(string); ok {
		c.AdminAddress = v
	}
	return c
}

func intOrFloat(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// ToMap mirrors the JSON tags above, for admin/introspection endpoints
// that want a generic representation rather than the typed struct.
func (c *Config) ToMap() map[string]any {
	return map[string]any{
		"listen_address":                c.ListenAddress,
		"max_frame_bytes":               c.MaxFrameBytes,
		"engine_library_path":           c.EngineLibraryPath,
		"shutdown_timeout_ms":           c.ShutdownTimeoutMS,
		"filter_recognized_arguments":   c.FilterRecognizedArguments,
		"filter_runtime_support_values": c.FilterRuntimeSupportValues,
		"filter_artificial_values":      c.FilterArtificialValues,
		"log_level":                     c.LogLevel,
		"metrics_enabled":               c.MetricsEnabled,
		"metrics_address":               c.MetricsAddress,
		"tracing_enabled":               c.TracingEnabled,
		"jaeger_endpoint":               c.JaegerEndpoint,
		"service_version":               c.ServiceVersion,
		"admin_address":                 c.AdminAddress,
	}
}

var (
	global   *Config
	globalMu sync.RWMutex
)

// Get returns the process-wide configuration, or DefaultConfig() if
// none has been set (e.g. under a test that never called Set).
func Get() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return DefaultConfig()
	}
	return global
}

// Set installs the process-wide configuration, normally called once by
// cmd/adapter's main after parsing flags/environment.
func Set(c *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = c
}

// Reset clears the process-wide configuration back to unset, used by
// tests that need a clean slate between cases.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
}
