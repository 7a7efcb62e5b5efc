// CangJieLLDBAdapter (alias: CangJieLLDBFrontend) is the debug adapter
// daemon binary: it accepts one frame-codec connection per client,
// loads the engine library once at startup, and serves requests until
// told to shut down.
//
// Usage:
//
//	go run ./cmd/adapter                              # default :4711
//	go run ./cmd/adapter -listen :4712 -admin :9191    # custom ports
//	go build -o cangjie-lldb-adapter ./cmd/adapter && ./cangjie-lldb-adapter
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/cangjie-tools/lldb-adapter/internal/config"
	"github.com/cangjie-tools/lldb-adapter/internal/dispatcher"
	"github.com/cangjie-tools/lldb-adapter/internal/engine"
	"github.com/cangjie-tools/lldb-adapter/internal/enginehost"
	"github.com/cangjie-tools/lldb-adapter/internal/logging"
	"github.com/cangjie-tools/lldb-adapter/internal/observability"
	"github.com/cangjie-tools/lldb-adapter/internal/protocol"
)

func main() {
	listenAddr := flag.String("listen", "", "frame-protocol listen address (overrides config default)")
	adminAddr := flag.String("admin", "", "admin/metrics HTTP listen address; empty keeps the config default (the server runs whenever metrics are enabled)")
	enginePath := flag.String("engine-lib", "", "path to the engine shared library (empty uses the platform default name)")
	logLevel := flag.String("log-level", "", "debug|info|warn|error")
	useFake := flag.Bool("fake-engine", false, "drive an in-memory fake engine instead of loading a shared library (development/demo only)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *listenAddr != "" {
		cfg.ListenAddress = *listenAddr
	}
	if *adminAddr != "" {
		cfg.AdminAddress = *adminAddr
	}
	if *enginePath != "" {
		cfg.EngineLibraryPath = *enginePath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	config.Set(cfg)

	log := logging.New(cfg.LogLevel)
	log.Info("adapter_starting", "listen_address", cfg.ListenAddress, "admin_address", cfg.AdminAddress)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var loader enginehost.Loader
	if *useFake {
		loader = enginehost.NewFakeLoader(nil)
	} else {
		loader = enginehost.NewPluginLoader()
	}

	libPath := cfg.EngineLibraryPath
	if libPath == "" {
		libPath = enginehost.DefaultLibraryPath()
	}
	eng, err := loader.Load(ctx, libPath)
	if err != nil {
		log.Error("engine_load_failed", "path", libPath, "error", err)
		os.Exit(1)
	}
	log.Info("engine_loaded", "path", libPath)

	if cfg.TracingEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, "cangjie-lldb-adapter", cfg.JaegerEndpoint)
		if err != nil {
			log.Warn("tracing_init_failed", "error", err)
		} else {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = shutdownTracer(sctx)
			}()
		}
	}

	srv, err := newServer(cfg, eng, log)
	if err != nil {
		log.Error("server_init_failed", "error", err)
		os.Exit(1)
	}

	if cfg.MetricsEnabled && cfg.AdminAddress != "" {
		admin := observability.NewAdminServer(cfg.AdminAddress, srv.snapshotForAdmin)
		go func() {
			if err := admin.Start(ctx); err != nil {
				log.Warn("admin_server_stopped", "error", err)
			}
		}()
	}

	if err := srv.run(ctx); err != nil {
		log.Error("server_exited_with_error", "error", err)
		os.Exit(1)
	}
	log.Info("adapter_stopped")
}

// server owns the listener and the set of connections currently being
// served, so shutdown can wait for them (bounded by a timeout) rather
// than dropping clients mid-request.
type server struct {
	cfg *config.Config
	eng engine.Engine
	log logging.Logger

	listener net.Listener

	mu    sync.Mutex
	conns map[*dispatcher.Connection]net.Conn
	wg    sync.WaitGroup
}

func newServer(cfg *config.Config, eng engine.Engine, log logging.Logger) (*server, error) {
	return &server{cfg: cfg, eng: eng, log: log, conns: make(map[*dispatcher.Connection]net.Conn)}, nil
}

func (s *server) snapshotForAdmin() observability.StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Reports the first connection in map iteration order, which is
	// arbitrary when several are open; the admin surface is a
	// single-process introspection aid and this adapter's typical
	// deployment serves one IDE client at a time.
	for c := range s.conns {
		cs := c.Snapshot()
		return observability.StateSnapshot{
			SessionState:     cs.SessionState,
			CurrentTargetID:  cs.CurrentTargetID,
			CurrentProcessID: cs.CurrentProcessID,
			RegistrySizes:    cs.RegistrySizes,
			Breakpoints:      cs.Breakpoints,
		}
	}
	return observability.StateSnapshot{SessionState: "NO_CONNECTION"}
}

// metricsPollInterval is how often pollMetrics samples registry and
// breakpoint occupancy. Neither the registry nor the breakpoint manager
// pushes on mutation, so the gauges are only ever as fresh as the last
// tick.
const metricsPollInterval = 2 * time.Second

// pollMetrics periodically samples every live connection's state and
// reports it as gauges, since Intern/Forget/Add/Remove don't push their
// own metric updates. Runs until ctx is canceled.
func (s *server) pollMetrics(ctx context.Context) {
	ticker := time.NewTicker(metricsPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleMetrics()
		}
	}
}

func (s *server) sampleMetrics() {
	s.mu.Lock()
	conns := make([]*dispatcher.Connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		cs := c.Snapshot()
		for kind, n := range cs.RegistrySizes {
			observability.SetRegistrySize(kind, n)
		}
		observability.SetBreakpointsActive("breakpoint", cs.RegistrySizes["breakpoint"])
		observability.SetBreakpointsActive("watchpoint", cs.RegistrySizes["watchpoint"])
	}
}

func (s *server) run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddress, err)
	}
	s.listener = ln
	s.log.Info("listening", "address", ln.Addr().String())

	acceptErrCh := make(chan error, 1)
	go s.acceptLoop(ctx, acceptErrCh)
	go s.pollMetrics(ctx)

	select {
	case <-ctx.Done():
		s.shutdown()
		return nil
	case err := <-acceptErrCh:
		s.shutdown()
		return err
	}
}

func (s *server) acceptLoop(ctx context.Context, errCh chan<- error) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				errCh <- nil
			default:
				errCh <- err
			}
			return
		}
		s.wg.Add(1)
		go s.serve(ctx, conn)
	}
}

func (s *server) serve(ctx context.Context, netConn net.Conn) {
	defer s.wg.Done()
	defer netConn.Close()

	observability.ConnectionOpened()
	defer observability.ConnectionClosed()

	codec := protocol.NewFrameCodec(netConn, netConn, s.cfg.MaxFrameBytes)
	connLog := s.log.Bind("conn_id", uuid.NewString(), "remote_addr", netConn.RemoteAddr().String())
	conn := dispatcher.New(codec, s.eng, connLog)

	s.mu.Lock()
	s.conns[conn] = netConn
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	if err := conn.Run(ctx); err != nil {
		connLog.Warn("connection_ended_with_error", "error", err)
		return
	}
	connLog.Info("connection_closed")
}

// shutdown stops accepting new connections and waits for in-flight ones
// to finish up to the configured grace period. A connection's ReadFrame
// blocks on its net.Conn regardless of ctx cancellation, so once the
// grace period lapses every remaining connection is force-closed to
// unblock it rather than left to linger — the adapted equivalent of
// the teacher's ShutdownWithTimeout racing GracefulStop against a
// forced grpcServer.Stop().
func (s *server) shutdown() {
	_ = s.listener.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timeout := time.Duration(s.cfg.ShutdownTimeoutMS) * time.Millisecond
	select {
	case <-done:
		return
	case <-time.After(timeout):
		s.log.Warn("shutdown_timeout_exceeded_forcing_close", "timeout_ms", s.cfg.ShutdownTimeoutMS)
	}

	s.mu.Lock()
	for _, netConn := range s.conns {
		_ = netConn.Close()
	}
	s.mu.Unlock()
	<-done
}
