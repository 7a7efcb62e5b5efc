package observability

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateSnapshot is whatever the caller wants exposed on the admin
// surface at scrape time — registry occupancy, session state, and
// breakpoint counts, gathered fresh on every request rather than
// cached, since the admin surface is a low-traffic introspection aid,
// not a hot path.
type StateSnapshot struct {
	SessionState     string         `json:"session_state"`
	CurrentTargetID  uint64         `json:"current_target_id"`
	CurrentProcessID uint64         `json:"current_process_id"`
	RegistrySizes    map[string]int `json:"registry_sizes"`
	// Breakpoints counts breakpoints and watchpoints together: the
	// manager backing this tracks both kinds in one table and doesn't
	// expose a per-kind split (spec's admin surface only ever asked
	// for "how many am I tracking", not a breakdown).
	Breakpoints int `json:"breakpoints"`
}

// SnapshotFunc produces a StateSnapshot on demand.
type SnapshotFunc func() StateSnapshot

// AdminServer serves /healthz, /debug/state, and /metrics on whatever
// address it is given; the adapter's configured default is the
// loopback 127.0.0.1:9191, but nothing here restricts the listener to
// loopback. Grounded on the teacher's GracefulServer
// shutdown shape, adapted from a grpc.Server to a plain http.Server
// since this surface has no RPC service of its own, only HTTP.
type AdminServer struct {
	addr     string
	snapshot SnapshotFunc

	httpServer *http.Server
	listener   net.Listener

	shutdownMu sync.Mutex
	isShutdown bool
}

// NewAdminServer builds (but does not start) an admin surface bound to
// addr. No value of addr disables it: Start always listens, and a port
// of 0 picks an ephemeral one (callers check Address() after Start to
// learn the assigned port).
func NewAdminServer(addr string, snapshot SnapshotFunc) *AdminServer {
	a := &AdminServer{addr: addr, snapshot: snapshot}

	r := chi.NewRouter()
	r.Get("/healthz", a.handleHealthz)
	r.Get("/debug/state", a.handleState)
	r.Handle("/metrics", promhttp.Handler())

	a.httpServer = &http.Server{Handler: r}
	return a
}

func (a *AdminServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (a *AdminServer) handleState(w http.ResponseWriter, r *http.Request) {
	snap := a.snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

// Start binds the listener and serves until the context is canceled,
// at which point it calls Shutdown with a bounded grace period.
func (a *AdminServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return err
	}
	a.listener = ln

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		a.ShutdownWithTimeout(5 * time.Second)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Address reports the bound address, valid only after Start has
// entered its serve loop.
func (a *AdminServer) Address() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// ShutdownWithTimeout races a graceful HTTP shutdown against timeout,
// forcing the listener closed if the graceful path doesn't finish in
// time. Idempotent: a second call after shutdown has already completed
// is a no-op.
func (a *AdminServer) ShutdownWithTimeout(timeout time.Duration) {
	a.shutdownMu.Lock()
	defer a.shutdownMu.Unlock()
	if a.isShutdown {
		return
	}
	a.isShutdown = true

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		_ = a.httpServer.Close()
	}
}
