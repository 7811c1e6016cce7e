package visualization

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gyxcit/simdecision/internal/highlight"
	"github.com/gyxcit/simdecision/internal/layout"
	"github.com/gyxcit/simdecision/internal/store"
)

// Server serves the current model and its render graph over a local HTTP
// API. The graph is derived fresh from the store on every request, so
// clients always see the canonical model.
type Server struct {
	store      *store.ModelStore
	cache      *layout.Cache
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// NewServer creates a new graph server. cache may be nil for nominal layout.
func NewServer(st *store.ModelStore, cache *layout.Cache) *Server {
	return &Server{store: st, cache: cache}
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ListenAndServe starts the HTTP server and blocks until the context is
// cancelled. An empty listen address lets the OS pick a free port.
func (s *Server) ListenAndServe(ctx context.Context, listenAddr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/graph", s.handleGraph)
	mux.HandleFunc("/api/model", s.handleModel)

	if listenAddr == "" {
		listenAddr = "localhost:0"
	}
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: mux}
	s.mu.Unlock()

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleGraph derives the render graph. Query parameters: "focus" dims
// everything outside the 1-hop neighborhood of the given node ID; "group=0"
// disables entity grouping.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	grouped := r.URL.Query().Get("group") != "0"
	g := layout.Layout(s.store.Model(), s.cache, grouped)

	if focus := r.URL.Query().Get("focus"); focus != "" {
		if g.Node(focus) == nil {
			http.Error(w, "focus node not found: "+focus, http.StatusNotFound)
			return
		}
		g = highlight.Highlight(g, focus)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RenderJSON(g))
}

// handleModel returns the canonical model snapshot.
func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.store.Model())
}
