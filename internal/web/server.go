// Package web provides the HTTP status and action API for the
// fortune-button daemon.
package web

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"

	"github.com/sweeney/fortune-button/internal/journal"
	"github.com/sweeney/fortune-button/internal/metrics"
	"github.com/sweeney/fortune-button/internal/status"
)

// ActionKind selects what an Action asks the run loop to do.
type ActionKind string

const (
	// ActionPress injects a synthetic press. It goes through the same
	// guard rules as a physical press.
	ActionPress ActionKind = "press"
	// ActionPrint prints the current default content on demand, bypassing
	// the cooldown (bench testing the printer, not the pipeline).
	ActionPrint ActionKind = "print"
)

// Action is a request from the HTTP API to the run loop.
type Action struct {
	Kind ActionKind
}

// SessionLister provides recent session history for the UI.
type SessionLister interface {
	Recent(ctx context.Context, n int) ([]journal.Entry, error)
}

// Server serves the status page, JSON status, session history, action
// endpoints, and Prometheus metrics.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	sessions   SessionLister // may be nil
	actions    chan<- Action // may be nil
}

// New creates a Server. sessions and actions may be nil, disabling the
// corresponding endpoints' functionality.
func New(addr string, tracker *status.Tracker, sessions SessionLister, actions chan<- Action) *Server {
	s := &Server{tracker: tracker, sessions: sessions, actions: actions}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/sessions.json", s.handleSessions)
	mux.HandleFunc("/trigger", s.handleTrigger)
	mux.HandleFunc("/print", s.handlePrint)
	mux.Handle("/metrics", metrics.Handler())

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entries := []journal.Entry{}
	if s.sessions != nil {
		got, err := s.sessions.Recent(r.Context(), 20)
		if err != nil {
			log.Printf("web: list sessions: %v", err)
		} else if got != nil {
			entries = got
		}
	}

	data, _ := json.MarshalIndent(entries, "", "  ")
	w.Write(data)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, Action{Kind: ActionPress})
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, Action{Kind: ActionPrint})
}

// submit hands an action to the run loop without blocking the handler.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, a Action) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.actions == nil {
		http.Error(w, "actions disabled", http.StatusServiceUnavailable)
		return
	}

	select {
	case s.actions <- a:
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("accepted\n"))
	default:
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}
}
