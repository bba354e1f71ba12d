// Package http exposes a running calibration session over HTTP: state
// snapshots, the stage diagram, a server-sent stream of state diffs and
// Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/bubblefx/internal/logging"
	"github.com/aretw0/bubblefx/internal/presentation/graph"
	"github.com/aretw0/bubblefx/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Session is the part of a running effect the server reads.
type Session interface {
	State() *domain.State
}

// Server serves one session.
type Server struct {
	Session  Session
	Streams  *StreamManager
	Version  string
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	mu   sync.Mutex
	last *domain.State
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer exposes g on /metrics. Without it the route is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = strings.TrimSpace(v)
	}
}

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server for session.
func NewServer(session Session, opts ...Option) *Server {
	s := &Server{
		Session: session,
		Version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Hooks publishes a state diff after every stage entry and pulse. They run
// on the host loop and never block on clients.
func (s *Server) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(context.Context, *domain.StageEvent) { s.Publish() },
		OnPulse:      func(context.Context, *domain.PulseEvent) { s.Publish() },
	}
}

// Publish diffs the session against the last published snapshot and
// broadcasts the result, if any.
func (s *Server) Publish() {
	cur := s.Session.State()

	// Broadcasting under the lock keeps subscribers, whose baseline is
	// s.last, from seeing a change twice.
	s.mu.Lock()
	defer s.mu.Unlock()
	diff := domain.Diff(s.last, cur)
	s.last = cur
	if diff == nil {
		return
	}
	b, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("failed to encode state diff", "err", err)
		return
	}
	s.Streams.Broadcast(cur.SessionID, string(b))
}

// subscribe registers a stream and returns the snapshot later diffs are
// relative to.
func (s *Server) subscribe() (*domain.State, <-chan string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		s.last = s.Session.State()
	}
	ch, cancel := s.Streams.Subscribe(s.last.SessionID)
	return s.last, ch, cancel
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"app": "bubblefx", "version": s.Version}, s.logger)
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.State(), s.logger)
}

// GetGraph handles the GET /graph request. The Mermaid diagram highlights
// visited stages and the current one.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(graph.OverlayFromState(s.Session.State())))
}

// SubscribeEvents handles the GET /events request (SSE). The first message
// is the last published state as a diff; later ones carry only what changed. The
// optional watch query ("stage,status,history,pulses") filters them.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	base, ch, cancel := s.subscribe()
	defer cancel()

	var watchList []string
	if q := r.URL.Query().Get("watch"); q != "" {
		watchList = strings.Split(q, ",")
	}

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if b, err := json.Marshal(domain.Diff(nil, base)); err == nil {
		fmt.Fprintf(w, "data: %s\n\n", b)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matches(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matches(msg string, watchList []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "stage":
			if diff.Stage != nil {
				return true
			}
		case "status":
			if diff.Status != nil {
				return true
			}
		case "history":
			if len(diff.Entered) > 0 {
				return true
			}
		case "pulses":
			if diff.Pulses != nil {
				return true
			}
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
