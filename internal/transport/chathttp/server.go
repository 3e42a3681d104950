// Package chathttp exposes the conversation over a small JSON session API.
package chathttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/BearBump/ParcelAssist/internal/services/conversation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	sessionsScope  = "sessions"
	maxMessageBody = 4 << 10

	// сколько держим завершённую сессию, чтобы отвечать 410, а не 404
	finishedRetention = 5 * time.Minute
)

type Runner interface {
	Run(ctx context.Context, sessionID string, t conversation.Transport) (conversation.Summary, error)
}

type Limiter interface {
	AllowPerMinute(ctx context.Context, scope, subject string, limit int64, now time.Time) (bool, int64, error)
}

type Server struct {
	ctx    context.Context
	runner Runner

	limiter  Limiter
	perMin   int64
	idle     time.Duration
	ready    func(context.Context) error
	newID    func() string
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a server whose sessions live until ctx is done.
func New(ctx context.Context, runner Runner) *Server {
	return &Server{
		ctx:      ctx,
		runner:   runner,
		newID:    uuid.NewString,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *Server) WithLimiter(l Limiter, perMinute int) *Server {
	if l != nil && perMinute > 0 {
		s.limiter = l
		s.perMin = int64(perMinute)
	}
	return s
}

func (s *Server) WithIdleTimeout(d time.Duration) *Server {
	s.idle = d
	return s
}

// WithReadiness sets the check behind /readyz.
func (s *Server) WithReadiness(fn func(context.Context) error) *Server {
	s.ready = fn
	return s
}

type messageRequest struct {
	Text *string `json:"text"`
}

type turnResponse struct {
	SessionID     string   `json:"session_id"`
	Messages      []string `json:"messages"`
	AwaitingInput bool     `json:"awaiting_input"`
	Done          bool     `json:"done"`
	Outcome       string   `json:"outcome,omitempty"`
	Escalated     bool     `json:"escalated,omitempty"`
	CaseRef       string   `json:"case_ref,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes registers the session API and health endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.handleReady)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Post("/{id}/messages", s.handleMessage)
		r.Delete("/{id}", s.handleDelete)
	})
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	s.Routes(r)
	return r
}

// Active returns the number of sessions that still wait for input.
func (s *Server) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		if !sess.finished() {
			n++
		}
	}
	return n
}

// Close aborts every running session.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.abort()
	}
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			slog.Warn("readiness check failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "not ready"})
			return
		}
	}
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.allow(r) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many sessions, try again later"})
		return
	}

	sess := newSession(s.newID(), s.idle)
	ctx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	s.sweepLocked()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	go func() {
		defer cancel()
		sess.run(ctx, s.runner)
		s.mu.Lock()
		sess.finishedAt = s.now()
		s.mu.Unlock()
		slog.Info("chat session finished", "session_id", sess.id)
	}()

	sess.mu.Lock()
	t := <-sess.tr.turns
	sess.mu.Unlock()

	slog.Info("chat session started", "session_id", sess.id)
	writeJSON(w, http.StatusCreated, toResponse(sess.id, t))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}

	var req messageRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxMessageBody))
	if err := dec.Decode(&req); err != nil || req.Text == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: `body must be {"text": "..."}`})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.finished() {
		writeJSON(w, http.StatusGone, errorResponse{Error: "session is finished"})
		return
	}
	t, ok := sess.answer(*req.Text)
	if !ok {
		writeJSON(w, http.StatusGone, errorResponse{Error: "session is finished"})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(sess.id, t))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	sess.abort()
	select {
	case <-sess.done:
	case <-r.Context().Done():
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if !sess.finishedAt.IsZero() && now.Sub(sess.finishedAt) > finishedRetention {
			delete(s.sessions, id)
		}
	}
}

// allow checks the per-IP session quota. Limiter errors let the request through.
func (s *Server) allow(r *http.Request) bool {
	if s.limiter == nil {
		return true
	}
	ip := clientIP(r)
	ok, n, err := s.limiter.AllowPerMinute(r.Context(), sessionsScope, ip, s.perMin, s.now())
	if err != nil {
		slog.Warn("session rate limiter unavailable", "ip", ip, "error", err.Error())
		return true
	}
	if !ok {
		slog.Info("session rate limit exceeded", "ip", ip, "count", n)
	}
	return ok
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func toResponse(id string, t turn) turnResponse {
	resp := turnResponse{
		SessionID:     id,
		Messages:      t.Messages,
		AwaitingInput: t.AwaitingInput,
		Done:          t.Done,
	}
	if resp.Messages == nil {
		resp.Messages = []string{}
	}
	if t.Done {
		resp.Outcome = string(t.Summary.Final)
		resp.Escalated = t.Summary.Escalated
		resp.CaseRef = t.Summary.CaseRef
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err.Error())
	}
}
