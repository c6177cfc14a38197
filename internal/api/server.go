// SPDX-License-Identifier: MIT

// Package api serves the daemon's admin surface: simulated users, the
// event sources that drive dialog sessions, and the usual health and
// metrics endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/forgecraft/anvilmenu"
	"github.com/forgecraft/anvilmenu/internal/config"
	"github.com/forgecraft/anvilmenu/internal/log"
	"github.com/forgecraft/anvilmenu/memhost"
)

// Submission is one terminal callback outcome, kept for inspection.
type Submission struct {
	User   string    `json:"user"`
	UserID uuid.UUID `json:"user_id"`
	Text   string    `json:"text"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Server wires one memhost, one factory and one menu template behind an
// HTTP surface.
type Server struct {
	host   *memhost.Host
	menu   *anvilmenu.Menu
	cfg    config.Daemon
	logger zerolog.Logger

	mu          sync.Mutex
	submissions []Submission
}

// New binds a factory to the host and builds the demo menu template. The
// menu closes on a trigger click, reopens preserving typed text when the
// client dismisses it, and records every outcome.
func New(host *memhost.Host, cfg config.Daemon) (*Server, error) {
	factory, err := anvilmenu.New(host)
	if err != nil {
		return nil, err
	}

	s := &Server{
		host:   host,
		cfg:    cfg,
		logger: log.WithComponent("api"),
	}
	s.menu = factory.NewMenu(
		anvilmenu.WithTitle(cfg.MenuTitle),
		anvilmenu.WithDefaultText(cfg.MenuDefaultText),
		anvilmenu.WithResponse(s.record),
	)
	s.menu.SetStripDecoration(cfg.MenuStrip)
	return s, nil
}

// Menu exposes the demo template.
func (s *Server) Menu() *anvilmenu.Menu {
	return s.menu
}

func (s *Server) record(u anvilmenu.User, reason anvilmenu.CloseReason, text string) anvilmenu.Directive {
	sub := Submission{
		User:   u.Name(),
		Text:   text,
		Reason: reason.String(),
		At:     time.Now().UTC(),
	}
	if mu, ok := u.(*memhost.User); ok {
		sub.UserID = mu.ID()
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	// Client-side dismissal brings the dialog back with the typed text
	// intact; everything else closes it.
	if reason == anvilmenu.ReasonClientClose {
		return anvilmenu.DirectiveReopenWithText
	}
	return anvilmenu.DirectiveClose
}

// Router builds the admin router with the canonical middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)
	if s.cfg.TracingEnabled {
		r.Use(Tracing("anvild"))
	}
	r.Use(Logging)
	r.Use(RateLimit(s.cfg.RateLimit, s.cfg.RateLimitWindow))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDisconnect)
			r.Post("/open", s.handleOpen)
			r.Post("/edit", s.handleEdit)
			r.Post("/click", s.handleClick)
			r.Post("/close", s.handleClose)
			r.Post("/update", s.handleUpdate)
		})
		r.Get("/sessions", s.handleSessions)
		r.Get("/submissions", s.handleSubmissions)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	u := s.host.Connect(req.Name)
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":   u.ID().String(),
		"name": u.Name(),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	type userInfo struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Viewing bool   `json:"viewing"`
	}
	users := s.host.Users()
	out := make([]userInfo, 0, len(users))
	for _, u := range users {
		_, viewing := s.host.CurrentView(u)
		out = append(out, userInfo{ID: u.ID().String(), Name: u.Name(), Viewing: viewing})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(w, r)
	if !ok {
		return
	}
	u.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(w, r)
	if !ok {
		return
	}
	var req struct {
		Text *string `json:"text"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Text != nil {
		s.menu.OpenWithText(u, *req.Text)
	} else {
		s.menu.Open(u)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	swallowed := u.TypeText(req.Text)
	writeJSON(w, http.StatusAccepted, map[string]bool{"swallowed": swallowed})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(w, r)
	if !ok {
		return
	}
	var req struct {
		Slot int `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	u.Click(req.Slot)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(w, r)
	if !ok {
		return
	}
	// ?origin=server simulates another subsystem force-closing the view.
	if r.URL.Query().Get("origin") == "server" {
		s.host.ForceClose(u)
	} else {
		u.CloseView()
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := s.user(w, r)
	if !ok {
		return
	}
	s.menu.Update(u)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSessions(w http.ResponseWriter, _ *http.Request) {
	type sessionInfo struct {
		User        string `json:"user"`
		UserID      string `json:"user_id"`
		ViewTitle   string `json:"view_title,omitempty"`
		PendingText string `json:"pending_text,omitempty"`
	}
	viewers := s.menu.Viewers()
	out := make([]sessionInfo, 0, len(viewers))
	for _, u := range viewers {
		info := sessionInfo{User: u.Name()}
		if mu, ok := u.(*memhost.User); ok {
			info.UserID = mu.ID().String()
		}
		if v, ok := s.host.CurrentView(u); ok {
			info.ViewTitle = v.Title()
		}
		if text, ok := s.menu.PendingText(u); ok {
			info.PendingText = text
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubmissions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]Submission(nil), s.submissions...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// user resolves the {id} URL parameter to a connected user, writing the
// appropriate error response when it cannot.
func (s *Server) user(w http.ResponseWriter, r *http.Request) (*memhost.User, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return nil, false
	}
	u, ok := s.host.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	return u, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
