// Package server exposes the reminder scheduler over a small local HTTP
// API, used by the app shell and by operators poking at a running
// daemon.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"wellbot/internal/center"
	"wellbot/internal/reminder"
	logx "wellbot/pkg/logx"
)

// Scheduler is the slice of the reminder facade the server needs.
type Scheduler interface {
	Schedule(ctx context.Context, cat reminder.Category, content reminder.Content, opts reminder.Options, data map[string]string) (string, error)
	Cancel(ctx context.Context, id string)
	CancelAll(ctx context.Context) error
	ScheduleDefaults(ctx context.Context) ([]string, error)
}

type Server struct {
	sched Scheduler
	ctr   center.Center
	log   logx.Logger

	http *http.Server
}

func New(addr string, sched Scheduler, ctr center.Center, log logx.Logger) *Server {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Server{sched: sched, ctr: ctr, log: log}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/reminders", s.handleList)
	r.Post("/reminders", s.handleSchedule)
	r.Post("/reminders/defaults", s.handleDefaults)
	r.Delete("/reminders/{id}", s.handleCancel)
	r.Delete("/reminders", s.handleCancelAll)

	return r
}

// Start begins serving and returns; errors after startup are logged.
func (s *Server) Start() {
	go func() {
		s.log.Info("http server listening", logx.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server failed", logx.Err(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	_ = s.http.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.routes() }

type scheduleRequest struct {
	Category string            `json:"category"`
	Title    string            `json:"title"`
	Body     string            `json:"body,omitempty"`
	Options  reminder.Options  `json:"options"`
	Data     map[string]string `json:"data,omitempty"`
}

type registeredResponse struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Repeats  bool   `json:"repeats"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	id, err := s.sched.Schedule(r.Context(), reminder.Category(req.Category),
		reminder.Content{Title: req.Title, Body: req.Body}, req.Options, req.Data)
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrInvalidOptions), errors.Is(err, reminder.ErrUnknownCategory):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sched.ScheduleDefaults(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	regs, err := s.ctr.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]registeredResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, registeredResponse{
			ID:       reg.ID,
			Category: reg.Category(),
			Key:      reg.Key(),
			Title:    reg.Entry.Title,
			Repeats:  reg.Trigger.Repeats,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": out})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.sched.Cancel(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelAll(w http.ResponseWriter, r *http.Request) {
	if err := s.sched.CancelAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
