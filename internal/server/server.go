// Package server exposes the dashboard HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/siddqamar/GMO-FactLens/internal/export"
	"github.com/siddqamar/GMO-FactLens/internal/ports"
	"github.com/siddqamar/GMO-FactLens/internal/usecase"
)

const defaultListLimit = 20

// Server routes dashboard requests to the pipeline and the store.
type Server struct {
	pipeline *usecase.Pipeline
	store    ports.ArticleStore
	hub      *Hub
	log      *slog.Logger
}

// New builds the server around its collaborators.
func New(pipeline *usecase.Pipeline, store ports.ArticleStore, hub *Hub, log *slog.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		store:    store,
		hub:      hub,
		log:      log.With("component", "server"),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/run", s.handleRun).Methods(http.MethodPost)
	api.HandleFunc("/results", s.handleResults).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/articles", s.handleArticles).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.handleSessions).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/export/json", s.handleExportJSON).Methods(http.MethodGet)
	api.HandleFunc("/export/csv", s.handleExportCSV).Methods(http.MethodGet)

	r.Handle("/ws", s.hub)

	return r
}

type runRequest struct {
	Topic      string `json:"topic"`
	Variant    string `json:"variant"`
	MaxResults int    `json:"max_results"`
}

// handleRun starts an analysis in the background; progress streams over
// the websocket and the finished result lands on /api/results.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		s.writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 10
	}

	// Older clients still send a pipeline variant; every variant now maps
	// to the single sequential pipeline.
	if req.Variant != "" {
		s.log.Info("legacy variant requested", "variant", req.Variant)
	}

	// Detached from the request context: the run outlives the POST.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := s.pipeline.Run(ctx, req.Topic, req.MaxResults, s.hub); err != nil {
			if !errors.Is(err, usecase.ErrRunInProgress) {
				s.log.Error("run failed", "topic", req.Topic, "error", err)
			}
			s.hub.Note("Run failed: " + err.Error())
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	s.writeJSON(w, map[string]string{"status": "started", "topic": req.Topic})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	result := s.pipeline.LastResult()
	if result == nil {
		s.writeError(w, http.StatusNotFound, "no run has finished yet")
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.pipeline.History())
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	if topic := r.URL.Query().Get("topic"); topic != "" {
		articles, err := s.store.ArticlesByTopic(r.Context(), topic)
		if err != nil {
			s.storeError(w, err)
			return
		}
		s.writeJSON(w, articles)
		return
	}

	articles, err := s.store.RecentArticles(r.Context(), defaultListLimit)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, articles)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	sessions, err := s.store.RecentSessions(r.Context(), defaultListLimit)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, sessions)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, stats)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	result := s.pipeline.LastResult()
	if result == nil || len(result.Articles) == 0 {
		s.writeError(w, http.StatusNotFound, "nothing to export")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="analysis.json"`)
	if err := export.WriteJSON(w, result.Articles); err != nil {
		s.log.Error("json export failed", "error", err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	result := s.pipeline.LastResult()
	if result == nil || len(result.Articles) == 0 {
		s.writeError(w, http.StatusNotFound, "nothing to export")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="analysis.csv"`)
	if err := export.WriteCSV(w, result.Articles); err != nil {
		s.log.Error("csv export failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	s.log.Error("storage query failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, "storage query failed")
}
