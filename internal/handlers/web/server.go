// Package web serves the JSON HTTP API used by the browser front end.
// Request and response bodies are the encounterforge v1alpha1 messages.
package web

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/KirkDiggler/encounter-forge/internal/entities"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/export/statblock"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/battle"
	"github.com/KirkDiggler/encounter-forge/internal/orchestrators/encounter"
)

const maxBodyBytes = 1 << 20

// RenderFunc turns an encounter into a printable document
type RenderFunc func(*entities.Encounter) ([]byte, error)

// Config holds dependencies for the HTTP server
type Config struct {
	EncounterService encounter.Service
	BattleService    battle.Service
	// Render defaults to statblock.Render
	Render RenderFunc
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	return vb.Build()
}

// Server exposes the orchestrators over HTTP
type Server struct {
	encounters encounter.Service
	battles    battle.Service
	render     RenderFunc
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	render := cfg.Render
	if render == nil {
		render = statblock.Render
	}

	return &Server{
		encounters: cfg.EncounterService,
		battles:    cfg.BattleService,
		render:     render,
	}, nil
}

// Routes returns the handler with every API route registered
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/encounters", s.handleGenerateEncounter)
	mux.HandleFunc("POST /api/encounters/random", s.handleRandomEncounter)
	mux.HandleFunc("GET /api/encounters", s.handleListEncounters)
	mux.HandleFunc("GET /api/encounters/{id}", s.handleGetEncounter)
	mux.HandleFunc("GET /api/encounters/{id}/statblocks.pdf", s.handleStatblocks)
	mux.HandleFunc("GET /api/enemy-types", s.handleEnemyTypes)

	mux.HandleFunc("POST /api/battles", s.handleStartBattle)
	mux.HandleFunc("GET /api/battles/{id}", s.handleGetBattle)
	mux.HandleFunc("POST /api/battles/{id}/damage", s.handleDamage)
	mux.HandleFunc("DELETE /api/battles/{id}", s.handleFinishBattle)

	return recoverPanics(logRequests(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the JSON shape of every error response
type errorBody struct {
	Code    errors.Code    `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", code,
			"error", err)
	}

	writeJSON(w, status, errorBody{
		Code:    code,
		Message: errors.GetMessage(err),
		Meta:    errors.GetMeta(err),
	})
}

// decodeBody reads a JSON body into dst; an empty body leaves dst untouched
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.InvalidArgumentf("request body is not valid JSON: %v", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", recovered,
					"stack", string(debug.Stack()))
				writeError(w, r, errors.Internal("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
