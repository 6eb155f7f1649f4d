package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ugaemi/dragonboatrace-server/internal/store"
)

const maxResultLimit = 100

// SessionCounter reports how many race sessions are live.
type SessionCounter interface {
	SessionCount() int
}

// NewRouter builds the HTTP router for health, saves and results.
func NewRouter(st store.RaceStore, sessions SessionCounter) chi.Router {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	h := &handler{store: st, sessions: sessions}
	r.Get("/health", h.health)
	r.Route("/api/v1", func(sub chi.Router) {
		sub.Get("/saves", h.listSaves)
		sub.Get("/saves/{slot}", h.getSave)
		sub.Delete("/saves/{slot}", h.deleteSave)
		sub.Get("/results", h.listResults)
	})

	return r
}

type handler struct {
	store    store.RaceStore
	sessions SessionCounter
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.sessions.SessionCount(),
	})
}

func (h *handler) listSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.store.ListSaves(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saves)
}

func (h *handler) getSave(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetSave(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) deleteSave(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSave(r.Context(), chi.URLParam(r, "slot")); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listResults(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultResultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxResultLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxResultLimit))
			return
		}
		limit = n
	}

	results, err := h.store.ListResults(r.Context(), limit)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error("store request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
