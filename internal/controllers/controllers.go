package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrRouteNotFound    = errors.New("route not found")
	ErrBadRequest       = errors.New("invalid request body")
	ErrInvalidID        = errors.New("invalid id")
	ErrGetGames         = errors.New("failed to get games")
	ErrGetGame          = errors.New("failed to get game")
	ErrGameNotFound     = errors.New("game not found")
	ErrGetCategories    = errors.New("failed to get categories")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCreate           = errors.New("failed to create")
	ErrUpdate           = errors.New("failed to update")
	ErrDelete           = errors.New("failed to delete")
	ErrEncoding         = errors.New("failed to encode")
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && log != nil {
		log.Error(ErrEncoding.Error(), slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, err error) {
	writeJSON(w, log, status, ErrorResponse{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// NotFound answers unmatched paths and methods.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, nil, http.StatusNotFound, ErrRouteNotFound)
}
