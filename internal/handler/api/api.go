// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST surface over the content engine.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine-cms/vitrine/internal/cache"
	"github.com/vitrine-cms/vitrine/internal/content"
	"github.com/vitrine-cms/vitrine/internal/schedule"
	"github.com/vitrine-cms/vitrine/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	sections      *content.SectionManager
	versions      *content.VersionManager
	publisher     *content.Publisher
	reader        *content.Reader
	planner       *schedule.Planner
	sweeper       *schedule.Sweeper
	store         store.Store
	cache         cache.Cacher
	logger        *slog.Logger
	defaultLocale string
}

// NewHandler creates a new API handler.
func NewHandler(
	sections *content.SectionManager,
	versions *content.VersionManager,
	publisher *content.Publisher,
	reader *content.Reader,
	planner *schedule.Planner,
	sweeper *schedule.Sweeper,
	st store.Store,
	c cache.Cacher,
	logger *slog.Logger,
	defaultLocale string,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Handler{
		sections:      sections,
		versions:      versions,
		publisher:     publisher,
		reader:        reader,
		planner:       planner,
		sweeper:       sweeper,
		store:         st,
		cache:         c,
		logger:        logger,
		defaultLocale: defaultLocale,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Page    int64 `json:"page,omitempty"`
	PerPage int64 `json:"per_page,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// writeEngineError maps the engine's error taxonomy to HTTP statuses.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, content.ErrInvalidState):
		WriteError(w, http.StatusUnprocessableEntity, "invalid_state", err.Error(), nil)
	case errors.Is(err, content.ErrStoreUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "store_unavailable", "Content store is unavailable", nil)
	default:
		h.logger.Error("unhandled API error", "error", err)
		WriteInternalError(w, "Internal server error")
	}
}

// parseIDParam parses the named chi URL parameter as an int64.
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// decodeBody decodes the request body into dst.
// Returns false with a response already written on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}
