// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// CreateDraftRequest is the body of POST /api/v1/sections/{id}/versions.
type CreateDraftRequest struct {
	Content       json.RawMessage `json:"content"`
	AuthorID      string          `json:"author_id"`
	ChangeSummary string          `json:"change_summary"`
}

// CreateDraft handles POST /api/v1/sections/{id}/versions.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	var req CreateDraftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	v, err := h.versions.CreateDraft(r.Context(), id, req.Content, req.AuthorID, req.ChangeSummary)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteCreated(w, v)
}

// ListVersions handles GET /api/v1/sections/{id}/versions?page=&per_page=.
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	perPage, _ := strconv.ParseInt(r.URL.Query().Get("per_page"), 10, 64)

	versions, err := h.versions.ListVersions(r.Context(), id, page, perPage)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, versions, &Meta{Page: max(page, 1), PerPage: int64(len(versions))})
}

// RevertVersion handles POST /api/v1/sections/{id}/versions/{versionID}/revert.
func (h *Handler) RevertVersion(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}
	versionID, err := parseIDParam(r, "versionID")
	if err != nil {
		WriteBadRequest(w, "Invalid version ID", nil)
		return
	}

	var req struct {
		AuthorID string `json:"author_id"`
	}
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	v, err := h.versions.RevertToVersion(r.Context(), id, versionID, req.AuthorID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteCreated(w, v)
}

// PublishRequest is the body of POST /api/v1/sections/{id}/publish.
type PublishRequest struct {
	VersionID int64 `json:"version_id"`
}

// PublishVersion handles POST /api/v1/sections/{id}/publish.
func (h *Handler) PublishVersion(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	var req PublishRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.VersionID == 0 {
		WriteBadRequest(w, "version_id is required", nil)
		return
	}

	receipt, err := h.publisher.Publish(r.Context(), id, req.VersionID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, receipt, nil)
}

// ArchiveSection handles POST /api/v1/sections/{id}/archive.
func (h *Handler) ArchiveSection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	if err := h.publisher.Archive(r.Context(), id); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"archived": true}, nil)
}
