// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/vitrine-cms/vitrine/internal/content"
)

// CreateSection handles POST /api/v1/sections.
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var in content.CreateSectionInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Locale == "" {
		in.Locale = h.defaultLocale
	}

	sec, err := h.sections.CreateSection(r.Context(), in)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteCreated(w, sec)
}

// GetSection handles GET /api/v1/sections/{id}.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	sec, err := h.sections.GetSection(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, sec, nil)
}

// ListSections handles GET /api/v1/sections?locale=.
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = h.defaultLocale
	}

	sections, err := h.sections.ListSections(r.Context(), locale)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, sections, nil)
}

// ReorderRequest is the body of POST /api/v1/sections/reorder.
type ReorderRequest struct {
	Locale     string  `json:"locale"`
	SectionIDs []int64 `json:"section_ids"`
}

// ReorderSections handles POST /api/v1/sections/reorder.
func (h *Handler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Locale == "" {
		req.Locale = h.defaultLocale
	}

	if err := h.sections.Reorder(r.Context(), req.Locale, req.SectionIDs); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"reordered": len(req.SectionIDs)}, nil)
}

// AssociationsRequest is the body of the association replace endpoints.
type AssociationsRequest struct {
	Items []content.AssociationInput `json:"items"`
}

// SetSectionProducts handles PUT /api/v1/sections/{id}/products.
func (h *Handler) SetSectionProducts(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	var req AssociationsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.sections.SetProducts(r.Context(), id, req.Items); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"count": len(req.Items)}, nil)
}

// SetSectionCategories handles PUT /api/v1/sections/{id}/categories.
func (h *Handler) SetSectionCategories(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid section ID", nil)
		return
	}

	var req AssociationsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.sections.SetCategories(r.Context(), id, req.Items); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"count": len(req.Items)}, nil)
}
