// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/schedule"
)

// CreateSchedule handles POST /api/v1/schedules.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var in schedule.CreateScheduleInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.SectionID == 0 {
		WriteBadRequest(w, "section_id is required", nil)
		return
	}

	sch, err := h.planner.CreateSchedule(r.Context(), in)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteCreated(w, sch)
}

// ListSchedules handles GET /api/v1/schedules?status=.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = model.ScheduleStatusPending
	}

	schedules, err := h.planner.ListByStatus(r.Context(), status)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, schedules, nil)
}

// GetSchedule handles GET /api/v1/schedules/{id}.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid schedule ID", nil)
		return
	}

	sch, err := h.planner.GetSchedule(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, sch, nil)
}

// CancelSchedule handles POST /api/v1/schedules/{id}/cancel.
func (h *Handler) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteBadRequest(w, "Invalid schedule ID", nil)
		return
	}

	if err := h.planner.CancelSchedule(r.Context(), id); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{"cancelled": true}, nil)
}

// ProcessSchedules handles POST /api/v1/schedules/process: a manual sweep
// trigger. Partial failure still returns the sweep result, with 200; the
// per-schedule errors are in the body and the event log.
func (h *Handler) ProcessSchedules(w http.ResponseWriter, r *http.Request) {
	result, err := h.sweeper.ProcessSchedules(r.Context())
	if err != nil && len(result.Executed) == 0 && len(result.Failures) == 0 {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, result, nil)
}
