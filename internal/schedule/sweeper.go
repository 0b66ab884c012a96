// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package schedule executes planned publication and expiry transitions. The
// sweep is idempotent and safe under overlapping invocations: schedule status
// updates are conditional, so a transition another sweep already claimed is a
// silent no-op here.
package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitrine-cms/vitrine/internal/content"
	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

// ErrScheduleExecutionFailure marks a sweep in which at least one schedule
// could not complete its transition. The sweep itself still runs to the end.
var ErrScheduleExecutionFailure = errors.New("schedule execution failed")

// Invalidator receives scheduler-driven cache events.
type Invalidator interface {
	OnScheduleExecute(ctx context.Context, sectionID int64, locale string) error
}

// Transition records one executed schedule transition.
type Transition struct {
	ScheduleID int64  `json:"schedule_id"`
	SectionID  int64  `json:"section_id"`
	Action     string `json:"action"` // "published" or "expired"
}

// Failure records one schedule whose transition failed this sweep.
type Failure struct {
	ScheduleID int64  `json:"schedule_id"`
	SectionID  int64  `json:"section_id"`
	Error      string `json:"error"`
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Executed []Transition `json:"executed"`
	Failures []Failure    `json:"failures"`
}

// Sweeper finds due schedules and drives them through the publication
// controller. One failing schedule never blocks the rest of the sweep.
type Sweeper struct {
	store       store.Store
	publisher   *content.Publisher
	invalidator Invalidator
	logger      *slog.Logger
	clock       content.Clock
}

// NewSweeper creates a Sweeper.
func NewSweeper(st store.Store, pub *content.Publisher, inv Invalidator, logger *slog.Logger, clock content.Clock) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Sweeper{store: st, publisher: pub, invalidator: inv, logger: logger, clock: clock}
}

// ProcessSchedules runs one sweep. The time is snapshotted once at entry so a
// long sweep does not pick up schedules that became due mid-run; they wait
// for the next cadence. Returns ErrScheduleExecutionFailure (wrapped) when
// any schedule failed, alongside the full result.
func (s *Sweeper) ProcessSchedules(ctx context.Context) (SweepResult, error) {
	now := s.clock()
	var result SweepResult

	pending, err := s.store.DuePendingSchedules(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list due pending schedules: %w", err)
	}
	for _, sch := range pending {
		s.executePublish(ctx, sch, now, &result)
	}

	active, err := s.store.DueActiveSchedules(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list due active schedules: %w", err)
	}
	for _, sch := range active {
		s.executeExpiry(ctx, sch, now, &result)
	}

	if len(result.Executed) > 0 || len(result.Failures) > 0 {
		s.logger.Info("schedule sweep completed",
			"category", model.EventCategorySchedule,
			"executed", len(result.Executed),
			"failures", len(result.Failures),
		)
	}

	if len(result.Failures) > 0 {
		return result, fmt.Errorf("%w: %d of %d schedules failed",
			ErrScheduleExecutionFailure, len(result.Failures), len(result.Executed)+len(result.Failures))
	}
	return result, nil
}

// executePublish publishes a due pending schedule's version and then claims
// the schedule. Publish runs first: if it fails the schedule stays pending
// and the next sweep retries it. The claim (MarkScheduleActive) is
// conditional on the schedule still being pending; losing it to a concurrent
// sweep is not an error, since the publish itself is idempotent.
func (s *Sweeper) executePublish(ctx context.Context, sch model.Schedule, now time.Time, result *SweepResult) {
	if !sch.VersionID.Valid {
		s.recordFailure(ctx, sch, "publish", errors.New("schedule has no version"), result)
		return
	}

	if _, err := s.publisher.Publish(ctx, sch.SectionID, sch.VersionID.Int64); err != nil {
		s.recordFailure(ctx, sch, "publish", err, result)
		return
	}

	if err := s.store.MarkScheduleActive(ctx, sch.ID, now); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Another sweep published and claimed it first.
			return
		}
		s.recordFailure(ctx, sch, "publish", err, result)
		return
	}

	s.logger.Info("scheduled publish executed",
		"category", model.EventCategorySchedule,
		"schedule_id", sch.ID,
		"section_id", sch.SectionID,
		"version_id", sch.VersionID.Int64,
	)
	s.notifyInvalidator(ctx, sch.SectionID)
	result.Executed = append(result.Executed, Transition{
		ScheduleID: sch.ID,
		SectionID:  sch.SectionID,
		Action:     "published",
	})
}

// executeExpiry archives the section of a due active schedule and then marks
// the schedule expired. The same ordering as executePublish: a failed archive
// leaves the schedule active for the next sweep, and archiving is idempotent
// so the conditional claim keeps overlapping sweeps safe.
func (s *Sweeper) executeExpiry(ctx context.Context, sch model.Schedule, now time.Time, result *SweepResult) {
	if err := s.publisher.Archive(ctx, sch.SectionID); err != nil {
		s.recordFailure(ctx, sch, "expire", err, result)
		return
	}

	if err := s.store.MarkScheduleExpired(ctx, sch.ID, now); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return
		}
		s.recordFailure(ctx, sch, "expire", err, result)
		return
	}

	s.logger.Info("scheduled expiry executed",
		"category", model.EventCategorySchedule,
		"schedule_id", sch.ID,
		"section_id", sch.SectionID,
	)
	s.notifyInvalidator(ctx, sch.SectionID)
	result.Executed = append(result.Executed, Transition{
		ScheduleID: sch.ID,
		SectionID:  sch.SectionID,
		Action:     "expired",
	})
}

// recordFailure logs the failure and continues the sweep. The schedule keeps
// its prior status, so the next sweep picks it up again; the ERROR record in
// the event log is the operator signal for transitions that keep failing.
func (s *Sweeper) recordFailure(ctx context.Context, sch model.Schedule, action string, err error, result *SweepResult) {
	s.logger.Error("schedule transition failed",
		"category", model.EventCategorySchedule,
		"schedule_id", sch.ID,
		"section_id", sch.SectionID,
		"action", action,
		"error", err,
	)
	result.Failures = append(result.Failures, Failure{
		ScheduleID: sch.ID,
		SectionID:  sch.SectionID,
		Error:      err.Error(),
	})
}

// notifyInvalidator emits the schedule-execute cache event. The publisher has
// already purged the publish keys; this additionally drops the
// active-schedules listing.
func (s *Sweeper) notifyInvalidator(ctx context.Context, sectionID int64) {
	if s.invalidator == nil {
		return
	}
	sec, err := s.store.GetSection(ctx, sectionID)
	if err != nil {
		s.logger.Warn("could not load section for schedule invalidation",
			"category", model.EventCategoryCache,
			"section_id", sectionID,
			"error", err,
		)
		return
	}
	if err := s.invalidator.OnScheduleExecute(ctx, sectionID, sec.Locale); err != nil {
		s.logger.Error("cache invalidation failed after scheduled transition",
			"category", model.EventCategoryCache,
			"section_id", sectionID,
			"error", err,
		)
	}
}

// CreateScheduleInput is the admin input for a new schedule.
type CreateScheduleInput struct {
	SectionID int64      `json:"section_id"`
	VersionID int64      `json:"version_id"`
	PublishAt *time.Time `json:"publish_at"`
	ExpireAt  *time.Time `json:"expire_at"`
	Notes     string     `json:"notes"`
}

// Planner validates and records schedules.
type Planner struct {
	store  store.Store
	logger *slog.Logger
	clock  content.Clock
}

// NewPlanner creates a Planner.
func NewPlanner(st store.Store, logger *slog.Logger, clock content.Clock) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Planner{store: st, logger: logger, clock: clock}
}

// CreateSchedule records a planned transition. A schedule with a publish time
// starts pending; one with only an expiry starts active (the section is
// already live and only awaits takedown). Times in the past are rejected.
func (p *Planner) CreateSchedule(ctx context.Context, in CreateScheduleInput) (model.Schedule, error) {
	if in.PublishAt == nil && in.ExpireAt == nil {
		return model.Schedule{}, fmt.Errorf("%w: schedule needs a publish or expiry time", content.ErrInvalidState)
	}

	now := p.clock()
	if in.PublishAt != nil && !in.PublishAt.After(now) {
		return model.Schedule{}, fmt.Errorf("%w: publish_at must be in the future", content.ErrInvalidState)
	}
	if in.ExpireAt != nil && !in.ExpireAt.After(now) {
		return model.Schedule{}, fmt.Errorf("%w: expire_at must be in the future", content.ErrInvalidState)
	}
	if in.PublishAt != nil && in.ExpireAt != nil && !in.ExpireAt.After(*in.PublishAt) {
		return model.Schedule{}, fmt.Errorf("%w: expire_at must be after publish_at", content.ErrInvalidState)
	}

	status := model.ScheduleStatusActive
	var versionID sql.NullInt64
	if in.PublishAt != nil {
		status = model.ScheduleStatusPending
		if in.VersionID == 0 {
			return model.Schedule{}, fmt.Errorf("%w: version_id is required for a scheduled publish", content.ErrInvalidState)
		}
		v, err := p.store.GetVersion(ctx, in.VersionID)
		if err != nil {
			return model.Schedule{}, p.mapErr(err)
		}
		if v.SectionID != in.SectionID {
			return model.Schedule{}, fmt.Errorf("%w: version %d does not belong to section %d",
				content.ErrNotFound, in.VersionID, in.SectionID)
		}
		versionID = sql.NullInt64{Int64: in.VersionID, Valid: true}
	} else if _, err := p.store.GetSection(ctx, in.SectionID); err != nil {
		return model.Schedule{}, p.mapErr(err)
	}

	arg := store.CreateScheduleParams{
		SectionID: in.SectionID,
		VersionID: versionID,
		Status:    status,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	if in.PublishAt != nil {
		arg.PublishAt = sql.NullTime{Time: in.PublishAt.UTC(), Valid: true}
	}
	if in.ExpireAt != nil {
		arg.ExpireAt = sql.NullTime{Time: in.ExpireAt.UTC(), Valid: true}
	}

	sch, err := p.store.CreateSchedule(ctx, arg)
	if err != nil {
		return model.Schedule{}, p.mapErr(err)
	}

	p.logger.Info("schedule created",
		"category", model.EventCategorySchedule,
		"schedule_id", sch.ID,
		"section_id", sch.SectionID,
		"status", sch.Status,
	)
	return sch, nil
}

// GetSchedule returns a schedule by id.
func (p *Planner) GetSchedule(ctx context.Context, id int64) (model.Schedule, error) {
	sch, err := p.store.GetSchedule(ctx, id)
	if err != nil {
		return model.Schedule{}, p.mapErr(err)
	}
	return sch, nil
}

// ListByStatus returns schedules in the given status.
func (p *Planner) ListByStatus(ctx context.Context, status string) ([]model.Schedule, error) {
	switch status {
	case model.ScheduleStatusPending, model.ScheduleStatusActive,
		model.ScheduleStatusExpired, model.ScheduleStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown schedule status %q", content.ErrInvalidState, status)
	}
	schedules, err := p.store.ListSchedulesByStatus(ctx, status)
	if err != nil {
		return nil, p.mapErr(err)
	}
	return schedules, nil
}

// CancelSchedule cancels a pending schedule. An active schedule has already
// executed its publish and cannot be cancelled, only left to expire.
func (p *Planner) CancelSchedule(ctx context.Context, id int64) error {
	sch, err := p.store.GetSchedule(ctx, id)
	if err != nil {
		return p.mapErr(err)
	}
	if !sch.IsPending() {
		return fmt.Errorf("%w: only pending schedules can be cancelled, schedule %d is %s",
			content.ErrInvalidState, id, sch.Status)
	}

	if err := p.store.CancelSchedule(ctx, id, p.clock()); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost the race to a sweep that just executed it.
			return fmt.Errorf("%w: schedule %d already executed", content.ErrInvalidState, id)
		}
		return p.mapErr(err)
	}

	p.logger.Info("schedule cancelled",
		"category", model.EventCategorySchedule,
		"schedule_id", id,
	)
	return nil
}

// mapErr translates store error categories the same way the content engine
// does.
func (p *Planner) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", content.ErrNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %v", content.ErrInvalidState, err)
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %v", content.ErrStoreUnavailable, err)
	default:
		return err
	}
}
