// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

// Clock supplies the current time. Injected so time-driven behavior is
// deterministically testable.
type Clock func() time.Time

// Invalidator receives lifecycle events after successful transitions. The
// engine only emits events; mapping them to cache keys lives in the cache
// package.
type Invalidator interface {
	OnPublish(ctx context.Context, sectionID int64, locale string) error
	OnDraftUpdate(ctx context.Context, sectionID int64, locale string) error
	OnReorder(ctx context.Context, locale string) error
}

// Version listing pagination bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// VersionManager creates, lists, and reverts content versions for a section.
// Version numbers are strictly increasing per section and the history is
// append-only: a revert creates a new version rather than resurrecting the
// old one.
type VersionManager struct {
	store       store.Store
	invalidator Invalidator
	logger      *slog.Logger
	clock       Clock
	sanitizer   *bluemonday.Policy
}

// NewVersionManager creates a VersionManager.
func NewVersionManager(st store.Store, inv Invalidator, logger *slog.Logger, clock Clock) *VersionManager {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &VersionManager{
		store:       st,
		invalidator: inv,
		logger:      logger,
		clock:       clock,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// CreateDraft stores a new unpublished version with the next version number
// for the section and updates the section's draft pointer. Draft edits never
// affect what end users see; only admin-facing caches are invalidated.
func (vm *VersionManager) CreateDraft(ctx context.Context, sectionID int64, payload json.RawMessage, authorID, changeSummary string) (model.SectionVersion, error) {
	if len(payload) == 0 || !json.Valid(payload) {
		return model.SectionVersion{}, fmt.Errorf("%w: content payload must be valid JSON", ErrInvalidState)
	}

	sec, err := vm.store.GetSection(ctx, sectionID)
	if err != nil {
		return model.SectionVersion{}, mapStoreErr(err)
	}

	now := vm.clock()
	v, err := vm.store.CreateVersion(ctx, store.CreateVersionParams{
		SectionID:     sectionID,
		Content:       string(payload),
		ChangeSummary: vm.sanitizer.Sanitize(changeSummary),
		CreatedBy:     authorID,
		CreatedAt:     now,
	})
	if err != nil {
		return model.SectionVersion{}, mapStoreErr(err)
	}

	vm.logger.Info("draft version created",
		"category", model.EventCategorySection,
		"section_id", sectionID,
		"version_id", v.ID,
		"version_number", v.VersionNumber,
	)

	if vm.invalidator != nil {
		if err := vm.invalidator.OnDraftUpdate(ctx, sectionID, sec.Locale); err != nil {
			vm.logger.Error("draft cache invalidation failed",
				"category", model.EventCategoryCache,
				"section_id", sectionID,
				"error", err,
			)
		}
	}

	return v, nil
}

// ListVersions returns a page of the section's versions, newest first.
// page starts at 1; pageSize is clamped to MaxPageSize.
func (vm *VersionManager) ListVersions(ctx context.Context, sectionID int64, page, pageSize int64) ([]model.SectionVersion, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if _, err := vm.store.GetSection(ctx, sectionID); err != nil {
		return nil, mapStoreErr(err)
	}

	versions, err := vm.store.ListVersions(ctx, sectionID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return versions, nil
}

// RevertToVersion creates a new draft carrying the target version's content.
// The version counter never rewinds: the new draft gets the next-highest
// number, keeping the history auditable.
func (vm *VersionManager) RevertToVersion(ctx context.Context, sectionID, targetVersionID int64, authorID string) (model.SectionVersion, error) {
	target, err := vm.store.GetVersion(ctx, targetVersionID)
	if err != nil {
		return model.SectionVersion{}, mapStoreErr(err)
	}
	if target.SectionID != sectionID {
		return model.SectionVersion{}, fmt.Errorf("%w: version %d does not belong to section %d",
			ErrNotFound, targetVersionID, sectionID)
	}

	summary := fmt.Sprintf("Reverted to version %d", target.VersionNumber)
	return vm.CreateDraft(ctx, sectionID, json.RawMessage(target.Content), authorID, summary)
}
