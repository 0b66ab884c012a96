// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
	"github.com/vitrine-cms/vitrine/internal/util"
)

// CreateSectionInput is the admin input for a new section.
type CreateSectionInput struct {
	Type         string            `json:"type"`
	Name         string            `json:"name"`
	Locale       string            `json:"locale"`
	DisplayOrder int64             `json:"display_order"`
	Metadata     map[string]string `json:"metadata"`
}

// AssociationInput is one item of a replace-set association update.
type AssociationInput struct {
	ID            int64  `json:"id"` // product or category id
	DisplayOrder  int64  `json:"display_order"`
	OverrideTitle string `json:"override_title"`
	OverrideImage string `json:"override_image"`
}

// SectionManager covers the admin-facing section operations that feed the
// versioning engine: creation, listing, reordering, and association edits.
type SectionManager struct {
	store       store.Store
	invalidator Invalidator
	logger      *slog.Logger
	clock       Clock
	sanitizer   *bluemonday.Policy
}

// NewSectionManager creates a SectionManager.
func NewSectionManager(st store.Store, inv Invalidator, logger *slog.Logger, clock Clock) *SectionManager {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &SectionManager{
		store:       st,
		invalidator: inv,
		logger:      logger,
		clock:       clock,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// CreateSection creates a draft section. The section key is derived from the
// name and must be unique within the locale; a collision surfaces as
// ErrInvalidState.
func (sm *SectionManager) CreateSection(ctx context.Context, in CreateSectionInput) (model.Section, error) {
	if !model.IsValidSectionType(in.Type) {
		return model.Section{}, fmt.Errorf("%w: unknown section type %q", ErrInvalidState, in.Type)
	}
	if in.Name == "" {
		return model.Section{}, fmt.Errorf("%w: section name is required", ErrInvalidState)
	}
	if in.Locale == "" {
		return model.Section{}, fmt.Errorf("%w: locale is required", ErrInvalidState)
	}

	key := util.Slugify(in.Name)
	if key == "" {
		return model.Section{}, fmt.Errorf("%w: section name %q yields an empty key", ErrInvalidState, in.Name)
	}

	metadata := "{}"
	if len(in.Metadata) > 0 {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return model.Section{}, fmt.Errorf("%w: metadata not serializable", ErrInvalidState)
		}
		metadata = string(raw)
	}

	sec, err := sm.store.CreateSection(ctx, store.CreateSectionParams{
		Type:         in.Type,
		Key:          key,
		Name:         sm.sanitizer.Sanitize(in.Name),
		Locale:       in.Locale,
		DisplayOrder: in.DisplayOrder,
		Metadata:     metadata,
		CreatedAt:    sm.clock(),
	})
	if err != nil {
		return model.Section{}, mapStoreErr(err)
	}

	sm.logger.Info("section created",
		"category", model.EventCategorySection,
		"section_id", sec.ID,
		"key", sec.Key,
		"locale", sec.Locale,
	)
	return sec, nil
}

// GetSection returns a section by id.
func (sm *SectionManager) GetSection(ctx context.Context, id int64) (model.Section, error) {
	sec, err := sm.store.GetSection(ctx, id)
	if err != nil {
		return model.Section{}, mapStoreErr(err)
	}
	return sec, nil
}

// ListSections returns all sections for a locale, drafts and archived
// included, ordered by display order then id.
func (sm *SectionManager) ListSections(ctx context.Context, locale string) ([]model.Section, error) {
	sections, err := sm.store.ListSectionsByLocale(ctx, locale)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sections, nil
}

// Reorder applies a batch display-order update: orderedIDs is the full
// desired order for the locale. Unknown ids surface as ErrNotFound and the
// whole update rolls back.
func (sm *SectionManager) Reorder(ctx context.Context, locale string, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return fmt.Errorf("%w: section_ids must not be empty", ErrInvalidState)
	}
	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return fmt.Errorf("%w: duplicate section id %d", ErrInvalidState, id)
		}
		seen[id] = true
	}

	if err := sm.store.ReorderSections(ctx, locale, orderedIDs, sm.clock()); err != nil {
		return mapStoreErr(err)
	}

	sm.logger.Info("sections reordered",
		"category", model.EventCategorySection,
		"locale", locale,
		"count", len(orderedIDs),
	)

	if sm.invalidator != nil {
		if err := sm.invalidator.OnReorder(ctx, locale); err != nil {
			sm.logger.Error("cache invalidation failed after reorder",
				"category", model.EventCategoryCache,
				"locale", locale,
				"error", err,
			)
		}
	}
	return nil
}

// SetProducts replaces the section's product associations. Override titles
// are sanitized; ordering within the input is preserved via display_order.
func (sm *SectionManager) SetProducts(ctx context.Context, sectionID int64, items []AssociationInput) error {
	sec, err := sm.store.GetSection(ctx, sectionID)
	if err != nil {
		return mapStoreErr(err)
	}

	if err := sm.store.ReplaceSectionProducts(ctx, sectionID, sm.toParams(items)); err != nil {
		return mapStoreErr(err)
	}

	sm.logger.Info("section products replaced",
		"category", model.EventCategorySection,
		"section_id", sectionID,
		"count", len(items),
	)
	sm.invalidateAssociations(ctx, sec)
	return nil
}

// SetCategories replaces the section's category associations.
func (sm *SectionManager) SetCategories(ctx context.Context, sectionID int64, items []AssociationInput) error {
	sec, err := sm.store.GetSection(ctx, sectionID)
	if err != nil {
		return mapStoreErr(err)
	}

	if err := sm.store.ReplaceSectionCategories(ctx, sectionID, sm.toParams(items)); err != nil {
		return mapStoreErr(err)
	}

	sm.logger.Info("section categories replaced",
		"category", model.EventCategorySection,
		"section_id", sectionID,
		"count", len(items),
	)
	sm.invalidateAssociations(ctx, sec)
	return nil
}

func (sm *SectionManager) toParams(items []AssociationInput) []store.AssociationParams {
	params := make([]store.AssociationParams, 0, len(items))
	for _, it := range items {
		p := store.AssociationParams{
			TargetID:     it.ID,
			DisplayOrder: it.DisplayOrder,
		}
		if it.OverrideTitle != "" {
			p.OverrideTitle = sql.NullString{String: sm.sanitizer.Sanitize(it.OverrideTitle), Valid: true}
		}
		if it.OverrideImage != "" {
			p.OverrideImage = sql.NullString{String: it.OverrideImage, Valid: true}
		}
		params = append(params, p)
	}
	return params
}

// invalidateAssociations purges after an association edit. Associations are
// not versioned, so an edit to a published section is immediately visible and
// the public entry must go too; OnPublish carries exactly that key set.
func (sm *SectionManager) invalidateAssociations(ctx context.Context, sec model.Section) {
	if sm.invalidator == nil {
		return
	}
	var err error
	if sec.IsPublished() {
		err = sm.invalidator.OnPublish(ctx, sec.ID, sec.Locale)
	} else {
		err = sm.invalidator.OnDraftUpdate(ctx, sec.ID, sec.Locale)
	}
	if err != nil {
		sm.logger.Error("cache invalidation failed after association update",
			"category", model.EventCategoryCache,
			"section_id", sec.ID,
			"error", err,
		)
	}
}
