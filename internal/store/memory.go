// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vitrine-cms/vitrine/internal/model"
)

// MemoryStore is an in-memory Store implementation. It mirrors the SQLite
// store's transition semantics (a single mutex stands in for transactions)
// and is the test double the engine packages run against.
type MemoryStore struct {
	mu sync.Mutex

	sections  map[int64]model.Section
	versions  map[int64]model.SectionVersion
	schedules map[int64]model.Schedule
	products  map[int64]model.Product
	categorys map[int64]model.Category
	sectProds map[int64][]SectionProductRow
	sectCats  map[int64][]SectionCategoryRow
	events    []model.Event

	nextSectionID  int64
	nextVersionID  int64
	nextScheduleID int64
	nextProductID  int64
	nextCategoryID int64
	nextEventID    int64
}

// SectionProductRow is a stored product association.
type SectionProductRow struct {
	ProductID int64
	AssociationParams
}

// SectionCategoryRow is a stored category association.
type SectionCategoryRow struct {
	CategoryID int64
	AssociationParams
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sections:  make(map[int64]model.Section),
		versions:  make(map[int64]model.SectionVersion),
		schedules: make(map[int64]model.Schedule),
		products:  make(map[int64]model.Product),
		categorys: make(map[int64]model.Category),
		sectProds: make(map[int64][]SectionProductRow),
		sectCats:  make(map[int64][]SectionCategoryRow),
	}
}

// CreateSection inserts a new section in draft status.
func (m *MemoryStore) CreateSection(_ context.Context, arg CreateSectionParams) (model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sec := range m.sections {
		if sec.Locale == arg.Locale && sec.Key == arg.Key {
			return model.Section{}, fmt.Errorf("creating section: key %q exists in locale %q: %w",
				arg.Key, arg.Locale, ErrConflict)
		}
	}

	m.nextSectionID++
	sec := model.Section{
		ID:           m.nextSectionID,
		Type:         arg.Type,
		Key:          arg.Key,
		Name:         arg.Name,
		Locale:       arg.Locale,
		DisplayOrder: arg.DisplayOrder,
		IsActive:     true,
		Status:       model.SectionStatusDraft,
		Metadata:     arg.Metadata,
		CreatedAt:    arg.CreatedAt,
		UpdatedAt:    arg.CreatedAt,
	}
	m.sections[sec.ID] = sec
	return sec, nil
}

// GetSection fetches a section by id.
func (m *MemoryStore) GetSection(_ context.Context, id int64) (model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sec, ok := m.sections[id]
	if !ok {
		return model.Section{}, fmt.Errorf("getting section: %w", ErrNotFound)
	}
	return sec, nil
}

func sortSections(sections []model.Section) {
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].DisplayOrder != sections[j].DisplayOrder {
			return sections[i].DisplayOrder < sections[j].DisplayOrder
		}
		return sections[i].ID < sections[j].ID
	})
}

// ListSectionsByLocale returns all sections for a locale.
func (m *MemoryStore) ListSectionsByLocale(_ context.Context, locale string) ([]model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []model.Section
	for _, sec := range m.sections {
		if sec.Locale == locale {
			result = append(result, sec)
		}
	}
	sortSections(result)
	return result, nil
}

// ListPublishedSections returns the active, published sections for a locale.
func (m *MemoryStore) ListPublishedSections(_ context.Context, locale string) ([]model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []model.Section
	for _, sec := range m.sections {
		if sec.Locale == locale && sec.IsActive && sec.Status == model.SectionStatusPublished {
			result = append(result, sec)
		}
	}
	sortSections(result)
	return result, nil
}

// ReorderSections rewrites display order to match orderedIDs.
func (m *MemoryStore) ReorderSections(_ context.Context, locale string, orderedIDs []int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range orderedIDs {
		sec, ok := m.sections[id]
		if !ok || sec.Locale != locale {
			return fmt.Errorf("reordering sections: section %d: %w", id, ErrNotFound)
		}
	}
	for i, id := range orderedIDs {
		sec := m.sections[id]
		sec.DisplayOrder = int64(i)
		sec.UpdatedAt = now
		m.sections[id] = sec
	}
	return nil
}

// ArchiveSection sets the section status to archived.
func (m *MemoryStore) ArchiveSection(_ context.Context, id int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sec, ok := m.sections[id]
	if !ok {
		return fmt.Errorf("archiving section: %w", ErrNotFound)
	}
	sec.Status = model.SectionStatusArchived
	sec.UpdatedAt = now
	m.sections[id] = sec
	return nil
}

// CreateVersion allocates the next version number and updates the draft pointer.
func (m *MemoryStore) CreateVersion(_ context.Context, arg CreateVersionParams) (model.SectionVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sec, ok := m.sections[arg.SectionID]
	if !ok {
		return model.SectionVersion{}, fmt.Errorf("creating version: %w", ErrNotFound)
	}

	var maxNum int64
	for _, v := range m.versions {
		if v.SectionID == arg.SectionID && v.VersionNumber > maxNum {
			maxNum = v.VersionNumber
		}
	}

	m.nextVersionID++
	v := model.SectionVersion{
		ID:            m.nextVersionID,
		SectionID:     arg.SectionID,
		VersionNumber: maxNum + 1,
		Content:       arg.Content,
		ChangeSummary: arg.ChangeSummary,
		CreatedBy:     arg.CreatedBy,
		CreatedAt:     arg.CreatedAt,
	}
	m.versions[v.ID] = v

	sec.DraftVersionID.Int64 = v.ID
	sec.DraftVersionID.Valid = true
	sec.UpdatedAt = arg.CreatedAt
	m.sections[sec.ID] = sec

	return v, nil
}

// GetVersion fetches a version by id.
func (m *MemoryStore) GetVersion(_ context.Context, id int64) (model.SectionVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.versions[id]
	if !ok {
		return model.SectionVersion{}, fmt.Errorf("getting version: %w", ErrNotFound)
	}
	return v, nil
}

// ListVersions returns versions for a section, newest first.
func (m *MemoryStore) ListVersions(_ context.Context, sectionID int64, limit, offset int64) ([]model.SectionVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []model.SectionVersion
	for _, v := range m.versions {
		if v.SectionID == sectionID {
			all = append(all, v)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].VersionNumber > all[j].VersionNumber
	})

	if offset >= int64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

// PublishVersion implements the atomic publish transition under the mutex.
func (m *MemoryStore) PublishVersion(_ context.Context, sectionID, versionID int64, now time.Time) (PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.versions[versionID]
	if !ok || v.SectionID != sectionID {
		return PublishResult{}, fmt.Errorf("publishing version: %w", ErrNotFound)
	}
	sec, ok := m.sections[sectionID]
	if !ok {
		return PublishResult{}, fmt.Errorf("publishing version: %w", ErrNotFound)
	}

	if v.IsPublished {
		if sec.PublishedVersionID.Valid && sec.PublishedVersionID.Int64 == versionID {
			return PublishResult{
				VersionNumber:    v.VersionNumber,
				PublishedAt:      v.PublishedAt.Time,
				AlreadyPublished: true,
			}, nil
		}
		return PublishResult{}, fmt.Errorf("publishing version: version %d already superseded: %w",
			versionID, ErrConflict)
	}

	v.IsPublished = true
	v.PublishedAt.Time = now
	v.PublishedAt.Valid = true
	m.versions[v.ID] = v

	sec.PublishedVersionID.Int64 = versionID
	sec.PublishedVersionID.Valid = true
	sec.Status = model.SectionStatusPublished
	sec.UpdatedAt = now
	m.sections[sec.ID] = sec

	return PublishResult{VersionNumber: v.VersionNumber, PublishedAt: now}, nil
}

// CreateSchedule inserts a new schedule.
func (m *MemoryStore) CreateSchedule(_ context.Context, arg CreateScheduleParams) (model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextScheduleID++
	sch := model.Schedule{
		ID:        m.nextScheduleID,
		SectionID: arg.SectionID,
		VersionID: arg.VersionID,
		PublishAt: arg.PublishAt,
		ExpireAt:  arg.ExpireAt,
		Status:    arg.Status,
		Notes:     arg.Notes,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.CreatedAt,
	}
	m.schedules[sch.ID] = sch
	return sch, nil
}

// GetSchedule fetches a schedule by id.
func (m *MemoryStore) GetSchedule(_ context.Context, id int64) (model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sch, ok := m.schedules[id]
	if !ok {
		return model.Schedule{}, fmt.Errorf("getting schedule: %w", ErrNotFound)
	}
	return sch, nil
}

// ListSchedulesByStatus returns schedules in the given status.
func (m *MemoryStore) ListSchedulesByStatus(_ context.Context, status string) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []model.Schedule
	for _, sch := range m.schedules {
		if sch.Status == status {
			result = append(result, sch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DuePendingSchedules returns pending schedules due for publishing.
func (m *MemoryStore) DuePendingSchedules(_ context.Context, now time.Time) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []model.Schedule
	for _, sch := range m.schedules {
		if sch.Status == model.ScheduleStatusPending && sch.VersionID.Valid &&
			sch.PublishAt.Valid && !sch.PublishAt.Time.After(now) {
			result = append(result, sch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DueActiveSchedules returns active schedules due for expiry.
func (m *MemoryStore) DueActiveSchedules(_ context.Context, now time.Time) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []model.Schedule
	for _, sch := range m.schedules {
		if sch.Status == model.ScheduleStatusActive &&
			sch.ExpireAt.Valid && !sch.ExpireAt.Time.After(now) {
			result = append(result, sch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MemoryStore) markSchedule(op string, id int64, from, to string, now time.Time, stampExecuted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sch, ok := m.schedules[id]
	if !ok || sch.Status != from {
		return fmt.Errorf("%s: schedule %d: %w", op, id, ErrConflict)
	}
	sch.Status = to
	if stampExecuted && !sch.ExecutedAt.Valid {
		sch.ExecutedAt.Time = now
		sch.ExecutedAt.Valid = true
	}
	sch.UpdatedAt = now
	m.schedules[id] = sch
	return nil
}

// MarkScheduleActive transitions pending -> active and stamps executed_at.
func (m *MemoryStore) MarkScheduleActive(_ context.Context, id int64, now time.Time) error {
	return m.markSchedule("activating schedule", id,
		model.ScheduleStatusPending, model.ScheduleStatusActive, now, true)
}

// MarkScheduleExpired transitions active -> expired.
func (m *MemoryStore) MarkScheduleExpired(_ context.Context, id int64, now time.Time) error {
	return m.markSchedule("expiring schedule", id,
		model.ScheduleStatusActive, model.ScheduleStatusExpired, now, true)
}

// CancelSchedule transitions pending -> cancelled.
func (m *MemoryStore) CancelSchedule(_ context.Context, id int64, now time.Time) error {
	return m.markSchedule("cancelling schedule", id,
		model.ScheduleStatusPending, model.ScheduleStatusCancelled, now, false)
}

// ReplaceSectionProducts replaces the section's product associations.
func (m *MemoryStore) ReplaceSectionProducts(_ context.Context, sectionID int64, items []AssociationParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sections[sectionID]; !ok {
		return fmt.Errorf("replacing associations: %w", ErrNotFound)
	}
	rows := make([]SectionProductRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, SectionProductRow{ProductID: item.TargetID, AssociationParams: item})
	}
	m.sectProds[sectionID] = rows
	return nil
}

// ReplaceSectionCategories replaces the section's category associations.
func (m *MemoryStore) ReplaceSectionCategories(_ context.Context, sectionID int64, items []AssociationParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sections[sectionID]; !ok {
		return fmt.Errorf("replacing associations: %w", ErrNotFound)
	}
	rows := make([]SectionCategoryRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, SectionCategoryRow{CategoryID: item.TargetID, AssociationParams: item})
	}
	m.sectCats[sectionID] = rows
	return nil
}

// ListSectionProducts returns the section's products in display order.
func (m *MemoryStore) ListSectionProducts(_ context.Context, sectionID int64) ([]ResolvedProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := append([]SectionProductRow(nil), m.sectProds[sectionID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].DisplayOrder < rows[j].DisplayOrder })

	var result []ResolvedProduct
	for _, row := range rows {
		p, ok := m.products[row.ProductID]
		if !ok {
			continue
		}
		result = append(result, ResolvedProduct{
			Product:       p,
			DisplayOrder:  row.DisplayOrder,
			OverrideTitle: row.OverrideTitle,
			OverrideImage: row.OverrideImage,
		})
	}
	return result, nil
}

// ListSectionCategories returns the section's categories in display order.
func (m *MemoryStore) ListSectionCategories(_ context.Context, sectionID int64) ([]ResolvedCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := append([]SectionCategoryRow(nil), m.sectCats[sectionID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].DisplayOrder < rows[j].DisplayOrder })

	var result []ResolvedCategory
	for _, row := range rows {
		c, ok := m.categorys[row.CategoryID]
		if !ok {
			continue
		}
		result = append(result, ResolvedCategory{
			Category:      c,
			DisplayOrder:  row.DisplayOrder,
			OverrideTitle: row.OverrideTitle,
			OverrideImage: row.OverrideImage,
		})
	}
	return result, nil
}

// CreateEvent records an audit event.
func (m *MemoryStore) CreateEvent(_ context.Context, arg CreateEventParams) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEventID++
	ev := model.Event{
		ID:        m.nextEventID,
		Level:     arg.Level,
		Category:  arg.Category,
		Message:   arg.Message,
		Metadata:  arg.Metadata,
		CreatedAt: arg.CreatedAt,
	}
	m.events = append(m.events, ev)
	return ev, nil
}

// Events returns all recorded events. Test helper.
func (m *MemoryStore) Events() []model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Event(nil), m.events...)
}

// InsertProduct adds a catalog product.
func (m *MemoryStore) InsertProduct(_ context.Context, p model.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProductID++
	p.ID = m.nextProductID
	m.products[p.ID] = p
	return p.ID, nil
}

// InsertCategory adds a catalog category.
func (m *MemoryStore) InsertCategory(_ context.Context, c model.Category) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCategoryID++
	c.ID = m.nextCategoryID
	m.categorys[c.ID] = c
	return c.ID, nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
