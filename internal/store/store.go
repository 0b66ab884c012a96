// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides durable storage for sections, versions, and
// schedules. The engine only depends on the Store interface so the same code
// runs against SQLite in production and the in-memory double in tests.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/vitrine-cms/vitrine/internal/model"
)

// Error represents a store error category.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates the referenced record does not exist, or a
	// version/schedule does not belong to the section named in the request.
	ErrNotFound Error = "record not found"

	// ErrConflict indicates a conditional update matched no rows because the
	// record was no longer in the expected state.
	ErrConflict Error = "conflicting state"

	// ErrUnavailable indicates the store could not complete a read or write.
	ErrUnavailable Error = "store unavailable"
)

// CreateSectionParams holds the fields for a new section.
type CreateSectionParams struct {
	Type         string
	Key          string
	Name         string
	Locale       string
	DisplayOrder int64
	Metadata     string
	CreatedAt    time.Time
}

// CreateVersionParams holds the fields for a new section version. The version
// number is allocated by the store (max existing + 1, starting at 1).
type CreateVersionParams struct {
	SectionID     int64
	Content       string
	ChangeSummary string
	CreatedBy     string
	CreatedAt     time.Time
}

// PublishResult reports the outcome of an atomic publish transition.
type PublishResult struct {
	VersionNumber    int64
	PublishedAt      time.Time
	AlreadyPublished bool
}

// CreateScheduleParams holds the fields for a new schedule.
type CreateScheduleParams struct {
	SectionID int64
	VersionID sql.NullInt64
	PublishAt sql.NullTime
	ExpireAt  sql.NullTime
	Status    string
	Notes     string
	CreatedAt time.Time
}

// AssociationParams describes one ordered association row.
type AssociationParams struct {
	TargetID      int64 // product or category id
	DisplayOrder  int64
	OverrideTitle sql.NullString
	OverrideImage sql.NullString
}

// ResolvedProduct is a product joined with its association row.
type ResolvedProduct struct {
	Product       model.Product
	DisplayOrder  int64
	OverrideTitle sql.NullString
	OverrideImage sql.NullString
}

// ResolvedCategory is a category joined with its association row.
type ResolvedCategory struct {
	Category      model.Category
	DisplayOrder  int64
	OverrideTitle sql.NullString
	OverrideImage sql.NullString
}

// CreateEventParams holds the fields for a new audit event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// Store is the transactional record store the content engine runs against.
// Every method that changes a section's published pointer or a schedule's
// status is a single atomic operation.
type Store interface {
	// Sections
	CreateSection(ctx context.Context, arg CreateSectionParams) (model.Section, error)
	GetSection(ctx context.Context, id int64) (model.Section, error)
	ListSectionsByLocale(ctx context.Context, locale string) ([]model.Section, error)
	ListPublishedSections(ctx context.Context, locale string) ([]model.Section, error)
	ReorderSections(ctx context.Context, locale string, orderedIDs []int64, now time.Time) error
	ArchiveSection(ctx context.Context, id int64, now time.Time) error

	// Versions
	CreateVersion(ctx context.Context, arg CreateVersionParams) (model.SectionVersion, error)
	GetVersion(ctx context.Context, id int64) (model.SectionVersion, error)
	ListVersions(ctx context.Context, sectionID int64, limit, offset int64) ([]model.SectionVersion, error)

	// PublishVersion marks the version published and flips the section's
	// published pointer in one transaction. Republishing the currently
	// published version is a no-op reporting the stored timestamp. A version
	// that was published but is no longer the live pointer yields ErrConflict.
	PublishVersion(ctx context.Context, sectionID, versionID int64, now time.Time) (PublishResult, error)

	// Schedules
	CreateSchedule(ctx context.Context, arg CreateScheduleParams) (model.Schedule, error)
	GetSchedule(ctx context.Context, id int64) (model.Schedule, error)
	ListSchedulesByStatus(ctx context.Context, status string) ([]model.Schedule, error)
	DuePendingSchedules(ctx context.Context, now time.Time) ([]model.Schedule, error)
	DueActiveSchedules(ctx context.Context, now time.Time) ([]model.Schedule, error)
	MarkScheduleActive(ctx context.Context, id int64, now time.Time) error
	MarkScheduleExpired(ctx context.Context, id int64, now time.Time) error
	CancelSchedule(ctx context.Context, id int64, now time.Time) error

	// Associations
	ReplaceSectionProducts(ctx context.Context, sectionID int64, items []AssociationParams) error
	ListSectionProducts(ctx context.Context, sectionID int64) ([]ResolvedProduct, error)
	ReplaceSectionCategories(ctx context.Context, sectionID int64, items []AssociationParams) error
	ListSectionCategories(ctx context.Context, sectionID int64) ([]ResolvedCategory, error)

	// Events
	CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
