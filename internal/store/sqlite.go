// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitrine-cms/vitrine/internal/model"
)

// SQLiteStore implements Store on top of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store backed by the given database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// DB returns the underlying database handle.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// wrapErr maps driver errors to the store error categories.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const sectionColumns = `id, type, key, name, locale, display_order, is_active, status,
	published_version_id, draft_version_id, metadata, created_at, updated_at`

func scanSection(row interface{ Scan(...any) error }) (model.Section, error) {
	var sec model.Section
	err := row.Scan(&sec.ID, &sec.Type, &sec.Key, &sec.Name, &sec.Locale,
		&sec.DisplayOrder, &sec.IsActive, &sec.Status,
		&sec.PublishedVersionID, &sec.DraftVersionID, &sec.Metadata,
		&sec.CreatedAt, &sec.UpdatedAt)
	return sec, err
}

// CreateSection inserts a new section in draft status.
func (s *SQLiteStore) CreateSection(ctx context.Context, arg CreateSectionParams) (model.Section, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sections (type, key, name, locale, display_order, is_active, status, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?)`,
		arg.Type, arg.Key, arg.Name, arg.Locale, arg.DisplayOrder,
		model.SectionStatusDraft, arg.Metadata, arg.CreatedAt, arg.CreatedAt)
	if err != nil {
		return model.Section{}, wrapErr("creating section", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Section{}, wrapErr("creating section", err)
	}
	return s.GetSection(ctx, id)
}

// GetSection fetches a section by id.
func (s *SQLiteStore) GetSection(ctx context.Context, id int64) (model.Section, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)
	sec, err := scanSection(row)
	if err != nil {
		return model.Section{}, wrapErr("getting section", err)
	}
	return sec, nil
}

// ListSectionsByLocale returns all sections for a locale regardless of status,
// ordered by display order then id.
func (s *SQLiteStore) ListSectionsByLocale(ctx context.Context, locale string) ([]model.Section, error) {
	return s.querySections(ctx, `
		SELECT `+sectionColumns+` FROM sections
		WHERE locale = ?
		ORDER BY display_order, id`, locale)
}

// ListPublishedSections returns the active, published sections for a locale.
// Ordering is display order with id as tie-breaker for determinism.
func (s *SQLiteStore) ListPublishedSections(ctx context.Context, locale string) ([]model.Section, error) {
	return s.querySections(ctx, `
		SELECT `+sectionColumns+` FROM sections
		WHERE locale = ? AND is_active = 1 AND status = ?
		ORDER BY display_order, id`, locale, model.SectionStatusPublished)
}

func (s *SQLiteStore) querySections(ctx context.Context, query string, args ...any) ([]model.Section, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("listing sections", err)
	}
	defer func() { _ = rows.Close() }()

	var sections []model.Section
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, wrapErr("listing sections", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing sections", err)
	}
	return sections, nil
}

// ReorderSections rewrites display order to match orderedIDs within a locale.
func (s *SQLiteStore) ReorderSections(ctx context.Context, locale string, orderedIDs []int64, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("reordering sections", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, id := range orderedIDs {
		res, err := tx.ExecContext(ctx, `
			UPDATE sections SET display_order = ?, updated_at = ?
			WHERE id = ? AND locale = ?`, int64(i), now, id, locale)
		if err != nil {
			return wrapErr("reordering sections", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return wrapErr("reordering sections", err)
		}
		if n == 0 {
			return fmt.Errorf("reordering sections: section %d: %w", id, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("reordering sections", err)
	}
	return nil
}

// ArchiveSection sets the section status to archived. The published-version
// pointer is left intact for history.
func (s *SQLiteStore) ArchiveSection(ctx context.Context, id int64, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sections SET status = ?, updated_at = ? WHERE id = ?`,
		model.SectionStatusArchived, now, id)
	if err != nil {
		return wrapErr("archiving section", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("archiving section", err)
	}
	if n == 0 {
		return fmt.Errorf("archiving section: %w", ErrNotFound)
	}
	return nil
}

const versionColumns = `id, section_id, version_number, content, change_summary,
	created_by, is_published, published_at, created_at`

func scanVersion(row interface{ Scan(...any) error }) (model.SectionVersion, error) {
	var v model.SectionVersion
	err := row.Scan(&v.ID, &v.SectionID, &v.VersionNumber, &v.Content,
		&v.ChangeSummary, &v.CreatedBy, &v.IsPublished, &v.PublishedAt, &v.CreatedAt)
	return v, err
}

// CreateVersion allocates the next version number for the section, inserts the
// snapshot, and updates the section's draft pointer, all in one transaction.
func (s *SQLiteStore) CreateVersion(ctx context.Context, arg CreateVersionParams) (model.SectionVersion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}
	defer func() { _ = tx.Rollback() }()

	var sectionID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM sections WHERE id = ?`, arg.SectionID).Scan(&sectionID); err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}

	var next int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version_number), 0) + 1 FROM section_versions WHERE section_id = ?`,
		arg.SectionID).Scan(&next); err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO section_versions (section_id, version_number, content, change_summary, created_by, is_published, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		arg.SectionID, next, arg.Content, arg.ChangeSummary, arg.CreatedBy, arg.CreatedAt)
	if err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE sections SET draft_version_id = ?, updated_at = ? WHERE id = ?`,
		id, arg.CreatedAt, arg.SectionID); err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}

	row := tx.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM section_versions WHERE id = ?`, id)
	v, err := scanVersion(row)
	if err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}

	if err := tx.Commit(); err != nil {
		return model.SectionVersion{}, wrapErr("creating version", err)
	}
	return v, nil
}

// GetVersion fetches a version by id.
func (s *SQLiteStore) GetVersion(ctx context.Context, id int64) (model.SectionVersion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM section_versions WHERE id = ?`, id)
	v, err := scanVersion(row)
	if err != nil {
		return model.SectionVersion{}, wrapErr("getting version", err)
	}
	return v, nil
}

// ListVersions returns versions for a section, newest first.
func (s *SQLiteStore) ListVersions(ctx context.Context, sectionID int64, limit, offset int64) ([]model.SectionVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+` FROM section_versions
		WHERE section_id = ?
		ORDER BY version_number DESC
		LIMIT ? OFFSET ?`, sectionID, limit, offset)
	if err != nil {
		return nil, wrapErr("listing versions", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []model.SectionVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, wrapErr("listing versions", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing versions", err)
	}
	return versions, nil
}

// PublishVersion implements the atomic publish transition. Readers never
// observe a published section pointing at a non-published version.
func (s *SQLiteStore) PublishVersion(ctx context.Context, sectionID, versionID int64, now time.Time) (PublishResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PublishResult{}, wrapErr("publishing version", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM section_versions WHERE id = ?`, versionID)
	v, err := scanVersion(row)
	if err != nil {
		return PublishResult{}, wrapErr("publishing version", err)
	}
	if v.SectionID != sectionID {
		return PublishResult{}, fmt.Errorf("publishing version: version %d does not belong to section %d: %w",
			versionID, sectionID, ErrNotFound)
	}

	row = tx.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM sections WHERE id = ?`, sectionID)
	sec, err := scanSection(row)
	if err != nil {
		return PublishResult{}, wrapErr("publishing version", err)
	}

	if v.IsPublished {
		if sec.PublishedVersionID.Valid && sec.PublishedVersionID.Int64 == versionID {
			// Idempotent republish: report the stored timestamp.
			return PublishResult{
				VersionNumber:    v.VersionNumber,
				PublishedAt:      v.PublishedAt.Time,
				AlreadyPublished: true,
			}, nil
		}
		return PublishResult{}, fmt.Errorf("publishing version: version %d already superseded: %w",
			versionID, ErrConflict)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE section_versions SET is_published = 1, published_at = ?
		WHERE id = ? AND is_published = 0`, now, versionID)
	if err != nil {
		return PublishResult{}, wrapErr("publishing version", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return PublishResult{}, wrapErr("publishing version", err)
	}
	if n == 0 {
		return PublishResult{}, fmt.Errorf("publishing version: %w", ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE sections SET published_version_id = ?, status = ?, updated_at = ?
		WHERE id = ?`, versionID, model.SectionStatusPublished, now, sectionID); err != nil {
		return PublishResult{}, wrapErr("publishing version", err)
	}

	if err := tx.Commit(); err != nil {
		return PublishResult{}, wrapErr("publishing version", err)
	}
	return PublishResult{VersionNumber: v.VersionNumber, PublishedAt: now}, nil
}

const scheduleColumns = `id, section_id, version_id, publish_at, expire_at,
	status, executed_at, notes, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (model.Schedule, error) {
	var sch model.Schedule
	err := row.Scan(&sch.ID, &sch.SectionID, &sch.VersionID, &sch.PublishAt,
		&sch.ExpireAt, &sch.Status, &sch.ExecutedAt, &sch.Notes,
		&sch.CreatedAt, &sch.UpdatedAt)
	return sch, err
}

// CreateSchedule inserts a new schedule.
func (s *SQLiteStore) CreateSchedule(ctx context.Context, arg CreateScheduleParams) (model.Schedule, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules (section_id, version_id, publish_at, expire_at, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.SectionID, arg.VersionID, arg.PublishAt, arg.ExpireAt, arg.Status,
		arg.Notes, arg.CreatedAt, arg.CreatedAt)
	if err != nil {
		return model.Schedule{}, wrapErr("creating schedule", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Schedule{}, wrapErr("creating schedule", err)
	}
	return s.GetSchedule(ctx, id)
}

// GetSchedule fetches a schedule by id.
func (s *SQLiteStore) GetSchedule(ctx context.Context, id int64) (model.Schedule, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	sch, err := scanSchedule(row)
	if err != nil {
		return model.Schedule{}, wrapErr("getting schedule", err)
	}
	return sch, nil
}

// ListSchedulesByStatus returns schedules in the given status, oldest first.
func (s *SQLiteStore) ListSchedulesByStatus(ctx context.Context, status string) ([]model.Schedule, error) {
	return s.querySchedules(ctx, `
		SELECT `+scheduleColumns+` FROM schedules WHERE status = ? ORDER BY id`, status)
}

// DuePendingSchedules returns pending schedules whose publish time has
// arrived and whose target version is set.
func (s *SQLiteStore) DuePendingSchedules(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	return s.querySchedules(ctx, `
		SELECT `+scheduleColumns+` FROM schedules
		WHERE status = ? AND version_id IS NOT NULL AND publish_at IS NOT NULL AND publish_at <= ?
		ORDER BY publish_at, id`, model.ScheduleStatusPending, now)
}

// DueActiveSchedules returns active schedules whose expiry time has arrived.
func (s *SQLiteStore) DueActiveSchedules(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	return s.querySchedules(ctx, `
		SELECT `+scheduleColumns+` FROM schedules
		WHERE status = ? AND expire_at IS NOT NULL AND expire_at <= ?
		ORDER BY expire_at, id`, model.ScheduleStatusActive, now)
}

func (s *SQLiteStore) querySchedules(ctx context.Context, query string, args ...any) ([]model.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("listing schedules", err)
	}
	defer func() { _ = rows.Close() }()

	var schedules []model.Schedule
	for rows.Next() {
		sch, err := scanSchedule(rows)
		if err != nil {
			return nil, wrapErr("listing schedules", err)
		}
		schedules = append(schedules, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing schedules", err)
	}
	return schedules, nil
}

// markSchedule performs a conditional status transition; ErrConflict means the
// schedule was no longer in the expected status (another sweep got there
// first, or it was cancelled).
func (s *SQLiteStore) markSchedule(ctx context.Context, op string, id int64, from, to string, now time.Time, stampExecuted bool) error {
	query := `UPDATE schedules SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	args := []any{to, now, id, from}
	if stampExecuted {
		query = `UPDATE schedules SET status = ?, executed_at = COALESCE(executed_at, ?), updated_at = ?
			WHERE id = ? AND status = ?`
		args = []any{to, now, now, id, from}
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: schedule %d: %w", op, id, ErrConflict)
	}
	return nil
}

// MarkScheduleActive transitions pending -> active and stamps executed_at.
func (s *SQLiteStore) MarkScheduleActive(ctx context.Context, id int64, now time.Time) error {
	return s.markSchedule(ctx, "activating schedule", id,
		model.ScheduleStatusPending, model.ScheduleStatusActive, now, true)
}

// MarkScheduleExpired transitions active -> expired.
func (s *SQLiteStore) MarkScheduleExpired(ctx context.Context, id int64, now time.Time) error {
	return s.markSchedule(ctx, "expiring schedule", id,
		model.ScheduleStatusActive, model.ScheduleStatusExpired, now, true)
}

// CancelSchedule transitions pending -> cancelled. Schedules that already
// executed their publish cannot be cancelled.
func (s *SQLiteStore) CancelSchedule(ctx context.Context, id int64, now time.Time) error {
	return s.markSchedule(ctx, "cancelling schedule", id,
		model.ScheduleStatusPending, model.ScheduleStatusCancelled, now, false)
}

// ReplaceSectionProducts replaces the section's product associations.
func (s *SQLiteStore) ReplaceSectionProducts(ctx context.Context, sectionID int64, items []AssociationParams) error {
	return s.replaceAssociations(ctx, "section_products", "product_id", sectionID, items)
}

// ReplaceSectionCategories replaces the section's category associations.
func (s *SQLiteStore) ReplaceSectionCategories(ctx context.Context, sectionID int64, items []AssociationParams) error {
	return s.replaceAssociations(ctx, "section_categories", "category_id", sectionID, items)
}

func (s *SQLiteStore) replaceAssociations(ctx context.Context, table, targetCol string, sectionID int64, items []AssociationParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("replacing associations", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM sections WHERE id = ?`, sectionID).Scan(&id); err != nil {
		return wrapErr("replacing associations", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE section_id = ?`, sectionID); err != nil {
		return wrapErr("replacing associations", err)
	}

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO `+table+` (section_id, `+targetCol+`, display_order, override_title, override_image)
			VALUES (?, ?, ?, ?, ?)`,
			sectionID, item.TargetID, item.DisplayOrder, item.OverrideTitle, item.OverrideImage); err != nil {
			return wrapErr("replacing associations", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("replacing associations", err)
	}
	return nil
}

// ListSectionProducts returns the section's products in display order with
// their per-item overrides.
func (s *SQLiteStore) ListSectionProducts(ctx context.Context, sectionID int64) ([]ResolvedProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.slug, p.price_cents, p.currency, p.image_url, p.is_active,
		       sp.display_order, sp.override_title, sp.override_image
		FROM section_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.section_id = ?
		ORDER BY sp.display_order, sp.id`, sectionID)
	if err != nil {
		return nil, wrapErr("listing section products", err)
	}
	defer func() { _ = rows.Close() }()

	var result []ResolvedProduct
	for rows.Next() {
		var rp ResolvedProduct
		if err := rows.Scan(&rp.Product.ID, &rp.Product.Name, &rp.Product.Slug,
			&rp.Product.PriceCts, &rp.Product.Currency, &rp.Product.ImageURL, &rp.Product.IsActive,
			&rp.DisplayOrder, &rp.OverrideTitle, &rp.OverrideImage); err != nil {
			return nil, wrapErr("listing section products", err)
		}
		result = append(result, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing section products", err)
	}
	return result, nil
}

// ListSectionCategories returns the section's categories in display order.
func (s *SQLiteStore) ListSectionCategories(ctx context.Context, sectionID int64) ([]ResolvedCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.image_url, c.is_active,
		       sc.display_order, sc.override_title, sc.override_image
		FROM section_categories sc
		JOIN categories c ON c.id = sc.category_id
		WHERE sc.section_id = ?
		ORDER BY sc.display_order, sc.id`, sectionID)
	if err != nil {
		return nil, wrapErr("listing section categories", err)
	}
	defer func() { _ = rows.Close() }()

	var result []ResolvedCategory
	for rows.Next() {
		var rc ResolvedCategory
		if err := rows.Scan(&rc.Category.ID, &rc.Category.Name, &rc.Category.Slug,
			&rc.Category.ImageURL, &rc.Category.IsActive,
			&rc.DisplayOrder, &rc.OverrideTitle, &rc.OverrideImage); err != nil {
			return nil, wrapErr("listing section categories", err)
		}
		result = append(result, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing section categories", err)
	}
	return result, nil
}

// CreateEvent inserts an audit event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	if err != nil {
		return model.Event{}, wrapErr("creating event", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, wrapErr("creating event", err)
	}
	return model.Event{
		ID:        id,
		Level:     arg.Level,
		Category:  arg.Category,
		Message:   arg.Message,
		Metadata:  arg.Metadata,
		CreatedAt: arg.CreatedAt,
	}, nil
}

// InsertProduct adds a catalog product. Used by seeding; catalog data is
// otherwise owned by the storefront.
func (s *SQLiteStore) InsertProduct(ctx context.Context, p model.Product) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, slug, price_cents, currency, image_url, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Slug, p.PriceCts, p.Currency, p.ImageURL, p.IsActive)
	if err != nil {
		return 0, wrapErr("inserting product", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("inserting product", err)
	}
	return id, nil
}

// InsertCategory adds a catalog category. Used by seeding.
func (s *SQLiteStore) InsertCategory(ctx context.Context, c model.Category) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, slug, image_url, is_active)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Slug, c.ImageURL, c.IsActive)
	if err != nil {
		return 0, wrapErr("inserting category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("inserting category", err)
	}
	return id, nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return wrapErr("pinging store", err)
	}
	return nil
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
