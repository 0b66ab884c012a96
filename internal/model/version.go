// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// SectionVersion is an immutable content snapshot belonging to a section.
// Version numbers are strictly increasing per section; once IsPublished is
// true the content payload is frozen and edits create a new version instead.
type SectionVersion struct {
	ID            int64        `json:"id"`
	SectionID     int64        `json:"section_id"`
	VersionNumber int64        `json:"version_number"`
	Content       string       `json:"content"` // JSON payload, shape depends on section type
	ChangeSummary string       `json:"change_summary"`
	CreatedBy     string       `json:"created_by"`
	IsPublished   bool         `json:"is_published"`
	PublishedAt   sql.NullTime `json:"published_at,omitempty"` // null until published
	CreatedAt     time.Time    `json:"created_at"`
}
