// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Schedule statuses
const (
	ScheduleStatusPending   = "pending"
	ScheduleStatusActive    = "active"
	ScheduleStatusExpired   = "expired"
	ScheduleStatusCancelled = "cancelled"
)

// Schedule is a time-bound instruction linking a section to a version with a
// planned transition. A schedule leaves pending exactly once (on publish) and
// leaves active exactly once (on expiry), or is cancelled before execution.
type Schedule struct {
	ID         int64         `json:"id"`
	SectionID  int64         `json:"section_id"`
	VersionID  sql.NullInt64 `json:"version_id"`
	PublishAt  sql.NullTime  `json:"publish_at"` // absent: already active, only watch expiry
	ExpireAt   sql.NullTime  `json:"expire_at"`
	Status     string        `json:"status"`
	ExecutedAt sql.NullTime  `json:"executed_at"`
	Notes      string        `json:"notes"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// IsPending returns true if the schedule still awaits its publish transition.
func (s *Schedule) IsPending() bool {
	return s.Status == ScheduleStatusPending
}

// IsActive returns true if the schedule has published and awaits expiry.
func (s *Schedule) IsActive() bool {
	return s.Status == ScheduleStatusActive
}

// IsTerminal returns true once no further transition can occur.
func (s *Schedule) IsTerminal() bool {
	return s.Status == ScheduleStatusExpired || s.Status == ScheduleStatusCancelled
}
