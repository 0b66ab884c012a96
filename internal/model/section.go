// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content engine's data types.
package model

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Section statuses
const (
	SectionStatusDraft     = "draft"
	SectionStatusPublished = "published"
	SectionStatusArchived  = "archived"
)

// Section types
const (
	SectionTypeHero            = "hero"
	SectionTypeProductCarousel = "product_carousel"
	SectionTypeCategoryGrid    = "category_grid"
	SectionTypeBanner          = "banner"
	SectionTypeText            = "text"
)

// SectionTypes lists all valid section types.
var SectionTypes = []string{
	SectionTypeHero,
	SectionTypeProductCarousel,
	SectionTypeCategoryGrid,
	SectionTypeBanner,
	SectionTypeText,
}

// IsValidSectionType reports whether t is a known section type.
func IsValidSectionType(t string) bool {
	for _, st := range SectionTypes {
		if st == t {
			return true
		}
	}
	return false
}

// Section represents a homepage content slot. Each section is independently
// versioned; the published-version pointer decides what end users see.
type Section struct {
	ID                 int64         `json:"id"`
	Type               string        `json:"type"`
	Key                string        `json:"key"` // unique within a locale
	Name               string        `json:"name"`
	Locale             string        `json:"locale"`
	DisplayOrder       int64         `json:"display_order"`
	IsActive           bool          `json:"is_active"`
	Status             string        `json:"status"`
	PublishedVersionID sql.NullInt64 `json:"published_version_id"` // null before first publish
	DraftVersionID     sql.NullInt64 `json:"draft_version_id"`     // set once edited
	Metadata           string        `json:"metadata"`             // JSON: styling hints, analytics tags
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// IsPublished returns true if the section is live.
func (s *Section) IsPublished() bool {
	return s.Status == SectionStatusPublished
}

// IsArchived returns true if the section has been archived.
func (s *Section) IsArchived() bool {
	return s.Status == SectionStatusArchived
}

// MetadataMap parses the metadata JSON into a map.
// Returns an empty map for empty or malformed metadata.
func (s *Section) MetadataMap() map[string]string {
	m := make(map[string]string)
	if s.Metadata == "" || s.Metadata == "{}" {
		return m
	}
	_ = json.Unmarshal([]byte(s.Metadata), &m)
	return m
}
