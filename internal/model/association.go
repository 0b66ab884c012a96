// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "database/sql"

// Association rows are keyed to the section, not to a specific version: a
// draft edit to a product list is visible to renders as soon as it is saved.
// Versioning them with the content payload would be safer; the current shape
// mirrors how the admin tooling manages them.

// SectionProduct is an ordered section-to-product junction row with optional
// per-item display overrides.
type SectionProduct struct {
	ID            int64          `json:"id"`
	SectionID     int64          `json:"section_id"`
	ProductID     int64          `json:"product_id"`
	DisplayOrder  int64          `json:"display_order"`
	OverrideTitle sql.NullString `json:"override_title"`
	OverrideImage sql.NullString `json:"override_image"`
}

// SectionCategory is an ordered section-to-category junction row.
type SectionCategory struct {
	ID            int64          `json:"id"`
	SectionID     int64          `json:"section_id"`
	CategoryID    int64          `json:"category_id"`
	DisplayOrder  int64          `json:"display_order"`
	OverrideTitle sql.NullString `json:"override_title"`
	OverrideImage sql.NullString `json:"override_image"`
}

// Product is catalog reference data owned by the storefront; the engine only
// reads it to resolve associations.
type Product struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	PriceCts int64          `json:"price_cents"`
	Currency string         `json:"currency"`
	ImageURL sql.NullString `json:"image_url"`
	IsActive bool           `json:"is_active"`
}

// Category is catalog reference data owned by the storefront.
type Category struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	ImageURL sql.NullString `json:"image_url"`
	IsActive bool           `json:"is_active"`
}
