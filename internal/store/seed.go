// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitrine-cms/vitrine/internal/model"
)

// Seed populates a development database with a small catalog and a published
// hero + product carousel homepage. It is idempotent at the section level:
// if any section already exists for the locale, seeding is skipped entirely.
func Seed(ctx context.Context, s *SQLiteStore, locale string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if locale == "" {
		locale = "en"
	}

	existing, err := s.ListSectionsByLocale(ctx, locale)
	if err != nil {
		return fmt.Errorf("checking existing sections: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed skipped, sections already present", "locale", locale, "count", len(existing))
		return nil
	}

	now := time.Now().UTC()

	productIDs, err := seedCatalog(ctx, s)
	if err != nil {
		return err
	}

	if err := seedHero(ctx, s, locale, now); err != nil {
		return err
	}
	if err := seedCarousel(ctx, s, locale, now, productIDs); err != nil {
		return err
	}

	logger.Info("database seeded", "locale", locale, "products", len(productIDs))
	return nil
}

// seedCatalog inserts demo products and categories, returning the product ids.
func seedCatalog(ctx context.Context, s *SQLiteStore) ([]int64, error) {
	products := []struct {
		name     string
		slug     string
		priceCts int64
	}{
		{"Linen Throw Blanket", "linen-throw-blanket", 8900},
		{"Ceramic Pour-Over Set", "ceramic-pour-over-set", 6400},
		{"Walnut Serving Board", "walnut-serving-board", 4500},
		{"Stoneware Mug", "stoneware-mug", 2200},
	}

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		id, err := s.InsertProduct(ctx, model.Product{
			Name:     p.name,
			Slug:     p.slug,
			PriceCts: p.priceCts,
			Currency: "USD",
			ImageURL: sql.NullString{String: "/images/products/" + p.slug + ".jpg", Valid: true},
			IsActive: true,
		})
		if err != nil {
			return nil, fmt.Errorf("seeding product %q: %w", p.slug, err)
		}
		ids = append(ids, id)
	}

	categories := []struct {
		name string
		slug string
	}{
		{"Kitchen", "kitchen"},
		{"Living Room", "living-room"},
	}
	for _, c := range categories {
		if _, err := s.InsertCategory(ctx, model.Category{
			Name:     c.name,
			Slug:     c.slug,
			IsActive: true,
		}); err != nil {
			return nil, fmt.Errorf("seeding category %q: %w", c.slug, err)
		}
	}

	return ids, nil
}

// seedHero creates and publishes a hero section.
func seedHero(ctx context.Context, s *SQLiteStore, locale string, now time.Time) error {
	sec, err := s.CreateSection(ctx, CreateSectionParams{
		Type:         "hero",
		Key:          "autumn-hero",
		Name:         "Autumn Hero",
		Locale:       locale,
		DisplayOrder: 1,
		Metadata:     "{}",
		CreatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seeding hero section: %w", err)
	}

	v, err := s.CreateVersion(ctx, CreateVersionParams{
		SectionID:     sec.ID,
		Content:       `{"headline":"Make yourself at home","subheadline":"New arrivals for slow mornings","cta":{"label":"Shop now","href":"/collections/new"}}`,
		ChangeSummary: "Initial seed content",
		CreatedBy:     "seed",
		CreatedAt:     now,
	})
	if err != nil {
		return fmt.Errorf("seeding hero version: %w", err)
	}

	if _, err := s.PublishVersion(ctx, sec.ID, v.ID, now); err != nil {
		return fmt.Errorf("publishing hero version: %w", err)
	}
	return nil
}

// seedCarousel creates and publishes a product carousel linked to the seeded
// catalog.
func seedCarousel(ctx context.Context, s *SQLiteStore, locale string, now time.Time, productIDs []int64) error {
	sec, err := s.CreateSection(ctx, CreateSectionParams{
		Type:         "product_carousel",
		Key:          "new-arrivals",
		Name:         "New Arrivals",
		Locale:       locale,
		DisplayOrder: 2,
		Metadata:     "{}",
		CreatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seeding carousel section: %w", err)
	}

	v, err := s.CreateVersion(ctx, CreateVersionParams{
		SectionID:     sec.ID,
		Content:       `{"title":"New arrivals","layout":"scroll"}`,
		ChangeSummary: "Initial seed content",
		CreatedBy:     "seed",
		CreatedAt:     now,
	})
	if err != nil {
		return fmt.Errorf("seeding carousel version: %w", err)
	}

	if _, err := s.PublishVersion(ctx, sec.ID, v.ID, now); err != nil {
		return fmt.Errorf("publishing carousel version: %w", err)
	}

	items := make([]AssociationParams, 0, len(productIDs))
	for i, id := range productIDs {
		items = append(items, AssociationParams{
			TargetID:     id,
			DisplayOrder: int64(i + 1),
		})
	}
	if err := s.ReplaceSectionProducts(ctx, sec.ID, items); err != nil {
		return fmt.Errorf("seeding carousel products: %w", err)
	}
	return nil
}
