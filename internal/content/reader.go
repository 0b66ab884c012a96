// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vitrine-cms/vitrine/internal/cache"
	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

// ResolvedItem is one catalog item attached to a section, with association
// overrides already applied.
type ResolvedItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url,omitempty"`
	PriceCts int64  `json:"price_cents,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// ResolvedSection is one section of the assembled homepage: the published
// content payload plus resolved associations.
type ResolvedSection struct {
	ID           int64             `json:"id"`
	Type         string            `json:"type"`
	Key          string            `json:"key"`
	Name         string            `json:"name"`
	DisplayOrder int64             `json:"display_order"`
	Content      json.RawMessage   `json:"content"`
	Products     []ResolvedItem    `json:"products,omitempty"`
	Categories   []ResolvedItem    `json:"categories,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// HomepagePayload is the cache-backed output of the read path. GeneratedAt
// is the newest updated_at among the served sections, not a wall-clock read,
// so identical store state always yields identical bytes.
type HomepagePayload struct {
	Locale      string            `json:"locale"`
	Sections    []ResolvedSection `json:"sections"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Reader assembles the public homepage for a locale. The output is
// deterministic for a given store state: sections ordered by display order
// then id, associations ordered by their own display order, drafts and
// archived sections excluded.
type Reader struct {
	store  store.Store
	cache  cache.Cacher
	logger *slog.Logger
	ttl    time.Duration
}

// NewReader creates a Reader. cache may be nil to disable caching.
func NewReader(st store.Store, c cache.Cacher, logger *slog.Logger, ttl time.Duration) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Reader{store: st, cache: c, logger: logger, ttl: ttl}
}

// GetHomepageContent returns the assembled homepage for the locale, cache
// first. A cache failure degrades to a store read; a store failure after
// bounded retries surfaces as ErrStoreUnavailable.
func (r *Reader) GetHomepageContent(ctx context.Context, locale string) (HomepagePayload, error) {
	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, cache.HomepageKey(locale)); err == nil {
			var payload HomepagePayload
			if jerr := json.Unmarshal(raw, &payload); jerr == nil {
				return payload, nil
			}
			// Corrupt entry: drop it and rebuild from the store.
			_ = r.cache.Delete(ctx, cache.HomepageKey(locale))
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("homepage cache read failed, falling back to store",
				"category", model.EventCategoryCache,
				"locale", locale,
				"error", err,
			)
		}
	}

	payload, err := r.assemble(ctx, locale)
	if err != nil {
		return HomepagePayload{}, err
	}

	if r.cache != nil {
		raw, jerr := json.Marshal(payload)
		if jerr == nil {
			if serr := r.cache.Set(ctx, cache.HomepageKey(locale), raw, r.ttl); serr != nil {
				r.logger.Warn("homepage cache write failed",
					"category", model.EventCategoryCache,
					"locale", locale,
					"error", serr,
				)
			}
		}
	}

	return payload, nil
}

// assemble builds the homepage from the store.
func (r *Reader) assemble(ctx context.Context, locale string) (HomepagePayload, error) {
	var sections []model.Section
	err := retry.Do(ctx, retryBackoff(), func(ctx context.Context) error {
		var lerr error
		sections, lerr = r.store.ListPublishedSections(ctx, locale)
		if errors.Is(lerr, store.ErrUnavailable) {
			return retry.RetryableError(lerr)
		}
		return lerr
	})
	if err != nil {
		return HomepagePayload{}, mapStoreErr(err)
	}

	resolved := make([]ResolvedSection, 0, len(sections))
	var newest time.Time
	for _, sec := range sections {
		rs, rerr := r.resolveSection(ctx, sec)
		if rerr != nil {
			return HomepagePayload{}, rerr
		}
		resolved = append(resolved, rs)
		if sec.UpdatedAt.After(newest) {
			newest = sec.UpdatedAt
		}
	}

	return HomepagePayload{
		Locale:      locale,
		Sections:    resolved,
		GeneratedAt: newest.UTC(),
	}, nil
}

// resolveSection loads the section's published payload and associations.
func (r *Reader) resolveSection(ctx context.Context, sec model.Section) (ResolvedSection, error) {
	if !sec.PublishedVersionID.Valid {
		return ResolvedSection{}, fmt.Errorf("%w: section %d is published without a version pointer",
			ErrInvalidState, sec.ID)
	}

	v, err := r.store.GetVersion(ctx, sec.PublishedVersionID.Int64)
	if err != nil {
		return ResolvedSection{}, mapStoreErr(err)
	}

	rs := ResolvedSection{
		ID:           sec.ID,
		Type:         sec.Type,
		Key:          sec.Key,
		Name:         sec.Name,
		DisplayOrder: sec.DisplayOrder,
		Content:      json.RawMessage(v.Content),
		Metadata:     sec.MetadataMap(),
	}

	switch sec.Type {
	case model.SectionTypeProductCarousel:
		products, perr := r.store.ListSectionProducts(ctx, sec.ID)
		if perr != nil {
			return ResolvedSection{}, mapStoreErr(perr)
		}
		rs.Products = resolveProducts(products)
	case model.SectionTypeCategoryGrid:
		categories, cerr := r.store.ListSectionCategories(ctx, sec.ID)
		if cerr != nil {
			return ResolvedSection{}, mapStoreErr(cerr)
		}
		rs.Categories = resolveCategories(categories)
	}

	return rs, nil
}

// resolveProducts applies association overrides over catalog data. Inactive
// catalog items are dropped from the public payload.
func resolveProducts(rows []store.ResolvedProduct) []ResolvedItem {
	items := make([]ResolvedItem, 0, len(rows))
	for _, row := range rows {
		if !row.Product.IsActive {
			continue
		}
		item := ResolvedItem{
			ID:       row.Product.ID,
			Title:    row.Product.Name,
			Slug:     row.Product.Slug,
			PriceCts: row.Product.PriceCts,
			Currency: row.Product.Currency,
		}
		if row.Product.ImageURL.Valid {
			item.ImageURL = row.Product.ImageURL.String
		}
		if row.OverrideTitle.Valid && row.OverrideTitle.String != "" {
			item.Title = row.OverrideTitle.String
		}
		if row.OverrideImage.Valid && row.OverrideImage.String != "" {
			item.ImageURL = row.OverrideImage.String
		}
		items = append(items, item)
	}
	return items
}

func resolveCategories(rows []store.ResolvedCategory) []ResolvedItem {
	items := make([]ResolvedItem, 0, len(rows))
	for _, row := range rows {
		if !row.Category.IsActive {
			continue
		}
		item := ResolvedItem{
			ID:    row.Category.ID,
			Title: row.Category.Name,
			Slug:  row.Category.Slug,
		}
		if row.Category.ImageURL.Valid {
			item.ImageURL = row.Category.ImageURL.String
		}
		if row.OverrideTitle.Valid && row.OverrideTitle.String != "" {
			item.Title = row.OverrideTitle.String
		}
		if row.OverrideImage.Valid && row.OverrideImage.String != "" {
			item.ImageURL = row.OverrideImage.String
		}
		items = append(items, item)
	}
	return items
}
