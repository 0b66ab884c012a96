// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// PathRefresher regenerates or purges rendered page paths downstream of the
// cache, e.g. a CDN purge hook. Optional; a nil refresher means key purging
// alone is the whole invalidation.
type PathRefresher interface {
	RefreshPath(ctx context.Context, path string) error
}

// Coordinator maps content lifecycle events to the cache keys and render
// paths they dirty. It is the only component that knows which keys exist;
// the content and schedule engines just report what happened.
//
// All methods are fire-and-forget from the caller's perspective: a returned
// error means some purge did not complete, the failed keys are already queued
// for out-of-band retry, and the triggering transition must not be rolled
// back.
type Coordinator struct {
	cache         Cacher
	refresher     PathRefresher
	retrier       *Retrier
	logger        *slog.Logger
	defaultLocale string
}

// NewCoordinator creates a Coordinator. refresher and retrier may be nil.
func NewCoordinator(cache Cacher, refresher PathRefresher, retrier *Retrier, logger *slog.Logger, defaultLocale string) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Coordinator{
		cache:         cache,
		refresher:     refresher,
		retrier:       retrier,
		logger:        logger,
		defaultLocale: defaultLocale,
	}
}

// OnPublish purges everything the new live content can be seen through: the
// assembled homepage for the locale, the section's own payload, and the
// admin listing. Both the locale's rendered homepage path and the site root
// are refreshed.
func (c *Coordinator) OnPublish(ctx context.Context, sectionID int64, locale string) error {
	keys := []string{
		HomepageKey(locale),
		SectionKey(sectionID),
		AdminListKey(locale),
	}
	return c.invalidate(ctx, "publish", keys, c.homepagePaths(locale))
}

// homepagePaths returns the rendered paths a locale's homepage is reachable
// through: the locale path and the site root, deduped when the locale is the
// default.
func (c *Coordinator) homepagePaths(locale string) []string {
	p := HomepagePath(locale, c.defaultLocale)
	if p == "/" {
		return []string{"/"}
	}
	return []string{p, "/"}
}

// OnDraftUpdate purges admin-facing entries only. Draft edits are invisible
// to end users, so the public homepage entry stays warm.
func (c *Coordinator) OnDraftUpdate(ctx context.Context, sectionID int64, locale string) error {
	keys := []string{
		SectionKey(sectionID),
		AdminListKey(locale),
	}
	return c.invalidate(ctx, "draft_update", keys, nil)
}

// OnReorder purges the locale's assembled views; individual section payloads
// are unchanged by a reorder.
func (c *Coordinator) OnReorder(ctx context.Context, locale string) error {
	keys := []string{
		HomepageKey(locale),
		AdminListKey(locale),
	}
	return c.invalidate(ctx, "reorder", keys, []string{HomepagePath(locale, c.defaultLocale)})
}

// OnScheduleExecute handles a scheduler-driven transition: the publish keys
// plus the active-schedules listing, which just changed shape.
func (c *Coordinator) OnScheduleExecute(ctx context.Context, sectionID int64, locale string) error {
	keys := []string{
		HomepageKey(locale),
		SectionKey(sectionID),
		AdminListKey(locale),
		ActiveSchedulesKey(),
	}
	return c.invalidate(ctx, "schedule_execute", keys, c.homepagePaths(locale))
}

// invalidate purges the given keys and refreshes the given paths. Partial
// failure purges what it can, queues the rest for retry, and reports the
// combined error.
func (c *Coordinator) invalidate(ctx context.Context, reason string, keys, paths []string) error {
	var errs []error
	var failed []string

	for _, key := range keys {
		if err := c.cache.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", key, err))
			failed = append(failed, key)
		}
	}

	if c.refresher != nil {
		for _, path := range paths {
			if err := c.refresher.RefreshPath(ctx, path); err != nil {
				errs = append(errs, fmt.Errorf("refresh %s: %w", path, err))
			}
		}
	}

	if len(failed) > 0 && c.retrier != nil {
		c.retrier.Enqueue(failed, reason)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalidation on %s incomplete: %w", reason, errors.Join(errs...))
	}

	c.logger.Debug("cache invalidated", "reason", reason, "keys", len(keys))
	return nil
}
