// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import "fmt"

// Key builders for every cacheable read path. All invalidation goes through
// these so the key space stays in one place.

// HomepageKey is the assembled public homepage payload for a locale.
func HomepageKey(locale string) string {
	return "homepage:" + locale
}

// SectionKey is the resolved payload of a single section.
func SectionKey(sectionID int64) string {
	return fmt.Sprintf("section:%d", sectionID)
}

// AdminListKey is the admin-facing section list for a locale, drafts included.
func AdminListKey(locale string) string {
	return "admin:sections:" + locale
}

// ActiveSchedulesKey is the list of pending and active schedules.
func ActiveSchedulesKey() string {
	return "schedules:active"
}

// HomepagePath is the rendered page path for a locale, used when a path-based
// refresher (CDN purge, static regeneration) is configured. The default locale
// renders at the site root.
func HomepagePath(locale, defaultLocale string) string {
	if locale == defaultLocale || locale == "" {
		return "/"
	}
	return "/" + locale
}
