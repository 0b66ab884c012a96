// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/vitrine-cms/vitrine/internal/cache"
	"github.com/vitrine-cms/vitrine/internal/model"
)

// CacheStats handles GET /api/v1/cache/stats. Backends that track counters
// report hits, misses, sets and the item count; others report no stats.
func (h *Handler) CacheStats(w http.ResponseWriter, _ *http.Request) {
	if h.cache == nil {
		WriteNotFound(w, "caching is disabled")
		return
	}
	sp, ok := h.cache.(cache.StatsProvider)
	if !ok {
		WriteSuccess(w, map[string]bool{"stats_available": false}, nil)
		return
	}
	WriteSuccess(w, sp.Stats(), nil)
}

// PurgeCache handles POST /api/v1/cache/purge. Drops every cached entry; the
// next reads rebuild from the store. The operator escape hatch for stale
// content that outlived its invalidation.
func (h *Handler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		WriteNotFound(w, "caching is disabled")
		return
	}
	if err := h.cache.Clear(r.Context()); err != nil {
		h.logger.Error("cache purge failed",
			"category", model.EventCategoryCache,
			"error", err,
		)
		WriteInternalError(w, "Cache purge failed")
		return
	}
	h.logger.Info("cache purged", "category", model.EventCategoryCache)
	WriteSuccess(w, map[string]bool{"purged": true}, nil)
}
