// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"golang.org/x/text/language"
)

// Homepage handles GET /api/v1/homepage?locale=: the public read path.
// The locale parameter is canonicalized ("EN-us" serves "en"); an
// unparseable tag falls back to the default locale rather than erroring,
// since this endpoint fronts the storefront.
func (h *Handler) Homepage(w http.ResponseWriter, r *http.Request) {
	locale := h.canonicalLocale(r.URL.Query().Get("locale"))

	payload, err := h.reader.GetHomepageContent(r.Context(), locale)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteSuccess(w, payload, nil)
}

// canonicalLocale reduces a BCP 47 tag to its base language.
func (h *Handler) canonicalLocale(raw string) string {
	if raw == "" {
		return h.defaultLocale
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return h.defaultLocale
	}
	base, conf := tag.Base()
	if conf == language.No {
		return h.defaultLocale
	}
	return base.String()
}
