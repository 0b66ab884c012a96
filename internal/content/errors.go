// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content implements the homepage content engine: version management,
// publication, and the public read path.
package content

import (
	"errors"
	"fmt"

	"github.com/vitrine-cms/vitrine/internal/store"
)

// Error taxonomy surfaced to callers of the engine.
var (
	// ErrNotFound means a referenced section, version, or schedule does not
	// exist, or a version does not belong to the section named in the request.
	// Never retried automatically.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the requested transition is not valid for the
	// record's current state, e.g. publishing a superseded version or
	// scheduling with a publish time in the past. The caller must correct
	// the input.
	ErrInvalidState = errors.New("invalid state")

	// ErrStoreUnavailable means the content store could not complete a read
	// or write after bounded retries.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidationFailure means a cache purge did not complete after an
	// otherwise successful transition. The transition itself stands; the
	// user-visible risk is stale public content.
	ErrInvalidationFailure = errors.New("cache invalidation failed")
)

// mapStoreErr translates store error categories into the engine taxonomy,
// preserving the original message.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}
