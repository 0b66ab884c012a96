// Copyright (c) 2025-2026 Vitrine Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

// Retry policy for idempotent store operations.
const (
	retryAttempts = 3
	retryBase     = 50 * time.Millisecond
)

// retryBackoff returns the bounded exponential backoff used for idempotent
// store calls.
func retryBackoff() retry.Backoff {
	return retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))
}

// PublishReceipt reports a completed publish transition.
type PublishReceipt struct {
	VersionNumber int64     `json:"version_number"`
	PublishedAt   time.Time `json:"published_at"`
}

// Publisher is the single place that mutates a section's live pointer. The
// publish transition is atomic in the store; concurrent publishes to the same
// section resolve last-write-wins with no partial state.
type Publisher struct {
	store       store.Store
	invalidator Invalidator
	logger      *slog.Logger
	clock       Clock
}

// NewPublisher creates a Publisher.
func NewPublisher(st store.Store, inv Invalidator, logger *slog.Logger, clock Clock) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Publisher{store: st, invalidator: inv, logger: logger, clock: clock}
}

// Publish promotes a version to live for its section: the version is frozen,
// the section's published pointer flips, and the section status becomes
// published, all in one store transaction. Publishing the currently published
// version again is a no-op returning the stored timestamp.
//
// Cache invalidation runs after the transition commits and is not fatal to
// the publish; a purge failure is surfaced through the logger at elevated
// severity and retried out-of-band.
func (p *Publisher) Publish(ctx context.Context, sectionID, versionID int64) (PublishReceipt, error) {
	sec, err := p.store.GetSection(ctx, sectionID)
	if err != nil {
		return PublishReceipt{}, mapStoreErr(err)
	}

	now := p.clock()
	var res store.PublishResult
	// The store-level publish is idempotent, so it is safe to retry on
	// transient store failures.
	err = retry.Do(ctx, retryBackoff(), func(ctx context.Context) error {
		var perr error
		res, perr = p.store.PublishVersion(ctx, sectionID, versionID, now)
		if errors.Is(perr, store.ErrUnavailable) {
			return retry.RetryableError(perr)
		}
		return perr
	})
	if err != nil {
		return PublishReceipt{}, mapStoreErr(err)
	}

	if res.AlreadyPublished {
		p.logger.Info("publish no-op, version already live",
			"category", model.EventCategorySection,
			"section_id", sectionID,
			"version_id", versionID,
		)
		return PublishReceipt{VersionNumber: res.VersionNumber, PublishedAt: res.PublishedAt}, nil
	}

	p.logger.Info("version published",
		"category", model.EventCategorySection,
		"section_id", sectionID,
		"version_id", versionID,
		"version_number", res.VersionNumber,
		"locale", sec.Locale,
	)

	p.invalidateAfterPublish(ctx, sectionID, sec.Locale)

	return PublishReceipt{VersionNumber: res.VersionNumber, PublishedAt: res.PublishedAt}, nil
}

// Archive takes a section out of public rotation. The published-version
// pointer is left intact for history; the read path excludes archived
// sections.
func (p *Publisher) Archive(ctx context.Context, sectionID int64) error {
	sec, err := p.store.GetSection(ctx, sectionID)
	if err != nil {
		return mapStoreErr(err)
	}

	now := p.clock()
	err = retry.Do(ctx, retryBackoff(), func(ctx context.Context) error {
		aerr := p.store.ArchiveSection(ctx, sectionID, now)
		if errors.Is(aerr, store.ErrUnavailable) {
			return retry.RetryableError(aerr)
		}
		return aerr
	})
	if err != nil {
		return mapStoreErr(err)
	}

	p.logger.Info("section archived",
		"category", model.EventCategorySection,
		"section_id", sectionID,
		"locale", sec.Locale,
	)

	p.invalidateAfterPublish(ctx, sectionID, sec.Locale)
	return nil
}

// invalidateAfterPublish purges derived data after a live-pointer change.
// Failure is not fatal: the content is correctly persisted, but stale public
// content is user-visible, so the failure is logged at ERROR for the event
// log and the coordinator queues an out-of-band retry.
func (p *Publisher) invalidateAfterPublish(ctx context.Context, sectionID int64, locale string) {
	if p.invalidator == nil {
		return
	}
	if err := p.invalidator.OnPublish(ctx, sectionID, locale); err != nil {
		p.logger.Error("cache invalidation failed after publish",
			"category", model.EventCategoryCache,
			"section_id", sectionID,
			"locale", locale,
			"error", err,
		)
	}
}
