package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

func TestPublish_PromotesVersion(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	pub := NewPublisher(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{"headline":"live"}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	receipt, err := pub.Publish(ctx, sec.ID, v.ID)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if receipt.VersionNumber != 1 {
		t.Errorf("VersionNumber = %d, want 1", receipt.VersionNumber)
	}
	if !receipt.PublishedAt.Equal(testTime) {
		t.Errorf("PublishedAt = %v, want %v", receipt.PublishedAt, testTime)
	}

	got, err := st.GetSection(ctx, sec.ID)
	if err != nil {
		t.Fatalf("GetSection() error: %v", err)
	}
	if got.Status != model.SectionStatusPublished {
		t.Errorf("Status = %q, want published", got.Status)
	}
	if !got.PublishedVersionID.Valid || got.PublishedVersionID.Int64 != v.ID {
		t.Errorf("PublishedVersionID = %+v, want %d", got.PublishedVersionID, v.ID)
	}
}

func TestPublish_RepublishCurrentIsNoOp(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	pub := NewPublisher(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	first, err := pub.Publish(ctx, sec.ID, v.ID)
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	second, err := pub.Publish(ctx, sec.ID, v.ID)
	if err != nil {
		t.Fatalf("re-Publish() error: %v", err)
	}

	// Idempotent: the original timestamp is returned, not a fresh one.
	if !second.PublishedAt.Equal(first.PublishedAt) {
		t.Errorf("PublishedAt = %v, want original %v", second.PublishedAt, first.PublishedAt)
	}
	if second.VersionNumber != first.VersionNumber {
		t.Errorf("VersionNumber = %d, want %d", second.VersionNumber, first.VersionNumber)
	}
}

func TestPublish_SupersededVersionRejected(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	pub := NewPublisher(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v1, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	v2, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	if _, err := pub.Publish(ctx, sec.ID, v1.ID); err != nil {
		t.Fatalf("Publish(v1) error: %v", err)
	}
	if _, err := pub.Publish(ctx, sec.ID, v2.ID); err != nil {
		t.Fatalf("Publish(v2) error: %v", err)
	}

	_, err = pub.Publish(ctx, sec.ID, v1.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Publish(superseded) error = %v, want ErrInvalidState", err)
	}
}

func TestPublish_UnknownVersion(t *testing.T) {
	st := store.NewMemoryStore()
	pub := NewPublisher(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	_, err := pub.Publish(context.Background(), sec.ID, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Publish() error = %v, want ErrNotFound", err)
	}
}

func TestPublish_InvalidatesPublicCaches(t *testing.T) {
	st := store.NewMemoryStore()
	inv := &recordingInvalidator{}
	vm := NewVersionManager(st, inv, nil, testClock)
	pub := NewPublisher(st, inv, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	if _, err := pub.Publish(ctx, sec.ID, v.ID); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if len(inv.publishes) != 1 || inv.publishes[0] != sec.ID {
		t.Errorf("publishes = %v, want [%d]", inv.publishes, sec.ID)
	}
}

func TestPublish_InvalidationFailureDoesNotFailPublish(t *testing.T) {
	st := store.NewMemoryStore()
	inv := &recordingInvalidator{fail: true}
	vm := NewVersionManager(st, inv, nil, testClock)
	pub := NewPublisher(st, inv, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	if _, err := pub.Publish(ctx, sec.ID, v.ID); err != nil {
		t.Fatalf("Publish() must not fail on purge failure, got: %v", err)
	}

	got, _ := st.GetSection(ctx, sec.ID)
	if got.Status != model.SectionStatusPublished {
		t.Errorf("Status = %q, the transition must stand despite the purge failure", got.Status)
	}
}

func TestArchive_RemovesFromRotation(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	pub := NewPublisher(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	if _, err := pub.Publish(ctx, sec.ID, v.ID); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if err := pub.Archive(ctx, sec.ID); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	got, _ := st.GetSection(ctx, sec.ID)
	if got.Status != model.SectionStatusArchived {
		t.Errorf("Status = %q, want archived", got.Status)
	}
	// The published pointer stays for history.
	if !got.PublishedVersionID.Valid {
		t.Error("PublishedVersionID cleared by archive, want preserved")
	}

	published, err := st.ListPublishedSections(ctx, "en")
	if err != nil {
		t.Fatalf("ListPublishedSections() error: %v", err)
	}
	if len(published) != 0 {
		t.Errorf("got %d published sections after archive, want 0", len(published))
	}
}

func TestArchive_UnknownSection(t *testing.T) {
	st := store.NewMemoryStore()
	pub := NewPublisher(st, nil, nil, testClock)

	err := pub.Archive(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Archive() error = %v, want ErrNotFound", err)
	}
}
