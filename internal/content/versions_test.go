package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

var testTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testTime }

// recordingInvalidator captures lifecycle events for assertions.
type recordingInvalidator struct {
	publishes    []int64
	draftUpdates []int64
	reorders     []string
	fail         bool
}

func (r *recordingInvalidator) OnPublish(_ context.Context, sectionID int64, _ string) error {
	r.publishes = append(r.publishes, sectionID)
	if r.fail {
		return errors.New("purge failed")
	}
	return nil
}

func (r *recordingInvalidator) OnDraftUpdate(_ context.Context, sectionID int64, _ string) error {
	r.draftUpdates = append(r.draftUpdates, sectionID)
	if r.fail {
		return errors.New("purge failed")
	}
	return nil
}

func (r *recordingInvalidator) OnReorder(_ context.Context, locale string) error {
	r.reorders = append(r.reorders, locale)
	if r.fail {
		return errors.New("purge failed")
	}
	return nil
}

func mustCreateSection(t *testing.T, st store.Store, key string, order int64) model.Section {
	t.Helper()
	sec, err := st.CreateSection(context.Background(), store.CreateSectionParams{
		Type:         model.SectionTypeHero,
		Key:          key,
		Name:         key,
		Locale:       "en",
		DisplayOrder: order,
		Metadata:     "{}",
		CreatedAt:    testTime,
	})
	if err != nil {
		t.Fatalf("CreateSection(%q) error: %v", key, err)
	}
	return sec
}

func TestCreateDraft_VersionNumbersIncrease(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		v, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{"headline":"hi"}`), "editor", "edit")
		if err != nil {
			t.Fatalf("CreateDraft() error: %v", err)
		}
		if v.VersionNumber != want {
			t.Fatalf("VersionNumber = %d, want %d", v.VersionNumber, want)
		}
	}
}

func TestCreateDraft_UpdatesDraftPointer(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	got, err := st.GetSection(ctx, sec.ID)
	if err != nil {
		t.Fatalf("GetSection() error: %v", err)
	}
	if !got.DraftVersionID.Valid || got.DraftVersionID.Int64 != v.ID {
		t.Errorf("DraftVersionID = %+v, want %d", got.DraftVersionID, v.ID)
	}
}

func TestCreateDraft_InvalidJSON(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	tests := []struct {
		name    string
		payload json.RawMessage
	}{
		{"empty", nil},
		{"truncated", json.RawMessage(`{"headline":`)},
		{"garbage", json.RawMessage(`not json`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vm.CreateDraft(context.Background(), sec.ID, tt.payload, "editor", "")
			if !errors.Is(err, ErrInvalidState) {
				t.Errorf("CreateDraft() error = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestCreateDraft_SectionNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)

	_, err := vm.CreateDraft(context.Background(), 999, json.RawMessage(`{}`), "editor", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateDraft() error = %v, want ErrNotFound", err)
	}
}

func TestCreateDraft_InvalidatesAdminCachesOnly(t *testing.T) {
	st := store.NewMemoryStore()
	inv := &recordingInvalidator{}
	vm := NewVersionManager(st, inv, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	if _, err := vm.CreateDraft(context.Background(), sec.ID, json.RawMessage(`{}`), "editor", ""); err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	if len(inv.draftUpdates) != 1 || inv.draftUpdates[0] != sec.ID {
		t.Errorf("draftUpdates = %v, want [%d]", inv.draftUpdates, sec.ID)
	}
	if len(inv.publishes) != 0 {
		t.Errorf("publishes = %v, draft edits must not purge public entries", inv.publishes)
	}
}

func TestListVersions_NewestFirst(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", ""); err != nil {
			t.Fatalf("CreateDraft() error: %v", err)
		}
	}

	versions, err := vm.ListVersions(ctx, sec.ID, 1, 3)
	if err != nil {
		t.Fatalf("ListVersions() error: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("got %d versions, want 3", len(versions))
	}
	for i, want := range []int64{5, 4, 3} {
		if versions[i].VersionNumber != want {
			t.Errorf("versions[%d].VersionNumber = %d, want %d", i, versions[i].VersionNumber, want)
		}
	}

	page2, err := vm.ListVersions(ctx, sec.ID, 2, 3)
	if err != nil {
		t.Fatalf("ListVersions(page 2) error: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("got %d versions on page 2, want 2", len(page2))
	}
	if page2[0].VersionNumber != 2 || page2[1].VersionNumber != 1 {
		t.Errorf("page 2 = [%d %d], want [2 1]", page2[0].VersionNumber, page2[1].VersionNumber)
	}
}

func TestListVersions_ClampsPageSize(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	if _, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{}`), "editor", ""); err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	// Out-of-range paging inputs fall back to defaults rather than erroring.
	if _, err := vm.ListVersions(ctx, sec.ID, -1, 0); err != nil {
		t.Errorf("ListVersions(-1, 0) error: %v", err)
	}
	if _, err := vm.ListVersions(ctx, sec.ID, 1, MaxPageSize+500); err != nil {
		t.Errorf("ListVersions(oversized page) error: %v", err)
	}
}

func TestListVersions_SectionNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)

	_, err := vm.ListVersions(context.Background(), 999, 1, 10)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ListVersions() error = %v, want ErrNotFound", err)
	}
}

func TestRevertToVersion_CreatesNewVersion(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	sec := mustCreateSection(t, st, "hero", 1)

	ctx := context.Background()
	v1, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{"headline":"original"}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}
	if _, err := vm.CreateDraft(ctx, sec.ID, json.RawMessage(`{"headline":"changed"}`), "editor", ""); err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	reverted, err := vm.RevertToVersion(ctx, sec.ID, v1.ID, "editor")
	if err != nil {
		t.Fatalf("RevertToVersion() error: %v", err)
	}

	// The counter never rewinds: revert appends a new version carrying the
	// old content.
	if reverted.VersionNumber != 3 {
		t.Errorf("VersionNumber = %d, want 3", reverted.VersionNumber)
	}
	if reverted.Content != v1.Content {
		t.Errorf("Content = %q, want %q", reverted.Content, v1.Content)
	}
	if reverted.ChangeSummary != "Reverted to version 1" {
		t.Errorf("ChangeSummary = %q", reverted.ChangeSummary)
	}
}

func TestRevertToVersion_WrongSection(t *testing.T) {
	st := store.NewMemoryStore()
	vm := NewVersionManager(st, nil, nil, testClock)
	secA := mustCreateSection(t, st, "hero-a", 1)
	secB := mustCreateSection(t, st, "hero-b", 2)

	ctx := context.Background()
	vA, err := vm.CreateDraft(ctx, secA.ID, json.RawMessage(`{}`), "editor", "")
	if err != nil {
		t.Fatalf("CreateDraft() error: %v", err)
	}

	_, err = vm.RevertToVersion(ctx, secB.ID, vA.ID, "editor")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RevertToVersion() error = %v, want ErrNotFound for cross-section version", err)
	}
}
