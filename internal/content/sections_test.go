package content

import (
	"context"
	"errors"
	"testing"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

func TestCreateSection_DerivesKeyFromName(t *testing.T) {
	st := store.NewMemoryStore()
	sm := NewSectionManager(st, nil, nil, testClock)

	sec, err := sm.CreateSection(context.Background(), CreateSectionInput{
		Type:   model.SectionTypeHero,
		Name:   "Spring Sale Hero",
		Locale: "en",
	})
	if err != nil {
		t.Fatalf("CreateSection() error: %v", err)
	}
	if sec.Key != "spring-sale-hero" {
		t.Errorf("Key = %q, want %q", sec.Key, "spring-sale-hero")
	}
	if sec.Status != model.SectionStatusDraft {
		t.Errorf("Status = %q, new sections must start as drafts", sec.Status)
	}
}

func TestCreateSection_Validation(t *testing.T) {
	st := store.NewMemoryStore()
	sm := NewSectionManager(st, nil, nil, testClock)

	tests := []struct {
		name string
		in   CreateSectionInput
	}{
		{"unknown type", CreateSectionInput{Type: "popup", Name: "X", Locale: "en"}},
		{"empty name", CreateSectionInput{Type: model.SectionTypeHero, Locale: "en"}},
		{"empty locale", CreateSectionInput{Type: model.SectionTypeHero, Name: "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sm.CreateSection(context.Background(), tt.in)
			if !errors.Is(err, ErrInvalidState) {
				t.Errorf("CreateSection() error = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestCreateSection_DuplicateKeyInLocale(t *testing.T) {
	st := store.NewMemoryStore()
	sm := NewSectionManager(st, nil, nil, testClock)
	ctx := context.Background()

	in := CreateSectionInput{Type: model.SectionTypeHero, Name: "Hero", Locale: "en"}
	if _, err := sm.CreateSection(ctx, in); err != nil {
		t.Fatalf("CreateSection() error: %v", err)
	}

	if _, err := sm.CreateSection(ctx, in); !errors.Is(err, ErrInvalidState) {
		t.Errorf("duplicate CreateSection() error = %v, want ErrInvalidState", err)
	}

	// Same key in another locale is fine.
	in.Locale = "fr"
	if _, err := sm.CreateSection(ctx, in); err != nil {
		t.Errorf("CreateSection() in other locale error: %v", err)
	}
}

func TestCreateSection_MetadataSerialized(t *testing.T) {
	st := store.NewMemoryStore()
	sm := NewSectionManager(st, nil, nil, testClock)

	sec, err := sm.CreateSection(context.Background(), CreateSectionInput{
		Type:     model.SectionTypeHero,
		Name:     "Hero",
		Locale:   "en",
		Metadata: map[string]string{"theme": "dark"},
	})
	if err != nil {
		t.Fatalf("CreateSection() error: %v", err)
	}
	if got := sec.MetadataMap()["theme"]; got != "dark" {
		t.Errorf("metadata theme = %q, want dark", got)
	}
}

func TestReorder_AppliesNewOrder(t *testing.T) {
	st := store.NewMemoryStore()
	inv := &recordingInvalidator{}
	sm := NewSectionManager(st, inv, nil, testClock)
	ctx := context.Background()

	a := mustCreateSection(t, st, "a", 1)
	b := mustCreateSection(t, st, "b", 2)
	c := mustCreateSection(t, st, "c", 3)

	if err := sm.Reorder(ctx, "en", []int64{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder() error: %v", err)
	}

	sections, err := sm.ListSections(ctx, "en")
	if err != nil {
		t.Fatalf("ListSections() error: %v", err)
	}
	got := []int64{sections[0].ID, sections[1].ID, sections[2].ID}
	want := []int64{c.ID, a.ID, b.ID}
	if got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("order = %v, want %v", got, want)
	}

	if len(inv.reorders) != 1 || inv.reorders[0] != "en" {
		t.Errorf("reorders = %v, want [en]", inv.reorders)
	}
}

func TestReorder_Validation(t *testing.T) {
	st := store.NewMemoryStore()
	sm := NewSectionManager(st, nil, nil, testClock)
	ctx := context.Background()

	a := mustCreateSection(t, st, "a", 1)

	if err := sm.Reorder(ctx, "en", nil); !errors.Is(err, ErrInvalidState) {
		t.Errorf("empty Reorder() error = %v, want ErrInvalidState", err)
	}
	if err := sm.Reorder(ctx, "en", []int64{a.ID, a.ID}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("duplicate Reorder() error = %v, want ErrInvalidState", err)
	}
	if err := sm.Reorder(ctx, "en", []int64{a.ID, 999}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown-id Reorder() error = %v, want ErrNotFound", err)
	}

	// The failed batch must not have moved anything.
	got, _ := st.GetSection(ctx, a.ID)
	if got.DisplayOrder != 1 {
		t.Errorf("DisplayOrder = %d after failed reorder, want 1", got.DisplayOrder)
	}
}

func TestSetProducts_DraftSectionPurgesAdminOnly(t *testing.T) {
	st := store.NewMemoryStore()
	inv := &recordingInvalidator{}
	sm := NewSectionManager(st, inv, nil, testClock)
	ctx := context.Background()

	sec := mustCreateSection(t, st, "carousel", 1)
	pid, err := st.InsertProduct(ctx, model.Product{Name: "Mug", Slug: "mug", PriceCts: 100, Currency: "USD", IsActive: true})
	if err != nil {
		t.Fatalf("InsertProduct() error: %v", err)
	}

	if err := sm.SetProducts(ctx, sec.ID, []AssociationInput{{ID: pid, DisplayOrder: 1}}); err != nil {
		t.Fatalf("SetProducts() error: %v", err)
	}

	if len(inv.draftUpdates) != 1 {
		t.Errorf("draftUpdates = %v, want one entry", inv.draftUpdates)
	}
	if len(inv.publishes) != 0 {
		t.Errorf("publishes = %v, draft association edits must not purge public entries", inv.publishes)
	}
}

func TestSetProducts_PublishedSectionPurgesPublic(t *testing.T) {
	st := store.NewMemoryStore()
	inv := &recordingInvalidator{}
	sm := NewSectionManager(st, inv, nil, testClock)
	ctx := context.Background()

	sec := publishSection(t, st, model.SectionTypeProductCarousel, "carousel", 1, `{}`)
	pid, err := st.InsertProduct(ctx, model.Product{Name: "Mug", Slug: "mug", PriceCts: 100, Currency: "USD", IsActive: true})
	if err != nil {
		t.Fatalf("InsertProduct() error: %v", err)
	}

	// Associations are unversioned: an edit on a live section is immediately
	// visible, so the public homepage entry must go.
	if err := sm.SetProducts(ctx, sec.ID, []AssociationInput{{ID: pid, DisplayOrder: 1}}); err != nil {
		t.Fatalf("SetProducts() error: %v", err)
	}
	if len(inv.publishes) != 1 || inv.publishes[0] != sec.ID {
		t.Errorf("publishes = %v, want [%d]", inv.publishes, sec.ID)
	}
}

func TestSetProducts_SanitizesOverrideTitle(t *testing.T) {
	st := store.NewMemoryStore()
	sm := NewSectionManager(st, nil, nil, testClock)
	ctx := context.Background()

	sec := mustCreateSection(t, st, "carousel", 1)
	pid, err := st.InsertProduct(ctx, model.Product{Name: "Mug", Slug: "mug", PriceCts: 100, Currency: "USD", IsActive: true})
	if err != nil {
		t.Fatalf("InsertProduct() error: %v", err)
	}

	err = sm.SetProducts(ctx, sec.ID, []AssociationInput{
		{ID: pid, DisplayOrder: 1, OverrideTitle: `<script>alert(1)</script>Deal`},
	})
	if err != nil {
		t.Fatalf("SetProducts() error: %v", err)
	}

	rows, err := st.ListSectionProducts(ctx, sec.ID)
	if err != nil {
		t.Fatalf("ListSectionProducts() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].OverrideTitle.String != "Deal" {
		t.Errorf("OverrideTitle = %q, want sanitized %q", rows[0].OverrideTitle.String, "Deal")
	}
}

func TestSetCategories_UnknownSection(t *testing.T) {
	st := store.NewMemoryStore()
	sm := NewSectionManager(st, nil, nil, testClock)

	err := sm.SetCategories(context.Background(), 999, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCategories() error = %v, want ErrNotFound", err)
	}
}
