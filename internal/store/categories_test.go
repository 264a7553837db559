package store

import (
	"context"
	"strings"
	"testing"

	"github.com/spookystock/spookystock/internal/model"
)

func TestCategoryRoundTrip(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	created, err := CreateCategory(ctx, database, owner, "Halloween", "Spooky decorations")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	got, err := GetCategory(ctx, database, owner, created.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.Name != "Halloween" {
		t.Errorf("expected name 'Halloween', got %q", got.Name)
	}
	if got.Description != "Spooky decorations" {
		t.Errorf("expected description round-trip, got %q", got.Description)
	}
}

func TestCategoryValidation(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	if _, err := CreateCategory(ctx, database, owner, "", ""); !model.IsKind(err, model.KindValidation) {
		t.Errorf("expected validation error for empty name, got %v", err)
	}

	long := strings.Repeat("x", 101)
	if _, err := CreateCategory(ctx, database, owner, long, ""); !model.IsKind(err, model.KindValidation) {
		t.Errorf("expected validation error for 101-char name, got %v", err)
	}

	// Exactly at the bounds is fine.
	if _, err := CreateCategory(ctx, database, owner, strings.Repeat("x", 100), strings.Repeat("y", 500)); err != nil {
		t.Errorf("expected 100/500-char fields to pass, got %v", err)
	}
}

func TestCategoryPatchSemantics(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	c, _ := CreateCategory(ctx, database, owner, "Christmas", "Lights and baubles")

	// Only the name is supplied; the description must stay untouched.
	updated, err := UpdateCategory(ctx, database, owner, c.ID, model.CategoryPatch{
		Name: model.String("Winter"),
	})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if updated.Name != "Winter" {
		t.Errorf("expected renamed category, got %q", updated.Name)
	}
	if updated.Description != "Lights and baubles" {
		t.Errorf("omitted description was changed: %q", updated.Description)
	}

	// Explicitly clearing the optional description works.
	updated, err = UpdateCategory(ctx, database, owner, c.ID, model.CategoryPatch{
		Description: model.NullString(),
	})
	if err != nil {
		t.Fatalf("UpdateCategory clear: %v", err)
	}
	if updated.Description != "" {
		t.Errorf("expected cleared description, got %q", updated.Description)
	}

	// Clearing the required name fails validation and changes nothing.
	if _, err := UpdateCategory(ctx, database, owner, c.ID, model.CategoryPatch{
		Name: model.NullString(),
	}); !model.IsKind(err, model.KindValidation) {
		t.Errorf("expected validation error clearing name, got %v", err)
	}
	got, _ := GetCategory(ctx, database, owner, c.ID)
	if got.Name != "Winter" {
		t.Errorf("failed update modified the record: %q", got.Name)
	}
}

func TestCategoryDeleteBlockedWhileReferenced(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	c, _ := CreateCategory(ctx, database, owner, "Easter", "")
	bin, _ := CreateBin(ctx, database, owner, model.Bin{Name: "Egg box", CategoryID: &c.ID})

	if err := DeleteCategory(ctx, database, owner, c.ID); !model.IsKind(err, model.KindConflict) {
		t.Errorf("expected conflict deleting referenced category, got %v", err)
	}

	// Clear the reference, then the delete goes through.
	if _, err := UpdateBin(ctx, database, owner, bin.ID, model.BinPatch{CategoryID: model.NullRef()}); err != nil {
		t.Fatalf("clearing bin category: %v", err)
	}
	if err := DeleteCategory(ctx, database, owner, c.ID); err != nil {
		t.Fatalf("DeleteCategory after clearing: %v", err)
	}
	if _, err := GetCategory(ctx, database, owner, c.ID); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestCategoryTenantIsolation(t *testing.T) {
	database, ownerX := newTestOwner(t)
	ownerY := newOwner(t, database, "other")
	ctx := context.Background()

	c, _ := CreateCategory(ctx, database, ownerX, "Halloween", "")

	// The other owner cannot see, update or delete it; absence and foreign
	// ownership are indistinguishable.
	if _, err := GetCategory(ctx, database, ownerY, c.ID); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found across tenants, got %v", err)
	}
	if _, err := UpdateCategory(ctx, database, ownerY, c.ID, model.CategoryPatch{Name: model.String("Stolen")}); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found updating across tenants, got %v", err)
	}
	if err := DeleteCategory(ctx, database, ownerY, c.ID); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found deleting across tenants, got %v", err)
	}

	listed, _ := ListCategories(ctx, database, ownerY)
	if len(listed) != 0 {
		t.Errorf("expected empty list for other owner, got %d entries", len(listed))
	}
}

func TestListCategoriesCreationOrder(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha", "Mu"} {
		if _, err := CreateCategory(ctx, database, owner, name, ""); err != nil {
			t.Fatalf("CreateCategory %s: %v", name, err)
		}
	}

	listed, err := ListCategories(ctx, database, owner)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	want := []string{"Zeta", "Alpha", "Mu"}
	if len(listed) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(listed))
	}
	for i, name := range want {
		if listed[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, listed[i].Name)
		}
	}
}
