package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/spookystock/spookystock/internal/model"
)

func mustBin(t *testing.T, database *sql.DB, owner int64, bin model.Bin) *model.Bin {
	t.Helper()
	created, err := CreateBin(context.Background(), database, owner, bin)
	if err != nil {
		t.Fatalf("creating bin %q: %v", bin.Name, err)
	}
	return created
}

func TestBinRoundTrip(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, owner, "Halloween", "")
	b := mustBin(t, database, owner, model.Bin{
		Name:       "Garage shelf",
		Location:   "Garage, top left",
		CategoryID: &cat.ID,
	})

	got, err := GetBin(ctx, database, owner, b.ID)
	if err != nil {
		t.Fatalf("GetBin: %v", err)
	}
	if got.Name != "Garage shelf" || got.Location != "Garage, top left" {
		t.Errorf("unexpected round-trip: %+v", got)
	}
	if got.CategoryID == nil || *got.CategoryID != cat.ID {
		t.Errorf("expected category %d, got %v", cat.ID, got.CategoryID)
	}
	if got.ParentBinID != nil {
		t.Errorf("expected root bin, got parent %v", got.ParentBinID)
	}
}

func TestBinDanglingReferences(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	missing := int64(9999)
	if _, err := CreateBin(ctx, database, owner, model.Bin{Name: "Box", CategoryID: &missing}); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found for missing category, got %v", err)
	}
	if _, err := CreateBin(ctx, database, owner, model.Bin{Name: "Box", ParentBinID: &missing}); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found for missing parent, got %v", err)
	}
}

func TestBinSelfParentRejected(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	b := mustBin(t, database, owner, model.Bin{Name: "Crate"})

	_, err := UpdateBin(ctx, database, owner, b.ID, model.BinPatch{ParentBinID: model.Ref(b.ID)})
	if !model.IsKind(err, model.KindCycle) {
		t.Errorf("expected cycle error setting bin as its own parent, got %v", err)
	}
}

func TestBinCycleRejected(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	// A -> B -> C, then trying to hang A under C must fail and leave A alone.
	a := mustBin(t, database, owner, model.Bin{Name: "A"})
	b := mustBin(t, database, owner, model.Bin{Name: "B", ParentBinID: &a.ID})
	c := mustBin(t, database, owner, model.Bin{Name: "C", ParentBinID: &b.ID})

	_, err := UpdateBin(ctx, database, owner, a.ID, model.BinPatch{ParentBinID: model.Ref(c.ID)})
	if !model.IsKind(err, model.KindCycle) {
		t.Errorf("expected cycle error, got %v", err)
	}

	got, _ := GetBin(ctx, database, owner, a.ID)
	if got.ParentBinID != nil {
		t.Errorf("rejected update changed the bin: parent %v", got.ParentBinID)
	}
}

func TestBinReparentToDescendantSiblingAllowed(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	a := mustBin(t, database, owner, model.Bin{Name: "A"})
	b := mustBin(t, database, owner, model.Bin{Name: "B", ParentBinID: &a.ID})
	c := mustBin(t, database, owner, model.Bin{Name: "C", ParentBinID: &a.ID})

	// Moving B under its sibling C is legal.
	updated, err := UpdateBin(ctx, database, owner, b.ID, model.BinPatch{ParentBinID: model.Ref(c.ID)})
	if err != nil {
		t.Fatalf("UpdateBin: %v", err)
	}
	if updated.ParentBinID == nil || *updated.ParentBinID != c.ID {
		t.Errorf("expected parent %d, got %v", c.ID, updated.ParentBinID)
	}
}

func TestBinDeleteCascade(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	// P -> C1 -> C2, with an item in C1. Deleting C1 must splice C2 under P
	// and leave the item unfiled, all without touching the item itself.
	p := mustBin(t, database, owner, model.Bin{Name: "P"})
	c1 := mustBin(t, database, owner, model.Bin{Name: "C1", ParentBinID: &p.ID})
	c2 := mustBin(t, database, owner, model.Bin{Name: "C2", ParentBinID: &c1.ID})

	item, err := CreateItem(ctx, database, owner, model.Item{Name: "Skeleton", BinID: &c1.ID})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := DeleteBin(ctx, database, owner, c1.ID); err != nil {
		t.Fatalf("DeleteBin: %v", err)
	}

	if _, err := GetBin(ctx, database, owner, c1.ID); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected deleted bin to be gone, got %v", err)
	}

	gotChild, _ := GetBin(ctx, database, owner, c2.ID)
	if gotChild.ParentBinID == nil || *gotChild.ParentBinID != p.ID {
		t.Errorf("expected child reparented to %d, got %v", p.ID, gotChild.ParentBinID)
	}

	gotItem, err := GetItem(ctx, database, owner, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if gotItem.BinID != nil {
		t.Errorf("expected item unfiled, got bin %v", gotItem.BinID)
	}
	if gotItem.Name != "Skeleton" {
		t.Errorf("cascade modified the item: %+v", gotItem)
	}
}

func TestBinDeleteRootCascade(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	root := mustBin(t, database, owner, model.Bin{Name: "Root"})
	child := mustBin(t, database, owner, model.Bin{Name: "Child", ParentBinID: &root.ID})

	if err := DeleteBin(ctx, database, owner, root.ID); err != nil {
		t.Fatalf("DeleteBin: %v", err)
	}

	got, _ := GetBin(ctx, database, owner, child.ID)
	if got.ParentBinID != nil {
		t.Errorf("expected child promoted to root, got parent %v", got.ParentBinID)
	}
}

func TestBinTenantIsolation(t *testing.T) {
	database, ownerX := newTestOwner(t)
	ownerY := newOwner(t, database, "other")
	ctx := context.Background()

	b := mustBin(t, database, ownerX, model.Bin{Name: "Mine"})

	if _, err := GetBin(ctx, database, ownerY, b.ID); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found across tenants, got %v", err)
	}

	// A foreign bin cannot be used as a parent either.
	if _, err := CreateBin(ctx, database, ownerY, model.Bin{Name: "Theirs", ParentBinID: &b.ID}); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found using foreign parent, got %v", err)
	}
}
