package store

import (
	"context"
	"testing"

	"github.com/spookystock/spookystock/internal/model"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		raw, display, norm string
	}{
		{"Halloween", "Halloween", "halloween"},
		{"  Fragile  ", "Fragile", "fragile"},
		{"STRASSE", "STRASSE", "strasse"},
		{"straße", "straße", "strasse"},
	}
	for _, tt := range tests {
		display, norm := NormalizeTag(tt.raw)
		if display != tt.display || norm != tt.norm {
			t.Errorf("NormalizeTag(%q) = (%q, %q), want (%q, %q)",
				tt.raw, display, norm, tt.display, tt.norm)
		}
	}
}

func TestTagCaseFoldDedup(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	i1, _ := CreateItem(ctx, database, owner, model.Item{Name: "Pumpkin"})
	i2, _ := CreateItem(ctx, database, owner, model.Item{Name: "Candle"})

	if _, err := SetItemTags(ctx, database, owner, i1.ID, []string{"Halloween"}); err != nil {
		t.Fatalf("SetItemTags: %v", err)
	}
	got, err := SetItemTags(ctx, database, owner, i2.ID, []string{"halloween"})
	if err != nil {
		t.Fatalf("SetItemTags: %v", err)
	}

	// Both items share the single existing tag; the first creation fixed the
	// display casing.
	tags, _ := ListTags(ctx, database, owner)
	if len(tags) != 1 {
		t.Fatalf("expected one tag, got %d: %v", len(tags), tags)
	}
	if tags[0].Name != "Halloween" {
		t.Errorf("expected display name 'Halloween', got %q", tags[0].Name)
	}
	if len(got) != 1 || got[0].ID != tags[0].ID {
		t.Errorf("expected shared tag id %d, got %v", tags[0].ID, got)
	}
}

func TestSetItemTagsIdempotent(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, owner, model.Item{Name: "Wreath"})

	list := []string{"door", "seasonal"}
	first, err := SetItemTags(ctx, database, owner, item.ID, list)
	if err != nil {
		t.Fatalf("first SetItemTags: %v", err)
	}
	second, err := SetItemTags(ctx, database, owner, item.ID, list)
	if err != nil {
		t.Fatalf("second SetItemTags: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 tags both times, got %d then %d", len(first), len(second))
	}

	attached, _ := ItemTags(ctx, database, owner, item.ID)
	if len(attached) != 2 {
		t.Errorf("expected 2 associations, got %d", len(attached))
	}
	tags, _ := ListTags(ctx, database, owner)
	if len(tags) != 2 {
		t.Errorf("repeat application created extra tags: %v", tags)
	}
}

func TestSetItemTagsDiff(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, owner, model.Item{Name: "Lights"})

	if _, err := SetItemTags(ctx, database, owner, item.ID, []string{"outdoor", "electric"}); err != nil {
		t.Fatalf("SetItemTags: %v", err)
	}
	if _, err := SetItemTags(ctx, database, owner, item.ID, []string{"electric", "fragile"}); err != nil {
		t.Fatalf("SetItemTags diff: %v", err)
	}

	attached, _ := ItemTags(ctx, database, owner, item.ID)
	names := make(map[string]bool, len(attached))
	for _, tag := range attached {
		names[tag.Name] = true
	}
	if len(attached) != 2 || !names["electric"] || !names["fragile"] {
		t.Errorf("expected electric+fragile, got %v", attached)
	}

	// Detached tag still exists for reuse.
	tags, _ := ListTags(ctx, database, owner)
	if len(tags) != 3 {
		t.Errorf("expected 3 tags total, got %v", tags)
	}
}

func TestSetItemTagsCollapsesDuplicates(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, owner, model.Item{Name: "Mask"})

	got, err := SetItemTags(ctx, database, owner, item.ID, []string{"Scary", "scary", " SCARY "})
	if err != nil {
		t.Fatalf("SetItemTags: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected duplicates collapsed to one tag, got %v", got)
	}
}

func TestSetItemTagsEmptyTag(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, owner, model.Item{Name: "Hat"})

	if _, err := SetItemTags(ctx, database, owner, item.ID, []string{"   "}); !model.IsKind(err, model.KindValidation) {
		t.Errorf("expected validation error for blank tag, got %v", err)
	}

	// Clearing with an empty list works.
	if _, err := SetItemTags(ctx, database, owner, item.ID, nil); err != nil {
		t.Fatalf("SetItemTags clear: %v", err)
	}
	attached, _ := ItemTags(ctx, database, owner, item.ID)
	if len(attached) != 0 {
		t.Errorf("expected no associations, got %v", attached)
	}
}

func TestDeleteTagConflict(t *testing.T) {
	database, owner := newTestOwner(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, owner, model.Item{Name: "Broom"})
	tags, _ := SetItemTags(ctx, database, owner, item.ID, []string{"witch"})

	if err := DeleteTag(ctx, database, owner, tags[0].ID); !model.IsKind(err, model.KindConflict) {
		t.Errorf("expected conflict deleting attached tag, got %v", err)
	}

	// Detach, then the delete goes through.
	if _, err := SetItemTags(ctx, database, owner, item.ID, nil); err != nil {
		t.Fatalf("SetItemTags clear: %v", err)
	}
	if err := DeleteTag(ctx, database, owner, tags[0].ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	if _, err := GetTag(ctx, database, owner, tags[0].ID); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected deleted tag to be gone, got %v", err)
	}
}

func TestTagsPerOwner(t *testing.T) {
	database, ownerX := newTestOwner(t)
	ownerY := newOwner(t, database, "other")
	ctx := context.Background()

	ix, _ := CreateItem(ctx, database, ownerX, model.Item{Name: "Ghost"})
	iy, _ := CreateItem(ctx, database, ownerY, model.Item{Name: "Goblin"})

	tx, _ := SetItemTags(ctx, database, ownerX, ix.ID, []string{"spooky"})
	ty, _ := SetItemTags(ctx, database, ownerY, iy.ID, []string{"spooky"})

	// Same name, separate namespaces.
	if tx[0].ID == ty[0].ID {
		t.Errorf("tag records shared across owners: %d", tx[0].ID)
	}
	if _, err := GetTag(ctx, database, ownerY, tx[0].ID); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found across tenants, got %v", err)
	}

	// One owner cannot tag the other's item.
	if _, err := SetItemTags(ctx, database, ownerY, ix.ID, []string{"stolen"}); !model.IsKind(err, model.KindNotFound) {
		t.Errorf("expected not found tagging foreign item, got %v", err)
	}
}
