package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/spookystock/spookystock/internal/model"
)

// Filter selects items by composable facets. Zero-valued facets are ignored;
// the facets that are present all have to match (tag ids match if at least
// one is carried by the item).
type Filter struct {
	Text       string
	CategoryID int64
	BinID      int64
	TagIDs     []int64
}

// FilterItems loads the owner's full item snapshot and applies the filter to
// it. The result is recomputed on every call; no filtered view is cached.
func FilterItems(ctx context.Context, db *sql.DB, ownerID int64, f Filter) ([]model.Item, error) {
	items, err := ListItems(ctx, db, ownerID)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(items, f), nil
}

// ApplyFilter narrows an item snapshot by the filter's facets, preserving the
// snapshot order. It is a pure function with no side effects.
func ApplyFilter(items []model.Item, f Filter) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if matches(&item, f) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item *model.Item, f Filter) bool {
	if f.CategoryID != 0 && (item.CategoryID == nil || *item.CategoryID != f.CategoryID) {
		return false
	}
	if f.BinID != 0 && (item.BinID == nil || *item.BinID != f.BinID) {
		return false
	}
	if len(f.TagIDs) > 0 && !hasAnyTag(item, f.TagIDs) {
		return false
	}
	if f.Text != "" && !matchesText(item, f.Text) {
		return false
	}
	return true
}

func hasAnyTag(item *model.Item, tagIDs []int64) bool {
	for _, want := range tagIDs {
		for _, t := range item.Tags {
			if t.ID == want {
				return true
			}
		}
	}
	return false
}

// matchesText looks for the case-insensitive substring in the item's name,
// description, and tag display names. Matching folds with the same caser as
// tag normalization so "Straße" and "STRASSE" agree.
func matchesText(item *model.Item, text string) bool {
	needle := foldCaser.String(text)
	if strings.Contains(foldCaser.String(item.Name), needle) {
		return true
	}
	if strings.Contains(foldCaser.String(item.Description), needle) {
		return true
	}
	for _, t := range item.Tags {
		if strings.Contains(t.Norm, needle) {
			return true
		}
	}
	return false
}
