package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/spookystock/spookystock/internal/model"
)

var foldCaser = cases.Fold()

// NormalizeTag returns the display form (trimmed, original casing) and the
// per-owner uniqueness key (trimmed, case-folded) of a raw tag string.
func NormalizeTag(raw string) (display, norm string) {
	display = strings.TrimSpace(raw)
	return display, foldCaser.String(display)
}

// resolveTag returns the owner's tag for the raw string, creating it if no
// tag with the same folded key exists yet. The first creation fixes the
// display casing.
func resolveTag(ctx context.Context, tx *sql.Tx, ownerID int64, raw string) (*model.Tag, error) {
	display, norm := NormalizeTag(raw)
	if display == "" {
		return nil, model.NewInvalid("tag", "name", "tag must not be empty")
	}

	tag := &model.Tag{OwnerID: ownerID, Name: display, Norm: norm}
	err := tx.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE owner_id = ? AND norm = ?`, ownerID, norm,
	).Scan(&tag.ID, &tag.Name)
	if err == nil {
		return tag, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("looking up tag: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO tags (owner_id, name, norm) VALUES (?, ?, ?)`,
		ownerID, display, norm,
	)
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	tag.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting tag id: %w", err)
	}
	return tag, nil
}

// SetItemTags replaces an item's tag set with the desired raw strings,
// resolving or creating each tag and applying only the difference against
// the current association rows. Applying the same list twice is a no-op the
// second time. The whole update is one transaction.
func SetItemTags(ctx context.Context, db *sql.DB, ownerID, itemID int64, raw []string) ([]model.Tag, error) {
	var tags []model.Tag
	err := withRetry(ctx, func() error {
		tags = nil
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var one int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM items WHERE id = ? AND owner_id = ?`, itemID, ownerID,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return model.NewNotFound("item", itemID)
		}
		if err != nil {
			return fmt.Errorf("checking item: %w", err)
		}

		// Resolve desired tags, collapsing duplicates within the list by
		// their folded key.
		desired := make(map[int64]model.Tag, len(raw))
		seen := make(map[string]bool, len(raw))
		for _, r := range raw {
			_, norm := NormalizeTag(r)
			if seen[norm] {
				continue
			}
			tag, err := resolveTag(ctx, tx, ownerID, r)
			if err != nil {
				return err
			}
			seen[norm] = true
			desired[tag.ID] = *tag
			tags = append(tags, *tag)
		}

		// Current association rows.
		rows, err := tx.QueryContext(ctx,
			`SELECT tag_id FROM item_tags WHERE item_id = ?`, itemID,
		)
		if err != nil {
			return fmt.Errorf("loading item tag rows: %w", err)
		}
		current := make(map[int64]bool)
		for rows.Next() {
			var tagID int64
			if err := rows.Scan(&tagID); err != nil {
				rows.Close()
				return fmt.Errorf("scanning item tag row: %w", err)
			}
			current[tagID] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("reading item tag rows: %w", err)
		}

		// Insert missing pairs, drop pairs no longer desired.
		for tagID := range desired {
			if current[tagID] {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)`, itemID, tagID,
			); err != nil {
				return fmt.Errorf("adding item tag row: %w", err)
			}
		}
		for tagID := range current {
			if _, ok := desired[tagID]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM item_tags WHERE item_id = ? AND tag_id = ?`, itemID, tagID,
			); err != nil {
				return fmt.Errorf("removing item tag row: %w", err)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ItemTags returns an item's tags ordered by tag id.
func ItemTags(ctx context.Context, db *sql.DB, ownerID, itemID int64) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.owner_id, t.name, t.norm
		 FROM item_tags it
		 JOIN tags t ON t.id = it.tag_id
		 WHERE it.item_id = ? AND t.owner_id = ?
		 ORDER BY t.id`, itemID, ownerID,
	)
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("loading item tags: %w", err))
	}
	defer rows.Close()
	return scanTags(rows)
}

// ListTags returns all of the owner's tags in creation order, including tags
// with no remaining associations.
func ListTags(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, owner_id, name, norm FROM tags WHERE owner_id = ? ORDER BY id`, ownerID,
	)
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("listing tags: %w", err))
	}
	defer rows.Close()
	return scanTags(rows)
}

// GetTag returns a tag by id, scoped to the owner.
func GetTag(ctx context.Context, db *sql.DB, ownerID, id int64) (*model.Tag, error) {
	t := &model.Tag{}
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, norm FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&t.ID, &t.OwnerID, &t.Name, &t.Norm)
	if err == sql.ErrNoRows {
		return nil, model.NewNotFound("tag", id)
	}
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("getting tag: %w", err))
	}
	return t, nil
}

// DeleteTag removes a tag that has no remaining item associations. Tags that
// are still attached to items fail with a conflict; untagging happens through
// SetItemTags, never here.
func DeleteTag(ctx context.Context, db *sql.DB, ownerID, id int64) error {
	return withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var one int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM tags WHERE id = ? AND owner_id = ?`, id, ownerID,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return model.NewNotFound("tag", id)
		}
		if err != nil {
			return fmt.Errorf("checking tag: %w", err)
		}

		var refs int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM item_tags WHERE tag_id = ?`, id,
		).Scan(&refs)
		if err != nil {
			return fmt.Errorf("counting tag associations: %w", err)
		}
		if refs > 0 {
			return model.NewConflict("tag", id, fmt.Sprintf("still attached to %d items", refs))
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting tag: %w", err)
		}
		return tx.Commit()
	})
}

// attachTags loads the tag sets for a list of the owner's items in one query.
func attachTags(ctx context.Context, db *sql.DB, ownerID int64, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT it.item_id, t.id, t.owner_id, t.name, t.norm
		 FROM item_tags it
		 JOIN tags t ON t.id = it.tag_id
		 WHERE t.owner_id = ?
		 ORDER BY t.id`, ownerID,
	)
	if err != nil {
		return model.NewStorage(fmt.Errorf("loading tag sets: %w", err))
	}
	defer rows.Close()

	byItem := make(map[int64][]model.Tag)
	for rows.Next() {
		var itemID int64
		var t model.Tag
		if err := rows.Scan(&itemID, &t.ID, &t.OwnerID, &t.Name, &t.Norm); err != nil {
			return model.NewStorage(fmt.Errorf("scanning tag set row: %w", err))
		}
		byItem[itemID] = append(byItem[itemID], t)
	}
	if err := rows.Err(); err != nil {
		return model.NewStorage(err)
	}

	for i := range items {
		items[i].Tags = byItem[items[i].ID]
	}
	return nil
}

func scanTags(rows *sql.Rows) ([]model.Tag, error) {
	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Norm); err != nil {
			return nil, model.NewStorage(fmt.Errorf("scanning tag: %w", err))
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorage(err)
	}
	return tags, nil
}
