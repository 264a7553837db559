package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spookystock/spookystock/internal/model"
)

const itemColumns = `id, owner_id, name, description, condition, notes, bin_id, category_id, photo_key, created_at`

// CreateItem creates a new item for the owner. Bin and category references
// must resolve to records of the same owner; a missing bin means unfiled.
func CreateItem(ctx context.Context, db *sql.DB, ownerID int64, item model.Item) (*model.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if item.BinID != nil {
			if err := binExists(ctx, tx, ownerID, *item.BinID); err != nil {
				return err
			}
		}
		if item.CategoryID != nil {
			if err := categoryExists(ctx, tx, ownerID, *item.CategoryID); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO items (owner_id, name, description, condition, notes, bin_id, category_id, photo_key)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ownerID, item.Name, item.Description, nullable(item.Condition), item.Notes,
			item.BinID, item.CategoryID, nullable(item.PhotoKey),
		)
		if err != nil {
			return fmt.Errorf("creating item: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting item id: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return GetItem(ctx, db, ownerID, id)
}

// GetItem returns an item by id with its tags loaded, scoped to the owner.
func GetItem(ctx context.Context, db *sql.DB, ownerID, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description, condition, notes, photoKey sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&item.ID, &item.OwnerID, &item.Name, &description, &condition, &notes,
		&item.BinID, &item.CategoryID, &photoKey, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.NewNotFound("item", id)
	}
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("getting item: %w", err))
	}
	item.Description = description.String
	item.Condition = condition.String
	item.Notes = notes.String
	item.PhotoKey = photoKey.String

	tags, err := ItemTags(ctx, db, ownerID, id)
	if err != nil {
		return nil, err
	}
	item.Tags = tags
	return item, nil
}

// ListItems returns the owner's items in creation order, tags included.
func ListItems(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ? ORDER BY id`, ownerID,
	)
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("listing items: %w", err))
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description, condition, notes, photoKey sql.NullString
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &description, &condition, &notes,
			&item.BinID, &item.CategoryID, &photoKey, &item.CreatedAt); err != nil {
			return nil, model.NewStorage(fmt.Errorf("scanning item: %w", err))
		}
		item.Description = description.String
		item.Condition = condition.String
		item.Notes = notes.String
		item.PhotoKey = photoKey.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorage(err)
	}

	if err := attachTags(ctx, db, ownerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem applies a partial update. Only supplied fields change; omitted
// fields are never implicitly nulled.
func UpdateItem(ctx context.Context, db *sql.DB, ownerID, id int64, patch model.ItemPatch) (*model.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	err := withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var name string
		var description, condition, notes, photoKey sql.NullString
		var binID, categoryID sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT name, description, condition, notes, bin_id, category_id, photo_key
			 FROM items WHERE id = ? AND owner_id = ?`, id, ownerID,
		).Scan(&name, &description, &condition, &notes, &binID, &categoryID, &photoKey)
		if err == sql.ErrNoRows {
			return model.NewNotFound("item", id)
		}
		if err != nil {
			return fmt.Errorf("loading item: %w", err)
		}

		if patch.Name.Set {
			name = patch.Name.Value
		}
		if patch.Description.Set {
			description = sql.NullString{String: patch.Description.Value, Valid: patch.Description.Valid}
		}
		if patch.Condition.Set {
			condition = sql.NullString{String: patch.Condition.Value, Valid: patch.Condition.Valid && patch.Condition.Value != ""}
		}
		if patch.Notes.Set {
			notes = sql.NullString{String: patch.Notes.Value, Valid: patch.Notes.Valid}
		}
		if patch.PhotoKey.Set {
			photoKey = sql.NullString{String: patch.PhotoKey.Value, Valid: patch.PhotoKey.Valid}
		}
		if patch.BinID.Set {
			if patch.BinID.Valid {
				if err := binExists(ctx, tx, ownerID, patch.BinID.ID); err != nil {
					return err
				}
			}
			binID = sql.NullInt64{Int64: patch.BinID.ID, Valid: patch.BinID.Valid}
		}
		if patch.CategoryID.Set {
			if patch.CategoryID.Valid {
				if err := categoryExists(ctx, tx, ownerID, patch.CategoryID.ID); err != nil {
					return err
				}
			}
			categoryID = sql.NullInt64{Int64: patch.CategoryID.ID, Valid: patch.CategoryID.Valid}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE items SET name = ?, description = ?, condition = ?, notes = ?,
			        bin_id = ?, category_id = ?, photo_key = ?
			 WHERE id = ?`,
			name, description, condition, notes, binID, categoryID, photoKey, id,
		)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return GetItem(ctx, db, ownerID, id)
}

// DeleteItem deletes an item and its tag associations. Tags themselves are
// retained even when this removes their last association.
func DeleteItem(ctx context.Context, db *sql.DB, ownerID, id int64) error {
	return withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var one int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM items WHERE id = ? AND owner_id = ?`, id, ownerID,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return model.NewNotFound("item", id)
		}
		if err != nil {
			return fmt.Errorf("checking item: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, id); err != nil {
			return fmt.Errorf("deleting item tag rows: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		return tx.Commit()
	})
}
