package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spookystock/spookystock/internal/model"
)

// CreateBin creates a new bin for the owner. Category and parent references
// must resolve to records of the same owner.
func CreateBin(ctx context.Context, db *sql.DB, ownerID int64, bin model.Bin) (*model.Bin, error) {
	if err := bin.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if bin.CategoryID != nil {
			if err := categoryExists(ctx, tx, ownerID, *bin.CategoryID); err != nil {
				return err
			}
		}
		if bin.ParentBinID != nil {
			if err := binExists(ctx, tx, ownerID, *bin.ParentBinID); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO bins (owner_id, name, location, category_id, parent_bin_id, photo_key)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ownerID, bin.Name, bin.Location, bin.CategoryID, bin.ParentBinID, nullable(bin.PhotoKey),
		)
		if err != nil {
			return fmt.Errorf("creating bin: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting bin id: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return GetBin(ctx, db, ownerID, id)
}

// GetBin returns a bin by id, scoped to the owner.
func GetBin(ctx context.Context, db *sql.DB, ownerID, id int64) (*model.Bin, error) {
	b := &model.Bin{}
	var location, photoKey sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, location, category_id, parent_bin_id, photo_key, created_at
		 FROM bins WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&b.ID, &b.OwnerID, &b.Name, &location, &b.CategoryID, &b.ParentBinID, &photoKey, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.NewNotFound("bin", id)
	}
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("getting bin: %w", err))
	}
	b.Location = location.String
	b.PhotoKey = photoKey.String
	return b, nil
}

// ListBins returns the owner's bins in creation order.
func ListBins(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Bin, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, owner_id, name, location, category_id, parent_bin_id, photo_key, created_at
		 FROM bins WHERE owner_id = ? ORDER BY id`, ownerID,
	)
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("listing bins: %w", err))
	}
	defer rows.Close()

	var bins []model.Bin
	for rows.Next() {
		var b model.Bin
		var location, photoKey sql.NullString
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &location, &b.CategoryID, &b.ParentBinID, &photoKey, &b.CreatedAt); err != nil {
			return nil, model.NewStorage(fmt.Errorf("scanning bin: %w", err))
		}
		b.Location = location.String
		b.PhotoKey = photoKey.String
		bins = append(bins, b)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorage(err)
	}
	return bins, nil
}

// UpdateBin applies a partial update. Setting a parent runs the cycle check;
// on rejection the bin is left unchanged.
func UpdateBin(ctx context.Context, db *sql.DB, ownerID, id int64, patch model.BinPatch) (*model.Bin, error) {
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
		var location, photoKey sql.NullString
		var categoryID, parentBinID sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT name, location, category_id, parent_bin_id, photo_key
			 FROM bins WHERE id = ? AND owner_id = ?`, id, ownerID,
		).Scan(&name, &location, &categoryID, &parentBinID, &photoKey)
		if err == sql.ErrNoRows {
			return model.NewNotFound("bin", id)
		}
		if err != nil {
			return fmt.Errorf("loading bin: %w", err)
		}

		if patch.Name.Set {
			name = patch.Name.Value
		}
		if patch.Location.Set {
			location = sql.NullString{String: patch.Location.Value, Valid: patch.Location.Valid}
		}
		if patch.PhotoKey.Set {
			photoKey = sql.NullString{String: patch.PhotoKey.Value, Valid: patch.PhotoKey.Valid}
		}
		if patch.CategoryID.Set {
			if patch.CategoryID.Valid {
				if err := categoryExists(ctx, tx, ownerID, patch.CategoryID.ID); err != nil {
					return err
				}
			}
			categoryID = sql.NullInt64{Int64: patch.CategoryID.ID, Valid: patch.CategoryID.Valid}
		}
		if patch.ParentBinID.Set {
			if patch.ParentBinID.Valid {
				if err := binExists(ctx, tx, ownerID, patch.ParentBinID.ID); err != nil {
					return err
				}
				cyclic, err := wouldCycle(ctx, tx, ownerID, id, patch.ParentBinID.ID)
				if err != nil {
					return err
				}
				if cyclic {
					return model.NewCycle(id)
				}
			}
			parentBinID = sql.NullInt64{Int64: patch.ParentBinID.ID, Valid: patch.ParentBinID.Valid}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE bins SET name = ?, location = ?, category_id = ?, parent_bin_id = ?, photo_key = ?
			 WHERE id = ?`,
			name, location, categoryID, parentBinID, photoKey, id,
		)
		if err != nil {
			return fmt.Errorf("updating bin: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return GetBin(ctx, db, ownerID, id)
}

// DeleteBin deletes a bin, atomically splicing the hierarchy around it:
// direct children are reparented to the deleted bin's own parent (or become
// roots), and contained items become unfiled. Items are never deleted as a
// side effect.
func DeleteBin(ctx context.Context, db *sql.DB, ownerID, id int64) error {
	return withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var parent sql.NullInt64
		err = tx.QueryRowContext(ctx,
			`SELECT parent_bin_id FROM bins WHERE id = ? AND owner_id = ?`, id, ownerID,
		).Scan(&parent)
		if err == sql.ErrNoRows {
			return model.NewNotFound("bin", id)
		}
		if err != nil {
			return fmt.Errorf("loading bin: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE bins SET parent_bin_id = ? WHERE parent_bin_id = ? AND owner_id = ?`,
			parent, id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("reparenting child bins: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE items SET bin_id = NULL WHERE bin_id = ? AND owner_id = ?`,
			id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("unfiling items: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM bins WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting bin: %w", err)
		}
		return tx.Commit()
	})
}

// wouldCycle reports whether making parentID the parent of binID would make
// binID its own ancestor. The walk follows parent pointers starting at the
// candidate and is bounded by the owner's bin count, so a corrupt chain can
// never loop forever. Self-parenting is the walk's first step.
func wouldCycle(ctx context.Context, tx *sql.Tx, ownerID, binID, parentID int64) (bool, error) {
	var bound int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bins WHERE owner_id = ?`, ownerID,
	).Scan(&bound); err != nil {
		return false, fmt.Errorf("counting bins: %w", err)
	}

	cur := parentID
	for i := 0; i <= bound; i++ {
		if cur == binID {
			return true, nil
		}
		var next sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT parent_bin_id FROM bins WHERE id = ? AND owner_id = ?`, cur, ownerID,
		).Scan(&next)
		if err == sql.ErrNoRows || (err == nil && !next.Valid) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walking ancestor chain: %w", err)
		}
		cur = next.Int64
	}
	return false, nil
}

// binExists verifies a bin reference against the owner's records.
func binExists(ctx context.Context, tx *sql.Tx, ownerID, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM bins WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return model.NewNotFound("bin", id)
	}
	if err != nil {
		return fmt.Errorf("checking bin: %w", err)
	}
	return nil
}

// categoryExists verifies a category reference against the owner's records.
func categoryExists(ctx context.Context, tx *sql.Tx, ownerID, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return model.NewNotFound("category", id)
	}
	if err != nil {
		return fmt.Errorf("checking category: %w", err)
	}
	return nil
}

// nullable converts an empty string to a SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
