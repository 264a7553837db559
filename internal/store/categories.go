package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spookystock/spookystock/internal/model"
)

// CreateCategory creates a new category for the owner.
func CreateCategory(ctx context.Context, db *sql.DB, ownerID int64, name, description string) (*model.Category, error) {
	c := model.Category{Name: name, Description: description}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := withRetry(ctx, func() error {
		result, err := db.ExecContext(ctx,
			`INSERT INTO categories (owner_id, name, description) VALUES (?, ?, ?)`,
			ownerID, name, description,
		)
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting category id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetCategory(ctx, db, ownerID, id)
}

// GetCategory returns a category by id. A category owned by someone else is
// reported as not found, same as absence.
func GetCategory(ctx context.Context, db *sql.DB, ownerID, id int64) (*model.Category, error) {
	c := &model.Category{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&c.ID, &c.OwnerID, &c.Name, &description, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.NewNotFound("category", id)
	}
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("getting category: %w", err))
	}
	c.Description = description.String
	return c, nil
}

// ListCategories returns the owner's categories in creation order.
func ListCategories(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM categories WHERE owner_id = ? ORDER BY id`, ownerID,
	)
	if err != nil {
		return nil, model.NewStorage(fmt.Errorf("listing categories: %w", err))
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &description, &c.CreatedAt); err != nil {
			return nil, model.NewStorage(fmt.Errorf("scanning category: %w", err))
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewStorage(err)
	}
	return categories, nil
}

// UpdateCategory applies a partial update. Only supplied fields change.
func UpdateCategory(ctx context.Context, db *sql.DB, ownerID, id int64, patch model.CategoryPatch) (*model.Category, error) {
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
		var description sql.NullString
		err = tx.QueryRowContext(ctx,
			`SELECT name, description FROM categories WHERE id = ? AND owner_id = ?`,
			id, ownerID,
		).Scan(&name, &description)
		if err == sql.ErrNoRows {
			return model.NewNotFound("category", id)
		}
		if err != nil {
			return fmt.Errorf("loading category: %w", err)
		}

		if patch.Name.Set {
			name = patch.Name.Value
		}
		if patch.Description.Set {
			description = sql.NullString{String: patch.Description.Value, Valid: patch.Description.Valid}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
			name, description, id,
		)
		if err != nil {
			return fmt.Errorf("updating category: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return GetCategory(ctx, db, ownerID, id)
}

// DeleteCategory deletes a category. The delete is blocked while any bin or
// item of the owner still references it; callers must clear or reassign
// those references first.
func DeleteCategory(ctx context.Context, db *sql.DB, ownerID, id int64) error {
	return withRetry(ctx, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		var exists int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return model.NewNotFound("category", id)
		}
		if err != nil {
			return fmt.Errorf("checking category: %w", err)
		}

		var refs int
		err = tx.QueryRowContext(ctx,
			`SELECT (SELECT COUNT(*) FROM bins WHERE category_id = ?) +
			        (SELECT COUNT(*) FROM items WHERE category_id = ?)`, id, id,
		).Scan(&refs)
		if err != nil {
			return fmt.Errorf("counting category references: %w", err)
		}
		if refs > 0 {
			return model.NewConflict("category", id, fmt.Sprintf("still referenced by %d bins or items", refs))
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}
		return tx.Commit()
	})
}
