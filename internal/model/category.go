package model

import "time"

// Category is a classification label applicable to bins and items.
type Category struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the field constraints for a new category.
func (c *Category) Validate() error {
	if err := validateName("category", c.Name); err != nil {
		return err
	}
	return validateLen("category", "description", c.Description, MaxDescriptionLen)
}

// CategoryPatch is a partial update for a category.
type CategoryPatch struct {
	Name        OptString `json:"name"`
	Description OptString `json:"description"`
}

// Validate checks only the supplied fields. Clearing the required name fails.
func (p *CategoryPatch) Validate() error {
	if p.Name.Set {
		if err := validateName("category", p.Name.Value); err != nil {
			return err
		}
	}
	if p.Description.Set {
		if err := validateLen("category", "description", p.Description.Value, MaxDescriptionLen); err != nil {
			return err
		}
	}
	return nil
}
