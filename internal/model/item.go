package model

import "time"

// Item is a cataloged object. A nil BinID means the item is unfiled.
type Item struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	BinID       *int64    `json:"bin_id,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	PhotoKey    string    `json:"photo_key,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item conditions.
const (
	ConditionGood    = "Good"
	ConditionDamaged = "Damaged"
	ConditionBroken  = "Broken"
)

// ValidCondition reports whether c is an accepted condition value.
// The empty string is allowed; condition is optional.
func ValidCondition(c string) bool {
	return c == "" || c == ConditionGood || c == ConditionDamaged || c == ConditionBroken
}

// Validate checks the field constraints for a new item.
func (i *Item) Validate() error {
	if err := validateName("item", i.Name); err != nil {
		return err
	}
	if err := validateLen("item", "description", i.Description, MaxDescriptionLen); err != nil {
		return err
	}
	if err := validateLen("item", "notes", i.Notes, MaxNotesLen); err != nil {
		return err
	}
	if !ValidCondition(i.Condition) {
		return NewInvalid("item", "condition", "condition must be Good, Damaged or Broken")
	}
	return nil
}

// ItemPatch is a partial update for an item.
type ItemPatch struct {
	Name        OptString `json:"name"`
	Description OptString `json:"description"`
	Condition   OptString `json:"condition"`
	Notes       OptString `json:"notes"`
	BinID       OptID     `json:"bin_id"`
	CategoryID  OptID     `json:"category_id"`
	PhotoKey    OptString `json:"photo_key"`
}

// Validate checks only the supplied fields.
func (p *ItemPatch) Validate() error {
	if p.Name.Set {
		if err := validateName("item", p.Name.Value); err != nil {
			return err
		}
	}
	if p.Description.Set {
		if err := validateLen("item", "description", p.Description.Value, MaxDescriptionLen); err != nil {
			return err
		}
	}
	if p.Notes.Set {
		if err := validateLen("item", "notes", p.Notes.Value, MaxNotesLen); err != nil {
			return err
		}
	}
	if p.Condition.Set && !ValidCondition(p.Condition.Value) {
		return NewInvalid("item", "condition", "condition must be Good, Damaged or Broken")
	}
	return nil
}
