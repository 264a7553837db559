package model

// Tag is a free-form label attachable to items. Norm is the trimmed,
// case-folded form of Name and is the per-owner uniqueness key; Name keeps
// the casing used at creation for display.
type Tag struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"-"`
	Name    string `json:"name"`
	Norm    string `json:"-"`
}
