package model

import "time"

// Bin is a storage location, optionally nested inside another bin. The
// parent pointer is a plain id; hierarchy traversal is repeated id lookup
// against the store, never a nested object graph.
type Bin struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	ParentBinID *int64    `json:"parent_bin_id,omitempty"`
	PhotoKey    string    `json:"photo_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the field constraints for a new bin.
func (b *Bin) Validate() error {
	if err := validateName("bin", b.Name); err != nil {
		return err
	}
	return validateLen("bin", "location", b.Location, MaxLocationLen)
}

// BinPatch is a partial update for a bin.
type BinPatch struct {
	Name        OptString `json:"name"`
	Location    OptString `json:"location"`
	CategoryID  OptID     `json:"category_id"`
	ParentBinID OptID     `json:"parent_bin_id"`
	PhotoKey    OptString `json:"photo_key"`
}

// Validate checks only the supplied fields.
func (p *BinPatch) Validate() error {
	if p.Name.Set {
		if err := validateName("bin", p.Name.Value); err != nil {
			return err
		}
	}
	if p.Location.Set {
		if err := validateLen("bin", "location", p.Location.Value, MaxLocationLen); err != nil {
			return err
		}
	}
	return nil
}
