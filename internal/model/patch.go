package model

import "encoding/json"

// Patch field wrappers. A zero wrapper means the field was absent from the
// request and the stored value stays untouched; a wrapper decoded from JSON
// null clears the value. This is the only way to tell "not supplied" apart
// from "explicitly cleared" in a partial update.

// OptString is an optional string field in a patch.
type OptString struct {
	Set   bool
	Valid bool // false when explicitly cleared
	Value string
}

// String returns a supplied OptString.
func String(s string) OptString {
	return OptString{Set: true, Valid: true, Value: s}
}

// NullString returns an OptString that clears the field.
func NullString() OptString {
	return OptString{Set: true}
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		o.Value = ""
		return nil
	}
	o.Valid = true
	return json.Unmarshal(data, &o.Value)
}

// OptID is an optional reference field in a patch.
type OptID struct {
	Set   bool
	Valid bool
	ID    int64
}

// Ref returns a supplied OptID.
func Ref(id int64) OptID {
	return OptID{Set: true, Valid: true, ID: id}
}

// NullRef returns an OptID that clears the reference.
func NullRef() OptID {
	return OptID{Set: true}
}

func (o *OptID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		o.ID = 0
		return nil
	}
	o.Valid = true
	return json.Unmarshal(data, &o.ID)
}
