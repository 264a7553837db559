package model

import "unicode/utf8"

// Field length bounds, counted in runes.
const (
	MaxNameLen        = 100
	MaxLocationLen    = 200
	MaxDescriptionLen = 500
	MaxNotesLen       = 1000
)

func validateName(entity, name string) error {
	if name == "" {
		return NewInvalid(entity, "name", "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return NewInvalid(entity, "name", "name exceeds 100 characters")
	}
	return nil
}

func validateLen(entity, field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return NewInvalid(entity, field, "value too long")
	}
	return nil
}
