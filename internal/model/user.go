package model

import "time"

// User is an account holder. Each user is a tenant: the user id is the
// owner id every catalog record and query is scoped to.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
