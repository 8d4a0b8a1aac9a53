package domain

import "time"

// User represents an account in the system. HashedPassword is only
// populated on the persistence path and must never be serialized outward.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	FullName       string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
