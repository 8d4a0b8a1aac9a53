package domain

import "time"

// Item is a user-owned record. Title is unique per owner, not globally.
type Item struct {
	ID          int64
	Title       string
	Description string
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
