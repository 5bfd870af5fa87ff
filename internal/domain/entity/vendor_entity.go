package entity

import (
	"time"
)

// Vendor is the aggregate root for the vendor domain.
// Passwords are stored as bcrypt hashes in Password field.
//
// FirmIDs keeps the ids of firms the vendor created, in creation order.
type Vendor struct {
	ID        string
	Username  string
	Email     string
	Password  string
	FirmIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
