package models

import "time"

// Lead is a prospect who has not joined yet. Converting a lead means
// creating a client and deleting the lead.
type Lead struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	PhoneNumber string    `json:"phonenumber" db:"phonenumber"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
