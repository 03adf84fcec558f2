package models

import "time"

// Plan is a membership product: a duration in days and a price.
type Plan struct {
	ID        int64     `json:"id" db:"id"`
	PlanName  string    `json:"planname" db:"planname" binding:"required"`
	Days      int       `json:"days" db:"days" binding:"required"`
	Amount    float64   `json:"amount" db:"amount" binding:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
