package models

import "time"

// StaffRole is a closed set of staff positions.
type StaffRole string

const (
	RoleTrainer      StaffRole = "Trainer"
	RoleManager      StaffRole = "Manager"
	RoleReceptionist StaffRole = "Receptionist"
	RoleAdmin        StaffRole = "Admin"
)

func AllStaffRoles() []StaffRole {
	return []StaffRole{RoleTrainer, RoleManager, RoleReceptionist, RoleAdmin}
}

func (r StaffRole) IsValid() bool {
	for _, v := range AllStaffRoles() {
		if r == v {
			return true
		}
	}
	return false
}

// StaffMember represents an employee of the gym.
type StaffMember struct {
	ID          int64     `json:"id" db:"id"`
	StaffName   string    `json:"staffname" db:"staffname" binding:"required"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phonenumber" db:"phonenumber"`
	Role        StaffRole `json:"role" db:"role"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
