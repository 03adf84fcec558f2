package models

import "time"

// Gender is a closed set so distribution reports can be exhaustive.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// AllGenders returns every valid gender value, in report order.
func AllGenders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

func (g Gender) IsValid() bool {
	for _, v := range AllGenders() {
		if g == v {
			return true
		}
	}
	return false
}

// BloodGroup is a closed set of the eight ABO/Rh combinations.
type BloodGroup string

const (
	BloodAPos  BloodGroup = "A+"
	BloodANeg  BloodGroup = "A-"
	BloodBPos  BloodGroup = "B+"
	BloodBNeg  BloodGroup = "B-"
	BloodABPos BloodGroup = "AB+"
	BloodABNeg BloodGroup = "AB-"
	BloodOPos  BloodGroup = "O+"
	BloodONeg  BloodGroup = "O-"
)

func AllBloodGroups() []BloodGroup {
	return []BloodGroup{BloodAPos, BloodANeg, BloodBPos, BloodBNeg, BloodABPos, BloodABNeg, BloodOPos, BloodONeg}
}

func (b BloodGroup) IsValid() bool {
	for _, v := range AllBloodGroups() {
		if b == v {
			return true
		}
	}
	return false
}

// MembershipStatus is the derived membership state of a client.
// Unscheduled means the client has no end_date and is neither active nor expired.
type MembershipStatus string

const (
	StatusActive      MembershipStatus = "Active"
	StatusExpiring    MembershipStatus = "Expiring"
	StatusExpired     MembershipStatus = "Expired"
	StatusUnscheduled MembershipStatus = "Unscheduled"
)

// Client represents a gym member.
// PlanID/StartDate/EndDate form the single subscription window; they change
// only through renewal, never through a demographic update.
type Client struct {
	ID          int64      `json:"id" db:"id"`
	ClientName  string     `json:"clientname" db:"clientname" binding:"required"`
	PhoneNumber string     `json:"phonenumber" db:"phonenumber"`
	Email       string     `json:"email" db:"email"`
	DateOfBirth *time.Time `json:"dateofbirth,omitempty" db:"dateofbirth"`
	Gender      Gender     `json:"gender" db:"gender"`
	BloodGroup  BloodGroup `json:"bloodgroup" db:"bloodgroup"`
	Address     *string    `json:"address,omitempty" db:"address"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	Height      *float64   `json:"height,omitempty" db:"height"`
	Weight      *float64   `json:"weight,omitempty" db:"weight"`
	PlanID      int64      `json:"plan_id" db:"plan_id"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	Plan        *Plan      `json:"plan,omitempty"` // Populated by joins with the plans table
}
