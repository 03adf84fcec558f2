package services

import (
	"time"

	"gym_crm_backend/internal/models"
)

// ExpiringWindowDays is the horizon within which an active membership is
// reported as Expiring. The end date itself counts (day 0..10 inclusive).
const ExpiringWindowDays = 10

// Clock provides the current date so status evaluation and aggregation can be
// tested with a fixed "today".
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time {
	return time.Now()
}

// NewSystemClock returns a Clock backed by the wall clock.
func NewSystemClock() Clock {
	return systemClock{}
}

// toCalendarDay drops the time-of-day and zone so two dates compare by
// calendar day only. This keeps classification stable across day boundaries.
func toCalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole calendar days from today until endDate.
// Negative means endDate is in the past.
func DaysUntil(endDate, today time.Time) int {
	return int(toCalendarDay(endDate).Sub(toCalendarDay(today)).Hours() / 24)
}

// EvaluateMembership classifies a client's membership from its end date.
// It is the single source of truth for "is this client active": both the
// mutation path and the aggregation path call it, so the two cannot disagree.
func EvaluateMembership(endDate *time.Time, today time.Time) models.MembershipStatus {
	if endDate == nil {
		return models.StatusUnscheduled
	}
	days := DaysUntil(*endDate, today)
	switch {
	case days < 0:
		return models.StatusExpired
	case days <= ExpiringWindowDays:
		return models.StatusExpiring
	default:
		return models.StatusActive
	}
}

// DaysLeft returns the remaining calendar days of the membership, or nil for
// clients without an end date.
func DaysLeft(endDate *time.Time, today time.Time) *int {
	if endDate == nil {
		return nil
	}
	days := DaysUntil(*endDate, today)
	return &days
}
