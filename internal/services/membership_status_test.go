package services

import (
	"testing"
	"time"

	"gym_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	return mustDate(t, value)
}

func TestEvaluateMembership_Boundaries(t *testing.T) {
	today := date(t, "2024-01-20")

	tests := []struct {
		name    string
		endDate string
		want    models.MembershipStatus
	}{
		{"eleven days out is active", "2024-01-31", models.StatusActive},
		{"ten days out is expiring", "2024-01-30", models.StatusExpiring},
		{"one day out is expiring", "2024-01-21", models.StatusExpiring},
		{"ends today is expiring", "2024-01-20", models.StatusExpiring},
		{"ended yesterday is expired", "2024-01-19", models.StatusExpired},
		{"long expired stays expired", "2020-06-01", models.StatusExpired},
		{"far future is active", "2025-01-20", models.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endDate := date(t, tt.endDate)
			assert.Equal(t, tt.want, EvaluateMembership(&endDate, today))
		})
	}
}

func TestEvaluateMembership_WindowShiftsWithToday(t *testing.T) {
	// The same end date flips from Active to Expiring when today advances
	// one calendar day across the 10-day boundary.
	endDate := date(t, "2024-01-31")

	assert.Equal(t, models.StatusActive, EvaluateMembership(&endDate, date(t, "2024-01-20")))
	assert.Equal(t, models.StatusExpiring, EvaluateMembership(&endDate, date(t, "2024-01-21")))
}

func TestEvaluateMembership_NoEndDate(t *testing.T) {
	assert.Equal(t, models.StatusUnscheduled, EvaluateMembership(nil, date(t, "2024-01-20")))
	assert.Nil(t, DaysLeft(nil, date(t, "2024-01-20")))
}

func TestEvaluateMembership_IgnoresTimeOfDay(t *testing.T) {
	// Classification compares calendar days; the hour must not matter.
	endDate := time.Date(2024, time.January, 20, 1, 0, 0, 0, time.UTC)
	today := time.Date(2024, time.January, 20, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysUntil(endDate, today))
	assert.Equal(t, models.StatusExpiring, EvaluateMembership(&endDate, today))
}

func TestDaysLeft(t *testing.T) {
	endDate := date(t, "2024-01-30")
	got := DaysLeft(&endDate, date(t, "2024-01-20"))
	require.NotNil(t, got)
	assert.Equal(t, 10, *got)

	past := date(t, "2024-01-15")
	got = DaysLeft(&past, date(t, "2024-01-20"))
	require.NotNil(t, got)
	assert.Equal(t, -5, *got)
}

func TestComputeEndDate(t *testing.T) {
	start := date(t, "2024-02-01")
	assert.Equal(t, date(t, "2024-03-02"), computeEndDate(start, 30))
	assert.Equal(t, date(t, "2024-02-02"), computeEndDate(start, 1))

	// Month-length arithmetic follows the calendar, not a fixed 30 days.
	assert.Equal(t, date(t, "2025-02-01"), computeEndDate(start, 366))
}
