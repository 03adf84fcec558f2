package services

import (
	"testing"

	"gym_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenew_SetsWindowFromPlanDuration(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "arman", plan, "2024-01-01", "2024-01-31")

	resp, err := f.subscriptionService().Renew(client.ID, RenewRequest{
		PlanID:    plan.ID,
		StartDate: "2024-02-01",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.StartDate)
	require.NotNil(t, resp.EndDate)
	assert.Equal(t, "2024-02-01", *resp.StartDate)
	assert.Equal(t, "2024-03-02", *resp.EndDate)
	assert.Equal(t, plan.ID, resp.PlanID)
}

func TestRenew_ReplacesWindowInsteadOfStacking(t *testing.T) {
	// Renewing while 20 days remain must not add those days to the new
	// window; the old window is discarded entirely.
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "dana", plan, "2023-12-31", "2024-01-30")

	resp, err := f.subscriptionService().Renew(client.ID, RenewRequest{
		PlanID:    plan.ID,
		StartDate: "2024-01-10",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-10", *resp.StartDate)
	assert.Equal(t, "2024-02-09", *resp.EndDate)
}

func TestRenew_AfterExpiryDoesNotSubtractMissedDays(t *testing.T) {
	f := newFixture(t, "2024-03-15")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "timur", plan, "2024-01-01", "2024-01-31")

	resp, err := f.subscriptionService().Renew(client.ID, RenewRequest{
		PlanID:    plan.ID,
		StartDate: "2024-03-15",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15", *resp.StartDate)
	assert.Equal(t, "2024-04-14", *resp.EndDate)
	assert.Equal(t, string(models.StatusActive), resp.Status)
}

func TestRenew_SwitchesPlan(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	monthly := f.planRepo.addPlan("Monthly", 30, 1000)
	yearly := f.planRepo.addPlan("Yearly", 365, 9000)
	client := f.addClient(t, "aigerim", monthly, "2024-01-01", "2024-01-31")

	resp, err := f.subscriptionService().Renew(client.ID, RenewRequest{
		PlanID:    yearly.ID,
		StartDate: "2024-01-10",
	})
	require.NoError(t, err)

	assert.Equal(t, yearly.ID, resp.PlanID)
	assert.Equal(t, "Yearly", resp.PlanName)
	assert.Equal(t, "2025-01-09", *resp.EndDate)
}

func TestRenew_UnknownClient(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)

	_, err := f.subscriptionService().Renew(999, RenewRequest{PlanID: plan.ID, StartDate: "2024-01-10"})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestRenew_UnknownPlan(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "bek", plan, "2024-01-01", "2024-01-31")

	_, err := f.subscriptionService().Renew(client.ID, RenewRequest{PlanID: 42, StartDate: "2024-01-10"})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestRenew_MalformedStartDate(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "sara", plan, "2024-01-01", "2024-01-31")

	_, err := f.subscriptionService().Renew(client.ID, RenewRequest{PlanID: plan.ID, StartDate: "10-01-2024"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
