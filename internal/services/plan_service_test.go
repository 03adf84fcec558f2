package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlan_Validation(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	svc := NewPlanService(f.planRepo, f.clientRepo, f.db)

	_, err := svc.CreatePlan(PlanRequest{PlanName: " ", Days: 30, Amount: 100})
	assert.ErrorIs(t, err, ErrPlanValidation)

	_, err = svc.CreatePlan(PlanRequest{PlanName: "Monthly", Days: 0, Amount: 100})
	assert.ErrorIs(t, err, ErrPlanValidation)

	_, err = svc.CreatePlan(PlanRequest{PlanName: "Monthly", Days: 30, Amount: -1})
	assert.ErrorIs(t, err, ErrPlanValidation)

	plan, err := svc.CreatePlan(PlanRequest{PlanName: "Monthly", Days: 30, Amount: 100})
	require.NoError(t, err)
	assert.NotZero(t, plan.ID)
}

func TestUpdatePlan_RejectedWhileReferenced(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	f.addClient(t, "member", plan, "2024-01-01", "2024-01-31")
	svc := NewPlanService(f.planRepo, f.clientRepo, f.db)

	_, err := svc.UpdatePlan(plan.ID, PlanRequest{PlanName: "Monthly", Days: 60, Amount: 1000})
	assert.ErrorIs(t, err, ErrPlanInUse)

	err = svc.DeletePlan(plan.ID)
	assert.ErrorIs(t, err, ErrPlanInUse)
}

func TestDeletePlan_AllowedOnceUnreferenced(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "member", plan, "2024-01-01", "2024-01-31")
	svc := NewPlanService(f.planRepo, f.clientRepo, f.db)

	require.NoError(t, f.clientRepo.DeleteClient(nil, client.ID))
	require.NoError(t, svc.DeletePlan(plan.ID))

	_, err := svc.GetPlanByID(plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestUpdatePlan_Unreferenced(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	svc := NewPlanService(f.planRepo, f.clientRepo, f.db)

	updated, err := svc.UpdatePlan(plan.ID, PlanRequest{PlanName: "Monthly Plus", Days: 45, Amount: 1400})
	require.NoError(t, err)
	assert.Equal(t, "Monthly Plus", updated.PlanName)
	assert.Equal(t, 45, updated.Days)
	assert.Equal(t, 1400.0, updated.Amount)
}
