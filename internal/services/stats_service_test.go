package services

import (
	"testing"

	"gym_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats_EmptySystem(t *testing.T) {
	f := newFixture(t, "2024-01-20")

	stats, err := f.statsService().DashboardStats()
	require.NoError(t, err)

	assert.Equal(t, &models.DashboardStats{}, stats)

	due, err := f.statsService().DueMembers()
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDashboardStats_Counters(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)

	f.addClient(t, "active", plan, "2024-01-01", "2024-02-15")
	f.addClient(t, "expiring", plan, "2023-12-30", "2024-01-25")
	// One expiry 19 days ago (inside the 30-day window), one far outside it.
	f.addClient(t, "expired-recent", plan, "2023-12-01", "2024-01-01")
	f.addClient(t, "expired-old", plan, "2023-06-01", "2023-07-01")
	f.addClient(t, "unscheduled", plan, "", "")
	f.leadRepo.CreateLead(nil, &models.Lead{Name: "prospect", PhoneNumber: "+7"})

	stats, err := f.statsService().DashboardStats()
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalMembers)
	assert.Equal(t, 2, stats.ActiveMembers) // active + expiring
	assert.Equal(t, 1, stats.ExpiringIn10Days)
	assert.Equal(t, 1, stats.ExpiredInLast30Days)
	assert.Equal(t, 1, stats.TotalLeads)
}

func TestDashboardStats_CountsBirthdays(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)

	birthday := f.addClient(t, "birthday", plan, "2024-01-01", "2024-02-15")
	dob := mustDate(t, "1990-01-20")
	birthday.DateOfBirth = &dob
	f.clientRepo.clients[birthday.ID] = birthday

	other := f.addClient(t, "other", plan, "2024-01-01", "2024-02-15")
	otherDob := mustDate(t, "1990-06-15")
	other.DateOfBirth = &otherDob
	f.clientRepo.clients[other.ID] = other

	stats, err := f.statsService().DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BirthdaysToday)

	matches, err := f.statsService().BirthdaysToday()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "birthday", matches[0].ClientName)
}

func TestDueMembers_OnlyPositiveBalances(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)

	owing := f.addClient(t, "owing", plan, "2024-01-01", "2024-01-31")
	settled := f.addClient(t, "settled", plan, "2024-01-01", "2024-01-31")
	overpaid := f.addClient(t, "overpaid", plan, "2024-01-01", "2024-01-31")

	f.addPayment(t, owing.ID, 250, "2024-01-02")
	f.addPayment(t, settled.ID, 1000, "2024-01-02")
	f.addPayment(t, overpaid.ID, 1200, "2024-01-02")

	due, err := f.statsService().DueMembers()
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, owing.ID, due[0].ClientID)
	assert.Equal(t, 750.0, due[0].BalanceDue)
	assert.Equal(t, 250.0, due[0].TotalPaid)
}

func TestRevenue_DailyBucketsZeroFilled(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "payer", plan, "2024-01-01", "2024-01-31")

	f.addPayment(t, client.ID, 100, "2024-01-20")
	f.addPayment(t, client.ID, 50, "2024-01-18")
	f.addPayment(t, client.ID, 25, "2024-01-18")
	f.addPayment(t, client.ID, 999, "2023-12-01") // outside the 7-day window

	points, err := f.statsService().Revenue("daily")
	require.NoError(t, err)

	require.Len(t, points, 7)
	assert.Equal(t, "2024-01-14", points[0].Period)
	assert.Equal(t, "2024-01-20", points[6].Period)

	var total float64
	for _, p := range points {
		total += p.TotalRevenue
	}
	assert.Equal(t, 175.0, total)
	assert.Equal(t, 75.0, points[4].TotalRevenue) // 2024-01-18
	assert.Equal(t, 100.0, points[6].TotalRevenue)
	assert.Equal(t, 0.0, points[0].TotalRevenue)
}

func TestRevenue_MonthlyWindowLength(t *testing.T) {
	f := newFixture(t, "2024-01-20")

	points, err := f.statsService().Revenue("monthly")
	require.NoError(t, err)

	require.Len(t, points, 12)
	assert.Equal(t, "2023-02-01", points[0].Period)
	assert.Equal(t, "2024-01-01", points[11].Period)
	for _, p := range points {
		assert.Equal(t, 0.0, p.TotalRevenue)
	}
}

func TestRevenue_UnknownPeriod(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	_, err := f.statsService().Revenue("hourly")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestClientGrowth_BucketsByStartDate(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)

	f.addClient(t, "jan", plan, "2024-01-05", "2024-02-04")
	f.addClient(t, "jan2", plan, "2024-01-18", "2024-02-17")
	f.addClient(t, "old", plan, "2020-01-01", "2020-01-31")
	f.addClient(t, "unscheduled", plan, "", "")

	points, err := f.statsService().ClientGrowth("monthly")
	require.NoError(t, err)

	require.Len(t, points, 24)
	assert.Equal(t, "2024-01-01", points[23].Period)
	assert.Equal(t, 2, points[23].NewClients)
}

func TestRevenueByPlan_AttributesPaymentsToCurrentPlan(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	monthly := f.planRepo.addPlan("Monthly", 30, 1000)
	yearly := f.planRepo.addPlan("Yearly", 365, 9000)

	a := f.addClient(t, "a", monthly, "2024-01-01", "2024-01-31")
	b := f.addClient(t, "b", yearly, "2024-01-01", "2024-12-31")

	f.addPayment(t, a.ID, 500, "2024-01-02")
	f.addPayment(t, b.ID, 9000, "2024-01-02")

	report, err := f.statsService().RevenueByPlan()
	require.NoError(t, err)

	require.Len(t, report, 2)
	assert.Equal(t, "Yearly", report[0].PlanName)
	assert.Equal(t, 9000.0, report[0].TotalRevenue)
	assert.Equal(t, "Monthly", report[1].PlanName)
	assert.Equal(t, 500.0, report[1].TotalRevenue)
}

func TestPlanDistribution_IncludesEmptyPlans(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	monthly := f.planRepo.addPlan("Monthly", 30, 1000)
	f.planRepo.addPlan("Yearly", 365, 9000)

	f.addClient(t, "a", monthly, "2024-01-01", "2024-01-31")
	f.addClient(t, "b", monthly, "2024-01-01", "2024-01-31")

	report, err := f.statsService().PlanDistribution()
	require.NoError(t, err)

	require.Len(t, report, 2)
	assert.Equal(t, "Monthly", report[0].PlanName)
	assert.Equal(t, 2, report[0].ClientCount)
	assert.Equal(t, "Yearly", report[1].PlanName)
	assert.Equal(t, 0, report[1].ClientCount)
}

func TestPaymentMethodStats_ZeroFilledOverClosedSet(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	client := f.addClient(t, "a", plan, "2024-01-01", "2024-01-31")

	cash := models.Payment{ClientID: client.ID, Amount: 100, Method: models.MethodCash, PaidAt: mustDate(t, "2024-01-02")}
	card := models.Payment{ClientID: client.ID, Amount: 300, Method: models.MethodCreditCard, PaidAt: mustDate(t, "2024-01-03")}
	f.paymentRepo.CreatePayment(nil, &cash)
	f.paymentRepo.CreatePayment(nil, &card)

	report, err := f.statsService().PaymentMethodStats()
	require.NoError(t, err)

	require.Len(t, report, 4)
	byMethod := map[string]models.PaymentMethodStat{}
	for _, stat := range report {
		byMethod[stat.Method] = stat
	}
	assert.Equal(t, 1, byMethod["Cash"].Count)
	assert.Equal(t, 100.0, byMethod["Cash"].TotalAmount)
	assert.Equal(t, 300.0, byMethod["Credit Card"].TotalAmount)
	assert.Equal(t, 0, byMethod["Debit Card"].Count)
	assert.Equal(t, 0, byMethod["Bank Transfer"].Count)
}

func TestMembershipStatusDistribution(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	f.addClient(t, "active", plan, "2024-01-01", "2024-02-15")
	f.addClient(t, "expired", plan, "2023-11-01", "2023-12-01")
	f.addClient(t, "unscheduled", plan, "", "")

	report, err := f.statsService().MembershipStatusDistribution()
	require.NoError(t, err)

	byStatus := map[string]int{}
	for _, item := range report {
		byStatus[item.Status] = item.Count
	}
	assert.Equal(t, 1, byStatus["Active"])
	assert.Equal(t, 0, byStatus["Expiring"])
	assert.Equal(t, 1, byStatus["Expired"])
	assert.Equal(t, 1, byStatus["Unscheduled"])
}

func TestAgeDistribution_Brackets(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)

	setDOB := func(name, dob string) {
		client := f.addClient(t, name, plan, "2024-01-01", "2024-02-15")
		parsed := mustDate(t, dob)
		client.DateOfBirth = &parsed
		f.clientRepo.clients[client.ID] = client
	}

	setDOB("teen", "2008-05-01")       // 15
	setDOB("young", "2000-05-01")      // 23
	setDOB("boundary25", "1998-06-01") // turns 26 later this year, still 25
	setDOB("mid", "1990-01-01")        // 34
	setDOB("senior", "1960-01-01")     // 64
	f.addClient(t, "no-dob", plan, "2024-01-01", "2024-02-15")

	report, err := f.statsService().AgeDistribution()
	require.NoError(t, err)

	byBracket := map[string]int{}
	for _, item := range report {
		byBracket[item.AgeGroup] = item.Count
	}
	assert.Equal(t, 1, byBracket["<18"])
	assert.Equal(t, 2, byBracket["18-25"])
	assert.Equal(t, 1, byBracket["26-35"])
	assert.Equal(t, 0, byBracket["36-45"])
	assert.Equal(t, 0, byBracket["46-55"])
	assert.Equal(t, 1, byBracket["55+"])
}

func TestGenderDistribution_ZeroFilled(t *testing.T) {
	f := newFixture(t, "2024-01-20")
	plan := f.planRepo.addPlan("Monthly", 30, 1000)
	f.addClient(t, "a", plan, "2024-01-01", "2024-02-15")
	f.addClient(t, "b", plan, "2024-01-01", "2024-02-15")

	report, err := f.statsService().GenderDistribution()
	require.NoError(t, err)

	require.Len(t, report, 3)
	byGender := map[string]int{}
	for _, item := range report {
		byGender[item.Gender] = item.Count
	}
	assert.Equal(t, 2, byGender["Male"])
	assert.Equal(t, 0, byGender["Female"])
	assert.Equal(t, 0, byGender["Other"])
}
