package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
)

// ErrInvalidPeriod is returned for report periods outside daily|weekly|monthly|yearly.
var ErrInvalidPeriod = errors.New("invalid report period, use daily|weekly|monthly|yearly")

const (
	expiredLookbackDays    = 30
	dashboardStatsCacheTTL = 30 * time.Second
)

// Report windows, counted in buckets of the chosen granularity.
var (
	revenueWindow = map[string]int{"daily": 7, "weekly": 8, "monthly": 12, "yearly": 5}
	growthWindow  = map[string]int{"daily": 30, "weekly": 12, "monthly": 24, "yearly": 5}
)

// --- StatsService Interface ---
// Every counter and distribution is computed by scanning current entity state
// through EvaluateMembership, so dashboard numbers can never disagree with the
// status shown on an individual client.
type StatsService interface {
	DashboardStats() (*models.DashboardStats, error)
	DueMembers() ([]models.DueMember, error)
	BirthdaysToday() ([]ClientResponse, error)
	Revenue(period string) ([]models.RevenuePoint, error)
	ClientGrowth(period string) ([]models.GrowthPoint, error)
	RevenueByPlan() ([]models.PlanRevenue, error)
	PlanDistribution() ([]models.PlanDistributionItem, error)
	PaymentMethodStats() ([]models.PaymentMethodStat, error)
	MembershipStatusDistribution() ([]models.StatusCount, error)
	AgeDistribution() ([]models.AgeGroupCount, error)
	GenderDistribution() ([]models.GenderCount, error)
}

// --- statsService Implementation ---
type statsService struct {
	clientRepo  repositories.ClientRepository
	paymentRepo repositories.PaymentRepository
	planRepo    repositories.PlanRepository
	leadRepo    repositories.LeadRepository
	cache       cache.Cache
	clock       Clock
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(
	clientRepo repositories.ClientRepository,
	paymentRepo repositories.PaymentRepository,
	planRepo repositories.PlanRepository,
	leadRepo repositories.LeadRepository,
	c cache.Cache,
	clock Clock,
) StatsService {
	return &statsService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		planRepo:    planRepo,
		leadRepo:    leadRepo,
		cache:       c,
		clock:       clock,
	}
}

func (s *statsService) DashboardStats() (*models.DashboardStats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(context.Background(), dashboardStatsCacheKey); err == nil {
			var stats models.DashboardStats
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for dashboard: %w", err)
	}
	totalLeads, err := s.leadRepo.CountLeads()
	if err != nil {
		return nil, fmt.Errorf("failed to count leads for dashboard: %w", err)
	}

	today := s.clock.Today()
	stats := &models.DashboardStats{TotalMembers: len(clients), TotalLeads: totalLeads}
	for i := range clients {
		client := &clients[i]
		switch EvaluateMembership(client.EndDate, today) {
		case models.StatusActive:
			stats.ActiveMembers++
		case models.StatusExpiring:
			stats.ActiveMembers++
			stats.ExpiringIn10Days++
		case models.StatusExpired:
			if DaysUntil(*client.EndDate, today) >= -expiredLookbackDays {
				stats.ExpiredInLast30Days++
			}
		}
		if isBirthday(client.DateOfBirth, today) {
			stats.BirthdaysToday++
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(context.Background(), dashboardStatsCacheKey, string(raw), dashboardStatsCacheTTL)
		}
	}
	return stats, nil
}

// DueMembers lists every client whose payments do not yet cover the plan price.
func (s *statsService) DueMembers() ([]models.DueMember, error) {
	clients, totals, err := s.clientsWithTotals()
	if err != nil {
		return nil, err
	}

	due := []models.DueMember{}
	for i := range clients {
		client := &clients[i]
		balance := client.Plan.Amount - totals[client.ID]
		if balance <= 0 {
			continue
		}
		due = append(due, models.DueMember{
			ClientID:    client.ID,
			ClientName:  client.ClientName,
			PhoneNumber: client.PhoneNumber,
			PlanName:    client.Plan.PlanName,
			PlanAmount:  client.Plan.Amount,
			TotalPaid:   totals[client.ID],
			BalanceDue:  balance,
			EndDate:     formatDatePtr(client.EndDate),
		})
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].BalanceDue > due[j].BalanceDue })
	return due, nil
}

// BirthdaysToday lists clients whose birth month/day matches today, year ignored.
func (s *statsService) BirthdaysToday() ([]ClientResponse, error) {
	clients, totals, err := s.clientsWithTotals()
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	matches := []ClientResponse{}
	for i := range clients {
		if isBirthday(clients[i].DateOfBirth, today) {
			matches = append(matches, buildClientResponse(&clients[i], totals[clients[i].ID], today))
		}
	}
	return matches, nil
}

// Revenue totals payments per calendar bucket over the period's window.
// Buckets with no payments are present with zero so the series is contiguous.
func (s *statsService) Revenue(period string) ([]models.RevenuePoint, error) {
	buckets, err := bucketKeys(period, revenueWindow, s.clock.Today())
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetPayments(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for revenue report: %w", err)
	}

	totals := make(map[time.Time]float64, len(buckets))
	for _, b := range buckets {
		totals[b] = 0
	}
	truncate := truncateFuncFor(period)
	for _, payment := range payments {
		key := truncate(payment.PaidAt)
		if _, ok := totals[key]; ok {
			totals[key] += payment.Amount
		}
	}

	points := make([]models.RevenuePoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, models.RevenuePoint{Period: b.Format(dateLayout), TotalRevenue: totals[b]})
	}
	return points, nil
}

// ClientGrowth counts new memberships per bucket, keyed by start_date.
func (s *statsService) ClientGrowth(period string) ([]models.GrowthPoint, error) {
	buckets, err := bucketKeys(period, growthWindow, s.clock.Today())
	if err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for growth report: %w", err)
	}

	counts := make(map[time.Time]int, len(buckets))
	for _, b := range buckets {
		counts[b] = 0
	}
	truncate := truncateFuncFor(period)
	for i := range clients {
		if clients[i].StartDate == nil {
			continue
		}
		key := truncate(*clients[i].StartDate)
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	points := make([]models.GrowthPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, models.GrowthPoint{Period: b.Format(dateLayout), NewClients: counts[b]})
	}
	return points, nil
}

// RevenueByPlan attributes each payment to the payer's current plan.
func (s *statsService) RevenueByPlan() ([]models.PlanRevenue, error) {
	plans, err := s.planRepo.GetPlans()
	if err != nil {
		return nil, fmt.Errorf("failed to load plans for revenue report: %w", err)
	}
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for revenue report: %w", err)
	}
	payments, err := s.paymentRepo.GetPayments(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for revenue report: %w", err)
	}

	planByClient := make(map[int64]int64, len(clients))
	for i := range clients {
		planByClient[clients[i].ID] = clients[i].PlanID
	}
	totals := make(map[int64]float64, len(plans))
	for _, payment := range payments {
		if planID, ok := planByClient[payment.ClientID]; ok {
			totals[planID] += payment.Amount
		}
	}

	report := make([]models.PlanRevenue, 0, len(plans))
	for _, plan := range plans {
		report = append(report, models.PlanRevenue{PlanName: plan.PlanName, TotalRevenue: totals[plan.ID]})
	}
	sort.SliceStable(report, func(i, j int) bool { return report[i].TotalRevenue > report[j].TotalRevenue })
	return report, nil
}

// PlanDistribution counts clients per plan, including plans with no clients.
func (s *statsService) PlanDistribution() ([]models.PlanDistributionItem, error) {
	plans, err := s.planRepo.GetPlans()
	if err != nil {
		return nil, fmt.Errorf("failed to load plans for distribution report: %w", err)
	}
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for distribution report: %w", err)
	}

	counts := make(map[int64]int, len(plans))
	for i := range clients {
		counts[clients[i].PlanID]++
	}

	report := make([]models.PlanDistributionItem, 0, len(plans))
	for _, plan := range plans {
		report = append(report, models.PlanDistributionItem{PlanName: plan.PlanName, ClientCount: counts[plan.ID]})
	}
	sort.SliceStable(report, func(i, j int) bool { return report[i].ClientCount > report[j].ClientCount })
	return report, nil
}

// PaymentMethodStats tallies every method in the closed set, zero-filled.
func (s *statsService) PaymentMethodStats() ([]models.PaymentMethodStat, error) {
	payments, err := s.paymentRepo.GetPayments(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for method report: %w", err)
	}

	counts := map[models.PaymentMethod]int{}
	amounts := map[models.PaymentMethod]float64{}
	for _, payment := range payments {
		counts[payment.Method]++
		amounts[payment.Method] += payment.Amount
	}

	report := make([]models.PaymentMethodStat, 0, len(models.AllPaymentMethods()))
	for _, method := range models.AllPaymentMethods() {
		report = append(report, models.PaymentMethodStat{
			Method:      string(method),
			Count:       counts[method],
			TotalAmount: amounts[method],
		})
	}
	sort.SliceStable(report, func(i, j int) bool { return report[i].TotalAmount > report[j].TotalAmount })
	return report, nil
}

// MembershipStatusDistribution counts clients per evaluated status.
func (s *statsService) MembershipStatusDistribution() ([]models.StatusCount, error) {
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for status report: %w", err)
	}

	today := s.clock.Today()
	counts := map[models.MembershipStatus]int{}
	for i := range clients {
		counts[EvaluateMembership(clients[i].EndDate, today)]++
	}

	statuses := []models.MembershipStatus{models.StatusActive, models.StatusExpiring, models.StatusExpired, models.StatusUnscheduled}
	report := make([]models.StatusCount, 0, len(statuses))
	for _, status := range statuses {
		report = append(report, models.StatusCount{Status: string(status), Count: counts[status]})
	}
	return report, nil
}

var ageBrackets = []string{"<18", "18-25", "26-35", "36-45", "46-55", "55+"}

// AgeDistribution buckets clients by whole years of age; clients without a
// birth date are skipped.
func (s *statsService) AgeDistribution() ([]models.AgeGroupCount, error) {
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for age report: %w", err)
	}

	today := s.clock.Today()
	counts := map[string]int{}
	for i := range clients {
		if clients[i].DateOfBirth == nil {
			continue
		}
		counts[ageBracket(ageYears(*clients[i].DateOfBirth, today))]++
	}

	report := make([]models.AgeGroupCount, 0, len(ageBrackets))
	for _, bracket := range ageBrackets {
		report = append(report, models.AgeGroupCount{AgeGroup: bracket, Count: counts[bracket]})
	}
	return report, nil
}

// GenderDistribution counts clients per gender over the closed set.
func (s *statsService) GenderDistribution() ([]models.GenderCount, error) {
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to load clients for gender report: %w", err)
	}

	counts := map[models.Gender]int{}
	for i := range clients {
		counts[clients[i].Gender]++
	}

	report := make([]models.GenderCount, 0, len(models.AllGenders()))
	for _, gender := range models.AllGenders() {
		report = append(report, models.GenderCount{Gender: string(gender), Count: counts[gender]})
	}
	return report, nil
}

// --- helpers ---

func (s *statsService) clientsWithTotals() ([]models.Client, map[int64]float64, error) {
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load clients: %w", err)
	}
	payments, err := s.paymentRepo.GetPayments(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load payments: %w", err)
	}
	totals := make(map[int64]float64, len(payments))
	for _, payment := range payments {
		totals[payment.ClientID] += payment.Amount
	}
	return clients, totals, nil
}

func isBirthday(dob *time.Time, today time.Time) bool {
	if dob == nil {
		return false
	}
	return dob.Month() == today.Month() && dob.Day() == today.Day()
}

func ageYears(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}

func ageBracket(age int) string {
	switch {
	case age < 18:
		return "<18"
	case age <= 25:
		return "18-25"
	case age <= 35:
		return "26-35"
	case age <= 45:
		return "36-45"
	case age <= 55:
		return "46-55"
	default:
		return "55+"
	}
}

// truncateFuncFor maps a period to its calendar truncation. ISO weeks start
// on Monday.
func truncateFuncFor(period string) func(time.Time) time.Time {
	switch period {
	case "daily":
		return toCalendarDay
	case "weekly":
		return func(t time.Time) time.Time {
			day := toCalendarDay(t)
			offset := (int(day.Weekday()) + 6) % 7
			return day.AddDate(0, 0, -offset)
		}
	case "yearly":
		return func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		}
	default: // monthly
		return func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
	}
}

func stepFuncFor(period string) func(time.Time) time.Time {
	switch period {
	case "daily":
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case "weekly":
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	case "yearly":
		return func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }
	default: // monthly
		return func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	}
}

// bucketKeys returns the contiguous, oldest-first bucket start dates ending at
// the bucket containing today.
func bucketKeys(period string, windows map[string]int, today time.Time) ([]time.Time, error) {
	count, ok := windows[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}

	truncate := truncateFuncFor(period)
	step := stepFuncFor(period)

	first := truncate(today)
	switch period {
	case "daily":
		first = first.AddDate(0, 0, -(count - 1))
	case "weekly":
		first = first.AddDate(0, 0, -7*(count-1))
	case "yearly":
		first = first.AddDate(-(count - 1), 0, 0)
	default:
		first = first.AddDate(0, -(count - 1), 0)
	}

	buckets := make([]time.Time, 0, count)
	for cursor := first; len(buckets) < count; cursor = step(cursor) {
		buckets = append(buckets, cursor)
	}
	return buckets, nil
}
