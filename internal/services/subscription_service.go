package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/events"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Subscriptions ---
var (
	ErrInvalidPlan = errors.New("plan does not exist")
	ErrInvalidDate = errors.New("start date is not a valid calendar date")
)

// RenewRequest asks for a client's subscription window to be replaced.
type RenewRequest struct {
	PlanID    int64  `json:"plan_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // Format YYYY-MM-DD
}

// --- SubscriptionService Interface ---
// Renewal replaces the single (plan, start, end) triple. The new window always
// starts at the requested date: renewing while still active shifts the window,
// it never stacks the remaining days, and renewing after expiry never
// subtracts the days missed.
type SubscriptionService interface {
	Renew(clientID int64, req RenewRequest) (*ClientResponse, error)
}

// --- subscriptionService Implementation ---
type subscriptionService struct {
	clientRepo  repositories.ClientRepository
	planRepo    repositories.PlanRepository
	paymentRepo repositories.PaymentRepository
	db          *sql.DB
	locks       *ClientLocker
	cache       cache.Cache
	publisher   events.Publisher
	clock       Clock
}

// NewSubscriptionService creates a new instance of SubscriptionService.
func NewSubscriptionService(
	clientRepo repositories.ClientRepository,
	planRepo repositories.PlanRepository,
	paymentRepo repositories.PaymentRepository,
	db *sql.DB,
	locks *ClientLocker,
	c cache.Cache,
	publisher events.Publisher,
	clock Clock,
) SubscriptionService {
	return &subscriptionService{
		clientRepo:  clientRepo,
		planRepo:    planRepo,
		paymentRepo: paymentRepo,
		db:          db,
		locks:       locks,
		cache:       c,
		publisher:   publisher,
		clock:       clock,
	}
}

// computeEndDate derives the window end from its start and the plan duration.
func computeEndDate(startDate time.Time, planDays int) time.Time {
	return toCalendarDay(startDate).AddDate(0, 0, planDays)
}

func (s *subscriptionService) Renew(clientID int64, req RenewRequest) (*ClientResponse, error) {
	unlock := s.locks.Lock(clientID)
	defer unlock()

	if _, err := s.clientRepo.GetClientByID(clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for renewal: %w", err)
	}

	plan, err := s.planRepo.GetPlanByID(req.PlanID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidPlan
		}
		return nil, fmt.Errorf("failed to fetch plan for renewal: %w", err)
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	endDate := computeEndDate(startDate, plan.Days)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.clientRepo.UpdateSubscription(tx, clientID, plan.ID, startDate, endDate); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit renewal: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), balanceCacheKey(clientID), dashboardStatsCacheKey)
	}
	if s.publisher != nil {
		go func() {
			err := s.publisher.Publish(context.Background(), events.EventClientRenewed,
				utils.Int64ToStr(clientID), map[string]interface{}{
					"client_id":  clientID,
					"plan_id":    plan.ID,
					"start_date": startDate.Format(dateLayout),
					"end_date":   endDate.Format(dateLayout),
				})
			utils.LogError(err, "Failed to publish client_renewed event")
		}()
	}

	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload client after renewal: %w", err)
	}
	totalPaid, err := s.paymentRepo.SumAmountByClient(s.db, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments after renewal: %w", err)
	}

	resp := buildClientResponse(client, totalPaid, s.clock.Today())
	return &resp, nil
}
