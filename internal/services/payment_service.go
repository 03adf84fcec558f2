package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/events"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Payments ---
var (
	ErrInvalidAmount        = errors.New("payment amount must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrPaymentNotFound      = errors.New("payment not found")
)

const (
	dashboardStatsCacheKey = "dashboard:stats"
	balanceCacheTTL        = 5 * time.Minute
)

func balanceCacheKey(clientID int64) string {
	return "balance:" + utils.Int64ToStr(clientID)
}

// --- Payment DTOs ---
type RecordPaymentRequest struct {
	ClientID int64   `json:"client_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Method   string  `json:"method" binding:"required"`
	PaidAt   string  `json:"paid_at" binding:"required"` // Format YYYY-MM-DD
	Note     *string `json:"note"`
}

// BalanceSummary is the reconciled position of one client against their plan.
// BalanceDue > 0 means pending, 0 paid, < 0 overpaid by the absolute value.
type BalanceSummary struct {
	ClientID    int64   `json:"client_id"`
	PlanAmount  float64 `json:"plan_amount"`
	TotalPaid   float64 `json:"total_paid"`
	BalanceDue  float64 `json:"balance_due"`
	Overpayment bool    `json:"overpayment"`
}

// --- PaymentService Interface ---
type PaymentService interface {
	RecordPayment(req RecordPaymentRequest) (*models.Payment, *BalanceSummary, error)
	GetPayments(clientID *int64) ([]models.Payment, error)
	UpdatePayment(paymentID int64, req RecordPaymentRequest) (*BalanceSummary, error)
	DeletePayment(paymentID int64) (*BalanceSummary, error)
	BalanceFor(clientID int64) (*BalanceSummary, error)
}

// --- paymentService Implementation ---
type paymentService struct {
	paymentRepo repositories.PaymentRepository
	clientRepo  repositories.ClientRepository
	db          *sql.DB
	locks       *ClientLocker
	cache       cache.Cache
	publisher   events.Publisher
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	clientRepo repositories.ClientRepository,
	db *sql.DB,
	locks *ClientLocker,
	c cache.Cache,
	publisher events.Publisher,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		db:          db,
		locks:       locks,
		cache:       c,
		publisher:   publisher,
	}
}

func (s *paymentService) validateRequest(req RecordPaymentRequest) (time.Time, error) {
	if req.Amount <= 0 {
		return time.Time{}, ErrInvalidAmount
	}
	if !models.PaymentMethod(req.Method).IsValid() {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.Method)
	}
	paidAt, err := parseDate(req.PaidAt)
	if err != nil {
		return time.Time{}, err
	}
	return paidAt, nil
}

// RecordPayment validates and appends a payment, then returns the recomputed
// balance. Validation happens before any mutation; the balance is derived
// from the full payment set afterwards.
func (s *paymentService) RecordPayment(req RecordPaymentRequest) (*models.Payment, *BalanceSummary, error) {
	paidAt, err := s.validateRequest(req)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.Lock(req.ClientID)
	defer unlock()

	client, err := s.clientRepo.GetClientByID(req.ClientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrClientNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve client for payment: %w", err)
	}

	payment := &models.Payment{
		ClientID: req.ClientID,
		Amount:   req.Amount,
		Method:   models.PaymentMethod(req.Method),
		PaidAt:   paidAt,
		Note:     req.Note,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.paymentRepo.CreatePayment(tx, payment); err != nil {
		return nil, nil, fmt.Errorf("failed to create payment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	s.invalidate(req.ClientID)
	s.publish(events.EventPaymentCreated, payment)

	summary, err := s.recompute(client.ID, client.Plan.Amount)
	if err != nil {
		return nil, nil, err
	}
	return payment, summary, nil
}

func (s *paymentService) GetPayments(clientID *int64) ([]models.Payment, error) {
	payments, err := s.paymentRepo.GetPayments(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, nil
}

// UpdatePayment replaces a payment's fields atomically and recomputes the
// balance of every client involved (the owner changes when client_id does).
func (s *paymentService) UpdatePayment(paymentID int64, req RecordPaymentRequest) (*BalanceSummary, error) {
	paidAt, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment for update: %w", err)
	}

	unlock := s.locks.LockPair(existing.ClientID, req.ClientID)
	defer unlock()

	client, err := s.clientRepo.GetClientByID(req.ClientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to resolve client for payment update: %w", err)
	}

	updated := &models.Payment{
		ID:       paymentID,
		ClientID: req.ClientID,
		Amount:   req.Amount,
		Method:   models.PaymentMethod(req.Method),
		PaidAt:   paidAt,
		Note:     req.Note,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.paymentRepo.UpdatePayment(tx, updated); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment update: %w", err)
	}

	s.invalidate(existing.ClientID)
	s.invalidate(req.ClientID)
	s.publish(events.EventPaymentUpdated, updated)

	return s.recompute(client.ID, client.Plan.Amount)
}

// DeletePayment removes a payment and returns the owning client's recomputed
// balance. The balance comes from the remaining payment set, never from
// subtracting the deleted amount.
func (s *paymentService) DeletePayment(paymentID int64) (*BalanceSummary, error) {
	payment, err := s.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment for deletion: %w", err)
	}

	unlock := s.locks.Lock(payment.ClientID)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.paymentRepo.DeletePayment(tx, paymentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to delete payment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment deletion: %w", err)
	}

	s.invalidate(payment.ClientID)
	s.publish(events.EventPaymentDeleted, payment)

	client, err := s.clientRepo.GetClientByID(payment.ClientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Owner already deleted; nothing left to reconcile.
			return &BalanceSummary{ClientID: payment.ClientID}, nil
		}
		return nil, fmt.Errorf("failed to resolve client after payment deletion: %w", err)
	}
	return s.recompute(client.ID, client.Plan.Amount)
}

// BalanceFor returns the client's reconciled balance, served from cache when
// possible. Cached entries are deleted on every mutation, so a hit is always
// consistent with the full payment set.
func (s *paymentService) BalanceFor(clientID int64) (*BalanceSummary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(context.Background(), balanceCacheKey(clientID)); err == nil {
			var summary BalanceSummary
			if err := json.Unmarshal([]byte(raw), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to resolve client for balance: %w", err)
	}
	return s.recompute(client.ID, client.Plan.Amount)
}

// recompute derives the balance from scratch and refreshes the cache.
func (s *paymentService) recompute(clientID int64, planAmount float64) (*BalanceSummary, error) {
	totalPaid, err := s.paymentRepo.SumAmountByClient(s.db, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments for balance: %w", err)
	}

	summary := &BalanceSummary{
		ClientID:    clientID,
		PlanAmount:  planAmount,
		TotalPaid:   totalPaid,
		BalanceDue:  planAmount - totalPaid,
		Overpayment: planAmount-totalPaid < 0,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(context.Background(), balanceCacheKey(clientID), string(raw), balanceCacheTTL)
		}
	}
	return summary, nil
}

func (s *paymentService) invalidate(clientID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(context.Background(), balanceCacheKey(clientID), dashboardStatsCacheKey)
}

func (s *paymentService) publish(eventType string, payment *models.Payment) {
	if s.publisher == nil {
		return
	}
	go func() {
		err := s.publisher.Publish(context.Background(), eventType,
			utils.Int64ToStr(payment.ClientID), map[string]interface{}{
				"payment_id": payment.ID,
				"client_id":  payment.ClientID,
				"amount":     payment.Amount,
				"method":     payment.Method,
				"paid_at":    payment.PaidAt.Format(dateLayout),
			})
		utils.LogError(err, "Failed to publish payment event")
	}()
}
