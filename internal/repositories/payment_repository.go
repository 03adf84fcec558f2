package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"

	"github.com/lib/pq"
)

// PaymentRepository defines the interface for payment database operations.
// SumAmountByClient exists so the reconciler can always recompute a balance
// from the full payment set instead of maintaining a running total.
type PaymentRepository interface {
	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	GetPaymentByID(id int64) (*models.Payment, error)
	GetPayments(clientID *int64) ([]models.Payment, error)
	UpdatePayment(executor SQLExecutor, payment *models.Payment) error
	DeletePayment(executor SQLExecutor, id int64) error
	SumAmountByClient(executor SQLExecutor, clientID int64) (float64, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments (client_id, amount, method, paid_at, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		payment.ClientID, payment.Amount, payment.Method, payment.PaidAt, payment.Note, payment.CreatedAt,
	).Scan(&payment.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: client ID %d does not exist", ErrForeignKeyViolation, payment.ClientID)
		}
		return 0, fmt.Errorf("%w: creating payment: %v", ErrDatabaseError, err)
	}
	return payment.ID, nil
}

func (r *paymentRepository) GetPaymentByID(id int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT id, client_id, amount, method, paid_at, note, created_at FROM payments WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&payment.ID, &payment.ClientID, &payment.Amount, &payment.Method,
		&payment.PaidAt, &payment.Note, &payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting payment by ID %d: %v", ErrDatabaseError, id, err)
	}
	return payment, nil
}

// GetPayments lists payments, newest first, optionally filtered to one client.
func (r *paymentRepository) GetPayments(clientID *int64) ([]models.Payment, error) {
	query := `SELECT id, client_id, amount, method, paid_at, note, created_at FROM payments`
	args := []interface{}{}
	if clientID != nil {
		query += ` WHERE client_id = $1`
		args = append(args, *clientID)
	}
	query += ` ORDER BY paid_at DESC, id DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying payments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID, &payment.ClientID, &payment.Amount, &payment.Method,
			&payment.PaidAt, &payment.Note, &payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning payment: %v", ErrDatabaseError, err)
		}
		payments = append(payments, payment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payment rows: %v", ErrDatabaseError, err)
	}
	return payments, nil
}

func (r *paymentRepository) UpdatePayment(executor SQLExecutor, payment *models.Payment) error {
	query := `UPDATE payments SET client_id = $1, amount = $2, method = $3, paid_at = $4, note = $5 WHERE id = $6`

	result, err := executor.Exec(query,
		payment.ClientID, payment.Amount, payment.Method, payment.PaidAt, payment.Note, payment.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: client ID %d does not exist", ErrForeignKeyViolation, payment.ClientID)
		}
		return fmt.Errorf("%w: updating payment ID %d: %v", ErrDatabaseError, payment.ID, err)
	}
	return requireRowsAffected(result, "updating payment")
}

func (r *paymentRepository) DeletePayment(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting payment ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, "deleting payment")
}

// SumAmountByClient totals every payment recorded for the client.
func (r *paymentRepository) SumAmountByClient(executor SQLExecutor, clientID int64) (float64, error) {
	var total float64
	err := executor.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE client_id = $1`, clientID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: summing payments for client ID %d: %v", ErrDatabaseError, clientID, err)
	}
	return total, nil
}
