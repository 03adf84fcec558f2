package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"

	"github.com/lib/pq"
)

// PlanRepository defines the interface for subscription-plan database operations.
type PlanRepository interface {
	CreatePlan(executor SQLExecutor, plan *models.Plan) (int64, error)
	GetPlanByID(id int64) (*models.Plan, error)
	GetPlans() ([]models.Plan, error)
	UpdatePlan(executor SQLExecutor, plan *models.Plan) error
	DeletePlan(executor SQLExecutor, id int64) error
}

type planRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new instance of PlanRepository.
func NewPlanRepository(db *sql.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) CreatePlan(executor SQLExecutor, plan *models.Plan) (int64, error) {
	query := `INSERT INTO plans (planname, days, amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	currentTime := time.Now()
	plan.CreatedAt = currentTime
	plan.UpdatedAt = currentTime

	err := executor.QueryRow(query, plan.PlanName, plan.Days, plan.Amount, plan.CreatedAt, plan.UpdatedAt).Scan(&plan.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating plan: %v", ErrDatabaseError, err)
	}
	return plan.ID, nil
}

func (r *planRepository) GetPlanByID(id int64) (*models.Plan, error) {
	plan := &models.Plan{}
	query := `SELECT id, planname, days, amount, created_at, updated_at FROM plans WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(&plan.ID, &plan.PlanName, &plan.Days, &plan.Amount, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting plan by ID %d: %v", ErrDatabaseError, id, err)
	}
	return plan, nil
}

func (r *planRepository) GetPlans() ([]models.Plan, error) {
	query := `SELECT id, planname, days, amount, created_at, updated_at FROM plans ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying plans: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		var plan models.Plan
		if err := rows.Scan(&plan.ID, &plan.PlanName, &plan.Days, &plan.Amount, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning plan: %v", ErrDatabaseError, err)
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating plan rows: %v", ErrDatabaseError, err)
	}
	return plans, nil
}

func (r *planRepository) UpdatePlan(executor SQLExecutor, plan *models.Plan) error {
	query := `UPDATE plans SET planname = $1, days = $2, amount = $3, updated_at = $4 WHERE id = $5`

	plan.UpdatedAt = time.Now()
	result, err := executor.Exec(query, plan.PlanName, plan.Days, plan.Amount, plan.UpdatedAt, plan.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating plan ID %d: %v", ErrDatabaseError, plan.ID, err)
	}
	return requireRowsAffected(result, "updating plan")
}

func (r *planRepository) DeletePlan(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: plan ID %d is referenced by clients (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting plan ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, "deleting plan")
}
