package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Plans ---
var (
	ErrPlanNotFound   = errors.New("plan not found")
	ErrPlanValidation = errors.New("plan validation failed")
	ErrPlanInUse      = errors.New("plan is referenced by existing clients")
)

// --- Plan DTOs ---
type PlanRequest struct {
	PlanName string  `json:"planname" binding:"required"`
	Days     int     `json:"days" binding:"required"`
	Amount   float64 `json:"amount"`
}

// --- PlanService Interface ---
// A plan that any client references cannot be changed or deleted: duration
// edits would silently rewrite windows derived from it, and price edits
// would reshuffle every balance.
type PlanService interface {
	CreatePlan(req PlanRequest) (*models.Plan, error)
	GetPlanByID(id int64) (*models.Plan, error)
	GetPlans() ([]models.Plan, error)
	UpdatePlan(id int64, req PlanRequest) (*models.Plan, error)
	DeletePlan(id int64) error
}

// --- planService Implementation ---
type planService struct {
	planRepo   repositories.PlanRepository
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewPlanService creates a new instance of PlanService.
func NewPlanService(planRepo repositories.PlanRepository, clientRepo repositories.ClientRepository, db *sql.DB) PlanService {
	return &planService{planRepo: planRepo, clientRepo: clientRepo, db: db}
}

func validatePlanRequest(req PlanRequest) error {
	if utils.IsEmpty(req.PlanName) {
		return fmt.Errorf("%w: planname is required", ErrPlanValidation)
	}
	if req.Days <= 0 {
		return fmt.Errorf("%w: days must be greater than zero", ErrPlanValidation)
	}
	if req.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrPlanValidation)
	}
	return nil
}

func (s *planService) CreatePlan(req PlanRequest) (*models.Plan, error) {
	if err := validatePlanRequest(req); err != nil {
		return nil, err
	}

	plan := &models.Plan{PlanName: req.PlanName, Days: req.Days, Amount: req.Amount}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.planRepo.CreatePlan(tx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit plan creation: %w", err)
	}
	return plan, nil
}

func (s *planService) GetPlanByID(id int64) (*models.Plan, error) {
	plan, err := s.planRepo.GetPlanByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

func (s *planService) GetPlans() ([]models.Plan, error) {
	plans, err := s.planRepo.GetPlans()
	if err != nil {
		return nil, fmt.Errorf("failed to get plans: %w", err)
	}
	return plans, nil
}

func (s *planService) UpdatePlan(id int64, req PlanRequest) (*models.Plan, error) {
	if err := validatePlanRequest(req); err != nil {
		return nil, err
	}
	if err := s.requireUnreferenced(id); err != nil {
		return nil, err
	}

	plan := &models.Plan{ID: id, PlanName: req.PlanName, Days: req.Days, Amount: req.Amount}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.planRepo.UpdatePlan(tx, plan); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit plan update: %w", err)
	}
	return s.GetPlanByID(id)
}

func (s *planService) DeletePlan(id int64) error {
	if err := s.requireUnreferenced(id); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.planRepo.DeletePlan(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPlanNotFound
		}
		// A client may have grabbed the plan between the check and the delete.
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrPlanInUse
		}
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan deletion: %w", err)
	}
	return nil
}

func (s *planService) requireUnreferenced(planID int64) error {
	count, err := s.clientRepo.CountByPlan(planID)
	if err != nil {
		return fmt.Errorf("failed to count clients on plan: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d client(s)", ErrPlanInUse, count)
	}
	return nil
}
