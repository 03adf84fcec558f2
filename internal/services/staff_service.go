package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Staff ---
var (
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrStaffValidation = errors.New("staff validation failed")
	ErrStaffDuplicate  = errors.New("staff member with this email already exists")
)

// --- Staff DTOs ---
type StaffRequest struct {
	StaffName   string `json:"staffname" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phonenumber" binding:"required"`
	Role        string `json:"role" binding:"required"`
}

// --- StaffService Interface ---
type StaffService interface {
	CreateStaffMember(req StaffRequest) (*models.StaffMember, error)
	GetStaffMemberByID(id int64) (*models.StaffMember, error)
	GetStaffMembers() ([]models.StaffMember, error)
	UpdateStaffMember(id int64, req StaffRequest) (*models.StaffMember, error)
	DeleteStaffMember(id int64) error
}

// --- staffService Implementation ---
type staffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(staffRepo repositories.StaffRepository, db *sql.DB) StaffService {
	return &staffService{staffRepo: staffRepo, db: db}
}

func validateStaffRequest(req StaffRequest) error {
	if utils.IsEmpty(req.StaffName) {
		return fmt.Errorf("%w: staffname is required", ErrStaffValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return fmt.Errorf("%w: invalid email format", ErrStaffValidation)
	}
	if utils.IsEmpty(req.PhoneNumber) {
		return fmt.Errorf("%w: phonenumber is required", ErrStaffValidation)
	}
	if !models.StaffRole(req.Role).IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrStaffValidation, req.Role)
	}
	return nil
}

func (s *staffService) CreateStaffMember(req StaffRequest) (*models.StaffMember, error) {
	if err := validateStaffRequest(req); err != nil {
		return nil, err
	}

	staff := &models.StaffMember{
		StaffName:   req.StaffName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        models.StaffRole(req.Role),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.staffRepo.CreateStaffMember(tx, staff); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrStaffDuplicate
		}
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit staff creation: %w", err)
	}
	return staff, nil
}

func (s *staffService) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return staff, nil
}

func (s *staffService) GetStaffMembers() ([]models.StaffMember, error) {
	staffMembers, err := s.staffRepo.GetStaffMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to get staff members: %w", err)
	}
	return staffMembers, nil
}

func (s *staffService) UpdateStaffMember(id int64, req StaffRequest) (*models.StaffMember, error) {
	if err := validateStaffRequest(req); err != nil {
		return nil, err
	}

	staff := &models.StaffMember{
		ID:          id,
		StaffName:   req.StaffName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        models.StaffRole(req.Role),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.staffRepo.UpdateStaffMember(tx, staff); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrStaffDuplicate
		}
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit staff update: %w", err)
	}
	return s.GetStaffMemberByID(id)
}

func (s *staffService) DeleteStaffMember(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.staffRepo.DeleteStaffMember(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit staff deletion: %w", err)
	}
	return nil
}
