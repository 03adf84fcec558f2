package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Leads ---
var (
	ErrLeadNotFound   = errors.New("lead not found")
	ErrLeadValidation = errors.New("lead validation failed")
)

// --- Lead DTOs ---
type LeadRequest struct {
	Name        string  `json:"name" binding:"required"`
	PhoneNumber string  `json:"phonenumber" binding:"required"`
	Notes       *string `json:"notes"`
}

// --- LeadService Interface ---
type LeadService interface {
	CreateLead(req LeadRequest) (*models.Lead, error)
	GetLeadByID(id int64) (*models.Lead, error)
	GetLeads() ([]models.Lead, error)
	DeleteLead(id int64) error
}

// --- leadService Implementation ---
type leadService struct {
	leadRepo repositories.LeadRepository
	db       *sql.DB
}

// NewLeadService creates a new instance of LeadService.
func NewLeadService(leadRepo repositories.LeadRepository, db *sql.DB) LeadService {
	return &leadService{leadRepo: leadRepo, db: db}
}

func (s *leadService) CreateLead(req LeadRequest) (*models.Lead, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name is required", ErrLeadValidation)
	}
	if utils.IsEmpty(req.PhoneNumber) {
		return nil, fmt.Errorf("%w: phonenumber is required", ErrLeadValidation)
	}

	lead := &models.Lead{Name: req.Name, PhoneNumber: req.PhoneNumber, Notes: req.Notes}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.leadRepo.CreateLead(tx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lead creation: %w", err)
	}
	return lead, nil
}

func (s *leadService) GetLeadByID(id int64) (*models.Lead, error) {
	lead, err := s.leadRepo.GetLeadByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

func (s *leadService) GetLeads() ([]models.Lead, error) {
	leads, err := s.leadRepo.GetLeads()
	if err != nil {
		return nil, fmt.Errorf("failed to get leads: %w", err)
	}
	return leads, nil
}

func (s *leadService) DeleteLead(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.leadRepo.DeleteLead(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lead deletion: %w", err)
	}
	return nil
}
