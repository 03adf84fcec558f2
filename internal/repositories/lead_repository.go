package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"
)

// LeadRepository defines the interface for lead database operations.
type LeadRepository interface {
	CreateLead(executor SQLExecutor, lead *models.Lead) (int64, error)
	GetLeadByID(id int64) (*models.Lead, error)
	GetLeads() ([]models.Lead, error)
	DeleteLead(executor SQLExecutor, id int64) error
	CountLeads() (int, error)
}

type leadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new instance of LeadRepository.
func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) CreateLead(executor SQLExecutor, lead *models.Lead) (int64, error) {
	query := `INSERT INTO leads (name, phonenumber, notes, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query, lead.Name, lead.PhoneNumber, lead.Notes, lead.CreatedAt).Scan(&lead.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating lead: %v", ErrDatabaseError, err)
	}
	return lead.ID, nil
}

func (r *leadRepository) GetLeadByID(id int64) (*models.Lead, error) {
	lead := &models.Lead{}
	query := `SELECT id, name, phonenumber, notes, created_at FROM leads WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(&lead.ID, &lead.Name, &lead.PhoneNumber, &lead.Notes, &lead.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting lead by ID %d: %v", ErrDatabaseError, id, err)
	}
	return lead, nil
}

func (r *leadRepository) GetLeads() ([]models.Lead, error) {
	query := `SELECT id, name, phonenumber, notes, created_at FROM leads ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying leads: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.PhoneNumber, &lead.Notes, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning lead: %v", ErrDatabaseError, err)
		}
		leads = append(leads, lead)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating lead rows: %v", ErrDatabaseError, err)
	}
	return leads, nil
}

func (r *leadRepository) DeleteLead(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting lead ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, "deleting lead")
}

func (r *leadRepository) CountLeads() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting leads: %v", ErrDatabaseError, err)
	}
	return count, nil
}
