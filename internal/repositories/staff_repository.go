package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"

	"github.com/lib/pq"
)

// StaffRepository defines the interface for staff database operations.
type StaffRepository interface {
	CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error)
	GetStaffMemberByID(id int64) (*models.StaffMember, error)
	GetStaffMembers() ([]models.StaffMember, error)
	UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error
	DeleteStaffMember(executor SQLExecutor, id int64) error
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error) {
	query := `INSERT INTO staffs (staffname, email, phonenumber, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	currentTime := time.Now()
	staff.CreatedAt = currentTime
	staff.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		staff.StaffName, staff.Email, staff.PhoneNumber, staff.Role, staff.CreatedAt, staff.UpdatedAt,
	).Scan(&staff.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating staff member: %v", ErrDatabaseError, err)
	}
	return staff.ID, nil
}

func (r *staffRepository) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	staff := &models.StaffMember{}
	query := `SELECT id, staffname, email, phonenumber, role, created_at, updated_at FROM staffs WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&staff.ID, &staff.StaffName, &staff.Email, &staff.PhoneNumber, &staff.Role,
		&staff.CreatedAt, &staff.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff member by ID %d: %v", ErrDatabaseError, id, err)
	}
	return staff, nil
}

func (r *staffRepository) GetStaffMembers() ([]models.StaffMember, error) {
	query := `SELECT id, staffname, email, phonenumber, role, created_at, updated_at FROM staffs ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying staff members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	staffMembers := []models.StaffMember{}
	for rows.Next() {
		var staff models.StaffMember
		if err := rows.Scan(
			&staff.ID, &staff.StaffName, &staff.Email, &staff.PhoneNumber, &staff.Role,
			&staff.CreatedAt, &staff.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		staffMembers = append(staffMembers, staff)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff rows: %v", ErrDatabaseError, err)
	}
	return staffMembers, nil
}

func (r *staffRepository) UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error {
	query := `UPDATE staffs SET staffname = $1, email = $2, phonenumber = $3, role = $4, updated_at = $5 WHERE id = $6`

	staff.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		staff.StaffName, staff.Email, staff.PhoneNumber, staff.Role, staff.UpdatedAt, staff.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating staff member ID %d: %v", ErrDatabaseError, staff.ID, err)
	}
	return requireRowsAffected(result, "updating staff member")
}

func (r *staffRepository) DeleteStaffMember(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM staffs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting staff member ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, "deleting staff member")
}
