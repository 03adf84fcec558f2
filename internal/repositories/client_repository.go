package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// ClientRepository defines the interface for client-related database operations.
// Demographic updates and subscription-window updates are separate methods so
// a plain edit can never touch plan_id/start_date/end_date.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClients() ([]models.Client, error)
	UpdateClientDetails(executor SQLExecutor, client *models.Client) error
	UpdateSubscription(executor SQLExecutor, clientID, planID int64, startDate, endDate time.Time) error
	DeleteClient(executor SQLExecutor, id int64) error
	CountByPlan(planID int64) (int, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientSelectColumns = `c.id, c.clientname, c.phonenumber, c.email, c.dateofbirth, c.gender, c.bloodgroup,
	          c.address, c.notes, c.height, c.weight, c.plan_id, c.start_date, c.end_date, c.created_at, c.updated_at,
	          p.id, p.planname, p.days, p.amount, p.created_at, p.updated_at`

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (clientname, phonenumber, email, dateofbirth, gender, bloodgroup,
	            address, notes, height, weight, plan_id, start_date, end_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	          RETURNING id`

	currentTime := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = currentTime
	}
	if client.UpdatedAt.IsZero() {
		client.UpdatedAt = currentTime
	}

	err := executor.QueryRow(query,
		client.ClientName, client.PhoneNumber, client.Email, nullTime(client.DateOfBirth),
		client.Gender, client.BloodGroup, client.Address, client.Notes, client.Height, client.Weight,
		client.PlanID, nullTime(client.StartDate), nullTime(client.EndDate),
		client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: plan ID %d does not exist", ErrForeignKeyViolation, client.PlanID)
			}
		}
		return 0, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return client.ID, nil
}

// GetClientByID retrieves a client, with its plan, by ID.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	query := `SELECT ` + clientSelectColumns + `
	          FROM clients c
	          JOIN plans p ON c.plan_id = p.id
	          WHERE c.id = $1`

	client, err := scanClient(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClients retrieves every client with its plan joined in.
func (r *clientRepository) GetClients() ([]models.Client, error) {
	query := `SELECT ` + clientSelectColumns + `
	          FROM clients c
	          JOIN plans p ON c.plan_id = p.id
	          ORDER BY c.id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClientDetails updates demographic fields only. The subscription window
// (plan_id, start_date, end_date) is untouched here; see UpdateSubscription.
func (r *clientRepository) UpdateClientDetails(executor SQLExecutor, client *models.Client) error {
	query := `UPDATE clients SET
	            clientname = $1, phonenumber = $2, email = $3, dateofbirth = $4, gender = $5,
	            bloodgroup = $6, address = $7, notes = $8, height = $9, weight = $10, updated_at = $11
	          WHERE id = $12`

	client.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		client.ClientName, client.PhoneNumber, client.Email, nullTime(client.DateOfBirth), client.Gender,
		client.BloodGroup, client.Address, client.Notes, client.Height, client.Weight,
		client.UpdatedAt, client.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	return requireRowsAffected(result, "updating client")
}

// UpdateSubscription replaces the client's (plan, start, end) triple in a single statement.
func (r *clientRepository) UpdateSubscription(executor SQLExecutor, clientID, planID int64, startDate, endDate time.Time) error {
	query := `UPDATE clients SET plan_id = $1, start_date = $2, end_date = $3, updated_at = $4 WHERE id = $5`

	result, err := executor.Exec(query, planID, startDate, endDate, time.Now(), clientID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: plan ID %d does not exist", ErrForeignKeyViolation, planID)
		}
		return fmt.Errorf("%w: updating subscription for client ID %d: %v", ErrDatabaseError, clientID, err)
	}
	return requireRowsAffected(result, "updating subscription")
}

// DeleteClient removes a client from the database. Payments cascade.
func (r *clientRepository) DeleteClient(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting client ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, "deleting client")
}

// CountByPlan returns how many clients currently reference the given plan.
func (r *clientRepository) CountByPlan(planID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM clients WHERE plan_id = $1`, planID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting clients for plan ID %d: %v", ErrDatabaseError, planID, err)
	}
	return count, nil
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row scanner) (*models.Client, error) {
	client := &models.Client{Plan: &models.Plan{}}
	var dob, startDate, endDate sql.NullTime
	err := row.Scan(
		&client.ID, &client.ClientName, &client.PhoneNumber, &client.Email, &dob,
		&client.Gender, &client.BloodGroup, &client.Address, &client.Notes,
		&client.Height, &client.Weight, &client.PlanID, &startDate, &endDate,
		&client.CreatedAt, &client.UpdatedAt,
		&client.Plan.ID, &client.Plan.PlanName, &client.Plan.Days, &client.Plan.Amount,
		&client.Plan.CreatedAt, &client.Plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		client.DateOfBirth = &dob.Time
	}
	if startDate.Valid {
		client.StartDate = &startDate.Time
	}
	if endDate.Valid {
		client.EndDate = &endDate.Time
	}
	return client, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t != nil && !t.IsZero() {
		return sql.NullTime{Time: *t, Valid: true}
	}
	return sql.NullTime{}
}

func requireRowsAffected(result sql.Result, action string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for %s: %v", ErrDatabaseError, action, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
