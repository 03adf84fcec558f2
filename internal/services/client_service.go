package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientValidation    = errors.New("client data validation error")
	ErrDateFormat          = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrInvalidStatusFilter = errors.New("invalid status filter, use all|active|expiring|expired")
)

const dateLayout = "2006-01-02"

// --- Client DTOs ---
type CreateClientRequest struct {
	ClientName  string   `json:"clientname" binding:"required"`
	PhoneNumber string   `json:"phonenumber" binding:"required"`
	Email       string   `json:"email" binding:"required"`
	DateOfBirth *string  `json:"dateofbirth"` // Format YYYY-MM-DD
	Gender      string   `json:"gender" binding:"required"`
	BloodGroup  string   `json:"bloodgroup" binding:"required"`
	Address     *string  `json:"address"`
	Notes       *string  `json:"notes"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	PlanID      int64    `json:"plan_id" binding:"required"`
	StartDate   *string  `json:"start_date"` // Defaults to today
}

// UpdateClientRequest carries demographic fields only. The subscription window
// (plan, start, end) can only change through renewal.
type UpdateClientRequest struct {
	ClientName  *string  `json:"clientname"`
	PhoneNumber *string  `json:"phonenumber"`
	Email       *string  `json:"email"`
	DateOfBirth *string  `json:"dateofbirth"`
	Gender      *string  `json:"gender"`
	BloodGroup  *string  `json:"bloodgroup"`
	Address     *string  `json:"address"`
	Notes       *string  `json:"notes"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
}

// ClientResponse is the client record plus every derived fact the dashboard
// shows: plan fields, membership status, days left, paid total and balance.
type ClientResponse struct {
	ID          int64    `json:"id"`
	ClientName  string   `json:"clientname"`
	PhoneNumber string   `json:"phonenumber"`
	Email       string   `json:"email"`
	DateOfBirth *string  `json:"dateofbirth,omitempty"`
	Gender      string   `json:"gender"`
	BloodGroup  string   `json:"bloodgroup"`
	Address     *string  `json:"address,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	PlanID      int64    `json:"plan_id"`
	PlanName    string   `json:"planname"`
	PlanDays    int      `json:"days"`
	PlanAmount  float64  `json:"amount"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	Status      string   `json:"status"`
	DaysLeft    *int     `json:"days_left,omitempty"`
	TotalPaid   float64  `json:"total_paid"`
	BalanceDue  float64  `json:"balance_due"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req CreateClientRequest) (*ClientResponse, error)
	GetClientByID(clientID int64) (*ClientResponse, error)
	GetClients() ([]ClientResponse, error)
	UpdateClient(clientID int64, req UpdateClientRequest) (*ClientResponse, error)
	DeleteClient(clientID int64) error
	FilterClients(status string) ([]ClientResponse, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo  repositories.ClientRepository
	planRepo    repositories.PlanRepository
	paymentRepo repositories.PaymentRepository
	db          *sql.DB
	cache       cache.Cache
	clock       Clock
}

// NewClientService creates a new instance of ClientService.
func NewClientService(
	clientRepo repositories.ClientRepository,
	planRepo repositories.PlanRepository,
	paymentRepo repositories.PaymentRepository,
	db *sql.DB,
	c cache.Cache,
	clock Clock,
) ClientService {
	return &clientService{
		clientRepo:  clientRepo,
		planRepo:    planRepo,
		paymentRepo: paymentRepo,
		db:          db,
		cache:       c,
		clock:       clock,
	}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return parsed, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}

func (s *clientService) parseDateOfBirth(dobStr *string) (*time.Time, error) {
	if dobStr == nil || strings.TrimSpace(*dobStr) == "" {
		return nil, nil
	}
	dob, err := parseDate(*dobStr)
	if err != nil {
		return nil, err
	}
	if dob.After(s.clock.Today()) {
		return nil, fmt.Errorf("%w: date of birth cannot be in the future", ErrClientValidation)
	}
	return &dob, nil
}

func validateClientEnums(gender models.Gender, bloodGroup models.BloodGroup) error {
	if !gender.IsValid() {
		return fmt.Errorf("%w: unknown gender %q", ErrClientValidation, gender)
	}
	if !bloodGroup.IsValid() {
		return fmt.Errorf("%w: unknown blood group %q", ErrClientValidation, bloodGroup)
	}
	return nil
}

// buildClientResponse derives the presentation record for one client. Status
// and days-left always come from EvaluateMembership, never from stored fields.
func buildClientResponse(client *models.Client, totalPaid float64, today time.Time) ClientResponse {
	resp := ClientResponse{
		ID:          client.ID,
		ClientName:  client.ClientName,
		PhoneNumber: client.PhoneNumber,
		Email:       client.Email,
		DateOfBirth: formatDatePtr(client.DateOfBirth),
		Gender:      string(client.Gender),
		BloodGroup:  string(client.BloodGroup),
		Address:     client.Address,
		Notes:       client.Notes,
		Height:      client.Height,
		Weight:      client.Weight,
		PlanID:      client.PlanID,
		StartDate:   formatDatePtr(client.StartDate),
		EndDate:     formatDatePtr(client.EndDate),
		Status:      string(EvaluateMembership(client.EndDate, today)),
		DaysLeft:    DaysLeft(client.EndDate, today),
		TotalPaid:   totalPaid,
	}
	if client.Plan != nil {
		resp.PlanName = client.Plan.PlanName
		resp.PlanDays = client.Plan.Days
		resp.PlanAmount = client.Plan.Amount
		resp.BalanceDue = client.Plan.Amount - totalPaid
	}
	return resp
}

func (s *clientService) CreateClient(req CreateClientRequest) (*ClientResponse, error) {
	if strings.TrimSpace(req.ClientName) == "" {
		return nil, fmt.Errorf("%w: client name cannot be empty", ErrClientValidation)
	}
	if !emailRegex.MatchString(strings.ToLower(strings.TrimSpace(req.Email))) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrClientValidation)
	}
	gender := models.Gender(req.Gender)
	bloodGroup := models.BloodGroup(req.BloodGroup)
	if err := validateClientEnums(gender, bloodGroup); err != nil {
		return nil, err
	}

	dob, err := s.parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	startDate := toCalendarDay(s.clock.Today())
	if req.StartDate != nil && strings.TrimSpace(*req.StartDate) != "" {
		startDate, err = parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
	}

	plan, err := s.planRepo.GetPlanByID(req.PlanID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidPlan
		}
		return nil, fmt.Errorf("failed to fetch plan for new client: %w", err)
	}
	endDate := computeEndDate(startDate, plan.Days)

	client := &models.Client{
		ClientName:  req.ClientName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		DateOfBirth: dob,
		Gender:      gender,
		BloodGroup:  bloodGroup,
		Address:     req.Address,
		Notes:       req.Notes,
		Height:      req.Height,
		Weight:      req.Weight,
		PlanID:      plan.ID,
		StartDate:   &startDate,
		EndDate:     &endDate,
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.GetClientByID(id)
}

func (s *clientService) GetClientByID(clientID int64) (*ClientResponse, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}

	totalPaid, err := s.paymentRepo.SumAmountByClient(s.db, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments for client: %w", err)
	}

	resp := buildClientResponse(client, totalPaid, s.clock.Today())
	return &resp, nil
}

func (s *clientService) GetClients() ([]ClientResponse, error) {
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	totals, err := s.paymentTotals()
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, buildClientResponse(&clients[i], totals[clients[i].ID], today))
	}
	return responses, nil
}

func (s *clientService) UpdateClient(clientID int64, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for update: %w", err)
	}

	if req.ClientName != nil {
		if strings.TrimSpace(*req.ClientName) == "" {
			return nil, fmt.Errorf("%w: client name cannot be empty if provided", ErrClientValidation)
		}
		client.ClientName = *req.ClientName
	}
	if req.PhoneNumber != nil {
		client.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		if !emailRegex.MatchString(strings.ToLower(strings.TrimSpace(*req.Email))) {
			return nil, fmt.Errorf("%w: email format is invalid", ErrClientValidation)
		}
		client.Email = *req.Email
	}
	if req.DateOfBirth != nil {
		dob, parseErr := s.parseDateOfBirth(req.DateOfBirth)
		if parseErr != nil {
			return nil, parseErr
		}
		client.DateOfBirth = dob
	}
	if req.Gender != nil {
		client.Gender = models.Gender(*req.Gender)
	}
	if req.BloodGroup != nil {
		client.BloodGroup = models.BloodGroup(*req.BloodGroup)
	}
	if err := validateClientEnums(client.Gender, client.BloodGroup); err != nil {
		return nil, err
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}
	if req.Height != nil {
		client.Height = req.Height
	}
	if req.Weight != nil {
		client.Weight = req.Weight
	}

	if err := s.clientRepo.UpdateClientDetails(s.db, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return s.GetClientByID(clientID)
}

func (s *clientService) DeleteClient(clientID int64) error {
	if _, err := s.clientRepo.GetClientByID(clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to find client for deletion: %w", err)
	}

	if err := s.clientRepo.DeleteClient(s.db, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.invalidateClient(clientID)
	return nil
}

// FilterClients returns clients whose evaluated status matches the filter.
// "all" includes every client, Unscheduled ones included.
func (s *clientService) FilterClients(status string) ([]ClientResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	var want models.MembershipStatus
	switch status {
	case "all":
		// No status restriction.
	case "active":
		want = models.StatusActive
	case "expiring":
		want = models.StatusExpiring
	case "expired":
		want = models.StatusExpired
	default:
		return nil, ErrInvalidStatusFilter
	}

	all, err := s.GetClients()
	if err != nil {
		return nil, err
	}
	if status == "all" {
		return all, nil
	}

	filtered := []ClientResponse{}
	for _, client := range all {
		if client.Status == string(want) {
			filtered = append(filtered, client)
		}
	}
	return filtered, nil
}

// paymentTotals sums all payments grouped by client in one pass.
func (s *clientService) paymentTotals() (map[int64]float64, error) {
	payments, err := s.paymentRepo.GetPayments(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	totals := make(map[int64]float64, len(payments))
	for _, payment := range payments {
		totals[payment.ClientID] += payment.Amount
	}
	return totals, nil
}

func (s *clientService) invalidateClient(clientID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(context.Background(), balanceCacheKey(clientID), dashboardStatsCacheKey)
}
