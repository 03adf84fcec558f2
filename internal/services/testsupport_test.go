package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"

	"github.com/stretchr/testify/require"
)

// The services only use *sql.DB for Begin/Commit; all data access goes
// through the repository interfaces, which the fakes below implement. The
// stub driver gives tests a real *sql.DB whose transactions are no-ops.

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubOnce sync.Once

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	registerStubOnce.Do(func() { sql.Register("stubdb", stubDriver{}) })
	db, err := sql.Open("stubdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// fixedClock pins "today" so status boundaries are deterministic.
type fixedClock struct {
	today time.Time
}

func (c fixedClock) Today() time.Time { return c.today }

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

// --- fake plan repository ---

type fakePlanRepo struct {
	plans  map[int64]models.Plan
	nextID int64
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[int64]models.Plan{}, nextID: 1}
}

func (r *fakePlanRepo) addPlan(name string, days int, amount float64) models.Plan {
	plan := models.Plan{ID: r.nextID, PlanName: name, Days: days, Amount: amount}
	r.plans[plan.ID] = plan
	r.nextID++
	return plan
}

func (r *fakePlanRepo) CreatePlan(_ repositories.SQLExecutor, plan *models.Plan) (int64, error) {
	plan.ID = r.nextID
	r.plans[plan.ID] = *plan
	r.nextID++
	return plan.ID, nil
}

func (r *fakePlanRepo) GetPlanByID(id int64) (*models.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &plan, nil
}

func (r *fakePlanRepo) GetPlans() ([]models.Plan, error) {
	ids := make([]int64, 0, len(r.plans))
	for id := range r.plans {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	plans := make([]models.Plan, 0, len(ids))
	for _, id := range ids {
		plans = append(plans, r.plans[id])
	}
	return plans, nil
}

func (r *fakePlanRepo) UpdatePlan(_ repositories.SQLExecutor, plan *models.Plan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.plans[plan.ID] = *plan
	return nil
}

func (r *fakePlanRepo) DeletePlan(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.plans[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

// --- fake client repository ---

type fakeClientRepo struct {
	clients  map[int64]models.Client
	planRepo *fakePlanRepo
	nextID   int64
}

func newFakeClientRepo(planRepo *fakePlanRepo) *fakeClientRepo {
	return &fakeClientRepo{clients: map[int64]models.Client{}, planRepo: planRepo, nextID: 1}
}

func (r *fakeClientRepo) withPlan(client models.Client) models.Client {
	if plan, ok := r.planRepo.plans[client.PlanID]; ok {
		p := plan
		client.Plan = &p
	}
	return client
}

func (r *fakeClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	client.ID = r.nextID
	r.clients[client.ID] = *client
	r.nextID++
	return client.ID, nil
}

func (r *fakeClientRepo) GetClientByID(id int64) (*models.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	client = r.withPlan(client)
	return &client, nil
}

func (r *fakeClientRepo) GetClients() ([]models.Client, error) {
	ids := make([]int64, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	clients := make([]models.Client, 0, len(ids))
	for _, id := range ids {
		clients = append(clients, r.withPlan(r.clients[id]))
	}
	return clients, nil
}

func (r *fakeClientRepo) UpdateClientDetails(_ repositories.SQLExecutor, client *models.Client) error {
	existing, ok := r.clients[client.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	// Subscription fields are preserved no matter what the caller passes.
	updated := *client
	updated.PlanID = existing.PlanID
	updated.StartDate = existing.StartDate
	updated.EndDate = existing.EndDate
	r.clients[client.ID] = updated
	return nil
}

func (r *fakeClientRepo) UpdateSubscription(_ repositories.SQLExecutor, clientID, planID int64, startDate, endDate time.Time) error {
	client, ok := r.clients[clientID]
	if !ok {
		return repositories.ErrNotFound
	}
	client.PlanID = planID
	client.StartDate = &startDate
	client.EndDate = &endDate
	r.clients[clientID] = client
	return nil
}

func (r *fakeClientRepo) DeleteClient(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) CountByPlan(planID int64) (int, error) {
	count := 0
	for _, client := range r.clients {
		if client.PlanID == planID {
			count++
		}
	}
	return count, nil
}

// --- fake payment repository ---

type fakePaymentRepo struct {
	payments map[int64]models.Payment
	nextID   int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[int64]models.Payment{}, nextID: 1}
}

func (r *fakePaymentRepo) CreatePayment(_ repositories.SQLExecutor, payment *models.Payment) (int64, error) {
	payment.ID = r.nextID
	r.payments[payment.ID] = *payment
	r.nextID++
	return payment.ID, nil
}

func (r *fakePaymentRepo) GetPaymentByID(id int64) (*models.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &payment, nil
}

func (r *fakePaymentRepo) GetPayments(clientID *int64) ([]models.Payment, error) {
	ids := make([]int64, 0, len(r.payments))
	for id := range r.payments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	payments := []models.Payment{}
	for _, id := range ids {
		payment := r.payments[id]
		if clientID != nil && payment.ClientID != *clientID {
			continue
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func (r *fakePaymentRepo) UpdatePayment(_ repositories.SQLExecutor, payment *models.Payment) error {
	if _, ok := r.payments[payment.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.payments[payment.ID] = *payment
	return nil
}

func (r *fakePaymentRepo) DeletePayment(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.payments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) SumAmountByClient(_ repositories.SQLExecutor, clientID int64) (float64, error) {
	total := 0.0
	for _, payment := range r.payments {
		if payment.ClientID == clientID {
			total += payment.Amount
		}
	}
	return total, nil
}

// --- fake lead repository ---

type fakeLeadRepo struct {
	leads  map[int64]models.Lead
	nextID int64
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[int64]models.Lead{}, nextID: 1}
}

func (r *fakeLeadRepo) CreateLead(_ repositories.SQLExecutor, lead *models.Lead) (int64, error) {
	lead.ID = r.nextID
	r.leads[lead.ID] = *lead
	r.nextID++
	return lead.ID, nil
}

func (r *fakeLeadRepo) GetLeadByID(id int64) (*models.Lead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &lead, nil
}

func (r *fakeLeadRepo) GetLeads() ([]models.Lead, error) {
	leads := make([]models.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		leads = append(leads, lead)
	}
	return leads, nil
}

func (r *fakeLeadRepo) DeleteLead(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.leads[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) CountLeads() (int, error) {
	return len(r.leads), nil
}

// --- fixture helpers ---

type fixture struct {
	db          *sql.DB
	planRepo    *fakePlanRepo
	clientRepo  *fakeClientRepo
	paymentRepo *fakePaymentRepo
	leadRepo    *fakeLeadRepo
	locks       *ClientLocker
	clock       fixedClock
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	planRepo := newFakePlanRepo()
	return &fixture{
		db:          newStubDB(t),
		planRepo:    planRepo,
		clientRepo:  newFakeClientRepo(planRepo),
		paymentRepo: newFakePaymentRepo(),
		leadRepo:    newFakeLeadRepo(),
		locks:       NewClientLocker(),
		clock:       fixedClock{today: mustDate(t, today)},
	}
}

func (f *fixture) addClient(t *testing.T, name string, plan models.Plan, start, end string) models.Client {
	t.Helper()
	client := models.Client{
		ClientName:  name,
		PhoneNumber: "+10000000000",
		Email:       name + "@example.com",
		Gender:      models.GenderMale,
		BloodGroup:  models.BloodOPos,
		PlanID:      plan.ID,
	}
	if start != "" {
		startDate := mustDate(t, start)
		client.StartDate = &startDate
	}
	if end != "" {
		endDate := mustDate(t, end)
		client.EndDate = &endDate
	}
	id, err := f.clientRepo.CreateClient(nil, &client)
	require.NoError(t, err)
	client.ID = id
	return client
}

func (f *fixture) addPayment(t *testing.T, clientID int64, amount float64, paidAt string) models.Payment {
	t.Helper()
	payment := models.Payment{
		ClientID: clientID,
		Amount:   amount,
		Method:   models.MethodCash,
		PaidAt:   mustDate(t, paidAt),
	}
	_, err := f.paymentRepo.CreatePayment(nil, &payment)
	require.NoError(t, err)
	return payment
}

func (f *fixture) clientService() ClientService {
	return NewClientService(f.clientRepo, f.planRepo, f.paymentRepo, f.db, nil, f.clock)
}

func (f *fixture) subscriptionService() SubscriptionService {
	return NewSubscriptionService(f.clientRepo, f.planRepo, f.paymentRepo, f.db, f.locks, nil, nil, f.clock)
}

func (f *fixture) paymentService() PaymentService {
	return NewPaymentService(f.paymentRepo, f.clientRepo, f.db, f.locks, nil, nil)
}

func (f *fixture) statsService() StatsService {
	return NewStatsService(f.clientRepo, f.paymentRepo, f.planRepo, f.leadRepo, nil, f.clock)
}
