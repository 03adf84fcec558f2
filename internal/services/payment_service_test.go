package services

import (
	"testing"

	"gym_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPayment_PartialPaymentsReduceBalance(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Standard", 30, 100)
	client := f.addClient(t, "nur", plan, "2024-01-01", "2024-01-31")
	svc := f.paymentService()

	_, balance, err := svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 40, Method: "Cash", PaidAt: "2024-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, balance.BalanceDue)

	_, balance, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 40, Method: "Credit Card", PaidAt: "2024-01-05",
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, balance.BalanceDue)
	assert.Equal(t, 80.0, balance.TotalPaid)
	assert.False(t, balance.Overpayment)

	_, balance, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 20, Method: "Cash", PaidAt: "2024-01-08",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.BalanceDue)
	assert.False(t, balance.Overpayment)

	_, balance, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 10, Method: "Cash", PaidAt: "2024-01-09",
	})
	require.NoError(t, err)
	assert.Equal(t, -10.0, balance.BalanceDue)
	assert.True(t, balance.Overpayment)
}

func TestRecordPayment_Validation(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Standard", 30, 100)
	client := f.addClient(t, "ada", plan, "2024-01-01", "2024-01-31")
	svc := f.paymentService()

	_, _, err := svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 0, Method: "Cash", PaidAt: "2024-01-02",
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: -5, Method: "Cash", PaidAt: "2024-01-02",
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 10, Method: "Cheque", PaidAt: "2024-01-02",
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, _, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 10, Method: "Cash", PaidAt: "02.01.2024",
	})
	assert.ErrorIs(t, err, ErrDateFormat)

	// Nothing was recorded by the rejected attempts.
	payments, err := svc.GetPayments(&client.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestRecordPayment_UnknownClient(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	svc := f.paymentService()

	_, _, err := svc.RecordPayment(RecordPaymentRequest{
		ClientID: 77, Amount: 10, Method: "Cash", PaidAt: "2024-01-02",
	})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestDeletePayment_BalanceRecomputedFromRemainingSet(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Standard", 30, 100)
	client := f.addClient(t, "olga", plan, "2024-01-01", "2024-01-31")
	svc := f.paymentService()

	first, _, err := svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 40, Method: "Cash", PaidAt: "2024-01-02",
	})
	require.NoError(t, err)
	_, _, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 30, Method: "Cash", PaidAt: "2024-01-03",
	})
	require.NoError(t, err)

	balance, err := svc.DeletePayment(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance.TotalPaid)
	assert.Equal(t, 70.0, balance.BalanceDue)

	// Re-adding the same amount restores the original position.
	_, balance, err = svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 40, Method: "Cash", PaidAt: "2024-01-04",
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, balance.TotalPaid)
	assert.Equal(t, 30.0, balance.BalanceDue)
}

func TestDeletePayment_Unknown(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	_, err := f.paymentService().DeletePayment(5)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestUpdatePayment_ReplacesFieldsAtomically(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Standard", 30, 100)
	client := f.addClient(t, "ivan", plan, "2024-01-01", "2024-01-31")
	svc := f.paymentService()

	payment, _, err := svc.RecordPayment(RecordPaymentRequest{
		ClientID: client.ID, Amount: 40, Method: "Cash", PaidAt: "2024-01-02",
	})
	require.NoError(t, err)

	balance, err := svc.UpdatePayment(payment.ID, RecordPaymentRequest{
		ClientID: client.ID, Amount: 55, Method: "Bank Transfer", PaidAt: "2024-01-03",
	})
	require.NoError(t, err)
	assert.Equal(t, 55.0, balance.TotalPaid)
	assert.Equal(t, 45.0, balance.BalanceDue)

	payments, err := svc.GetPayments(&client.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.MethodBankTransfer, payments[0].Method)
	assert.Equal(t, 55.0, payments[0].Amount)
}

func TestUpdatePayment_MovesPaymentBetweenClients(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	plan := f.planRepo.addPlan("Standard", 30, 100)
	alice := f.addClient(t, "alice", plan, "2024-01-01", "2024-01-31")
	bella := f.addClient(t, "bella", plan, "2024-01-01", "2024-01-31")
	svc := f.paymentService()

	payment, _, err := svc.RecordPayment(RecordPaymentRequest{
		ClientID: alice.ID, Amount: 60, Method: "Cash", PaidAt: "2024-01-02",
	})
	require.NoError(t, err)

	balance, err := svc.UpdatePayment(payment.ID, RecordPaymentRequest{
		ClientID: bella.ID, Amount: 60, Method: "Cash", PaidAt: "2024-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, bella.ID, balance.ClientID)
	assert.Equal(t, 60.0, balance.TotalPaid)

	aliceBalance, err := svc.BalanceFor(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, aliceBalance.TotalPaid)
	assert.Equal(t, 100.0, aliceBalance.BalanceDue)
}

func TestBalanceFor_UnknownClient(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	_, err := f.paymentService().BalanceFor(12)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
