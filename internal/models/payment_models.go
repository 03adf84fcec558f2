package models

import "time"

// PaymentMethod is a closed set so method reports can be exhaustive.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodCreditCard   PaymentMethod = "Credit Card"
	MethodDebitCard    PaymentMethod = "Debit Card"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
)

func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodCash, MethodCreditCard, MethodDebitCard, MethodBankTransfer}
}

func (m PaymentMethod) IsValid() bool {
	for _, v := range AllPaymentMethods() {
		if m == v {
			return true
		}
	}
	return false
}

// Payment is one recorded amount against a client's plan.
type Payment struct {
	ID        int64         `json:"id" db:"id"`
	ClientID  int64         `json:"client_id" db:"client_id"`
	Amount    float64       `json:"amount" db:"amount"`
	Method    PaymentMethod `json:"method" db:"method"`
	PaidAt    time.Time     `json:"paid_at" db:"paid_at"`
	Note      *string       `json:"note,omitempty" db:"note"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
