package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodFree         Method = "FREE"
	MethodBankTransfer Method = "BANK_TRANSFER"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

type Payment struct {
	ID      string
	OrderID string
	Method  Method
	Status  Status
	Amount  decimal.Decimal
	Ref     string
	PaidAt  *time.Time
}

// ForOrder builds the payment row that accompanies a new order. Zero-amount
// orders are settled immediately; everything else waits for a bank transfer.
func ForOrder(id, orderID string, amount decimal.Decimal, now time.Time) *Payment {
	p := &Payment{
		ID:      id,
		OrderID: orderID,
		Amount:  amount,
	}

	if amount.IsZero() {
		paidAt := now
		p.Method = MethodFree
		p.Status = StatusCompleted
		p.PaidAt = &paidAt
		p.Ref = NewReference(true, now)
		return p
	}

	p.Method = MethodBankTransfer
	p.Status = StatusPending
	p.Ref = NewReference(false, now)
	return p
}
