package order

import (
	"time"

	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/payment"
	"physicsclass-be/internal/shipping"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type Order struct {
	ID             string
	UserID         string
	Status         Status
	Subtotal       decimal.Decimal
	ShippingFee    decimal.Decimal
	CouponDiscount decimal.Decimal
	Total          decimal.Decimal
	CouponID       *string
	CouponCode     *string
	CreatedAt      time.Time
	Items          []Item

	// Loaded by ListByUser only.
	Payment  *payment.Payment
	Shipping *shipping.Shipping
}

// Item is one order line. Title and prices are snapshots taken at checkout.
type Item struct {
	ItemType   catalog.ItemType
	ItemID     string
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// StatusForTotal is COMPLETED for free orders and PENDING otherwise.
func StatusForTotal(total decimal.Decimal) Status {
	if total.IsZero() {
		return StatusCompleted
	}
	return StatusPending
}
