package checkout

import (
	"physicsclass-be/internal/cart"
	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/coupon"
	"physicsclass-be/internal/enrollment"
	"physicsclass-be/internal/order"
	"physicsclass-be/internal/outbox"
	"physicsclass-be/internal/payment"
	"physicsclass-be/internal/shipping"

	"github.com/shopspring/decimal"
)

// Line is one requested purchase. Quantity <= 0 means 1.
type Line struct {
	ItemType catalog.ItemType
	ItemID   string
	Title    string
	Quantity int
}

func (l Line) key() cart.Key {
	return cart.Key{ItemType: l.ItemType, ItemID: l.ItemID}
}

type Request struct {
	UserID          string
	Lines           []Line
	CouponCode      string
	ShippingAddress *shipping.Address
}

type Result struct {
	OrderID string
	IsFree  bool
	Total   decimal.Decimal
	Message string
}

// Placement is everything the core transaction writes for one checkout.
type Placement struct {
	Order       *order.Order
	Payment     *payment.Payment
	Enrollments []*enrollment.Enrollment
	Redemption  *coupon.Usage
	Shipping    *shipping.Shipping
	Event       *outbox.Event
}
