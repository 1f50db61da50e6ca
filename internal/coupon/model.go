package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePercentage   Type = "PERCENTAGE"
	TypeFixedAmount  Type = "FIXED_AMOUNT"
	TypeFreeShipping Type = "FREE_SHIPPING"
)

type Coupon struct {
	ID             string
	Code           string
	IsActive       bool
	Type           Type
	Value          decimal.Decimal
	MaxDiscount    decimal.NullDecimal
	MinOrderAmount decimal.NullDecimal
	ValidFrom      time.Time
	ValidUntil     time.Time
	UsageLimit     *int
	UsageCount     int
	UserUsageLimit *int
}

// Usage is the append-only record of one redemption.
type Usage struct {
	CouponID string
	UserID   string
	OrderID  string
}
