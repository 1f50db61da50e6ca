package coupon

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type EvalInput struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	// UserUsage is how many times this user already redeemed the coupon.
	UserUsage int
	Now       time.Time
}

// Eligible reports whether c may be applied to an order described by in.
// Both ends of the validity window are inclusive. A zero limit, cap or floor
// is treated the same as an unset one.
func (c *Coupon) Eligible(in EvalInput) bool {
	if c == nil || !c.IsActive {
		return false
	}
	if in.Now.Before(c.ValidFrom) || in.Now.After(c.ValidUntil) {
		return false
	}
	if limited(c.UsageLimit) && c.UsageCount >= *c.UsageLimit {
		return false
	}
	if limited(c.UserUsageLimit) && in.UserUsage >= *c.UserUsageLimit {
		return false
	}
	if c.MinOrderAmount.Valid && in.Subtotal.LessThan(c.MinOrderAmount.Decimal) {
		return false
	}
	return true
}

// Discount is the amount taken off the order. It never exceeds the
// component it applies to, so totals cannot go negative.
func (c *Coupon) Discount(in EvalInput) decimal.Decimal {
	switch c.Type {
	case TypePercentage:
		d := in.Subtotal.Mul(c.Value).Div(hundred)
		if c.MaxDiscount.Valid && c.MaxDiscount.Decimal.IsPositive() && d.GreaterThan(c.MaxDiscount.Decimal) {
			d = c.MaxDiscount.Decimal
		}
		return clamp(d, in.Subtotal)
	case TypeFixedAmount:
		return clamp(c.Value, in.Subtotal)
	case TypeFreeShipping:
		return in.ShippingFee
	default:
		return decimal.Zero
	}
}

// Evaluate combines Eligible and Discount. ok is false when the coupon
// must be skipped.
func Evaluate(c *Coupon, in EvalInput) (discount decimal.Decimal, ok bool) {
	if !c.Eligible(in) {
		return decimal.Zero, false
	}
	return c.Discount(in), true
}

func clamp(d, limit decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(d, limit)
}

func limited(n *int) bool {
	return n != nil && *n > 0
}
