package coupon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr(n int) *int { return &n }

func validCoupon(typ Type, value int64) *Coupon {
	now := time.Now()
	return &Coupon{
		ID:         "cp-1",
		Code:       "SAVE",
		IsActive:   true,
		Type:       typ,
		Value:      d(value),
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
	}
}

func TestEvaluate_Discounts(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		coupon   *Coupon
		subtotal int64
		want     int64
	}{
		{"PercentageNoCap", validCoupon(TypePercentage, 10), 500, 50},
		{"PercentageCapped", func() *Coupon {
			c := validCoupon(TypePercentage, 50)
			c.MaxDiscount = decimal.NewNullDecimal(d(100))
			return c
		}(), 1000, 100},
		{"PercentageZeroCapIsUncapped", func() *Coupon {
			c := validCoupon(TypePercentage, 50)
			c.MaxDiscount = decimal.NewNullDecimal(d(0))
			return c
		}(), 1000, 500},
		{"PercentageOver100NeverExceedsSubtotal", validCoupon(TypePercentage, 150), 200, 200},
		{"FixedBelowSubtotal", validCoupon(TypeFixedAmount, 100), 500, 100},
		{"FixedAboveSubtotal", validCoupon(TypeFixedAmount, 900), 500, 500},
		{"FreeShippingIsShippingFee", validCoupon(TypeFreeShipping, 0), 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Evaluate(tt.coupon, EvalInput{Subtotal: d(tt.subtotal), ShippingFee: decimal.Zero, Now: now})
			assert.True(t, ok)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %d", got, tt.want)
		})
	}
}

func TestEvaluate_Eligibility(t *testing.T) {
	now := time.Now()
	in := EvalInput{Subtotal: d(500), Now: now}

	t.Run("Nil", func(t *testing.T) {
		_, ok := Evaluate(nil, in)
		assert.False(t, ok)
	})

	t.Run("Inactive", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.IsActive = false
		_, ok := Evaluate(c, in)
		assert.False(t, ok)
	})

	t.Run("Expired", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.ValidUntil = now.Add(-time.Minute)
		_, ok := Evaluate(c, in)
		assert.False(t, ok)
	})

	t.Run("NotStarted", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.ValidFrom = now.Add(time.Minute)
		_, ok := Evaluate(c, in)
		assert.False(t, ok)
	})

	t.Run("WindowInclusive", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.ValidFrom = now
		c.ValidUntil = now
		_, ok := Evaluate(c, in)
		assert.True(t, ok)
	})

	t.Run("GlobalLimitReached", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.UsageLimit = ptr(5)
		c.UsageCount = 5
		_, ok := Evaluate(c, in)
		assert.False(t, ok)
	})

	t.Run("ZeroGlobalLimitIsUnlimited", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.UsageLimit = ptr(0)
		c.UsageCount = 99
		_, ok := Evaluate(c, in)
		assert.True(t, ok)
	})

	t.Run("UserLimitReached", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.UserUsageLimit = ptr(1)
		_, ok := Evaluate(c, EvalInput{Subtotal: d(500), UserUsage: 1, Now: now})
		assert.False(t, ok)
	})

	t.Run("BelowMinOrder", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.MinOrderAmount = decimal.NewNullDecimal(d(1000))
		_, ok := Evaluate(c, in)
		assert.False(t, ok)
	})

	t.Run("AtMinOrder", func(t *testing.T) {
		c := validCoupon(TypeFixedAmount, 10)
		c.MinOrderAmount = decimal.NewNullDecimal(d(500))
		_, ok := Evaluate(c, in)
		assert.True(t, ok)
	})
}
