package checkout

import (
	"time"

	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/coupon"
	"physicsclass-be/internal/order"

	"github.com/shopspring/decimal"
)

// ShippingFee is charged per order. Shipping is not monetized yet.
var ShippingFee = decimal.Zero

type quote struct {
	Items       []order.Item
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	HasPhysical bool
	Coupon      *coupon.Coupon
}

// priceLines builds a quote without a coupon. items[i] is the catalog
// entry for lines[i].
func priceLines(lines []Line, items []*catalog.Item) *quote {
	q := &quote{
		Items:       make([]order.Item, 0, len(lines)),
		Subtotal:    decimal.Zero,
		ShippingFee: ShippingFee,
		Discount:    decimal.Zero,
	}

	for i, l := range lines {
		item := items[i]
		unit := item.EffectivePrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))

		title := l.Title
		if title == "" {
			title = item.Title
		}

		q.Items = append(q.Items, order.Item{
			ItemType:   l.ItemType,
			ItemID:     l.ItemID,
			Title:      title,
			Quantity:   l.Quantity,
			UnitPrice:  unit,
			TotalPrice: lineTotal,
		})
		q.Subtotal = q.Subtotal.Add(lineTotal)
		q.HasPhysical = q.HasPhysical || item.IsPhysical
	}

	q.total()
	return q
}

// applyCoupon sets the discount when c is eligible and reports whether it was applied.
func (q *quote) applyCoupon(c *coupon.Coupon, userUsage int, now time.Time) bool {
	discount, ok := coupon.Evaluate(c, coupon.EvalInput{
		Subtotal:    q.Subtotal,
		ShippingFee: q.ShippingFee,
		UserUsage:   userUsage,
		Now:         now,
	})
	if !ok {
		return false
	}

	q.Coupon = c
	q.Discount = discount
	q.total()
	return true
}

func (q *quote) dropCoupon() {
	q.Coupon = nil
	q.Discount = decimal.Zero
	q.total()
}

func (q *quote) total() {
	t := q.Subtotal.Add(q.ShippingFee).Sub(q.Discount)
	if t.IsNegative() {
		t = decimal.Zero
	}
	q.Total = t
}

func (q *quote) free() bool {
	return q.Total.IsZero()
}
