package checkout

import (
	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/order"

	"github.com/shopspring/decimal"
)

// orderCreated is the payload of the order.created outbox event consumed by
// enrollment, shipping and notification workers.
type orderCreated struct {
	OrderID     string             `json:"orderId"`
	UserID      string             `json:"userId"`
	Status      order.Status       `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	IsFree      bool               `json:"isFree"`
	HasPhysical bool               `json:"hasPhysical"`
	CouponCode  string             `json:"couponCode,omitempty"`
	Items       []orderCreatedItem `json:"items"`
}

type orderCreatedItem struct {
	ItemType catalog.ItemType `json:"itemType"`
	ItemID   string           `json:"itemId"`
	Quantity int              `json:"quantity"`
}

func newOrderCreated(o *order.Order, q *quote) orderCreated {
	ev := orderCreated{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		Total:       o.Total,
		IsFree:      q.free(),
		HasPhysical: q.HasPhysical,
		Items:       make([]orderCreatedItem, 0, len(o.Items)),
	}
	if o.CouponCode != nil {
		ev.CouponCode = *o.CouponCode
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, orderCreatedItem{ItemType: it.ItemType, ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return ev
}
