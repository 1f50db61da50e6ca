package mapper

import (
	"time"

	"physicsclass-be/internal/checkout"
	"physicsclass-be/internal/order"
	"physicsclass-be/internal/utils"

	"github.com/shopspring/decimal"
)

// Money is sent as a JSON number.
func Money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

type CheckoutResult struct {
	OrderID string  `json:"orderId"`
	IsFree  bool    `json:"isFree"`
	Total   float64 `json:"total"`
}

func MapCheckoutResult(r *checkout.Result) CheckoutResult {
	return CheckoutResult{
		OrderID: r.OrderID,
		IsFree:  r.IsFree,
		Total:   Money(r.Total),
	}
}

type Order struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Status         string    `json:"status"`
	Subtotal       float64   `json:"subtotal"`
	ShippingFee    float64   `json:"shippingFee"`
	CouponDiscount float64   `json:"couponDiscount"`
	Total          float64   `json:"total"`
	CouponCode     string    `json:"couponCode,omitempty"`
	CreatedAt      string    `json:"createdAt"`
	Items          []Item    `json:"items"`
	Payment        *Payment  `json:"payment"`
	Shipping       *Shipping `json:"shipping"`
}

type Item struct {
	ItemType   string  `json:"itemType"`
	ItemID     string  `json:"itemId"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

type Payment struct {
	Method string  `json:"paymentMethod"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
	Ref    string  `json:"ref"`
	PaidAt *string `json:"paidAt"`
}

type Shipping struct {
	RecipientName  string `json:"recipientName"`
	RecipientPhone string `json:"recipientPhone"`
	Address        string `json:"address"`
	District       string `json:"district"`
	Province       string `json:"province"`
	PostalCode     string `json:"postalCode"`
	Method         string `json:"shippingMethod"`
	Status         string `json:"status"`
}

func MapOrder(o *order.Order) Order {
	out := Order{
		ID:             o.ID,
		UserID:         o.UserID,
		Status:         string(o.Status),
		Subtotal:       Money(o.Subtotal),
		ShippingFee:    Money(o.ShippingFee),
		CouponDiscount: Money(o.CouponDiscount),
		Total:          Money(o.Total),
		CouponCode:     utils.PtrString(o.CouponCode),
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
		Items:          make([]Item, 0, len(o.Items)),
	}

	for _, it := range o.Items {
		out.Items = append(out.Items, Item{
			ItemType:   string(it.ItemType),
			ItemID:     it.ItemID,
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  Money(it.UnitPrice),
			TotalPrice: Money(it.TotalPrice),
		})
	}

	if p := o.Payment; p != nil {
		out.Payment = &Payment{
			Method: string(p.Method),
			Status: string(p.Status),
			Amount: Money(p.Amount),
			Ref:    p.Ref,
		}
		if p.PaidAt != nil {
			out.Payment.PaidAt = utils.StrPtr(p.PaidAt.Format(time.RFC3339))
		}
	}

	if s := o.Shipping; s != nil {
		out.Shipping = &Shipping{
			RecipientName:  s.RecipientName,
			RecipientPhone: s.RecipientPhone,
			Address:        s.Address,
			District:       s.District,
			Province:       s.Province,
			PostalCode:     s.PostalCode,
			Method:         string(s.Method),
			Status:         string(s.Status),
		}
	}

	return out
}

func MapOrders(orders []*order.Order) []Order {
	res := make([]Order, 0, len(orders))
	for _, o := range orders {
		res = append(res, MapOrder(o))
	}
	return res
}
