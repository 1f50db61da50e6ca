package mapper

import (
	"time"

	"physicsclass-be/internal/cart"
	"physicsclass-be/internal/enrollment"
)

type CartItem struct {
	ID        string   `json:"id"`
	ItemType  string   `json:"itemType"`
	ItemID    string   `json:"itemId"`
	Title     string   `json:"title"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice"`
	CreatedAt string   `json:"createdAt"`
}

func MapCartItem(ci *cart.CartItem) CartItem {
	out := CartItem{
		ID:        ci.ID,
		ItemType:  string(ci.ItemType),
		ItemID:    ci.ItemID,
		Title:     ci.Title,
		Quantity:  ci.Quantity,
		CreatedAt: ci.CreatedAt.Format(time.RFC3339),
	}
	if ci.UnitPrice.Valid {
		p := Money(ci.UnitPrice.Decimal)
		out.UnitPrice = &p
	}
	return out
}

func MapCartItems(items []*cart.CartItem) []CartItem {
	res := make([]CartItem, 0, len(items))
	for _, ci := range items {
		res = append(res, MapCartItem(ci))
	}
	return res
}

type Enrollment struct {
	ID         string `json:"id"`
	CourseID   string `json:"courseId"`
	Status     string `json:"status"`
	EnrolledAt string `json:"enrolledAt"`
}

func MapEnrollments(list []*enrollment.Enrollment) []Enrollment {
	res := make([]Enrollment, 0, len(list))
	for _, e := range list {
		res = append(res, Enrollment{
			ID:         e.ID,
			CourseID:   e.CourseID,
			Status:     string(e.Status),
			EnrolledAt: e.EnrolledAt.Format(time.RFC3339),
		})
	}
	return res
}
