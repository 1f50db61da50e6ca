package cart

import (
	"time"

	"physicsclass-be/internal/catalog"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        string              `json:"id"`
	CartID    string              `json:"cartId"`
	ItemType  catalog.ItemType    `json:"itemType"`
	ItemID    string              `json:"itemId"`
	Title     string              `json:"title"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.NullDecimal `json:"unitPrice"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Key identifies a cart line independent of the cart it sits in.
type Key struct {
	ItemType catalog.ItemType
	ItemID   string
}

type AddItemParams struct {
	UserID    string
	ItemType  catalog.ItemType
	ItemID    string
	Title     string
	Quantity  int
	UnitPrice decimal.NullDecimal
}

type RemoveItemParams struct {
	UserID string
	Key
}
