package order

import (
	"errors"
	"fmt"

	"physicsclass-be/internal/catalog"
)

var (
	ErrAlreadyOwned         = errors.New("item already owned")
	ErrFailedCreateOrder    = errors.New("failed to create order")
	ErrFailedCheckOwnership = errors.New("failed to check item ownership")
	ErrFailedListOrders     = errors.New("failed to list orders")

	// PgUniqueViolation is the SQLSTATE raised by the ownership index.
	PgUniqueViolation = "23505"
	ownershipIndex    = "order_items_owned_uniq"
)

// OwnedError reports which line collided with an existing purchase.
type OwnedError struct {
	ItemType catalog.ItemType
	ItemID   string
}

func (e *OwnedError) Error() string {
	return fmt.Sprintf("%s %s already owned", e.ItemType, e.ItemID)
}

func (e *OwnedError) Is(target error) bool {
	return target == ErrAlreadyOwned
}
