package cart

import "errors"

var (
	// -- Validation & Input --
	ErrMissingFields   = errors.New("userId, itemType and itemId are required")
	ErrInvalidItemType = errors.New("invalid item type")
	ErrInvalidQuantity = errors.New("only one of each item may be added")

	// -- Resource State --
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartItemAlreadyExist = errors.New("cart item already exists")

	// -- Database & Operation Failures --
	ErrFailedGetCart        = errors.New("failed to get cart")
	ErrFailedCreateCartItem = errors.New("failed to create cart item")
	ErrFailedRemoveCart     = errors.New("failed to remove cart item")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
