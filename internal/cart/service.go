package cart

import (
	"context"

	"physicsclass-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for the persistent cart.
type Service interface {
	AddItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	GetItems(ctx context.Context, userID string) ([]*CartItem, error)
	RemoveItem(ctx context.Context, params RemoveItemParams) error
	// RemoveOrdered drops lines that were just bought. Missing lines are not an error.
	RemoveOrdered(ctx context.Context, userID string, keys []Key) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// AddItem puts a single unit of an item in the user's cart, creating the
// cart on first use. Quantity defaults to 1 and any other value is rejected.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("item_type", string(params.ItemType)),
		zap.String("item_id", params.ItemID),
	)

	if params.UserID == "" || params.ItemType == "" || params.ItemID == "" {
		return nil, ErrMissingFields
	}
	if !params.ItemType.Valid() {
		return nil, ErrInvalidItemType
	}
	if params.Quantity == 0 {
		params.Quantity = 1
	}
	if params.Quantity != 1 {
		return nil, ErrInvalidQuantity
	}

	cartID, err := s.repo.GetOrCreateCart(ctx, params.UserID)
	if err != nil {
		log.Error("failed to get or create cart", zap.Error(err))
		return nil, err
	}

	item, err := s.repo.CreateCartItem(ctx, cartID, params)
	if err != nil {
		log.Warn("failed to add cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item added", zap.String("cart_id", cartID))
	return item, nil
}

func (s *service) GetItems(ctx context.Context, userID string) ([]*CartItem, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}
	return s.repo.GetItems(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, params RemoveItemParams) error {
	if params.UserID == "" || params.ItemType == "" || params.ItemID == "" {
		return ErrMissingFields
	}

	n, err := s.repo.RemoveItem(ctx, params)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *service) RemoveOrdered(ctx context.Context, userID string, keys []Key) error {
	n, err := s.repo.RemoveItems(ctx, userID, keys)
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Debug("ordered items removed from cart",
		zap.Int("requested", len(keys)),
		zap.Int64("removed", n),
	)
	return nil
}
