package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetOrCreateCart(ctx context.Context, userID string) (string, error)
	CreateCartItem(ctx context.Context, cartID string, params AddItemParams) (*CartItem, error)
	// GetItems returns ErrCartNotFound when the user never had a cart.
	GetItems(ctx context.Context, userID string) ([]*CartItem, error)
	RemoveItem(ctx context.Context, params RemoveItemParams) (int64, error)
	// RemoveItems deletes exactly the given lines and leaves the rest of the cart alone.
	RemoveItems(ctx context.Context, userID string, keys []Key) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateCart(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`, uuid.NewString(), userID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedGetCart, err)
	}
	return id, nil
}

func (r *repository) CreateCartItem(ctx context.Context, cartID string, params AddItemParams) (*CartItem, error) {
	item := CartItem{
		CartID:    cartID,
		ItemType:  params.ItemType,
		ItemID:    params.ItemID,
		Title:     params.Title,
		Quantity:  params.Quantity,
		UnitPrice: params.UnitPrice,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_items (id, cart_id, item_type, item_id, title, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		uuid.NewString(), cartID, params.ItemType, params.ItemID, params.Title, params.Quantity, params.UnitPrice,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return nil, ErrCartItemAlreadyExist
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedCreateCartItem, err)
	}

	return &item, nil
}

func (r *repository) GetItems(ctx context.Context, userID string) ([]*CartItem, error) {
	var cartID string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM carts WHERE user_id = $1`, userID,
	).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetCart, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cart_id, item_type, item_id, title, quantity, unit_price, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetCart, err)
	}
	defer rows.Close()

	items := []*CartItem{}
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ItemType, &it.ItemID, &it.Title, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedGetCart, err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetCart, err)
	}

	return items, nil
}

func (r *repository) RemoveItem(ctx context.Context, params RemoveItemParams) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id
		  AND c.user_id = $1
		  AND ci.item_type = $2
		  AND ci.item_id = $3
	`, params.UserID, params.ItemType, params.ItemID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFailedRemoveCart, err)
	}
	return res.RowsAffected()
}

func (r *repository) RemoveItems(ctx context.Context, userID string, keys []Key) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	types := make([]string, 0, len(keys))
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		types = append(types, string(k.ItemType))
		ids = append(ids, k.ItemID)
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id
		  AND c.user_id = $1
		  AND (ci.item_type, ci.item_id) IN (
			SELECT * FROM unnest($2::text[], $3::text[])
		  )
	`, userID, pq.Array(types), pq.Array(ids))
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to remove ordered cart items",
			zap.String("user_id", userID),
			zap.Int("keys", len(keys)),
			zap.Error(err),
		)
		return 0, fmt.Errorf("%w: %v", ErrFailedRemoveCart, err)
	}
	return res.RowsAffected()
}
