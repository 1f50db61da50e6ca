package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/db"
	"physicsclass-be/internal/logger"
	"physicsclass-be/internal/payment"
	"physicsclass-be/internal/shipping"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	HasCompletedOrderFor(ctx context.Context, userID string, itemType catalog.ItemType, itemID string) (bool, error)
	// InsertTx writes the order and its items on q. A collision with an
	// existing non-cancelled purchase of the same item yields *OwnedError.
	InsertTx(ctx context.Context, q db.DBTX, o *Order) error
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) HasCompletedOrderFor(
	ctx context.Context,
	userID string,
	itemType catalog.ItemType,
	itemID string,
) (bool, error) {

	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.user_id = $1
			  AND o.status = $2
			  AND oi.item_type = $3
			  AND oi.item_id = $4
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, q, userID, StatusCompleted, itemType, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrFailedCheckOwnership, err)
	}
	return exists, nil
}

func (r *repository) InsertTx(ctx context.Context, q db.DBTX, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "InsertTx"),
		zap.String("order_id", o.ID),
	)

	// 1. Insert order
	_, err := q.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, subtotal, shipping_fee,
			coupon_discount, total, coupon_id, coupon_code, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID,
		o.UserID,
		o.Status,
		o.Subtotal,
		o.ShippingFee,
		o.CouponDiscount,
		o.Total,
		o.CouponID,
		o.CouponCode,
		o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedCreateOrder, err)
	}

	// 2. Insert items; user_id and order_status feed the ownership index
	for _, item := range o.Items {
		_, err = q.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, user_id, order_status, item_type, item_id,
				title, quantity, unit_price, total_price
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			o.ID,
			o.UserID,
			o.Status,
			item.ItemType,
			item.ItemID,
			item.Title,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
		)
		if err != nil {
			if isOwnershipViolation(err) {
				log.Warn("ownership index rejected item",
					zap.String("item_type", string(item.ItemType)),
					zap.String("item_id", item.ItemID),
				)
				return &OwnedError{ItemType: item.ItemType, ItemID: item.ItemID}
			}
			log.Error("failed to insert order item", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrFailedCreateOrder, err)
		}
	}

	return nil
}

func isOwnershipViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == PgUniqueViolation && pqErr.Constraint == ownershipIndex
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			o.id, o.user_id, o.status, o.subtotal, o.shipping_fee,
			o.coupon_discount, o.total, o.coupon_id, o.coupon_code, o.created_at,
			p.id, p.method, p.status, p.amount, p.ref, p.paid_at,
			s.id, s.recipient_name, s.recipient_phone, s.address,
			s.district, s.province, s.postal_code, s.shipping_method, s.status
		FROM orders o
		LEFT JOIN payments p ON p.order_id = o.id
		LEFT JOIN shippings s ON s.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`, userID)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedListOrders, err)
	}
	defer rows.Close()

	var (
		orders []*Order
		ids    []string
		byID   = map[string]*Order{}
	)

	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrFailedListOrders, err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedListOrders, err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, item_type, item_id, title, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedListOrders, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID string
			it      Item
		)
		if err := itemRows.Scan(&orderID, &it.ItemType, &it.ItemID, &it.Title, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedListOrders, err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedListOrders, err)
	}

	log.Debug("orders listed", zap.Int("count", len(orders)))
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrderRow(s scanner) (*Order, error) {
	var (
		o Order

		payID, payMethod, payStatus, payRef sql.NullString
		payAmount                           decimal.NullDecimal
		paidAt                              sql.NullTime

		shipID, shipName, shipPhone, shipAddr  sql.NullString
		shipDistrict, shipProvince, shipPostal sql.NullString
		shipMethod, shipStatus                 sql.NullString
	)

	err := s.Scan(
		&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.ShippingFee,
		&o.CouponDiscount, &o.Total, &o.CouponID, &o.CouponCode, &o.CreatedAt,
		&payID, &payMethod, &payStatus, &payAmount, &payRef, &paidAt,
		&shipID, &shipName, &shipPhone, &shipAddr,
		&shipDistrict, &shipProvince, &shipPostal, &shipMethod, &shipStatus,
	)
	if err != nil {
		return nil, err
	}

	if payID.Valid {
		o.Payment = &payment.Payment{
			ID:      payID.String,
			OrderID: o.ID,
			Method:  payment.Method(payMethod.String),
			Status:  payment.Status(payStatus.String),
			Amount:  payAmount.Decimal,
			Ref:     payRef.String,
		}
		if paidAt.Valid {
			t := paidAt.Time
			o.Payment.PaidAt = &t
		}
	}

	if shipID.Valid {
		o.Shipping = &shipping.Shipping{
			ID:             shipID.String,
			OrderID:        o.ID,
			RecipientName:  shipName.String,
			RecipientPhone: shipPhone.String,
			Address:        shipAddr.String,
			District:       shipDistrict.String,
			Province:       shipProvince.String,
			PostalCode:     shipPostal.String,
			Method:         shipping.Method(shipMethod.String),
			Status:         shipping.Status(shipStatus.String),
		}
	}

	return &o, nil
}
