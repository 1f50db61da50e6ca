package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/db"
	"physicsclass-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// FindActive returns nil, nil when no active coupon has the code.
	FindActive(ctx context.Context, code string) (*Coupon, error)
	CountUserUsage(ctx context.Context, couponID, userID string) (int, error)
	// Redeem bumps usage_count only while it is below usage_limit and records
	// the usage row. It must run on the checkout transaction.
	Redeem(ctx context.Context, q db.DBTX, u Usage) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActive(ctx context.Context, code string) (*Coupon, error) {
	const q = `
		SELECT id, code, is_active, type, value, max_discount, min_order_amount,
		       valid_from, valid_until, usage_limit, usage_count, user_usage_limit
		FROM coupons
		WHERE code = $1 AND is_active = TRUE
	`

	var (
		c          Coupon
		usageLimit sql.NullInt64
		userLimit  sql.NullInt64
	)

	err := r.db.QueryRowContext(ctx, q, code).Scan(
		&c.ID, &c.Code, &c.IsActive, &c.Type, &c.Value, &c.MaxDiscount, &c.MinOrderAmount,
		&c.ValidFrom, &c.ValidUntil, &usageLimit, &c.UsageCount, &userLimit,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to load coupon",
			zap.String("code", code),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrFailedGetCoupon, err)
	}

	c.UsageLimit = intPtr(usageLimit)
	c.UserUsageLimit = intPtr(userLimit)
	return &c, nil
}

func (r *repository) CountUserUsage(ctx context.Context, couponID, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2`,
		couponID, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFailedCountUsage, err)
	}
	return n, nil
}

func (r *repository) Redeem(ctx context.Context, q db.DBTX, u Usage) error {
	res, err := q.ExecContext(ctx, `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND (usage_limit IS NULL OR usage_limit = 0 OR usage_count < usage_limit)
	`, u.CouponID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedRedeemCoupon, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedRedeemCoupon, err)
	}
	if affected == 0 {
		return ErrUsageLimitReached
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO coupon_usages (coupon_id, user_id, order_id)
		VALUES ($1, $2, $3)
	`, u.CouponID, u.UserID, u.OrderID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedRedeemCoupon, err)
	}

	return nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
