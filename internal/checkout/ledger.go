package checkout

import (
	"context"
	"database/sql"

	"physicsclass-be/internal/coupon"
	"physicsclass-be/internal/db"
	"physicsclass-be/internal/enrollment"
	"physicsclass-be/internal/order"
	"physicsclass-be/internal/outbox"
	"physicsclass-be/internal/payment"
	"physicsclass-be/internal/shipping"
)

type sqlLedger struct {
	db          *sql.DB
	orders      order.Repository
	payments    payment.Repository
	enrollments enrollment.Repository
	coupons     coupon.Repository
	shippings   shipping.Repository
	events      outbox.Repository
}

func NewLedger(
	database *sql.DB,
	orders order.Repository,
	payments payment.Repository,
	enrollments enrollment.Repository,
	coupons coupon.Repository,
	shippings shipping.Repository,
	events outbox.Repository,
) Ledger {
	return &sqlLedger{
		db:          database,
		orders:      orders,
		payments:    payments,
		enrollments: enrollments,
		coupons:     coupons,
		shippings:   shippings,
		events:      events,
	}
}

func (l *sqlLedger) Record(ctx context.Context, p *Placement) error {
	return db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		// 1. Order and items
		if err := l.orders.InsertTx(ctx, tx, p.Order); err != nil {
			return err
		}

		// 2. Payment
		if err := l.payments.InsertTx(ctx, tx, p.Payment); err != nil {
			return err
		}

		// 3. Enrollments for free courses
		for _, e := range p.Enrollments {
			if err := l.enrollments.InsertTx(ctx, tx, e); err != nil {
				return err
			}
		}

		// 4. Coupon redemption
		if p.Redemption != nil {
			if err := l.coupons.Redeem(ctx, tx, *p.Redemption); err != nil {
				return err
			}
		}

		// 5. Shipping
		if p.Shipping != nil {
			if err := l.shippings.InsertTx(ctx, tx, p.Shipping); err != nil {
				return err
			}
		}

		// 6. Event for downstream workers
		if p.Event != nil {
			if err := l.events.InsertTx(ctx, tx, p.Event); err != nil {
				return err
			}
		}

		return nil
	})
}
