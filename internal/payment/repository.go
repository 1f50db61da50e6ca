package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/db"
)

var ErrFailedSavePayment = errors.New("failed to save payment")

type Repository interface {
	InsertTx(ctx context.Context, q db.DBTX, p *Payment) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertTx(ctx context.Context, q db.DBTX, p *Payment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, method, status, amount, ref, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		p.ID, p.OrderID, p.Method, p.Status, p.Amount, p.Ref, p.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSavePayment, err)
	}
	return nil
}
