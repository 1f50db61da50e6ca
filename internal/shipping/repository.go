package shipping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/db"
)

var ErrFailedCreateShipping = errors.New("failed to create shipping")

type Repository interface {
	InsertTx(ctx context.Context, q db.DBTX, s *Shipping) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertTx(ctx context.Context, q db.DBTX, s *Shipping) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO shippings (
			id, order_id, recipient_name, recipient_phone,
			address, district, province, postal_code,
			shipping_method, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		s.ID, s.OrderID, s.RecipientName, s.RecipientPhone,
		s.Address, s.District, s.Province, s.PostalCode,
		s.Method, s.Status,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedCreateShipping, err)
	}
	return nil
}
