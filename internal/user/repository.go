package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// FindByID returns nil, nil when no user has the given id.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var (
		u    User
		name sql.NullString
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &name, &u.Email)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to load user",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrFailedGetUser, err)
	}

	u.Name = name.String
	return &u, nil
}
