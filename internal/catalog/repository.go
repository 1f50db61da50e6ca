package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// FindPurchasable returns nil, nil when the item does not exist or is
	// not currently for sale.
	FindPurchasable(ctx context.Context, itemType ItemType, itemID string) (*Item, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const (
	findPublishedCourse = `
		SELECT id, title, price, discount_price
		FROM courses
		WHERE id = $1 AND status = $2
	`
	findActiveEbook = `
		SELECT id, title, price, discount_price, is_physical
		FROM ebooks
		WHERE id = $1 AND is_active = TRUE
	`
)

func (r *repository) FindPurchasable(ctx context.Context, itemType ItemType, itemID string) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("item_type", string(itemType)),
		zap.String("item_id", itemID),
	)

	item := Item{Type: itemType}
	var err error

	switch itemType {
	case ItemTypeCourse:
		err = r.db.QueryRowContext(ctx, findPublishedCourse, itemID, CourseStatusPublished).
			Scan(&item.ID, &item.Title, &item.Price, &item.DiscountPrice)
	case ItemTypeEbook:
		err = r.db.QueryRowContext(ctx, findActiveEbook, itemID).
			Scan(&item.ID, &item.Title, &item.Price, &item.DiscountPrice, &item.IsPhysical)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, itemType)
	}

	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("item not purchasable")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load catalog item", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedGetItem, err)
	}

	return &item, nil
}
