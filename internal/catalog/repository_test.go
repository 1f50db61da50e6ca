package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindPurchasable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("PublishedCourse", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "price", "discount_price"}).
			AddRow("c-1", "Mechanics", "1000", nil)

		mock.ExpectQuery("SELECT id, title, price, discount_price FROM courses").
			WithArgs("c-1", CourseStatusPublished).
			WillReturnRows(rows)

		item, err := repo.FindPurchasable(ctx, ItemTypeCourse, "c-1")
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, ItemTypeCourse, item.Type)
		assert.Equal(t, "Mechanics", item.Title)
		assert.False(t, item.IsPhysical)
		assert.True(t, item.EffectivePrice().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("ActivePhysicalEbook", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "price", "discount_price", "is_physical"}).
			AddRow("e-1", "Formula Book", "500", "390", true)

		mock.ExpectQuery("SELECT id, title, price, discount_price, is_physical FROM ebooks").
			WithArgs("e-1").
			WillReturnRows(rows)

		item, err := repo.FindPurchasable(ctx, ItemTypeEbook, "e-1")
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.True(t, item.IsPhysical)
		assert.True(t, item.EffectivePrice().Equal(decimal.NewFromInt(390)))
	})

	t.Run("NotPurchasable", func(t *testing.T) {
		mock.ExpectQuery("FROM courses").
			WithArgs("draft", CourseStatusPublished).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "price", "discount_price"}))

		item, err := repo.FindPurchasable(ctx, ItemTypeCourse, "draft")
		assert.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("UnknownType", func(t *testing.T) {
		item, err := repo.FindPurchasable(ctx, ItemType("BUNDLE"), "x")
		assert.ErrorIs(t, err, ErrUnknownItemType)
		assert.Nil(t, item)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery("FROM ebooks").
			WithArgs("e-2").
			WillReturnError(errors.New("timeout"))

		item, err := repo.FindPurchasable(ctx, ItemTypeEbook, "e-2")
		assert.ErrorIs(t, err, ErrFailedGetItem)
		assert.Nil(t, item)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItem_EffectivePrice(t *testing.T) {
	price := decimal.NewNullDecimal(decimal.NewFromInt(1000))
	discount := decimal.NewNullDecimal(decimal.NewFromInt(800))

	assert.True(t, (&Item{Price: price, DiscountPrice: discount}).EffectivePrice().Equal(decimal.NewFromInt(800)))
	assert.True(t, (&Item{Price: price}).EffectivePrice().Equal(decimal.NewFromInt(1000)))
	assert.True(t, (&Item{}).EffectivePrice().IsZero())
}
