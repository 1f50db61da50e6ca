package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponColumns = []string{
	"id", "code", "is_active", "type", "value", "max_discount", "min_order_amount",
	"valid_from", "valid_until", "usage_limit", "usage_count", "user_usage_limit",
}

func TestRepository_FindActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(1, 0, 0)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(couponColumns).
			AddRow("cp-1", "SAVE10", true, "PERCENTAGE", "10", nil, "300", from, until, 100, 3, nil)

		mock.ExpectQuery("SELECT .* FROM coupons WHERE code = \\$1 AND is_active = TRUE").
			WithArgs("SAVE10").
			WillReturnRows(rows)

		c, err := repo.FindActive(context.Background(), "SAVE10")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, TypePercentage, c.Type)
		assert.Equal(t, "10", c.Value.String())
		assert.False(t, c.MaxDiscount.Valid)
		assert.Equal(t, "300", c.MinOrderAmount.Decimal.String())
		require.NotNil(t, c.UsageLimit)
		assert.Equal(t, 100, *c.UsageLimit)
		assert.Equal(t, 3, c.UsageCount)
		assert.Nil(t, c.UserUsageLimit)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("FROM coupons").
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows(couponColumns))

		c, err := repo.FindActive(context.Background(), "NOPE")
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery("FROM coupons").
			WillReturnError(errors.New("db error"))

		_, err := repo.FindActive(context.Background(), "SAVE10")
		assert.ErrorIs(t, err, ErrFailedGetCoupon)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountUserUsage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM coupon_usages").
		WithArgs("cp-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountUserUsage(context.Background(), "cp-1", "u-1")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Redeem(t *testing.T) {
	usage := Usage{CouponID: "cp-1", UserID: "u-1", OrderID: "o-1"}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE coupons SET usage_count = usage_count \\+ 1").
			WithArgs("cp-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO coupon_usages").
			WithArgs("cp-1", "u-1", "o-1").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = NewRepository(db).Redeem(context.Background(), db, usage)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LimitReached", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE coupons").
			WithArgs("cp-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = NewRepository(db).Redeem(context.Background(), db, usage)
		assert.ErrorIs(t, err, ErrUsageLimitReached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertFails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE coupons").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO coupon_usages").
			WillReturnError(errors.New("fk violation"))

		err = NewRepository(db).Redeem(context.Background(), db, usage)
		assert.ErrorIs(t, err, ErrFailedRedeemCoupon)
	})
}
