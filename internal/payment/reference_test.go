package payment

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReference(t *testing.T) {
	now := time.UnixMilli(1760000000123)

	t.Run("Free", func(t *testing.T) {
		assert.Equal(t, "FREE1760000000123", NewReference(true, now))
	})

	t.Run("Paid", func(t *testing.T) {
		ref := NewReference(false, now)
		assert.Regexp(t, regexp.MustCompile(`^ORD1760000000123[0-9A-Z]{5}$`), ref)
	})

	t.Run("PaidSuffixVaries", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			seen[NewReference(false, now)] = true
		}
		assert.Greater(t, len(seen), 1)
	})
}

func TestForOrder(t *testing.T) {
	now := time.Now()

	t.Run("ZeroAmountIsSettled", func(t *testing.T) {
		p := ForOrder("p-1", "o-1", decimal.Zero, now)

		assert.Equal(t, MethodFree, p.Method)
		assert.Equal(t, StatusCompleted, p.Status)
		require.NotNil(t, p.PaidAt)
		assert.Equal(t, now, *p.PaidAt)
		assert.Regexp(t, `^FREE\d+$`, p.Ref)
	})

	t.Run("PaidIsPending", func(t *testing.T) {
		p := ForOrder("p-2", "o-2", decimal.NewFromInt(450), now)

		assert.Equal(t, MethodBankTransfer, p.Method)
		assert.Equal(t, StatusPending, p.Status)
		assert.Nil(t, p.PaidAt)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(450)))
		assert.Regexp(t, `^ORD\d+[0-9A-Z]{5}$`, p.Ref)
	})
}
