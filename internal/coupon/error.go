package coupon

import "errors"

var (
	// ErrUsageLimitReached means another redemption consumed the last use
	// between evaluation and commit.
	ErrUsageLimitReached = errors.New("coupon usage limit reached")

	ErrFailedGetCoupon    = errors.New("failed to get coupon")
	ErrFailedCountUsage   = errors.New("failed to count coupon usage")
	ErrFailedRedeemCoupon = errors.New("failed to redeem coupon")
)
