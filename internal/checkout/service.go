package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"physicsclass-be/internal/cart"
	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/coupon"
	"physicsclass-be/internal/enrollment"
	"physicsclass-be/internal/lock"
	"physicsclass-be/internal/logger"
	"physicsclass-be/internal/metrics"
	"physicsclass-be/internal/order"
	"physicsclass-be/internal/outbox"
	"physicsclass-be/internal/payment"
	"physicsclass-be/internal/shipping"
	"physicsclass-be/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserStore interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

type CatalogStore interface {
	FindPurchasable(ctx context.Context, itemType catalog.ItemType, itemID string) (*catalog.Item, error)
}

type OwnershipStore interface {
	HasCompletedOrderFor(ctx context.Context, userID string, itemType catalog.ItemType, itemID string) (bool, error)
}

type CouponStore interface {
	FindActive(ctx context.Context, code string) (*coupon.Coupon, error)
	CountUserUsage(ctx context.Context, couponID, userID string) (int, error)
}

type CartStore interface {
	RemoveItems(ctx context.Context, userID string, keys []cart.Key) (int64, error)
}

// Ledger writes a Placement atomically.
type Ledger interface {
	Record(ctx context.Context, p *Placement) error
}

type Service interface {
	Checkout(ctx context.Context, req Request) (*Result, error)
}

type Deps struct {
	Users   UserStore
	Catalog CatalogStore
	Orders  OwnershipStore
	Coupons CouponStore
	Carts   CartStore
	Ledger  Ledger

	// Optional.
	Locker  lock.Locker
	LockTTL time.Duration
	Metrics *metrics.Checkout
}

type service struct {
	Deps
	now   func() time.Time
	newID func() string
}

func NewService(d Deps) Service {
	if d.Locker == nil {
		d.Locker = lock.NewNoopLocker()
	}
	if d.LockTTL <= 0 {
		d.LockTTL = 10 * time.Second
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewCheckout()
	}
	return &service{Deps: d, now: time.Now, newID: uuid.NewString}
}

func (s *service) Checkout(ctx context.Context, req Request) (*Result, error) {
	timer := metrics.StartTimer()
	s.Metrics.Attempts.Inc()
	defer func() { s.Metrics.Latency.Observe(timer.Duration()) }()

	res, err := s.checkout(logger.WithUserID(ctx, req.UserID), req)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			s.Metrics.Fail(string(ce.Kind))
		}
		return nil, err
	}

	s.Metrics.Orders.Inc()
	if res.IsFree {
		s.Metrics.FreeOrders.Inc()
	}
	return res, nil
}

func (s *service) checkout(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	// 1. Validate the request shape
	if err := normalize(&req); err != nil {
		log.Warn("invalid checkout request", zap.String("reason", err.Message))
		return nil, err
	}

	// 2. One checkout per user at a time
	release, err := s.Locker.Acquire(ctx, "checkout:"+req.UserID, s.LockTTL)
	switch {
	case errors.Is(err, lock.ErrLocked):
		log.Warn("checkout already in progress")
		return nil, conflict(err)
	case err != nil:
		// Database constraints still hold without the lock.
		log.Warn("checkout lock unavailable, continuing", zap.Error(err))
	default:
		defer release()
	}

	// 3. Resolve user
	u, err := s.Users.FindByID(ctx, req.UserID)
	if err != nil {
		log.Error("failed to load user", zap.Error(err))
		return nil, internal(err)
	}
	if u == nil {
		return nil, notFound(MsgUserNotFound)
	}

	// 4. Resolve catalog items and guard against repeat purchases
	items := make([]*catalog.Item, len(req.Lines))
	for i, l := range req.Lines {
		item, err := s.Catalog.FindPurchasable(ctx, l.ItemType, l.ItemID)
		if err != nil {
			log.Error("failed to load catalog item", zap.String("item_id", l.ItemID), zap.Error(err))
			return nil, internal(err)
		}
		if item == nil {
			log.Warn("item not purchasable", zap.String("item_type", string(l.ItemType)), zap.String("item_id", l.ItemID))
			return nil, notFound(fmt.Sprintf(MsgItemNotFound, l.ItemID))
		}

		owned, err := s.Orders.HasCompletedOrderFor(ctx, req.UserID, l.ItemType, l.ItemID)
		if err != nil {
			log.Error("failed to check ownership", zap.String("item_id", l.ItemID), zap.Error(err))
			return nil, internal(err)
		}
		if owned {
			log.Warn("item already owned", zap.String("item_id", l.ItemID))
			return nil, alreadyOwned(l.ItemID, order.ErrAlreadyOwned)
		}

		items[i] = item
	}

	// 5. Price the order
	q := priceLines(req.Lines, items)
	if req.CouponCode != "" {
		if err := s.resolveCoupon(ctx, q, req); err != nil {
			log.Error("failed to resolve coupon", zap.String("code", req.CouponCode), zap.Error(err))
			return nil, internal(err)
		}
	}

	// 6. Core transaction; an exhausted coupon is dropped and the order retried once
	p, err := s.record(ctx, u, req, q)
	if errors.Is(err, coupon.ErrUsageLimitReached) && q.Coupon != nil {
		log.Warn("coupon exhausted during checkout, retrying without it", zap.String("code", q.Coupon.Code))
		s.Metrics.CouponsDropped.Inc()
		q.dropCoupon()
		p, err = s.record(ctx, u, req, q)
	}
	if err != nil {
		var owned *order.OwnedError
		if errors.As(err, &owned) {
			log.Warn("ownership index rejected order", zap.String("item_id", owned.ItemID))
			return nil, alreadyOwned(owned.ItemID, err)
		}
		log.Error("failed to record order", zap.Error(err))
		return nil, internal(err)
	}
	if q.Coupon != nil {
		s.Metrics.CouponsApplied.Inc()
	}

	// 7. Best-effort cart cleanup
	s.cleanupCart(ctx, req)

	log.Info("order created",
		zap.String("order_id", p.Order.ID),
		zap.String("status", string(p.Order.Status)),
		zap.String("total", q.Total.String()),
	)

	msg := MsgOrderCreated
	if q.free() {
		msg = MsgFreeEnrolled
	}
	return &Result{
		OrderID: p.Order.ID,
		IsFree:  q.free(),
		Total:   q.Total,
		Message: msg,
	}, nil
}

// normalize validates req and fills line defaults in place.
func normalize(req *Request) *Error {
	if req.UserID == "" || len(req.Lines) == 0 {
		return invalidArgument(MsgMissingFields)
	}

	seen := make(map[cart.Key]struct{}, len(req.Lines))
	for i := range req.Lines {
		l := &req.Lines[i]
		if l.ItemID == "" {
			return invalidArgument(MsgMissingFields)
		}
		if !l.ItemType.Valid() {
			return invalidArgument(MsgInvalidItemType)
		}
		if l.Quantity <= 0 {
			l.Quantity = 1
		}
		if _, dup := seen[l.key()]; dup {
			return invalidArgument(MsgDuplicateLine)
		}
		seen[l.key()] = struct{}{}
	}
	return nil
}

// resolveCoupon applies the coupon to q when it is eligible. An unknown or
// ineligible code is not an error.
func (s *service) resolveCoupon(ctx context.Context, q *quote, req Request) error {
	c, err := s.Coupons.FindActive(ctx, req.CouponCode)
	if err != nil {
		return err
	}
	if c == nil {
		logger.FromCtx(ctx).Debug("coupon not found", zap.String("code", req.CouponCode))
		return nil
	}

	used, err := s.Coupons.CountUserUsage(ctx, c.ID, req.UserID)
	if err != nil {
		return err
	}

	if !q.applyCoupon(c, used, s.now()) {
		logger.FromCtx(ctx).Debug("coupon skipped", zap.String("code", req.CouponCode))
	}
	return nil
}

func (s *service) record(ctx context.Context, u *user.User, req Request, q *quote) (*Placement, error) {
	p, err := s.place(u, req, q)
	if err != nil {
		return nil, err
	}
	if err := s.Ledger.Record(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// place assembles the rows for one attempt. Every attempt gets fresh ids.
func (s *service) place(u *user.User, req Request, q *quote) (*Placement, error) {
	now := s.now()
	orderID := s.newID()

	o := &order.Order{
		ID:             orderID,
		UserID:         u.ID,
		Status:         order.StatusForTotal(q.Total),
		Subtotal:       q.Subtotal,
		ShippingFee:    q.ShippingFee,
		CouponDiscount: q.Discount,
		Total:          q.Total,
		CreatedAt:      now,
		Items:          q.Items,
	}

	p := &Placement{
		Order:   o,
		Payment: payment.ForOrder(s.newID(), orderID, q.Total, now),
	}

	if q.Coupon != nil {
		o.CouponID = &q.Coupon.ID
		o.CouponCode = &q.Coupon.Code
		p.Redemption = &coupon.Usage{CouponID: q.Coupon.ID, UserID: u.ID, OrderID: orderID}
	}

	if q.free() {
		for _, it := range q.Items {
			if it.ItemType != catalog.ItemTypeCourse {
				continue
			}
			p.Enrollments = append(p.Enrollments, &enrollment.Enrollment{
				ID:         s.newID(),
				UserID:     u.ID,
				CourseID:   it.ItemID,
				Status:     enrollment.StatusActive,
				EnrolledAt: now,
			})
		}
	}

	if q.HasPhysical && req.ShippingAddress != nil {
		p.Shipping = shipping.FromAddress(s.newID(), orderID, *req.ShippingAddress, u.DisplayName())
	}

	ev, err := outbox.NewEvent(orderID, outbox.EventOrderCreated, newOrderCreated(o, q), now)
	if err != nil {
		return nil, err
	}
	p.Event = ev

	return p, nil
}

func (s *service) cleanupCart(ctx context.Context, req Request) {
	keys := make([]cart.Key, 0, len(req.Lines))
	for _, l := range req.Lines {
		keys = append(keys, l.key())
	}

	if _, err := s.Carts.RemoveItems(ctx, req.UserID, keys); err != nil {
		logger.FromCtx(ctx).Warn("cart cleanup failed",
			zap.String("layer", "service"),
			zap.Error(err),
		)
	}
}
