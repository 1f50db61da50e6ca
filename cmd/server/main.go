package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"physicsclass-be/internal/cart"
	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/checkout"
	"physicsclass-be/internal/config"
	"physicsclass-be/internal/coupon"
	"physicsclass-be/internal/db"
	"physicsclass-be/internal/enrollment"
	"physicsclass-be/internal/lock"
	"physicsclass-be/internal/logger"
	"physicsclass-be/internal/metrics"
	"physicsclass-be/internal/middleware"
	"physicsclass-be/internal/order"
	"physicsclass-be/internal/outbox"
	"physicsclass-be/internal/payment"
	"physicsclass-be/internal/shipping"
	"physicsclass-be/internal/transport"
	"physicsclass-be/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	app := newServer(cfg, database)
	defer app.close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The relay stops as soon as the HTTP server returns.
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.relay.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return startServerFunc(gctx, ":"+cfg.AppPort, app)
	})

	return g.Wait()
}

type application struct {
	handler http.Handler
	relay   *outbox.Relay
	closers []func() error
}

func (a *application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *application) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.L().Warn("failed to close resource", zap.Error(err))
		}
	}
}

func newServer(cfg *config.Config, database *sql.DB) *application {
	app := &application{}

	// Repositories
	userRepo := user.NewRepository(database)
	catalogRepo := catalog.NewRepository(database)
	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	enrollmentRepo := enrollment.NewRepository(database)
	couponRepo := coupon.NewRepository(database)
	shippingRepo := shipping.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	outboxRepo := outbox.NewRepository()

	// Per-user checkout lock
	var locker lock.Locker = lock.NewNoopLocker()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		locker = lock.NewRedisLocker(rdb)
		app.closers = append(app.closers, rdb.Close)
	}

	// Outbox publisher
	var pub outbox.Publisher = outbox.LogPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = outbox.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	}
	app.closers = append(app.closers, pub.Close)
	app.relay = outbox.NewRelay(database, outboxRepo, pub, cfg.OutboxInterval)

	checkoutMetrics := metrics.NewCheckout()
	checkoutSvc := checkout.NewService(checkout.Deps{
		Users:   userRepo,
		Catalog: catalogRepo,
		Orders:  orderRepo,
		Coupons: couponRepo,
		Carts:   cartRepo,
		Ledger: checkout.NewLedger(
			database, orderRepo, paymentRepo, enrollmentRepo, couponRepo, shippingRepo, outboxRepo,
		),
		Locker:  locker,
		LockTTL: cfg.CheckoutLockTTL,
		Metrics: checkoutMetrics,
	})

	h := transport.NewHandler(
		checkoutSvc,
		orderRepo,
		enrollmentRepo,
		cart.NewService(cartRepo),
		checkoutMetrics,
		database,
	)

	app.handler = setupRouter(h, cfg)
	return app
}

func setupRouter(h *transport.Handler, cfg *config.Config) http.Handler {
	return middleware.Chain(h.Routes(),
		logger.RequestIDMiddleware,
		logger.AccessLogMiddleware,
		middleware.NewCORS(cfg.CORSOrigin),
		middleware.NewAuthMiddleware(cfg.SecretKey),
		middleware.NewRateLimiter(cfg.InternalSecretKey),
	)
}

// startServer serves until ctx is cancelled, then drains in-flight requests.
func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
