package outbox

import (
	"context"
	"database/sql"
	"time"

	"physicsclass-be/internal/db"
	"physicsclass-be/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultBatchSize = 100
	defaultInterval  = 5 * time.Second
)

// Publisher delivers events to the downstream broker.
type Publisher interface {
	Publish(ctx context.Context, events []*Event) error
	Close() error
}

// Relay moves committed outbox rows to a Publisher.
type Relay struct {
	db        *sql.DB
	repo      Repository
	pub       Publisher
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

func NewRelay(database *sql.DB, repo Repository, pub Publisher, interval time.Duration) *Relay {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Relay{
		db:        database,
		repo:      repo,
		pub:       pub,
		interval:  interval,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled. Failed batches stay unpublished and are
// picked up on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	log := logger.L().With(zap.String("component", "outbox_relay"))
	log.Info("outbox relay started", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			n, err := r.Flush(ctx)
			if err != nil {
				log.Error("outbox flush failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("outbox events published", zap.Int("count", n))
			}
		}
	}
}

// Flush publishes one batch and returns how many events went out.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	var published int

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		events, err := r.repo.FetchUnpublishedTx(ctx, tx, r.batchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		if err := r.pub.Publish(ctx, events); err != nil {
			return err
		}

		ids := make([]string, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		if err := r.repo.MarkPublishedTx(ctx, tx, ids, r.now()); err != nil {
			return err
		}

		published = len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return published, nil
}
