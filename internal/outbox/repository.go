package outbox

import (
	"context"
	"fmt"
	"time"

	"physicsclass-be/internal/db"

	"github.com/lib/pq"
)

type Repository interface {
	InsertTx(ctx context.Context, q db.DBTX, e *Event) error
	// FetchUnpublishedTx locks up to limit pending rows; q must be a transaction.
	FetchUnpublishedTx(ctx context.Context, q db.DBTX, limit int) ([]*Event, error)
	MarkPublishedTx(ctx context.Context, q db.DBTX, ids []string, at time.Time) error
}

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) InsertTx(ctx context.Context, q db.DBTX, e *Event) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO outbox_events (id, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, e.ID, e.AggregateID, e.EventType, []byte(e.Payload), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveEvent, err)
	}
	return nil
}

func (r *repository) FetchUnpublishedTx(ctx context.Context, q db.DBTX, limit int) ([]*Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedFetchEvents, err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			e       Event
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedFetchEvents, err)
		}
		e.Payload = payload
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedFetchEvents, err)
	}

	return events, nil
}

func (r *repository) MarkPublishedTx(ctx context.Context, q db.DBTX, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := q.ExecContext(ctx, `
		UPDATE outbox_events SET published_at = $1 WHERE id = ANY($2)
	`, at, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedMarkEvents, err)
	}
	return nil
}
