package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"physicsclass-be/internal/db"

	"github.com/lib/pq"
)

var (
	ErrFailedCreateEnrollment = errors.New("failed to create enrollment")
	ErrFailedListEnrollments  = errors.New("failed to list enrollments")
)

type Repository interface {
	InsertTx(ctx context.Context, q db.DBTX, e *Enrollment) error
	// ListByUser returns the user's ACTIVE and COMPLETED enrollments, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Enrollment, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// InsertTx enrolls the user, reactivating an existing row for the same
// course instead of failing on it.
func (r *repository) InsertTx(ctx context.Context, q db.DBTX, e *Enrollment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO enrollments (id, user_id, course_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, course_id) DO UPDATE SET status = EXCLUDED.status
	`, e.ID, e.UserID, e.CourseID, e.Status, e.EnrolledAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedCreateEnrollment, err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, course_id, status, enrolled_at
		FROM enrollments
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY enrolled_at DESC
	`, userID, pq.Array([]string{string(StatusActive), string(StatusCompleted)}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedListEnrollments, err)
	}
	defer rows.Close()

	var out []*Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedListEnrollments, err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedListEnrollments, err)
	}

	return out, nil
}
