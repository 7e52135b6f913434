package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

const (
	pgUniqueViolation   = "23505"
	openEntryConstraint = "time_entries_one_open_per_user"
)

type PostgresEntryRepository struct {
	db dbx.DBTX
}

func NewPostgresEntryRepository(db dbx.DBTX) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) HasOpen(ctx context.Context, ownerID int64) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1 FROM time_entries WHERE user_id = $1 AND end_at IS NULL
);
`
	var open bool
	if err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&open); err != nil {
		return false, fmt.Errorf("check open entry: %w", err)
	}
	return open, nil
}

func (r *PostgresEntryRepository) LockOpen(ctx context.Context, ownerID int64) (*domain.TimeEntry, error) {
	const q = `
SELECT id, user_id, start_at, project_id, note
FROM time_entries
WHERE user_id = $1 AND end_at IS NULL
ORDER BY id DESC
LIMIT 1
FOR UPDATE;
`
	var e domain.TimeEntry
	err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&e.ID, &e.OwnerID, &e.StartAt, &e.ProjectID, &e.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock open entry: %w", err)
	}
	e.StartAt = e.StartAt.UTC()
	return &e, nil
}

func (r *PostgresEntryRepository) Insert(ctx context.Context, ownerID int64, startAt time.Time, projectID *int64, note *string) (int64, error) {
	const q = `
INSERT INTO time_entries (user_id, start_at, project_id, note)
VALUES ($1, $2, $3, $4)
RETURNING id;
`
	var id int64
	err := r.db.QueryRowContext(ctx, q, ownerID, startAt.UTC(), projectID, note).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == openEntryConstraint {
			return 0, ErrOpenEntryExists
		}
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

func (r *PostgresEntryRepository) UpdateDetails(ctx context.Context, entryID int64, projectID *int64, note *string) error {
	const q = `UPDATE time_entries SET project_id = $2, note = $3 WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, entryID, projectID, note)
	if err != nil {
		return fmt.Errorf("update entry details: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry details: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close sets end_at on the open entry. An endAt earlier than start_at, as
// written by an instance with a lagging clock, is raised to start_at.
func (r *PostgresEntryRepository) Close(ctx context.Context, entryID int64, endAt time.Time) (domain.Span, error) {
	const q = `
UPDATE time_entries
SET end_at = GREATEST($2::timestamptz, start_at)
WHERE id = $1 AND end_at IS NULL
RETURNING start_at, end_at;
`
	var (
		start time.Time
		end   time.Time
	)
	err := r.db.QueryRowContext(ctx, q, entryID, endAt.UTC()).Scan(&start, &end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Span{}, ErrNotFound
		}
		return domain.Span{}, fmt.Errorf("close entry: %w", err)
	}
	end = end.UTC()
	return domain.Span{StartAt: start.UTC(), EndAt: &end}, nil
}

func (r *PostgresEntryRepository) ListStartedBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.Span, error) {
	const q = `
SELECT start_at, end_at
FROM time_entries
WHERE user_id = $1 AND start_at >= $2 AND start_at < $3;
`
	return r.listSpans(ctx, q, ownerID, from.UTC(), to.UTC())
}

func (r *PostgresEntryRepository) ListStartedSince(ctx context.Context, ownerID int64, since time.Time) ([]domain.Span, error) {
	const q = `
SELECT start_at, end_at
FROM time_entries
WHERE user_id = $1 AND start_at >= $2;
`
	return r.listSpans(ctx, q, ownerID, since.UTC())
}

func (r *PostgresEntryRepository) listSpans(ctx context.Context, q string, args ...any) ([]domain.Span, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Span, 0, 16)
	for rows.Next() {
		var s domain.Span
		if err := rows.Scan(&s.StartAt, &s.EndAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		s.StartAt = s.StartAt.UTC()
		if s.EndAt != nil {
			end := s.EndAt.UTC()
			s.EndAt = &end
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return out, nil
}

func (r *PostgresEntryRepository) ListRecent(ctx context.Context, ownerID int64, limit int) ([]domain.EntryView, error) {
	const q = `
SELECT e.id, e.start_at, e.end_at, e.note, e.project_id, p.name, p.color
FROM time_entries e
LEFT JOIN projects p ON p.id = e.project_id
WHERE e.user_id = $1
ORDER BY e.start_at DESC, e.id DESC
LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.EntryView, 0, 32)
	for rows.Next() {
		var v domain.EntryView
		if err := rows.Scan(&v.ID, &v.StartAt, &v.EndAt, &v.Note, &v.ProjectID, &v.ProjectName, &v.ProjectColor); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		v.StartAt = v.StartAt.UTC()
		if v.EndAt != nil {
			end := v.EndAt.UTC()
			v.EndAt = &end
		}
		v.Tags = []domain.TagRef{}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent entries: %w", err)
	}
	return out, nil
}

func (r *PostgresEntryRepository) ListOpenStartedBefore(ctx context.Context, before time.Time) ([]domain.OpenEntry, error) {
	const q = `
SELECT id, user_id, start_at
FROM time_entries
WHERE end_at IS NULL AND start_at < $1
ORDER BY start_at;
`
	rows, err := r.db.QueryContext(ctx, q, before.UTC())
	if err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	defer rows.Close()

	var out []domain.OpenEntry
	for rows.Next() {
		var e domain.OpenEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.StartAt); err != nil {
			return nil, fmt.Errorf("scan open entry: %w", err)
		}
		e.StartAt = e.StartAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list open entries: %w", err)
	}
	return out, nil
}
