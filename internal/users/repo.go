package users

import (
	"context"
	"fmt"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
)

type Repo struct {
	db dbx.DBTX
}

func NewRepo(db dbx.DBTX) *Repo {
	return &Repo{db: db}
}

// EnsureUser creates the row for an authenticated user id the first time it
// is seen and keeps the email current. An unchanged email writes nothing.
func (r *Repo) EnsureUser(ctx context.Context, id int64, email string) error {
	if id <= 0 {
		return fmt.Errorf("user id required")
	}

	const q = `
INSERT INTO users (id, email)
VALUES ($1, NULLIF($2, ''))
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email
WHERE EXCLUDED.email IS NOT NULL AND users.email IS DISTINCT FROM EXCLUDED.email;
`
	if _, err := r.db.ExecContext(ctx, q, id, email); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}
