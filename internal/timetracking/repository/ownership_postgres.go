package repository

import (
	"context"
	"fmt"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
)

type PostgresOwnershipRepository struct {
	db dbx.DBTX
}

func NewPostgresOwnershipRepository(db dbx.DBTX) *PostgresOwnershipRepository {
	return &PostgresOwnershipRepository{db: db}
}

func (r *PostgresOwnershipRepository) ProjectOwned(ctx context.Context, ownerID, projectID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1 AND user_id = $2);`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, projectID, ownerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check project owner: %w", err)
	}
	return ok, nil
}

func (r *PostgresOwnershipRepository) CountOwnedTags(ctx context.Context, ownerID int64, tagIDs []int64) (int, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}
	const q = `SELECT COUNT(*) FROM tags WHERE user_id = $1 AND id = ANY($2);`
	var n int
	if err := r.db.QueryRowContext(ctx, q, ownerID, tagIDs).Scan(&n); err != nil {
		return 0, fmt.Errorf("count owned tags: %w", err)
	}
	return n, nil
}
