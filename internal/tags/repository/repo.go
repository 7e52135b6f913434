package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
	"github.com/hourly-labs/timetrack-backend/internal/tags/domain"
)

type TagRepository struct {
	db dbx.DBTX
}

func NewTagRepository(db dbx.DBTX) *TagRepository {
	return &TagRepository{db: db}
}

// List returns the user's tags sorted by name.
func (r *TagRepository) List(ctx context.Context, ownerID int64) ([]domain.Tag, error) {
	const q = `
SELECT id, name, color
FROM tags
WHERE user_id = $1
ORDER BY name ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Tag, 0, 16)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

func (r *TagRepository) Create(ctx context.Context, ownerID int64, in domain.Input) (*domain.Tag, error) {
	const q = `
INSERT INTO tags (user_id, name, color)
VALUES ($1, $2, $3)
RETURNING id, name, color;
`
	var t domain.Tag
	if err := r.db.QueryRowContext(ctx, q, ownerID, in.Name, in.Color).Scan(&t.ID, &t.Name, &t.Color); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

func (r *TagRepository) Update(ctx context.Context, ownerID, id int64, in domain.Input) (*domain.Tag, error) {
	const q = `
UPDATE tags
SET name = $3, color = $4
WHERE id = $1 AND user_id = $2
RETURNING id, name, color;
`
	var t domain.Tag
	err := r.db.QueryRowContext(ctx, q, id, ownerID, in.Name, in.Color).Scan(&t.ID, &t.Name, &t.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return &t, nil
}

// Delete removes the tag and, through the foreign key, its entry links.
func (r *TagRepository) Delete(ctx context.Context, ownerID, id int64) (bool, error) {
	const q = `DELETE FROM tags WHERE id = $1 AND user_id = $2;`
	result, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete tag: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete tag: %w", err)
	}
	return n > 0, nil
}
