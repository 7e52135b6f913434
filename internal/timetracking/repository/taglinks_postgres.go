package repository

import (
	"context"
	"fmt"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

type PostgresTagLinkRepository struct {
	db dbx.DBTX
}

func NewPostgresTagLinkRepository(db dbx.DBTX) *PostgresTagLinkRepository {
	return &PostgresTagLinkRepository{db: db}
}

func (r *PostgresTagLinkRepository) Attach(ctx context.Context, entryID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	const q = `
INSERT INTO time_entry_tags (entry_id, tag_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING;
`
	if _, err := r.db.ExecContext(ctx, q, entryID, tagIDs); err != nil {
		return fmt.Errorf("attach tags: %w", err)
	}
	return nil
}

func (r *PostgresTagLinkRepository) DeleteAll(ctx context.Context, entryID int64) error {
	const q = `DELETE FROM time_entry_tags WHERE entry_id = $1;`
	if _, err := r.db.ExecContext(ctx, q, entryID); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}
	return nil
}

func (r *PostgresTagLinkRepository) ListFor(ctx context.Context, entryIDs []int64) (map[int64][]domain.TagRef, error) {
	out := make(map[int64][]domain.TagRef, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	const q = `
SELECT l.entry_id, t.id, t.name, t.color
FROM time_entry_tags l
JOIN tags t ON t.id = l.tag_id
WHERE l.entry_id = ANY($1)
ORDER BY l.entry_id, t.name, t.id;
`
	rows, err := r.db.QueryContext(ctx, q, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("list entry tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entryID int64
			tag     domain.TagRef
		)
		if err := rows.Scan(&entryID, &tag.ID, &tag.Name, &tag.Color); err != nil {
			return nil, fmt.Errorf("scan entry tag: %w", err)
		}
		out[entryID] = append(out[entryID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entry tags: %w", err)
	}
	return out, nil
}
