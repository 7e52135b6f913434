package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
	"github.com/hourly-labs/timetrack-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db dbx.DBTX
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db dbx.DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// List returns the user's projects, newest first.
func (r *ProjectRepository) List(ctx context.Context, ownerID int64) ([]domain.Project, error) {
	const q = `
SELECT id, name, color
FROM projects
WHERE user_id = $1
ORDER BY id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// Create inserts a new project for the given user.
func (r *ProjectRepository) Create(ctx context.Context, ownerID int64, in domain.Input) (*domain.Project, error) {
	const q = `
INSERT INTO projects (user_id, name, color)
VALUES ($1, $2, $3)
RETURNING id, name, color;
`
	var p domain.Project
	if err := r.db.QueryRowContext(ctx, q, ownerID, in.Name, in.Color).Scan(&p.ID, &p.Name, &p.Color); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

// Update rewrites name and color of a project the user owns.
func (r *ProjectRepository) Update(ctx context.Context, ownerID, id int64, in domain.Input) (*domain.Project, error) {
	const q = `
UPDATE projects
SET name = $3, color = $4
WHERE id = $1 AND user_id = $2
RETURNING id, name, color;
`
	var p domain.Project
	err := r.db.QueryRowContext(ctx, q, id, ownerID, in.Name, in.Color).Scan(&p.ID, &p.Name, &p.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &p, nil
}

// Delete removes a project. Entries filed under it keep existing with no project.
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id int64) (bool, error) {
	const q = `DELETE FROM projects WHERE id = $1 AND user_id = $2;`
	result, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return rowsAffected > 0, nil
}
