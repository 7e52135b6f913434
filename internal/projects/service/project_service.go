package service

import (
	"context"
	"errors"

	"github.com/hourly-labs/timetrack-backend/internal/projects/domain"
	ttdomain "github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

type Repository interface {
	List(ctx context.Context, ownerID int64) ([]domain.Project, error)
	Create(ctx context.Context, ownerID int64, in domain.Input) (*domain.Project, error)
	Update(ctx context.Context, ownerID, id int64, in domain.Input) (*domain.Project, error)
	Delete(ctx context.Context, ownerID, id int64) (bool, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo Repository
}

// NewProjectService creates a new project service
func NewProjectService(repo Repository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) List(ctx context.Context, ownerID int64) ([]domain.Project, error) {
	items, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, ttdomain.Storage("list projects", err)
	}
	return items, nil
}

func (s *ProjectService) Create(ctx context.Context, ownerID int64, in domain.Input) (*domain.Project, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, ownerID, in)
	if err != nil {
		return nil, ttdomain.Storage("create project", err)
	}
	return p, nil
}

// Update returns domain.ErrNotFound for a missing or foreign project.
func (s *ProjectService) Update(ctx context.Context, ownerID, id int64, in domain.Input) (*domain.Project, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, ownerID, id, in)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, ttdomain.Storage("update project", err)
	}
	return p, nil
}

// Delete returns domain.ErrNotFound for a missing or foreign project.
func (s *ProjectService) Delete(ctx context.Context, ownerID, id int64) error {
	ok, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return ttdomain.Storage("delete project", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
