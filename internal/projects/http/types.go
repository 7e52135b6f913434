package http

import (
	"context"

	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/projects/domain"
)

type Service interface {
	List(ctx context.Context, ownerID int64) ([]domain.Project, error)
	Create(ctx context.Context, ownerID int64, in domain.Input) (*domain.Project, error)
	Update(ctx context.Context, ownerID, id int64, in domain.Input) (*domain.Project, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc    Service
	logger logging.Logger
}

func New(svc Service, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{svc: svc, logger: logger}
}
