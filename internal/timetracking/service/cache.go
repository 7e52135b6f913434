package service

import (
	"context"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

// HistoryCache is the optional store for history results. A nil HistoryCache
// disables caching.
type HistoryCache interface {
	Generation(ctx context.Context, ownerID int64) (int64, error)
	Get(ctx context.Context, key domain.HistoryKey) ([]domain.DaySummary, bool, error)
	Set(ctx context.Context, key domain.HistoryKey, items []domain.DaySummary) error
	Invalidate(ctx context.Context, ownerID int64) error
}
