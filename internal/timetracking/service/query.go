package service

import (
	"context"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
)

const RecentEntriesLimit = 200

type QueryService struct {
	entries repository.EntryRepository
	tags    *TagAssociationStore
}

func NewQueryService(entries repository.EntryRepository, links repository.TagLinkRepository) *QueryService {
	return &QueryService{entries: entries, tags: NewTagAssociationStore(links)}
}

// ListRecent returns the owner's latest entries with project and tag details.
// Tags are loaded in one batch for the whole page.
func (s *QueryService) ListRecent(ctx context.Context, ownerID int64) ([]domain.EntryView, error) {
	views, err := s.entries.ListRecent(ctx, ownerID, RecentEntriesLimit)
	if err != nil {
		return nil, domain.Storage("list recent entries", err)
	}

	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	tags, err := s.tags.ListFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range views {
		if t, ok := tags[views[i].ID]; ok {
			views[i].Tags = t
		} else {
			views[i].Tags = []domain.TagRef{}
		}
	}
	return views, nil
}
