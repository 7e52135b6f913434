package service

import (
	"context"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
)

// TagAssociationStore manages the links between entries and tags. Attaching
// an id twice leaves a single link.
type TagAssociationStore struct {
	repo repository.TagLinkRepository
}

func NewTagAssociationStore(repo repository.TagLinkRepository) *TagAssociationStore {
	return &TagAssociationStore{repo: repo}
}

func (s *TagAssociationStore) Attach(ctx context.Context, entryID int64, tagIDs []int64) error {
	ids := dedupe(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.Attach(ctx, entryID, ids); err != nil {
		return domain.Storage("attach tags", err)
	}
	return nil
}

// ReplaceAll drops every link of the entry, then attaches tagIDs. An empty
// set clears the entry's tags.
func (s *TagAssociationStore) ReplaceAll(ctx context.Context, entryID int64, tagIDs []int64) error {
	if err := s.repo.DeleteAll(ctx, entryID); err != nil {
		return domain.Storage("replace tags", err)
	}
	return s.Attach(ctx, entryID, tagIDs)
}

func (s *TagAssociationStore) ListFor(ctx context.Context, entryIDs []int64) (map[int64][]domain.TagRef, error) {
	if len(entryIDs) == 0 {
		return map[int64][]domain.TagRef{}, nil
	}
	tags, err := s.repo.ListFor(ctx, entryIDs)
	if err != nil {
		return nil, domain.Storage("list entry tags", err)
	}
	return tags, nil
}
