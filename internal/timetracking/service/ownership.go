package service

import (
	"context"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
)

// OwnershipValidator checks that referenced projects and tags belong to the
// acting owner before they are attached to an entry.
type OwnershipValidator struct {
	repo repository.OwnershipRepository
}

func NewOwnershipValidator(repo repository.OwnershipRepository) *OwnershipValidator {
	return &OwnershipValidator{repo: repo}
}

// ValidateProject is a no-op for a nil projectID.
func (v *OwnershipValidator) ValidateProject(ctx context.Context, ownerID int64, projectID *int64) error {
	if projectID == nil {
		return nil
	}
	ok, err := v.repo.ProjectOwned(ctx, ownerID, *projectID)
	if err != nil {
		return domain.Storage("validate project", err)
	}
	if !ok {
		return domain.ErrProjectNotOwned
	}
	return nil
}

// ValidateTags deduplicates tagIDs and returns them once every id is known to
// belong to ownerID. Empty input returns an empty set without a query.
func (v *OwnershipValidator) ValidateTags(ctx context.Context, ownerID int64, tagIDs []int64) ([]int64, error) {
	ids := dedupe(tagIDs)
	if len(ids) == 0 {
		return ids, nil
	}
	n, err := v.repo.CountOwnedTags(ctx, ownerID, ids)
	if err != nil {
		return nil, domain.Storage("validate tags", err)
	}
	if n != len(ids) {
		return nil, domain.ErrTagsNotOwned
	}
	return ids, nil
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
