package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
)

// LifecycleService moves an owner between idle and running. Each transition
// runs in a single transaction; the partial unique index on open entries is
// the final guard against concurrent starts.
type LifecycleService struct {
	db     *sql.DB
	repos  repository.RepositoryManager
	clock  Clock
	cache  HistoryCache
	logger logging.Logger
}

func NewLifecycleService(db *sql.DB, repos repository.RepositoryManager, clock Clock, cache HistoryCache, logger logging.Logger) *LifecycleService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &LifecycleService{db: db, repos: repos, clock: clock, cache: cache, logger: logger}
}

// Start opens a new entry for ownerID and returns its id.
func (s *LifecycleService) Start(ctx context.Context, ownerID int64, patch domain.EntryPatch) (int64, error) {
	if err := patch.Validate(); err != nil {
		return 0, err
	}

	var entryID int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entries := s.repos.Entries(tx)

		open, err := entries.HasOpen(ctx, ownerID)
		if err != nil {
			return domain.Storage("check open entry", err)
		}
		if open {
			return domain.ErrAlreadyRunning
		}

		validator := NewOwnershipValidator(s.repos.Ownership(tx))
		if err := validator.ValidateProject(ctx, ownerID, patch.Project()); err != nil {
			return err
		}
		tagIDs, err := validator.ValidateTags(ctx, ownerID, patch.Tags.Value)
		if err != nil {
			return err
		}

		entryID, err = entries.Insert(ctx, ownerID, s.clock.Now().UTC(), patch.Project(), patch.Note.Value)
		if errors.Is(err, repository.ErrOpenEntryExists) {
			return domain.ErrAlreadyRunning
		}
		if err != nil {
			return domain.Storage("insert entry", err)
		}

		return NewTagAssociationStore(s.repos.TagLinks(tx)).Attach(ctx, entryID, tagIDs)
	})
	if err != nil {
		return 0, domain.Storage("start entry", err)
	}

	s.logger.Info(ctx, "time entry started", "owner_id", ownerID, "entry_id", entryID)
	s.invalidateHistory(ctx, ownerID)
	return entryID, nil
}

// End closes the owner's open entry, applying any supplied fields first.
// Omitted tags leave existing links alone; an empty tags list clears them.
func (s *LifecycleService) End(ctx context.Context, ownerID int64, patch domain.EntryPatch) (domain.EndResult, error) {
	if err := patch.Validate(); err != nil {
		return domain.EndResult{}, err
	}

	var result domain.EndResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entries := s.repos.Entries(tx)

		open, err := entries.LockOpen(ctx, ownerID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNoRunningEntry
		}
		if err != nil {
			return domain.Storage("lock open entry", err)
		}

		validator := NewOwnershipValidator(s.repos.Ownership(tx))
		if patch.ProjectID.Set {
			if err := validator.ValidateProject(ctx, ownerID, patch.Project()); err != nil {
				return err
			}
		}
		var tagIDs []int64
		if patch.Tags.Set {
			if tagIDs, err = validator.ValidateTags(ctx, ownerID, patch.Tags.Value); err != nil {
				return err
			}
		}

		if patch.TouchesDetails() {
			if err := entries.UpdateDetails(ctx, open.ID, patch.ProjectID.Value, patch.Note.Value); err != nil {
				return domain.Storage("update entry", err)
			}
		}
		if patch.Tags.Set {
			if err := NewTagAssociationStore(s.repos.TagLinks(tx)).ReplaceAll(ctx, open.ID, tagIDs); err != nil {
				return err
			}
		}

		now := s.clock.Now().UTC()
		span, err := entries.Close(ctx, open.ID, now)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNoRunningEntry
		}
		if err != nil {
			return domain.Storage("close entry", err)
		}

		result = domain.EndResult{EntryID: open.ID, Seconds: span.Seconds(now)}
		return nil
	})
	if err != nil {
		return domain.EndResult{}, domain.Storage("end entry", err)
	}

	s.logger.Info(ctx, "time entry stopped", "owner_id", ownerID, "entry_id", result.EntryID, "seconds", result.Seconds)
	s.invalidateHistory(ctx, ownerID)
	return result, nil
}

func (s *LifecycleService) invalidateHistory(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn(ctx, "history cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}
