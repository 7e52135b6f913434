package service

import (
	"context"
	"time"

	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
)

// OpenEntryAudit reports entries that have been running longer than maxOpen.
// It only reads.
type OpenEntryAudit struct {
	entries repository.EntryRepository
	clock   Clock
	maxOpen time.Duration
	logger  logging.Logger
}

func NewOpenEntryAudit(entries repository.EntryRepository, clock Clock, maxOpen time.Duration, logger logging.Logger) *OpenEntryAudit {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &OpenEntryAudit{entries: entries, clock: clock, maxOpen: maxOpen, logger: logger}
}

// Run logs one warning per long-running entry and returns how many it found.
func (a *OpenEntryAudit) Run(ctx context.Context) (int, error) {
	now := a.clock.Now().UTC()
	stale, err := a.entries.ListOpenStartedBefore(ctx, now.Add(-a.maxOpen))
	if err != nil {
		return 0, domain.Storage("list open entries", err)
	}

	for _, e := range stale {
		a.logger.Warn(ctx, "time entry open too long",
			"owner_id", e.OwnerID,
			"entry_id", e.ID,
			"started_at", e.StartAt.Format(time.RFC3339),
			"open_for", now.Sub(e.StartAt).Truncate(time.Second).String(),
		)
	}
	a.logger.Info(ctx, "open entry audit finished", "stale", len(stale))
	return len(stale), nil
}
