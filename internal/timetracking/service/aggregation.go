package service

import (
	"context"
	"sort"
	"time"

	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
)

// AggregationService sums tracked time into local-day buckets. Entries are
// attributed to the local day of their start; open entries count up to now.
type AggregationService struct {
	entries repository.EntryRepository
	clock   Clock
	cache   HistoryCache
	logger  logging.Logger
}

func NewAggregationService(entries repository.EntryRepository, clock Clock, cache HistoryCache, logger logging.Logger) *AggregationService {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &AggregationService{entries: entries, clock: clock, cache: cache, logger: logger}
}

// Today totals the entries started on the current local day. Running reports
// whether the owner has any open entry, whichever day it started on.
func (s *AggregationService) Today(ctx context.Context, ownerID int64, offsetMinutes int) (domain.TodaySummary, error) {
	offsetMinutes = domain.ClampOffsetMinutes(offsetMinutes)
	now := s.clock.Now().UTC()
	from, to := domain.LocalDayBounds(now, offsetMinutes)

	spans, err := s.entries.ListStartedBetween(ctx, ownerID, from, to)
	if err != nil {
		return domain.TodaySummary{}, domain.Storage("list today entries", err)
	}
	running, err := s.entries.HasOpen(ctx, ownerID)
	if err != nil {
		return domain.TodaySummary{}, domain.Storage("check open entry", err)
	}

	var total int64
	for _, sp := range spans {
		total += sp.Seconds(now)
	}
	return domain.TodaySummary{TotalSeconds: total, Running: running}, nil
}

// History returns per-day totals for entries started since UTC midnight of
// today minus days, newest day first. Days without entries are omitted.
func (s *AggregationService) History(ctx context.Context, ownerID int64, offsetMinutes, days int) ([]domain.DaySummary, error) {
	offsetMinutes = domain.ClampOffsetMinutes(offsetMinutes)
	if days > domain.MaxHistoryDays {
		days = domain.MaxHistoryDays
	}
	if days < 0 {
		days = 0
	}
	now := s.clock.Now().UTC()
	utcDay := now.Format(domain.DayLayout)

	// The generation is read before the entries: a start or end committing
	// after this point bumps it and orphans whatever this call writes.
	var (
		key      domain.HistoryKey
		useCache bool
	)
	if s.cache != nil {
		gen, err := s.cache.Generation(ctx, ownerID)
		if err != nil {
			s.logger.Warn(ctx, "history cache read failed", "owner_id", ownerID, "error", err)
		} else {
			key = domain.HistoryKey{OwnerID: ownerID, Generation: gen, OffsetMinutes: offsetMinutes, Days: days, UTCDay: utcDay}
			useCache = true

			items, ok, err := s.cache.Get(ctx, key)
			if err != nil {
				s.logger.Warn(ctx, "history cache read failed", "owner_id", ownerID, "error", err)
			} else if ok {
				return items, nil
			}
		}
	}

	spans, err := s.entries.ListStartedSince(ctx, ownerID, domain.HistoryCutoff(now, days))
	if err != nil {
		return nil, domain.Storage("list history entries", err)
	}

	items, hasOpen := bucketByLocalDay(spans, now, offsetMinutes)

	// Open entries keep growing, so their totals are never cached.
	if useCache && !hasOpen {
		if err := s.cache.Set(ctx, key, items); err != nil {
			s.logger.Warn(ctx, "history cache write failed", "owner_id", ownerID, "error", err)
		}
	}
	return items, nil
}

func bucketByLocalDay(spans []domain.Span, now time.Time, offsetMinutes int) ([]domain.DaySummary, bool) {
	totals := make(map[string]int64)
	hasOpen := false
	for _, sp := range spans {
		if sp.EndAt == nil {
			hasOpen = true
		}
		totals[domain.LocalDayString(sp.StartAt, offsetMinutes)] += sp.Seconds(now)
	}

	out := make([]domain.DaySummary, 0, len(totals))
	for day, total := range totals {
		out = append(out, domain.DaySummary{Day: day, TotalSeconds: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out, hasOpen
}
