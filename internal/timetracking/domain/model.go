package domain

import "time"

// TimeEntry is a single timed work session. EndAt is nil while the entry is open.
// All timestamps are UTC.
type TimeEntry struct {
	ID        int64      `json:"id"`
	OwnerID   int64      `json:"-"`
	StartAt   time.Time  `json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	ProjectID *int64     `json:"project_id"`
	Note      *string    `json:"note"`
}

// Open reports whether the entry has not been ended yet.
func (e TimeEntry) Open() bool {
	return e.EndAt == nil
}

// TagRef is the tag metadata attached to listed entries.
type TagRef struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// EntryView is a listed entry joined with its project and tags.
type EntryView struct {
	ID           int64      `json:"id"`
	StartAt      time.Time  `json:"start_at"`
	EndAt        *time.Time `json:"end_at"`
	Note         *string    `json:"note"`
	ProjectID    *int64     `json:"project_id"`
	ProjectName  *string    `json:"project_name"`
	ProjectColor *string    `json:"project_color"`
	Tags         []TagRef   `json:"tags"`
}

// Span is the part of an entry the aggregation needs.
type Span struct {
	StartAt time.Time
	EndAt   *time.Time
}

// Seconds returns the whole seconds covered by the span, measuring open spans
// up to now. Sub-second precision is truncated.
func (s Span) Seconds(now time.Time) int64 {
	end := now
	if s.EndAt != nil {
		end = *s.EndAt
	}
	d := end.Sub(s.StartAt)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

type TodaySummary struct {
	TotalSeconds int64 `json:"total_seconds"`
	Running      bool  `json:"running"`
}

type DaySummary struct {
	Day          string `json:"day"`
	TotalSeconds int64  `json:"total_seconds"`
}

type EndResult struct {
	EntryID int64 `json:"entryId"`
	Seconds int64 `json:"seconds"`
}

// OpenEntry identifies an entry that has not been ended.
type OpenEntry struct {
	ID      int64
	OwnerID int64
	StartAt time.Time
}

// HistoryKey identifies one cached history result. Generation is the owner's
// cache generation read before the entries were loaded; a start or end bumps
// it, so results computed against older data are never read again.
type HistoryKey struct {
	OwnerID       int64
	Generation    int64
	OffsetMinutes int
	Days          int
	UTCDay        string
}
