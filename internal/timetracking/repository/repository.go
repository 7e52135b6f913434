// Package repository holds the Postgres and Redis persistence for time entries.
// SQL repositories are built over dbx.DBTX so services can bind them to a
// transaction through the RepositoryManager.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrOpenEntryExists is returned by Insert when the owner already has an open entry.
	ErrOpenEntryExists = errors.New("open entry exists")
)

type EntryRepository interface {
	HasOpen(ctx context.Context, ownerID int64) (bool, error)
	// LockOpen returns the owner's open entry and holds a row lock until the
	// surrounding transaction ends. ErrNotFound when nothing is running.
	LockOpen(ctx context.Context, ownerID int64) (*domain.TimeEntry, error)
	Insert(ctx context.Context, ownerID int64, startAt time.Time, projectID *int64, note *string) (int64, error)
	UpdateDetails(ctx context.Context, entryID int64, projectID *int64, note *string) error
	// Close sets end_at on an open entry and returns the stored span.
	Close(ctx context.Context, entryID int64, endAt time.Time) (domain.Span, error)
	ListStartedBetween(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.Span, error)
	ListStartedSince(ctx context.Context, ownerID int64, since time.Time) ([]domain.Span, error)
	ListRecent(ctx context.Context, ownerID int64, limit int) ([]domain.EntryView, error)
	ListOpenStartedBefore(ctx context.Context, before time.Time) ([]domain.OpenEntry, error)
}

type TagLinkRepository interface {
	// Attach links the given tags to the entry. Existing links are left alone.
	Attach(ctx context.Context, entryID int64, tagIDs []int64) error
	DeleteAll(ctx context.Context, entryID int64) error
	// ListFor returns tags per entry, ordered by name then id.
	ListFor(ctx context.Context, entryIDs []int64) (map[int64][]domain.TagRef, error)
}

type OwnershipRepository interface {
	ProjectOwned(ctx context.Context, ownerID, projectID int64) (bool, error)
	// CountOwnedTags counts how many of the distinct tagIDs belong to ownerID.
	CountOwnedTags(ctx context.Context, ownerID int64, tagIDs []int64) (int, error)
}
