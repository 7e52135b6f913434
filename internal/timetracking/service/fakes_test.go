package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hourly-labs/timetrack-backend/internal/dbx"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{now: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// fakeStore is an in-memory stand-in for the entry, tag link and ownership
// repositories. Insert enforces one open entry per owner like the partial
// unique index does.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	entries  map[int64]*domain.TimeEntry
	links    map[int64]map[int64]struct{}
	projects map[int64]int64 // project id -> owner
	tags     map[int64]domain.TagRef
	tagOwner map[int64]int64

	// hideOpen makes HasOpen report false, simulating a concurrent start
	// that has not committed yet.
	hideOpen bool
	err      error

	attachCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:  map[int64]*domain.TimeEntry{},
		links:    map[int64]map[int64]struct{}{},
		projects: map[int64]int64{},
		tags:     map[int64]domain.TagRef{},
		tagOwner: map[int64]int64{},
	}
}

func (s *fakeStore) addProject(id, owner int64) { s.projects[id] = owner }

func (s *fakeStore) addTag(id, owner int64, name string) {
	s.tags[id] = domain.TagRef{ID: id, Name: name}
	s.tagOwner[id] = owner
}

func (s *fakeStore) addEntry(owner int64, start time.Time, end *time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.entries[s.nextID] = &domain.TimeEntry{ID: s.nextID, OwnerID: owner, StartAt: start, EndAt: end}
	return s.nextID
}

func (s *fakeStore) openCount(owner int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.OwnerID == owner && e.EndAt == nil {
			n++
		}
	}
	return n
}

func (s *fakeStore) linkedTags(entryID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int64
	for id := range s.links[entryID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *fakeStore) HasOpen(_ context.Context, ownerID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.hideOpen {
		return false, nil
	}
	return s.openCount(ownerID) > 0, nil
}

func (s *fakeStore) LockOpen(_ context.Context, ownerID int64) (*domain.TimeEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *domain.TimeEntry
	for _, e := range s.entries {
		if e.OwnerID == ownerID && e.EndAt == nil && (found == nil || e.ID > found.ID) {
			found = e
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (s *fakeStore) Insert(_ context.Context, ownerID int64, startAt time.Time, projectID *int64, note *string) (int64, error) {
	if s.openCount(ownerID) > 0 {
		return 0, repository.ErrOpenEntryExists
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.entries[s.nextID] = &domain.TimeEntry{ID: s.nextID, OwnerID: ownerID, StartAt: startAt, ProjectID: projectID, Note: note}
	return s.nextID, nil
}

func (s *fakeStore) UpdateDetails(_ context.Context, entryID int64, projectID *int64, note *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok {
		return repository.ErrNotFound
	}
	e.ProjectID, e.Note = projectID, note
	return nil
}

func (s *fakeStore) Close(_ context.Context, entryID int64, endAt time.Time) (domain.Span, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok || e.EndAt != nil {
		return domain.Span{}, repository.ErrNotFound
	}
	e.EndAt = &endAt
	return domain.Span{StartAt: e.StartAt, EndAt: e.EndAt}, nil
}

func (s *fakeStore) spans(ownerID int64, keep func(time.Time) bool) ([]domain.Span, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Span
	for _, e := range s.entries {
		if e.OwnerID == ownerID && keep(e.StartAt) {
			out = append(out, domain.Span{StartAt: e.StartAt, EndAt: e.EndAt})
		}
	}
	return out, nil
}

func (s *fakeStore) ListStartedBetween(_ context.Context, ownerID int64, from, to time.Time) ([]domain.Span, error) {
	return s.spans(ownerID, func(t time.Time) bool { return !t.Before(from) && t.Before(to) })
}

func (s *fakeStore) ListStartedSince(_ context.Context, ownerID int64, since time.Time) ([]domain.Span, error) {
	return s.spans(ownerID, func(t time.Time) bool { return !t.Before(since) })
}

func (s *fakeStore) ListRecent(_ context.Context, ownerID int64, limit int) ([]domain.EntryView, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.EntryView{}
	for _, e := range s.entries {
		if e.OwnerID != ownerID {
			continue
		}
		out = append(out, domain.EntryView{ID: e.ID, StartAt: e.StartAt, EndAt: e.EndAt, Note: e.Note, ProjectID: e.ProjectID, Tags: []domain.TagRef{}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartAt.After(out[j].StartAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) ListOpenStartedBefore(_ context.Context, before time.Time) ([]domain.OpenEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.OpenEntry
	for _, e := range s.entries {
		if e.EndAt == nil && e.StartAt.Before(before) {
			out = append(out, domain.OpenEntry{ID: e.ID, OwnerID: e.OwnerID, StartAt: e.StartAt})
		}
	}
	return out, nil
}

func (s *fakeStore) Attach(_ context.Context, entryID int64, tagIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachCalls++
	if s.links[entryID] == nil {
		s.links[entryID] = map[int64]struct{}{}
	}
	for _, id := range tagIDs {
		s.links[entryID][id] = struct{}{}
	}
	return nil
}

func (s *fakeStore) DeleteAll(_ context.Context, entryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, entryID)
	return nil
}

func (s *fakeStore) ListFor(_ context.Context, entryIDs []int64) (map[int64][]domain.TagRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64][]domain.TagRef{}
	for _, id := range entryIDs {
		for tagID := range s.links[id] {
			out[id] = append(out[id], s.tags[tagID])
		}
		sort.Slice(out[id], func(i, j int) bool { return out[id][i].Name < out[id][j].Name })
	}
	return out, nil
}

func (s *fakeStore) ProjectOwned(_ context.Context, ownerID, projectID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	owner, ok := s.projects[projectID]
	return ok && owner == ownerID, nil
}

func (s *fakeStore) CountOwnedTags(_ context.Context, ownerID int64, tagIDs []int64) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n := 0
	for _, id := range tagIDs {
		if owner, ok := s.tagOwner[id]; ok && owner == ownerID {
			n++
		}
	}
	return n, nil
}

type fakeManager struct {
	store *fakeStore
}

func (m fakeManager) Entries(dbx.DBTX) repository.EntryRepository     { return m.store }
func (m fakeManager) TagLinks(dbx.DBTX) repository.TagLinkRepository   { return m.store }
func (m fakeManager) Ownership(dbx.DBTX) repository.OwnershipRepository { return m.store }

type fakeCache struct {
	items       map[domain.HistoryKey][]domain.DaySummary
	gens        map[int64]int64
	sets        int
	invalidated []int64
	err         error
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[domain.HistoryKey][]domain.DaySummary{}, gens: map[int64]int64{}}
}

func (c *fakeCache) Generation(_ context.Context, ownerID int64) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.gens[ownerID], nil
}

func (c *fakeCache) Get(_ context.Context, key domain.HistoryKey) ([]domain.DaySummary, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	items, ok := c.items[key]
	return items, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key domain.HistoryKey, items []domain.DaySummary) error {
	if c.err != nil {
		return c.err
	}
	c.sets++
	c.items[key] = items
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ownerID int64) error {
	c.invalidated = append(c.invalidated, ownerID)
	if c.err != nil {
		return c.err
	}
	c.gens[ownerID]++
	return nil
}
