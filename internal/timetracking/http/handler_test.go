package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourly-labs/timetrack-backend/internal/auth"
	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

type stubLifecycle struct {
	startPatch domain.EntryPatch
	endPatch   domain.EntryPatch
	owner      int64
	err        error
}

func (s *stubLifecycle) Start(_ context.Context, ownerID int64, p domain.EntryPatch) (int64, error) {
	s.owner, s.startPatch = ownerID, p
	return 11, s.err
}

func (s *stubLifecycle) End(_ context.Context, ownerID int64, p domain.EntryPatch) (domain.EndResult, error) {
	s.owner, s.endPatch = ownerID, p
	if s.err != nil {
		return domain.EndResult{}, s.err
	}
	return domain.EndResult{EntryID: 11, Seconds: 300}, nil
}

type stubAggregator struct {
	offset, days int
	history      []domain.DaySummary
}

func (s *stubAggregator) Today(_ context.Context, _ int64, offset int) (domain.TodaySummary, error) {
	s.offset = offset
	return domain.TodaySummary{TotalSeconds: 42, Running: true}, nil
}

func (s *stubAggregator) History(_ context.Context, _ int64, offset, days int) ([]domain.DaySummary, error) {
	s.offset, s.days = offset, days
	return s.history, nil
}

type stubLister struct {
	items []domain.EntryView
	err   error
}

func (s stubLister) ListRecent(context.Context, int64) ([]domain.EntryView, error) {
	return s.items, s.err
}

func newTestRouter(h *Handler, ownerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/time")
	if ownerID > 0 {
		g.Use(func(c *gin.Context) { c.Set(auth.CtxOwnerID, ownerID) })
	}
	h.Register(g)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStart(t *testing.T) {
	lc := &stubLifecycle{}
	r := newTestRouter(New(lc, &stubAggregator{}, stubLister{}, logging.Nop()), 7)

	w := do(r, http.MethodPost, "/time/start", `{"project_id":3,"note":null,"tags":[1,1]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Started","entryId":11}`, w.Body.String())
	assert.Equal(t, int64(7), lc.owner)
	assert.Equal(t, int64(3), *lc.startPatch.ProjectID.Value)
	assert.True(t, lc.startPatch.Note.Set)
	assert.Equal(t, []int64{1, 1}, lc.startPatch.Tags.Value)
}

func TestStart_EmptyBody(t *testing.T) {
	lc := &stubLifecycle{}
	r := newTestRouter(New(lc, &stubAggregator{}, stubLister{}, logging.Nop()), 7)

	w := do(r, http.MethodPost, "/time/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, lc.startPatch.Tags.Set)
}

func TestStart_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		code int
		msg  string
	}{
		{"conflict", `{}`, domain.ErrAlreadyRunning, http.StatusBadRequest, "Already running"},
		{"not owned", `{"project_id":9}`, domain.ErrProjectNotOwned, http.StatusBadRequest, "Project not found or not yours"},
		{"malformed", `{"tags":[`, nil, http.StatusBadRequest, "Validation error"},
		{"wrong type", `{"tags":"x"}`, nil, http.StatusBadRequest, "Validation error"},
		{"storage", `{}`, domain.Storage("insert", errors.New("boom")), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(New(&stubLifecycle{err: tc.err}, &stubAggregator{}, stubLister{}, logging.Nop()), 7)
			w := do(r, http.MethodPost, "/time/start", tc.body)
			assert.Equal(t, tc.code, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["message"])
		})
	}
}

func TestEnd(t *testing.T) {
	lc := &stubLifecycle{}
	r := newTestRouter(New(lc, &stubAggregator{}, stubLister{}, logging.Nop()), 7)

	w := do(r, http.MethodPost, "/time/end", `{"tags":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Stopped","entryId":11,"seconds":300}`, w.Body.String())
	assert.True(t, lc.endPatch.Tags.Set)
	assert.Empty(t, lc.endPatch.Tags.Value)
	assert.False(t, lc.endPatch.ProjectID.Set)
}

func TestEnd_NothingRunning(t *testing.T) {
	r := newTestRouter(New(&stubLifecycle{err: domain.ErrNoRunningEntry}, &stubAggregator{}, stubLister{}, logging.Nop()), 7)

	w := do(r, http.MethodPost, "/time/end", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"No running entry"}`, w.Body.String())
}

func TestToday(t *testing.T) {
	agg := &stubAggregator{}
	r := newTestRouter(New(&stubLifecycle{}, agg, stubLister{}, logging.Nop()), 7)

	w := do(r, http.MethodGet, "/time/today?offsetMinutes=99999", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_seconds":42,"running":true}`, w.Body.String())
	assert.Equal(t, 1440, agg.offset)

	do(r, http.MethodGet, "/time/today?offsetMinutes=abc", "")
	assert.Equal(t, 0, agg.offset)
}

func TestHistory(t *testing.T) {
	agg := &stubAggregator{history: []domain.DaySummary{{Day: "2024-01-02", TotalSeconds: 300}}}
	r := newTestRouter(New(&stubLifecycle{}, agg, stubLister{}, logging.Nop()), 7)

	w := do(r, http.MethodGet, "/time/history?offsetMinutes=120&days=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"history":[{"day":"2024-01-02","total_seconds":300}]}`, w.Body.String())
	assert.Equal(t, 120, agg.offset)
	assert.Equal(t, 2, agg.days)

	agg.history = nil
	w = do(r, http.MethodGet, "/time/history", "")
	assert.JSONEq(t, `{"history":[]}`, w.Body.String())
	assert.Equal(t, 60, agg.days)
}

func TestEntries(t *testing.T) {
	start := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	name := "Client"
	lister := stubLister{items: []domain.EntryView{{
		ID:          1,
		StartAt:     start,
		ProjectID:   func() *int64 { v := int64(3); return &v }(),
		ProjectName: &name,
		Tags:        []domain.TagRef{{ID: 5, Name: "billable"}},
	}}}
	r := newTestRouter(New(&stubLifecycle{}, &stubAggregator{}, lister, logging.Nop()), 7)

	w := do(r, http.MethodGet, "/time/entries", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entries":[{
		"id":1,"start_at":"2024-01-02T08:00:00Z","end_at":null,"note":null,
		"project_id":3,"project_name":"Client","project_color":null,
		"tags":[{"id":5,"name":"billable","color":null}]
	}]}`, w.Body.String())
}

func TestRequiresOwner(t *testing.T) {
	r := newTestRouter(New(&stubLifecycle{}, &stubAggregator{}, stubLister{}, logging.Nop()), 0)

	w := do(r, http.MethodGet, "/time/today", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
