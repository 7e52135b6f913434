package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourly-labs/timetrack-backend/internal/logging"
)

func TestScheduler_AddRejectsBadExpression(t *testing.T) {
	s := NewScheduler(logging.Nop())
	err := s.Add("every tuesday", "audit", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewScheduler(logging.New(&buf, "info"))

	require.NoError(t, s.RunOnce(context.Background(), "ok", func(context.Context) error { return nil }))
	assert.Contains(t, buf.String(), "job finished")

	boom := errors.New("boom")
	assert.ErrorIs(t, s.RunOnce(context.Background(), "bad", func(context.Context) error { return boom }), boom)
	assert.Contains(t, buf.String(), "job failed")
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := NewScheduler(logging.Nop())

	var runs atomic.Int32
	require.NoError(t, s.Add("* * * * * *", "tick", func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
