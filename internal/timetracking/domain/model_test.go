package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpan_Seconds(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90*time.Minute + 900*time.Millisecond)
	now := start.Add(2 * time.Hour)

	assert.Equal(t, int64(5400), Span{StartAt: start, EndAt: &end}.Seconds(now))
	assert.Equal(t, int64(7200), Span{StartAt: start}.Seconds(now))

	before := start.Add(-time.Second)
	assert.Equal(t, int64(0), Span{StartAt: start, EndAt: &before}.Seconds(now))
}
