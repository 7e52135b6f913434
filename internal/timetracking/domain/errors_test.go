package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	wrapped := fmt.Errorf("start: %w", ErrAlreadyRunning)

	assert.ErrorIs(t, wrapped, ErrAlreadyRunning)
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.NotErrorIs(t, wrapped, ErrNoRunningEntry)
	assert.NotErrorIs(t, ErrProjectNotOwned, ErrTagsNotOwned)
	assert.ErrorIs(t, ErrTagsNotOwned, ErrNotOwned)
}

func TestStorage(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("list entries", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list entries: connection reset", err.Error())
	assert.Equal(t, KindStorage, KindOf(err))

	assert.Same(t, ErrNoRunningEntry, Storage("end", ErrNoRunningEntry))
	assert.Nil(t, Storage("noop", nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation(map[string]string{"x": "bad"})))
	assert.Equal(t, KindInvalidState, KindOf(fmt.Errorf("x: %w", ErrNoRunningEntry)))
	assert.Equal(t, KindStorage, KindOf(errors.New("boom")))
}
