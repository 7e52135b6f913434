package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

func TestOwnershipValidator_ValidateProject(t *testing.T) {
	store := newFakeStore()
	store.addProject(1, owner)
	store.addProject(2, 99)
	v := NewOwnershipValidator(store)

	assert.NoError(t, v.ValidateProject(context.Background(), owner, nil))
	assert.NoError(t, v.ValidateProject(context.Background(), owner, ptr(int64(1))))
	assert.ErrorIs(t, v.ValidateProject(context.Background(), owner, ptr(int64(2))), domain.ErrProjectNotOwned)
	assert.ErrorIs(t, v.ValidateProject(context.Background(), owner, ptr(int64(404))), domain.ErrNotOwned)
}

func TestOwnershipValidator_ValidateTags(t *testing.T) {
	store := newFakeStore()
	store.addTag(3, owner, "a")
	store.addTag(5, owner, "b")
	store.addTag(6, 99, "c")
	v := NewOwnershipValidator(store)

	ids, err := v.ValidateTags(context.Background(), owner, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = v.ValidateTags(context.Background(), owner, []int64{3, 3, 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, ids)

	_, err = v.ValidateTags(context.Background(), owner, []int64{3, 6})
	assert.ErrorIs(t, err, domain.ErrTagsNotOwned)
}

func TestTagAssociationStore(t *testing.T) {
	store := newFakeStore()
	tags := NewTagAssociationStore(store)
	ctx := context.Background()

	require.NoError(t, tags.Attach(ctx, 1, nil))
	assert.Zero(t, store.attachCalls, "empty set issues no insert")

	require.NoError(t, tags.Attach(ctx, 1, []int64{3, 3, 5}))
	require.NoError(t, tags.Attach(ctx, 1, []int64{5}))
	assert.Equal(t, []int64{3, 5}, store.linkedTags(1))

	require.NoError(t, tags.ReplaceAll(ctx, 1, []int64{7}))
	assert.Equal(t, []int64{7}, store.linkedTags(1))

	require.NoError(t, tags.ReplaceAll(ctx, 1, []int64{}))
	assert.Empty(t, store.linkedTags(1))

	got, err := tags.ListFor(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
