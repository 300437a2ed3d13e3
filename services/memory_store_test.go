package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyyq_server/models"
	"hyyq_server/services"
)

func TestMemoryUpdate_FailedPatchLeavesRecordUntouched(t *testing.T) {
	store := services.NewMemoryMatchStore()
	require.NoError(t, store.Put(context.Background(), &models.Match{
		MatchID:       "m1",
		Content:       "original content",
		Sport:         models.SportBasketball,
		Location:      "court 3",
		NeedPeople:    4,
		CurrentPeople: 1,
		Status:        models.StatusActive,
	}))

	_, err := store.Update(context.Background(), "m1", map[string]interface{}{
		"content": "patched content",
		"bogus":   "nope",
	})
	require.Error(t, err)

	after, err := store.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "original content", after.Content, "a rejected patch must not apply any of its fields")
	assert.Equal(t, "court 3", after.Location)
}

func TestMemoryUpdate_AppliesAllFields(t *testing.T) {
	store := services.NewMemoryMatchStore()
	require.NoError(t, store.Put(context.Background(), &models.Match{
		MatchID:       "m1",
		Content:       "original content",
		NeedPeople:    4,
		CurrentPeople: 1,
		Status:        models.StatusActive,
	}))

	updated, err := store.Update(context.Background(), "m1", map[string]interface{}{
		"content":    "patched content",
		"needPeople": 6,
	})
	require.NoError(t, err)
	assert.Equal(t, "patched content", updated.Content)
	assert.Equal(t, 6, updated.NeedPeople)

	after, err := store.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "patched content", after.Content)
	assert.Equal(t, 6, after.NeedPeople)
}
