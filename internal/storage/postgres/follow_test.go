package postgres

import (
	"testing"

	"github.com/VitaminP8/postline/internal/follow"
	"github.com/VitaminP8/postline/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFollows(t *testing.T) int {
	var count int
	require.NoError(t, DB.Model(&models.Follow{}).Count(&count).Error)
	return count
}

func TestFollowPostgresStorage_Follow(t *testing.T) {
	storage := NewFollowPostgresStorage()

	t.Run("Follow creates a single edge", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "reader")
		authorID := createTestUser(t, "author")
		ctx := createUserContext(userID)

		require.NoError(t, storage.Follow(ctx, authorID))

		following, err := storage.IsFollowing(userID, authorID)
		require.NoError(t, err)
		assert.True(t, following)
		assert.Equal(t, 1, countFollows(t))
	})

	t.Run("Double follow leaves exactly one edge", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "reader")
		authorID := createTestUser(t, "author")
		ctx := createUserContext(userID)

		require.NoError(t, storage.Follow(ctx, authorID))
		require.NoError(t, storage.Follow(ctx, authorID))

		assert.Equal(t, 1, countFollows(t))
	})

	t.Run("Self-follow is a silent no-op", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "reader")

		require.NoError(t, storage.Follow(createUserContext(userID), userID))
		assert.Equal(t, 0, countFollows(t))
	})
}

func TestFollowPostgresStorage_Unfollow(t *testing.T) {
	storage := NewFollowPostgresStorage()

	t.Run("Follow then unfollow leaves no edges", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "reader")
		authorID := createTestUser(t, "author")
		ctx := createUserContext(userID)

		require.NoError(t, storage.Follow(ctx, authorID))
		require.NoError(t, storage.Unfollow(ctx, authorID))

		assert.Equal(t, 0, countFollows(t))

		// Можно подписаться снова — удаление не оставляет мягко удаленной записи
		require.NoError(t, storage.Follow(ctx, authorID))
		assert.Equal(t, 1, countFollows(t))
	})

	t.Run("Unfollow without edge gives ErrNotFound", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		userID := createTestUser(t, "reader")
		authorID := createTestUser(t, "author")

		err := storage.Unfollow(createUserContext(userID), authorID)
		assert.ErrorIs(t, err, follow.ErrNotFound)
	})
}
