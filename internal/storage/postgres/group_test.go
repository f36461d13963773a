package postgres

import (
	"testing"

	"github.com/VitaminP8/postline/internal/group"
	"github.com/VitaminP8/postline/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPostgresStorage_CreateGroup(t *testing.T) {
	storage := NewGroupPostgresStorage()

	t.Run("Successful group creation", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		g, err := storage.CreateGroup("Котики", "kotiki", "Группа про котиков")
		require.NoError(t, err)
		assert.NotZero(t, g.ID)
		assert.Equal(t, "kotiki", g.Slug)
	})

	t.Run("Slug is derived from title when empty", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		g, err := storage.CreateGroup("My Test Group", "", "about")
		require.NoError(t, err)
		assert.Equal(t, "my-test-group", g.Slug)
	})

	t.Run("Duplicate slug fails", func(t *testing.T) {
		oldDB := setupTestDB(t)
		defer teardownTestDB(oldDB)

		_, err := storage.CreateGroup("Первая", "same", "")
		require.NoError(t, err)

		_, err = storage.CreateGroup("Вторая", "same", "")
		assert.Error(t, err)

		var count int
		require.NoError(t, DB.Model(&models.Group{}).Count(&count).Error)
		assert.Equal(t, 1, count)
	})
}

func TestGroupPostgresStorage_GetGroupBySlug(t *testing.T) {
	storage := NewGroupPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	createTestGroup(t, "Котики", "kotiki")

	g, err := storage.GetGroupBySlug("kotiki")
	require.NoError(t, err)
	assert.Equal(t, "Котики", g.Title)

	_, err = storage.GetGroupBySlug("missing")
	assert.ErrorIs(t, err, group.ErrNotFound)
}

func TestGroupPostgresStorage_GetGroupByID(t *testing.T) {
	storage := NewGroupPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	groupID := createTestGroup(t, "Котики", "kotiki")

	g, err := storage.GetGroupByID(groupID)
	require.NoError(t, err)
	assert.Equal(t, "Котики", g.Title)

	_, err = storage.GetGroupByID(9999)
	assert.ErrorIs(t, err, group.ErrNotFound)
}

func TestGroupPostgresStorage_DeleteGroup(t *testing.T) {
	groupStorage := NewGroupPostgresStorage()
	postStorage := NewPostPostgresStorage()

	oldDB := setupTestDB(t)
	defer teardownTestDB(oldDB)

	userID := createTestUser(t, "konst")
	groupID := createTestGroup(t, "Котики", "kotiiki")

	created, err := postStorage.CreatePost(createUserContext(userID), "пост в группе", &groupID, "")
	require.NoError(t, err)

	err = groupStorage.DeleteGroup(groupID)
	require.NoError(t, err)

	// Пост остается, но без группы
	p, err := postStorage.GetPostByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, p.GroupID)

	_, err = groupStorage.GetGroupBySlug("kotiiki")
	assert.ErrorIs(t, err, group.ErrNotFound)

	err = groupStorage.DeleteGroup(9999)
	assert.ErrorIs(t, err, group.ErrNotFound)
}
