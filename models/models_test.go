package models

import (
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Создает тестовую БД в памяти с миграциями всех моделей
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err, "Failed to connect to in-memory SQLite")

	db.LogMode(false)
	err = db.AutoMigrate(&User{}, &Group{}, &Post{}, &Comment{}, &Follow{}).Error
	require.NoError(t, err, "Failed to migrate database schema")

	return db
}

func TestGroupSlugDerivedFromTitle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	g := &Group{Title: "My Test Group", Description: "about"}
	err := db.Create(g).Error
	require.NoError(t, err)

	assert.Equal(t, "my-test-group", g.Slug)
}

func TestGroupExplicitSlugKept(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	g := &Group{Title: "My Test Group", Slug: "custom-slug"}
	err := db.Create(g).Error
	require.NoError(t, err)

	assert.Equal(t, "custom-slug", g.Slug)
}

func TestSlugForTitleTruncated(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdefghij"
	}

	s := SlugForTitle(long)
	assert.LessOrEqual(t, len(s), 100)
}

func TestGroupSlugUnique(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.Create(&Group{Title: "First", Slug: "same"}).Error
	require.NoError(t, err)

	// Дубликат должен упасть на ограничении, а не перезаписать запись
	err = db.Create(&Group{Title: "Second", Slug: "same"}).Error
	assert.Error(t, err)

	var count int
	err = db.Model(&Group{}).Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFollowPairUnique(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.Create(&Follow{UserID: 1, AuthorID: 2}).Error
	require.NoError(t, err)

	err = db.Create(&Follow{UserID: 1, AuthorID: 2}).Error
	assert.Error(t, err)

	// Обратное направление — другая пара, она разрешена
	err = db.Create(&Follow{UserID: 2, AuthorID: 1}).Error
	assert.NoError(t, err)
}
