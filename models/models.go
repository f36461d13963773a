package models

import (
	"github.com/gosimple/slug"
	"github.com/jinzhu/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"unique"`
	Email    string `gorm:"unique"`
	Password string
	Posts    []Post    `gorm:"foreignkey:UserID"`
	Comments []Comment `gorm:"foreignkey:UserID"`
}

type Group struct {
	gorm.Model
	Title       string
	Slug        string `gorm:"unique"`
	Description string
	Posts       []Post `gorm:"foreignkey:GroupID"`
}

// Если slug не задан, выводим его из названия
func (g *Group) BeforeCreate() error {
	if g.Slug == "" {
		g.Slug = SlugForTitle(g.Title)
	}
	return nil
}

// SlugForTitle строит URL-безопасный slug из названия (не длиннее 100 символов)
func SlugForTitle(title string) string {
	s := slug.Make(title)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// Post.CreatedAt (из gorm.Model) — дата публикации, после создания не меняется
type Post struct {
	gorm.Model
	Text     string `gorm:"not null"`
	UserID   uint
	Author   User `gorm:"foreignkey:UserID"`
	GroupID  *uint
	Group    *Group    `gorm:"foreignkey:GroupID"`
	Image    string
	Comments []Comment `gorm:"foreignkey:PostID"`
}

type Comment struct {
	gorm.Model
	Text   string `gorm:"not null"`
	UserID uint
	Author User `gorm:"foreignkey:UserID"`
	PostID uint
}

// Follow — подписка: UserID подписан на AuthorID.
// Пара (user_id, author_id) уникальна
type Follow struct {
	gorm.Model
	UserID   uint `gorm:"unique_index:idx_user_author"`
	AuthorID uint `gorm:"unique_index:idx_user_author"`
}
