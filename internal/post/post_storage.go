package post

import (
	"context"
	"errors"

	"github.com/VitaminP8/postline/models"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("forbidden: you are not the author of this post")
)

// PostStorage — операции над публикациями.
// Автор для Create/Update берется из контекста (internal/auth).
// Все списки отсортированы по убыванию даты публикации, при равенстве — по тексту.
type PostStorage interface {
	CreatePost(ctx context.Context, text string, groupID *uint, image string) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, text string, groupID *uint, image string) (*models.Post, error)
	GetPostByID(id uint) (*models.Post, error)

	ListPosts(limit, offset int) ([]models.Post, error)
	CountPosts() (int, error)

	ListGroupPosts(groupID uint, limit, offset int) ([]models.Post, error)
	CountGroupPosts(groupID uint) (int, error)

	ListAuthorPosts(authorID uint, limit, offset int) ([]models.Post, error)
	CountAuthorPosts(authorID uint) (int, error)

	// Лента: посты авторов, на которых подписан userID
	ListFeedPosts(userID uint, limit, offset int) ([]models.Post, error)
	CountFeedPosts(userID uint) (int, error)
}
