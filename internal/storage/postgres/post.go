package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/post"
	"github.com/VitaminP8/postline/models"
	"github.com/jinzhu/gorm"
)

// Порядок выдачи: новые выше, при равной дате — по тексту
const postOrder = "created_at DESC, text ASC"

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, text string, groupID *uint, image string) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	p := &models.Post{
		Text:    text,
		UserID:  userID,
		GroupID: groupID,
		Image:   image,
	}

	err = DB.Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return s.GetPostByID(p.ID)
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id uint, text string, groupID *uint, image string) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	var p models.Post
	err = DB.First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, post.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post: %w", err)
	}

	if p.UserID != userID {
		return nil, post.ErrForbidden
	}

	// Дата публикации (CreatedAt) не меняется
	err = DB.Model(&p).Updates(map[string]interface{}{
		"text":     text,
		"group_id": groupID,
		"image":    image,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("could not update post: %w", err)
	}

	return s.GetPostByID(id)
}

func (s *PostPostgresStorage) GetPostByID(id uint) (*models.Post, error) {
	var p models.Post
	err := DB.Preload("Author").Preload("Group").First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, post.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	return &p, nil
}

func (s *PostPostgresStorage) ListPosts(limit, offset int) ([]models.Post, error) {
	return s.listPosts(DB, limit, offset)
}

func (s *PostPostgresStorage) CountPosts() (int, error) {
	return s.countPosts(DB)
}

func (s *PostPostgresStorage) ListGroupPosts(groupID uint, limit, offset int) ([]models.Post, error) {
	return s.listPosts(DB.Where("group_id = ?", groupID), limit, offset)
}

func (s *PostPostgresStorage) CountGroupPosts(groupID uint) (int, error) {
	return s.countPosts(DB.Where("group_id = ?", groupID))
}

func (s *PostPostgresStorage) ListAuthorPosts(authorID uint, limit, offset int) ([]models.Post, error) {
	return s.listPosts(DB.Where("user_id = ?", authorID), limit, offset)
}

func (s *PostPostgresStorage) CountAuthorPosts(authorID uint) (int, error) {
	return s.countPosts(DB.Where("user_id = ?", authorID))
}

func (s *PostPostgresStorage) ListFeedPosts(userID uint, limit, offset int) ([]models.Post, error) {
	return s.listPosts(feedQuery(userID), limit, offset)
}

func (s *PostPostgresStorage) CountFeedPosts(userID uint) (int, error) {
	return s.countPosts(feedQuery(userID))
}

// Посты авторов, на которых подписан userID
func feedQuery(userID uint) *gorm.DB {
	return DB.
		Joins("JOIN follows ON follows.author_id = posts.user_id").
		Where("follows.user_id = ? AND follows.deleted_at IS NULL", userID)
}

func (s *PostPostgresStorage) listPosts(query *gorm.DB, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := query.
		Preload("Author").
		Preload("Group").
		Order(postOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	return posts, nil
}

func (s *PostPostgresStorage) countPosts(query *gorm.DB) (int, error) {
	var count int
	err := query.Model(&models.Post{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count posts: %w", err)
	}

	return count, nil
}
