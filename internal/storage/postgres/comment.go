package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/post"
	"github.com/VitaminP8/postline/models"
	"github.com/jinzhu/gorm"
)

const commentOrder = "created_at DESC, text ASC"

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}

	var p models.Post
	err = DB.First(&p, postID).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, post.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post: %w", err)
	}

	c := &models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}

	err = DB.Create(c).Error
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	return c, nil
}

func (s *CommentPostgresStorage) GetComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := DB.Where("post_id = ?", postID).
		Preload("Author").
		Order(commentOrder).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	return comments, nil
}
