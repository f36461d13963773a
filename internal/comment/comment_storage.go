package comment

import (
	"context"
	"errors"

	"github.com/VitaminP8/postline/models"
)

var ErrNotFound = errors.New("comment not found")

type CommentStorage interface {
	CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error)
	GetComments(postID uint) ([]models.Comment, error)
}
