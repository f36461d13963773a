package group

import (
	"errors"

	"github.com/VitaminP8/postline/models"
)

var ErrNotFound = errors.New("group not found")

// GroupStorage — операции над сообществами.
// Slug уникален; при пустом slug он выводится из title (до 100 символов).
// Удаление группы обнуляет group_id у ее постов, сами посты не удаляются.
type GroupStorage interface {
	CreateGroup(title, slug, description string) (*models.Group, error)
	GetGroupBySlug(slug string) (*models.Group, error)
	GetGroupByID(id uint) (*models.Group, error)
	DeleteGroup(id uint) error
}
