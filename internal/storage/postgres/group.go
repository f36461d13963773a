package postgres

import (
	"fmt"

	"github.com/VitaminP8/postline/internal/group"
	"github.com/VitaminP8/postline/models"
	"github.com/jinzhu/gorm"
)

type GroupPostgresStorage struct{}

func NewGroupPostgresStorage() *GroupPostgresStorage {
	return &GroupPostgresStorage{}
}

func (s *GroupPostgresStorage) CreateGroup(title, slug, description string) (*models.Group, error) {
	g := &models.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}

	// Уникальность slug обеспечивает индекс — дубликат вернет ошибку
	err := DB.Create(g).Error
	if err != nil {
		return nil, fmt.Errorf("could not create group: %w", err)
	}

	return g, nil
}

func (s *GroupPostgresStorage) GetGroupBySlug(slug string) (*models.Group, error) {
	var g models.Group
	err := DB.Where("slug = ?", slug).First(&g).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, group.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get group by slug: %w", err)
	}

	return &g, nil
}

func (s *GroupPostgresStorage) GetGroupByID(id uint) (*models.Group, error) {
	var g models.Group
	err := DB.First(&g, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, group.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get group: %w", err)
	}

	return &g, nil
}

func (s *GroupPostgresStorage) DeleteGroup(id uint) error {
	var g models.Group
	err := DB.First(&g, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return group.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("could not get group: %w", err)
	}

	tx := DB.Begin()

	// Посты группы остаются, ссылка на группу обнуляется
	err = tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not detach posts: %w", err)
	}

	err = tx.Delete(&g).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete group: %w", err)
	}

	return tx.Commit().Error
}
