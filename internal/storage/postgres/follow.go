package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/follow"
	"github.com/VitaminP8/postline/models"
	"github.com/jinzhu/gorm"
)

type FollowPostgresStorage struct{}

func NewFollowPostgresStorage() *FollowPostgresStorage {
	return &FollowPostgresStorage{}
}

func (s *FollowPostgresStorage) Follow(ctx context.Context, authorID uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("unauthorized: %w", err)
	}

	// На себя не подписываемся, повторная подписка — no-op
	if userID == authorID {
		return nil
	}

	exists, err := s.IsFollowing(userID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	f := &models.Follow{UserID: userID, AuthorID: authorID}
	err = DB.Create(f).Error
	if err != nil {
		// Гонку двух одновременных подписок ловит уникальный индекс
		return fmt.Errorf("could not create follow: %w", err)
	}

	return nil
}

func (s *FollowPostgresStorage) Unfollow(ctx context.Context, authorID uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("unauthorized: %w", err)
	}

	var f models.Follow
	err = DB.Where("user_id = ? AND author_id = ?", userID, authorID).First(&f).Error
	if gorm.IsRecordNotFoundError(err) {
		return follow.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("could not get follow: %w", err)
	}

	// Unscoped — иначе soft delete не даст подписаться снова из-за уникального индекса
	err = DB.Unscoped().Delete(&f).Error
	if err != nil {
		return fmt.Errorf("could not delete follow: %w", err)
	}

	return nil
}

func (s *FollowPostgresStorage) IsFollowing(userID, authorID uint) (bool, error) {
	var count int
	err := DB.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("could not count follows: %w", err)
	}

	return count > 0, nil
}
