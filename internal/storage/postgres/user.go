package postgres

import (
	"fmt"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/user"
	"github.com/VitaminP8/postline/models"
	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct{}

func NewUserPostgresStorage() *UserPostgresStorage {
	return &UserPostgresStorage{}
}

func (s *UserPostgresStorage) RegisterUser(username, email, password string) (*models.User, error) {
	// проверка - существует ли такой пользователь
	var existUser models.User
	err := DB.Where("username = ?", username).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("user with username %s already exists", username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}

	err = DB.Create(u).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserPostgresStorage) LoginUser(username, password string) (string, error) {
	var u models.User
	err := DB.Where("username = ?", username).First(&u).Error
	if gorm.IsRecordNotFoundError(err) {
		return "", user.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("could not get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		return "", user.ErrInvalidPassword
	}

	token, err := auth.IssueToken(u.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

func (s *UserPostgresStorage) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := DB.Where("username = ?", username).First(&u).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}

	return &u, nil
}

func (s *UserPostgresStorage) GetUserByID(id uint) (*models.User, error) {
	var u models.User
	err := DB.First(&u, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}

	return &u, nil
}

// DeleteUser удаляет пользователя вместе с его постами, комментариями и подписками
func (s *UserPostgresStorage) DeleteUser(id uint) error {
	var u models.User
	err := DB.First(&u, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return user.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("could not get user: %w", err)
	}

	tx := DB.Begin()

	// Комментарии к постам пользователя
	err = tx.Unscoped().
		Where("post_id IN (?)", tx.Model(&models.Post{}).Select("id").Where("user_id = ?", id).QueryExpr()).
		Delete(&models.Comment{}).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete post comments: %w", err)
	}

	err = tx.Unscoped().Where("user_id = ?", id).Delete(&models.Comment{}).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete comments: %w", err)
	}

	err = tx.Unscoped().Where("user_id = ?", id).Delete(&models.Post{}).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete posts: %w", err)
	}

	err = tx.Unscoped().Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Follow{}).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete follows: %w", err)
	}

	err = tx.Unscoped().Delete(&u).Error
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not delete user: %w", err)
	}

	return tx.Commit().Error
}
