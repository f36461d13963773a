package user

import (
	"errors"

	"github.com/VitaminP8/postline/models"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
)

type UserStorage interface {
	RegisterUser(username, email, password string) (*models.User, error)
	LoginUser(username, password string) (string, error) // JWT
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	// Удаление пользователя каскадно удаляет его посты, комментарии и подписки
	DeleteUser(id uint) error
}
