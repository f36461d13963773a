package follow

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("follow not found")

// FollowStorage — подписки на авторов. Подписчик берется из контекста.
// Follow молча игнорирует подписку на себя и повторную подписку.
// Unfollow возвращает ErrNotFound, если подписки не было.
type FollowStorage interface {
	Follow(ctx context.Context, authorID uint) error
	Unfollow(ctx context.Context, authorID uint) error
	IsFollowing(userID, authorID uint) (bool, error)
}
