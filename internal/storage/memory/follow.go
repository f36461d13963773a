package memory

import (
	"context"
	"sync"
	"time"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/follow"
	"github.com/VitaminP8/postline/models"
)

type followKey struct {
	userID   uint
	authorID uint
}

type FollowMemoryStorage struct {
	mu     sync.Mutex
	edges  map[followKey]*models.Follow
	nextID uint
}

func NewFollowMemoryStorage(users *UserMemoryStorage) *FollowMemoryStorage {
	s := &FollowMemoryStorage{
		edges:  make(map[followKey]*models.Follow),
		nextID: 1,
	}
	users.OnDeleteUser(s.deleteUserEdges)
	return s
}

func (s *FollowMemoryStorage) Follow(ctx context.Context, authorID uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}

	// На себя не подписываемся, повторная подписка — no-op
	if userID == authorID {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if _, exists := s.edges[key]; exists {
		return nil
	}

	id := s.nextID
	s.nextID++

	f := &models.Follow{UserID: userID, AuthorID: authorID}
	f.ID = id
	f.CreatedAt = time.Now()

	s.edges[key] = f
	return nil
}

func (s *FollowMemoryStorage) Unfollow(ctx context.Context, authorID uint) error {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := followKey{userID: userID, authorID: authorID}
	if _, exists := s.edges[key]; !exists {
		return follow.ErrNotFound
	}

	delete(s.edges, key)
	return nil
}

func (s *FollowMemoryStorage) IsFollowing(userID, authorID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.edges[followKey{userID: userID, authorID: authorID}]
	return exists, nil
}

// deleteUserEdges убирает подписки пользователя в обе стороны
func (s *FollowMemoryStorage) deleteUserEdges(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.edges {
		if key.userID == userID || key.authorID == userID {
			delete(s.edges, key)
		}
	}
}

func (s *FollowMemoryStorage) followedAuthors(userID uint) map[uint]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	followed := make(map[uint]bool)
	for key := range s.edges {
		if key.userID == userID {
			followed[key.authorID] = true
		}
	}

	return followed
}
