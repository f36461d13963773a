package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/post"
	"github.com/VitaminP8/postline/models"
)

type PostMemoryStorage struct {
	mu       sync.Mutex
	posts    map[uint]*models.Post
	users    *UserMemoryStorage
	follows  *FollowMemoryStorage
	nextID   uint // Для хранения актуального ID (можно было использовать UUID)
	cascades []func(postID uint)
}

func NewPostMemoryStorage(users *UserMemoryStorage, follows *FollowMemoryStorage) *PostMemoryStorage {
	s := &PostMemoryStorage{
		posts:   make(map[uint]*models.Post),
		users:   users,
		follows: follows,
		nextID:  1,
	}
	users.OnDeleteUser(s.deleteAuthorPosts)
	return s
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, text string, groupID *uint, image string) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	p := &models.Post{
		Text:    text,
		UserID:  userID,
		GroupID: groupID,
		Image:   image,
	}
	p.ID = id
	p.CreatedAt = time.Now()

	s.posts[id] = p
	return s.withAuthor(p), nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id uint, text string, groupID *uint, image string) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, post.ErrNotFound
	}

	if p.UserID != userID {
		return nil, post.ErrForbidden
	}

	p.Text = text
	p.GroupID = groupID
	p.Image = image
	p.UpdatedAt = time.Now()

	return s.withAuthor(p), nil
}

func (s *PostMemoryStorage) GetPostByID(id uint) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, post.ErrNotFound
	}

	return s.withAuthor(p), nil
}

func (s *PostMemoryStorage) ListPosts(limit, offset int) ([]models.Post, error) {
	return s.list(func(p *models.Post) bool { return true }, limit, offset), nil
}

func (s *PostMemoryStorage) CountPosts() (int, error) {
	return s.count(func(p *models.Post) bool { return true }), nil
}

func (s *PostMemoryStorage) ListGroupPosts(groupID uint, limit, offset int) ([]models.Post, error) {
	return s.list(func(p *models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}, limit, offset), nil
}

func (s *PostMemoryStorage) CountGroupPosts(groupID uint) (int, error) {
	return s.count(func(p *models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}), nil
}

func (s *PostMemoryStorage) ListAuthorPosts(authorID uint, limit, offset int) ([]models.Post, error) {
	return s.list(func(p *models.Post) bool { return p.UserID == authorID }, limit, offset), nil
}

func (s *PostMemoryStorage) CountAuthorPosts(authorID uint) (int, error) {
	return s.count(func(p *models.Post) bool { return p.UserID == authorID }), nil
}

func (s *PostMemoryStorage) ListFeedPosts(userID uint, limit, offset int) ([]models.Post, error) {
	followed := s.follows.followedAuthors(userID)
	return s.list(func(p *models.Post) bool { return followed[p.UserID] }, limit, offset), nil
}

func (s *PostMemoryStorage) CountFeedPosts(userID uint) (int, error) {
	followed := s.follows.followedAuthors(userID)
	return s.count(func(p *models.Post) bool { return followed[p.UserID] }), nil
}

// detachGroup обнуляет ссылку на группу у всех постов группы (аналог SET NULL)
func (s *PostMemoryStorage) detachGroup(groupID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == groupID {
			p.GroupID = nil
		}
	}
}

// OnDeletePost регистрирует каскад, выполняемый при удалении поста
func (s *PostMemoryStorage) OnDeletePost(cascade func(postID uint)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cascades = append(s.cascades, cascade)
}

func (s *PostMemoryStorage) deleteAuthorPosts(userID uint) {
	s.mu.Lock()

	var deleted []uint
	for id, p := range s.posts {
		if p.UserID == userID {
			delete(s.posts, id)
			deleted = append(deleted, id)
		}
	}

	cascades := make([]func(uint), len(s.cascades))
	copy(cascades, s.cascades)
	s.mu.Unlock()

	// Комментарии удаленных постов убирает хранилище комментариев
	for _, id := range deleted {
		for _, cascade := range cascades {
			cascade(id)
		}
	}
}

func (s *PostMemoryStorage) list(match func(*models.Post) bool, limit, offset int) []models.Post {
	s.mu.Lock()

	var posts []models.Post
	for _, p := range s.posts {
		if match(p) {
			posts = append(posts, *s.withAuthor(p))
		}
	}
	s.mu.Unlock()

	// Новые выше, при равной дате — по тексту
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].Text < posts[j].Text
	})

	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}

	return posts
}

func (s *PostMemoryStorage) count(match func(*models.Post) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, p := range s.posts {
		if match(p) {
			count++
		}
	}

	return count
}

func (s *PostMemoryStorage) withAuthor(p *models.Post) *models.Post {
	cp := *p
	if u, err := s.users.GetUserByID(p.UserID); err == nil {
		cp.Author = *u
	}
	return &cp
}
