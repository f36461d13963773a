package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/models"
)

type CommentMemoryStorage struct {
	mu       sync.Mutex
	comments map[uint]*models.Comment
	posts    *PostMemoryStorage
	users    *UserMemoryStorage
	nextID   uint
}

func NewCommentMemoryStorage(posts *PostMemoryStorage, users *UserMemoryStorage) *CommentMemoryStorage {
	s := &CommentMemoryStorage{
		comments: make(map[uint]*models.Comment),
		posts:    posts,
		users:    users,
		nextID:   1,
	}
	users.OnDeleteUser(s.deleteAuthorComments)
	posts.OnDeletePost(s.deletePostComments)
	return s
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, postID uint, text string) (*models.Comment, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Пост должен существовать
	if _, err := s.posts.GetPostByID(postID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	c := &models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	c.ID = id
	c.CreatedAt = time.Now()

	s.comments[id] = c

	cp := *c
	return &cp, nil
}

func (s *CommentMemoryStorage) GetComments(postID uint) ([]models.Comment, error) {
	s.mu.Lock()

	var comments []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			cp := *c
			if u, err := s.users.GetUserByID(c.UserID); err == nil {
				cp.Author = *u
			}
			comments = append(comments, cp)
		}
	}
	s.mu.Unlock()

	// Новые выше, при равной дате — по тексту
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].Text < comments[j].Text
	})

	return comments, nil
}

func (s *CommentMemoryStorage) deletePostComments(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
}

func (s *CommentMemoryStorage) deleteAuthorComments(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.comments {
		if c.UserID == userID {
			delete(s.comments, id)
		}
	}
}
