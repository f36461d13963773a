package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/postline/internal/group"
	"github.com/VitaminP8/postline/models"
)

type GroupMemoryStorage struct {
	mu     sync.Mutex
	groups map[uint]*models.Group
	slugs  map[string]uint // slug -> id
	posts  *PostMemoryStorage
	nextID uint
}

func NewGroupMemoryStorage(posts *PostMemoryStorage) *GroupMemoryStorage {
	return &GroupMemoryStorage{
		groups: make(map[uint]*models.Group),
		slugs:  make(map[string]uint),
		posts:  posts,
		nextID: 1,
	}
}

func (s *GroupMemoryStorage) CreateGroup(title, slug, description string) (*models.Group, error) {
	if slug == "" {
		slug = models.SlugForTitle(title)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.slugs[slug]; exists {
		return nil, fmt.Errorf("group with slug %s already exists", slug)
	}

	id := s.nextID
	s.nextID++

	g := &models.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	g.ID = id
	g.CreatedAt = time.Now()

	s.groups[id] = g
	s.slugs[slug] = id

	cp := *g
	return &cp, nil
}

func (s *GroupMemoryStorage) GetGroupBySlug(slug string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.slugs[slug]
	if !exists {
		return nil, group.ErrNotFound
	}

	cp := *s.groups[id]
	return &cp, nil
}

func (s *GroupMemoryStorage) GetGroupByID(id uint) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, exists := s.groups[id]
	if !exists {
		return nil, group.ErrNotFound
	}

	cp := *g
	return &cp, nil
}

func (s *GroupMemoryStorage) DeleteGroup(id uint) error {
	s.mu.Lock()

	g, exists := s.groups[id]
	if !exists {
		s.mu.Unlock()
		return group.ErrNotFound
	}

	delete(s.slugs, g.Slug)
	delete(s.groups, id)
	s.mu.Unlock()

	// Посты группы остаются, ссылка на группу обнуляется
	s.posts.detachGroup(id)
	return nil
}
