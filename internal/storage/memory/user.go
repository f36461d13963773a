package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/user"
	"github.com/VitaminP8/postline/models"
	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	mu        sync.Mutex
	users     map[uint]*models.User
	usernames map[string]uint // username -> id
	emails    map[string]uint
	nextID    uint
	cascades  []func(userID uint)
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:     make(map[uint]*models.User),
		usernames: make(map[string]uint),
		emails:    make(map[string]uint),
		nextID:    1,
	}
}

func (s *UserMemoryStorage) RegisterUser(username, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernames[username]; exists {
		return nil, fmt.Errorf("user with username %s already exists", username)
	}
	if _, exists := s.emails[email]; exists {
		return nil, fmt.Errorf("user with email %s already exists", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := s.nextID
	s.nextID++

	u := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	u.ID = id
	u.CreatedAt = time.Now()

	s.users[id] = u
	s.usernames[username] = id
	s.emails[email] = id

	return copyUser(u), nil
}

func (s *UserMemoryStorage) LoginUser(username, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.usernames[username]
	if !exists {
		return "", user.ErrNotFound
	}
	u := s.users[id]

	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		return "", user.ErrInvalidPassword
	}

	token, err := auth.IssueToken(u.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}

func (s *UserMemoryStorage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.usernames[username]
	if !exists {
		return nil, user.ErrNotFound
	}

	return copyUser(s.users[id]), nil
}

func (s *UserMemoryStorage) GetUserByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return nil, user.ErrNotFound
	}

	return copyUser(u), nil
}

func (s *UserMemoryStorage) DeleteUser(id uint) error {
	s.mu.Lock()

	u, exists := s.users[id]
	if !exists {
		s.mu.Unlock()
		return user.ErrNotFound
	}

	delete(s.usernames, u.Username)
	delete(s.emails, u.Email)
	delete(s.users, id)

	cascades := make([]func(uint), len(s.cascades))
	copy(cascades, s.cascades)
	// Каскады зовут чужие мьютексы — выполняем их без своего
	s.mu.Unlock()

	// Посты, комментарии и подписки удаляют связанные хранилища
	for _, cascade := range cascades {
		cascade(id)
	}

	return nil
}

// OnDeleteUser регистрирует каскад, выполняемый при удалении пользователя
func (s *UserMemoryStorage) OnDeleteUser(cascade func(userID uint)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cascades = append(s.cascades, cascade)
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}
