package service

import (
	"StudySync/internal/model"
	"StudySync/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Размер таблицы лидеров по умолчанию и максимальный.
const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

// UserService — регистрация, вход и начисление XP.
type UserService struct {
	repo repo.UserRepository
	// XP меняется по схеме "прочитать-изменить-записать", сериализуем по пользователю
	xpLocks repo.KeyedMutex
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя с bcrypt-хешем пароля.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, validationf("username is required")
	}
	if !strings.Contains(email, "@") {
		return nil, validationf("email %q is invalid", email)
	}
	if password == "" {
		return nil, validationf("password is required")
	}

	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Avatar:   model.DefaultAvatar,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	return user, err
}

// Login проверяет пароль пользователя.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get возвращает пользователя или repo.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", repo.ErrNotFound, id)
	}
	return user, nil
}

// AddXP прибавляет delta к XP пользователя; результат не опускается ниже нуля.
func (s *UserService) AddXP(ctx context.Context, id string, delta int) (*model.User, error) {
	unlock := s.xpLocks.Lock(id)
	defer unlock()

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateUserXP(ctx, id, max(0, user.XP+delta))
}

// Leaderboard возвращает пользователей с наибольшим XP.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	return s.repo.ListUsersByXP(ctx, min(limit, MaxLeaderboardSize))
}
