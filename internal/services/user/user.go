// Package services содержит бизнес-логику просмотра и поиска пользователей.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/entercode/education-backend/internal/lib/errs"
	"github.com/entercode/education-backend/internal/models"
)

// UserRepository определяет методы хранилища для чтения пользователей.
type UserRepository interface {
	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// SearchUsers ищет пользователей по имени, фамилии или username.
	SearchUsers(ctx context.Context, q string) ([]*models.User, error)
}

// UserService реализует операции просмотра пользователей.
type UserService struct {
	repo UserRepository
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List возвращает всех пользователей платформы.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	const op = "services.user.List"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// GetProfile возвращает профиль пользователя по username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	const op = "services.user.GetProfile"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Search ищет пользователей по подстроке в имени, фамилии или username.
// Пустой запрос возвращает errs.ErrValidation.
func (s *UserService) Search(ctx context.Context, query string) ([]*models.User, error) {
	const op = "services.user.Search"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%s: empty search query: %w", op, errs.ErrValidation)
	}
	users, err := s.repo.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}
