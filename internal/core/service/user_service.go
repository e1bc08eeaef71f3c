package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rolecall/identity-service/internal/core/domain"
	"github.com/rolecall/identity-service/internal/core/ports"
)

type userService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

// NewUserService returns a UserService implementation backed by repo.
func NewUserService(repo ports.UserRepository, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, log: log}
}

// List returns every user joined with its role. The query runs fresh on
// each call; nothing is cached between requests.
func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

// Get returns a single user projection or domain.ErrUserNotFound.
func (s *userService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
