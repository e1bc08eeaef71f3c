package ports

import (
	"context"

	"github.com/rolecall/identity-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, roleName string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
