package ports

import (
	"context"

	"github.com/rolecall/identity-service/internal/core/domain"
)

// UserRepository defines the interface for user and role persistence.
type UserRepository interface {
	// Provision creates the user atomically, creating the role on first
	// use. Either both rows commit or neither does.
	Provision(ctx context.Context, username, passwordHash, roleName string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, userID int64) (*domain.User, error)
	// FindByUsername returns the full account row including the password
	// hash. Authentication only; never exposed through a handler.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
}
