package ports

import (
	"context"

	"github.com/rolecall/identity-service/internal/core/domain"
)

// UserService exposes the read side of the user catalog.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID int64) (*domain.User, error)
}
