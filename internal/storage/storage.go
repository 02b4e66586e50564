package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rioporto/v5-rioporto-sub007/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures the user-directory operations the auth service needs.
// Email lookup is exact match.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
