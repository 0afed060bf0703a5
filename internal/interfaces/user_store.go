package interfaces

import (
	"context"
	"errors"

	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

var (
	// ErrUserNotFound means no user exists for the given key.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken means a user with that email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// UserStore is the persistence contract for authentication identities.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, user models.User) error

	// GetUserByEmail returns the user registered with the given email.
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}
