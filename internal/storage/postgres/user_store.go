package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/models"
)

// UserStore is the postgres implementation of interfaces.UserStore.
type UserStore struct {
	db *sql.DB
}

// NewUserStore wraps an open database handle.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a new user; the unique index on email maps duplicates to
// interfaces.ErrEmailTaken.
func (s *UserStore) CreateUser(ctx context.Context, user models.User) error {
	const query = `INSERT INTO users (id, email, password_hash, created_at)
	VALUES ($1, lower($2), $3, $4)`

	_, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return interfaces.ErrEmailTaken
	}
	return err
}

// GetUserByEmail returns the user registered with the given email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT id, email, password_hash, created_at
	FROM users WHERE email = lower($1)`

	var user models.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, interfaces.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

var _ interfaces.UserStore = (*UserStore)(nil)
